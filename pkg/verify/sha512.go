package verify

import (
	"context"
	_ "crypto/sha512" // registers SHA-512 for go-digest
	"io"
	"os"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/download"
	"github.com/pf4j/pf4j-update/pkg/model"
)

// maxDigestFileSize bounds how much of a remote digest file is read.
const maxDigestFileSize = 64 << 10

// Sha512Verifier compares the file's SHA-512 against the digest the release
// declares. A release without a digest passes.
type Sha512Verifier struct {
	opener download.Opener
}

// NewSha512Verifier returns a verifier that fetches remote and sidecar digest
// files through opener.
func NewSha512Verifier(opener download.Opener) *Sha512Verifier {
	return &Sha512Verifier{opener: opener}
}

// Verify implements Verifier.
func (v *Sha512Verifier) Verify(ctx context.Context, vc Context, path string) error {
	if vc.Release == nil {
		return nil
	}
	sum := vc.Release.Checksum()
	if sum.Kind == model.ChecksumNone {
		logger.Debug("No digest declared, skipping checksum", logger.Fields{"plugin": vc.PluginID})
		return nil
	}

	expected, err := v.expectedDigest(ctx, vc, sum)
	if err != nil {
		return err
	}

	actual, err := FileDigest(path)
	if err != nil {
		return failf(vc, "cannot hash %s: %v", path, err)
	}

	if actual != expected {
		return failf(vc, "sha512 mismatch: expected %s, got %s", expected.Encoded(), actual.Encoded())
	}
	logger.Debug("Checksum verified", logger.Fields{"plugin": vc.PluginID, "digest": actual.String()})
	return nil
}

func (v *Sha512Verifier) expectedDigest(ctx context.Context, vc Context, sum model.Checksum) (digest.Digest, error) {
	raw := sum.Value
	if sum.Kind != model.ChecksumInline {
		u, ok := sum.DigestURL(vc.Release.URL)
		if !ok {
			return "", failf(vc, "cannot locate digest file for %s", vc.Release.URL)
		}
		if v.opener == nil {
			return "", failf(vc, "no transport for digest file %s", u)
		}
		rc, err := v.opener.Open(ctx, u)
		if err != nil {
			return "", failf(vc, "cannot fetch digest file %s: %v", u, err)
		}
		defer func() { _ = rc.Close() }()

		data, err := io.ReadAll(io.LimitReader(rc, maxDigestFileSize))
		if err != nil {
			return "", failf(vc, "cannot read digest file %s: %v", u, err)
		}
		// sha512sum output: "<hex>  <filename>"
		fields := strings.Fields(string(data))
		if len(fields) == 0 {
			return "", failf(vc, "digest file %s is empty", u)
		}
		raw = fields[0]
	}

	d := digest.NewDigestFromEncoded(digest.SHA512, strings.ToLower(raw))
	if err := d.Validate(); err != nil {
		return "", failf(vc, "malformed sha512 digest %q: %v", raw, err)
	}
	return d, nil
}

// FileDigest returns the SHA-512 digest of the file at path.
func FileDigest(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	return digest.SHA512.FromReader(f)
}
