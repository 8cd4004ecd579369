//go:generate mockgen -destination=./mocks/verify.go . Verifier

// Package verify checks downloaded plugin artifacts before they are trusted.
package verify

import (
	"context"
	"fmt"
	"os"

	"github.com/pf4j/pf4j-update/pkg/download"
	pkgerrors "github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/model"
)

// Context identifies the release a downloaded file claims to be.
type Context struct {
	PluginID string
	Release  *model.PluginRelease
}

// Verifier inspects a downloaded file. A nil error means the file passed.
// Failures wrap errors.ErrVerificationFailed.
type Verifier interface {
	Verify(ctx context.Context, vc Context, path string) error
}

// Func adapts a plain function to Verifier.
type Func func(ctx context.Context, vc Context, path string) error

// Verify implements Verifier.
func (f Func) Verify(ctx context.Context, vc Context, path string) error {
	return f(ctx, vc, path)
}

// BasicVerifier requires the file to exist and be non-empty.
type BasicVerifier struct{}

// Verify implements Verifier.
func (BasicVerifier) Verify(_ context.Context, vc Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return failf(vc, "cannot read %s: %v", path, err)
	}
	if !info.Mode().IsRegular() {
		return failf(vc, "%s is not a regular file", path)
	}
	if info.Size() == 0 {
		return failf(vc, "%s is empty", path)
	}
	return nil
}

// CompoundVerifier runs its verifiers in order and stops at the first failure.
type CompoundVerifier struct {
	verifiers []Verifier
}

// NewCompoundVerifier builds a chain from vs. Nil entries are skipped.
func NewCompoundVerifier(vs ...Verifier) *CompoundVerifier {
	c := &CompoundVerifier{}
	for _, v := range vs {
		if v != nil {
			c.verifiers = append(c.verifiers, v)
		}
	}
	return c
}

// Verify implements Verifier.
func (c *CompoundVerifier) Verify(ctx context.Context, vc Context, path string) error {
	for _, v := range c.verifiers {
		if err := v.Verify(ctx, vc, path); err != nil {
			return err
		}
	}
	return nil
}

// Default returns the basic check followed by the SHA-512 check, fetching
// remote digests through opener.
func Default(opener download.Opener) *CompoundVerifier {
	return NewCompoundVerifier(BasicVerifier{}, NewSha512Verifier(opener))
}

func failf(vc Context, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if vc.PluginID != "" {
		ver := ""
		if vc.Release != nil {
			ver = "@" + vc.Release.Version
		}
		msg = fmt.Sprintf("plugin %s%s: %s", vc.PluginID, ver, msg)
	}
	return pkgerrors.Wrap(pkgerrors.ErrVerificationFailed, msg)
}
