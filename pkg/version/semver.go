package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SemverOracle implements Oracle with Masterminds semver. Constraint groups are
// translated to the library's native "," (AND) and "||" (OR) syntax.
type SemverOracle struct{}

func parseSemver(v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(strings.TrimSpace(v))
	if err != nil {
		return nil, invalidVersion(v, err)
	}
	return parsed, nil
}

// Compare implements Oracle.
func (SemverOracle) Compare(a, b string) (int, error) {
	va, err := parseSemver(a)
	if err != nil {
		return 0, err
	}
	vb, err := parseSemver(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// Satisfies implements Oracle.
func (SemverOracle) Satisfies(v, constraint string) (bool, error) {
	groups := splitAlternatives(constraint)
	alts := make([]string, 0, len(groups))
	for _, terms := range groups {
		if len(terms) == 0 {
			return false, invalidConstraint(constraint, nil)
		}
		alts = append(alts, strings.Join(terms, ", "))
	}

	c, err := semver.NewConstraint(strings.Join(alts, " || "))
	if err != nil {
		return false, invalidConstraint(constraint, err)
	}
	parsed, err := parseSemver(v)
	if err != nil {
		return false, err
	}
	return c.Check(parsed), nil
}
