package version

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// HashicorpOracle implements Oracle with hashicorp/go-version. The library has
// no OR operator, so each alternative is checked on its own.
type HashicorpOracle struct{}

// Compare implements Oracle.
func (HashicorpOracle) Compare(a, b string) (int, error) {
	va, err := goversion.NewVersion(strings.TrimSpace(a))
	if err != nil {
		return 0, invalidVersion(a, err)
	}
	vb, err := goversion.NewVersion(strings.TrimSpace(b))
	if err != nil {
		return 0, invalidVersion(b, err)
	}
	return va.Compare(vb), nil
}

// Satisfies implements Oracle.
func (HashicorpOracle) Satisfies(v, constraint string) (bool, error) {
	groups := splitAlternatives(constraint)
	checks := make([]goversion.Constraints, 0, len(groups))
	for _, terms := range groups {
		if len(terms) == 0 {
			return false, invalidConstraint(constraint, nil)
		}
		c, err := goversion.NewConstraint(strings.Join(terms, ", "))
		if err != nil {
			return false, invalidConstraint(constraint, err)
		}
		checks = append(checks, c)
	}

	parsed, err := goversion.NewVersion(strings.TrimSpace(v))
	if err != nil {
		return false, invalidVersion(v, err)
	}
	for _, c := range checks {
		if c.Check(parsed) {
			return true, nil
		}
	}
	return false, nil
}
