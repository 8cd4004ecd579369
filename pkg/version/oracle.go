// Package version provides the version comparison and constraint checks used to
// pick compatible plugin releases.
package version

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pf4j/pf4j-update/pkg/errors"
)

// AnyVersion is the host version that bypasses every release constraint.
const AnyVersion = "0.0.0"

// Oracle compares versions and evaluates constraint expressions.
type Oracle interface {
	// Compare returns -1, 0 or 1 when a is lower than, equal to or greater than b.
	Compare(a, b string) (int, error)

	// Satisfies reports whether version matches the constraint expression.
	Satisfies(version, constraint string) (bool, error)
}

// Scheme names an Oracle implementation.
type Scheme string

const (
	SchemeSemver    Scheme = "semver"
	SchemeHashicorp Scheme = "hashicorp"
)

// NewOracle returns the oracle for the given scheme.
func NewOracle(scheme Scheme) (Oracle, error) {
	switch scheme {
	case SchemeSemver, "":
		return SemverOracle{}, nil
	case SchemeHashicorp:
		return HashicorpOracle{}, nil
	default:
		return nil, pkgerrors.ErrInvalidSchemeWithDetails(string(scheme))
	}
}

// splitAlternatives splits a pf4j style expression (">1.0 & <2.0 | >=3.0") into
// OR groups, each holding AND terms.
func splitAlternatives(expr string) [][]string {
	expr = strings.ReplaceAll(expr, "||", "|")
	var groups [][]string
	for _, alt := range strings.Split(expr, "|") {
		alt = strings.ReplaceAll(alt, "&&", "&")
		alt = strings.ReplaceAll(alt, ",", "&")
		var terms []string
		for _, term := range strings.Split(alt, "&") {
			term = strings.TrimSpace(term)
			if term != "" {
				terms = append(terms, term)
			}
		}
		groups = append(groups, terms)
	}
	return groups
}

func invalidConstraint(expr string, err error) error {
	if err == nil {
		return fmt.Errorf("%q: %w", expr, pkgerrors.ErrInvalidConstraint)
	}
	return fmt.Errorf("%q: %w: %v", expr, pkgerrors.ErrInvalidConstraint, err)
}

func invalidVersion(v string, err error) error {
	return fmt.Errorf("%q: %w: %v", v, pkgerrors.ErrInvalidVersion, err)
}
