// Package domain resolves a company name to its most likely web domain.
package domain

import (
	"context"
	"regexp"
	"strings"

	"github.com/sells-group/lead-intel/internal/normalize"
	"github.com/sells-group/lead-intel/internal/provider"
)

var (
	knownTLD    = regexp.MustCompile(`\.(com|org|net|io|ai|co)$`)
	nonWord     = regexp.MustCompile(`[^\w.]`)
	legalSuffix = regexp.MustCompile(`(inc|llc|ltd|corp|corporation|company|co)$`)
)

// Resolution is the outcome of resolving one company.
type Resolution struct {
	Domain string
	// Derived is true when Domain was guessed from the name rather than
	// returned by the directory.
	Derived bool
	// Lookup is the directory outcome; NotFound when no call was made.
	Lookup provider.Status
}

// Resolver asks a directory for a company's domain and falls back to
// deriving one from the name.
type Resolver struct {
	searcher provider.DomainSearcher
}

// NewResolver creates a Resolver. A nil searcher means derive only.
func NewResolver(searcher provider.DomainSearcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// Resolve returns the company's domain. It returns "" only for an empty
// company; directory failures fall back to Derive.
func (r *Resolver) Resolve(ctx context.Context, company string) Resolution {
	company = strings.TrimSpace(company)
	if company == "" {
		return Resolution{Lookup: provider.StatusNotFound}
	}

	res := provider.NotFound[string]()
	if r != nil && r.searcher != nil {
		res = r.searcher.SearchDomain(ctx, company)
	}

	switch res.Status {
	case provider.StatusOK:
		return Resolution{Domain: res.Value, Lookup: res.Status}
	case provider.StatusNotFound, provider.StatusError:
		return Resolution{Domain: Derive(company), Derived: true, Lookup: res.Status}
	default:
		return Resolution{Domain: Derive(company), Derived: true, Lookup: provider.StatusError}
	}
}

// Derive guesses a domain from a company name: "Acme Inc." becomes
// "acme.com". Names that already end in a common TLD are returned lower-cased.
// A name with no word characters derives "".
func Derive(company string) string {
	s := strings.ToLower(strings.TrimSpace(company))
	if s == "" {
		return ""
	}
	if knownTLD.MatchString(s) {
		return s
	}

	s = nonWord.ReplaceAllString(normalize.Fold(s), "")
	s = strings.TrimRight(s, ".")
	s = knownTLD.ReplaceAllString(s, "")
	s = legalSuffix.ReplaceAllString(s, "")
	s = strings.TrimRight(s, ".")
	if s == "" {
		return ""
	}
	return s + ".com"
}
