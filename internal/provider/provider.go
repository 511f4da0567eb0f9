package provider

import (
	"context"

	"github.com/sells-group/lead-intel/internal/model"
)

// EmailFinder finds the most likely work address for a person at a domain.
type EmailFinder interface {
	FindEmail(ctx context.Context, name, domain string) Result[EmailMatch]
}

// DomainSearcher maps a company name to its primary web domain.
type DomainSearcher interface {
	SearchDomain(ctx context.Context, company string) Result[string]
}

// CompanyDirectory looks up firmographics for a company name.
type CompanyDirectory interface {
	EnrichCompany(ctx context.Context, company string) Result[model.CompanyProfile]
}

// PersonDirectory looks up a person's role and location.
type PersonDirectory interface {
	SearchPerson(ctx context.Context, name, company string) Result[model.PersonProfile]
}

// EmailMatch is an email-finder hit.
type EmailMatch struct {
	Email      string
	Confidence int
	Sources    int
	FirstName  string
	LastName   string
	Position   string
	Source     string
}
