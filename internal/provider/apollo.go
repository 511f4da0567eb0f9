package provider

import (
	"context"

	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/pkg/apollo"
)

// Apollo serves CompanyDirectory and PersonDirectory from the Apollo API.
type Apollo struct {
	client apollo.Client
	guard  Guard
}

// NewApollo wraps client. A nil client makes every call NotFound.
func NewApollo(client apollo.Client, g Guard) *Apollo {
	return &Apollo{client: client, guard: g}
}

// EnrichCompany implements CompanyDirectory.
func (a *Apollo) EnrichCompany(ctx context.Context, company string) Result[model.CompanyProfile] {
	if a == nil || a.client == nil || company == "" {
		return NotFound[model.CompanyProfile]()
	}
	return Call(ctx, a.guard, func(ctx context.Context) (model.CompanyProfile, bool, error) {
		org, err := a.client.SearchOrganization(ctx, company)
		if err != nil || org == nil {
			return model.CompanyProfile{}, false, err
		}
		return FormatCompany(org), true, nil
	})
}

// SearchPerson implements PersonDirectory.
func (a *Apollo) SearchPerson(ctx context.Context, name, company string) Result[model.PersonProfile] {
	if a == nil || a.client == nil || name == "" {
		return NotFound[model.PersonProfile]()
	}
	return Call(ctx, a.guard, func(ctx context.Context) (model.PersonProfile, bool, error) {
		p, err := a.client.SearchPerson(ctx, name, company)
		if err != nil || p == nil {
			return model.PersonProfile{}, false, err
		}
		return FormatPerson(p), true, nil
	})
}

// FormatCompany maps an Apollo organization onto a CompanyProfile, filling
// absent attributes with Unknown.
func FormatCompany(o *apollo.Organization) model.CompanyProfile {
	c := model.CompanyProfile{
		Name:           o.Name,
		Domain:         o.PrimaryDomain,
		EmployeesCount: o.EstimatedNumEmployees,
		EmployeesRange: model.EmployeeRange(o.EstimatedNumEmployees),
		Industry:       model.Unknown,
		Industries:     o.Industries,
		Keywords:       o.Keywords,
		Technologies:   []string{},
		FundingTotal:   o.TotalFunding,
		FundingStage:   model.Unknown,
		Revenue:        model.FormatRevenue(o.AnnualRevenue),
		RevenueRange:   revenueRange(o.AnnualRevenue),
		RevenueNumber:  o.AnnualRevenue,
		FoundedYear:    o.FoundedYear,
		Description:    o.ShortDescription,
		Location:       o.Country,
		Phone:          o.Phone,
		Website:        o.WebsiteURL,
		Socials: model.Socials{
			LinkedIn: o.LinkedInURL,
			Twitter:  o.TwitterURL,
			Facebook: o.FacebookURL,
		},
		AlexaRanking: o.AlexaRanking,
	}

	switch {
	case o.Industry != "":
		c.Industry = o.Industry
	case len(o.Industries) > 0:
		c.Industry = o.Industries[0]
	}
	if len(o.TechnologyNames) > 0 {
		c.Technologies = o.TechnologyNames
	}
	if o.LatestFundingStage != "" {
		c.FundingStage = o.LatestFundingStage
	}
	if o.City != "" && o.State != "" {
		c.Location = o.City + ", " + o.State
	}
	if c.Phone == "" {
		c.Phone = o.SanitizedPhone
	}
	return c
}

// FormatPerson maps an Apollo person onto a PersonProfile.
func FormatPerson(p *apollo.Person) model.PersonProfile {
	return model.PersonProfile{
		Title:       p.Title,
		Seniority:   model.Seniority(p.Seniority),
		Departments: p.Departments,
		City:        p.City,
		State:       p.State,
		Country:     p.Country,
		LinkedInURL: p.LinkedInURL,
	}
}

func revenueRange(n float64) string {
	switch {
	case n <= 0:
		return model.Unknown
	case n < 1e6:
		return "<$1M"
	case n < 1e7:
		return "$1M-$10M"
	case n < 5e7:
		return "$10M-$50M"
	case n < 1e8:
		return "$50M-$100M"
	case n < 1e9:
		return "$100M-$1B"
	default:
		return "$1B+"
	}
}
