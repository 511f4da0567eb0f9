package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Lead is a Salesforce Lead record.
type Lead struct {
	ID                string `json:"Id,omitempty" salesforce:"Id"`
	FirstName         string `json:"FirstName" salesforce:"FirstName"`
	LastName          string `json:"LastName" salesforce:"LastName"`
	Company           string `json:"Company" salesforce:"Company"`
	Title             string `json:"Title" salesforce:"Title"`
	Email             string `json:"Email" salesforce:"Email"`
	Website           string `json:"Website" salesforce:"Website"`
	Industry          string `json:"Industry" salesforce:"Industry"`
	NumberOfEmployees int    `json:"NumberOfEmployees" salesforce:"NumberOfEmployees"`
	LeadSource        string `json:"LeadSource" salesforce:"LeadSource"`
	Rating            string `json:"Rating" salesforce:"Rating"`
	Description       string `json:"Description" salesforce:"Description"`
}

// leadFields are the SOQL fields selected for Lead queries.
var leadFields = []string{
	"Id", "FirstName", "LastName", "Company", "Title", "Email", "Website",
	"Industry", "NumberOfEmployees", "LeadSource", "Rating", "Description",
}

// Fields returns the writable fields of l, omitting empty values so an
// update never blanks an existing field.
func (l Lead) Fields() map[string]any {
	m := make(map[string]any, len(leadFields))
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set("FirstName", l.FirstName)
	set("LastName", l.LastName)
	set("Company", l.Company)
	set("Title", l.Title)
	set("Email", l.Email)
	set("Website", l.Website)
	set("Industry", l.Industry)
	set("LeadSource", l.LeadSource)
	set("Rating", l.Rating)
	set("Description", l.Description)
	if l.NumberOfEmployees > 0 {
		m["NumberOfEmployees"] = l.NumberOfEmployees
	}
	return m
}

// FindLeadByEmail queries Salesforce for a Lead with the given email.
// Returns nil if no lead is found.
func FindLeadByEmail(ctx context.Context, c Client, email string) (*Lead, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM Lead WHERE Email = '%s' LIMIT 1",
		strings.Join(leadFields, ", "),
		escapeSoql(email),
	)

	var leads []Lead
	if err := c.Query(ctx, soql, &leads); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find lead by email %s", email))
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return &leads[0], nil
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
