package export

import (
	"fmt"
	"strings"

	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/pipeline"
	"github.com/sells-group/lead-intel/internal/store"
	"github.com/sells-group/lead-intel/pkg/notion"
	"github.com/sells-group/lead-intel/pkg/salesforce"
)

// Rating maps a score onto the Salesforce Lead rating picklist.
func Rating(score int) string {
	switch model.ScoreClass(score) {
	case "high":
		return "Hot"
	case "medium":
		return "Warm"
	default:
		return "Cold"
	}
}

func knownEmail(l *model.Lead) string {
	if l.ContactInfo.Email == pipeline.UnknownEmail {
		return ""
	}
	return l.ContactInfo.Email
}

func known(s string) string {
	if s == model.Unknown {
		return ""
	}
	return s
}

func splitName(name string) (first, last string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func describe(l *model.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lead score %d/100 (%s).", l.Score, model.ScoreClass(l.Score))
	if l.ContactInfo.EmailSource != "" {
		fmt.Fprintf(&b, " Email via %s, %d%% confidence.", l.ContactInfo.EmailSource, l.ContactInfo.EmailConfidence)
	}
	for _, s := range l.BuyingSignals {
		b.WriteString("\n")
		b.WriteString(s)
	}
	return b.String()
}

// SalesforceLead converts a scored lead into a Salesforce Lead record.
// Salesforce requires LastName and Company, so single-word names become
// the last name and a missing company falls back to the directory name.
func SalesforceLead(l *model.Lead, leadSource string) salesforce.Lead {
	first, last := splitName(l.Name)

	company := l.Company
	if company == "" {
		company = l.CompanyData.Name
	}
	if company == "" {
		company = model.Unknown
	}

	var website string
	if l.Domain != "" {
		website = "https://" + l.Domain
	}

	return salesforce.Lead{
		FirstName:         first,
		LastName:          last,
		Company:           company,
		Title:             l.Title,
		Email:             knownEmail(l),
		Website:           website,
		Industry:          known(l.CompanyData.Industry),
		NumberOfEmployees: l.CompanyData.EmployeesCount,
		LeadSource:        leadSource,
		Rating:            Rating(l.Score),
		Description:       describe(l),
	}
}

// NotionPage converts a scored lead into a row of the Notion leads database.
func NotionPage(l *model.Lead) notion.LeadPage {
	return notion.LeadPage{
		Key:        store.Key(l),
		Name:       l.Name,
		Title:      l.Title,
		Company:    l.Company,
		Email:      knownEmail(l),
		Score:      l.Score,
		Rating:     Rating(l.Score),
		Domain:     l.Domain,
		Industry:   known(l.CompanyData.Industry),
		Location:   l.Location,
		ProfileURL: l.ProfileURL,
		Signals:    l.BuyingSignals,
	}
}
