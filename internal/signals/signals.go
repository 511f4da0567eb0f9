// Package signals explains a lead score with short buying-intent notes.
package signals

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/lead-intel/internal/model"
)

// MaxSignals is the most signals Generate returns.
const MaxSignals = 5

var (
	aiTerms    = []string{"ai", "artificial intelligence", "machine learning", "gpt"}
	saasTerms  = []string{"saas", "software as a service"}
	salesTerms = []string{"crm", "sales", "lead generation", "marketing automation", "customer engagement"}
)

// Generate returns up to MaxSignals notes in priority order, using now to
// compute company age. It reads only what is already on lead.
func Generate(lead *model.Lead, now time.Time) []string {
	var out []string
	c := lead.CompanyData

	if len(c.Keywords) > 0 {
		keywords := make([]string, len(c.Keywords))
		for i, k := range c.Keywords {
			keywords[i] = strings.ToLower(k)
		}
		if anyContains(keywords, aiTerms) {
			out = append(out, "🤖 AI/ML-powered company")
		}
		if anyContains(keywords, saasTerms) {
			out = append(out, "☁️ SaaS business model")
		}
		if anyContains(keywords, salesTerms) {
			out = append(out, "🎯 Sales/Marketing tech company")
		}
	}

	switch n := c.EmployeesCount; {
	case n >= 100 && n <= 500:
		out = append(out, fmt.Sprintf("📈 Mid-market company (%d employees)", n))
	case n > 500:
		out = append(out, fmt.Sprintf("🏢 Enterprise scale (%d+ employees)", n))
	case n >= 50 && n < 100:
		out = append(out, fmt.Sprintf("🚀 Growing startup (%d employees)", n))
	}

	if len(c.Industries) > 0 {
		industry := c.Industries[0]
		lower := strings.ToLower(industry)
		if strings.Contains(lower, "technology") || strings.Contains(lower, "software") {
			out = append(out, "💻 Tech industry: "+industry)
		} else {
			out = append(out, "🏭 Industry: "+industry)
		}
	}

	if c.FoundedYear > 0 {
		age := now.Year() - c.FoundedYear
		switch {
		case age <= 3:
			out = append(out, fmt.Sprintf("🆕 Early-stage startup (%d years old)", age))
		case age >= 4 && age <= 8:
			out = append(out, fmt.Sprintf("📊 Growth-stage company (%d years old)", age))
		case age > 15:
			out = append(out, fmt.Sprintf("🏛️ Established company (%d+ years)", age))
		}
	}

	if ci := lead.ContactInfo; ci.Email != "" && ci.EmailConfidence > 0 {
		switch {
		case ci.EmailConfidence >= 90:
			out = append(out, fmt.Sprintf("✅ Verified email (%d%% confidence)", ci.EmailConfidence))
		case ci.EmailConfidence >= 70:
			out = append(out, fmt.Sprintf("📧 Probable email (%d%% confidence)", ci.EmailConfidence))
		}
	}

	if c.Website != "" {
		out = append(out, "🌐 Active website presence")
	}

	if len(out) == 0 {
		out = append(out, "👤 Active LinkedIn profile")
		if lead.Title != "" && lead.Company != "" {
			out = append(out, "✓ Complete profile information")
		}
	}

	if len(out) > MaxSignals {
		out = out[:MaxSignals]
	}
	return out
}

func anyContains(values, terms []string) bool {
	for _, v := range values {
		for _, t := range terms {
			if strings.Contains(v, t) {
				return true
			}
		}
	}
	return false
}
