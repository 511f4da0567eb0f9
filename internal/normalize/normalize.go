// Package normalize cleans scraped profile text into a canonical person and
// company record. Nothing here fails: unparseable input is passed through.
package normalize

import (
	"strings"

	"github.com/sells-group/lead-intel/internal/model"
)

// Profile returns the normalized form of raw. Applying it to its own output
// is a no-op.
func Profile(raw model.RawProfile) model.Profile {
	p := model.Profile{
		Name:             collapseSpaces(raw.Name),
		Headline:         strings.TrimSpace(raw.Headline),
		ConnectionDegree: strings.TrimSpace(raw.ConnectionDegree),
		ProfileURL:       strings.TrimSpace(raw.ProfileURL),
		Title:            collapseSpaces(raw.Title),
		Company:          Company(raw.Company),
		Location:         collapseSpaces(raw.Location),
	}

	// A company that cleans down to nothing counts as missing.
	if p.Company == "" && p.Headline != "" {
		if title, company, ok := ParseHeadline(p.Headline); ok {
			p.Title = collapseSpaces(title)
			p.Company = Company(company)
		}
	}
	return p
}

// Reapply runs Profile over an already-normalized record.
func Reapply(p model.Profile) model.Profile {
	return Profile(model.RawProfile(p))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
