// Package scorer ranks enriched leads from 0 to 100 with an additive,
// rule-driven model and explains each factor's contribution.
package scorer

import (
	"strings"

	"github.com/sells-group/lead-intel/internal/model"
)

// Scorer applies a fixed set of Rules. It is safe for concurrent use.
type Scorer struct {
	rules Rules
}

// New creates a Scorer for rules.
func New(rules Rules) *Scorer {
	return &Scorer{rules: rules}
}

// Default creates a Scorer with DefaultRules.
func Default() *Scorer {
	return New(DefaultRules())
}

// Rules returns the rules in use.
func (s *Scorer) Rules() Rules { return s.rules }

// Score computes the lead score and its per-factor breakdown. Missing data
// contributes nothing.
func (s *Scorer) Score(lead *model.Lead) (int, model.ScoreBreakdown) {
	r := s.rules
	var b model.ScoreBreakdown

	var seniority model.Seniority
	if lead.PersonDetails != nil {
		seniority = lead.PersonDetails.Seniority
	}
	b.Title = s.ScoreTitle(lead.Title, seniority)

	c := lead.CompanyData
	for _, tier := range r.Company.Sizes {
		if c.EmployeesCount > tier.Above {
			b.Company = tier.Points
			break
		}
	}
	if c.AnnualGrowthRate > r.Company.GrowthThreshold {
		b.Company += r.Company.GrowthBonus
	}

	if c.FundingTotal > r.Financial.FundingAbove {
		b.Financial += r.Financial.FundingPoints
	}
	if c.RevenueNumber > r.Financial.RevenueAbove {
		b.Financial += r.Financial.RevenuePoints
	}

	b.Industry = s.scoreIndustry(c)
	b.Technology = s.scoreTechnology(c.Technologies)
	b.Engagement = r.Engagement[lead.ConnectionDegree]

	ci := lead.ContactInfo
	if ci.Email != "" && ci.EmailConfidence > r.Quality.ConfidenceAbove {
		b.DataQuality += r.Quality.EmailPoints
	}
	if ci.Sources > 0 {
		b.DataQuality += r.Quality.SourcesPoints
	}

	total := r.Base + b.Title + b.Company + b.Financial + b.Industry + b.Technology + b.Engagement + b.DataQuality
	return clamp(total, r.Max), b
}

// ScoreTitle scores seniority. A directory seniority tag wins over title
// keywords; either way a sales-facing department adds a bonus up to the cap.
// An empty title scores 0.
func (s *Scorer) ScoreTitle(title string, seniority model.Seniority) int {
	if title == "" {
		return 0
	}
	r := s.rules.Title
	upper := strings.ToUpper(title)

	score := 0
	if seniority != "" {
		p, ok := r.Seniority[strings.ToLower(string(seniority))]
		if !ok {
			p = r.UnknownSeniority
		}
		score = p
	} else {
		for _, tier := range r.Tiers {
			if containsAny(upper, tier.Terms) {
				score = tier.Points
				break
			}
		}
	}

	if containsAny(upper, r.Departments) {
		score = min(score+r.DepartmentBonus, r.Cap)
	}
	return score
}

// QuickScore is the badge score shown next to search results, where only a
// headline is known.
func (s *Scorer) QuickScore(headline string) int {
	if headline == "" {
		return 50
	}
	return clamp(40+s.ScoreTitle(headline, ""), 100)
}

func (s *Scorer) scoreIndustry(c model.CompanyProfile) int {
	if c.Industry == "" {
		return 0
	}
	r := s.rules.Industry
	industry := strings.ToLower(c.Industry)
	for _, t := range r.Targets {
		if strings.Contains(industry, strings.ToLower(t)) {
			return r.TargetPoints
		}
	}
	for _, kw := range c.Keywords {
		kw = strings.ToLower(kw)
		for _, want := range r.Keywords {
			if kw == strings.ToLower(want) {
				return r.KeywordPoints
			}
		}
	}
	return 0
}

func (s *Scorer) scoreTechnology(techs []string) int {
	r := s.rules.Technology
	matched := 0
	for _, tech := range techs {
		tech = strings.ToLower(tech)
		for _, rel := range r.Relevant {
			if strings.Contains(tech, strings.ToLower(rel)) {
				matched++
				break
			}
		}
	}
	return min(matched*r.Points, r.Cap)
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func clamp(n, hi int) int {
	return max(0, min(n, hi))
}
