package scorer

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rules holds every keyword list, tier and cap the lead score uses.
type Rules struct {
	Base int `yaml:"base"`
	Max  int `yaml:"max"`

	Title      TitleRules      `yaml:"title"`
	Company    CompanyRules    `yaml:"company"`
	Financial  FinancialRules  `yaml:"financial"`
	Industry   IndustryRules   `yaml:"industry"`
	Technology TechnologyRules `yaml:"technology"`
	Engagement map[string]int  `yaml:"engagement"`
	Quality    QualityRules    `yaml:"data_quality"`
}

// TitleRules scores seniority, from a directory tag or from title keywords.
type TitleRules struct {
	Seniority        map[string]int `yaml:"seniority"`
	UnknownSeniority int            `yaml:"unknown_seniority"`
	Tiers            []TitleTier    `yaml:"tiers"`
	Departments      []string       `yaml:"departments"`
	DepartmentBonus  int            `yaml:"department_bonus"`
	Cap              int            `yaml:"cap"`
}

// TitleTier awards Points when an upper-cased title contains any of Terms.
// Tiers are checked in order.
type TitleTier struct {
	Points int      `yaml:"points"`
	Terms  []string `yaml:"terms"`
}

// CompanyRules scores head count and growth.
type CompanyRules struct {
	Sizes           []SizeTier `yaml:"sizes"`
	GrowthThreshold float64    `yaml:"growth_threshold"`
	GrowthBonus     int        `yaml:"growth_bonus"`
}

// SizeTier awards Points when the head count is strictly above Above.
// Tiers are checked in order.
type SizeTier struct {
	Above  int `yaml:"above"`
	Points int `yaml:"points"`
}

// FinancialRules scores funding and revenue.
type FinancialRules struct {
	FundingAbove  float64 `yaml:"funding_above"`
	FundingPoints int     `yaml:"funding_points"`
	RevenueAbove  float64 `yaml:"revenue_above"`
	RevenuePoints int     `yaml:"revenue_points"`
}

// IndustryRules scores industry fit.
type IndustryRules struct {
	Targets       []string `yaml:"targets"`
	TargetPoints  int      `yaml:"target_points"`
	Keywords      []string `yaml:"keywords"`
	KeywordPoints int      `yaml:"keyword_points"`
}

// TechnologyRules scores the company's tech stack.
type TechnologyRules struct {
	Relevant []string `yaml:"relevant"`
	Points   int      `yaml:"points"`
	Cap      int      `yaml:"cap"`
}

// QualityRules scores how trustworthy the contact data is.
type QualityRules struct {
	ConfidenceAbove int `yaml:"confidence_above"`
	EmailPoints     int `yaml:"email_points"`
	SourcesPoints   int `yaml:"sources_points"`
}

// DefaultRules returns the built-in scoring model.
func DefaultRules() Rules {
	return Rules{
		Base: 25,
		Max:  100,
		Title: TitleRules{
			Seniority: map[string]int{
				"c_suite":  25,
				"vp":       22,
				"director": 20,
				"manager":  17,
				"senior":   12,
				"entry":    5,
			},
			UnknownSeniority: 10,
			Tiers: []TitleTier{
				{Points: 25, Terms: []string{"CEO", "CTO", "CFO", "CMO", "COO", "CRO", "CHIEF"}},
				{Points: 22, Terms: []string{"VP", "VICE PRESIDENT"}},
				{Points: 20, Terms: []string{"DIRECTOR"}},
				{Points: 17, Terms: []string{"MANAGER", "HEAD OF"}},
			},
			Departments:     []string{"SALES", "MARKETING", "GROWTH", "REVENUE", "BUSINESS DEVELOPMENT", "CUSTOMER SUCCESS"},
			DepartmentBonus: 3,
			Cap:             25,
		},
		Company: CompanyRules{
			Sizes: []SizeTier{
				{Above: 1000, Points: 10},
				{Above: 100, Points: 15},
				{Above: 10, Points: 8},
			},
			GrowthThreshold: 20,
			GrowthBonus:     5,
		},
		Financial: FinancialRules{
			FundingAbove:  10_000_000,
			FundingPoints: 5,
			RevenueAbove:  10_000_000,
			RevenuePoints: 5,
		},
		Industry: IndustryRules{
			Targets:       []string{"software", "technology", "saas", "internet", "information technology", "computer software"},
			TargetPoints:  10,
			Keywords:      []string{"software", "saas", "technology", "digital"},
			KeywordPoints: 7,
		},
		Technology: TechnologyRules{
			Relevant: []string{"Salesforce", "HubSpot", "AWS", "Google Cloud", "Azure", "Slack", "Microsoft 365", "Zoom"},
			Points:   2,
			Cap:      10,
		},
		Engagement: map[string]int{"1st": 5, "2nd": 3},
		Quality: QualityRules{
			ConfidenceAbove: 90,
			EmailPoints:     3,
			SourcesPoints:   2,
		},
	}
}

// LoadRules reads a YAML rules file on top of DefaultRules. Lists in the
// file replace the defaults; maps are merged.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, eris.Wrapf(err, "scorer: read rules %s", path)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, eris.Wrap(err, "scorer: parse rules")
	}
	if err := rules.Validate(); err != nil {
		return rules, err
	}
	return rules, nil
}

// Validate checks that the rules produce scores within [0, Max].
func (r Rules) Validate() error {
	var errs []string
	if r.Max <= 0 || r.Max > 100 {
		errs = append(errs, "max must be between 1 and 100")
	}
	if r.Base < 0 {
		errs = append(errs, "base must be >= 0")
	}
	if r.Title.Cap < 0 || r.Technology.Cap < 0 {
		errs = append(errs, "caps must be >= 0")
	}
	for i, t := range r.Title.Tiers {
		if t.Points < 0 || len(t.Terms) == 0 {
			errs = append(errs, fmt.Sprintf("title.tiers[%d] needs terms and non-negative points", i))
		}
	}
	for name, p := range r.Title.Seniority {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("title.seniority.%s must be >= 0", name))
		}
	}
	for i, s := range r.Company.Sizes {
		if s.Points < 0 {
			errs = append(errs, fmt.Sprintf("company.sizes[%d].points must be >= 0", i))
		}
	}
	if len(errs) > 0 {
		return eris.Errorf("scorer: invalid rules: %s", strings.Join(errs, "; "))
	}
	return nil
}
