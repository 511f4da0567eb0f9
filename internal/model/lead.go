package model

import "time"

// RawProfile is the best-effort text captured from a profile page.
type RawProfile struct {
	Name             string `json:"name" yaml:"name" validate:"required,max=200"`
	Headline         string `json:"headline" yaml:"headline" validate:"max=500"`
	ConnectionDegree string `json:"connection_degree,omitempty" yaml:"connection_degree,omitempty" validate:"omitempty,max=8"`
	ProfileURL       string `json:"profile_url,omitempty" yaml:"profile_url,omitempty" validate:"omitempty,url"`
	Title            string `json:"title,omitempty" yaml:"title,omitempty"`
	Company          string `json:"company,omitempty" yaml:"company,omitempty"`
	Location         string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Profile is a RawProfile whose title and company have been cleaned.
type Profile struct {
	Name             string `json:"name" yaml:"name"`
	Headline         string `json:"headline" yaml:"headline"`
	ConnectionDegree string `json:"connection_degree,omitempty" yaml:"connection_degree,omitempty"`
	ProfileURL       string `json:"profile_url,omitempty" yaml:"profile_url,omitempty"`
	Title            string `json:"title,omitempty" yaml:"title,omitempty"`
	Company          string `json:"company,omitempty" yaml:"company,omitempty"`
	Location         string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Lead is the terminal enriched and scored record.
type Lead struct {
	Profile `yaml:",inline"`

	Domain        string            `json:"domain,omitempty" yaml:"domain,omitempty"`
	ContactInfo   ContactInfo       `json:"contact_info" yaml:"contact_info"`
	CompanyData   CompanyProfile    `json:"company_data" yaml:"company_data"`
	PersonDetails *PersonProfile    `json:"person_details,omitempty" yaml:"person_details,omitempty"`
	Score         int               `json:"score" yaml:"score"`
	Breakdown     ScoreBreakdown    `json:"breakdown" yaml:"breakdown"`
	BuyingSignals []string          `json:"buying_signals" yaml:"buying_signals"`
	Basic         bool              `json:"basic,omitempty" yaml:"basic,omitempty"`
	Providers     map[string]string `json:"providers,omitempty" yaml:"providers,omitempty"`
	EnrichedAt    time.Time         `json:"enriched_at" yaml:"enriched_at"`
}

// ContactInfo holds the lead's email and how much to trust it.
type ContactInfo struct {
	Email           string `json:"email" yaml:"email"`
	EmailConfidence int    `json:"email_confidence" yaml:"email_confidence"`
	EmailSource     string `json:"email_source" yaml:"email_source"`
	Sources         int    `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Socials holds company social profile URLs.
type Socials struct {
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	Facebook string `json:"facebook,omitempty" yaml:"facebook,omitempty"`
}

// CompanyProfile is the normalized company-directory record.
type CompanyProfile struct {
	Name             string   `json:"name,omitempty" yaml:"name,omitempty"`
	Domain           string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	EmployeesCount   int      `json:"employees_count" yaml:"employees_count"`
	EmployeesRange   string   `json:"employees_range" yaml:"employees_range"`
	Industry         string   `json:"industry" yaml:"industry"`
	Industries       []string `json:"industries,omitempty" yaml:"industries,omitempty"`
	Keywords         []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Technologies     []string `json:"technologies" yaml:"technologies"`
	FundingTotal     float64  `json:"funding_total" yaml:"funding_total"`
	FundingStage     string   `json:"funding_stage,omitempty" yaml:"funding_stage,omitempty"`
	Revenue          string   `json:"revenue" yaml:"revenue"`
	RevenueRange     string   `json:"revenue_range,omitempty" yaml:"revenue_range,omitempty"`
	RevenueNumber    float64  `json:"revenue_number" yaml:"revenue_number"`
	FoundedYear      int      `json:"founded_year,omitempty" yaml:"founded_year,omitempty"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	Location         string   `json:"location,omitempty" yaml:"location,omitempty"`
	Phone            string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Website          string   `json:"website,omitempty" yaml:"website,omitempty"`
	Socials          Socials  `json:"socials" yaml:"socials"`
	AlexaRanking     int      `json:"alexa_ranking,omitempty" yaml:"alexa_ranking,omitempty"`
	AnnualGrowthRate float64  `json:"annual_growth_rate" yaml:"annual_growth_rate"`
}

// UnknownCompany returns the placeholder used when no directory matched.
func UnknownCompany() CompanyProfile {
	return CompanyProfile{
		EmployeesRange: Unknown,
		Industry:       Unknown,
		Technologies:   []string{},
		Revenue:        Unknown,
		RevenueRange:   Unknown,
		FundingStage:   Unknown,
	}
}

// Seniority is a coarse role level supplied by a person directory.
type Seniority string

const (
	SeniorityCSuite   Seniority = "c_suite"
	SeniorityVP       Seniority = "vp"
	SeniorityDirector Seniority = "director"
	SeniorityManager  Seniority = "manager"
	SenioritySenior   Seniority = "senior"
	SeniorityEntry    Seniority = "entry"
)

// PersonProfile is the person-directory match for a lead.
type PersonProfile struct {
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	Seniority   Seniority `json:"seniority,omitempty" yaml:"seniority,omitempty"`
	Departments []string  `json:"departments,omitempty" yaml:"departments,omitempty"`
	City        string    `json:"city,omitempty" yaml:"city,omitempty"`
	State       string    `json:"state,omitempty" yaml:"state,omitempty"`
	Country     string    `json:"country,omitempty" yaml:"country,omitempty"`
	LinkedInURL string    `json:"linkedin_url,omitempty" yaml:"linkedin_url,omitempty"`
}

// ScoreBreakdown records how many points each factor contributed.
type ScoreBreakdown struct {
	Title       int `json:"title" yaml:"title"`
	Company     int `json:"company" yaml:"company"`
	Industry    int `json:"industry" yaml:"industry"`
	Technology  int `json:"technology" yaml:"technology"`
	Engagement  int `json:"engagement" yaml:"engagement"`
	DataQuality int `json:"data_quality" yaml:"data_quality"`
	Financial   int `json:"financial" yaml:"financial"`
}

// Stats counters kept per store.
const (
	StatProfilesScanned = "profiles_scanned"
	StatLeadsFound      = "leads_found"
)
