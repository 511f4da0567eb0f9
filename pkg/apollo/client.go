// Package apollo is a client for the Apollo.io organization and people search APIs.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.apollo.io"

// Client searches Apollo for companies and people.
type Client interface {
	// SearchOrganization returns the best match for a company name, or nil.
	SearchOrganization(ctx context.Context, name string) (*Organization, error)
	// SearchPerson returns the best match for a person at a company, or nil.
	SearchPerson(ctx context.Context, name, company string) (*Person, error)
}

// Organization is the subset of an Apollo organization record we use.
type Organization struct {
	Name                  string   `json:"name"`
	PrimaryDomain         string   `json:"primary_domain"`
	WebsiteURL            string   `json:"website_url"`
	EstimatedNumEmployees int      `json:"estimated_num_employees"`
	Industry              string   `json:"industry"`
	Industries            []string `json:"industries"`
	Keywords              []string `json:"keywords"`
	TechnologyNames       []string `json:"technology_names"`
	FoundedYear           int      `json:"founded_year"`
	ShortDescription      string   `json:"short_description"`
	City                  string   `json:"city"`
	State                 string   `json:"state"`
	Country               string   `json:"country"`
	Phone                 string   `json:"phone"`
	SanitizedPhone        string   `json:"sanitized_phone"`
	LinkedInURL           string   `json:"linkedin_url"`
	TwitterURL            string   `json:"twitter_url"`
	FacebookURL           string   `json:"facebook_url"`
	AlexaRanking          int      `json:"alexa_ranking"`
	AnnualRevenue         float64  `json:"annual_revenue"`
	TotalFunding          float64  `json:"total_funding"`
	LatestFundingStage    string   `json:"latest_funding_stage"`
}

// Person is the subset of an Apollo person record we use.
type Person struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Seniority   string   `json:"seniority"`
	Departments []string `json:"departments"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Country     string   `json:"country"`
	LinkedInURL string   `json:"linkedin_url"`
}

type organizationSearchRequest struct {
	Name    string `json:"q_organization_name"`
	PerPage int    `json:"per_page"`
}

type organizationSearchResponse struct {
	Organizations []Organization `json:"organizations"`
}

type peopleSearchRequest struct {
	PersonName       string `json:"q_person_name"`
	OrganizationName string `json:"q_organization_name,omitempty"`
	PerPage          int    `json:"per_page"`
}

type peopleSearchResponse struct {
	People []Person `json:"people"`
}

// APIError is a non-200 response from Apollo.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apollo: unexpected status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit throttles requests to rps per second. Zero disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an Apollo API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchOrganization(ctx context.Context, name string) (*Organization, error) {
	var resp organizationSearchResponse
	req := organizationSearchRequest{Name: name, PerPage: 1}
	if err := c.post(ctx, "/v1/organizations/search", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Organizations) == 0 {
		return nil, nil
	}
	return &resp.Organizations[0], nil
}

func (c *httpClient) SearchPerson(ctx context.Context, name, company string) (*Person, error) {
	var resp peopleSearchResponse
	req := peopleSearchRequest{PersonName: name, OrganizationName: company, PerPage: 1}
	if err := c.post(ctx, "/v1/people/search", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.People) == 0 {
		return nil, nil
	}
	return &resp.People[0], nil
}

func (c *httpClient) post(ctx context.Context, path string, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "apollo: rate limit")
		}
	}

	body, err := json.Marshal(in)
	if err != nil {
		return eris.Wrap(err, "apollo: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "apollo: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "apollo: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "apollo: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "apollo: unmarshal response")
	}
	return nil
}
