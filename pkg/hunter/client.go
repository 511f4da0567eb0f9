// Package hunter is a client for the Hunter.io email finder and domain search APIs.
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.hunter.io"

// Client looks up emails and company domains on Hunter.
type Client interface {
	// FindEmail returns the most likely address for fullName at domain, or
	// nil when Hunter has no match.
	FindEmail(ctx context.Context, fullName, domain string) (*EmailResult, error)
	// DomainSearch returns the primary domain for a company name, or "" when
	// Hunter has none.
	DomainSearch(ctx context.Context, company string) (string, error)
}

// EmailResult is the useful part of an email-finder response.
type EmailResult struct {
	Email     string   `json:"email"`
	Score     int      `json:"score"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Position  string   `json:"position"`
	Sources   []Source `json:"sources"`
}

// Source is a public page where Hunter saw the address.
type Source struct {
	Domain      string `json:"domain"`
	URI         string `json:"uri"`
	ExtractedOn string `json:"extracted_on"`
}

type emailFinderResponse struct {
	Data *EmailResult `json:"data"`
}

type domainSearchResponse struct {
	Data *struct {
		Domain       string `json:"domain"`
		Organization string `json:"organization"`
	} `json:"data"`
}

// APIError is a non-200 response from Hunter.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hunter: unexpected status %d: %s", e.StatusCode, e.Body)
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

// NewClient creates a Hunter API client.
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
		limiter: rate.NewLimiter(10, 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) FindEmail(ctx context.Context, fullName, domain string) (*EmailResult, error) {
	q := url.Values{}
	q.Set("domain", domain)
	q.Set("full_name", fullName)

	var resp emailFinderResponse
	if err := c.get(ctx, "/v2/email-finder", q, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.Email == "" {
		return nil, nil
	}
	return resp.Data, nil
}

func (c *httpClient) DomainSearch(ctx context.Context, company string) (string, error) {
	q := url.Values{}
	q.Set("company", company)

	var resp domainSearchResponse
	if err := c.get(ctx, "/v2/domain-search", q, &resp); err != nil {
		return "", err
	}
	if resp.Data == nil {
		return "", nil
	}
	return resp.Data.Domain, nil
}

func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "hunter: rate limit")
		}
	}

	q.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "hunter: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "hunter: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "hunter: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "hunter: unmarshal response")
	}
	return nil
}
