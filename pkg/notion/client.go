// Package notion writes leads into a Notion database.
package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client is the part of the Notion API the leads database needs. Pages are
// addressed by ID; FindByKey returns "" when no row carries the key.
type Client interface {
	FindByKey(ctx context.Context, dbID, key string) (string, error)
	CreatePage(ctx context.Context, dbID string, props notionapi.Properties) (string, error)
	UpdatePage(ctx context.Context, pageID string, props notionapi.Properties) error
}

// DefaultRPS is Notion's average request allowance per integration.
const DefaultRPS = 3

// Option configures the client.
type Option func(*leadsClient)

// WithRateLimit replaces the default throttle. rps <= 0 disables it.
func WithRateLimit(rps float64) Option {
	return func(c *leadsClient) {
		c.limiter = nil
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type leadsClient struct {
	api     *notionapi.Client
	limiter *rate.Limiter
}

// NewClient returns a Client for the integration token, throttled to
// DefaultRPS unless an option says otherwise.
func NewClient(token string, opts ...Option) Client {
	c := &leadsClient{
		api:     notionapi.NewClient(notionapi.Token(token)),
		limiter: rate.NewLimiter(DefaultRPS, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *leadsClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "notion: rate limit")
	}
	return nil
}

// keyQuery selects the single row whose Lead Key equals key.
func keyQuery(key string) *notionapi.DatabaseQueryRequest {
	return &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: PropLeadKey,
			RichText: &notionapi.TextFilterCondition{Equals: key},
		},
		PageSize: 1,
	}
}

func (c *leadsClient) FindByKey(ctx context.Context, dbID, key string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(dbID), keyQuery(key))
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("notion: query leads database %s", dbID))
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return string(resp.Results[0].ID), nil
}

func (c *leadsClient) CreatePage(ctx context.Context, dbID string, props notionapi.Properties) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: props,
	})
	if err != nil {
		return "", eris.Wrap(err, "notion: create page")
	}
	return string(page.ID), nil
}

func (c *leadsClient) UpdatePage(ctx context.Context, pageID string, props notionapi.Properties) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{Properties: props})
	if err != nil {
		return eris.Wrap(err, fmt.Sprintf("notion: update page %s", pageID))
	}
	return nil
}
