// Package store persists enriched leads, the saved-leads list and usage
// counters shown on the dashboard.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/internal/model"
)

// ErrNotFound is returned when a lead or saved entry does not exist.
var ErrNotFound = eris.New("store: not found")

// LeadFilter specifies criteria for listing leads. Results are always
// sorted by score, highest first.
type LeadFilter struct {
	MinScore int `json:"min_score,omitempty"`
	Limit    int `json:"limit,omitempty"`
	Offset   int `json:"offset,omitempty"`
}

// SavedLead is an entry on the saved-leads list.
type SavedLead struct {
	ID      string      `json:"id"`
	Key     string      `json:"key"`
	SavedAt time.Time   `json:"saved_at"`
	Lead    *model.Lead `json:"lead"`
}

// Store defines the persistence interface for leads.
type Store interface {
	// Leads, keyed by Key(lead)
	SaveLead(ctx context.Context, lead *model.Lead) error
	SaveLeads(ctx context.Context, leads []*model.Lead) (int64, error)
	GetLead(ctx context.Context, key string) (*model.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]*model.Lead, error)
	DeleteLead(ctx context.Context, key string) error

	// Counters
	IncrementStat(ctx context.Context, name string, delta int64) error
	Stats(ctx context.Context) (map[string]int64, error)

	// Saved list
	SaveToList(ctx context.Context, key string) (*SavedLead, error)
	ListSaved(ctx context.Context) ([]SavedLead, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Key is the canonical store key for a lead: its profile URL without query
// string, fragment or trailing slash. Leads scraped without a URL fall back
// to a name and company key.
func Key(lead *model.Lead) string {
	if u := CanonicalURL(lead.ProfileURL); u != "" {
		return u
	}
	return "lead:" + strings.ToLower(lead.Name) + "|" + strings.ToLower(lead.Company)
}

// CanonicalURL strips the query string, fragment and trailing slash.
func CanonicalURL(u string) string {
	u = strings.TrimSpace(u)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.TrimRight(u, "/")
}

// DefaultLimit caps ListLeads when the filter sets no limit.
const DefaultLimit = 100

func limitOrDefault(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	return n
}

func knownStats() map[string]int64 {
	return map[string]int64{model.StatProfilesScanned: 0, model.StatLeadsFound: 0}
}
