package provider

import (
	"context"

	"github.com/sells-group/lead-intel/pkg/hunter"
)

// HunterSource labels emails found by Hunter.
const HunterSource = "Hunter.io"

// Hunter serves EmailFinder and DomainSearcher from the Hunter API.
type Hunter struct {
	client hunter.Client
	guard  Guard
}

// NewHunter wraps client. A nil client makes every call NotFound.
func NewHunter(client hunter.Client, g Guard) *Hunter {
	return &Hunter{client: client, guard: g}
}

// FindEmail implements EmailFinder.
func (h *Hunter) FindEmail(ctx context.Context, name, domain string) Result[EmailMatch] {
	if h == nil || h.client == nil || name == "" || domain == "" {
		return NotFound[EmailMatch]()
	}
	return Call(ctx, h.guard, func(ctx context.Context) (EmailMatch, bool, error) {
		r, err := h.client.FindEmail(ctx, name, domain)
		if err != nil || r == nil || r.Email == "" {
			return EmailMatch{}, false, err
		}
		return EmailMatch{
			Email:      r.Email,
			Confidence: r.Score,
			Sources:    len(r.Sources),
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			Position:   r.Position,
			Source:     HunterSource,
		}, true, nil
	})
}

// SearchDomain implements DomainSearcher.
func (h *Hunter) SearchDomain(ctx context.Context, company string) Result[string] {
	if h == nil || h.client == nil || company == "" {
		return NotFound[string]()
	}
	return Call(ctx, h.guard, func(ctx context.Context) (string, bool, error) {
		d, err := h.client.DomainSearch(ctx, company)
		return d, err == nil && d != "", err
	})
}
