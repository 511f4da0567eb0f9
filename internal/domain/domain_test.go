package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-intel/internal/provider"
)

type fakeSearcher struct {
	res   provider.Result[string]
	calls int
}

func (f *fakeSearcher) SearchDomain(context.Context, string) provider.Result[string] {
	f.calls++
	return f.res
}

func TestDerive(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Inc.", "acme.com"},
		{"Acme Inc", "acme.com"},
		{"Lenskart.com", "lenskart.com"},
		{"  OpenAI.ai ", "openai.ai"},
		{"Big Data LLC", "bigdata.com"},
		{"Widgets Corporation", "widgets.com"},
		{"Stripe", "stripe.com"},
		{"Société Générale", "societegenerale.com"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.in))
		})
	}
}

func TestResolve_EmptyCompany(t *testing.T) {
	fs := &fakeSearcher{res: provider.OK("acme.com")}
	got := NewResolver(fs).Resolve(context.Background(), "  ")
	assert.Equal(t, "", got.Domain)
	assert.Zero(t, fs.calls)
}

func TestResolve_DirectoryHit(t *testing.T) {
	fs := &fakeSearcher{res: provider.OK("acme.io")}
	got := NewResolver(fs).Resolve(context.Background(), "Acme Inc.")
	assert.Equal(t, Resolution{Domain: "acme.io", Lookup: provider.StatusOK}, got)
	assert.Equal(t, 1, fs.calls)
}

func TestResolve_FallsBackToDerive(t *testing.T) {
	for _, res := range []provider.Result[string]{
		provider.NotFound[string](),
		provider.Failed[string](assert.AnError),
	} {
		got := NewResolver(&fakeSearcher{res: res}).Resolve(context.Background(), "Acme Inc.")
		assert.Equal(t, "acme.com", got.Domain)
		assert.True(t, got.Derived)
		assert.Equal(t, res.Status, got.Lookup)
	}
}

func TestResolve_NoSearcher(t *testing.T) {
	got := NewResolver(nil).Resolve(context.Background(), "Acme")
	assert.Equal(t, "acme.com", got.Domain)
	assert.True(t, got.Derived)
}
