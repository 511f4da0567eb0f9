package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-intel/internal/model"
)

func TestProfile(t *testing.T) {
	tests := []struct {
		name string
		raw  model.RawProfile
		want model.Profile
	}{
		{
			name: "headline with board member clause",
			raw:  model.RawProfile{Name: "Ada Lovelace", Headline: "CPO at OpenAI, board member at XYZ"},
			want: model.Profile{Name: "Ada Lovelace", Headline: "CPO at OpenAI, board member at XYZ", Title: "CPO", Company: "OpenAI"},
		},
		{
			name: "existing company is cleaned not reparsed",
			raw:  model.RawProfile{Name: "Sam", Headline: "CEO at Elsewhere", Title: "Founder", Company: "Lenskart.comLenskart.com"},
			want: model.Profile{Name: "Sam", Headline: "CEO at Elsewhere", Title: "Founder", Company: "Lenskart.com"},
		},
		{
			name: "experience dot suffix",
			raw:  model.RawProfile{Name: "Kim", Company: "Stripe · Full-time"},
			want: model.Profile{Name: "Kim", Company: "Stripe"},
		},
		{
			name: "no company in headline",
			raw:  model.RawProfile{Name: "  Jane   Doe ", Headline: "Building things", ConnectionDegree: " 2nd "},
			want: model.Profile{Name: "Jane Doe", Headline: "Building things", ConnectionDegree: "2nd"},
		},
		{
			name: "pipe tail in headline",
			raw:  model.RawProfile{Name: "Lee", Headline: "VP Sales at Acme | Speaker"},
			want: model.Profile{Name: "Lee", Headline: "VP Sales at Acme | Speaker", Title: "VP Sales", Company: "Acme"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Profile(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Profile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProfile_Idempotent(t *testing.T) {
	inputs := []model.RawProfile{
		{Name: "Ada", Headline: "CPO at OpenAI, board member at XYZ"},
		{Name: "Bo", Company: "FooFoo"},
		{Name: "Cy", Company: "AAAA"},
		{Name: "Di", Headline: "Head of Growth at Foo & Bar, advisor"},
		{Name: "Ed", Company: "Acme Corp, consultant;"},
		{Name: "Fa", Headline: "Engineer at"},
		{Name: "Ann", Headline: "CEO at Acme", Company: "Advisor"},
		{Name: "Bea", Headline: "CTO at Foo", Company: "· Full-time"},
		{Name: "Cal", Headline: "VP at Bar", Company: "| Speaker"},
		{Name: "Dee", Headline: "Founder at Acme · Full-time"},
	}
	for _, raw := range inputs {
		once := Profile(raw)
		twice := Reapply(once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("Reapply(%q) changed the profile (-once +twice):\n%s", raw.Name, diff)
		}
	}
}

func TestProfile_EmptyCleanedCompanyFallsBackToHeadline(t *testing.T) {
	tests := []struct {
		raw         model.RawProfile
		wantTitle   string
		wantCompany string
	}{
		{model.RawProfile{Name: "Ann", Headline: "CEO at Acme", Company: "Advisor"}, "CEO", "Acme"},
		{model.RawProfile{Name: "Bea", Headline: "CTO at Foo", Company: "· Full-time"}, "CTO", "Foo"},
		{model.RawProfile{Name: "Cal", Headline: "VP at Bar", Company: "| Speaker"}, "VP", "Bar"},
		{model.RawProfile{Name: "Dee", Headline: "Founder at Acme · Full-time"}, "Founder", "Acme"},
	}
	for _, tt := range tests {
		t.Run(tt.raw.Name, func(t *testing.T) {
			p := Profile(tt.raw)
			assert.Equal(t, tt.wantTitle, p.Title)
			assert.Equal(t, tt.wantCompany, p.Company)
		})
	}
}

func TestParseHeadline(t *testing.T) {
	tests := []struct {
		headline    string
		wantTitle   string
		wantCompany string
		wantOK      bool
	}{
		{"CPO at OpenAI, board member at XYZ", "CPO", "OpenAI", true},
		{"Director of Marketing at HubSpot", "Director of Marketing", "HubSpot", true},
		{"Founder at Acme advisor to startups", "Founder", "Acme", true},
		{"Software engineer", "", "", false},
		{"Partner, investor at Fund", "Partner, investor", "Fund", true},
	}
	for _, tt := range tests {
		title, company, ok := ParseHeadline(tt.headline)
		assert.Equal(t, tt.wantOK, ok, tt.headline)
		assert.Equal(t, tt.wantTitle, title, tt.headline)
		assert.Equal(t, tt.wantCompany, company, tt.headline)
	}
}

func TestStripRoleIndicators(t *testing.T) {
	assert.Equal(t, "OpenAI", StripRoleIndicators("OpenAI, Board Member"))
	assert.Equal(t, "Acme", StripRoleIndicators("Acme volunteer at shelter"))
	assert.Equal(t, "Acme", StripRoleIndicators("Acme & Partners"))
	assert.Equal(t, "Acme", StripRoleIndicators("Acme;:, "))
	assert.Equal(t, "Acme Labs", StripRoleIndicators("Acme Labs"))
}

func TestCollapseDuplicate(t *testing.T) {
	assert.Equal(t, "Lenskart.com", CollapseDuplicate("Lenskart.comLenskart.com"))
	assert.Equal(t, "Foo", CollapseDuplicate("FooFoo"))
	assert.Equal(t, "A", CollapseDuplicate("AAAA"))
	assert.Equal(t, "Foobar", CollapseDuplicate("Foobar"))
	assert.Equal(t, "", CollapseDuplicate(""))
}

func TestCompany_Empty(t *testing.T) {
	assert.Equal(t, "", Company("   "))
	assert.Equal(t, "", Company("· Full-time"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "Societe Generale", Fold("Société Générale"))
	assert.Equal(t, "Muller", Fold("Müller"))
	assert.Equal(t, "plain", Fold("plain"))
}
