package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intel/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testLead(url, name string, score int) *model.Lead {
	return &model.Lead{
		Profile: model.Profile{
			Name:       name,
			Company:    "Acme",
			Title:      "VP Sales",
			ProfileURL: url,
		},
		Domain:      "acme.com",
		ContactInfo: model.ContactInfo{Email: "jane@acme.com", EmailConfidence: 92, EmailSource: "Hunter.io"},
		CompanyData: model.UnknownCompany(),
		Score:       score,
		Breakdown:   model.ScoreBreakdown{Title: 25},
	}
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("SaveAndGetLead", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		lead := testLead("https://www.linkedin.com/in/jane/", "Jane Doe", 82)
		require.NoError(t, s.SaveLead(ctx, lead))

		got, err := s.GetLead(ctx, "https://www.linkedin.com/in/jane")
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", got.Name)
		assert.Equal(t, 82, got.Score)
		assert.Equal(t, "jane@acme.com", got.ContactInfo.Email)
		assert.Equal(t, model.Unknown, got.CompanyData.Industry)
		assert.Equal(t, 25, got.Breakdown.Title)
	})

	t.Run("SaveLeadUpsertsByURL", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SaveLead(ctx, testLead("https://www.linkedin.com/in/jane", "Jane Doe", 50)))
		require.NoError(t, s.SaveLead(ctx, testLead("https://www.linkedin.com/in/jane?trk=x", "Jane Doe", 90)))

		leads, err := s.ListLeads(ctx, LeadFilter{})
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, 90, leads[0].Score)
	})

	t.Run("GetLeadNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetLead(context.Background(), "https://nowhere")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListLeadsSortedAndFiltered", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		n, err := s.SaveLeads(ctx, []*model.Lead{
			testLead("https://li/a", "A", 40),
			testLead("https://li/b", "B", 95),
			testLead("https://li/c", "C", 71),
			testLead("https://li/d", "D", 70),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)

		leads, err := s.ListLeads(ctx, LeadFilter{MinScore: 70})
		require.NoError(t, err)
		require.Len(t, leads, 3)
		assert.Equal(t, []string{"B", "C", "D"}, names(leads))

		leads, err = s.ListLeads(ctx, LeadFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"C", "D"}, names(leads))
	})

	t.Run("DeleteLead", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SaveLead(ctx, testLead("https://li/a", "A", 40)))
		_, err := s.SaveToList(ctx, "https://li/a")
		require.NoError(t, err)

		require.NoError(t, s.DeleteLead(ctx, "https://li/a"))
		_, err = s.GetLead(ctx, "https://li/a")
		assert.ErrorIs(t, err, ErrNotFound)

		saved, err := s.ListSaved(ctx)
		require.NoError(t, err)
		assert.Empty(t, saved)

		assert.ErrorIs(t, s.DeleteLead(ctx, "https://li/a"), ErrNotFound)
	})

	t.Run("Stats", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{model.StatProfilesScanned: 0, model.StatLeadsFound: 0}, stats)

		require.NoError(t, s.IncrementStat(ctx, model.StatProfilesScanned, 1))
		require.NoError(t, s.IncrementStat(ctx, model.StatProfilesScanned, 2))
		require.NoError(t, s.IncrementStat(ctx, model.StatLeadsFound, 1))

		stats, err = s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats[model.StatProfilesScanned])
		assert.Equal(t, int64(1), stats[model.StatLeadsFound])
	})

	t.Run("SavedList", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.SaveToList(ctx, "https://li/missing")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.SaveLead(ctx, testLead("https://li/a", "A", 88)))
		first, err := s.SaveToList(ctx, "https://li/a")
		require.NoError(t, err)
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, "A", first.Lead.Name)

		again, err := s.SaveToList(ctx, "https://li/a")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)

		saved, err := s.ListSaved(ctx)
		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, "https://li/a", saved[0].Key)
		assert.Equal(t, 88, saved[0].Lead.Score)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}

func names(leads []*model.Lead) []string {
	out := make([]string, len(leads))
	for i, l := range leads {
		out[i] = l.Name
	}
	return out
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}

func TestSQLiteStore_MigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestSQLiteStore_SaveLeadsEmpty(t *testing.T) {
	n, err := newTestSQLite(t).SaveLeads(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "https://www.linkedin.com/in/jane",
		Key(&model.Lead{Profile: model.Profile{ProfileURL: " https://www.linkedin.com/in/jane/?miniProfile=1#top "}}))
	assert.Equal(t, "lead:jane doe|acme",
		Key(&model.Lead{Profile: model.Profile{Name: "Jane Doe", Company: "ACME"}}))
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t, "", CanonicalURL("  "))
	assert.Equal(t, "https://li/a", CanonicalURL("https://li/a//"))
	assert.Equal(t, "https://li/a", CanonicalURL("https://li/a#x"))
}
