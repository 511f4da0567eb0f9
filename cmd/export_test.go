package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/pkg/notion"
	"github.com/sells-group/lead-intel/pkg/salesforce"
)

// fakeSalesforce knows leads by email and records writes.
type fakeSalesforce struct {
	existing map[string]string
	inserted []map[string]any
	updated  []string
	failOn   string
}

func (f *fakeSalesforce) Query(_ context.Context, soql string, out any) error {
	leads := out.(*[]salesforce.Lead)
	for email, id := range f.existing {
		if containsQuoted(soql, email) {
			*leads = []salesforce.Lead{{ID: id, Email: email}}
		}
	}
	return nil
}

func (f *fakeSalesforce) InsertOne(_ context.Context, _ string, record map[string]any) (string, error) {
	if record["LastName"] == f.failOn {
		return "", errors.New("FIELD_CUSTOM_VALIDATION_EXCEPTION")
	}
	f.inserted = append(f.inserted, record)
	return "00Qnew", nil
}

func (f *fakeSalesforce) InsertCollection(_ context.Context, _ string, records []map[string]any) ([]salesforce.CollectionResult, error) {
	out := make([]salesforce.CollectionResult, len(records))
	for i, r := range records {
		if r["LastName"] == f.failOn {
			out[i] = salesforce.CollectionResult{Errors: []string{"REQUIRED_FIELD_MISSING"}}
			continue
		}
		f.inserted = append(f.inserted, r)
		out[i] = salesforce.CollectionResult{ID: fmt.Sprintf("00Q%d", i), Success: true}
	}
	return out, nil
}

func (f *fakeSalesforce) UpdateOne(_ context.Context, _ string, id string, _ map[string]any) error {
	f.updated = append(f.updated, id)
	return nil
}

func containsQuoted(soql, v string) bool {
	return strings.Contains(soql, "'"+v+"'")
}

// fakeNotion stores pages by their Lead Key.
type fakeNotion struct {
	pages   map[string]string
	created int
	updated int
}

func (f *fakeNotion) FindByKey(_ context.Context, _ string, key string) (string, error) {
	return f.pages[key], nil
}

func (f *fakeNotion) CreatePage(context.Context, string, notionapi.Properties) (string, error) {
	f.created++
	return "page-new", nil
}

func (f *fakeNotion) UpdatePage(context.Context, string, notionapi.Properties) error {
	f.updated++
	return nil
}

var (
	_ salesforce.Client = (*fakeSalesforce)(nil)
	_ notion.Client     = (*fakeNotion)(nil)
)

func TestExportToSalesforce(t *testing.T) {
	known := testLead("https://li/jane", "Jane Doe", 90)
	fresh := testLead("https://li/john", "John Roe", 75)
	fresh.ContactInfo.Email = "john@initech.com"
	broken := testLead("https://li/ann", "Ann Poe", 60)
	broken.ContactInfo.Email = "ann@globex.com"

	sf := &fakeSalesforce{existing: map[string]string{"jane@acme.com": "00Qjane"}, failOn: "Poe"}
	res := exportToSalesforce(context.Background(), sf, []*model.Lead{known, fresh, broken}, "Lead Intelligence")

	assert.Equal(t, exportResult{Target: "salesforce", Created: 1, Updated: 1, Failed: 1}, res)
	assert.Equal(t, []string{"00Qjane"}, sf.updated)
	require.Len(t, sf.inserted, 1)
	assert.Equal(t, "Roe", sf.inserted[0]["LastName"])
	assert.Equal(t, "Lead Intelligence", sf.inserted[0]["LeadSource"])
	assert.Equal(t, "Warm", sf.inserted[0]["Rating"])

	err := res.err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 leads failed")
}

func TestBulkInsertSalesforce(t *testing.T) {
	ok := testLead("https://li/jane", "Jane Doe", 90)
	broken := testLead("https://li/ann", "Ann Poe", 60)

	sf := &fakeSalesforce{failOn: "Poe"}
	res, err := bulkInsertSalesforce(context.Background(), sf, []*model.Lead{ok, broken}, "Lead Intelligence")
	require.NoError(t, err)

	assert.Equal(t, exportResult{Target: "salesforce", Created: 1, Failed: 1}, res)
	require.Len(t, sf.inserted, 1)
	assert.Equal(t, "Doe", sf.inserted[0]["LastName"])
	assert.Empty(t, sf.updated)
}

func TestExportToNotion(t *testing.T) {
	nc := &fakeNotion{pages: map[string]string{"https://li/jane": "page-jane"}}
	res := exportToNotion(context.Background(), nc, "db-1", []*model.Lead{
		testLead("https://li/jane", "Jane Doe", 90),
		testLead("https://li/john", "John Roe", 75),
	})

	assert.Equal(t, exportResult{Target: "notion", Created: 1, Updated: 1}, res)
	assert.Equal(t, 1, nc.created)
	assert.Equal(t, 1, nc.updated)
	assert.NoError(t, res.err())
	assert.Equal(t, "notion: 1 created, 1 updated, 0 failed", res.String())
}

func TestExportLeads(t *testing.T) {
	env := newTestEnv(t)
	saveLeads(t, env.Store,
		testLead("https://li/a", "A", 90),
		testLead("https://li/b", "B", 50),
		testLead("https://li/c", "C", 80),
	)
	ctx := context.Background()
	_, err := env.Store.SaveToList(ctx, "https://li/b")
	require.NoError(t, err)
	_, err = env.Store.SaveToList(ctx, "https://li/c")
	require.NoError(t, err)

	setFlags := func(minScore, limit int, saved bool) {
		prevMin, prevLimit, prevSaved := exportMinScore, exportLimit, exportSaved
		exportMinScore, exportLimit, exportSaved = minScore, limit, saved
		t.Cleanup(func() { exportMinScore, exportLimit, exportSaved = prevMin, prevLimit, prevSaved })
	}

	setFlags(70, 10, false)
	leads, err := exportLeads(ctx, env.Store)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, leadNames(leads))

	setFlags(0, 10, true)
	leads, err = exportLeads(ctx, env.Store)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B", "C"}, leadNames(leads))

	setFlags(60, 10, true)
	leads, err = exportLeads(ctx, env.Store)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, leadNames(leads))
}

func leadNames(leads []*model.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.Name)
	}
	return out
}
