package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testPage() LeadPage {
	return LeadPage{
		Key:        "https://www.linkedin.com/in/jane",
		Name:       "Jane Doe",
		Title:      "VP Sales",
		Company:    "Acme",
		Email:      "jane@acme.com",
		Score:      82,
		Rating:     "Hot",
		ProfileURL: "https://www.linkedin.com/in/jane",
		Signals:    []string{"one", "two"},
	}
}

func TestLeadPageProperties(t *testing.T) {
	props := testPage().Properties()

	title, ok := props[PropName].(notionapi.TitleProperty)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", title.Title[0].Text.Content)

	score, ok := props[PropScore].(notionapi.NumberProperty)
	require.True(t, ok)
	assert.Equal(t, float64(82), score.Number)

	email, ok := props[PropEmail].(notionapi.EmailProperty)
	require.True(t, ok)
	assert.Equal(t, "jane@acme.com", email.Email)

	rating, ok := props[PropRating].(notionapi.SelectProperty)
	require.True(t, ok)
	assert.Equal(t, "Hot", rating.Select.Name)

	signals, ok := props[PropSignals].(notionapi.RichTextProperty)
	require.True(t, ok)
	assert.Equal(t, "one\ntwo", signals.RichText[0].Text.Content)

	assert.NotContains(t, props, PropDomain)
	assert.NotContains(t, props, PropIndustry)
}

func TestCreateLeadPage(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("CreatePage", ctx, "db-1", mock.MatchedBy(func(props notionapi.Properties) bool {
		return props[PropLeadKey] != nil
	})).Return("page-1", nil).Once()

	id, err := CreateLeadPage(ctx, mc, "db-1", testPage())
	require.NoError(t, err)
	assert.Equal(t, "page-1", id)
	mc.AssertExpectations(t)
}

func TestCreateLeadPage_RequiresName(t *testing.T) {
	_, err := CreateLeadPage(context.Background(), new(MockClient), "db-1", LeadPage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead name is required")
}

func TestCreateLeadPage_Error(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()
	mc.On("CreatePage", ctx, "db-1", mock.Anything).Return("", assert.AnError).Once()

	_, err := CreateLeadPage(ctx, mc, "db-1", testPage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion: create lead page Jane Doe")
}

func TestUpsertLeadPage_UpdatesExisting(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("FindByKey", ctx, "db-1", "https://www.linkedin.com/in/jane").Return("page-old", nil).Once()
	mc.On("UpdatePage", ctx, "page-old", mock.AnythingOfType("notionapi.Properties")).Return(nil).Once()

	id, created, err := UpsertLeadPage(ctx, mc, "db-1", testPage())
	require.NoError(t, err)
	assert.Equal(t, "page-old", id)
	assert.False(t, created)
	mc.AssertExpectations(t)
}

func TestUpsertLeadPage_CreatesNew(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("FindByKey", ctx, "db-1", mock.Anything).Return("", nil).Once()
	mc.On("CreatePage", ctx, "db-1", mock.Anything).Return("page-new", nil).Once()

	id, created, err := UpsertLeadPage(ctx, mc, "db-1", testPage())
	require.NoError(t, err)
	assert.Equal(t, "page-new", id)
	assert.True(t, created)
	mc.AssertExpectations(t)
}

func TestUpsertLeadPage_NoKeyAlwaysCreates(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()
	page := testPage()
	page.Key = ""

	mc.On("CreatePage", ctx, "db-1", mock.Anything).Return("page-new", nil).Once()

	_, created, err := UpsertLeadPage(ctx, mc, "db-1", page)
	require.NoError(t, err)
	assert.True(t, created)
	mc.AssertNotCalled(t, "FindByKey", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertLeadPage_UpdateError(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()
	mc.On("FindByKey", ctx, "db-1", mock.Anything).Return("page-old", nil).Once()
	mc.On("UpdatePage", ctx, "page-old", mock.Anything).Return(assert.AnError).Once()

	_, _, err := UpsertLeadPage(ctx, mc, "db-1", testPage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion: update lead page Jane Doe")
}

func TestUpsertLeadPage_QueryError(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()
	mc.On("FindByKey", ctx, "db-1", mock.Anything).Return("", assert.AnError).Once()

	_, _, err := UpsertLeadPage(ctx, mc, "db-1", testPage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find page by key")
}
