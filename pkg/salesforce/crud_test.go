package salesforce

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLead() Lead {
	return Lead{
		FirstName:         "Jane",
		LastName:          "Doe",
		Company:           "Acme",
		Title:             "VP Sales",
		Email:             "jane@acme.com",
		NumberOfEmployees: 250,
		Rating:            "Hot",
	}
}

func TestLeadFields(t *testing.T) {
	fields := testLead().Fields()
	assert.Equal(t, "Doe", fields["LastName"])
	assert.Equal(t, 250, fields["NumberOfEmployees"])
	assert.NotContains(t, fields, "Website")
	assert.NotContains(t, fields, "Id")

	assert.NotContains(t, Lead{LastName: "X"}.Fields(), "NumberOfEmployees")
}

func TestCreateLead(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var capturedObject string
		var capturedFields map[string]any
		mc := &mockClient{
			insertOneFn: func(_ context.Context, sObject string, record map[string]any) (string, error) {
				capturedObject = sObject
				capturedFields = record
				return "00QNEW", nil
			},
		}

		id, err := CreateLead(context.Background(), mc, testLead())
		require.NoError(t, err)
		assert.Equal(t, "00QNEW", id)
		assert.Equal(t, "Lead", capturedObject)
		assert.Equal(t, "Acme", capturedFields["Company"])
		assert.Equal(t, "Hot", capturedFields["Rating"])
	})

	t.Run("missing last name", func(t *testing.T) {
		l := testLead()
		l.LastName = ""
		_, err := CreateLead(context.Background(), &mockClient{}, l)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LastName is required")
	})

	t.Run("missing company", func(t *testing.T) {
		l := testLead()
		l.Company = ""
		_, err := CreateLead(context.Background(), &mockClient{}, l)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Company is required")
	})

	t.Run("propagates error", func(t *testing.T) {
		mc := &mockClient{
			insertOneFn: func(context.Context, string, map[string]any) (string, error) {
				return "", errors.New("api error")
			},
		}
		_, err := CreateLead(context.Background(), mc, testLead())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create lead")
	})
}

func TestUpdateLead(t *testing.T) {
	assert.Error(t, UpdateLead(context.Background(), &mockClient{}, "", testLead()))
	assert.Error(t, UpdateLead(context.Background(), &mockClient{}, "00Q1", Lead{}))

	var gotID string
	mc := &mockClient{
		updateOneFn: func(_ context.Context, sObject, id string, _ map[string]any) error {
			assert.Equal(t, "Lead", sObject)
			gotID = id
			return nil
		},
	}
	require.NoError(t, UpdateLead(context.Background(), mc, "00Q1", testLead()))
	assert.Equal(t, "00Q1", gotID)
}

func TestUpsertLead(t *testing.T) {
	t.Run("updates existing", func(t *testing.T) {
		updated := false
		mc := &mockClient{
			queryFn: func(_ context.Context, soql string, out any) error {
				assert.Contains(t, soql, "FROM Lead WHERE Email = 'jane@acme.com'")
				*(out.(*[]Lead)) = []Lead{{ID: "00QOLD", LastName: "Doe", Company: "Acme"}}
				return nil
			},
			updateOneFn: func(context.Context, string, string, map[string]any) error {
				updated = true
				return nil
			},
			insertOneFn: func(context.Context, string, map[string]any) (string, error) {
				t.Fatal("unexpected insert")
				return "", nil
			},
		}

		id, created, err := UpsertLead(context.Background(), mc, testLead())
		require.NoError(t, err)
		assert.Equal(t, "00QOLD", id)
		assert.False(t, created)
		assert.True(t, updated)
	})

	t.Run("creates new", func(t *testing.T) {
		id, created, err := UpsertLead(context.Background(), &mockClient{}, testLead())
		require.NoError(t, err)
		assert.Equal(t, "00Q000000000001", id)
		assert.True(t, created)
	})

	t.Run("no email skips lookup", func(t *testing.T) {
		mc := &mockClient{
			queryFn: func(context.Context, string, any) error {
				t.Fatal("unexpected query")
				return nil
			},
		}
		l := testLead()
		l.Email = ""
		_, created, err := UpsertLead(context.Background(), mc, l)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("query error", func(t *testing.T) {
		mc := &mockClient{
			queryFn: func(context.Context, string, any) error { return errors.New("timeout") },
		}
		_, _, err := UpsertLead(context.Background(), mc, testLead())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "find lead by email")
	})
}

func TestEscapeSoql(t *testing.T) {
	assert.Equal(t, `o\'brien@acme.com`, escapeSoql("o'brien@acme.com"))
	assert.False(t, strings.Contains(escapeSoql("a'b"), "a'b"))
}
