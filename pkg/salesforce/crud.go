package salesforce

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

func validateLead(l Lead) error {
	if l.LastName == "" {
		return eris.New("sf: lead LastName is required")
	}
	if l.Company == "" {
		return eris.New("sf: lead Company is required")
	}
	return nil
}

// CreateLead creates a new Lead record and returns the new Salesforce ID.
func CreateLead(ctx context.Context, c Client, l Lead) (string, error) {
	if err := validateLead(l); err != nil {
		return "", err
	}
	id, err := c.InsertOne(ctx, "Lead", l.Fields())
	if err != nil {
		return "", eris.Wrap(err, "sf: create lead")
	}
	return id, nil
}

// UpdateLead updates a Lead record with the non-empty fields of l.
func UpdateLead(ctx context.Context, c Client, leadID string, l Lead) error {
	if leadID == "" {
		return eris.New("sf: lead id is required")
	}
	fields := l.Fields()
	if len(fields) == 0 {
		return eris.New("sf: no fields to update")
	}
	if err := c.UpdateOne(ctx, "Lead", leadID, fields); err != nil {
		return eris.Wrap(err, fmt.Sprintf("sf: update lead %s", leadID))
	}
	return nil
}

// UpsertLead updates the Lead that already has l's email, or creates one.
// It returns the record ID and whether a new record was created.
func UpsertLead(ctx context.Context, c Client, l Lead) (string, bool, error) {
	if err := validateLead(l); err != nil {
		return "", false, err
	}
	if l.Email != "" {
		existing, err := FindLeadByEmail(ctx, c, l.Email)
		if err != nil {
			return "", false, err
		}
		if existing != nil {
			return existing.ID, false, UpdateLead(ctx, c, existing.ID, l)
		}
	}
	id, err := CreateLead(ctx, c, l)
	return id, err == nil, err
}
