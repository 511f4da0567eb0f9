package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// Property names of the leads database.
const (
	PropName     = "Name"
	PropTitle    = "Title"
	PropCompany  = "Company"
	PropEmail    = "Email"
	PropScore    = "Score"
	PropRating   = "Rating"
	PropDomain   = "Domain"
	PropIndustry = "Industry"
	PropLocation = "Location"
	PropProfile  = "Profile"
	PropSignals  = "Buying Signals"
	PropLeadKey  = "Lead Key"
)

// LeadPage is the data written to one row of the leads database.
type LeadPage struct {
	Key        string
	Name       string
	Title      string
	Company    string
	Email      string
	Score      int
	Rating     string
	Domain     string
	Industry   string
	Location   string
	ProfileURL string
	Signals    []string
}

func richText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		Type: notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
		},
	}
}

// Properties converts p to Notion page properties. Empty optional values
// are left out so an update keeps what is already there.
func (p LeadPage) Properties() notionapi.Properties {
	props := notionapi.Properties{
		PropName: notionapi.TitleProperty{
			Type: notionapi.PropertyTypeTitle,
			Title: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: p.Name}},
			},
		},
		PropScore: notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: float64(p.Score),
		},
		PropLeadKey: richText(p.Key),
	}

	for name, v := range map[string]string{
		PropTitle:    p.Title,
		PropCompany:  p.Company,
		PropDomain:   p.Domain,
		PropIndustry: p.Industry,
		PropLocation: p.Location,
	} {
		if v != "" {
			props[name] = richText(v)
		}
	}
	if p.Email != "" {
		props[PropEmail] = notionapi.EmailProperty{Type: notionapi.PropertyTypeEmail, Email: p.Email}
	}
	if p.ProfileURL != "" {
		props[PropProfile] = notionapi.URLProperty{Type: notionapi.PropertyTypeURL, URL: p.ProfileURL}
	}
	if p.Rating != "" {
		props[PropRating] = notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: p.Rating},
		}
	}
	if len(p.Signals) > 0 {
		props[PropSignals] = richText(strings.Join(p.Signals, "\n"))
	}
	return props
}

// CreateLeadPage adds p as a new row and returns the page ID.
func CreateLeadPage(ctx context.Context, c Client, dbID string, p LeadPage) (string, error) {
	if p.Name == "" {
		return "", eris.New("notion: lead name is required")
	}
	id, err := c.CreatePage(ctx, dbID, p.Properties())
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("notion: create lead page %s", p.Name))
	}
	return id, nil
}

// UpsertLeadPage updates the row whose Lead Key matches p.Key, or creates
// one. It returns the page ID and whether a row was created.
func UpsertLeadPage(ctx context.Context, c Client, dbID string, p LeadPage) (string, bool, error) {
	if p.Key != "" {
		pageID, err := c.FindByKey(ctx, dbID, p.Key)
		if err != nil {
			return "", false, eris.Wrap(err, "notion: find page by key")
		}
		if pageID != "" {
			if err := c.UpdatePage(ctx, pageID, p.Properties()); err != nil {
				return "", false, eris.Wrap(err, fmt.Sprintf("notion: update lead page %s", p.Name))
			}
			return pageID, false, nil
		}
	}
	id, err := CreateLeadPage(ctx, c, dbID, p)
	return id, err == nil, err
}
