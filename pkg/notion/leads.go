package notion

import (
	"context"
	"errors"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// Lead database property names.
const (
	PropName           = "Name"
	PropEmail          = "Email"
	PropRole           = "Role"
	PropCompany        = "Company"
	PropWebsite        = "Website"
	PropLeadType       = "Lead Type"
	PropConfidence     = "Confidence"
	PropMatchScore     = "Match Score"
	PropPotentialValue = "Potential Value"
	PropOutreach       = "Outreach"
	PropSourceCompany  = "Source Company"
	PropStatus         = "Status"
)

// NewLeadStatus is the status given to pages created by sync.
const NewLeadStatus = "New"

// LeadPage is one lead as written to the database. Email is the match key.
type LeadPage struct {
	Name           string
	Email          string
	Role           string
	Company        string
	Domain         string
	LeadType       string
	Confidence     int
	MatchScore     int
	PotentialValue string
	Outreach       []string
	SourceCompany  string
}

// Properties builds the page properties for l. Status is left out so
// updates never reset a status someone has changed by hand.
func (l LeadPage) Properties() notionapi.Properties {
	props := notionapi.Properties{
		PropName: notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText(l.Name),
		},
		PropConfidence: notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: float64(l.Confidence),
		},
	}
	for prop, v := range map[string]string{
		PropEmail:         l.Email,
		PropRole:          l.Role,
		PropCompany:       l.Company,
		PropSourceCompany: l.SourceCompany,
		PropOutreach:      strings.Join(l.Outreach, "\n"),
	} {
		if v != "" {
			props[prop] = notionapi.RichTextProperty{
				Type:     notionapi.PropertyTypeRichText,
				RichText: richText(v),
			}
		}
	}
	if l.Domain != "" {
		props[PropWebsite] = notionapi.URLProperty{
			Type: notionapi.PropertyTypeURL,
			URL:  "https://" + l.Domain,
		}
	}
	if l.LeadType != "" {
		props[PropLeadType] = notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: l.LeadType},
		}
	}
	if l.PotentialValue != "" {
		props[PropPotentialValue] = notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: l.PotentialValue},
		}
	}
	if l.MatchScore > 0 {
		props[PropMatchScore] = notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: float64(l.MatchScore),
		}
	}
	return props
}

// SyncResult counts what SyncLeads did.
type SyncResult struct {
	Created int
	Updated int
}

// SyncLeads updates pages whose Email matches a lead and creates the rest.
// Failures on individual leads are joined into the returned error; the other
// leads are still written.
func SyncLeads(ctx context.Context, c Client, dbID string, leads []LeadPage) (*SyncResult, error) {
	res := &SyncResult{}
	if len(leads) == 0 {
		return res, nil
	}

	pages, err := QueryAll(ctx, c, dbID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "notion: list lead pages")
	}
	existing := IndexByEmail(pages)

	var errs []error
	for _, l := range leads {
		if ctx.Err() != nil {
			errs = append(errs, eris.Wrap(ctx.Err(), "notion: sync cancelled"))
			break
		}

		if id, ok := existing[strings.ToLower(l.Email)]; ok && l.Email != "" {
			_, err := c.UpdatePage(ctx, id, &notionapi.PageUpdateRequest{Properties: l.Properties()})
			if err != nil {
				errs = append(errs, eris.Wrapf(err, "notion: update lead %s", l.Email))
				continue
			}
			res.Updated++
			continue
		}

		props := l.Properties()
		props[PropStatus] = notionapi.StatusProperty{
			Status: notionapi.Status{Name: NewLeadStatus},
		}
		_, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(dbID),
			},
			Properties: props,
		})
		if err != nil {
			errs = append(errs, eris.Wrapf(err, "notion: create lead %s", l.Name))
			continue
		}
		res.Created++
	}
	return res, errors.Join(errs...)
}

// IndexByEmail maps lowercase Email property values to page IDs.
func IndexByEmail(pages []notionapi.Page) map[string]string {
	idx := make(map[string]string, len(pages))
	for _, p := range pages {
		if email := strings.ToLower(propertyText(p.Properties[PropEmail])); email != "" {
			idx[email] = string(p.ID)
		}
	}
	return idx
}

func propertyText(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.RichTextProperty:
		return plainText(p.RichText)
	case notionapi.RichTextProperty:
		return plainText(p.RichText)
	case *notionapi.EmailProperty:
		return strings.TrimSpace(p.Email)
	case *notionapi.TitleProperty:
		return plainText(p.Title)
	default:
		return ""
	}
}

func plainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		switch {
		case rt.PlainText != "":
			b.WriteString(rt.PlainText)
		case rt.Text != nil:
			b.WriteString(rt.Text.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
	}
}
