package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func emailPage(id, email string) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID(id),
		Properties: notionapi.Properties{
			PropEmail: &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{PlainText: email}},
			},
		},
	}
}

func TestLeadPage_Properties(t *testing.T) {
	props := LeadPage{
		Name:           "Jordan Lee",
		Email:          "jlee@northwind.com",
		Role:           "CFO",
		Company:        "Northwind Capital",
		Domain:         "northwind.com",
		LeadType:       "external",
		Confidence:     88,
		MatchScore:     88,
		PotentialValue: "High",
		Outreach:       []string{"Highlight ROI", "Mention compliance"},
	}.Properties()

	title, ok := props[PropName].(notionapi.TitleProperty)
	require.True(t, ok)
	assert.Equal(t, "Jordan Lee", title.Title[0].Text.Content)

	site, ok := props[PropWebsite].(notionapi.URLProperty)
	require.True(t, ok)
	assert.Equal(t, "https://northwind.com", site.URL)

	outreach, ok := props[PropOutreach].(notionapi.RichTextProperty)
	require.True(t, ok)
	assert.Equal(t, "Highlight ROI\nMention compliance", outreach.RichText[0].Text.Content)

	score, ok := props[PropMatchScore].(notionapi.NumberProperty)
	require.True(t, ok)
	assert.Equal(t, float64(88), score.Number)

	value, ok := props[PropPotentialValue].(notionapi.SelectProperty)
	require.True(t, ok)
	assert.Equal(t, "High", value.Select.Name)

	assert.NotContains(t, props, PropStatus)
	assert.NotContains(t, props, PropSourceCompany)
}

func TestLeadPage_PropertiesInternalLead(t *testing.T) {
	props := LeadPage{Name: "Alex Smith", Confidence: 80, LeadType: "internal"}.Properties()
	assert.NotContains(t, props, PropMatchScore)
	assert.NotContains(t, props, PropWebsite)
	assert.NotContains(t, props, PropPotentialValue)
	assert.Contains(t, props, PropConfidence)
}

func TestIndexByEmail(t *testing.T) {
	pages := []notionapi.Page{
		emailPage("p1", "Alex@Acme.com"),
		emailPage("p2", ""),
		{ID: "p3", Properties: notionapi.Properties{
			PropEmail: &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: "sam@acme.com"}}},
			},
		}},
		{ID: "p4"},
	}
	assert.Equal(t, map[string]string{"alex@acme.com": "p1", "sam@acme.com": "p3"}, IndexByEmail(pages))
}

func TestSyncLeads_CreatesAndUpdates(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-leads", mock.Anything).Return(&notionapi.DatabaseQueryResponse{
		Results: []notionapi.Page{emailPage("page-old", "alex.smith@acme.com")},
	}, nil).Once()

	mc.On("UpdatePage", ctx, "page-old", mock.MatchedBy(func(req *notionapi.PageUpdateRequest) bool {
		_, hasStatus := req.Properties[PropStatus]
		return !hasStatus
	})).Return(&notionapi.Page{ID: "page-old"}, nil).Once()

	mc.On("CreatePage", ctx, mock.MatchedBy(func(req *notionapi.PageCreateRequest) bool {
		status, ok := req.Properties[PropStatus].(notionapi.StatusProperty)
		return ok && status.Status.Name == NewLeadStatus &&
			req.Parent.DatabaseID == notionapi.DatabaseID("db-leads")
	})).Return(&notionapi.Page{ID: "page-new"}, nil).Once()

	res, err := SyncLeads(ctx, mc, "db-leads", []LeadPage{
		{Name: "Alex Smith", Email: "Alex.Smith@acme.com", Confidence: 80},
		{Name: "Jordan Lee", Email: "jlee@northwind.com", Confidence: 88},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	mc.AssertExpectations(t)
}

func TestSyncLeads_ContinuesPastFailures(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-leads", mock.Anything).
		Return(&notionapi.DatabaseQueryResponse{}, nil).Once()
	mc.On("CreatePage", ctx, mock.Anything).Return(nil, assert.AnError).Once()
	mc.On("CreatePage", ctx, mock.Anything).Return(&notionapi.Page{ID: "p"}, nil).Once()

	res, err := SyncLeads(ctx, mc, "db-leads", []LeadPage{
		{Name: "First", Email: "a@x.com"},
		{Name: "Second", Email: "b@x.com"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion: create lead First")
	assert.Equal(t, 1, res.Created)
}

func TestSyncLeads_QueryFailure(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-leads", mock.Anything).Return(nil, assert.AnError).Once()

	_, err := SyncLeads(ctx, mc, "db-leads", []LeadPage{{Name: "A"}})
	require.Error(t, err)
	mc.AssertNotCalled(t, "CreatePage", mock.Anything, mock.Anything)
}

func TestSyncLeads_Empty(t *testing.T) {
	mc := new(MockClient)
	res, err := SyncLeads(context.Background(), mc, "db-leads", nil)
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	mc.AssertNotCalled(t, "QueryDatabase", mock.Anything, mock.Anything, mock.Anything)
}
