// Package crm pushes the leads of a saved result to Salesforce and Notion.
package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/pkg/notion"
	"github.com/sells-group/lead-cli/pkg/salesforce"
)

// DefaultLeadSource tags leads created by sync.
const DefaultLeadSource = "Website Analysis"

// Report counts the records written to each target.
type Report struct {
	SalesforceInserted int `json:"salesforce_inserted"`
	SalesforceUpdated  int `json:"salesforce_updated"`
	SalesforceFailed   int `json:"salesforce_failed"`
	NotionCreated      int `json:"notion_created"`
	NotionUpdated      int `json:"notion_updated"`
}

// Syncer writes leads to whichever targets are configured. Either client
// may be nil.
type Syncer struct {
	sf         salesforce.Client
	notion     notion.Client
	notionDB   string
	leadSource string
}

// New creates a Syncer.
func New(sf salesforce.Client, nc notion.Client, notionDB, leadSource string) *Syncer {
	if leadSource == "" {
		leadSource = DefaultLeadSource
	}
	if notionDB == "" {
		nc = nil
	}
	return &Syncer{sf: sf, notion: nc, notionDB: notionDB, leadSource: leadSource}
}

// NewFromConfig connects to the targets set in cfg.
func NewFromConfig(cfg *config.Config) (*Syncer, error) {
	var sf salesforce.Client
	if cfg.Salesforce.Configured() {
		var err error
		sf, err = salesforce.Connect(salesforce.JWTConfig{
			LoginURL: cfg.Salesforce.LoginURL,
			Username: cfg.Salesforce.Username,
			ClientID: cfg.Salesforce.ClientID,
			KeyPath:  cfg.Salesforce.KeyPath,
		})
		if err != nil {
			return nil, eris.Wrap(err, "crm: connect salesforce")
		}
	}
	var nc notion.Client
	if cfg.Notion.Configured() {
		nc = notion.NewClient(cfg.Notion.Token)
	}
	return New(sf, nc, cfg.Notion.LeadDB, cfg.Salesforce.LeadSource), nil
}

// Targets names the configured targets.
func (s *Syncer) Targets() []string {
	var out []string
	if s.sf != nil {
		out = append(out, "salesforce")
	}
	if s.notion != nil {
		out = append(out, "notion")
	}
	return out
}

// Push writes every lead in r. A failure on one target does not stop the
// other; errors from both are joined.
func (s *Syncer) Push(ctx context.Context, r *model.Result) (*Report, error) {
	if r == nil {
		return nil, eris.New("crm: result is nil")
	}
	if len(s.Targets()) == 0 {
		return nil, eris.New("crm: no targets configured")
	}
	log := zap.L().With(zap.String("result_id", r.ID), zap.String("domain", r.Domain))
	report := &Report{}
	var errs []error

	if s.sf != nil {
		res, err := salesforce.UpsertLeads(ctx, s.sf, s.salesforceRecords(r))
		if res != nil {
			report.SalesforceInserted = res.Inserted
			report.SalesforceUpdated = res.Updated
			report.SalesforceFailed = res.Failed
			for _, msg := range res.Errors {
				log.Warn("crm: salesforce rejected lead", zap.String("error", msg))
			}
		}
		if err != nil {
			errs = append(errs, eris.Wrap(err, "crm: salesforce"))
		}
	}

	if s.notion != nil {
		res, err := notion.SyncLeads(ctx, s.notion, s.notionDB, notionPages(r))
		if res != nil {
			report.NotionCreated = res.Created
			report.NotionUpdated = res.Updated
		}
		if err != nil {
			errs = append(errs, eris.Wrap(err, "crm: notion"))
		}
	}

	log.Info("crm: push complete",
		zap.Strings("targets", s.Targets()),
		zap.Int("sf_inserted", report.SalesforceInserted),
		zap.Int("sf_updated", report.SalesforceUpdated),
		zap.Int("sf_failed", report.SalesforceFailed),
		zap.Int("notion_created", report.NotionCreated),
		zap.Int("notion_updated", report.NotionUpdated),
	)
	return report, errors.Join(errs...)
}

func (s *Syncer) salesforceRecords(r *model.Result) []salesforce.LeadRecord {
	out := make([]salesforce.LeadRecord, 0, len(r.Leads))
	for _, l := range r.Leads {
		industry := l.Industry
		if industry == "" {
			industry = r.Company.Industry
		}
		out = append(out, salesforce.LeadRecord{
			FirstName:   l.FirstName,
			LastName:    l.LastName,
			Company:     leadCompany(r, l),
			Email:       l.Email,
			Title:       l.Role,
			LeadSource:  s.leadSource,
			Website:     l.CompanyDomain,
			Industry:    knownOrEmpty(industry),
			Description: Describe(r, l),
		})
	}
	return out
}

func notionPages(r *model.Result) []notion.LeadPage {
	out := make([]notion.LeadPage, 0, len(r.Leads))
	for _, l := range r.Leads {
		out = append(out, notion.LeadPage{
			Name:           l.Name,
			Email:          l.Email,
			Role:           l.Role,
			Company:        leadCompany(r, l),
			Domain:         l.CompanyDomain,
			LeadType:       string(l.LeadType),
			Confidence:     l.ConfidenceScore,
			MatchScore:     l.MatchScore,
			PotentialValue: l.PotentialValue,
			Outreach:       l.OutreachSuggestions,
			SourceCompany:  r.Company.Name,
		})
	}
	return out
}

func leadCompany(r *model.Result, l model.Lead) string {
	if l.CompanyName != "" {
		return l.CompanyName
	}
	if l.LeadType == model.LeadTypeInternal {
		return r.Company.Name
	}
	return l.CompanyDomain
}

func knownOrEmpty(s string) string {
	if model.IsPlaceholder(s) {
		return ""
	}
	return s
}

// Describe is the free-text summary stored with a lead.
func Describe(r *model.Result, l model.Lead) string {
	var b strings.Builder
	if l.LeadType == model.LeadTypeExternal {
		fmt.Fprintf(&b, "Prospect for %s (%s).", r.Company.Name, r.Domain)
		if l.MatchPercentage != "" {
			fmt.Fprintf(&b, " Match %s", l.MatchPercentage)
			if l.PotentialValue != "" {
				fmt.Fprintf(&b, ", %s value", strings.ToLower(l.PotentialValue))
			}
			b.WriteString(".")
		}
		if l.TargetReason != "" {
			fmt.Fprintf(&b, " Reason: %s.", strings.TrimSuffix(l.TargetReason, "."))
		}
	} else {
		fmt.Fprintf(&b, "Decision maker at %s (%s).", r.Company.Name, r.Domain)
	}
	fmt.Fprintf(&b, " Confidence %d.", l.ConfidenceScore)
	if len(l.OutreachSuggestions) > 0 {
		fmt.Fprintf(&b, " Outreach: %s.", strings.Join(l.OutreachSuggestions, "; "))
	}
	return b.String()
}
