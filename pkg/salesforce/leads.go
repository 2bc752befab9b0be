package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	// maxBatchSize is the Collections API limit per request.
	maxBatchSize = 200
	// maxInClause keeps SOQL under the URL length limit.
	maxInClause = 100
)

// Lead is the subset of the Lead sObject read back during sync.
type Lead struct {
	ID    string `json:"Id" salesforce:"Id"`
	Email string `json:"Email" salesforce:"Email"`
}

// LeadRecord is a lead to write. Email is the match key.
type LeadRecord struct {
	FirstName   string
	LastName    string
	Company     string
	Email       string
	Title       string
	LeadSource  string
	Website     string
	Industry    string
	Description string
}

// Fields returns the sObject field map. LastName and Company are required by
// Salesforce, so blanks are replaced.
func (r LeadRecord) Fields() map[string]any {
	last := r.LastName
	if strings.TrimSpace(last) == "" {
		last = "Unknown"
	}
	company := r.Company
	if strings.TrimSpace(company) == "" {
		company = "Unknown"
	}
	fields := map[string]any{
		"LastName": last,
		"Company":  company,
	}
	for k, v := range map[string]string{
		"FirstName":   r.FirstName,
		"Email":       r.Email,
		"Title":       r.Title,
		"LeadSource":  r.LeadSource,
		"Website":     r.Website,
		"Industry":    r.Industry,
		"Description": r.Description,
	} {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}

// UpsertResult counts what UpsertLeads did.
type UpsertResult struct {
	Inserted int
	Updated  int
	Failed   int
	Errors   []string
}

// FindLeadsByEmail returns lead IDs keyed by lowercase email.
func FindLeadsByEmail(ctx context.Context, c Client, emails []string) (map[string]string, error) {
	found := make(map[string]string)
	for start := 0; start < len(emails); start += maxInClause {
		end := min(start+maxInClause, len(emails))
		quoted := make([]string, 0, end-start)
		for _, e := range emails[start:end] {
			quoted = append(quoted, "'"+escapeSoql(e)+"'")
		}
		soql := fmt.Sprintf("SELECT Id, Email FROM Lead WHERE Email IN (%s)", strings.Join(quoted, ", "))

		var leads []Lead
		if err := c.Query(ctx, soql, &leads); err != nil {
			return nil, eris.Wrap(err, "sf: find leads by email")
		}
		for _, l := range leads {
			found[strings.ToLower(l.Email)] = l.ID
		}
	}
	return found, nil
}

// UpsertLeads updates leads whose email already exists and inserts the rest,
// in batches of 200. Per-record failures are counted, not returned as errors.
func UpsertLeads(ctx context.Context, c Client, records []LeadRecord) (*UpsertResult, error) {
	res := &UpsertResult{}
	if len(records) == 0 {
		return res, nil
	}

	var emails []string
	for _, r := range records {
		if r.Email != "" {
			emails = append(emails, r.Email)
		}
	}
	existing, err := FindLeadsByEmail(ctx, c, emails)
	if err != nil {
		return nil, err
	}

	var inserts []map[string]any
	var updates []CollectionRecord
	for _, r := range records {
		if id, ok := existing[strings.ToLower(r.Email)]; ok && r.Email != "" {
			updates = append(updates, CollectionRecord{ID: id, Fields: r.Fields()})
			continue
		}
		inserts = append(inserts, r.Fields())
	}

	for start := 0; start < len(inserts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(inserts))
		results, err := c.InsertCollection(ctx, "Lead", inserts[start:end])
		if err != nil {
			return res, eris.Wrap(err, fmt.Sprintf("sf: insert leads batch %d-%d", start, end))
		}
		res.Inserted += res.tally(results)
	}
	for start := 0; start < len(updates); start += maxBatchSize {
		end := min(start+maxBatchSize, len(updates))
		results, err := c.UpdateCollection(ctx, "Lead", updates[start:end])
		if err != nil {
			return res, eris.Wrap(err, fmt.Sprintf("sf: update leads batch %d-%d", start, end))
		}
		res.Updated += res.tally(results)
	}
	return res, nil
}

// tally records failures and returns the number of successes.
func (r *UpsertResult) tally(results []CollectionResult) int {
	ok := 0
	for _, cr := range results {
		if cr.Success {
			ok++
			continue
		}
		r.Failed++
		r.Errors = append(r.Errors, cr.Errors...)
	}
	return ok
}

// escapeSoql escapes backslashes and single quotes in SOQL string literals.
func escapeSoql(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
