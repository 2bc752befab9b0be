// Package export renders a saved Result as json, csv, xlsx or yaml.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-cli/internal/model"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatYAML Format = "yaml"
)

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatXLSX, FormatYAML}
}

// ParseFormat accepts a format name case-insensitively. "yml" is an alias
// for yaml.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		return FormatYAML, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", eris.Errorf("export: unsupported format %q", s)
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Filename is the download name for a result in format f.
func (f Format) Filename(r *model.Result) string {
	name := r.Domain
	if name == "" {
		name = r.ID
	}
	return "leads_" + strings.ReplaceAll(name, ".", "_") + "." + string(f)
}

// Write renders r to w.
func Write(w io.Writer, r *model.Result, f Format) error {
	if r == nil {
		return eris.New("export: result is nil")
	}
	switch f {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatCSV:
		return writeCSV(w, r)
	case FormatXLSX:
		return writeXLSX(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	default:
		return eris.Errorf("export: unsupported format %q", f)
	}
}

func writeJSON(w io.Writer, r *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(r), "export: encode json")
}

func writeYAML(w io.Writer, r *model.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return eris.Wrap(err, "export: encode yaml")
	}
	return eris.Wrap(enc.Close(), "export: close yaml")
}

// leadRow is one csv/xlsx line: the analyzed company plus a lead.
type leadRow struct {
	SourceCompany string `csv:"source_company"`
	SourceDomain  string `csv:"source_domain"`
	model.Lead
	Outreach string `csv:"outreach_suggestions"`
}

func rows(r *model.Result) []leadRow {
	out := make([]leadRow, 0, len(r.Leads))
	for _, l := range r.Leads {
		out = append(out, leadRow{
			SourceCompany: r.Company.Name,
			SourceDomain:  r.Domain,
			Lead:          l,
			Outreach:      strings.Join(l.OutreachSuggestions, "; "),
		})
	}
	return out
}

func writeCSV(w io.Writer, r *model.Result) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if len(r.Leads) == 0 {
		if err := enc.EncodeHeader(leadRow{}); err != nil {
			return eris.Wrap(err, "export: encode csv header")
		}
	} else if err := enc.Encode(rows(r)); err != nil {
		return eris.Wrap(err, "export: encode csv")
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

func writeXLSX(w io.Writer, r *model.Result) error {
	f := xlsx.NewFile()

	company, err := f.AddSheet("Company")
	if err != nil {
		return eris.Wrap(err, "export: add company sheet")
	}
	for _, kv := range [][2]string{
		{"ID", r.ID},
		{"URL", r.URL},
		{"Domain", r.Domain},
		{"Name", r.Company.Name},
		{"Type", r.Company.Type},
		{"Industry", r.Company.Industry},
		{"Size", r.Company.Size},
		{"Target Market", r.Company.TargetMarket},
		{"Offerings", strings.Join(r.Company.Offerings, ", ")},
		{"Created At", r.CreatedAt.UTC().Format("2006-01-02 15:04:05")},
	} {
		addStrings(company.AddRow(), kv[0], kv[1])
	}

	leads, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add leads sheet")
	}
	header, err := csvutil.Header(leadRow{}, "csv")
	if err != nil {
		return eris.Wrap(err, "export: lead header")
	}
	addStrings(leads.AddRow(), header...)
	for _, row := range rows(r) {
		xr := leads.AddRow()
		l := row.Lead
		addStrings(xr, row.SourceCompany, row.SourceDomain, l.Name, l.FirstName, l.LastName, l.Role,
			l.Email, l.CompanyDomain, string(l.LeadType))
		xr.AddCell().SetInt(l.ConfidenceScore)
		if l.MatchScore > 0 {
			xr.AddCell().SetInt(l.MatchScore)
		} else {
			xr.AddCell().SetString("")
		}
		addStrings(xr, l.MatchPercentage, l.CompanyName, l.TargetReason, l.PotentialValue, l.Industry,
			l.CompanySize, row.Outreach)
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}

func addStrings(row *xlsx.Row, values ...string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// Summary is a one-line description of r for logs and CLI output.
func Summary(r *model.Result) string {
	internal, external := 0, 0
	for _, l := range r.Leads {
		if l.LeadType == model.LeadTypeExternal {
			external++
		} else {
			internal++
		}
	}
	return fmt.Sprintf("%s (%s): %d internal, %d external leads", r.Company.Name, r.Domain, internal, external)
}
