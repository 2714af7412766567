// Package csvcodec converts between CSV documents and lead records.
package csvcodec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spigell/lead-scorer/internal/leads"
)

// ResultColumns is the fixed header of exported results.
var ResultColumns = []string{
	"Name", "Role", "Company", "Industry", "Location", "LinkedIn Bio", "Intent", "Score", "Reasoning",
}

// Decode reads a header-mode CSV document. Every row becomes a map keyed by the
// trimmed header, with trimmed values. Blank lines are skipped.
func Decode(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	for i, column := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
	}

	rows := make([]map[string]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, column := range header {
			if column == "" {
				continue
			}
			row[column] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// DecodeLeads reads a lead CSV, mapping columns to lead fields by name.
func DecodeLeads(r io.Reader) ([]*leads.Lead, error) {
	rows, err := Decode(r)
	if err != nil {
		return nil, err
	}

	items := make([]*leads.Lead, 0, len(rows))
	for i, row := range rows {
		lead, err := leads.FromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		items = append(items, lead)
	}

	return items, nil
}

// EncodeResults writes scored leads with the ResultColumns header.
func EncodeResults(w io.Writer, results []leads.ScoredLead) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ResultColumns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, r := range results {
		record := []string{
			r.Name, r.Role, r.Company, r.Industry, r.Location, r.LinkedInBio,
			r.Intent, strconv.Itoa(r.Score), r.Reasoning,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// DecodeResults reads a document produced by EncodeResults.
func DecodeResults(r io.Reader) ([]leads.ScoredLead, error) {
	rows, err := Decode(r)
	if err != nil {
		return nil, err
	}

	results := make([]leads.ScoredLead, 0, len(rows))
	for i, row := range rows {
		score, err := strconv.Atoi(row["Score"])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid score %q: %w", i+1, row["Score"], err)
		}

		results = append(results, leads.ScoredLead{
			Lead: leads.Lead{
				Name:        row["Name"],
				Role:        row["Role"],
				Company:     row["Company"],
				Industry:    row["Industry"],
				Location:    row["Location"],
				LinkedInBio: row["LinkedIn Bio"],
			},
			Intent:    row["Intent"],
			Score:     score,
			Reasoning: row["Reasoning"],
		})
	}

	return results, nil
}

// Codec bundles the lead decoder and result encoder for injection.
type Codec struct{}

func (Codec) DecodeLeads(r io.Reader) ([]*leads.Lead, error) { return DecodeLeads(r) }

func (Codec) EncodeResults(w io.Writer, results []leads.ScoredLead) error {
	return EncodeResults(w, results)
}
