// Package store serializes output records into the relational destination:
// a seed SQL file and a SQLite database, both with INSERT OR IGNORE
// semantics so rebuilds are idempotent.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/seedworks/compseed/internal/core/model"
)

var seedColumns = []string{
	"id", "name", "variant", "display_name",
	"source_tag", "type_tags_json", "offline_defense", "schedule_basis_year",
	"evidence_links_json", "notes",
	"registration_start", "registration_end",
	"submission_start", "submission_end",
	"result_start", "result_end",
	"registration_text", "submission_text", "result_text",
}

// WriteSeedSQL renders the INSERT OR IGNORE seed statement for the
// competitions table.
func WriteSeedSQL(w io.Writer, records []model.OutputRecord) error {
	var b strings.Builder
	b.WriteString("-- Auto-generated. Do not hand-edit.\n")
	if len(records) == 0 {
		b.WriteString("-- No records.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("INSERT OR IGNORE INTO competitions (\n  ")
	b.WriteString(strings.Join(seedColumns, ", "))
	b.WriteString("\n) VALUES\n")

	values := make([]string, 0, len(records))
	for _, r := range records {
		row, err := seedValues(r)
		if err != nil {
			return err
		}
		values = append(values, "("+strings.Join(row, ", ")+")")
	}
	b.WriteString(strings.Join(values, ",\n"))
	b.WriteString(";\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSeedSQLFile writes the seed statement to path, creating parent
// directories as needed.
func WriteSeedSQLFile(path string, records []model.OutputRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed SQL file: %w", err)
	}
	defer f.Close()
	return WriteSeedSQL(f, records)
}

func seedValues(r model.OutputRecord) ([]string, error) {
	typeTags, err := jsonList(r.TypeTags)
	if err != nil {
		return nil, err
	}
	links, err := jsonList(r.EvidenceLinks)
	if err != nil {
		return nil, err
	}

	return []string{
		quote(r.ID),
		quote(r.Name),
		quote(r.Variant),
		quote(r.DisplayName),
		quoteOrNull(r.SourceTag),
		quote(typeTags),
		quoteOrNull(r.OfflineDefense),
		quoteOrNull(r.ScheduleBasisYear),
		quote(links),
		quoteOrNull(r.Notes),
		dateOrNull(r.Registration.Start),
		dateOrNull(r.Registration.End),
		dateOrNull(r.Submission.Start),
		dateOrNull(r.Submission.End),
		dateOrNull(r.Result.Start),
		dateOrNull(r.Result.End),
		quoteOrNull(r.RegistrationText),
		quoteOrNull(r.SubmissionText),
		quoteOrNull(r.ResultText),
	}, nil
}

func jsonList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal list: %w", err)
	}
	return string(data), nil
}

// quote renders a SQL string literal, doubling embedded quotes.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
}

func dateOrNull(t *time.Time) string {
	if t == nil {
		return "NULL"
	}
	return quote(t.Format(model.ISOLayout))
}
