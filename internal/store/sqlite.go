package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/seedworks/compseed/internal/core/model"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS competitions (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	variant TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL,
	source_tag TEXT,
	type_tags_json TEXT NOT NULL DEFAULT '[]',
	offline_defense TEXT,
	schedule_basis_year TEXT,
	evidence_links_json TEXT NOT NULL DEFAULT '[]',
	notes TEXT,
	registration_start TEXT,
	registration_end TEXT,
	submission_start TEXT,
	submission_end TEXT,
	result_start TEXT,
	result_end TEXT,
	registration_text TEXT,
	submission_text TEXT,
	result_text TEXT
)`

// Open opens an existing competitions database. A missing file is an error
// so callers can fall back to the preview cache instead of silently serving
// an empty store.
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("store not found at '%s': %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return db, nil
}

// Load creates the competitions table if needed and INSERT OR IGNOREs every
// record. Returns the number of newly inserted rows; re-loading the same
// build inserts nothing.
func Load(path string, records []model.OutputRecord) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(createTableSQL); err != nil {
		return 0, fmt.Errorf("failed to create competitions table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO competitions (
		id, name, variant, display_name,
		source_tag, type_tags_json, offline_defense, schedule_basis_year,
		evidence_links_json, notes,
		registration_start, registration_end,
		submission_start, submission_end,
		result_start, result_end,
		registration_text, submission_text, result_text
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		typeTags, err := jsonList(r.TypeTags)
		if err != nil {
			return 0, err
		}
		links, err := jsonList(r.EvidenceLinks)
		if err != nil {
			return 0, err
		}

		res, err := stmt.Exec(
			r.ID, r.Name, r.Variant, r.DisplayName,
			nullable(r.SourceTag), typeTags, nullable(r.OfflineDefense), nullable(r.ScheduleBasisYear),
			links, nullable(r.Notes),
			nullableDate(r.Registration.Start), nullableDate(r.Registration.End),
			nullableDate(r.Submission.Start), nullableDate(r.Submission.End),
			nullableDate(r.Result.Start), nullableDate(r.Result.End),
			nullable(r.RegistrationText), nullable(r.SubmissionText), nullable(r.ResultText),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert record %s: %w", r.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to count inserted rows: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return inserted, nil
}

const selectColumns = `id, name, variant, display_name,
	source_tag, type_tags_json, offline_defense, schedule_basis_year,
	evidence_links_json, notes,
	registration_start, registration_end,
	submission_start, submission_end,
	result_start, result_end,
	registration_text, submission_text, result_text`

// All returns every stored record in a deterministic order (first resolved
// date column, then display name, then id).
func All(db *sql.DB) ([]model.OutputRecord, error) {
	rows, err := db.Query(`SELECT ` + selectColumns + ` FROM competitions
		ORDER BY COALESCE(registration_start, submission_start, result_start, '9999-99-99'), display_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitions: %w", err)
	}
	defer rows.Close()

	var out []model.OutputRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// ByID returns one record, or sql.ErrNoRows.
func ByID(db *sql.DB, id string) (*model.OutputRecord, error) {
	row := db.QueryRow(`SELECT `+selectColumns+` FROM competitions WHERE id = ?`, id)
	return scanRecord(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.OutputRecord, error) {
	var rec model.OutputRecord
	var sourceTag, typeTags, offlineDefense, basisYear, links, notes sql.NullString
	var regStart, regEnd, subStart, subEnd, resStart, resEnd sql.NullString
	var regText, subText, resText sql.NullString

	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Variant, &rec.DisplayName,
		&sourceTag, &typeTags, &offlineDefense, &basisYear,
		&links, &notes,
		&regStart, &regEnd, &subStart, &subEnd, &resStart, &resEnd,
		&regText, &subText, &resText,
	)
	if err != nil {
		return nil, err
	}

	rec.SourceTag = sourceTag.String
	rec.OfflineDefense = offlineDefense.String
	rec.ScheduleBasisYear = basisYear.String
	rec.Notes = notes.String
	rec.RegistrationText = regText.String
	rec.SubmissionText = subText.String
	rec.ResultText = resText.String

	if rec.TypeTags, err = parseJSONList(typeTags.String); err != nil {
		return nil, fmt.Errorf("record %s: bad type_tags_json: %w", rec.ID, err)
	}
	if rec.EvidenceLinks, err = parseJSONList(links.String); err != nil {
		return nil, fmt.Errorf("record %s: bad evidence_links_json: %w", rec.ID, err)
	}

	if rec.Registration, err = scanRange(regStart, regEnd); err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	if rec.Submission, err = scanRange(subStart, subEnd); err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	if rec.Result, err = scanRange(resStart, resEnd); err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	return &rec, nil
}

func scanRange(start, end sql.NullString) (model.DateRange, error) {
	s, err := parseNullDate(start)
	if err != nil {
		return model.DateRange{}, err
	}
	e, err := parseNullDate(end)
	if err != nil {
		return model.DateRange{}, err
	}
	return model.DateRange{Start: s, End: e}, nil
}

func parseNullDate(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	return model.ParseDate(&v.String)
}

func parseJSONList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(model.ISOLayout)
}
