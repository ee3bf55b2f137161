// Package csvio reads the source sheet into raw records.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/seedworks/compseed/internal/config"
	"github.com/seedworks/compseed/internal/core/model"
)

// Read parses the delimited source into RawRecords, mapping columns by the
// configured header names. Only the name column is required to exist;
// missing optional columns read as empty cells.
func Read(r io.Reader, cols config.ColumnsConfig) ([]model.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty CSV: no header row")
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		index[h] = i
	}
	if _, ok := index[cols.Name]; !ok {
		return nil, fmt.Errorf("missing required column %q", cols.Name)
	}

	get := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	out := make([]model.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		out = append(out, model.RawRecord{
			Name:              get(row, cols.Name),
			RegistrationText:  get(row, cols.Registration),
			SubmissionText:    get(row, cols.Submission),
			ResultText:        get(row, cols.Result),
			SourceTag:         get(row, cols.SourceTag),
			TypeTagsText:      get(row, cols.TypeTags),
			OfflineDefense:    get(row, cols.OfflineDefense),
			ScheduleBasisYear: get(row, cols.ScheduleBasisYear),
			LinksText:         get(row, cols.EvidenceLinks),
			Notes:             get(row, cols.Notes),
			Line:              i + 2, // 1-based, after the header
		})
	}
	return out, nil
}

func ReadFile(path string, cols config.ColumnsConfig) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source CSV '%s': %w", path, err)
	}
	defer f.Close()
	return Read(f, cols)
}
