package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDateRangeJSONRoundTrip(t *testing.T) {
	ranges := []DateRange{
		{Start: day(2026, 3, 1), End: day(2026, 3, 10)},
		{End: day(2026, 1, 6)},
		{},
	}
	for _, r := range ranges {
		data, err := json.Marshal(r)
		assert.NoError(t, err)

		var back DateRange
		assert.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, r, back)
	}
}

func TestDateRangeJSONShape(t *testing.T) {
	data, err := json.Marshal(DateRange{Start: day(2026, 3, 1)})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"start":"2026-03-01","end":null}`, string(data))
}

func TestFormatParseDate(t *testing.T) {
	s := FormatDate(day(2026, 3, 1))
	assert.Equal(t, "2026-03-01", *s)

	back, err := ParseDate(s)
	assert.NoError(t, err)
	assert.Equal(t, day(2026, 3, 1), back)

	back, err = ParseDate(nil)
	assert.NoError(t, err)
	assert.Nil(t, back)

	bad := "2026-3-1"
	_, err = ParseDate(&bad)
	assert.Error(t, err)
}

func TestDateRangeEarliest(t *testing.T) {
	assert.Nil(t, DateRange{}.Earliest())
	assert.Equal(t, day(2026, 1, 6), DateRange{End: day(2026, 1, 6)}.Earliest())

	// Start > End is preserved as-is; Earliest still answers correctly.
	r := DateRange{Start: day(2026, 5, 1), End: day(2026, 4, 1)}
	assert.Equal(t, day(2026, 4, 1), r.Earliest())
}

func TestEarliestDateAcrossRanges(t *testing.T) {
	rec := OutputRecord{
		Registration: DateRange{Start: day(2026, 3, 1)},
		Submission:   DateRange{Start: day(2026, 2, 1)},
		Result:       DateRange{End: day(2026, 6, 1)},
	}
	assert.Equal(t, day(2026, 2, 1), rec.EarliestDate())
	assert.Nil(t, OutputRecord{}.EarliestDate())
}
