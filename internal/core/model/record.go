package model

import (
	"encoding/json"
	"fmt"
	"time"
)

const ISOLayout = "2006-01-02"

// RawRecord is one row of the source sheet, untouched. The three date cells
// carry free text that the normalizer segments and parses.
type RawRecord struct {
	Name              string
	RegistrationText  string
	SubmissionText    string
	ResultText        string
	SourceTag         string
	TypeTagsText      string
	OfflineDefense    string
	ScheduleBasisYear string
	LinksText         string
	Notes             string
	Line              int // 1-based row in the source file, for reporting
}

// DateRange is a resolved day-level range. Either side may be absent.
// Start > End is passed through as-is; the source occasionally holds
// informal ranges and correcting them is not this layer's job.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) Empty() bool {
	return r.Start == nil && r.End == nil
}

// Earliest returns the earlier populated bound, or nil for an empty range.
func (r DateRange) Earliest() *time.Time {
	if r.Start == nil {
		return r.End
	}
	if r.End != nil && r.End.Before(*r.Start) {
		return r.End
	}
	return r.Start
}

type dateRangeJSON struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateRangeJSON{Start: FormatDate(r.Start), End: FormatDate(r.End)})
}

func (r *DateRange) UnmarshalJSON(data []byte) error {
	var raw dateRangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := ParseDate(raw.Start)
	if err != nil {
		return err
	}
	end, err := ParseDate(raw.End)
	if err != nil {
		return err
	}
	r.Start, r.End = start, end
	return nil
}

// FormatDate renders a date as YYYY-MM-DD, passing nil through.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(ISOLayout)
	return &s
}

// ParseDate is the inverse of FormatDate.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(ISOLayout, *s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date %q: %w", *s, err)
	}
	return &t, nil
}

// OutputRecord is one (competition, variant) pair ready for loading.
// Identity is content-derived, so repeated builds over the same input
// regenerate the same IDs and downstream INSERT OR IGNORE stays idempotent.
type OutputRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Variant     string `json:"variant"`
	DisplayName string `json:"display_name"`

	SourceTag         string   `json:"source_tag,omitempty"`
	TypeTags          []string `json:"type_tags"`
	OfflineDefense    string   `json:"offline_defense,omitempty"`
	ScheduleBasisYear string   `json:"schedule_basis_year,omitempty"`
	EvidenceLinks     []string `json:"evidence_links"`
	Notes             string   `json:"notes,omitempty"`

	Registration DateRange `json:"registration"`
	Submission   DateRange `json:"submission"`
	Result       DateRange `json:"result"`

	// The fragment (or whole-cell fallback) each range was parsed from.
	RegistrationText string `json:"registration_text,omitempty"`
	SubmissionText   string `json:"submission_text,omitempty"`
	ResultText       string `json:"result_text,omitempty"`
}

// EarliestDate returns the earliest resolved date across the three ranges,
// or nil when everything is absent. Used as the primary output sort key.
func (o OutputRecord) EarliestDate() *time.Time {
	var min *time.Time
	for _, r := range []DateRange{o.Registration, o.Submission, o.Result} {
		if e := r.Earliest(); e != nil {
			if min == nil || e.Before(*min) {
				min = e
			}
		}
	}
	return min
}
