// Package core turns raw sheet rows into canonical competition records:
// one output record per (competition, variant) pair with resolved date
// ranges and a stable content-derived identity.
package core

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/seedworks/compseed/internal/core/dateinfer"
	"github.com/seedworks/compseed/internal/core/label"
	"github.com/seedworks/compseed/internal/core/match"
	"github.com/seedworks/compseed/internal/core/model"
	"github.com/seedworks/compseed/internal/core/segment"
)

// Mode selects the pipeline flavor.
type Mode string

const (
	// ModeVariant keys records by (name, variant); identity collisions keep
	// the first record, mirroring the loader's INSERT OR IGNORE.
	ModeVariant Mode = "variant"
	// ModeDeadline keys records by (name, primary deadline) and requires
	// that deadline; collisions merge field-wise, preferring the more
	// informative value.
	ModeDeadline Mode = "deadline"
)

type Normalizer struct {
	Mode  Mode
	Dates *dateinfer.Engine
}

func NewNormalizer(mode Mode, baseYear int) *Normalizer {
	if mode == "" {
		mode = ModeVariant
	}
	return &Normalizer{
		Mode:  mode,
		Dates: dateinfer.NewEngine(baseYear),
	}
}

// Result is the full outcome of one build: the records plus everything the
// reporting layer needs (fallbacks applied, rows skipped, identity
// collisions and how they were resolved).
type Result struct {
	Records    []model.OutputRecord
	Fallbacks  []model.FallbackEvent
	Skips      []model.SkipEvent
	Collisions []model.CollisionEvent
}

// Build processes the rows in order and returns a deterministic, de-duplicated,
// stably sorted record set. The same input always produces the same output.
func (n *Normalizer) Build(rows []model.RawRecord) (*Result, error) {
	res := &Result{}
	var built []model.OutputRecord

	for _, row := range rows {
		recs, err := n.buildRow(row, res)
		if err != nil {
			return nil, err
		}
		built = append(built, recs...)
	}

	// Dedup by identity. Stable hashing should prevent collisions, but when
	// they happen they are resolved explicitly and recorded, never dropped
	// on the floor.
	seen := make(map[string]int)
	var out []model.OutputRecord
	for _, r := range built {
		i, ok := seen[r.ID]
		if !ok {
			seen[r.ID] = len(out)
			out = append(out, r)
			continue
		}
		switch n.Mode {
		case ModeDeadline:
			out[i] = mergeRecords(out[i], r)
			res.Collisions = append(res.Collisions, model.CollisionEvent{
				ID: r.ID, Name: r.Name, Variant: r.Variant,
				Resolution: "merged field-wise, more informative value kept",
			})
		default:
			res.Collisions = append(res.Collisions, model.CollisionEvent{
				ID: r.ID, Name: r.Name, Variant: r.Variant,
				Resolution: "kept first record",
			})
		}
	}

	// Stable order for idempotent downstream loading: earliest resolved
	// date first, then display name, then id.
	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i]) < sortKey(out[j])
	})

	res.Records = out
	return res, nil
}

func (n *Normalizer) buildRow(row model.RawRecord, res *Result) ([]model.OutputRecord, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		res.Skips = append(res.Skips, model.SkipEvent{Line: row.Line, Reason: "empty competition name"})
		return nil, nil
	}

	// 1. Segment the three date cells independently.
	regParts := segment.Split(row.RegistrationText)
	subParts := segment.Split(row.SubmissionText)
	resParts := segment.Split(row.ResultText)

	// 2. The union of cleaned labels across all cells is the variant set;
	// any unlabeled fragment adds the implicit "" variant.
	var all []string
	all = append(all, regParts...)
	all = append(all, subParts...)
	all = append(all, resParts...)

	labelSet := make(map[string]bool)
	hasUnlabeled := false
	for _, p := range all {
		c := label.Clean(label.Extract(p))
		if c == "" {
			hasUnlabeled = true
		} else {
			labelSet[c] = true
		}
	}

	variants := make([]string, 0, len(labelSet)+1)
	for l := range labelSet {
		variants = append(variants, l)
	}
	sort.Strings(variants)
	if len(variants) == 0 {
		variants = []string{""}
	} else if hasUnlabeled {
		variants = append([]string{""}, variants...)
	}

	// 3. One output record per variant.
	var out []model.OutputRecord
	for _, variant := range variants {
		var vkeys map[string]struct{}
		if variant != "" {
			vkeys = label.Keys(variant)
		}
		wantUnlabeled := variant == ""

		regText := n.pickText(row, variant, "registration", regParts, vkeys, wantUnlabeled, row.RegistrationText, res)
		subText := n.pickText(row, variant, "submission", subParts, vkeys, wantUnlabeled, row.SubmissionText, res)
		resText := n.pickText(row, variant, "result", resParts, vkeys, wantUnlabeled, row.ResultText, res)

		regRange, err := n.parseField(row, variant, "registration", regText, dateinfer.Registration)
		if err != nil {
			return nil, err
		}
		subRange, err := n.parseField(row, variant, "submission", subText, dateinfer.Submission)
		if err != nil {
			return nil, err
		}
		resRange, err := n.parseField(row, variant, "result", resText, dateinfer.Result)
		if err != nil {
			return nil, err
		}

		displayName := name
		if variant != "" {
			displayName = name + "（" + variant + "）"
		}

		rec := model.OutputRecord{
			Name:              name,
			Variant:           variant,
			DisplayName:       displayName,
			SourceTag:         strings.TrimSpace(row.SourceTag),
			TypeTags:          ParseTypeTags(row.TypeTagsText),
			OfflineDefense:    strings.TrimSpace(row.OfflineDefense),
			ScheduleBasisYear: strings.TrimSpace(row.ScheduleBasisYear),
			EvidenceLinks:     ParseLinks(row.LinksText),
			Notes:             strings.TrimSpace(row.Notes),
			Registration:      regRange,
			Submission:        subRange,
			Result:            resRange,
			RegistrationText:  regText,
			SubmissionText:    subText,
			ResultText:        resText,
		}

		if n.Mode == ModeDeadline {
			deadline := rec.Registration.End
			if deadline == nil && rec.Submission.End != nil {
				deadline = rec.Submission.End
				res.Fallbacks = append(res.Fallbacks, model.FallbackEvent{
					Line: row.Line, RecordName: name, Variant: variant,
					Field:  "registration_end",
					Before: "",
					After:  *model.FormatDate(deadline),
					Reason: "missing primary deadline, filled from submission end",
				})
				rec.Registration.End = deadline
			}
			if deadline == nil {
				res.Skips = append(res.Skips, model.SkipEvent{
					Line: row.Line, RecordName: displayName,
					Reason: "no parseable primary deadline",
				})
				continue
			}
			rec.ID = stableID(name, *model.FormatDate(deadline))
		} else {
			rec.ID = stableID(name, variant)
		}

		out = append(out, rec)
	}
	return out, nil
}

// pickText selects the fragment for one column, falling back to the whole
// cell so a variant never silently loses its date text.
func (n *Normalizer) pickText(row model.RawRecord, variant, field string, parts []string, vkeys map[string]struct{}, wantUnlabeled bool, cell string, res *Result) string {
	if best := match.Best(parts, vkeys, wantUnlabeled); best != "" {
		return best
	}
	fb := strings.TrimSpace(cell)
	if fb != "" && len(parts) > 1 {
		res.Fallbacks = append(res.Fallbacks, model.FallbackEvent{
			Line: row.Line, RecordName: strings.TrimSpace(row.Name), Variant: variant,
			Field:  field + "_text",
			Before: "",
			After:  fb,
			Reason: "no fragment matched the variant, using whole cell",
		})
	}
	return fb
}

func (n *Normalizer) parseField(row model.RawRecord, variant, field, text string, ctx dateinfer.Context) (model.DateRange, error) {
	r, err := n.Dates.Parse(text, ctx)
	if err != nil {
		return model.DateRange{}, fmt.Errorf("row %d (%s), variant %q, %s: %w",
			row.Line, strings.TrimSpace(row.Name), variant, field, err)
	}
	return r, nil
}

// stableID derives the record identity from its content, so rebuilds over
// the same input regenerate the same keys.
func stableID(parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, "|")))
	return "comp_" + hex.EncodeToString(h[:])[:12]
}

// sortKey orders records by earliest resolved date, then display name, then
// id. Records with no resolved dates sort last.
func sortKey(r model.OutputRecord) string {
	date := "9999-99-99"
	if e := r.EarliestDate(); e != nil {
		date = *model.FormatDate(e)
	}
	return date + "\x00" + r.DisplayName + "\x00" + r.ID
}

// mergeRecords reconciles two records that hashed to the same identity,
// keeping the more informative value per field.
func mergeRecords(a, b model.OutputRecord) model.OutputRecord {
	a.Variant = preferString(a.Variant, b.Variant)
	a.DisplayName = preferString(a.DisplayName, b.DisplayName)
	a.SourceTag = preferString(a.SourceTag, b.SourceTag)
	a.OfflineDefense = preferString(a.OfflineDefense, b.OfflineDefense)
	a.ScheduleBasisYear = preferString(a.ScheduleBasisYear, b.ScheduleBasisYear)
	a.Notes = preferString(a.Notes, b.Notes)
	a.RegistrationText = preferString(a.RegistrationText, b.RegistrationText)
	a.SubmissionText = preferString(a.SubmissionText, b.SubmissionText)
	a.ResultText = preferString(a.ResultText, b.ResultText)
	if len(b.TypeTags) > len(a.TypeTags) {
		a.TypeTags = b.TypeTags
	}
	if len(b.EvidenceLinks) > len(a.EvidenceLinks) {
		a.EvidenceLinks = b.EvidenceLinks
	}
	a.Registration = mergeRange(a.Registration, b.Registration)
	a.Submission = mergeRange(a.Submission, b.Submission)
	a.Result = mergeRange(a.Result, b.Result)
	return a
}

func preferString(a, b string) string {
	if a == "" {
		return b
	}
	return a
}

func mergeRange(a, b model.DateRange) model.DateRange {
	if a.Start == nil {
		a.Start = b.Start
	}
	if a.End == nil {
		a.End = b.End
	}
	return a
}
