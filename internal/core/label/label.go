// Package label extracts variant labels from fragments and expands them
// into the alias keys used for matching.
package label

import (
	"regexp"
	"strings"
)

// Single-level parenthetical, ASCII or full-width on either side.
var parenRE = regexp.MustCompile(`[（(]([^（）()]*)[）)]`)

var spaceRE = regexp.MustCompile(`\s+`)

// Annotation tokens stripped from labels wherever they occur.
// 正式报名 must come before 正式, otherwise the 报名 half survives.
var noiseTokens = []string{"推测", "正式报名", "正式", "已结束", "推定", "预计"}

// Conjunctions that join multiple tracks inside one label.
var keySeparators = []string{"/", "／", "与", "和", "及", "、"}

// Category suffixes whose presence is inconsistent in the source
// (品牌策划组 and 品牌策划 name the same track). 组别 before 组 so the
// longer suffix is seen too.
var keySuffixes = []string{"赛道", "赛区", "赛项", "组别", "组"}

// Annotation words that are never a track name on their own.
var keyBlacklist = map[string]bool{"推测": true, "官方": true}

// Extract returns the raw text of the last parenthetical group in the
// fragment, or "". Trailing parentheticals are annotations in this domain;
// leading ones are sometimes part of the competition name itself.
func Extract(part string) string {
	groups := parenRE.FindAllStringSubmatch(part, -1)
	if len(groups) == 0 {
		return ""
	}
	return strings.TrimSpace(groups[len(groups)-1][1])
}

// Clean normalizes a raw label: all whitespace removed, noise tokens removed
// wherever they occur, stray colons trimmed from both ends.
func Clean(lbl string) string {
	if lbl == "" {
		return ""
	}
	x := spaceRE.ReplaceAllString(lbl, "")
	for _, t := range noiseTokens {
		x = strings.ReplaceAll(x, t, "")
	}
	return strings.Trim(x, "：:")
}

// Keys expands a label into every plausible alias: the cleaned label itself,
// each conjunction-separated part, and each suffix-stripped form whose
// remainder is non-empty. Empty and blacklisted keys are dropped.
func Keys(lbl string) map[string]struct{} {
	keys := make(map[string]struct{})

	c := Clean(lbl)
	if c == "" {
		return keys
	}
	keys[c] = struct{}{}

	for _, sep := range keySeparators {
		if !strings.Contains(c, sep) {
			continue
		}
		for _, p := range strings.Split(c, sep) {
			if p != "" {
				keys[p] = struct{}{}
			}
		}
	}

	var stripped []string
	for k := range keys {
		for _, suf := range keySuffixes {
			if trimmed := strings.TrimSuffix(k, suf); trimmed != k && trimmed != "" {
				stripped = append(stripped, trimmed)
			}
		}
	}
	for _, k := range stripped {
		keys[k] = struct{}{}
	}

	for k := range keys {
		if keyBlacklist[k] {
			delete(keys, k)
		}
	}
	return keys
}

// FragmentKeys is Keys applied to a fragment's extracted label.
func FragmentKeys(part string) map[string]struct{} {
	return Keys(Extract(part))
}
