package core

import "strings"

// ParseTypeTags splits a tag cell on ASCII or full-width commas,
// de-duplicating while preserving source order.
func ParseTypeTags(s string) []string {
	if s == "" {
		return nil
	}
	x := strings.ReplaceAll(s, "，", ",")

	seen := make(map[string]bool)
	var out []string
	for _, p := range strings.Split(x, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// ParseLinks extracts http(s) URLs from a whitespace-separated cell,
// de-duplicating while preserving source order.
func ParseLinks(s string) []string {
	if s == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, p := range strings.Fields(s) {
		if !strings.HasPrefix(p, "http://") && !strings.HasPrefix(p, "https://") {
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
