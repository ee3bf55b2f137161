// Package segment splits raw sheet cells into top-level fragments.
package segment

import "strings"

// Separators that delimit fragments at the top level. Slashes also appear
// inside labels (e.g. 双创/创业计划), so a separator only splits when the
// scan is outside every parenthetical scope.
var separators = map[rune]bool{
	',': true, '，': true,
	';': true, '；': true,
	'|': true, '/': true,
}

// Split scans the cell rune-by-rune with an explicit bracket-depth counter
// and returns the trimmed, non-empty fragments in source order. Both ASCII
// and full-width parentheses open and close a scope; an unbalanced closer
// never drives the depth negative.
func Split(cell string) []string {
	c := strings.TrimSpace(cell)
	if c == "" {
		return nil
	}

	var out []string
	var buf []rune
	depth := 0

	for _, ch := range c {
		switch ch {
		case '（', '(':
			depth++
		case '）', ')':
			if depth > 0 {
				depth--
			}
		}

		if depth == 0 && separators[ch] {
			if part := strings.TrimSpace(string(buf)); part != "" {
				out = append(out, part)
			}
			buf = buf[:0]
			continue
		}

		buf = append(buf, ch)
	}

	if part := strings.TrimSpace(string(buf)); part != "" {
		out = append(out, part)
	}
	return out
}
