// Package match pairs fragments with the variant they describe.
package match

import "github.com/seedworks/compseed/internal/core/label"

// Best selects at most one fragment for a variant.
//
// With an empty key set (the unlabeled pseudo-variant) the sole unlabeled
// fragment wins when wantUnlabeled is set; otherwise a single fragment is
// returned unconditionally and anything else is ambiguous.
//
// With a non-empty key set every fragment is scored by the overlap between
// its own alias keys and the variant's. Scores are compared with a strict >,
// so the first fragment reaching the top score wins ties; that keeps reruns
// deterministic. A zero top score falls back to a sole fragment, else none.
//
// An empty return means no match; the caller falls back to the whole cell
// so a variant never loses its date text entirely.
func Best(parts []string, vkeys map[string]struct{}, wantUnlabeled bool) string {
	if len(parts) == 0 {
		return ""
	}

	if len(vkeys) == 0 {
		if wantUnlabeled {
			var unlabeled []string
			for _, p := range parts {
				if label.Clean(label.Extract(p)) == "" {
					unlabeled = append(unlabeled, p)
				}
			}
			if len(unlabeled) == 1 {
				return unlabeled[0]
			}
		}
		if len(parts) == 1 {
			return parts[0]
		}
		return ""
	}

	best := ""
	bestScore := 0
	for _, p := range parts {
		score := 0
		for k := range label.FragmentKeys(p) {
			if _, ok := vkeys[k]; ok {
				score++
			}
		}
		if score > bestScore {
			best = p
			bestScore = score
		}
	}
	if bestScore > 0 {
		return best
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return ""
}
