// Package report renders the build report: what was produced, which
// fallbacks were applied, which rows were skipped and which identities
// collided.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seedworks/compseed/internal/core"
)

type Report struct {
	RunID       string
	GeneratedAt time.Time
	Source      string
	Pipeline    string
}

func New(source, pipeline string) *Report {
	return &Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Pipeline:    pipeline,
	}
}

// Render produces the markdown report for one build result.
func (r *Report) Render(res *core.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Build Report\n\n")
	fmt.Fprintf(&b, "- Run: %s\n", r.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Source: %s\n", r.Source)
	fmt.Fprintf(&b, "- Pipeline: %s\n\n", r.Pipeline)

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Records: %d\n", len(res.Records))
	fmt.Fprintf(&b, "- Fallbacks applied: %d\n", len(res.Fallbacks))
	fmt.Fprintf(&b, "- Rows skipped: %d\n", len(res.Skips))
	fmt.Fprintf(&b, "- Identity collisions: %d\n", len(res.Collisions))

	if len(res.Fallbacks) > 0 {
		fmt.Fprintf(&b, "\n## Fallbacks\n\n")
		for _, f := range res.Fallbacks {
			fmt.Fprintf(&b, "- row %d %s", f.Line, f.RecordName)
			if f.Variant != "" {
				fmt.Fprintf(&b, "（%s）", f.Variant)
			}
			fmt.Fprintf(&b, " %s: %q -> %q (%s)\n", f.Field, f.Before, f.After, f.Reason)
		}
	}

	if len(res.Skips) > 0 {
		fmt.Fprintf(&b, "\n## Skipped rows\n\n")
		for _, s := range res.Skips {
			name := s.RecordName
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(&b, "- row %d %s: %s\n", s.Line, name, s.Reason)
		}
	}

	if len(res.Collisions) > 0 {
		fmt.Fprintf(&b, "\n## Identity collisions\n\n")
		for _, c := range res.Collisions {
			fmt.Fprintf(&b, "- %s (%s", c.ID, c.Name)
			if c.Variant != "" {
				fmt.Fprintf(&b, "（%s）", c.Variant)
			}
			fmt.Fprintf(&b, "): %s\n", c.Resolution)
		}
	}

	return b.String()
}

// WriteFile renders the report to path, creating parent directories.
func (r *Report) WriteFile(path string, res *core.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(r.Render(res)), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
