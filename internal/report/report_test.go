package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seedworks/compseed/internal/core"
	"github.com/seedworks/compseed/internal/core/model"
)

func TestRenderListsEverything(t *testing.T) {
	r := New("data/competitions.csv", "variant")
	assert.NotEmpty(t, r.RunID)

	res := &core.Result{
		Records: []model.OutputRecord{{ID: "comp_aaaaaaaaaaaa"}},
		Fallbacks: []model.FallbackEvent{{
			Line: 2, RecordName: "竞赛A", Variant: "会计",
			Field: "registration_text", After: "03-01至03-10",
			Reason: "no fragment matched the variant, using whole cell",
		}},
		Skips: []model.SkipEvent{{Line: 5, Reason: "empty competition name"}},
		Collisions: []model.CollisionEvent{{
			ID: "comp_bbbbbbbbbbbb", Name: "竞赛B", Resolution: "kept first record",
		}},
	}

	out := r.Render(res)
	assert.Contains(t, out, "Records: 1")
	assert.Contains(t, out, "## Fallbacks")
	assert.Contains(t, out, "竞赛A（会计）")
	assert.Contains(t, out, "## Skipped rows")
	assert.Contains(t, out, "(unnamed)")
	assert.Contains(t, out, "## Identity collisions")
	assert.Contains(t, out, "kept first record")
}

func TestRenderQuietBuildHasNoSections(t *testing.T) {
	out := New("x.csv", "variant").Render(&core.Result{})
	assert.Contains(t, out, "Records: 0")
	assert.NotContains(t, out, "## Fallbacks")
	assert.NotContains(t, out, "## Skipped rows")
	assert.NotContains(t, out, "## Identity collisions")
}
