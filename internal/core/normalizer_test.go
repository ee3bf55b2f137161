package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seedworks/compseed/internal/core/model"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildSplitsVariants(t *testing.T) {
	n := NewNormalizer(ModeVariant, 2026)

	rows := []model.RawRecord{{
		Name:             "全国大学生广告艺术大赛",
		RegistrationText: "03-01至03-10（品牌策划），04-01至04-10（会计）",
		SubmissionText:   "05-01至05-10",
		ResultText:       "未公布",
		Line:             2,
	}}

	res, err := n.Build(rows)
	assert.NoError(t, err)
	// Labeled fragments yield two variants, the unlabeled submission cell
	// adds the implicit "" variant.
	assert.Len(t, res.Records, 3)

	byVariant := make(map[string]model.OutputRecord)
	for _, r := range res.Records {
		byVariant[r.Variant] = r
	}

	acc := byVariant["会计"]
	assert.Equal(t, "全国大学生广告艺术大赛（会计）", acc.DisplayName)
	assert.Equal(t, day(2026, 4, 1), acc.Registration.Start)
	assert.Equal(t, day(2026, 4, 10), acc.Registration.End)
	// No submission fragment matches 会计; the sole fragment is used.
	assert.Equal(t, day(2026, 5, 1), acc.Submission.Start)
	assert.True(t, acc.Result.Empty())

	brand := byVariant["品牌策划"]
	assert.Equal(t, day(2026, 3, 1), brand.Registration.Start)

	plain := byVariant[""]
	assert.Equal(t, "全国大学生广告艺术大赛", plain.DisplayName)
	// Both registration fragments are labeled, so the unlabeled variant
	// falls back to the whole cell.
	assert.Equal(t, "03-01至03-10（品牌策划），04-01至04-10（会计）", plain.RegistrationText)

	// Distinct, non-empty identities throughout.
	ids := make(map[string]bool)
	for _, r := range res.Records {
		assert.NotEmpty(t, r.ID)
		assert.False(t, ids[r.ID])
		ids[r.ID] = true
	}
}

func TestBuildRecordsWholeCellFallback(t *testing.T) {
	n := NewNormalizer(ModeVariant, 2026)

	rows := []model.RawRecord{{
		Name:             "测试竞赛",
		RegistrationText: "03-01至03-10（品牌策划），04-01至04-10（会计）",
		SubmissionText:   "05-01至05-10",
		Line:             2,
	}}

	res, err := n.Build(rows)
	assert.NoError(t, err)

	var fields []string
	for _, f := range res.Fallbacks {
		if f.Variant == "" {
			fields = append(fields, f.Field)
		}
	}
	// The "" variant could not pick a registration fragment and fell back
	// to the whole cell; the report layer sees it.
	assert.Contains(t, fields, "registration_text")
}

func TestBuildSkipsUnnamedRows(t *testing.T) {
	n := NewNormalizer(ModeVariant, 2026)

	rows := []model.RawRecord{
		{Name: "  ", RegistrationText: "03-01至03-10", Line: 2},
		{Name: "有名字的竞赛", RegistrationText: "03-01至03-10", Line: 3},
	}

	res, err := n.Build(rows)
	assert.NoError(t, err)
	assert.Len(t, res.Records, 1)
	assert.Len(t, res.Skips, 1)
	assert.Equal(t, 2, res.Skips[0].Line)
	assert.Equal(t, "empty competition name", res.Skips[0].Reason)
}

func TestBuildIdempotent(t *testing.T) {
	n := NewNormalizer(ModeVariant, 2026)

	rows := []model.RawRecord{
		{Name: "竞赛B", RegistrationText: "04-01至04-10（会计）,05-01（品牌）", Line: 2},
		{Name: "竞赛A", RegistrationText: "03-01至03-10", SubmissionText: "08-30至01-06", Line: 3},
	}

	first, err := n.Build(rows)
	assert.NoError(t, err)
	second, err := n.Build(rows)
	assert.NoError(t, err)
	assert.Equal(t, first.Records, second.Records)
}

func TestBuildOutputOrderedByEarliestDate(t *testing.T) {
	n := NewNormalizer(ModeVariant, 2026)

	rows := []model.RawRecord{
		{Name: "晚的竞赛", RegistrationText: "09-01至09-10", Line: 2},
		{Name: "早的竞赛", RegistrationText: "02-01至02-10", Line: 3},
		{Name: "没日期的竞赛", RegistrationText: "待定", Line: 4},
	}

	res, err := n.Build(rows)
	assert.NoError(t, err)
	assert.Len(t, res.Records, 3)
	assert.Equal(t, "早的竞赛", res.Records[0].Name)
	assert.Equal(t, "晚的竞赛", res.Records[1].Name)
	// Dateless records sort last.
	assert.Equal(t, "没日期的竞赛", res.Records[2].Name)
}

func TestBuildIdentityCollisionKeepsFirst(t *testing.T) {
	n := NewNormalizer(ModeVariant, 2026)

	// Same name, no labels: both rows produce the "" variant and hash to
	// the same identity.
	rows := []model.RawRecord{
		{Name: "重复竞赛", RegistrationText: "03-01至03-10", Line: 2},
		{Name: "重复竞赛", RegistrationText: "04-01至04-10", Line: 3},
	}

	res, err := n.Build(rows)
	assert.NoError(t, err)
	assert.Len(t, res.Records, 1)
	assert.Equal(t, day(2026, 3, 1), res.Records[0].Registration.Start)
	assert.Len(t, res.Collisions, 1)
	assert.Equal(t, "kept first record", res.Collisions[0].Resolution)
}

func TestBuildInvalidDateAbortsBuild(t *testing.T) {
	n := NewNormalizer(ModeVariant, 2026)

	rows := []model.RawRecord{{Name: "坏日期竞赛", RegistrationText: "2026-13-01", Line: 2}}

	_, err := n.Build(rows)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "坏日期竞赛")
	assert.Contains(t, err.Error(), "registration")
}

func TestBuildDeadlineModeFallbackAndSkip(t *testing.T) {
	n := NewNormalizer(ModeDeadline, 2026)

	rows := []model.RawRecord{
		// No registration deadline; submission end fills in.
		{Name: "竞赛一", RegistrationText: "未公布", SubmissionText: "03-15止", Line: 2},
		// Nothing parseable at all: the row is skipped in this mode.
		{Name: "竞赛二", RegistrationText: "未公布", SubmissionText: "待定", Line: 3},
	}

	res, err := n.Build(rows)
	assert.NoError(t, err)
	assert.Len(t, res.Records, 1)
	assert.Equal(t, day(2026, 3, 15), res.Records[0].Registration.End)

	assert.Len(t, res.Fallbacks, 1)
	assert.Equal(t, "registration_end", res.Fallbacks[0].Field)
	assert.Equal(t, "2026-03-15", res.Fallbacks[0].After)

	assert.Len(t, res.Skips, 1)
	assert.Equal(t, "no parseable primary deadline", res.Skips[0].Reason)
}

func TestBuildDeadlineModeIdentityUsesDeadline(t *testing.T) {
	n := NewNormalizer(ModeDeadline, 2026)

	// Same name and variant but different deadlines must not collide.
	rows := []model.RawRecord{
		{Name: "竞赛", RegistrationText: "03-15止", Line: 2},
		{Name: "竞赛", RegistrationText: "04-15止", Line: 3},
	}

	res, err := n.Build(rows)
	assert.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.NotEqual(t, res.Records[0].ID, res.Records[1].ID)
	assert.Empty(t, res.Collisions)
}

func TestParseTypeTags(t *testing.T) {
	assert.Equal(t, []string{"线上", "团队"}, ParseTypeTags("线上，团队,线上"))
	assert.Nil(t, ParseTypeTags(""))
	assert.Nil(t, ParseTypeTags(" ，, "))
}

func TestParseLinks(t *testing.T) {
	links := ParseLinks("https://a.example/x 说明 http://b.example https://a.example/x")
	assert.Equal(t, []string{"https://a.example/x", "http://b.example"}, links)
	assert.Nil(t, ParseLinks("没有链接"))
}
