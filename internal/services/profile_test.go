package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/chytanka/chytanka-backend/internal/adaptive"
	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	require.NoError(t, err)
	return log
}

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func goodSummary(difficulty float64) adaptive.SummaryInput {
	return adaptive.SummaryInput{
		DurationSec:    float64Ptr(300),
		WordCount:      float64Ptr(400),
		QuizAccuracy:   float64Ptr(1.0),
		QuizCount:      intPtr(2),
		PaceWPMProxy:   float64Ptr(150),
		TextDifficulty: float64Ptr(difficulty),
	}
}

func TestGetProfileFirstAccessDefaults(t *testing.T) {
	svc := NewProfileService(nil, testLogger(t), newFakeProfileRepo())

	p, err := svc.GetProfile(context.Background(), adaptive.LanguageRU)
	require.NoError(t, err)
	assert.Equal(t, adaptive.LanguageRU, p.Language)
	assert.Equal(t, adaptive.DefaultSkillLevel, p.SkillLevel)
	assert.Equal(t, adaptive.DefaultConfidence, p.Confidence)
	assert.Equal(t, adaptive.BottleneckBalanced, p.Bottleneck)
}

func TestApplySessionSummaryPersists(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(nil, testLogger(t), repo)
	ctx := context.Background()

	updated, err := svc.ApplySessionSummary(ctx, adaptive.LanguageRU, goodSummary(25), time.Now())
	require.NoError(t, err)
	assert.Greater(t, updated.SkillLevel, adaptive.DefaultSkillLevel,
		"strong performance at skill-matched difficulty raises skill")
	require.Len(t, updated.History, 1)

	// A fresh read sees the persisted state, not the defaults.
	reloaded, err := svc.GetProfile(ctx, adaptive.LanguageRU)
	require.NoError(t, err)
	assert.InDelta(t, updated.SkillLevel, reloaded.SkillLevel, 1e-9)
	assert.Len(t, reloaded.History, 1)
}

func TestProfilesAreIndependentPerLanguage(t *testing.T) {
	svc := NewProfileService(nil, testLogger(t), newFakeProfileRepo())
	ctx := context.Background()

	_, err := svc.ApplySessionSummary(ctx, adaptive.LanguageRU, goodSummary(25), time.Now())
	require.NoError(t, err)

	uk, err := svc.GetProfile(ctx, adaptive.LanguageUK)
	require.NoError(t, err)
	assert.Equal(t, adaptive.DefaultSkillLevel, uk.SkillLevel)
	assert.Empty(t, uk.History)
}

func TestCorruptedRowHealsOnRead(t *testing.T) {
	repo := newFakeProfileRepo()
	require.NoError(t, repo.Upsert(context.Background(), nil, &types.ReadingProfile{
		Language:    string(adaptive.LanguageRU),
		SkillLevel:  240,
		Confidence:  7,
		Bottleneck:  "garbage",
		Signals:     datatypes.JSON([]byte(`{not json`)),
		Recommended: datatypes.JSON([]byte(`null`)),
		History:     datatypes.JSON([]byte(`[]`)),
	}))
	svc := NewProfileService(nil, testLogger(t), repo)

	p, err := svc.GetProfile(context.Background(), adaptive.LanguageRU)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.SkillLevel)
	assert.Equal(t, adaptive.MaxConfidence, p.Confidence)
	assert.Contains(t, []adaptive.Bottleneck{
		adaptive.BottleneckDecoding,
		adaptive.BottleneckComprehension,
		adaptive.BottleneckStamina,
		adaptive.BottleneckBalanced,
	}, p.Bottleneck)
	assert.NotEmpty(t, p.Recommended.TextTypes, "recommendations are rebuilt")
}

func TestApplyDiagnosticPersists(t *testing.T) {
	svc := NewProfileService(nil, testLogger(t), newFakeProfileRepo())
	ctx := context.Background()

	passages := []adaptive.PassageResult{
		{DifficultyScore: 30, PassagePerformance: 0.9, Summary: adaptive.Summary{WordCount: 120, QuizCount: 2}},
		{DifficultyScore: 36, PassagePerformance: 0.85, Summary: adaptive.Summary{WordCount: 130, QuizCount: 2}},
		{DifficultyScore: 42, PassagePerformance: 0.8, Summary: adaptive.Summary{WordCount: 110, QuizCount: 2}},
	}
	updated, err := svc.ApplyDiagnostic(ctx, adaptive.LanguageUK, passages, time.Now())
	require.NoError(t, err)
	assert.Greater(t, updated.SkillLevel, adaptive.DefaultSkillLevel)
	assert.GreaterOrEqual(t, updated.Confidence, 0.55, "diagnostic sets the confidence floor")

	reloaded, err := svc.GetProfile(ctx, adaptive.LanguageUK)
	require.NoError(t, err)
	assert.InDelta(t, updated.SkillLevel, reloaded.SkillLevel, 1e-9)
}

func TestExportCoversBothLanguages(t *testing.T) {
	svc := NewProfileService(nil, testLogger(t), newFakeProfileRepo())
	ctx := context.Background()

	_, err := svc.ApplySessionSummary(ctx, adaptive.LanguageRU, goodSummary(25), time.Now())
	require.NoError(t, err)

	export, err := svc.Export(ctx)
	require.NoError(t, err)
	require.NotNil(t, export.RU)
	require.NotNil(t, export.UK)
	assert.Greater(t, export.RU.SkillLevel, adaptive.DefaultSkillLevel)
	assert.Equal(t, adaptive.DefaultSkillLevel, export.UK.SkillLevel)
	assert.False(t, export.UpdatedTS.IsZero())
}
