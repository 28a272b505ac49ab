package adaptive

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnd = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

// pivotSummary yields performance exactly 0.75: behavior 0.75 and quiz
// accuracy 0.75 blend to the estimator's expected-success pivot.
func pivotSummary(difficulty float64) Summary {
	return NormalizeSummary(SummaryInput{
		DurationSec:         ptr(300),
		WordCount:           ptr(400),
		QuizAccuracy:        ptr(0.75),
		QuizCount:           intPtr(4),
		HelpTapsPer100Words: ptr(12),
		RepeatRate:          ptr(0.25),
		PauseDensity:        ptr(0.25),
		PaceWPMProxy:        ptr(120),
		TextDifficulty:      ptr(difficulty),
	})
}

func TestUpdateNoMovementAtPivot(t *testing.T) {
	p := NewProfile(LanguageRU)
	require.Equal(t, 25.0, p.SkillLevel)

	s := pivotSummary(25)
	require.InDelta(t, 0.75, ScorePerformance(s), 1e-9)

	got := UpdateProfileFromSummary(p, s, testEnd)
	assert.InDelta(t, 25.0, got.SkillLevel, 1e-9)
}

func TestUpdateFarMismatchBarelyMoves(t *testing.T) {
	p := NewProfile(LanguageRU)
	s := cleanSummary()
	s.TextDifficulty = 70
	s.DifficultyKnown = true
	require.InDelta(t, 1.0, ScorePerformance(s), 1e-9)

	// informativeness = exp(-45/18) ≈ 0.0821; candidate ≈ 25.164;
	// smoothed ≈ 25.049. Perfect performance on a far-mismatched text
	// barely moves the estimate.
	got := UpdateProfileFromSummary(p, s, testEnd)
	assert.InDelta(t, 25.049, got.SkillLevel, 0.01)
}

func TestInformativenessDecay(t *testing.T) {
	assert.InDelta(t, 1.0, Informativeness(25, 25), 1e-9)
	assert.InDelta(t, math.Exp(-45.0/18.0), Informativeness(70, 25), 1e-9)
	assert.InDelta(t, Informativeness(20, 40), Informativeness(60, 40), 1e-9)
}

func TestUpdateBoundsProperty(t *testing.T) {
	// Sweep extreme inputs: skill and confidence must stay in range.
	skills := []float64{0, 12.5, 50, 99, 100}
	perfInputs := []SummaryInput{
		{},
		{QuizAccuracy: ptr(1), QuizCount: intPtr(5), PaceWPMProxy: ptr(400), WordCount: ptr(5000), DurationSec: ptr(3600)},
		{AbandonRate: ptr(1), HelpTapsPer100Words: ptr(80), DurationSec: ptr(10), TTSOnlyRatio: ptr(1)},
		{QuizAccuracy: ptr(0), QuizCount: intPtr(2), TextDifficulty: ptr(0)},
		{QuizAccuracy: ptr(1), QuizCount: intPtr(2), TextDifficulty: ptr(100)},
	}
	for _, skill := range skills {
		for _, in := range perfInputs {
			p := NewProfile(LanguageUK)
			p.SkillLevel = skill
			got := UpdateProfileFromSummary(p, NormalizeSummary(in), testEnd)
			assert.GreaterOrEqual(t, got.SkillLevel, 0.0)
			assert.LessOrEqual(t, got.SkillLevel, 100.0)
			assert.GreaterOrEqual(t, got.Confidence, MinConfidence)
			assert.LessOrEqual(t, got.Confidence, MaxConfidence)
		}
	}
}

func TestUpdateSmoothingDampsRepeatedEvidence(t *testing.T) {
	p := NewProfile(LanguageRU)
	s := cleanSummary()
	s.TextDifficulty = p.SkillLevel
	s.DifficultyKnown = true

	one := UpdateProfileFromSummary(p, s, testEnd)
	two := UpdateProfileFromSummary(one, s, testEnd.Add(time.Hour))

	d1 := one.SkillLevel - p.SkillLevel
	d2 := two.SkillLevel - p.SkillLevel
	require.Greater(t, d1, 0.0)
	// Same direction, but two steps move strictly less than twice one step.
	assert.Greater(t, d2, d1)
	assert.Less(t, d2, 2*d1)
}

func TestUpdateConfidenceBookkeeping(t *testing.T) {
	p := NewProfile(LanguageRU)
	s := NormalizeSummary(SummaryInput{
		DurationSec:  ptr(600),
		WordCount:    ptr(500),
		QuizAccuracy: ptr(0.8),
		QuizCount:    intPtr(3),
	})
	got := UpdateProfileFromSummary(p, s, testEnd)
	// +0.08 for a full 500-word session, +0.04 for quiz evidence.
	assert.InDelta(t, p.Confidence+0.12, got.Confidence, 1e-9)

	low := NormalizeSummary(SummaryInput{
		DurationSec:  ptr(30),
		TTSOnlyRatio: ptr(1),
	})
	got = UpdateProfileFromSummary(p, low, testEnd)
	// -0.06 short session, -0.04 all-TTS, floored at MinConfidence.
	assert.InDelta(t, math.Max(MinConfidence, p.Confidence-0.1), got.Confidence, 1e-9)
}

func TestUpdateFallsBackToSkillWhenDifficultyUnknown(t *testing.T) {
	p := NewProfile(LanguageRU)
	p.SkillLevel = 40
	s := cleanSummary() // no difficulty reported
	got := UpdateProfileFromSummary(p, s, testEnd)
	// difficulty == skill means informativeness 1: full-strength step.
	want := clamp(0.7*40+0.3*(40+8*(1-0.75)), 0, 100)
	assert.InDelta(t, want, got.SkillLevel, 1e-9)
	require.Len(t, got.History, 1)
	assert.Equal(t, 40.0, got.History[0].Difficulty)
}

func TestUpdateAppendsHistoryAndTrends(t *testing.T) {
	p := NewProfile(LanguageUK)
	s := cleanSummary()
	s.TextDifficulty = 28
	s.DifficultyKnown = true

	ts := testEnd
	for i := 0; i < 5; i++ {
		p = UpdateProfileFromSummary(p, s, ts)
		ts = ts.Add(24 * time.Hour)
	}
	assert.Len(t, p.History, 5)
	assert.Greater(t, p.Trend7d, 0.0)
	assert.Greater(t, p.Trend30d, 0.0)
	assert.Equal(t, p.History[4].SkillLevel, p.SkillLevel)
}

func TestDiagnosticUpdateBlend(t *testing.T) {
	p := NewProfile(LanguageRU)
	passages := []PassageResult{
		{DifficultyScore: 25, PassagePerformance: 1.0, Summary: cleanSummary()},
		{DifficultyScore: 31, PassagePerformance: 0.5, Summary: cleanSummary()},
		{DifficultyScore: 29, PassagePerformance: 0.75, Summary: cleanSummary()},
	}
	// points: 25+3=28, 31-3=28, 29+0=29 → diagnosticSkill = 28.333
	got := UpdateProfileFromDiagnostic(p, LanguageRU, passages, testEnd)
	want := 0.55*25 + 0.45*(85.0/3.0)
	assert.InDelta(t, want, got.SkillLevel, 1e-9)
	assert.GreaterOrEqual(t, got.Confidence, 0.55)

	require.Len(t, got.History, 1)
	assert.Equal(t, "diagnostic", got.History[0].Source)
}

func TestDiagnosticUpdateEmptyPassagesIsNoOp(t *testing.T) {
	p := NewProfile(LanguageRU)
	p.SkillLevel = 47.3
	p.Confidence = 0.42
	p.Signals.QuizAccuracy = 0.8

	got := UpdateProfileFromDiagnostic(p, LanguageRU, nil, testEnd)
	assert.Equal(t, EnsureProfileShape(p, LanguageRU), got)
}

func TestDiagnosticUpdateClampsPassageDifficulty(t *testing.T) {
	p := NewProfile(LanguageUK)
	passages := []PassageResult{
		{DifficultyScore: 250, PassagePerformance: 1.0, Summary: cleanSummary()},
	}
	got := UpdateProfileFromDiagnostic(p, LanguageUK, passages, testEnd)
	// point = clamp(250)=100 + 12*0.25 = 103 → blended then clamped.
	want := clamp(0.55*25+0.45*103, 0, 100)
	assert.InDelta(t, want, got.SkillLevel, 1e-9)
}
