package adaptive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfileDefaults(t *testing.T) {
	p := NewProfile(LanguageUK)
	assert.Equal(t, LanguageUK, p.Language)
	assert.Equal(t, 25.0, p.SkillLevel)
	assert.Equal(t, 0.2, p.Confidence)
	assert.Equal(t, BottleneckBalanced, p.Bottleneck)
	assert.NotEmpty(t, p.Recommended.TextTypes)
}

func TestBandsForSkill(t *testing.T) {
	b := BandsForSkill(50)
	assert.Equal(t, Band{Min: 44, Max: 54}, b.Comfort)
	assert.Equal(t, Band{Min: 54, Max: 62}, b.Instructional)
	assert.Equal(t, Band{Min: 62, Max: 100}, b.Frustration)
}

func TestBandsClampAtScaleEdges(t *testing.T) {
	low := BandsForSkill(3)
	assert.Equal(t, 0.0, low.Comfort.Min)

	high := BandsForSkill(95)
	assert.Equal(t, 100.0, high.Instructional.Max)
	assert.Equal(t, 100.0, high.Frustration.Min)
}

func TestBandsRecomputedAfterUpdate(t *testing.T) {
	p := NewProfile(LanguageRU)
	before := p.Bands()

	s := cleanSummary()
	got := UpdateProfileFromSummary(p, s, time.Now())
	require.NotEqual(t, p.SkillLevel, got.SkillLevel)

	after := got.Bands()
	assert.NotEqual(t, before, after)
	assert.Equal(t, BandsForSkill(got.SkillLevel), after)
}

func TestEnsureProfileShapeHealsCorruptedFields(t *testing.T) {
	p := Profile{
		Language:   LanguageRU,
		SkillLevel: 240,
		Confidence: 7,
		Bottleneck: "bogus",
		Signals:    Signals{QuizAccuracy: 3, AbandonRate: -2, PaceWPMProxy: 80},
		History:    []HistoryEntry{{TS: time.Now(), SkillLevel: 99}},
	}
	got := EnsureProfileShape(p, LanguageRU)
	assert.Equal(t, 100.0, got.SkillLevel)
	assert.Equal(t, MaxConfidence, got.Confidence)
	assert.Equal(t, 1.0, got.Signals.QuizAccuracy)
	assert.Equal(t, 0.0, got.Signals.AbandonRate)
	// Invalid bottleneck reclassified from the healed signals.
	assert.Equal(t, BottleneckBalanced, got.Bottleneck)
	assert.NotEmpty(t, got.Recommended.Activities)
}

func TestEnsureProfileShapeZeroValueBecomesFresh(t *testing.T) {
	got := EnsureProfileShape(Profile{}, LanguageUK)
	assert.Equal(t, NewProfile(LanguageUK), got)
}

func TestPublicProfileStripsHistory(t *testing.T) {
	p := NewProfile(LanguageRU)
	p.History = []HistoryEntry{{TS: time.Now(), SkillLevel: 25}}
	pub := p.Public()
	assert.Equal(t, p.SkillLevel, pub.SkillLevel)
	assert.Equal(t, p.Bands(), pub.Bands)
}

func TestClassifierPriorityDecodingWins(t *testing.T) {
	// Both the decoding and comprehension rules match; rule order says
	// decoding wins.
	s := Signals{
		HelpTapsPer100Words: 10,
		QuizAccuracy:        0.3,
		PaceWPMProxy:        80,
	}
	assert.Equal(t, BottleneckDecoding, ClassifyBottleneck(s))
}

func TestClassifierRules(t *testing.T) {
	cases := []struct {
		name string
		s    Signals
		want Bottleneck
	}{
		{"slow pace", Signals{PaceWPMProxy: 40, QuizAccuracy: 0.9}, BottleneckDecoding},
		{"low accuracy", Signals{PaceWPMProxy: 90, QuizAccuracy: 0.4}, BottleneckComprehension},
		{"frequent abandons", Signals{PaceWPMProxy: 90, QuizAccuracy: 0.8, AbandonRate: 0.35}, BottleneckStamina},
		{"healthy", Signals{PaceWPMProxy: 90, QuizAccuracy: 0.8, AbandonRate: 0.1}, BottleneckBalanced},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyBottleneck(tc.s))
		})
	}
}

func TestRecommendationsStaminaOverride(t *testing.T) {
	rec := BuildRecommendations(BottleneckStamina, 0.9)
	assert.Equal(t, 3, rec.DailyPlan.ChallengesPerDay)
	assert.Equal(t, Mix{Comfort: 0.8, Instructional: 0.2, Challenge: 0}, rec.DailyPlan.Mix)
}

func TestRecommendationsChallengeRequiresConfidence(t *testing.T) {
	hesitant := BuildRecommendations(BottleneckBalanced, 0.5)
	assert.Equal(t, 0.0, hesitant.DailyPlan.Mix.Challenge)

	confident := BuildRecommendations(BottleneckBalanced, 0.8)
	assert.Equal(t, Mix{Comfort: 0.6, Instructional: 0.3, Challenge: 0.1}, confident.DailyPlan.Mix)

	// Confidence never unlocks challenge content for a struggling reader.
	decoding := BuildRecommendations(BottleneckDecoding, 0.9)
	assert.Equal(t, 0.0, decoding.DailyPlan.Mix.Challenge)
}

func TestTrendRequiresTwoPoints(t *testing.T) {
	now := time.Now()
	assert.Zero(t, trendOver(nil, TrendWindow7d, now))
	one := []HistoryEntry{{TS: now, SkillLevel: 30}}
	assert.Zero(t, trendOver(one, TrendWindow7d, now))
}

func TestHistoryPruneRetention(t *testing.T) {
	now := time.Now()
	old := HistoryEntry{TS: now.Add(-50 * 24 * time.Hour), SkillLevel: 20}
	recent := HistoryEntry{TS: now.Add(-10 * 24 * time.Hour), SkillLevel: 22}
	h := appendHistory([]HistoryEntry{old, recent}, HistoryEntry{TS: now, SkillLevel: 24})
	require.Len(t, h, 2)
	assert.Equal(t, 22.0, h[0].SkillLevel)
	assert.Equal(t, 24.0, h[1].SkillLevel)
}
