package adaptive

import "time"

// Language identifies one of the two supported reading languages.
type Language string

const (
	LanguageRU Language = "ru"
	LanguageUK Language = "uk"
)

// DefaultLanguages is the configured language order for diagnostics and
// profile export.
var DefaultLanguages = []Language{LanguageRU, LanguageUK}

// Bottleneck is the classified primary limiting factor in a learner's
// current performance.
type Bottleneck string

const (
	BottleneckDecoding      Bottleneck = "decoding_limited"
	BottleneckComprehension Bottleneck = "comprehension_limited"
	BottleneckStamina       Bottleneck = "stamina_limited"
	BottleneckBalanced      Bottleneck = "balanced"
)

// Profile lifecycle defaults.
const (
	DefaultSkillLevel = 25.0
	DefaultConfidence = 0.2

	MinConfidence = 0.1
	MaxConfidence = 0.99

	HistoryRetention = 45 * 24 * time.Hour
	TrendWindow7d    = 7 * 24 * time.Hour
	TrendWindow30d   = 30 * 24 * time.Hour
)

// Signals holds exponentially-weighted moving averages of per-session raw
// values. Classification reads these, never a single session's summary,
// so the bottleneck reflects a sustained pattern.
type Signals struct {
	HelpTapsPer100Words float64 `json:"help_taps_per_100_words"`
	QuizAccuracy        float64 `json:"quiz_accuracy"`
	AbandonRate         float64 `json:"abandon_rate"`
	PaceWPMProxy        float64 `json:"pace_wpm_proxy"`
}

// Band is a difficulty sub-range relative to current skill.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bands groups the three difficulty bands derived from a skill level.
// Bands are always recomputed from skill_level, never stored.
type Bands struct {
	Comfort       Band `json:"comfort_band"`
	Instructional Band `json:"instructional_band"`
	Frustration   Band `json:"frustration_band"`
}

// BandsForSkill derives the comfort/instructional/frustration bands from a
// skill level, clamped to the [0,100] difficulty scale.
func BandsForSkill(skill float64) Bands {
	return Bands{
		Comfort:       Band{Min: clamp(skill-6, 0, 100), Max: clamp(skill+4, 0, 100)},
		Instructional: Band{Min: clamp(skill+4, 0, 100), Max: clamp(skill+12, 0, 100)},
		Frustration:   Band{Min: clamp(skill+12, 0, 100), Max: 100},
	}
}

// Mix is the daily difficulty mix plan; the three shares sum to ~1.
type Mix struct {
	Comfort       float64 `json:"comfort"`
	Instructional float64 `json:"instructional"`
	Challenge     float64 `json:"challenge"`
}

// DailyPlan is the recommended daily content plan.
type DailyPlan struct {
	ChallengesPerDay int `json:"challenges_per_day"`
	Mix              Mix `json:"mix"`
}

// Recommendations is the content strategy derived from bottleneck and
// confidence. Fully derived, rebuilt on every profile update.
type Recommendations struct {
	TextTypes  []string  `json:"text_types"`
	Activities []string  `json:"activities"`
	DailyPlan  DailyPlan `json:"daily_plan"`
}

// HistoryEntry is one skill snapshot in the profile's bounded history.
type HistoryEntry struct {
	TS          time.Time `json:"ts"`
	SkillLevel  float64   `json:"skill_level"`
	Performance float64   `json:"performance"`
	Difficulty  float64   `json:"difficulty"`
	Source      string    `json:"source,omitempty"`
}

// Profile is the persistent per-language skill estimate. One exists per
// language; it is created with defaults on first access and mutated only
// by session-end or diagnostic-completion updates.
type Profile struct {
	Language    Language        `json:"language"`
	SkillLevel  float64         `json:"skill_level"`
	Confidence  float64         `json:"confidence"`
	Trend7d     float64         `json:"trend_7d"`
	Trend30d    float64         `json:"trend_30d"`
	Bottleneck  Bottleneck      `json:"bottleneck"`
	Signals     Signals         `json:"signals"`
	Recommended Recommendations `json:"recommended"`
	History     []HistoryEntry  `json:"history"`
}

// Bands returns the difficulty bands for the profile's current skill.
func (p *Profile) Bands() Bands {
	return BandsForSkill(p.SkillLevel)
}

// NewProfile creates a fresh profile with the fixed first-access defaults.
func NewProfile(language Language) Profile {
	p := Profile{
		Language:   language,
		SkillLevel: DefaultSkillLevel,
		Confidence: DefaultConfidence,
		Bottleneck: BottleneckBalanced,
		Signals: Signals{
			QuizAccuracy: 0.7,
			PaceWPMProxy: 70,
		},
	}
	p.Recommended = BuildRecommendations(p.Bottleneck, p.Confidence)
	return p
}

// EnsureProfileShape re-clamps every field of a possibly corrupted or
// partial profile into its valid range and rebuilds all derived state.
// Corrupted storage self-heals on the next read instead of propagating.
func EnsureProfileShape(p Profile, language Language) Profile {
	if p.Language == "" {
		p.Language = language
	}
	if p.SkillLevel == 0 && p.Confidence == 0 && len(p.History) == 0 {
		// Zero value, not a persisted profile.
		return NewProfile(language)
	}
	p.SkillLevel = clamp(p.SkillLevel, 0, 100)
	p.Confidence = clamp(p.Confidence, MinConfidence, MaxConfidence)
	p.Signals.HelpTapsPer100Words = atLeast(p.Signals.HelpTapsPer100Words, 0)
	p.Signals.QuizAccuracy = clamp(p.Signals.QuizAccuracy, 0, 1)
	p.Signals.AbandonRate = clamp(p.Signals.AbandonRate, 0, 1)
	p.Signals.PaceWPMProxy = atLeast(p.Signals.PaceWPMProxy, 0)
	if !validBottleneck(p.Bottleneck) {
		p.Bottleneck = ClassifyBottleneck(p.Signals)
	}
	p.Recommended = BuildRecommendations(p.Bottleneck, p.Confidence)
	return p
}

func validBottleneck(b Bottleneck) bool {
	switch b {
	case BottleneckDecoding, BottleneckComprehension, BottleneckStamina, BottleneckBalanced:
		return true
	}
	return false
}

// PublicProfile is the export shape: the full profile minus history, with
// the derived bands materialized for the client.
type PublicProfile struct {
	Language    Language        `json:"language"`
	SkillLevel  float64         `json:"skill_level"`
	Confidence  float64         `json:"confidence"`
	Trend7d     float64         `json:"trend_7d"`
	Trend30d    float64         `json:"trend_30d"`
	Bottleneck  Bottleneck      `json:"bottleneck"`
	Signals     Signals         `json:"signals"`
	Recommended Recommendations `json:"recommended"`
	Bands       Bands           `json:"bands"`
}

// Public strips history and materializes bands.
func (p *Profile) Public() PublicProfile {
	return PublicProfile{
		Language:    p.Language,
		SkillLevel:  p.SkillLevel,
		Confidence:  p.Confidence,
		Trend7d:     p.Trend7d,
		Trend30d:    p.Trend30d,
		Bottleneck:  p.Bottleneck,
		Signals:     p.Signals,
		Recommended: p.Recommended,
		Bands:       p.Bands(),
	}
}
