package adaptive

// SummaryInput is the raw behavioral telemetry reported by a reader client
// at session end. Every field is optional; the client is untrusted and may
// omit fields or send garbage.
type SummaryInput struct {
	DurationSec         *float64 `json:"duration_sec,omitempty"`
	WordCount           *float64 `json:"word_count,omitempty"`
	QuizAccuracy        *float64 `json:"quiz_accuracy,omitempty"`
	QuizCount           *int     `json:"quiz_count,omitempty"`
	HelpTapsPer100Words *float64 `json:"help_taps_per_100_words,omitempty"`
	RepeatRate          *float64 `json:"repeat_rate,omitempty"`
	PauseDensity        *float64 `json:"pause_density,omitempty"`
	AbandonRate         *float64 `json:"abandon_rate,omitempty"`
	PaceWPMProxy        *float64 `json:"pace_wpm_proxy,omitempty"`
	TTSOnlyRatio        *float64 `json:"tts_only_ratio,omitempty"`
	TextDifficulty      *float64 `json:"text_difficulty,omitempty"`
}

// Summary is the fully-populated, range-safe behavioral record the scoring
// and estimation pipeline operates on.
type Summary struct {
	DurationSec         float64 `json:"duration_sec"`
	WordCount           float64 `json:"word_count"`
	QuizAccuracy        float64 `json:"quiz_accuracy"`
	QuizCount           int     `json:"quiz_count"`
	HelpTapsPer100Words float64 `json:"help_taps_per_100_words"`
	RepeatRate          float64 `json:"repeat_rate"`
	PauseDensity        float64 `json:"pause_density"`
	AbandonRate         float64 `json:"abandon_rate"`
	PaceWPMProxy        float64 `json:"pace_wpm_proxy"`
	TTSOnlyRatio        float64 `json:"tts_only_ratio"`
	TextDifficulty      float64 `json:"text_difficulty"`
	// DifficultyKnown records whether the client reported the attempted
	// text's difficulty. When false the estimator falls back to the
	// profile's current skill level.
	DifficultyKnown bool `json:"-"`
}

// NormalizeSummary coerces an arbitrary partial input into a complete
// Summary. It never fails: missing fields take their defaults and every
// numeric field is clamped into its valid range.
func NormalizeSummary(in SummaryInput) Summary {
	s := Summary{
		DurationSec:         atLeast(numOr(in.DurationSec, 0), 0),
		WordCount:           atLeast(numOr(in.WordCount, 0), 0),
		QuizAccuracy:        clamp(numOr(in.QuizAccuracy, 0), 0, 1),
		QuizCount:           intAtLeast(in.QuizCount, 0),
		HelpTapsPer100Words: atLeast(numOr(in.HelpTapsPer100Words, 0), 0),
		RepeatRate:          clamp(numOr(in.RepeatRate, 0), 0, 1),
		PauseDensity:        clamp(numOr(in.PauseDensity, 0), 0, 1),
		AbandonRate:         clamp(numOr(in.AbandonRate, 0), 0, 1),
		PaceWPMProxy:        atLeast(numOr(in.PaceWPMProxy, 0), 0),
		TTSOnlyRatio:        clamp(numOr(in.TTSOnlyRatio, 0), 0, 1),
	}
	if in.TextDifficulty != nil && !isBad(*in.TextDifficulty) {
		s.TextDifficulty = clamp(*in.TextDifficulty, 0, 100)
		s.DifficultyKnown = true
	}
	return s
}

func numOr(p *float64, def float64) float64 {
	if p == nil || isBad(*p) {
		return def
	}
	return *p
}

func intAtLeast(p *int, min int) int {
	if p == nil || *p < min {
		return min
	}
	return *p
}

func isBad(v float64) bool {
	// NaN and infinities from hostile or broken clients.
	return v != v || v > 1e12 || v < -1e12
}

func atLeast(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
