package adaptive

// Behavioral scoring weights. Help taps dominate the struggle penalty
// because repeated word-level help is the strongest decoding distress
// signal we get from the reader.
const (
	helpTapsSaturation = 12.0
	paceSaturation     = 120.0

	shortSessionSec     = 60.0
	shortSessionPenalty = 0.35
)

// ScoreBehavior collapses the behavioral signals of one session into a
// single [0,1] score. Struggle signals subtract, sustained pace adds back.
func ScoreBehavior(s Summary) float64 {
	helpNorm := clamp(s.HelpTapsPer100Words/helpTapsSaturation, 0, 1)
	struggle := 0.35*helpNorm + 0.20*s.RepeatRate + 0.20*s.PauseDensity + 0.25*s.AbandonRate
	pace := 0.20 * clamp(s.PaceWPMProxy/paceSaturation, 0, 1)
	return clamp(1-struggle+pace, 0, 1)
}

// ScorePerformance combines quiz accuracy with behavior. Without quiz
// evidence the behavioral score alone is discounted to 85%. Sessions
// shorter than a minute cannot earn full credit regardless of reported
// accuracy: the multiplicative penalty dampens gamed or rushed attempts
// without discarding them.
func ScorePerformance(s Summary) float64 {
	behavior := ScoreBehavior(s)
	var perf float64
	if s.QuizCount > 0 {
		perf = clamp(0.6*s.QuizAccuracy+0.4*behavior, 0, 1)
	} else {
		perf = clamp(0.85*behavior, 0, 1)
	}
	if s.DurationSec > 0 && s.DurationSec < shortSessionSec {
		perf *= shortSessionPenalty
	}
	return perf
}

// DiagnosticPassagePerformance scores a single diagnostic passage.
// Diagnostics are comprehension-focused, so accuracy carries more weight
// than behavior. The short-session penalty is deliberately absent here:
// the multi-passage protocol provides its own robustness.
func DiagnosticPassagePerformance(s Summary) float64 {
	behavior := ScoreBehavior(s)
	return clamp(0.7*s.QuizAccuracy+0.3*behavior, 0, 1)
}
