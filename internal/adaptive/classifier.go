package adaptive

// Classification thresholds, applied to the smoothed signal averages.
const (
	decodingHelpTapsThreshold = 7.0
	decodingPaceThreshold     = 55.0
	comprehensionAccThreshold = 0.55
	staminaAbandonThreshold   = 0.2
)

// ClassifyBottleneck categorizes the learner's limiting factor from the
// EWMA signals. Rules run in fixed priority order; the first match wins.
// Heavy help usage or very slow pace indicates a decoding problem even
// when comprehension accuracy is also low, so the decoding rule comes
// first.
func ClassifyBottleneck(s Signals) Bottleneck {
	switch {
	case s.HelpTapsPer100Words > decodingHelpTapsThreshold || s.PaceWPMProxy < decodingPaceThreshold:
		return BottleneckDecoding
	case s.QuizAccuracy < comprehensionAccThreshold:
		return BottleneckComprehension
	case s.AbandonRate > staminaAbandonThreshold:
		return BottleneckStamina
	default:
		return BottleneckBalanced
	}
}
