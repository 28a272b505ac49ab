package adaptive

// MetricsAccumulator collects raw interaction events during one passage
// and folds them into a SummaryInput for scoring. The reader UI feeds it;
// the core only defines the arithmetic, so both runtime contexts produce
// identical summaries from identical events.
type MetricsAccumulator struct {
	wordCount    float64
	helpTaps     int
	repeats      int
	paragraphs   int
	pauseSec     float64
	ttsSec       float64
	activeSec    float64
	quizCorrect  int
	quizAnswered int
	abandoned    bool
}

func NewMetricsAccumulator(wordCount int) *MetricsAccumulator {
	return &MetricsAccumulator{wordCount: float64(wordCount)}
}

// RecordHelpTap counts one tap on a word-level help affordance.
func (m *MetricsAccumulator) RecordHelpTap() { m.helpTaps++ }

// RecordRepeat counts one re-read of an already-seen paragraph.
func (m *MetricsAccumulator) RecordRepeat() { m.repeats++ }

// RecordParagraph counts one paragraph advanced past.
func (m *MetricsAccumulator) RecordParagraph() { m.paragraphs++ }

// RecordPause adds idle seconds with the passage open.
func (m *MetricsAccumulator) RecordPause(sec float64) { m.pauseSec += atLeast(sec, 0) }

// RecordTTS adds seconds spent in text-to-speech playback.
func (m *MetricsAccumulator) RecordTTS(sec float64) { m.ttsSec += atLeast(sec, 0) }

// RecordActive adds seconds of active reading time.
func (m *MetricsAccumulator) RecordActive(sec float64) { m.activeSec += atLeast(sec, 0) }

// RecordQuizAnswer records one quiz answer.
func (m *MetricsAccumulator) RecordQuizAnswer(correct bool) {
	m.quizAnswered++
	if correct {
		m.quizCorrect++
	}
}

// MarkAbandoned flags the passage as left unfinished.
func (m *MetricsAccumulator) MarkAbandoned() { m.abandoned = true }

// Summary folds the accumulated events into a SummaryInput. Rates are
// derived against word count and elapsed time; zero denominators yield
// zero rates rather than errors.
func (m *MetricsAccumulator) Summary(textDifficulty float64) SummaryInput {
	total := m.activeSec + m.pauseSec + m.ttsSec

	var helpPer100 float64
	if m.wordCount > 0 {
		helpPer100 = float64(m.helpTaps) / m.wordCount * 100
	}
	var repeatRate float64
	if m.paragraphs > 0 {
		repeatRate = clamp(float64(m.repeats)/float64(m.paragraphs), 0, 1)
	}
	var pauseDensity, ttsRatio float64
	if total > 0 {
		pauseDensity = clamp(m.pauseSec/total, 0, 1)
		ttsRatio = clamp(m.ttsSec/total, 0, 1)
	}
	var pace float64
	if m.activeSec > 0 {
		pace = m.wordCount / (m.activeSec / 60)
	}
	var accuracy float64
	if m.quizAnswered > 0 {
		accuracy = float64(m.quizCorrect) / float64(m.quizAnswered)
	}
	abandonRate := 0.0
	if m.abandoned {
		abandonRate = 1.0
	}

	return SummaryInput{
		DurationSec:         ptr(total),
		WordCount:           ptr(m.wordCount),
		QuizAccuracy:        ptr(accuracy),
		QuizCount:           intPtr(m.quizAnswered),
		HelpTapsPer100Words: ptr(helpPer100),
		RepeatRate:          ptr(repeatRate),
		PauseDensity:        ptr(pauseDensity),
		AbandonRate:         ptr(abandonRate),
		PaceWPMProxy:        ptr(pace),
		TTSOnlyRatio:        ptr(ttsRatio),
		TextDifficulty:      ptr(textDifficulty),
	}
}

func ptr(v float64) *float64 { return &v }
func intPtr(v int) *int      { return &v }
