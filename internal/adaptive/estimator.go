package adaptive

import (
	"math"
	"time"
)

// Estimator constants. Informativeness decays with the distance between
// the attempted text's difficulty and the current estimate: mismatched
// attempts teach the estimator almost nothing, which keeps the estimate
// from whiplashing when a learner wanders far outside their band.
const (
	informativenessScale = 18.0
	performancePivot     = 0.75

	sessionStepGain = 8.0
	sessionBlendOld = 0.7
	sessionBlendNew = 0.3

	diagnosticStepGain  = 12.0
	diagnosticBlendOld  = 0.55
	diagnosticBlendNew  = 0.45
	diagnosticConfFloor = 0.55
)

// Per-signal EWMA smoothing factors. Pace is the noisiest raw signal so it
// gets the heaviest smoothing toward recent evidence; abandon events are
// rare and should accumulate slowly.
const (
	alphaHelpTaps     = 0.35
	alphaQuizAccuracy = 0.30
	alphaAbandonRate  = 0.25
	alphaPace         = 0.30
)

func ewma(prev, raw, alpha float64) float64 {
	return (1-alpha)*prev + alpha*raw
}

func updateSignals(s Signals, sum Summary) Signals {
	s.HelpTapsPer100Words = ewma(s.HelpTapsPer100Words, sum.HelpTapsPer100Words, alphaHelpTaps)
	if sum.QuizCount > 0 {
		s.QuizAccuracy = ewma(s.QuizAccuracy, sum.QuizAccuracy, alphaQuizAccuracy)
	}
	s.AbandonRate = ewma(s.AbandonRate, sum.AbandonRate, alphaAbandonRate)
	if sum.PaceWPMProxy > 0 {
		s.PaceWPMProxy = ewma(s.PaceWPMProxy, sum.PaceWPMProxy, alphaPace)
	}
	return s
}

// Informativeness returns the evidence weight of an attempt at the given
// difficulty for a learner at the given skill: exp(-|difficulty-skill|/18).
func Informativeness(difficulty, skill float64) float64 {
	d := difficulty - skill
	if d < 0 {
		d = -d
	}
	return math.Exp(-d / informativenessScale)
}

// UpdateProfileFromSummary folds one completed session into the profile.
// Pure function of (profile, summary, end): no hidden state, deterministic
// given identical inputs. The caller persists the result.
func UpdateProfileFromSummary(p Profile, s Summary, end time.Time) Profile {
	p = EnsureProfileShape(p, p.Language)

	oldSkill := p.SkillLevel
	difficulty := oldSkill
	if s.DifficultyKnown {
		difficulty = s.TextDifficulty
	}

	performance := ScorePerformance(s)
	informativeness := Informativeness(difficulty, oldSkill)
	candidate := oldSkill + sessionStepGain*(performance-performancePivot)*informativeness
	p.SkillLevel = clamp(sessionBlendOld*oldSkill+sessionBlendNew*candidate, 0, 100)

	conf := p.Confidence
	conf += clamp(s.WordCount/500, 0, 1) * 0.08
	if s.QuizCount > 0 {
		conf += 0.04
	}
	if s.DurationSec < shortSessionSec {
		conf -= 0.06
	}
	conf -= s.TTSOnlyRatio * 0.04
	p.Confidence = clamp(conf, MinConfidence, MaxConfidence)

	p.Signals = updateSignals(p.Signals, s)

	p.History = appendHistory(p.History, HistoryEntry{
		TS:          end,
		SkillLevel:  p.SkillLevel,
		Performance: performance,
		Difficulty:  difficulty,
	})
	p.Trend7d = trendOver(p.History, TrendWindow7d, end)
	p.Trend30d = trendOver(p.History, TrendWindow30d, end)

	p.Bottleneck = ClassifyBottleneck(p.Signals)
	p.Recommended = BuildRecommendations(p.Bottleneck, p.Confidence)
	return p
}

// UpdateProfileFromDiagnostic performs the one-shot profile update at the
// end of a completed diagnostic run. Each passage contributes an estimated
// skill point; their average is blended into the prior estimate with more
// trust than a single session gets, since a run aggregates several
// passages. An empty passage list is a no-op: partial diagnostic data must
// never corrupt an existing estimate.
func UpdateProfileFromDiagnostic(p Profile, language Language, passages []PassageResult, end time.Time) Profile {
	p = EnsureProfileShape(p, language)
	if len(passages) == 0 {
		return p
	}

	oldSkill := p.SkillLevel
	diagnosticSkill := DiagnosticSkill(passages)
	var qualitySum float64
	for _, pr := range passages {
		qualitySum += clamp(pr.Summary.WordCount/500, 0, 1)
	}
	p.SkillLevel = clamp(diagnosticBlendOld*oldSkill+diagnosticBlendNew*diagnosticSkill, 0, 100)

	// Diagnostics establish a confidence floor, then quality (passage
	// length) and completion (passages seen vs. configured) push it up.
	conf := p.Confidence
	if conf < diagnosticConfFloor {
		conf = diagnosticConfFloor
	}
	avgQuality := qualitySum / float64(len(passages))
	completion := clamp(float64(len(passages))/float64(DiagnosticPassagesPerLanguage), 0, 1)
	p.Confidence = clamp(conf+0.08*avgQuality+0.04*completion, MinConfidence, MaxConfidence)

	for _, pr := range passages {
		p.Signals = updateSignals(p.Signals, pr.Summary)
	}

	p.History = appendHistory(p.History, HistoryEntry{
		TS:          end,
		SkillLevel:  p.SkillLevel,
		Performance: avgPassagePerformance(passages),
		Difficulty:  diagnosticSkill,
		Source:      "diagnostic",
	})
	p.Trend7d = trendOver(p.History, TrendWindow7d, end)
	p.Trend30d = trendOver(p.History, TrendWindow30d, end)

	p.Bottleneck = ClassifyBottleneck(p.Signals)
	p.Recommended = BuildRecommendations(p.Bottleneck, p.Confidence)
	return p
}

// DiagnosticSkill is the skill estimate a set of diagnostic passages
// implies on its own: each passage contributes its difficulty adjusted by
// how far performance sat from the pivot, and the points are averaged.
func DiagnosticSkill(passages []PassageResult) float64 {
	if len(passages) == 0 {
		return 0
	}
	var sum float64
	for _, pr := range passages {
		sum += clamp(pr.DifficultyScore, 0, 100) + diagnosticStepGain*(pr.PassagePerformance-performancePivot)
	}
	return sum / float64(len(passages))
}

func avgPassagePerformance(passages []PassageResult) float64 {
	if len(passages) == 0 {
		return 0
	}
	var sum float64
	for _, pr := range passages {
		sum += pr.PassagePerformance
	}
	return sum / float64(len(passages))
}
