package adaptive

import (
	"fmt"
	"time"
)

// Diagnostic protocol defaults. The staircase must converge in a small
// fixed number of passages, so its steps are coarser than the session
// estimator's smoothed walk.
const (
	DiagnosticPassagesPerLanguage = 3
	DiagnosticQuestionsPerPassage = 2
)

// NextDiagnosticDifficulty adjusts the difficulty walk after one passage:
// strong performance climbs fast, weak performance backs off fast.
func NextDiagnosticDifficulty(current, performance float64) float64 {
	var step float64
	switch {
	case performance >= 0.8:
		step = 6
	case performance >= 0.6:
		step = 2
	case performance >= 0.4:
		step = -2
	default:
		step = -6
	}
	return clamp(current+step, 0, 100)
}

// RunState is a diagnostic run's position in its lifecycle.
type RunState string

const (
	RunIdle        RunState = "idle"
	RunLoading     RunState = "loading"
	RunIntro       RunState = "intro"
	RunReader      RunState = "reader"
	RunQuiz        RunState = "quiz"
	RunObservation RunState = "observation"
	RunFinishing   RunState = "finishing"
	RunComplete    RunState = "complete"
	RunInvalid     RunState = "invalid"
)

// RunConfig fixes the shape of one diagnostic run.
type RunConfig struct {
	Languages           []Language `json:"languages"`
	PassagesPerLanguage int        `json:"passages_per_language"`
	QuestionsPerPassage int        `json:"questions_per_passage"`
}

// DefaultRunConfig returns the standard two-language protocol.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Languages:           append([]Language(nil), DefaultLanguages...),
		PassagesPerLanguage: DiagnosticPassagesPerLanguage,
		QuestionsPerPassage: DiagnosticQuestionsPerPassage,
	}
}

// ObservationNote holds the qualitative tags an observing adult records
// after each passage. Operator-facing metadata only: persisted alongside
// the passage result, never blended into skill_level or confidence.
type ObservationNote struct {
	Hesitation      string `json:"hesitation,omitempty"`
	DecodingSupport string `json:"decoding_support,omitempty"`
	Confidence      string `json:"confidence,omitempty"`
	Attention       string `json:"attention,omitempty"`
}

// PassageResult is the outcome of one diagnostic passage.
type PassageResult struct {
	TextID             string           `json:"text_id"`
	DifficultyScore    float64          `json:"difficulty_score"`
	Summary            Summary          `json:"summary"`
	PassagePerformance float64          `json:"passage_performance"`
	Observation        *ObservationNote `json:"observation,omitempty"`
}

// DiagnosticRun is the multi-passage, multi-language adaptive difficulty
// walk. The external caller drives transitions; the run owns their
// legality and the difficulty adaptation. An abandoned run simply never
// reaches Finalize, and its partial results are discarded.
type DiagnosticRun struct {
	Config RunConfig
	State  RunState

	languageIdx int
	passageIdx  int
	difficulty  float64

	startingSkill map[Language]float64
	usedTextIDs   []string
	results       map[Language][]PassageResult
}

// NewDiagnosticRun creates an idle run. startingSkill carries each
// language's current profile skill; each language's walk starts there and
// is independent of the others.
func NewDiagnosticRun(cfg RunConfig, startingSkill map[Language]float64) *DiagnosticRun {
	if len(cfg.Languages) == 0 {
		cfg = DefaultRunConfig()
	}
	if cfg.PassagesPerLanguage <= 0 {
		cfg.PassagesPerLanguage = DiagnosticPassagesPerLanguage
	}
	if cfg.QuestionsPerPassage <= 0 {
		cfg.QuestionsPerPassage = DiagnosticQuestionsPerPassage
	}
	r := &DiagnosticRun{
		Config:        cfg,
		State:         RunIdle,
		startingSkill: make(map[Language]float64, len(cfg.Languages)),
		results:       make(map[Language][]PassageResult, len(cfg.Languages)),
	}
	for _, lang := range cfg.Languages {
		skill := DefaultSkillLevel
		if s, ok := startingSkill[lang]; ok {
			skill = clamp(s, 0, 100)
		}
		r.startingSkill[lang] = skill
	}
	r.difficulty = r.startingSkill[cfg.Languages[0]]
	return r
}

// CurrentLanguage returns the language whose walk is in progress.
func (r *DiagnosticRun) CurrentLanguage() Language {
	return r.Config.Languages[r.languageIdx]
}

// TargetDifficulty is the difficulty tier the next passage should match.
func (r *DiagnosticRun) TargetDifficulty() float64 {
	return r.difficulty
}

// UsedTextIDs lists passages already served in this run, so the text
// picker can exclude them.
func (r *DiagnosticRun) UsedTextIDs() []string {
	return r.usedTextIDs
}

// Results returns the per-language passage results recorded so far.
func (r *DiagnosticRun) Results() map[Language][]PassageResult {
	return r.results
}

// Begin moves an idle run into loading.
func (r *DiagnosticRun) Begin() error {
	return r.transition(RunIdle, RunLoading)
}

// EnterIntro acknowledges content is loaded and the intro screen shows.
func (r *DiagnosticRun) EnterIntro() error {
	return r.transition(RunLoading, RunIntro)
}

// BeginPassage serves a passage and enters the reader state. Valid from
// the intro (first passage) or an observation checkpoint (subsequent
// passages).
func (r *DiagnosticRun) BeginPassage(text *Text) error {
	if text == nil {
		return fmt.Errorf("diagnostic run: no passage available")
	}
	if r.State != RunIntro && r.State != RunObservation {
		return r.badTransition(RunReader)
	}
	r.usedTextIDs = append(r.usedTextIDs, text.ID)
	r.State = RunReader
	return nil
}

// EnterQuiz moves from reading into the comprehension quiz.
func (r *DiagnosticRun) EnterQuiz() error {
	return r.transition(RunReader, RunQuiz)
}

// CompletePassage records the passage outcome, staircases the difficulty,
// and advances the walk: to the observation checkpoint, to the next
// language (resetting difficulty to that language's own starting skill),
// or to finishing once every configured language is done.
func (r *DiagnosticRun) CompletePassage(textID string, in SummaryInput, obs *ObservationNote) error {
	if r.State != RunQuiz {
		return r.badTransition(RunObservation)
	}

	summary := NormalizeSummary(in)
	performance := DiagnosticPassagePerformance(summary)
	lang := r.CurrentLanguage()
	r.results[lang] = append(r.results[lang], PassageResult{
		TextID:             textID,
		DifficultyScore:    r.difficulty,
		Summary:            summary,
		PassagePerformance: performance,
		Observation:        obs,
	})

	r.difficulty = NextDiagnosticDifficulty(r.difficulty, performance)
	r.passageIdx++
	if r.passageIdx >= r.Config.PassagesPerLanguage {
		r.languageIdx++
		r.passageIdx = 0
		if r.languageIdx >= len(r.Config.Languages) {
			r.State = RunFinishing
			return nil
		}
		r.difficulty = r.startingSkill[r.CurrentLanguage()]
	}
	r.State = RunObservation
	return nil
}

// Finalize performs the one combined profile update per language and
// completes the run. Only a fully completed walk reaches this point.
func (r *DiagnosticRun) Finalize(profiles map[Language]Profile, end time.Time) (map[Language]Profile, error) {
	if r.State != RunFinishing {
		return nil, r.badTransition(RunComplete)
	}
	updated := make(map[Language]Profile, len(r.Config.Languages))
	for _, lang := range r.Config.Languages {
		updated[lang] = UpdateProfileFromDiagnostic(profiles[lang], lang, r.results[lang], end)
	}
	r.State = RunComplete
	return updated, nil
}

// Invalidate marks the run unusable (bad token, expired link, fetch
// failure with no fallback). Terminal.
func (r *DiagnosticRun) Invalidate() {
	if r.State != RunComplete {
		r.State = RunInvalid
	}
}

func (r *DiagnosticRun) transition(from, to RunState) error {
	if r.State != from {
		return r.badTransition(to)
	}
	r.State = to
	return nil
}

func (r *DiagnosticRun) badTransition(to RunState) error {
	return fmt.Errorf("diagnostic run: cannot enter %s from %s", to, r.State)
}
