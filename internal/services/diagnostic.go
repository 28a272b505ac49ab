package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chytanka/chytanka-backend/internal/adaptive"
	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/repos"
	"github.com/chytanka/chytanka-backend/internal/types"
)

// StartRunResponse is everything the diagnostic device needs to drive
// the run locally with the shared core.
type StartRunResponse struct {
	RunID                   uuid.UUID                     `json:"run_id"`
	Languages               []adaptive.Language           `json:"languages"`
	Config                  adaptive.RunConfig            `json:"config"`
	StartingSkillByLanguage map[adaptive.Language]float64 `json:"starting_skill_by_language"`
}

// PassageReport is one passage outcome as reported at run completion.
// Performance is recomputed server-side from the summary; the client's
// own number is never trusted.
type PassageReport struct {
	TextID          string                    `json:"text_id"`
	DifficultyScore float64                   `json:"difficulty_score"`
	Summary         adaptive.SummaryInput     `json:"summary"`
	Observation     *adaptive.ObservationNote `json:"observation,omitempty"`
}

// CompleteRunRequest carries the full run outcome in one call.
type CompleteRunRequest struct {
	RunID    uuid.UUID                             `json:"run_id" binding:"required"`
	Passages map[adaptive.Language][]PassageReport `json:"passages" binding:"required"`
}

// LanguageOutcome summarizes the diagnostic's effect on one language.
type LanguageOutcome struct {
	OldSkill        float64             `json:"old_skill"`
	DiagnosticSkill float64             `json:"diagnostic_skill"`
	DeltaSkill      float64             `json:"delta_skill"`
	Bottleneck      adaptive.Bottleneck `json:"bottleneck"`
}

// CompleteRunResponse returns the updated profiles plus a per-language
// before/after summary for the parent-facing report.
type CompleteRunResponse struct {
	UpdatedProfiles   map[adaptive.Language]adaptive.PublicProfile `json:"updated_profiles"`
	DiagnosticSummary map[adaptive.Language]LanguageOutcome        `json:"diagnostic_summary"`
}

// DiagnosticService manages server-side diagnostic runs: a redeemed link
// token opens a pending run, the run gates text access, and completion
// performs the one combined profile update per language.
type DiagnosticService interface {
	StartRun(ctx context.Context, linkToken string) (*StartRunResponse, error)
	TextForRun(ctx context.Context, runID uuid.UUID, language adaptive.Language, targetDifficulty float64, usedIDs []string) (*adaptive.Text, error)
	CompleteRun(ctx context.Context, req CompleteRunRequest) (*CompleteRunResponse, error)
}

type diagnosticService struct {
	log      *logger.Logger
	runRepo  repos.DiagnosticRunRepo
	profiles ProfileService
	texts    TextService
	auth     AuthService
}

func NewDiagnosticService(log *logger.Logger, runRepo repos.DiagnosticRunRepo, profiles ProfileService, texts TextService, auth AuthService) DiagnosticService {
	return &diagnosticService{
		log:      log.With("service", "DiagnosticService"),
		runRepo:  runRepo,
		profiles: profiles,
		texts:    texts,
		auth:     auth,
	}
}

func (ds *diagnosticService) StartRun(ctx context.Context, linkToken string) (*StartRunResponse, error) {
	if !ds.auth.RedeemDiagnosticLink(linkToken) {
		return nil, ErrInvalidToken
	}

	cfg := adaptive.DefaultRunConfig()
	starting := make(map[adaptive.Language]float64, len(cfg.Languages))
	for _, language := range cfg.Languages {
		profile, err := ds.profiles.GetProfile(ctx, language)
		if err != nil {
			return nil, err
		}
		starting[language] = profile.SkillLevel
	}

	languagesJSON, err := json.Marshal(cfg.Languages)
	if err != nil {
		return nil, fmt.Errorf("encode run: %w", err)
	}
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode run: %w", err)
	}
	startingJSON, err := json.Marshal(starting)
	if err != nil {
		return nil, fmt.Errorf("encode run: %w", err)
	}

	row := &types.DiagnosticRunRecord{
		ID:            uuid.New(),
		Token:         linkToken,
		Status:        types.DiagnosticRunPending,
		Languages:     languagesJSON,
		Config:        configJSON,
		StartingSkill: startingJSON,
		StartedAt:     time.Now().UTC(),
	}
	if err := ds.runRepo.Create(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	ds.log.Info("Diagnostic run started", "run_id", row.ID, "languages", cfg.Languages)

	return &StartRunResponse{
		RunID:                   row.ID,
		Languages:               cfg.Languages,
		Config:                  cfg,
		StartingSkillByLanguage: starting,
	}, nil
}

// TextForRun serves the next diagnostic passage for a pending run.
func (ds *diagnosticService) TextForRun(ctx context.Context, runID uuid.UUID, language adaptive.Language, targetDifficulty float64, usedIDs []string) (*adaptive.Text, error) {
	run, err := ds.runRepo.GetByID(ctx, nil, runID)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if run == nil || run.Status != types.DiagnosticRunPending {
		return nil, ErrInvalidToken
	}
	return ds.texts.DiagnosticText(ctx, language, targetDifficulty, usedIDs)
}

// CompleteRun scores the reported passages, folds them into each
// language's profile, and closes the run. A run can complete once.
func (ds *diagnosticService) CompleteRun(ctx context.Context, req CompleteRunRequest) (*CompleteRunResponse, error) {
	run, err := ds.runRepo.GetByID(ctx, nil, req.RunID)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("diagnostic run %s not found", req.RunID)
	}
	if run.Status != types.DiagnosticRunPending {
		return nil, fmt.Errorf("diagnostic run %s already %s", req.RunID, run.Status)
	}

	var languages []adaptive.Language
	if err := json.Unmarshal(run.Languages, &languages); err != nil || len(languages) == 0 {
		languages = adaptive.DefaultLanguages
	}

	end := time.Now().UTC()
	resp := &CompleteRunResponse{
		UpdatedProfiles:   make(map[adaptive.Language]adaptive.PublicProfile, len(languages)),
		DiagnosticSummary: make(map[adaptive.Language]LanguageOutcome, len(languages)),
	}
	allResults := make(map[adaptive.Language][]adaptive.PassageResult, len(languages))

	for _, language := range languages {
		passages := scorePassages(req.Passages[language])
		allResults[language] = passages

		old, err := ds.profiles.GetProfile(ctx, language)
		if err != nil {
			return nil, err
		}
		updated, err := ds.profiles.ApplyDiagnostic(ctx, language, passages, end)
		if err != nil {
			return nil, err
		}

		outcome := LanguageOutcome{
			OldSkill:        old.SkillLevel,
			DiagnosticSkill: adaptive.DiagnosticSkill(passages),
			DeltaSkill:      updated.SkillLevel - old.SkillLevel,
			Bottleneck:      updated.Bottleneck,
		}
		resp.UpdatedProfiles[language] = updated.Public()
		resp.DiagnosticSummary[language] = outcome
	}

	resultsJSON, err := json.Marshal(allResults)
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	run.Status = types.DiagnosticRunComplete
	run.Results = resultsJSON
	run.CompletedAt = &end
	if err := ds.runRepo.Update(ctx, nil, run); err != nil {
		return nil, fmt.Errorf("close run: %w", err)
	}
	ds.log.Info("Diagnostic run completed", "run_id", run.ID)
	return resp, nil
}

func scorePassages(reports []PassageReport) []adaptive.PassageResult {
	results := make([]adaptive.PassageResult, 0, len(reports))
	for _, rep := range reports {
		summary := adaptive.NormalizeSummary(rep.Summary)
		results = append(results, adaptive.PassageResult{
			TextID:             rep.TextID,
			DifficultyScore:    rep.DifficultyScore,
			Summary:            summary,
			PassagePerformance: adaptive.DiagnosticPassagePerformance(summary),
			Observation:        rep.Observation,
		})
	}
	return results
}
