package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"

	"github.com/chytanka/chytanka-backend/internal/adaptive"
	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/repos"
	"github.com/chytanka/chytanka-backend/internal/types"
)

const defaultTextListLimit = 50

// TextService serves reading passages: plain band queries, the
// selector-driven next pick for regular sessions, and difficulty-targeted
// picks for diagnostic passages.
type TextService interface {
	List(ctx context.Context, language adaptive.Language, min, max float64, limit int) ([]adaptive.Text, error)
	NextForSession(ctx context.Context, language adaptive.Language) (*adaptive.Text, error)
	DiagnosticText(ctx context.Context, language adaptive.Language, targetDifficulty float64, usedIDs []string) (*adaptive.Text, error)
}

type textService struct {
	log         *logger.Logger
	textRepo    repos.TextDocRepo
	sessionRepo repos.ReadingSessionRepo
	profiles    ProfileService

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewTextService(log *logger.Logger, textRepo repos.TextDocRepo, sessionRepo repos.ReadingSessionRepo, profiles ProfileService, rng *rand.Rand) TextService {
	return &textService{
		log:         log.With("service", "TextService"),
		textRepo:    textRepo,
		sessionRepo: sessionRepo,
		profiles:    profiles,
		rng:         rng,
	}
}

func (ts *textService) List(ctx context.Context, language adaptive.Language, min, max float64, limit int) ([]adaptive.Text, error) {
	if limit <= 0 || limit > defaultTextListLimit {
		limit = defaultTextListLimit
	}
	rows, err := ts.textRepo.ListByDifficulty(ctx, nil, string(language), min, max, limit)
	if err != nil {
		return nil, fmt.Errorf("list texts: %w", err)
	}
	texts := make([]adaptive.Text, 0, len(rows))
	for _, row := range rows {
		texts = append(texts, textFromRow(row))
	}
	return texts, nil
}

// NextForSession picks the next passage for a regular session using the
// learner's current bands and the recently served ids as a novelty
// filter. Returns nil when no texts exist for the language at all.
func (ts *textService) NextForSession(ctx context.Context, language adaptive.Language) (*adaptive.Text, error) {
	profile, err := ts.profiles.GetProfile(ctx, language)
	if err != nil {
		return nil, err
	}
	rows, err := ts.textRepo.ListByLanguage(ctx, nil, string(language), 0)
	if err != nil {
		return nil, fmt.Errorf("load text pool: %w", err)
	}
	recentIDs, err := ts.sessionRepo.RecentTextIDs(ctx, nil, string(language), adaptive.RecentServedWindow)
	if err != nil {
		return nil, fmt.Errorf("load recent texts: %w", err)
	}
	texts := make([]adaptive.Text, 0, len(rows))
	for _, row := range rows {
		texts = append(texts, textFromRow(row))
	}

	ts.rngMu.Lock()
	pick := adaptive.ChooseTextForSession(texts, &profile, recentIDs, ts.rng)
	ts.rngMu.Unlock()
	if pick == nil {
		ts.log.Warn("No texts available for session", "language", language)
	}
	return pick, nil
}

// DiagnosticText returns the unused passage nearest the target
// difficulty, with its quiz truncated to the diagnostic question count.
func (ts *textService) DiagnosticText(ctx context.Context, language adaptive.Language, targetDifficulty float64, usedIDs []string) (*adaptive.Text, error) {
	rows, err := ts.textRepo.ListByLanguage(ctx, nil, string(language), 0)
	if err != nil {
		return nil, fmt.Errorf("load text pool: %w", err)
	}
	texts := make([]adaptive.Text, 0, len(rows))
	for _, row := range rows {
		texts = append(texts, textFromRow(row))
	}
	pick := adaptive.ChooseDiagnosticText(texts, targetDifficulty, usedIDs)
	if pick == nil {
		return nil, nil
	}
	if len(pick.Quiz) > adaptive.DiagnosticQuestionsPerPassage {
		pick.Quiz = pick.Quiz[:adaptive.DiagnosticQuestionsPerPassage]
	}
	return pick, nil
}

func textFromRow(row *types.TextDoc) adaptive.Text {
	t := adaptive.Text{
		ID:              row.ID,
		Language:        adaptive.Language(row.Language),
		DifficultyScore: row.DifficultyScore,
		Title:           row.Title,
	}
	_ = json.Unmarshal(row.Paragraphs, &t.Paragraphs)
	_ = json.Unmarshal(row.Quiz, &t.Quiz)
	return t
}
