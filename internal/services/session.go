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

// StartSessionRequest opens a reading session. ClientSessionID is minted
// by the client so retries and the eventual end call correlate.
type StartSessionRequest struct {
	ClientSessionID string            `json:"client_session_id" binding:"required"`
	Language        adaptive.Language `json:"language" binding:"required"`
	TextID          string            `json:"text_id"`
	ChallengeType   string            `json:"challenge_type"`
}

// EndSessionRequest closes a session with the client's telemetry summary.
type EndSessionRequest struct {
	ClientSessionID string                `json:"client_session_id" binding:"required"`
	Language        adaptive.Language     `json:"language" binding:"required"`
	Summary         adaptive.SummaryInput `json:"summary"`
}

// SessionService owns the session lifecycle. Ending a session is the
// authoritative profile update path; a retried end call returns the
// stored outcome instead of folding the summary in twice.
type SessionService interface {
	Start(ctx context.Context, req StartSessionRequest) (*types.ReadingSession, error)
	End(ctx context.Context, req EndSessionRequest) (adaptive.PublicProfile, error)
}

type sessionService struct {
	log         *logger.Logger
	sessionRepo repos.ReadingSessionRepo
	textRepo    repos.TextDocRepo
	profiles    ProfileService
}

func NewSessionService(log *logger.Logger, sessionRepo repos.ReadingSessionRepo, textRepo repos.TextDocRepo, profiles ProfileService) SessionService {
	return &sessionService{
		log:         log.With("service", "SessionService"),
		sessionRepo: sessionRepo,
		textRepo:    textRepo,
		profiles:    profiles,
	}
}

func (ss *sessionService) Start(ctx context.Context, req StartSessionRequest) (*types.ReadingSession, error) {
	existing, err := ss.sessionRepo.GetByClientSessionID(ctx, nil, req.ClientSessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	row := &types.ReadingSession{
		ID:              uuid.New(),
		ClientSessionID: req.ClientSessionID,
		Language:        string(req.Language),
		TextID:          req.TextID,
		ChallengeType:   req.ChallengeType,
		StartTS:         now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.TextID != "" {
		text, err := ss.textRepo.GetByID(ctx, nil, req.TextID)
		if err != nil {
			return nil, fmt.Errorf("load text: %w", err)
		}
		if text != nil {
			row.DifficultyScore = text.DifficultyScore
		}
	}
	if err := ss.sessionRepo.Create(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	ss.log.Debug("Session started",
		"client_session_id", req.ClientSessionID,
		"language", req.Language,
		"text_id", req.TextID)
	return row, nil
}

// End folds the session summary into the language profile and returns
// the updated public view. A session that was never started is accepted
// and recorded on the fly; telemetry beats bookkeeping here.
func (ss *sessionService) End(ctx context.Context, req EndSessionRequest) (adaptive.PublicProfile, error) {
	row, err := ss.sessionRepo.GetByClientSessionID(ctx, nil, req.ClientSessionID)
	if err != nil {
		return adaptive.PublicProfile{}, fmt.Errorf("load session: %w", err)
	}
	if row != nil && row.Completed {
		profile, err := ss.profiles.GetProfile(ctx, req.Language)
		if err != nil {
			return adaptive.PublicProfile{}, err
		}
		ss.log.Debug("Session already completed, returning current profile",
			"client_session_id", req.ClientSessionID)
		return profile.Public(), nil
	}
	if row == nil {
		started, err := ss.Start(ctx, StartSessionRequest{
			ClientSessionID: req.ClientSessionID,
			Language:        req.Language,
		})
		if err != nil {
			return adaptive.PublicProfile{}, err
		}
		row = started
	}

	in := req.Summary
	// The session row knows the served text's difficulty even when the
	// client omits it from the summary.
	if in.TextDifficulty == nil && row.DifficultyScore > 0 {
		d := row.DifficultyScore
		in.TextDifficulty = &d
	}

	end := time.Now().UTC()
	updated, err := ss.profiles.ApplySessionSummary(ctx, req.Language, in, end)
	if err != nil {
		return adaptive.PublicProfile{}, err
	}

	summaryJSON, err := json.Marshal(adaptive.NormalizeSummary(in))
	if err != nil {
		return adaptive.PublicProfile{}, fmt.Errorf("encode summary: %w", err)
	}
	row.EndTS = &end
	row.Completed = true
	row.Summary = summaryJSON
	row.UpdatedAt = end
	if err := ss.sessionRepo.Update(ctx, nil, row); err != nil {
		return adaptive.PublicProfile{}, fmt.Errorf("close session: %w", err)
	}
	return updated.Public(), nil
}
