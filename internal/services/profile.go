package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chytanka/chytanka-backend/internal/adaptive"
	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/repos"
	"github.com/chytanka/chytanka-backend/internal/types"
)

// ProfileExport is the full dual-language snapshot, history stripped.
type ProfileExport struct {
	RU        *adaptive.PublicProfile `json:"ru,omitempty"`
	UK        *adaptive.PublicProfile `json:"uk,omitempty"`
	UpdatedTS time.Time               `json:"updated_ts"`
}

// ProfileService is the authoritative profile path: every update runs the
// shared adaptive core against persisted state, serialized per language.
type ProfileService interface {
	GetProfile(ctx context.Context, language adaptive.Language) (adaptive.Profile, error)
	ApplySessionSummary(ctx context.Context, language adaptive.Language, in adaptive.SummaryInput, end time.Time) (adaptive.Profile, error)
	ApplyDiagnostic(ctx context.Context, language adaptive.Language, passages []adaptive.PassageResult, end time.Time) (adaptive.Profile, error)
	Export(ctx context.Context) (ProfileExport, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ReadingProfileRepo

	// One mutex per language serializes the read-modify-write cycle.
	// The core assumes at most one in-flight update per language; the
	// store enforces it when sessions for the same learner overlap.
	mu    sync.Mutex
	locks map[adaptive.Language]*sync.Mutex
}

func NewProfileService(db *gorm.DB, log *logger.Logger, profileRepo repos.ReadingProfileRepo) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
		locks:       make(map[adaptive.Language]*sync.Mutex),
	}
}

func (ps *profileService) languageLock(language adaptive.Language) *sync.Mutex {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if l, ok := ps.locks[language]; ok {
		return l
	}
	l := &sync.Mutex{}
	ps.locks[language] = l
	return l
}

// GetProfile loads the profile for a language, creating it with defaults
// on first access. Every read re-normalizes, so a corrupted row heals
// here rather than propagating.
func (ps *profileService) GetProfile(ctx context.Context, language adaptive.Language) (adaptive.Profile, error) {
	row, err := ps.profileRepo.GetByLanguage(ctx, nil, string(language))
	if err != nil {
		return adaptive.Profile{}, fmt.Errorf("load profile %s: %w", language, err)
	}
	if row == nil {
		return adaptive.NewProfile(language), nil
	}
	return profileFromRow(row, language), nil
}

func (ps *profileService) ApplySessionSummary(ctx context.Context, language adaptive.Language, in adaptive.SummaryInput, end time.Time) (adaptive.Profile, error) {
	lock := ps.languageLock(language)
	lock.Lock()
	defer lock.Unlock()

	profile, err := ps.GetProfile(ctx, language)
	if err != nil {
		return adaptive.Profile{}, err
	}
	summary := adaptive.NormalizeSummary(in)
	updated := adaptive.UpdateProfileFromSummary(profile, summary, end)
	if err := ps.persist(ctx, updated); err != nil {
		return adaptive.Profile{}, err
	}
	ps.log.Debug("Session folded into profile",
		"language", language,
		"skill_level", updated.SkillLevel,
		"bottleneck", updated.Bottleneck)
	return updated, nil
}

func (ps *profileService) ApplyDiagnostic(ctx context.Context, language adaptive.Language, passages []adaptive.PassageResult, end time.Time) (adaptive.Profile, error) {
	lock := ps.languageLock(language)
	lock.Lock()
	defer lock.Unlock()

	profile, err := ps.GetProfile(ctx, language)
	if err != nil {
		return adaptive.Profile{}, err
	}
	updated := adaptive.UpdateProfileFromDiagnostic(profile, language, passages, end)
	if err := ps.persist(ctx, updated); err != nil {
		return adaptive.Profile{}, err
	}
	ps.log.Info("Diagnostic folded into profile",
		"language", language,
		"passages", len(passages),
		"skill_level", updated.SkillLevel)
	return updated, nil
}

func (ps *profileService) Export(ctx context.Context) (ProfileExport, error) {
	export := ProfileExport{UpdatedTS: time.Now().UTC()}
	for _, language := range adaptive.DefaultLanguages {
		profile, err := ps.GetProfile(ctx, language)
		if err != nil {
			return ProfileExport{}, err
		}
		pub := profile.Public()
		switch language {
		case adaptive.LanguageRU:
			export.RU = &pub
		case adaptive.LanguageUK:
			export.UK = &pub
		}
	}
	return export, nil
}

func (ps *profileService) persist(ctx context.Context, p adaptive.Profile) error {
	row, err := rowFromProfile(p)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", p.Language, err)
	}
	if err := ps.profileRepo.Upsert(ctx, nil, row); err != nil {
		return fmt.Errorf("persist profile %s: %w", p.Language, err)
	}
	return nil
}

func profileFromRow(row *types.ReadingProfile, language adaptive.Language) adaptive.Profile {
	p := adaptive.Profile{
		Language:   language,
		SkillLevel: row.SkillLevel,
		Confidence: row.Confidence,
		Trend7d:    row.Trend7d,
		Trend30d:   row.Trend30d,
		Bottleneck: adaptive.Bottleneck(row.Bottleneck),
	}
	// JSON columns are tolerated as garbage: unmarshal failures leave the
	// zero value and EnsureProfileShape rebuilds what it can.
	_ = json.Unmarshal(row.Signals, &p.Signals)
	_ = json.Unmarshal(row.Recommended, &p.Recommended)
	_ = json.Unmarshal(row.History, &p.History)
	return adaptive.EnsureProfileShape(p, language)
}

func rowFromProfile(p adaptive.Profile) (*types.ReadingProfile, error) {
	signals, err := json.Marshal(p.Signals)
	if err != nil {
		return nil, err
	}
	recommended, err := json.Marshal(p.Recommended)
	if err != nil {
		return nil, err
	}
	history, err := json.Marshal(p.History)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &types.ReadingProfile{
		ID:          uuid.New(),
		Language:    string(p.Language),
		SkillLevel:  p.SkillLevel,
		Confidence:  p.Confidence,
		Trend7d:     p.Trend7d,
		Trend30d:    p.Trend30d,
		Bottleneck:  string(p.Bottleneck),
		Signals:     signals,
		Recommended: recommended,
		History:     history,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
