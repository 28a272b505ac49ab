package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chytanka/chytanka-backend/internal/types"
)

// In-memory repo fakes. Service tests exercise the real conversion and
// orchestration logic against these instead of a database.

type fakeProfileRepo struct {
	mu   sync.Mutex
	rows map[string]*types.ReadingProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{rows: make(map[string]*types.ReadingProfile)}
}

func (f *fakeProfileRepo) GetByLanguage(_ context.Context, _ *gorm.DB, language string) (*types.ReadingProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[language]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, _ *gorm.DB, row *types.ReadingProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *row
	f.rows[row.Language] = &copied
	return nil
}

func (f *fakeProfileRepo) All(_ context.Context, _ *gorm.DB) ([]*types.ReadingProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*types.ReadingProfile, 0, len(f.rows))
	for _, row := range f.rows {
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

type fakeTextRepo struct {
	mu   sync.Mutex
	rows map[string]*types.TextDoc
}

func newFakeTextRepo() *fakeTextRepo {
	return &fakeTextRepo{rows: make(map[string]*types.TextDoc)}
}

func (f *fakeTextRepo) GetByID(_ context.Context, _ *gorm.DB, id string) (*types.TextDoc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeTextRepo) ListByDifficulty(_ context.Context, _ *gorm.DB, language string, min, max float64, limit int) ([]*types.TextDoc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.TextDoc
	for _, row := range f.rows {
		if row.Language != language || row.DifficultyScore < min || row.DifficultyScore > max {
			continue
		}
		copied := *row
		out = append(out, &copied)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeTextRepo) ListByLanguage(_ context.Context, _ *gorm.DB, language string, limit int) ([]*types.TextDoc, error) {
	return f.ListByDifficulty(context.Background(), nil, language, 0, 100, limit)
}

func (f *fakeTextRepo) Upsert(_ context.Context, _ *gorm.DB, rows []*types.TextDoc) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		copied := *row
		f.rows[row.ID] = &copied
	}
	return nil
}

type fakeSessionRepo struct {
	mu   sync.Mutex
	rows map[string]*types.ReadingSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: make(map[string]*types.ReadingSession)}
}

func (f *fakeSessionRepo) Create(_ context.Context, _ *gorm.DB, row *types.ReadingSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *row
	f.rows[row.ClientSessionID] = &copied
	return nil
}

func (f *fakeSessionRepo) GetByClientSessionID(_ context.Context, _ *gorm.DB, clientSessionID string) (*types.ReadingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[clientSessionID]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeSessionRepo) Update(_ context.Context, _ *gorm.DB, row *types.ReadingSession) error {
	return f.Create(context.Background(), nil, row)
}

func (f *fakeSessionRepo) RecentTextIDs(_ context.Context, _ *gorm.DB, language string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, row := range f.rows {
		if row.Language != language || row.TextID == "" {
			continue
		}
		out = append(out, row.TextID)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeRunRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*types.DiagnosticRunRecord
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{rows: make(map[uuid.UUID]*types.DiagnosticRunRecord)}
}

func (f *fakeRunRepo) Create(_ context.Context, _ *gorm.DB, row *types.DiagnosticRunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *row
	f.rows[row.ID] = &copied
	return nil
}

func (f *fakeRunRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.DiagnosticRunRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeRunRepo) Update(_ context.Context, _ *gorm.DB, row *types.DiagnosticRunRecord) error {
	return f.Create(context.Background(), nil, row)
}
