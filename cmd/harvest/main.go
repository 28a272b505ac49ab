package main

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/chytanka/chytanka-backend/internal/adaptive"
	"github.com/chytanka/chytanka-backend/internal/db"
	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/repos"
	"github.com/chytanka/chytanka-backend/internal/types"
	"github.com/chytanka/chytanka-backend/internal/utils"
)

const (
	fetchConcurrency = 4
	fetchTimeout     = 30 * time.Second
)

// harvestConfig is the yaml file listing source endpoints per language.
type harvestConfig struct {
	Sources []harvestSource `yaml:"sources"`
}

type harvestSource struct {
	Name     string `yaml:"name"`
	Language string `yaml:"language"`
	URL      string `yaml:"url"`
}

// sourceDoc is the document shape source endpoints return.
type sourceDoc struct {
	ID         string                  `json:"id"`
	Title      string                  `json:"title"`
	Paragraphs []string                `json:"paragraphs"`
	Quiz       []adaptive.QuizQuestion `json:"quiz"`
}

func main() {
	mode := utils.GetEnv("MODE", "dev", nil)
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	configPath := utils.GetEnv("HARVEST_CONFIG", "harvest.yaml", log)
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal("Could not load harvest config", "path", configPath, "error", err)
	}
	if len(cfg.Sources) == 0 {
		log.Fatal("Harvest config lists no sources", "path", configPath)
	}

	dbService, err := db.New(log)
	if err != nil {
		log.Fatal("Database connection failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Database migration failed", "error", err)
	}
	textRepo := repos.NewTextDocRepo(dbService.DB(), log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var (
		mu   sync.Mutex
		rows []*types.TextDoc
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(fetchConcurrency)
	for _, source := range cfg.Sources {
		group.Go(func() error {
			docs, err := fetchSource(groupCtx, source)
			if err != nil {
				return fmt.Errorf("source %s: %w", source.Name, err)
			}
			harvested := make([]*types.TextDoc, 0, len(docs))
			for _, doc := range docs {
				row, err := buildRow(source, doc)
				if err != nil {
					log.Warn("Skipping document", "source", source.Name, "title", doc.Title, "error", err)
					continue
				}
				harvested = append(harvested, row)
			}
			mu.Lock()
			rows = append(rows, harvested...)
			mu.Unlock()
			log.Info("Source harvested", "source", source.Name, "documents", len(harvested))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		log.Fatal("Harvest failed", "error", err)
	}

	if err := textRepo.Upsert(ctx, nil, rows); err != nil {
		log.Fatal("Upsert failed", "error", err)
	}
	log.Info("Harvest complete", "texts", len(rows))
}

func loadConfig(path string) (*harvestConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg harvestConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fetchSource(ctx context.Context, source harvestSource) ([]sourceDoc, error) {
	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var docs []sourceDoc
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func buildRow(source harvestSource, doc sourceDoc) (*types.TextDoc, error) {
	if _, ok := parseLanguage(source.Language); !ok {
		return nil, fmt.Errorf("unsupported language %q", source.Language)
	}
	if len(doc.Paragraphs) == 0 {
		return nil, fmt.Errorf("no paragraphs")
	}

	id := doc.ID
	if id == "" {
		// Stable per source document, so re-runs upsert instead of
		// duplicating.
		sum := sha1.Sum([]byte(source.Name + "/" + doc.Title))
		id = hex.EncodeToString(sum[:8])
	}

	paragraphsJSON, err := json.Marshal(doc.Paragraphs)
	if err != nil {
		return nil, err
	}
	quiz := doc.Quiz
	if quiz == nil {
		quiz = []adaptive.QuizQuestion{}
	}
	quizJSON, err := json.Marshal(quiz)
	if err != nil {
		return nil, err
	}

	stats := analyzeText(doc.Paragraphs)
	now := time.Now().UTC()
	return &types.TextDoc{
		ID:              id,
		Language:        source.Language,
		DifficultyScore: stats.difficulty(),
		Title:           doc.Title,
		Paragraphs:      paragraphsJSON,
		Quiz:            quizJSON,
		Source:          source.Name,
		WordCount:       stats.words,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func parseLanguage(raw string) (adaptive.Language, bool) {
	switch adaptive.Language(raw) {
	case adaptive.LanguageRU:
		return adaptive.LanguageRU, true
	case adaptive.LanguageUK:
		return adaptive.LanguageUK, true
	}
	return "", false
}
