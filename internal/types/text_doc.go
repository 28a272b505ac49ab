package types

import (
	"time"

	"gorm.io/datatypes"
)

// TextDoc is a harvested reading passage with its comprehension quiz.
// IDs come from the harvester (stable per source document), so re-runs
// upsert instead of duplicating.
type TextDoc struct {
	ID              string         `gorm:"size:64;primaryKey" json:"id"`
	Language        string         `gorm:"size:8;not null;index:idx_text_lang_difficulty" json:"language"`
	DifficultyScore float64        `gorm:"not null;index:idx_text_lang_difficulty" json:"difficulty_score"`
	Title           string         `gorm:"size:256" json:"title"`
	Paragraphs      datatypes.JSON `json:"paragraphs"`
	Quiz            datatypes.JSON `json:"quiz"`
	Source          string         `gorm:"size:128" json:"source,omitempty"`
	WordCount       int            `json:"word_count"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (TextDoc) TableName() string { return "text_doc" }
