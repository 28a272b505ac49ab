package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReadingProfile is the persisted per-language skill estimate. Exactly one
// row exists per language; rows are never deleted, only their history
// entries age out inside the JSON payload.
type ReadingProfile struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Language    string         `gorm:"size:8;not null;uniqueIndex" json:"language"`
	SkillLevel  float64        `gorm:"not null" json:"skill_level"`
	Confidence  float64        `gorm:"not null" json:"confidence"`
	Trend7d     float64        `gorm:"column:trend_7d" json:"trend_7d"`
	Trend30d    float64        `gorm:"column:trend_30d" json:"trend_30d"`
	Bottleneck  string         `gorm:"size:32;not null" json:"bottleneck"`
	Signals     datatypes.JSON `json:"signals"`
	Recommended datatypes.JSON `json:"recommended"`
	History     datatypes.JSON `json:"history"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (ReadingProfile) TableName() string { return "reading_profile" }
