package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReadingSession is one started (and possibly completed) reading session.
// The client supplies ClientSessionID so a retried end call is idempotent.
type ReadingSession struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClientSessionID string         `gorm:"size:64;not null;uniqueIndex" json:"client_session_id"`
	Language        string         `gorm:"size:8;not null;index" json:"language"`
	TextID          string         `gorm:"size:64" json:"text_id"`
	ChallengeType   string         `gorm:"size:32" json:"challenge_type"`
	DifficultyScore float64        `json:"difficulty_score"`
	StartTS         time.Time      `gorm:"not null" json:"start_ts"`
	EndTS           *time.Time     `json:"end_ts,omitempty"`
	Completed       bool           `json:"completed"`
	Summary         datatypes.JSON `json:"summary"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (ReadingSession) TableName() string { return "reading_session" }
