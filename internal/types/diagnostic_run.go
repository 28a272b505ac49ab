package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Diagnostic run statuses.
const (
	DiagnosticRunPending  = "pending"
	DiagnosticRunComplete = "complete"
	DiagnosticRunInvalid  = "invalid"
)

// DiagnosticRunRecord is a started diagnostic run. A run that is abandoned
// simply stays pending; only completed runs carry results and touch the
// profiles.
type DiagnosticRunRecord struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Token         string         `gorm:"size:128;not null;index" json:"token"`
	Status        string         `gorm:"size:16;not null" json:"status"`
	Languages     datatypes.JSON `json:"languages"`
	Config        datatypes.JSON `json:"config"`
	StartingSkill datatypes.JSON `json:"starting_skill"`
	Results       datatypes.JSON `json:"results"`
	StartedAt     time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

func (DiagnosticRunRecord) TableName() string { return "diagnostic_run" }
