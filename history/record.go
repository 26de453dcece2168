package history

import (
	"time"

	"gorm.io/gorm"
)

// Run status values.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// RunRecord is one planner/executor run as persisted in the run store.
type RunRecord struct {
	gorm.Model

	RunID        string `gorm:"unique"`
	Prompt       string
	PlanJSON     string
	ActionCount  int
	Status       string
	Error        string
	ArtifactsDir string
	StartedAt    time.Time
	FinishedAt   time.Time
}
