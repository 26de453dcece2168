// Package history keeps a local SQLite record of every planner/executor run,
// so past plans and their outcomes can be inspected after the browser closes.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Adarsh505-cloud/ai-web-executor/schema"
)

func Open(filePath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(filePath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %s", filePath, err)
	}

	err = db.AutoMigrate(
		&RunRecord{},
	)
	if err != nil {
		return nil, fmt.Errorf("database migration failed: %s", err)
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	inner, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to close database, can't read inner data: %s", err)
	}

	err = inner.Close()
	if err != nil {
		return fmt.Errorf("failed to close inner database: %s", err)
	}

	return nil
}

// Store wraps the run table with the handful of queries the CLI needs.
type Store struct {
	db *gorm.DB
}

func NewStore(filePath string) (*Store, error) {
	db, err := Open(filePath)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return Close(s.db)
}

// StartRun records a new run as running and returns its ID.
func (s *Store) StartRun(prompt string, plan *schema.Plan, artifactsDir string) (string, error) {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan for history: %s", err)
	}

	record := RunRecord{
		RunID:        uuid.NewString(),
		Prompt:       prompt,
		PlanJSON:     string(planJSON),
		ActionCount:  len(plan.Actions),
		Status:       StatusRunning,
		ArtifactsDir: artifactsDir,
		StartedAt:    time.Now(),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to record run start: %s", err)
	}

	return record.RunID, nil
}

// FinishRun marks a run as succeeded or failed depending on runErr.
func (s *Store) FinishRun(runID string, runErr error) error {
	updates := map[string]any{
		"status":      StatusSucceeded,
		"finished_at": time.Now(),
	}
	if runErr != nil {
		updates["status"] = StatusFailed
		updates["error"] = runErr.Error()
	}

	result := s.db.Model(&RunRecord{}).Where("run_id = ?", runID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to record run result: %s", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no run found with ID %s", runID)
	}

	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]RunRecord, error) {
	var records []RunRecord
	err := s.db.Order("started_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %s", err)
	}

	return records, nil
}

// Get looks a run up by its ID.
func (s *Store) Get(runID string) (*RunRecord, error) {
	var record RunRecord
	err := s.db.Where("run_id = ?", runID).First(&record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find run %s: %s", runID, err)
	}

	return &record, nil
}
