package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidProjectType   = errors.New("model: invalid project type")
	ErrInvalidProjectStatus = errors.New("model: invalid project status")
)

// MaxNameLength bounds project and template names.
const MaxNameLength = 50

type ProjectType string

const (
	ProjectTypeSetsReps   ProjectType = "SETS_REPS"
	ProjectTypeTotalCount ProjectType = "TOTAL_COUNT"
)

func (t ProjectType) IsValid() bool {
	switch t {
	case ProjectTypeSetsReps, ProjectTypeTotalCount:
		return true
	default:
		return false
	}
}

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted:
		return true
	default:
		return false
	}
}

// Project is a tracked goal. Exactly one variant's fields are populated,
// discriminated by Type: SETS_REPS uses Sets/RepsPerSet/CompletedSets,
// TOTAL_COUNT uses TargetCount/TargetWeight/CurrentCount. Type never
// changes after creation.
type Project struct {
	ID          string
	Name        string
	Description string
	Type        ProjectType
	Status      ProjectStatus

	// SETS_REPS variant. CompletedSets holds one entry per logged
	// set-completion event, each entry the reps completed in that event.
	Sets          int
	RepsPerSet    int
	CompletedSets []int

	// TOTAL_COUNT variant. CurrentCount is the latest absolute count, not
	// a running sum. TargetWeight of 0 means no weight goal.
	TargetCount  int
	TargetWeight float64
	CurrentCount int

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	// CompletedDate is the local calendar day (YYYY-MM-DD) the project
	// transitioned to COMPLETED. Empty while active.
	CompletedDate string
}

// TotalCompletedReps sums the logged set-completion entries.
func (p Project) TotalCompletedReps() int {
	total := 0
	for _, v := range p.CompletedSets {
		total += v
	}
	return total
}

// Validate checks the stored shape of a project, including variant
// exclusivity. Caller-input validation lives at the repository boundary.
func (p Project) Validate() error {
	if p.ID == "" {
		return errors.New("model: project id is required")
	}
	if p.Name == "" {
		return errors.New("model: project name is required")
	}
	if !p.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidProjectType, p.Type)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidProjectStatus, p.Status)
	}
	if p.CreatedAt.IsZero() {
		return errors.New("model: project created_at is required")
	}
	switch p.Type {
	case ProjectTypeSetsReps:
		if p.Sets <= 0 || p.RepsPerSet <= 0 {
			return errors.New("model: sets and reps_per_set must be positive")
		}
		if p.TargetCount != 0 || p.CurrentCount != 0 || p.TargetWeight != 0 {
			return errors.New("model: total-count fields must be empty on a sets-reps project")
		}
	case ProjectTypeTotalCount:
		if p.TargetCount <= 0 {
			return errors.New("model: target_count must be positive")
		}
		if p.Sets != 0 || p.RepsPerSet != 0 || len(p.CompletedSets) != 0 {
			return errors.New("model: sets-reps fields must be empty on a total-count project")
		}
	}
	if p.Status == ProjectStatusCompleted && p.CompletedAt == nil {
		return errors.New("model: completed_at is required when status is COMPLETED")
	}
	return nil
}
