package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validSetsRepsProject() Project {
	return Project{
		ID:            "p1",
		Name:          "Pushups",
		Type:          ProjectTypeSetsReps,
		Status:        ProjectStatusActive,
		Sets:          3,
		RepsPerSet:    10,
		CompletedSets: []int{},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestProjectValidate(t *testing.T) {
	assert.NoError(t, validSetsRepsProject().Validate())

	p := validSetsRepsProject()
	p.Name = ""
	assert.Error(t, p.Validate())

	p = validSetsRepsProject()
	p.Type = "CARDIO"
	assert.ErrorIs(t, p.Validate(), ErrInvalidProjectType)

	p = validSetsRepsProject()
	p.Status = "PAUSED"
	assert.ErrorIs(t, p.Validate(), ErrInvalidProjectStatus)
}

func TestProjectValidateVariantExclusivity(t *testing.T) {
	p := validSetsRepsProject()
	p.TargetCount = 5
	assert.Error(t, p.Validate(), "total-count fields on a sets-reps project")

	q := Project{
		ID:          "p2",
		Name:        "Running",
		Type:        ProjectTypeTotalCount,
		Status:      ProjectStatusActive,
		TargetCount: 50,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	assert.NoError(t, q.Validate())

	q.Sets = 3
	assert.Error(t, q.Validate(), "sets-reps fields on a total-count project")
}

func TestProjectCompletedRequiresTimestamp(t *testing.T) {
	p := validSetsRepsProject()
	p.Status = ProjectStatusCompleted
	assert.Error(t, p.Validate())

	now := time.Now()
	p.CompletedAt = &now
	p.CompletedDate = "2026-08-29"
	assert.NoError(t, p.Validate())
}

func TestTotalCompletedReps(t *testing.T) {
	p := validSetsRepsProject()
	assert.Equal(t, 0, p.TotalCompletedReps())

	p.CompletedSets = []int{10, 8, 0, 12}
	assert.Equal(t, 30, p.TotalCompletedReps())
}
