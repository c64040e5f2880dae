package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentCompleteSetsReps(t *testing.T) {
	p := Project{Type: ProjectTypeSetsReps, Sets: 3, RepsPerSet: 10}

	assert.Equal(t, 0.0, PercentComplete(p))
	assert.False(t, IsComplete(p))

	p.CompletedSets = []int{1}
	assert.InDelta(t, 33.33, PercentComplete(p), 0.01)

	p.CompletedSets = []int{1, 1, 1}
	assert.Equal(t, 100.0, PercentComplete(p))
	assert.True(t, IsComplete(p))
}

func TestPercentCompleteTotalCount(t *testing.T) {
	p := Project{Type: ProjectTypeTotalCount, TargetCount: 50}

	p.CurrentCount = 25
	assert.Equal(t, 50.0, PercentComplete(p))
	assert.False(t, IsComplete(p))

	p.CurrentCount = 50
	assert.Equal(t, 100.0, PercentComplete(p))
	assert.True(t, IsComplete(p))
}

func TestPercentCompleteClampsOverCompletion(t *testing.T) {
	p := Project{Type: ProjectTypeTotalCount, TargetCount: 50, CurrentCount: 60}

	assert.Equal(t, 100.0, PercentComplete(p))
	assert.True(t, IsComplete(p), "unclamped ratio past 100%% still counts as complete")
}

func TestPercentCompleteZeroTargets(t *testing.T) {
	assert.Equal(t, 0.0, PercentComplete(Project{Type: ProjectTypeSetsReps, CompletedSets: []int{5}}))
	assert.Equal(t, 0.0, PercentComplete(Project{Type: ProjectTypeTotalCount, CurrentCount: 5}))
	assert.Equal(t, 0.0, PercentComplete(Project{}))
}

func TestPercentCompleteMonotonicUnderAppends(t *testing.T) {
	p := Project{Type: ProjectTypeSetsReps, Sets: 10, RepsPerSet: 10}

	prev := PercentComplete(p)
	for _, v := range []int{0, 2, 1, 5, 3} {
		p.CompletedSets = append(p.CompletedSets, v)
		cur := PercentComplete(p)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}
