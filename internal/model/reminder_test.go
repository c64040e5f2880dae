package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderDisabledNeedsNothing(t *testing.T) {
	now := time.Now()
	r := Reminder{ID: "r1", ProjectID: "p1", Enabled: false}

	assert.NoError(t, r.ValidateAt(now))
}

func TestReminderEnabledRequiresFutureDeadline(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	r := Reminder{ID: "r1", ProjectID: "p1", Enabled: true, RemindBefore: 30}
	err := r.ValidateAt(now)
	require.Error(t, err)

	past := now.Add(-time.Minute)
	r.Deadline = &past
	err = r.ValidateAt(now)
	require.Error(t, err)

	future := now.Add(time.Hour)
	r.Deadline = &future
	assert.NoError(t, r.ValidateAt(now))
}

func TestReminderLeadTimeBounds(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)

	for _, lead := range []int{0, -1, 1441} {
		r := Reminder{ID: "r1", ProjectID: "p1", Enabled: true, Deadline: &future, RemindBefore: lead}
		assert.Error(t, r.ValidateAt(now), "lead %d should be rejected", lead)
	}
	for _, lead := range []int{1, 60, 1440} {
		r := Reminder{ID: "r1", ProjectID: "p1", Enabled: true, Deadline: &future, RemindBefore: lead}
		assert.NoError(t, r.ValidateAt(now), "lead %d should be accepted", lead)
	}
}

func TestReminderValidationCollectsAllFields(t *testing.T) {
	now := time.Now()
	r := Reminder{ID: "r1", ProjectID: "p1", Enabled: true, RemindBefore: 0}

	err := r.ValidateAt(now)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}
