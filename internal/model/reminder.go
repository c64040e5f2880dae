package model

import "time"

const (
	MinRemindBeforeMinutes = 1
	MaxRemindBeforeMinutes = 1440
)

// Reminder is an optional deadline notification attached to a project.
// At most one reminder exists per project by convention; the store does
// not enforce uniqueness.
type Reminder struct {
	ID        string
	ProjectID string
	Enabled   bool
	// Deadline is required when the reminder is enabled and must be in
	// the future at validation time.
	Deadline *time.Time
	// RemindBefore is the notification lead time in minutes.
	RemindBefore int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateAt checks the reminder's field rules against the given wall
// clock. Disabled reminders carry no constraints beyond identity.
func (r Reminder) ValidateAt(now time.Time) error {
	verr := &ValidationError{}
	if !r.Enabled {
		return nil
	}
	if r.Deadline == nil {
		verr.Add("deadline", "deadline is required when the reminder is enabled")
	} else if !r.Deadline.After(now) {
		verr.Add("deadline", "deadline must be in the future")
	}
	if r.RemindBefore < MinRemindBeforeMinutes || r.RemindBefore > MaxRemindBeforeMinutes {
		verr.Add("remindBefore", "lead time must be between %d and %d minutes", MinRemindBeforeMinutes, MaxRemindBeforeMinutes)
	}
	return verr.ErrOrNil()
}
