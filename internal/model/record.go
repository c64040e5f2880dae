package model

import (
	"errors"
	"time"
)

// ProgressRecord is one logged completion event. Records are the source of
// truth for a project's aggregate progress: for SETS_REPS, Value is the
// reps completed in that event; for TOTAL_COUNT, Value is the absolute
// count at that event. A record is never mutated except by an explicit
// history edit, which rebuilds the owning project's aggregate from the
// full timestamp-ordered record set.
type ProgressRecord struct {
	ID        string
	ProjectID string
	Timestamp time.Time
	Type      ProjectType
	Value     int
	// SetNumber is the 1-based set position for SETS_REPS events, 0 when
	// not applicable.
	SetNumber int
	// Weight is the weight in kg logged with a TOTAL_COUNT event, 0 when
	// none was entered.
	Weight float64
}

func (r ProgressRecord) Validate() error {
	if r.ID == "" {
		return errors.New("model: record id is required")
	}
	if r.ProjectID == "" {
		return errors.New("model: record project_id is required")
	}
	if r.Timestamp.IsZero() {
		return errors.New("model: record timestamp is required")
	}
	if !r.Type.IsValid() {
		return errors.New("model: record type is invalid")
	}
	if r.Value < 0 {
		return errors.New("model: record value must not be negative")
	}
	return nil
}
