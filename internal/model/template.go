package model

import (
	"errors"
	"time"
)

// ProjectConfig is an embedded, identity-less project blueprint stored
// inside a template's ProjectList. It is addressed only by its position
// and never persisted as a standalone project until materialized.
type ProjectConfig struct {
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Type         ProjectType `json:"type"`
	Sets         int         `json:"sets,omitempty"`
	RepsPerSet   int         `json:"repsPerSet,omitempty"`
	TargetCount  int         `json:"targetCount,omitempty"`
	TargetWeight float64     `json:"targetWeight,omitempty"`
	CreatedAt    time.Time   `json:"createdAt,omitzero"`
}

// Template is a named, reusable bundle of project configurations.
type Template struct {
	ID          string
	Name        string
	Description string
	ProjectList []ProjectConfig
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t Template) Validate() error {
	if t.ID == "" {
		return errors.New("model: template id is required")
	}
	if t.Name == "" {
		return errors.New("model: template name is required")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: template created_at is required")
	}
	return nil
}
