package storage

import "time"

type Project struct {
	ID            string
	Name          string
	Description   string
	Type          string
	Status        string
	Sets          int
	RepsPerSet    int
	CompletedSets []int
	TargetCount   int
	TargetWeight  float64
	CurrentCount  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
	CompletedDate string
}

type ProgressRecord struct {
	ID        string
	ProjectID string
	Timestamp time.Time
	Type      string
	Value     int
	SetNumber int
	Weight    float64
}

type Reminder struct {
	ID           string
	ProjectID    string
	Enabled      bool
	Deadline     *time.Time
	RemindBefore int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TemplateConfig is the persisted form of one embedded project blueprint.
// The whole list is stored as a JSON column on the template row.
type TemplateConfig struct {
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Type         string    `json:"type"`
	Sets         int       `json:"sets,omitempty"`
	RepsPerSet   int       `json:"repsPerSet,omitempty"`
	TargetCount  int       `json:"targetCount,omitempty"`
	TargetWeight float64   `json:"targetWeight,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
}

type Template struct {
	ID          string
	Name        string
	Description string
	ProjectList []TemplateConfig
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectListFilter selects and orders projects. OrderBy must name an
// indexed field (createdAt, name, completedDate); the zero value means
// createdAt ascending.
type ProjectListFilter struct {
	Status        string
	CompletedDate string
	OrderBy       string
	Desc          bool
	Limit         int
}

// RecordListFilter selects progress records. From/To bound Timestamp
// inclusively; results are always in ascending timestamp order.
type RecordListFilter struct {
	ProjectID string
	From      *time.Time
	To        *time.Time
	Limit     int
}

type ReminderListFilter struct {
	ProjectID string
	Enabled   *bool
	Limit     int
}

type TemplateListFilter struct {
	Limit int
}
