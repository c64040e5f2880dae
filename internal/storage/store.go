package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get and Update when the id is absent.
	// Deletes are idempotent and never return it.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidIndex is returned when a list query orders by a field the
	// collection does not index. This is a programmer error; correct
	// integrations never see it.
	ErrInvalidIndex = errors.New("storage: field is not indexed")
)

// Store is the embedded database handle. It persists records verbatim and
// performs no domain validation; that is the repositories' job.
type Store interface {
	CreateProject(ctx context.Context, in Project) error
	GetProject(ctx context.Context, id string) (Project, error)
	UpdateProject(ctx context.Context, in Project) error
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context, filter ProjectListFilter) ([]Project, error)

	CreateRecord(ctx context.Context, in ProgressRecord) error
	GetRecord(ctx context.Context, id string) (ProgressRecord, error)
	UpdateRecord(ctx context.Context, in ProgressRecord) error
	DeleteRecord(ctx context.Context, id string) error
	ListRecords(ctx context.Context, filter RecordListFilter) ([]ProgressRecord, error)
	DeleteRecordsByProject(ctx context.Context, projectID string) (int64, error)

	CreateReminder(ctx context.Context, in Reminder) error
	GetReminder(ctx context.Context, id string) (Reminder, error)
	GetReminderByProject(ctx context.Context, projectID string) (Reminder, error)
	UpdateReminder(ctx context.Context, in Reminder) error
	DeleteReminder(ctx context.Context, id string) error
	DeleteRemindersByProject(ctx context.Context, projectID string) (int64, error)
	ListReminders(ctx context.Context, filter ReminderListFilter) ([]Reminder, error)

	CreateTemplate(ctx context.Context, in Template) error
	GetTemplate(ctx context.Context, id string) (Template, error)
	UpdateTemplate(ctx context.Context, in Template) error
	DeleteTemplate(ctx context.Context, id string) error
	ListTemplates(ctx context.Context, filter TemplateListFilter) ([]Template, error)

	Close() error
}
