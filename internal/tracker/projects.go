// Package tracker holds the domain repositories. They validate input,
// stamp identity and timestamps, derive completion state, and delegate
// persistence to the storage layer.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fittrackapp/fittrack/internal/model"
	"github.com/fittrackapp/fittrack/internal/storage"
)

// DayFormat is the local calendar-day form used for completion dates and
// the daily visibility window.
const DayFormat = "2006-01-02"

// Today renders the local calendar day of the given instant.
func Today(now time.Time) string {
	return now.Local().Format(DayFormat)
}

// ProjectRepository owns project, progress record, and reminder lifecycle.
type ProjectRepository struct {
	store storage.Store
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

func NewProjectRepository(store storage.Store, logger zerolog.Logger) *ProjectRepository {
	return &ProjectRepository{
		store: store,
		log:   logger.With().Str("component", "projects").Logger(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock overrides the wall clock, for tests.
func (r *ProjectRepository) WithClock(now func() time.Time) *ProjectRepository {
	r.now = now
	return r
}

// WithIDSource overrides id generation, for tests.
func (r *ProjectRepository) WithIDSource(newID func() string) *ProjectRepository {
	r.newID = newID
	return r
}

// CreateProjectInput carries the caller-supplied fields of a new project.
// Variant fields outside the declared Type must be left zero.
type CreateProjectInput struct {
	Name        string
	Description string
	Type        model.ProjectType

	Sets       int
	RepsPerSet int

	TargetCount  int
	TargetWeight float64
}

func (in CreateProjectInput) validate() error {
	verr := &model.ValidationError{}
	if in.Name == "" {
		verr.Add("name", "name is required")
	} else if len([]rune(in.Name)) > model.MaxNameLength {
		verr.Add("name", "name must be at most %d characters", model.MaxNameLength)
	}
	switch in.Type {
	case model.ProjectTypeSetsReps:
		if in.Sets <= 0 {
			verr.Add("sets", "sets must be a positive integer")
		}
		if in.RepsPerSet <= 0 {
			verr.Add("repsPerSet", "reps per set must be a positive integer")
		}
	case model.ProjectTypeTotalCount:
		if in.TargetCount <= 0 {
			verr.Add("targetCount", "target count must be a positive integer")
		}
		if in.TargetWeight != 0 {
			if in.TargetWeight < 0 {
				verr.Add("targetWeight", "target weight must be positive")
			} else if !hasAtMostTwoDecimals(in.TargetWeight) {
				verr.Add("targetWeight", "target weight allows at most two decimal places")
			}
		}
	default:
		verr.Add("type", "unknown project type %q", in.Type)
	}
	return verr.ErrOrNil()
}

func hasAtMostTwoDecimals(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

// Create validates the input as a whole, reporting every failing field,
// then persists a fresh ACTIVE project.
func (r *ProjectRepository) Create(ctx context.Context, in CreateProjectInput) (model.Project, error) {
	if err := in.validate(); err != nil {
		return model.Project{}, err
	}

	now := r.now()
	project := model.Project{
		ID:          r.newID(),
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		Status:      model.ProjectStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch in.Type {
	case model.ProjectTypeSetsReps:
		project.Sets = in.Sets
		project.RepsPerSet = in.RepsPerSet
		project.CompletedSets = []int{}
	case model.ProjectTypeTotalCount:
		project.TargetCount = in.TargetCount
		project.TargetWeight = in.TargetWeight
		project.CurrentCount = 0
	}

	if err := r.store.CreateProject(ctx, toStorageProject(project)); err != nil {
		return model.Project{}, fmt.Errorf("create project: %w", err)
	}
	r.log.Info().Str("id", project.ID).Str("type", string(project.Type)).Msg("project created")
	return project, nil
}

// UpdateProjectInput is a partial update. Nil fields are unchanged; the
// project's type is immutable and deliberately absent.
type UpdateProjectInput struct {
	Name        *string
	Description *string

	Sets       *int
	RepsPerSet *int

	TargetCount  *int
	TargetWeight *float64
}

func (r *ProjectRepository) Update(ctx context.Context, id string, in UpdateProjectInput) (model.Project, error) {
	stored, err := r.store.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, fmt.Errorf("load project %s: %w", id, err)
	}
	project := fromStorageProject(stored)

	verr := &model.ValidationError{}
	if in.Name != nil {
		if *in.Name == "" {
			verr.Add("name", "name is required")
		} else if len([]rune(*in.Name)) > model.MaxNameLength {
			verr.Add("name", "name must be at most %d characters", model.MaxNameLength)
		} else {
			project.Name = *in.Name
		}
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	switch project.Type {
	case model.ProjectTypeSetsReps:
		if in.Sets != nil {
			if *in.Sets <= 0 {
				verr.Add("sets", "sets must be a positive integer")
			} else {
				project.Sets = *in.Sets
			}
		}
		if in.RepsPerSet != nil {
			if *in.RepsPerSet <= 0 {
				verr.Add("repsPerSet", "reps per set must be a positive integer")
			} else {
				project.RepsPerSet = *in.RepsPerSet
			}
		}
		if in.TargetCount != nil || in.TargetWeight != nil {
			verr.Add("type", "total-count fields do not apply to a sets-reps project")
		}
	case model.ProjectTypeTotalCount:
		if in.TargetCount != nil {
			if *in.TargetCount <= 0 {
				verr.Add("targetCount", "target count must be a positive integer")
			} else {
				project.TargetCount = *in.TargetCount
			}
		}
		if in.TargetWeight != nil {
			if *in.TargetWeight < 0 || (*in.TargetWeight > 0 && !hasAtMostTwoDecimals(*in.TargetWeight)) {
				verr.Add("targetWeight", "target weight must be positive with at most two decimal places")
			} else {
				project.TargetWeight = *in.TargetWeight
			}
		}
		if in.Sets != nil || in.RepsPerSet != nil {
			verr.Add("type", "sets-reps fields do not apply to a total-count project")
		}
	}
	if err := verr.ErrOrNil(); err != nil {
		return model.Project{}, err
	}

	project.UpdatedAt = r.now()
	if err := r.store.UpdateProject(ctx, toStorageProject(project)); err != nil {
		return model.Project{}, fmt.Errorf("update project %s: %w", id, err)
	}
	return project, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (model.Project, error) {
	stored, err := r.store.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, err
	}
	return fromStorageProject(stored), nil
}

// ProgressEvent is one logged completion event. For a sets-reps project
// Value is the reps completed in the event; for a total-count project it
// is the new absolute count, not a delta.
type ProgressEvent struct {
	Value     int
	SetNumber int
	Weight    float64
}

// RecordProgress appends a progress record, updates the project's cached
// aggregate, and stamps completion if the target has just been reached.
// The ACTIVE to COMPLETED transition is one-way; later edits that lower
// progress never revert it.
func (r *ProjectRepository) RecordProgress(ctx context.Context, projectID string, event ProgressEvent) (model.Project, error) {
	stored, err := r.store.GetProject(ctx, projectID)
	if err != nil {
		return model.Project{}, fmt.Errorf("load project %s: %w", projectID, err)
	}
	project := fromStorageProject(stored)

	if event.Value < 0 {
		verr := &model.ValidationError{}
		verr.Add("value", "progress value must not be negative")
		return model.Project{}, verr.ErrOrNil()
	}

	now := r.now()
	record := model.ProgressRecord{
		ID:        r.newID(),
		ProjectID: project.ID,
		Timestamp: now,
		Type:      project.Type,
		Value:     event.Value,
		SetNumber: event.SetNumber,
		Weight:    event.Weight,
	}
	if err := r.store.CreateRecord(ctx, toStorageRecord(record)); err != nil {
		return model.Project{}, fmt.Errorf("create progress record: %w", err)
	}

	switch project.Type {
	case model.ProjectTypeSetsReps:
		project.CompletedSets = append(project.CompletedSets, event.Value)
	case model.ProjectTypeTotalCount:
		project.CurrentCount = event.Value
	}
	r.stampCompletion(&project, now)

	project.UpdatedAt = now
	if err := r.store.UpdateProject(ctx, toStorageProject(project)); err != nil {
		return model.Project{}, fmt.Errorf("update project %s: %w", projectID, err)
	}
	r.log.Debug().Str("project_id", project.ID).Int("value", event.Value).
		Float64("percent", model.PercentComplete(project)).Msg("progress recorded")
	return project, nil
}

// EditProgressRecord changes one historical record's value, then rebuilds
// the owning project's aggregate from the full timestamp-ordered record
// set. The record log is the source of truth; the project's cached fields
// are a projection of it.
func (r *ProjectRepository) EditProgressRecord(ctx context.Context, recordID string, newValue int) (model.Project, error) {
	stored, err := r.store.GetRecord(ctx, recordID)
	if err != nil {
		return model.Project{}, fmt.Errorf("load record %s: %w", recordID, err)
	}
	record := fromStorageRecord(stored)

	project, err := r.Get(ctx, record.ProjectID)
	if err != nil {
		return model.Project{}, fmt.Errorf("load project %s: %w", record.ProjectID, err)
	}

	if err := validateEditedValue(project, newValue); err != nil {
		return model.Project{}, err
	}

	record.Value = newValue
	if err := r.store.UpdateRecord(ctx, toStorageRecord(record)); err != nil {
		return model.Project{}, fmt.Errorf("update record %s: %w", recordID, err)
	}

	return r.rebuildAggregate(ctx, project)
}

// validateEditedValue bounds an edited value to ten times the project's
// per-event quantum, catching obvious data-entry mistakes without blocking
// legitimate over-performance.
func validateEditedValue(project model.Project, newValue int) error {
	verr := &model.ValidationError{}
	if newValue < 0 {
		verr.Add("value", "progress value must not be negative")
		return verr.ErrOrNil()
	}
	var quantum int
	switch project.Type {
	case model.ProjectTypeSetsReps:
		quantum = project.RepsPerSet
	case model.ProjectTypeTotalCount:
		quantum = project.TargetCount
	}
	if quantum > 0 && newValue > 10*quantum {
		verr.Add("value", "progress value %d exceeds the plausible maximum %d", newValue, 10*quantum)
	}
	return verr.ErrOrNil()
}

func (r *ProjectRepository) rebuildAggregate(ctx context.Context, project model.Project) (model.Project, error) {
	records, err := r.store.ListRecords(ctx, storage.RecordListFilter{ProjectID: project.ID})
	if err != nil {
		return model.Project{}, fmt.Errorf("list records for %s: %w", project.ID, err)
	}

	switch project.Type {
	case model.ProjectTypeSetsReps:
		values := make([]int, 0, len(records))
		for _, rec := range records {
			values = append(values, rec.Value)
		}
		project.CompletedSets = values
	case model.ProjectTypeTotalCount:
		project.CurrentCount = 0
		if len(records) > 0 {
			project.CurrentCount = records[len(records)-1].Value
		}
	}

	now := r.now()
	r.stampCompletion(&project, now)
	project.UpdatedAt = now
	if err := r.store.UpdateProject(ctx, toStorageProject(project)); err != nil {
		return model.Project{}, fmt.Errorf("update project %s: %w", project.ID, err)
	}
	return project, nil
}

// stampCompletion marks the project COMPLETED when the target has been
// reached and it was not already completed. It never reverts.
func (r *ProjectRepository) stampCompletion(project *model.Project, now time.Time) {
	if project.Status == model.ProjectStatusCompleted || !model.IsComplete(*project) {
		return
	}
	completedAt := now
	project.Status = model.ProjectStatusCompleted
	project.CompletedAt = &completedAt
	project.CompletedDate = Today(now)
	r.log.Info().Str("project_id", project.ID).Str("completed_date", project.CompletedDate).Msg("project completed")
}

// Delete removes the project, then its progress records, then its
// reminders. The cascade is best effort, not transactional: a reminder
// cleanup failure is logged and swallowed so the primary deletion stands,
// and orphaned rows are inert without a live project id to join on.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	removed, err := r.store.DeleteRecordsByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("delete records for %s: %w", id, err)
	}
	if _, err := r.store.DeleteRemindersByProject(ctx, id); err != nil {
		r.log.Warn().Err(err).Str("project_id", id).Msg("reminder cleanup failed, continuing")
	}
	r.log.Info().Str("project_id", id).Int64("records_removed", removed).Msg("project deleted")
	return nil
}

// ListActive returns projects ordered by creation time descending, hiding
// projects completed on any day other than asOfDay. A completed project
// stays visible for the rest of its completion day and vanishes from the
// list afterwards while remaining in the store.
func (r *ProjectRepository) ListActive(ctx context.Context, asOfDay string) ([]model.Project, error) {
	stored, err := r.store.ListProjects(ctx, storage.ProjectListFilter{
		OrderBy: "createdAt",
		Desc:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	out := make([]model.Project, 0, len(stored))
	for _, item := range stored {
		project := fromStorageProject(item)
		if project.Status == model.ProjectStatusCompleted && project.CompletedDate != asOfDay {
			continue
		}
		out = append(out, project)
	}
	return out, nil
}

// ListRecords returns a project's progress history in timestamp order.
func (r *ProjectRepository) ListRecords(ctx context.Context, projectID string) ([]model.ProgressRecord, error) {
	stored, err := r.store.ListRecords(ctx, storage.RecordListFilter{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("list records for %s: %w", projectID, err)
	}
	out := make([]model.ProgressRecord, 0, len(stored))
	for _, item := range stored {
		out = append(out, fromStorageRecord(item))
	}
	return out, nil
}

// SetReminder upserts the project's single reminder.
func (r *ProjectRepository) SetReminder(ctx context.Context, projectID string, enabled bool, deadline *time.Time, remindBeforeMinutes int) (model.Reminder, error) {
	if _, err := r.store.GetProject(ctx, projectID); err != nil {
		return model.Reminder{}, fmt.Errorf("load project %s: %w", projectID, err)
	}

	now := r.now()
	existing, err := r.store.GetReminderByProject(ctx, projectID)
	switch {
	case err == nil:
		reminder := fromStorageReminder(existing)
		reminder.Enabled = enabled
		reminder.Deadline = deadline
		reminder.RemindBefore = remindBeforeMinutes
		reminder.UpdatedAt = now
		if verr := reminder.ValidateAt(now); verr != nil {
			return model.Reminder{}, verr
		}
		if err := r.store.UpdateReminder(ctx, toStorageReminder(reminder)); err != nil {
			return model.Reminder{}, fmt.Errorf("update reminder for %s: %w", projectID, err)
		}
		return reminder, nil
	case errors.Is(err, storage.ErrNotFound):
		reminder := model.Reminder{
			ID:           r.newID(),
			ProjectID:    projectID,
			Enabled:      enabled,
			Deadline:     deadline,
			RemindBefore: remindBeforeMinutes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if verr := reminder.ValidateAt(now); verr != nil {
			return model.Reminder{}, verr
		}
		if err := r.store.CreateReminder(ctx, toStorageReminder(reminder)); err != nil {
			return model.Reminder{}, fmt.Errorf("create reminder for %s: %w", projectID, err)
		}
		return reminder, nil
	default:
		return model.Reminder{}, fmt.Errorf("load reminder for %s: %w", projectID, err)
	}
}

// GetReminder returns the project's reminder, or storage.ErrNotFound when
// none has been set.
func (r *ProjectRepository) GetReminder(ctx context.Context, projectID string) (model.Reminder, error) {
	stored, err := r.store.GetReminderByProject(ctx, projectID)
	if err != nil {
		return model.Reminder{}, err
	}
	return fromStorageReminder(stored), nil
}

// ListEnabledReminders returns every enabled reminder, soonest deadline
// first, for scheduling at startup.
func (r *ProjectRepository) ListEnabledReminders(ctx context.Context) ([]model.Reminder, error) {
	enabled := true
	stored, err := r.store.ListReminders(ctx, storage.ReminderListFilter{Enabled: &enabled})
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	out := make([]model.Reminder, 0, len(stored))
	for _, item := range stored {
		out = append(out, fromStorageReminder(item))
	}
	return out, nil
}
