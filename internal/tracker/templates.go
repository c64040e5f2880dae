package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fittrackapp/fittrack/internal/model"
	"github.com/fittrackapp/fittrack/internal/storage"
)

// TemplateRepository manages reusable project bundles and materializes
// them into real projects through the project repository.
type TemplateRepository struct {
	store    storage.Store
	projects *ProjectRepository
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

func NewTemplateRepository(store storage.Store, projects *ProjectRepository, logger zerolog.Logger) *TemplateRepository {
	return &TemplateRepository{
		store:    store,
		projects: projects,
		log:      logger.With().Str("component", "templates").Logger(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithClock overrides the wall clock, for tests.
func (r *TemplateRepository) WithClock(now func() time.Time) *TemplateRepository {
	r.now = now
	return r
}

func validateTemplateName(name string) error {
	verr := &model.ValidationError{}
	if name == "" {
		verr.Add("name", "name is required")
	} else if len([]rune(name)) > model.MaxNameLength {
		verr.Add("name", "name must be at most %d characters", model.MaxNameLength)
	}
	return verr.ErrOrNil()
}

// Create persists a new template with an empty project list.
func (r *TemplateRepository) Create(ctx context.Context, name, description string) (model.Template, error) {
	if err := validateTemplateName(name); err != nil {
		return model.Template{}, err
	}

	now := r.now()
	template := model.Template{
		ID:          r.newID(),
		Name:        name,
		Description: description,
		ProjectList: []model.ProjectConfig{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.store.CreateTemplate(ctx, toStorageTemplate(template)); err != nil {
		return model.Template{}, fmt.Errorf("create template: %w", err)
	}
	r.log.Info().Str("id", template.ID).Msg("template created")
	return template, nil
}

// UpdateTemplateInput is a partial template update. Nil fields are
// unchanged.
type UpdateTemplateInput struct {
	Name        *string
	Description *string
}

func (r *TemplateRepository) Update(ctx context.Context, id string, in UpdateTemplateInput) (model.Template, error) {
	template, err := r.Get(ctx, id)
	if err != nil {
		return model.Template{}, err
	}
	if in.Name != nil {
		if err := validateTemplateName(*in.Name); err != nil {
			return model.Template{}, err
		}
		template.Name = *in.Name
	}
	if in.Description != nil {
		template.Description = *in.Description
	}
	return r.persist(ctx, template)
}

func (r *TemplateRepository) Get(ctx context.Context, id string) (model.Template, error) {
	stored, err := r.store.GetTemplate(ctx, id)
	if err != nil {
		return model.Template{}, fmt.Errorf("load template %s: %w", id, err)
	}
	return fromStorageTemplate(stored), nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]model.Template, error) {
	stored, err := r.store.ListTemplates(ctx, storage.TemplateListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	out := make([]model.Template, 0, len(stored))
	for _, item := range stored {
		out = append(out, fromStorageTemplate(item))
	}
	return out, nil
}

// Delete removes only the template. Projects previously materialized from
// it keep no back-reference and are untouched.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteTemplate(ctx, id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}

// AddConfig appends a project blueprint to the template's list. Config
// names are not required to be unique within a template.
func (r *TemplateRepository) AddConfig(ctx context.Context, id string, config model.ProjectConfig) (model.Template, error) {
	verr := &model.ValidationError{}
	if config.Name == "" {
		verr.Add("name", "config name is required")
	}
	if !config.Type.IsValid() {
		verr.Add("type", "unknown project type %q", config.Type)
	}
	if err := verr.ErrOrNil(); err != nil {
		return model.Template{}, err
	}

	template, err := r.Get(ctx, id)
	if err != nil {
		return model.Template{}, err
	}
	if config.CreatedAt.IsZero() {
		config.CreatedAt = r.now()
	}
	template.ProjectList = append(template.ProjectList, config)
	return r.persist(ctx, template)
}

// RemoveConfig drops the config at the given position. An out-of-range
// index is a silent no-op, matching remove-by-splice semantics.
func (r *TemplateRepository) RemoveConfig(ctx context.Context, id string, index int) (model.Template, error) {
	template, err := r.Get(ctx, id)
	if err != nil {
		return model.Template{}, err
	}
	if index < 0 || index >= len(template.ProjectList) {
		return template, nil
	}
	template.ProjectList = append(template.ProjectList[:index], template.ProjectList[index+1:]...)
	return r.persist(ctx, template)
}

// MaterializeOne creates a real project from the config at the given
// position. chosenName overrides the config's own name when non-empty;
// variant fields are copied verbatim and validated only by project
// creation itself.
func (r *TemplateRepository) MaterializeOne(ctx context.Context, id string, index int, chosenName string) (model.Project, error) {
	template, err := r.Get(ctx, id)
	if err != nil {
		return model.Project{}, err
	}
	if index < 0 || index >= len(template.ProjectList) {
		return model.Project{}, fmt.Errorf("template %s has no config at index %d", id, index)
	}
	return r.materialize(ctx, template.ProjectList[index], chosenName)
}

func (r *TemplateRepository) materialize(ctx context.Context, config model.ProjectConfig, chosenName string) (model.Project, error) {
	name := config.Name
	if chosenName != "" {
		name = chosenName
	}
	return r.projects.Create(ctx, CreateProjectInput{
		Name:         name,
		Description:  config.Description,
		Type:         config.Type,
		Sets:         config.Sets,
		RepsPerSet:   config.RepsPerSet,
		TargetCount:  config.TargetCount,
		TargetWeight: config.TargetWeight,
	})
}

// MaterializeResult reports a batch materialization. Failed holds the
// names of configs whose creation was rejected.
type MaterializeResult struct {
	Created []model.Project
	Failed  []string
}

// MaterializeAll creates a project from every config in list order. Each
// creation fails independently; one bad config never stops the batch.
func (r *TemplateRepository) MaterializeAll(ctx context.Context, id string) (MaterializeResult, error) {
	template, err := r.Get(ctx, id)
	if err != nil {
		return MaterializeResult{}, err
	}

	result := MaterializeResult{
		Created: make([]model.Project, 0, len(template.ProjectList)),
	}
	for i, config := range template.ProjectList {
		project, err := r.materialize(ctx, config, "")
		if err != nil {
			name := config.Name
			if name == "" {
				name = fmt.Sprintf("config %d", i+1)
			}
			r.log.Warn().Err(err).Str("template_id", id).Str("config", name).Msg("config skipped")
			result.Failed = append(result.Failed, name)
			continue
		}
		result.Created = append(result.Created, project)
	}
	r.log.Info().Str("template_id", id).
		Int("created", len(result.Created)).Int("failed", len(result.Failed)).
		Msg("template materialized")
	return result, nil
}

func (r *TemplateRepository) persist(ctx context.Context, template model.Template) (model.Template, error) {
	template.UpdatedAt = r.now()
	if err := r.store.UpdateTemplate(ctx, toStorageTemplate(template)); err != nil {
		return model.Template{}, fmt.Errorf("update template %s: %w", template.ID, err)
	}
	return template, nil
}
