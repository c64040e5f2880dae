package tracker

import (
	"github.com/fittrackapp/fittrack/internal/model"
	"github.com/fittrackapp/fittrack/internal/storage"
)

func toStorageProject(p model.Project) storage.Project {
	return storage.Project{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Type:          string(p.Type),
		Status:        string(p.Status),
		Sets:          p.Sets,
		RepsPerSet:    p.RepsPerSet,
		CompletedSets: p.CompletedSets,
		TargetCount:   p.TargetCount,
		TargetWeight:  p.TargetWeight,
		CurrentCount:  p.CurrentCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CompletedAt:   p.CompletedAt,
		CompletedDate: p.CompletedDate,
	}
}

func fromStorageProject(p storage.Project) model.Project {
	return model.Project{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Type:          model.ProjectType(p.Type),
		Status:        model.ProjectStatus(p.Status),
		Sets:          p.Sets,
		RepsPerSet:    p.RepsPerSet,
		CompletedSets: p.CompletedSets,
		TargetCount:   p.TargetCount,
		TargetWeight:  p.TargetWeight,
		CurrentCount:  p.CurrentCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CompletedAt:   p.CompletedAt,
		CompletedDate: p.CompletedDate,
	}
}

func toStorageRecord(r model.ProgressRecord) storage.ProgressRecord {
	return storage.ProgressRecord{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Timestamp: r.Timestamp,
		Type:      string(r.Type),
		Value:     r.Value,
		SetNumber: r.SetNumber,
		Weight:    r.Weight,
	}
}

func fromStorageRecord(r storage.ProgressRecord) model.ProgressRecord {
	return model.ProgressRecord{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Timestamp: r.Timestamp,
		Type:      model.ProjectType(r.Type),
		Value:     r.Value,
		SetNumber: r.SetNumber,
		Weight:    r.Weight,
	}
}

func toStorageReminder(r model.Reminder) storage.Reminder {
	return storage.Reminder{
		ID:           r.ID,
		ProjectID:    r.ProjectID,
		Enabled:      r.Enabled,
		Deadline:     r.Deadline,
		RemindBefore: r.RemindBefore,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func fromStorageReminder(r storage.Reminder) model.Reminder {
	return model.Reminder{
		ID:           r.ID,
		ProjectID:    r.ProjectID,
		Enabled:      r.Enabled,
		Deadline:     r.Deadline,
		RemindBefore: r.RemindBefore,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toStorageTemplate(t model.Template) storage.Template {
	configs := make([]storage.TemplateConfig, 0, len(t.ProjectList))
	for _, c := range t.ProjectList {
		configs = append(configs, storage.TemplateConfig{
			Name:         c.Name,
			Description:  c.Description,
			Type:         string(c.Type),
			Sets:         c.Sets,
			RepsPerSet:   c.RepsPerSet,
			TargetCount:  c.TargetCount,
			TargetWeight: c.TargetWeight,
			CreatedAt:    c.CreatedAt,
		})
	}
	return storage.Template{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ProjectList: configs,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func fromStorageTemplate(t storage.Template) model.Template {
	configs := make([]model.ProjectConfig, 0, len(t.ProjectList))
	for _, c := range t.ProjectList {
		configs = append(configs, model.ProjectConfig{
			Name:         c.Name,
			Description:  c.Description,
			Type:         model.ProjectType(c.Type),
			Sets:         c.Sets,
			RepsPerSet:   c.RepsPerSet,
			TargetCount:  c.TargetCount,
			TargetWeight: c.TargetWeight,
			CreatedAt:    c.CreatedAt,
		})
	}
	return model.Template{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ProjectList: configs,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
