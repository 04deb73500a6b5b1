package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/CernunnosYQ/blogfolio/internal/apperr"
	"github.com/CernunnosYQ/blogfolio/internal/models"
)

func (r *Repo) ListProjects(ctx context.Context, onlyActive bool, offset, limit int) ([]models.Project, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.Project{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	var items []models.Project
	err := query.Preload("Techs").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	return items, total, nil
}

func (r *Repo) GetProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.DB.WithContext(ctx).Preload("Techs").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, fmt.Errorf("get project by id: %w", err)
	}
	return &project, nil
}

func (r *Repo) CreateProject(ctx context.Context, project *models.Project, techNames []string) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Project{}).
		Where("title = ?", project.Title).Count(&count).Error; err != nil {
		return fmt.Errorf("check project uniqueness: %w", err)
	}
	if count > 0 {
		return apperr.Conflict("Project with this title already exists")
	}

	techs, err := r.resolveTechs(ctx, techNames)
	if err != nil {
		return err
	}
	project.Techs = techs

	if err := r.DB.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *Repo) UpdateProject(ctx context.Context, id uint, patch map[string]any, techNames []string) (*models.Project, error) {
	project, err := r.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(patch) > 0 {
		patch["last_update"] = time.Now().UTC()
		if err := r.DB.WithContext(ctx).Model(project).Updates(patch).Error; err != nil {
			return nil, fmt.Errorf("update project: %w", err)
		}
	}

	if techNames != nil {
		techs, err := r.resolveTechs(ctx, techNames)
		if err != nil {
			return nil, err
		}
		if err := r.DB.WithContext(ctx).Model(project).Association("Techs").Replace(&techs); err != nil {
			return nil, fmt.Errorf("replace project techs: %w", err)
		}
		project.Techs = techs
	}

	return project, nil
}

func (r *Repo) DeleteProject(ctx context.Context, id uint) error {
	project, err := r.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.DB.WithContext(ctx).Model(project).Association("Techs").Clear(); err != nil {
		return fmt.Errorf("clear project techs: %w", err)
	}
	if err := r.DB.WithContext(ctx).Delete(project).Error; err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (r *Repo) resolveTechs(ctx context.Context, names []string) ([]models.Tech, error) {
	techs := make([]models.Tech, 0, len(names))
	for _, name := range names {
		var tech models.Tech
		if err := r.DB.WithContext(ctx).Where(models.Tech{Name: name}).FirstOrCreate(&tech).Error; err != nil {
			return nil, fmt.Errorf("resolve tech %q: %w", name, err)
		}
		techs = append(techs, tech)
	}
	return techs, nil
}
