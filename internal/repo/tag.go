package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CernunnosYQ/blogfolio/internal/apperr"
	"github.com/CernunnosYQ/blogfolio/internal/models"
)

func (r *Repo) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (r *Repo) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Tag not found")
		}
		return nil, fmt.Errorf("get tag by name: %w", err)
	}
	return &tag, nil
}

func (r *Repo) CreateTag(ctx context.Context, tag *models.Tag) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Tag{}).
		Where("name = ?", tag.Name).Count(&count).Error; err != nil {
		return fmt.Errorf("check tag uniqueness: %w", err)
	}
	if count > 0 {
		return apperr.Conflict("Tag already exists")
	}

	if err := r.DB.WithContext(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

func (r *Repo) UpdateTag(ctx context.Context, id uint, patch map[string]any) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Tag not found")
		}
		return nil, fmt.Errorf("get tag by id: %w", err)
	}

	if len(patch) > 0 {
		if err := r.DB.WithContext(ctx).Model(&tag).Updates(patch).Error; err != nil {
			return nil, fmt.Errorf("update tag: %w", err)
		}
	}
	return &tag, nil
}

func (r *Repo) DeleteTag(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.Tag{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete tag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Tag not found")
	}
	return nil
}

func (r *Repo) ListTechs(ctx context.Context) ([]models.Tech, error) {
	var techs []models.Tech
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&techs).Error; err != nil {
		return nil, fmt.Errorf("list techs: %w", err)
	}
	return techs, nil
}

func (r *Repo) CreateTech(ctx context.Context, tech *models.Tech) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Tech{}).
		Where("name = ?", tech.Name).Count(&count).Error; err != nil {
		return fmt.Errorf("check tech uniqueness: %w", err)
	}
	if count > 0 {
		return apperr.Conflict("Tech already exists")
	}

	if err := r.DB.WithContext(ctx).Create(tech).Error; err != nil {
		return fmt.Errorf("create tech: %w", err)
	}
	return nil
}

func (r *Repo) DeleteTech(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.Tech{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete tech: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Tech not found")
	}
	return nil
}
