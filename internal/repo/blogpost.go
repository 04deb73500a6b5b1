package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CernunnosYQ/blogfolio/internal/apperr"
	"github.com/CernunnosYQ/blogfolio/internal/models"
)

func (r *Repo) ListBlogposts(ctx context.Context, tag string, onlyActive bool, offset, limit int) ([]models.Blogpost, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.Blogpost{})

	if onlyActive {
		query = query.Where("blogposts.is_active = ?", true)
	}
	if tag != "" && tag != "all" {
		query = query.
			Joins("JOIN blogpost_tags ON blogpost_tags.blogpost_id = blogposts.id").
			Joins("JOIN tags ON tags.id = blogpost_tags.tag_id").
			Where("tags.name = ?", tag)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count blogposts: %w", err)
	}

	var items []models.Blogpost
	err := query.Preload("Tags").
		Order("blogposts.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list blogposts: %w", err)
	}
	return items, total, nil
}

func (r *Repo) GetBlogpostByID(ctx context.Context, id uint) (*models.Blogpost, error) {
	var post models.Blogpost
	if err := r.DB.WithContext(ctx).Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Blogpost not found")
		}
		return nil, fmt.Errorf("get blogpost by id: %w", err)
	}
	return &post, nil
}

func (r *Repo) GetBlogpostBySlug(ctx context.Context, slug string) (*models.Blogpost, error) {
	var post models.Blogpost
	if err := r.DB.WithContext(ctx).Preload("Tags").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Blogpost not found")
		}
		return nil, fmt.Errorf("get blogpost by slug: %w", err)
	}
	return &post, nil
}

func (r *Repo) CreateBlogpost(ctx context.Context, post *models.Blogpost, tagNames []string) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Blogpost{}).
		Where("slug = ? OR title = ?", post.Slug, post.Title).Count(&count).Error; err != nil {
		return fmt.Errorf("check blogpost uniqueness: %w", err)
	}
	if count > 0 {
		return apperr.Conflict("Blogpost with this slug or title already exists")
	}

	tags, err := r.resolveTags(ctx, tagNames)
	if err != nil {
		return err
	}
	post.Tags = tags

	if err := r.DB.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create blogpost: %w", err)
	}
	return nil
}

// UpdateBlogpost applies a partial update. A nil tagNames leaves the tag
// set untouched; an empty slice clears it.
func (r *Repo) UpdateBlogpost(ctx context.Context, id uint, patch map[string]any, tagNames []string) (*models.Blogpost, error) {
	post, err := r.GetBlogpostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(patch) > 0 {
		if err := r.DB.WithContext(ctx).Model(post).Updates(patch).Error; err != nil {
			return nil, fmt.Errorf("update blogpost: %w", err)
		}
	}

	if tagNames != nil {
		tags, err := r.resolveTags(ctx, tagNames)
		if err != nil {
			return nil, err
		}
		if err := r.DB.WithContext(ctx).Model(post).Association("Tags").Replace(&tags); err != nil {
			return nil, fmt.Errorf("replace blogpost tags: %w", err)
		}
		post.Tags = tags
	}

	return post, nil
}

func (r *Repo) DeleteBlogpost(ctx context.Context, id uint) error {
	post, err := r.GetBlogpostByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.DB.WithContext(ctx).Model(post).Association("Tags").Clear(); err != nil {
		return fmt.Errorf("clear blogpost tags: %w", err)
	}
	if err := r.DB.WithContext(ctx).Delete(post).Error; err != nil {
		return fmt.Errorf("delete blogpost: %w", err)
	}
	return nil
}

func (r *Repo) resolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := r.DB.WithContext(ctx).Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
