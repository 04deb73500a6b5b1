package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/CernunnosYQ/blogfolio/internal/apperr"
	"github.com/CernunnosYQ/blogfolio/internal/logging"
	authmw "github.com/CernunnosYQ/blogfolio/internal/middleware/auth"
	"github.com/CernunnosYQ/blogfolio/internal/models"
	"github.com/CernunnosYQ/blogfolio/internal/mykafka"
	"github.com/CernunnosYQ/blogfolio/internal/repo"
	"github.com/CernunnosYQ/blogfolio/internal/service"
	"github.com/CernunnosYQ/blogfolio/internal/util"
)

type BlogpostHandler struct {
	Repo     *repo.Repo
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (h *BlogpostHandler) GetBlogposts(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	tag := c.Param("tag")

	items, total, err := h.Repo.ListBlogposts(ctx, tag, true, offset, limit)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", echo.Map{"total": total, "items": items})
}

// GetBlogpost resolves the path parameter as an id when numeric,
// otherwise as a slug.
func (h *BlogpostHandler) GetBlogpost(c echo.Context) error {
	ctx := c.Request().Context()
	param := c.Param("id")

	var post *models.Blogpost
	var err error
	if id, convErr := strconv.ParseUint(param, 10, 64); convErr == nil {
		post, err = h.Repo.GetBlogpostByID(ctx, uint(id))
	} else {
		post, err = h.Repo.GetBlogpostBySlug(ctx, param)
	}
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", post)
}

func (h *BlogpostHandler) CreateBlogpost(c echo.Context) error {
	ctx := c.Request().Context()
	caller := authmw.CurrentUser(c)

	var req struct {
		Title      string   `json:"title"`
		Slug       string   `json:"slug"`
		Banner     string   `json:"banner"`
		Content    string   `json:"content"`
		Preview    string   `json:"preview"`
		SeriesID   *uint    `json:"series_id"`
		PartNumber *int     `json:"part_number"`
		Tags       []string `json:"tags"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.Title == "" || req.Slug == "" || req.Content == "" {
		return apperr.Validation("Title, slug and content are required")
	}

	post := &models.Blogpost{
		Title:      req.Title,
		Slug:       req.Slug,
		AuthorID:   caller.ID,
		Banner:     req.Banner,
		Content:    req.Content,
		Preview:    req.Preview,
		SeriesID:   req.SeriesID,
		PartNumber: req.PartNumber,
		IsActive:   true,
	}
	if err := h.Repo.CreateBlogpost(ctx, post, req.Tags); err != nil {
		return err
	}

	h.index(c, post)
	publish(c, h.Producer, mykafka.TopicBlogEvents, post.Slug, map[string]any{
		"type":      "blogpost_created",
		"post_id":   post.ID,
		"author_id": post.AuthorID,
		"slug":      post.Slug,
	})

	return respond(c, http.StatusCreated, "Blogpost created", post)
}

func (h *BlogpostHandler) UpdateBlogpost(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := h.Repo.GetBlogpostByID(ctx, id)
	if err != nil {
		return err
	}

	caller := authmw.CurrentUser(c)
	if !service.CanModify(caller, post.AuthorID) {
		return apperr.Permission("You do not have permission to update this blogpost")
	}

	var req struct {
		Title      *string  `json:"title"`
		Slug       *string  `json:"slug"`
		Banner     *string  `json:"banner"`
		Content    *string  `json:"content"`
		Preview    *string  `json:"preview"`
		SeriesID   *uint    `json:"series_id"`
		PartNumber *int     `json:"part_number"`
		IsActive   *bool    `json:"is_active"`
		Tags       []string `json:"tags"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	patch := map[string]any{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Slug != nil {
		patch["slug"] = *req.Slug
	}
	if req.Banner != nil {
		patch["banner"] = *req.Banner
	}
	if req.Content != nil {
		patch["content"] = *req.Content
	}
	if req.Preview != nil {
		patch["preview"] = *req.Preview
	}
	if req.SeriesID != nil {
		patch["series_id"] = *req.SeriesID
	}
	if req.PartNumber != nil {
		patch["part_number"] = *req.PartNumber
	}
	if req.IsActive != nil {
		patch["is_active"] = *req.IsActive
	}

	updated, err := h.Repo.UpdateBlogpost(ctx, id, patch, req.Tags)
	if err != nil {
		return err
	}

	h.index(c, updated)
	publish(c, h.Producer, mykafka.TopicBlogEvents, updated.Slug, map[string]any{
		"type":    "blogpost_updated",
		"post_id": updated.ID,
	})

	return respond(c, http.StatusOK, "Blogpost updated", updated)
}

func (h *BlogpostHandler) DeleteBlogpost(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := h.Repo.GetBlogpostByID(ctx, id)
	if err != nil {
		return err
	}

	caller := authmw.CurrentUser(c)
	if !service.CanModify(caller, post.AuthorID) {
		return apperr.Permission("You do not have permission to delete this blogpost")
	}

	if err := h.Repo.DeleteBlogpost(ctx, id); err != nil {
		return err
	}

	h.deindex(c, id)
	publish(c, h.Producer, mykafka.TopicBlogEvents, post.Slug, map[string]any{
		"type":    "blogpost_deleted",
		"post_id": id,
	})

	return respond(c, http.StatusOK, "Blogpost deleted", nil)
}

func (h *BlogpostHandler) index(c echo.Context, post *models.Blogpost) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := service.IndexBlogpost(ctx, h.ES, h.Index, post); err != nil {
		logging.FromContext(c.Request().Context()).Error("es_index_failed", "post_id", post.ID, "error", err)
	}
}

func (h *BlogpostHandler) deindex(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := service.DeleteBlogpostIndex(ctx, h.ES, h.Index, id); err != nil {
		logging.FromContext(c.Request().Context()).Error("es_deindex_failed", "post_id", id, "error", err)
	}
}
