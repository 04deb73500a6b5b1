package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CernunnosYQ/blogfolio/internal/apperr"
	authmw "github.com/CernunnosYQ/blogfolio/internal/middleware/auth"
	"github.com/CernunnosYQ/blogfolio/internal/models"
	"github.com/CernunnosYQ/blogfolio/internal/mykafka"
	"github.com/CernunnosYQ/blogfolio/internal/repo"
	"github.com/CernunnosYQ/blogfolio/internal/service"
	"github.com/CernunnosYQ/blogfolio/internal/util"
)

type ProjectHandler struct {
	Repo     *repo.Repo
	Producer *mykafka.Producer
}

func (h *ProjectHandler) GetProjects(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	items, total, err := h.Repo.ListProjects(ctx, true, offset, limit)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", echo.Map{"total": total, "items": items})
}

func (h *ProjectHandler) GetProject(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	project, err := h.Repo.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", project)
}

func (h *ProjectHandler) CreateProject(c echo.Context) error {
	ctx := c.Request().Context()
	caller := authmw.CurrentUser(c)

	var req struct {
		Title       string   `json:"title"`
		Oneliner    string   `json:"oneliner"`
		Description string   `json:"description"`
		Banner      string   `json:"banner"`
		BlogpostID  *uint    `json:"blogpost_id"`
		PreviewLink string   `json:"preview_link"`
		GithubLink  string   `json:"github_link"`
		Tier        string   `json:"tier"`
		Techs       []string `json:"techs"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.Title == "" || req.Oneliner == "" || req.Description == "" {
		return apperr.Validation("Title, oneliner and description are required")
	}

	tier := models.TierD
	if req.Tier != "" {
		tier = models.Tier(req.Tier)
		if !tier.Valid() {
			return apperr.Validation("Invalid tier")
		}
	}

	now := time.Now().UTC()
	project := &models.Project{
		Title:       req.Title,
		Oneliner:    req.Oneliner,
		AuthorID:    caller.ID,
		Description: req.Description,
		Banner:      req.Banner,
		BlogpostID:  req.BlogpostID,
		PreviewLink: req.PreviewLink,
		GithubLink:  req.GithubLink,
		CreatedAt:   now,
		LastUpdate:  now,
		Tier:        tier,
		IsActive:    true,
	}
	if err := h.Repo.CreateProject(ctx, project, req.Techs); err != nil {
		return err
	}

	publish(c, h.Producer, mykafka.TopicBlogEvents, project.Title, map[string]any{
		"type":       "project_created",
		"project_id": project.ID,
		"author_id":  project.AuthorID,
	})

	return respond(c, http.StatusCreated, "Project created", project)
}

func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	project, err := h.Repo.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	caller := authmw.CurrentUser(c)
	if !service.CanModify(caller, project.AuthorID) {
		return apperr.Permission("You do not have permission to update this project")
	}

	var req struct {
		Title       *string  `json:"title"`
		Oneliner    *string  `json:"oneliner"`
		Description *string  `json:"description"`
		Banner      *string  `json:"banner"`
		BlogpostID  *uint    `json:"blogpost_id"`
		PreviewLink *string  `json:"preview_link"`
		GithubLink  *string  `json:"github_link"`
		Tier        *string  `json:"tier"`
		IsActive    *bool    `json:"is_active"`
		Techs       []string `json:"techs"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	patch := map[string]any{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Oneliner != nil {
		patch["oneliner"] = *req.Oneliner
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Banner != nil {
		patch["banner"] = *req.Banner
	}
	if req.BlogpostID != nil {
		patch["blogpost_id"] = *req.BlogpostID
	}
	if req.PreviewLink != nil {
		patch["preview_link"] = *req.PreviewLink
	}
	if req.GithubLink != nil {
		patch["github_link"] = *req.GithubLink
	}
	if req.Tier != nil {
		tier := models.Tier(*req.Tier)
		if !tier.Valid() {
			return apperr.Validation("Invalid tier")
		}
		patch["tier"] = tier
	}
	if req.IsActive != nil {
		patch["is_active"] = *req.IsActive
	}

	updated, err := h.Repo.UpdateProject(ctx, id, patch, req.Techs)
	if err != nil {
		return err
	}

	publish(c, h.Producer, mykafka.TopicBlogEvents, updated.Title, map[string]any{
		"type":       "project_updated",
		"project_id": updated.ID,
	})

	return respond(c, http.StatusOK, "Project updated", updated)
}

func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	project, err := h.Repo.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	caller := authmw.CurrentUser(c)
	if !service.CanModify(caller, project.AuthorID) {
		return apperr.Permission("You do not have permission to delete this project")
	}

	if err := h.Repo.DeleteProject(ctx, id); err != nil {
		return err
	}

	publish(c, h.Producer, mykafka.TopicBlogEvents, project.Title, map[string]any{
		"type":       "project_deleted",
		"project_id": id,
	})

	return respond(c, http.StatusOK, "Project deleted", nil)
}
