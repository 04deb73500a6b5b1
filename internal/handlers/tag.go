package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CernunnosYQ/blogfolio/internal/apperr"
	authmw "github.com/CernunnosYQ/blogfolio/internal/middleware/auth"
	"github.com/CernunnosYQ/blogfolio/internal/models"
	"github.com/CernunnosYQ/blogfolio/internal/repo"
)

// Tags and techs are global vocabulary with no author, so mutation is
// admin-only.
type TagHandler struct {
	Repo *repo.Repo
}

func (h *TagHandler) GetTags(c echo.Context) error {
	tags, err := h.Repo.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", tags)
}

func (h *TagHandler) GetTag(c echo.Context) error {
	tag, err := h.Repo.GetTagByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", tag)
}

func (h *TagHandler) CreateTag(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	var req struct {
		Name        string `json:"name"`
		Icon        string `json:"icon"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return apperr.Validation("Name is required")
	}

	tag := &models.Tag{Name: req.Name, Icon: req.Icon, Description: req.Description}
	if err := h.Repo.CreateTag(c.Request().Context(), tag); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Tag created", tag)
}

func (h *TagHandler) UpdateTag(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name        *string `json:"name"`
		Icon        *string `json:"icon"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Icon != nil {
		patch["icon"] = *req.Icon
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}

	tag, err := h.Repo.UpdateTag(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Tag updated", tag)
}

func (h *TagHandler) DeleteTag(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteTag(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Tag deleted", nil)
}

func (h *TagHandler) GetTechs(c echo.Context) error {
	techs, err := h.Repo.ListTechs(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", techs)
}

func (h *TagHandler) CreateTech(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	var req struct {
		Name        string `json:"name"`
		Icon        string `json:"icon"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return apperr.Validation("Name is required")
	}

	tech := &models.Tech{Name: req.Name, Icon: req.Icon, Description: req.Description}
	if err := h.Repo.CreateTech(c.Request().Context(), tech); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Tech created", tech)
}

func (h *TagHandler) DeleteTech(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteTech(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Tech deleted", nil)
}

func requireAdmin(c echo.Context) error {
	caller := authmw.CurrentUser(c)
	if caller == nil || !caller.Role.IsAdmin() {
		return apperr.Permission("You do not have permission to manage tags")
	}
	return nil
}
