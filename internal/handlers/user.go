package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/CernunnosYQ/blogfolio/internal/apperr"
	"github.com/CernunnosYQ/blogfolio/internal/hash"
	authmw "github.com/CernunnosYQ/blogfolio/internal/middleware/auth"
	"github.com/CernunnosYQ/blogfolio/internal/models"
	"github.com/CernunnosYQ/blogfolio/internal/mykafka"
	"github.com/CernunnosYQ/blogfolio/internal/repo"
	"github.com/CernunnosYQ/blogfolio/internal/service"
)

type UserHandler struct {
	Repo     *repo.Repo
	Producer *mykafka.Producer
}

// GetUser looks up by numeric id or by username.
func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	param := c.Param("id")

	var user *models.User
	var err error
	if id, convErr := strconv.ParseUint(param, 10, 64); convErr == nil {
		user, err = h.Repo.GetUserByID(ctx, uint(id))
	} else {
		user, err = h.Repo.GetUserByUsername(ctx, param)
	}
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "User found", user)
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Password2 string `json:"password2"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperr.Validation("Username, email and password are required")
	}
	if req.Password != req.Password2 {
		return apperr.Validation("Passwords do not match")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := h.Repo.CreateUser(ctx, user); err != nil {
		return err
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, user.Username, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return respond(c, http.StatusCreated, "User created", user)
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	caller := authmw.CurrentUser(c)
	if !service.CanModify(caller, id) {
		return apperr.Permission("You do not have permission to update this user")
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	patch := map[string]any{}
	if req.Username != nil {
		patch["username"] = *req.Username
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.Role != nil {
		// Only admins may change roles.
		if !caller.Role.IsAdmin() {
			return apperr.Permission("You do not have permission to change roles")
		}
		role := models.Role(*req.Role)
		if !role.Valid() {
			return apperr.Validation("Invalid role")
		}
		patch["role"] = role
	}
	if req.IsActive != nil {
		patch["is_active"] = *req.IsActive
	}

	user, err := h.Repo.UpdateUser(ctx, id, patch)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "User updated", user)
}

func (h *UserHandler) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	caller := authmw.CurrentUser(c)
	if !service.CanModify(caller, id) {
		return apperr.Permission("You do not have permission to change this password")
	}

	var req struct {
		OldPassword  string `json:"old_password"`
		NewPassword  string `json:"new_password"`
		NewPassword2 string `json:"new_password2"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.NewPassword == "" || req.NewPassword != req.NewPassword2 {
		return apperr.Validation("Passwords do not match")
	}
	if req.NewPassword == req.OldPassword {
		return apperr.Validation("New password must be different from the current password")
	}

	user, err := h.Repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !hash.CheckPassword(user.PasswordHash, req.OldPassword) {
		return apperr.Permission("Old password is incorrect")
	}

	passwordHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := h.Repo.UpdateUserPassword(ctx, id, passwordHash); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Password updated successfully", nil)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	caller := authmw.CurrentUser(c)
	if !service.CanModify(caller, id) {
		return apperr.Permission("You do not have permission to delete this user")
	}

	if err := h.Repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
