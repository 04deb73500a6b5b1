package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/CernunnosYQ/blogfolio/internal/apperr"
	"github.com/CernunnosYQ/blogfolio/internal/models"
	"github.com/CernunnosYQ/blogfolio/internal/service"
)

const userContextKey = "user"

type Guard struct {
	Svc *service.AuthService
}

func NewGuard(svc *service.AuthService) *Guard {
	return &Guard{Svc: svc}
}

// RequireUser resolves the bearer token into a user record and stores
// it in the request context. Missing or invalid tokens stop here with
// 401; a token whose subject no longer exists yields 404.
func (g *Guard) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return apperr.Authentication("Not authenticated")
		}

		user, err := g.Svc.ResolveUser(c.Request().Context(), strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
