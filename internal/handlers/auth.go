package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/CernunnosYQ/blogfolio/internal/mykafka"
	"github.com/CernunnosYQ/blogfolio/internal/service"
)

const FingerprintHeader = "X-Device-Fingerprint"

type AuthHandler struct {
	Svc        *service.AuthService
	Producer   *mykafka.Producer
	Production bool
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	username := c.FormValue("username")
	password := c.FormValue("password")
	fingerprint := c.Request().Header.Get(FingerprintHeader)

	res, err := h.Svc.Login(ctx, username, password, fingerprint)
	if err != nil {
		return err
	}

	c.SetCookie(CreateCookie(RefreshCookieName, res.RefreshToken, "/", res.RefreshExp, h.Production))

	publish(c, h.Producer, mykafka.TopicUserEvents, res.User.Username, map[string]any{
		"type":     "user_logged_in",
		"user_id":  res.User.ID,
		"username": res.User.Username,
	})

	return respond(c, http.StatusOK, "Login successful", echo.Map{
		"token_type":   "bearer",
		"access_token": res.AccessToken,
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var refreshToken string
	if cookie, err := c.Cookie(RefreshCookieName); err == nil {
		refreshToken = cookie.Value
	}
	accessToken := bearerToken(c)
	fingerprint := c.Request().Header.Get(FingerprintHeader)

	newAccess, err := h.Svc.Refresh(ctx, refreshToken, accessToken, fingerprint)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Token refreshed successfully", echo.Map{
		"token_type":   "bearer",
		"access_token": newAccess,
	})
}

// Logout clears the refresh cookie. Tokens are stateless so there is
// nothing to invalidate server-side; it always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(DeleteCookie(RefreshCookieName, "/"))
	return respond(c, http.StatusOK, "Logout successful", nil)
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
