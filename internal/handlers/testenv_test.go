package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CernunnosYQ/blogfolio/internal/handlers"
	"github.com/CernunnosYQ/blogfolio/internal/hash"
	"github.com/CernunnosYQ/blogfolio/internal/logging"
	authmw "github.com/CernunnosYQ/blogfolio/internal/middleware/auth"
	"github.com/CernunnosYQ/blogfolio/internal/models"
	"github.com/CernunnosYQ/blogfolio/internal/repo"
	"github.com/CernunnosYQ/blogfolio/internal/service"
	"github.com/CernunnosYQ/blogfolio/internal/tokens"
	httpserver "github.com/CernunnosYQ/blogfolio/internal/transport/http"
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	Repo *repo.Repo
	Svc  *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repo.AutoMigrate(db))

	codec, err := tokens.NewCodec([]byte("test-secret"), "HS256")
	require.NoError(t, err)

	r := repo.New(db)
	svc := &service.AuthService{
		Repo:       r,
		Codec:      codec,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}

	e := echo.New()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(logging.New("error"))

	deps := &httpserver.Deps{
		Auth:      &handlers.AuthHandler{Svc: svc},
		Users:     &handlers.UserHandler{Repo: r},
		Blogposts: &handlers.BlogpostHandler{Repo: r},
		Projects:  &handlers.ProjectHandler{Repo: r},
		Tags:      &handlers.TagHandler{Repo: r},
		Search:    &handlers.SearchHandler{},
		Guard:     authmw.NewGuard(svc),
	}
	httpserver.Register(e, deps)

	return &testEnv{T: t, E: e, Repo: r, Svc: svc}
}

type reqOption func(*http.Request)

func withBearer(token string) reqOption {
	return func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
}

func withHeader(name, value string) reqOption {
	return func(req *http.Request) {
		req.Header.Set(name, value)
	}
}

func withCookie(cookie *http.Cookie) reqOption {
	return func(req *http.Request) {
		req.AddCookie(cookie)
	}
}

func (env *testEnv) do(method, target string, body io.Reader, contentType string, opts ...reqOption) *httptest.ResponseRecorder {
	env.T.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doJSON(method, target string, payload any, opts ...reqOption) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if payload != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(payload))
	}
	return env.do(method, target, &buf, echo.MIMEApplicationJSON, opts...)
}

func (env *testEnv) doForm(target string, values url.Values, opts ...reqOption) *httptest.ResponseRecorder {
	env.T.Helper()
	return env.do(http.MethodPost, target, strings.NewReader(values.Encode()), echo.MIMEApplicationForm, opts...)
}

func (env *testEnv) createUser(username, email, password string, role models.Role) *models.User {
	env.T.Helper()

	passwordHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(env.T, env.Repo.CreateUser(context.Background(), user))
	return user
}

// login runs the real /login endpoint and returns the access token from
// the body with the refresh cookie from the response.
func (env *testEnv) login(username, password, fingerprint string) (string, *http.Cookie) {
	env.T.Helper()

	values := url.Values{"username": {username}, "password": {password}}
	opts := []reqOption{}
	if fingerprint != "" {
		opts = append(opts, withHeader(handlers.FingerprintHeader, fingerprint))
	}

	rec := env.doForm("/login", values, opts...)
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.Data.AccessToken)

	var refreshCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == handlers.RefreshCookieName {
			refreshCookie = cookie
		}
	}
	require.NotNil(env.T, refreshCookie)

	return resp.Data.AccessToken, refreshCookie
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data any) {
	t.Helper()

	var body struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	if data != nil {
		require.NoError(t, json.Unmarshal(body.Data, data))
	}
}
