package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CernunnosYQ/blogfolio/internal/models"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/create/user", map[string]any{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "secret",
		"password2": "secret",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user models.User
	decodeResponse(t, rec, &user)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, models.RoleUser, user.Role)
	require.True(t, user.IsActive)

	// Password hash never leaves the API.
	require.NotContains(t, rec.Body.String(), "password_hash")

	// New account can log in right away.
	token, _ := env.login("alice", "secret", "")
	require.NotEmpty(t, token)
}

func TestCreateUserPasswordMismatch(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/create/user", map[string]any{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "secret",
		"password2": "different",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Passwords do not match", decodeDetail(t, rec))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "alice@example.com", "secret", models.RoleUser)

	rec := env.doJSON(http.MethodPost, "/create/user", map[string]any{
		"username":  "alice",
		"email":     "other@example.com",
		"password":  "secret",
		"password2": "secret",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Username already exists", decodeDetail(t, rec))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "alice@example.com", "secret", models.RoleUser)

	rec := env.doJSON(http.MethodPost, "/create/user", map[string]any{
		"username":  "alice2",
		"email":     "alice@example.com",
		"password":  "secret",
		"password2": "secret",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Email already exists", decodeDetail(t, rec))
}

func TestGetUserByIDAndUsername(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", "alice@example.com", "secret", models.RoleUser)

	rec := env.doJSON(http.MethodGet, fmt.Sprintf("/get/user/%d", alice.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var byID models.User
	decodeResponse(t, rec, &byID)
	require.Equal(t, "alice", byID.Username)

	rec = env.doJSON(http.MethodGet, "/get/user/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var byName models.User
	decodeResponse(t, rec, &byName)
	require.Equal(t, alice.ID, byName.ID)
}

func TestGetUserNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodGet, "/get/user/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUserSelf(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	token, _ := env.login("alice", "secret", "")

	rec := env.doJSON(http.MethodPut, fmt.Sprintf("/update/user/%d", alice.ID), map[string]any{
		"email": "new@example.com",
	}, withBearer(token))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.User
	decodeResponse(t, rec, &updated)
	require.Equal(t, "new@example.com", updated.Email)
}

func TestUpdateUserForbiddenForOthers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	env.createUser("bob", "bob@example.com", "secret", models.RoleUser)
	bobToken, _ := env.login("bob", "secret", "")

	rec := env.doJSON(http.MethodPut, fmt.Sprintf("/update/user/%d", alice.ID), map[string]any{
		"email": "stolen@example.com",
	}, withBearer(bobToken))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateUserRoleChangeRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	env.createUser("admin", "admin@example.com", "secret", models.RoleAdmin)

	aliceToken, _ := env.login("alice", "secret", "")
	rec := env.doJSON(http.MethodPut, fmt.Sprintf("/update/user/%d", alice.ID), map[string]any{
		"role": "admin",
	}, withBearer(aliceToken))
	require.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, _ := env.login("admin", "secret", "")
	rec = env.doJSON(http.MethodPut, fmt.Sprintf("/update/user/%d", alice.ID), map[string]any{
		"role": "admin",
	}, withBearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodPut, fmt.Sprintf("/update/user/%d", alice.ID), map[string]any{
		"role": "superhero",
	}, withBearer(adminToken))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Invalid role", decodeDetail(t, rec))
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	token, _ := env.login("alice", "secret", "")

	rec := env.doJSON(http.MethodPut, fmt.Sprintf("/update/password/%d", alice.ID), map[string]any{
		"old_password":  "secret",
		"new_password":  "betterSecret",
		"new_password2": "betterSecret",
	}, withBearer(token))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Old credentials stop working, new ones do.
	rec = env.doForm("/login", url.Values{"username": {"alice"}, "password": {"secret"}})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	newToken, _ := env.login("alice", "betterSecret", "")
	require.NotEmpty(t, newToken)
}

func TestUpdatePasswordWrongOldPassword(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	token, _ := env.login("alice", "secret", "")

	rec := env.doJSON(http.MethodPut, fmt.Sprintf("/update/password/%d", alice.ID), map[string]any{
		"old_password":  "wrong",
		"new_password":  "betterSecret",
		"new_password2": "betterSecret",
	}, withBearer(token))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Old password is incorrect", decodeDetail(t, rec))
}

func TestUpdatePasswordSameAsOld(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	token, _ := env.login("alice", "secret", "")

	rec := env.doJSON(http.MethodPut, fmt.Sprintf("/update/password/%d", alice.ID), map[string]any{
		"old_password":  "secret",
		"new_password":  "secret",
		"new_password2": "secret",
	}, withBearer(token))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteUserSelfOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	bob := env.createUser("bob", "bob@example.com", "secret", models.RoleUser)
	env.createUser("admin", "admin@example.com", "secret", models.RoleAdmin)

	bobToken, _ := env.login("bob", "secret", "")
	rec := env.doJSON(http.MethodDelete, fmt.Sprintf("/delete/user/%d", alice.ID), nil, withBearer(bobToken))
	require.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, _ := env.login("admin", "secret", "")
	rec = env.doJSON(http.MethodDelete, fmt.Sprintf("/delete/user/%d", alice.ID), nil, withBearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodDelete, fmt.Sprintf("/delete/user/%d", bob.ID), nil, withBearer(bobToken))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodGet, fmt.Sprintf("/get/user/%d", alice.ID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
