package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CernunnosYQ/blogfolio/internal/models"
)

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	token, _ := env.login("alice", "secret", "")

	rec := env.doJSON(http.MethodPost, "/create/project", map[string]any{
		"title":       "Blogfolio",
		"oneliner":    "A personal blog engine",
		"description": "Longer text",
		"github_link": "https://github.com/alice/blogfolio",
		"tier":        "A",
		"techs":       []string{"go", "postgres"},
	}, withBearer(token))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var project models.Project
	decodeResponse(t, rec, &project)
	require.Equal(t, alice.ID, project.AuthorID)
	require.Equal(t, models.TierA, project.Tier)
	require.Len(t, project.Techs, 2)
}

func TestCreateProjectInvalidTier(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	token, _ := env.login("alice", "secret", "")

	rec := env.doJSON(http.MethodPost, "/create/project", map[string]any{
		"title":       "Blogfolio",
		"oneliner":    "A personal blog engine",
		"description": "Longer text",
		"tier":        "Z",
	}, withBearer(token))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Invalid tier", decodeDetail(t, rec))
}

func TestCreateProjectMissingFields(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	token, _ := env.login("alice", "secret", "")

	rec := env.doJSON(http.MethodPost, "/create/project", map[string]any{
		"title": "Blogfolio",
	}, withBearer(token))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateProjectForbiddenForNonAuthor(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	env.createUser("bob", "bob@example.com", "secret", models.RoleUser)
	aliceToken, _ := env.login("alice", "secret", "")

	rec := env.doJSON(http.MethodPost, "/create/project", map[string]any{
		"title":       "Blogfolio",
		"oneliner":    "A personal blog engine",
		"description": "Longer text",
	}, withBearer(aliceToken))
	require.Equal(t, http.StatusCreated, rec.Code)

	var project models.Project
	decodeResponse(t, rec, &project)

	bobToken, _ := env.login("bob", "secret", "")
	rec = env.doJSON(http.MethodPut, fmt.Sprintf("/update/project/%d", project.ID), map[string]any{
		"title": "Hijacked",
	}, withBearer(bobToken))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateProjectBumpsLastUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	token, _ := env.login("alice", "secret", "")

	rec := env.doJSON(http.MethodPost, "/create/project", map[string]any{
		"title":       "Blogfolio",
		"oneliner":    "A personal blog engine",
		"description": "Longer text",
	}, withBearer(token))
	require.Equal(t, http.StatusCreated, rec.Code)

	var project models.Project
	decodeResponse(t, rec, &project)
	require.Equal(t, models.TierD, project.Tier)

	rec = env.doJSON(http.MethodPut, fmt.Sprintf("/update/project/%d", project.ID), map[string]any{
		"tier": "S",
	}, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Project
	decodeResponse(t, rec, &updated)
	require.Equal(t, models.TierS, updated.Tier)
	require.False(t, updated.LastUpdate.Before(project.LastUpdate))
}

func TestDeleteProject(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "alice@example.com", "secret", models.RoleUser)
	token, _ := env.login("alice", "secret", "")

	rec := env.doJSON(http.MethodPost, "/create/project", map[string]any{
		"title":       "Blogfolio",
		"oneliner":    "A personal blog engine",
		"description": "Longer text",
		"techs":       []string{"go"},
	}, withBearer(token))
	require.Equal(t, http.StatusCreated, rec.Code)

	var project models.Project
	decodeResponse(t, rec, &project)

	rec = env.doJSON(http.MethodDelete, fmt.Sprintf("/delete/project/%d", project.ID), nil, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodGet, fmt.Sprintf("/get/project/%d", project.ID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
