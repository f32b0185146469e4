package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/api"
	"taskdash/internal/session"
)

func testEnv(t *testing.T, h http.HandlerFunc) Env {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv(session.EnvToken, "")
	sess := session.New(t.TempDir())
	return Env{Session: sess, API: api.New(srv.URL, sess, nil)}
}

func TestTasksAddFlagsReachThePayload(t *testing.T) {
	var got map[string]any
	env := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tasks/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": 1, "title": "Buy milk", "completed": false, "priority": "high"}`))
	})

	code := Run([]string{"tasks", "add",
		"-desc", "semi-skimmed", "-due", "2026-09-15", "-priority", "high",
		"Buy", "milk"}, env, Options{})
	assert.Equal(t, 0, code)

	assert.Equal(t, "Buy milk", got["title"])
	assert.Equal(t, "semi-skimmed", got["description"])
	assert.Equal(t, "high", got["priority"])
	require.Contains(t, got, "due_date")
	assert.Contains(t, got["due_date"].(string), "2026-09-15")
	assert.NotContains(t, got, "id")
}

func TestTasksAddRejectsBadDueDate(t *testing.T) {
	requests := 0
	env := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	code := Run([]string{"tasks", "add", "-due", "next tuesday", "Buy milk"}, env, Options{})
	assert.Equal(t, 2, code)
	assert.Zero(t, requests, "a bad due date never reaches the server")
}

func TestTasksAddRejectsUnknownPriority(t *testing.T) {
	requests := 0
	env := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	code := Run([]string{"tasks", "add", "-priority", "urgent", "Buy milk"}, env, Options{})
	assert.Equal(t, 2, code)
	assert.Zero(t, requests)
}

func TestTasksEditSendsOnlyGivenFields(t *testing.T) {
	var got map[string]any
	env := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/tasks/5", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": 5, "title": "x", "completed": false, "priority": "medium"}`))
	})

	code := Run([]string{"tasks", "edit", "5", "-desc", "new words"}, env, Options{})
	assert.Equal(t, 0, code)
	assert.Equal(t, map[string]any{"description": "new words"}, got,
		"only the flagged field travels")
}

func TestTasksEditWithoutFlagsIsUsageError(t *testing.T) {
	requests := 0
	env := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	code := Run([]string{"tasks", "edit", "5"}, env, Options{})
	assert.Equal(t, 2, code)
	assert.Zero(t, requests)
}

func TestNotesAddWithTitle(t *testing.T) {
	var got map[string]any
	env := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/notes/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": 2, "title": "Landlord", "content": "Call about the heating"}`))
	})

	code := Run([]string{"notes", "add", "-title", "Landlord", "Call", "about", "the", "heating"}, env, Options{})
	assert.Equal(t, 0, code)
	assert.Equal(t, "Landlord", got["title"])
	assert.Equal(t, "Call about the heating", got["content"])
}

func TestNotesEditSendsOnlyGivenFields(t *testing.T) {
	var got map[string]any
	env := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/notes/3", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": 3, "content": "kept"}`))
	})

	code := Run([]string{"notes", "edit", "3", "-title", "New title"}, env, Options{})
	assert.Equal(t, 0, code)
	assert.Equal(t, map[string]any{"title": "New title"}, got)
}
