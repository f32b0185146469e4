package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/api"
	"taskdash/internal/model"
)

func TestLoginPostsFormEncodedCredentials(t *testing.T) {
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"access_token": "tok", "token_type": "bearer"}`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, staticToken(""), nil)
	tok, err := c.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType,
		"login submits form fields, not JSON")
	assert.Contains(t, gotBody, "username=alice")
	assert.Contains(t, gotBody, "password=s3cret")
	assert.Equal(t, "tok", tok.AccessToken)
	assert.Equal(t, "bearer", tok.TokenType)
}

func TestRegisterPostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": 7, "username": "alice", "email": "a@b.c", "full_name": "Alice", "is_active": true}`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, staticToken(""), nil)
	u, err := c.Register(context.Background(), api.RegisterRequest{
		Username: "alice",
		Email:    "a@b.c",
		FullName: "Alice",
		Password: "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"username":  "alice",
		"email":     "a@b.c",
		"full_name": "Alice",
		"password":  "s3cret",
	}, got, "register payload has exactly the four account fields")
	assert.Equal(t, 7, u.ID)
}

func TestListTasksQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tasks/", r.URL.Path, "collection endpoints keep the trailing slash")
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, staticToken(""), nil)

	_, err := c.ListTasks(context.Background(), 0, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, gotQuery["skip"])
	assert.Equal(t, []string{"100"}, gotQuery["limit"])
	assert.NotContains(t, gotQuery, "completed", "no filter param unless requested")

	_, err = c.ListTasks(context.Background(), 0, 100, model.Ptr(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"true"}, gotQuery["completed"])
}

func TestCreateTaskPayloadExcludesServerOwnedFields(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tasks/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": 1, "title": "Buy milk", "completed": false, "priority": "medium"}`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, staticToken(""), nil)
	_, err := c.CreateTask(context.Background(), model.TaskCreate{Title: "Buy milk", Priority: model.PriorityMedium})
	require.NoError(t, err)

	assert.NotContains(t, got, "id", "id is server-assigned")
	assert.NotContains(t, got, "created_at")
	assert.NotContains(t, got, "updated_at")
	assert.NotContains(t, got, "user_id")
	assert.Equal(t, "Buy milk", got["title"])
}

func TestUpdateTaskSendsOnlySetFields(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/tasks/5", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": 5, "title": "x", "completed": true, "priority": "medium"}`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, staticToken(""), nil)
	_, err := c.UpdateTask(context.Background(), 5, model.TaskUpdate{Completed: model.Ptr(true)})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"completed": true}, got,
		"toggle patches exactly the completed flag")
}

func TestUpdateNoteSendsOnlySetFields(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/notes/3", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": 3, "content": "updated"}`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, staticToken(""), nil)
	_, err := c.UpdateNote(context.Background(), 3, model.NoteUpdate{Content: model.Ptr("updated")})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"content": "updated"}, got)
}

func TestDeleteTask(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := api.New(srv.URL, staticToken(""), nil)
	require.NoError(t, c.DeleteTask(context.Background(), 9))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/tasks/9", gotPath)
}

// fakeBackend is a minimal in-memory tasks resource for round-trip
// coverage: create then list must reflect the submitted fields plus
// server-assigned id and timestamps.
type fakeBackend struct {
	mu     sync.Mutex
	nextID int
	tasks  []model.Task
}

func (b *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/tasks/":
			var in model.TaskCreate
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				w.WriteHeader(http.StatusUnprocessableEntity)
				return
			}
			b.nextID++
			now := time.Now().UTC()
			t := model.Task{
				ID:          b.nextID,
				Title:       in.Title,
				Description: in.Description,
				Completed:   in.Completed,
				Priority:    in.Priority,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if t.Priority == "" {
				t.Priority = model.PriorityMedium
			}
			b.tasks = append(b.tasks, t)
			json.NewEncoder(w).Encode(t)
		case r.Method == http.MethodGet && r.URL.Path == "/tasks/":
			json.NewEncoder(w).Encode(b.tasks)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/tasks/"):
			id := strings.TrimPrefix(r.URL.Path, "/tasks/")
			for i, t := range b.tasks {
				if fmt.Sprint(t.ID) == id {
					b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
					break
				}
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestCreateThenListRoundTrip(t *testing.T) {
	srv := httptest.NewServer((&fakeBackend{}).handler())
	defer srv.Close()

	c := api.New(srv.URL, staticToken("tok"), nil)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, model.TaskCreate{Title: "Buy milk"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID, "server assigns the id")
	assert.NotZero(t, created.CreatedAt)

	tasks, err := c.ListTasks(ctx, 0, api.DefaultPageSize, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, "Buy milk", got.Title)
	assert.False(t, got.Completed, "completed defaults to false")
	assert.Equal(t, model.PriorityMedium, got.Priority, "priority defaults to medium")
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, c.DeleteTask(ctx, created.ID))
	tasks, err = c.ListTasks(ctx, 0, api.DefaultPageSize, nil)
	require.NoError(t, err)
	assert.Empty(t, tasks, "reload after delete reflects the mutation")
}
