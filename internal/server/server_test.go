package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/errandhq/errandsync/internal/bus"
	"github.com/errandhq/errandsync/models"
	"github.com/errandhq/errandsync/store"
)

func setupServer(t *testing.T) (*Server, *store.TaskStore, *bus.Bus) {
	t.Helper()

	b := bus.New()
	ns, err := store.NewNamespace(afero.NewMemMapFs(), "/shared", b)
	require.NoError(t, err)
	tasks := store.NewTaskStore(ns)

	return New(0, tasks, b), tasks, b
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPostAndListTasks(t *testing.T) {
	srv, _, _ := setupServer(t)
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/tasks", map[string]any{
		"id":    "t1",
		"title": "Laundry run",
		"price": 800,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "t1", created.ID)
	assert.Equal(t, 800.0, created.PriceMin)
	assert.Equal(t, models.StatusPending, created.Status)

	rec = doJSON(t, handler, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "t1", listed[0].ID)
}

func TestPostTask_RejectsMissingID(t *testing.T) {
	srv, _, _ := setupServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/tasks", map[string]any{
		"title": "no id here",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetTask(t *testing.T) {
	srv, tasks, _ := setupServer(t)
	handler := srv.Handler()

	task := models.NewTask("t1", "Laundry run")
	task.Status = models.StatusAccepted
	require.NoError(t, tasks.Put(*task))

	// Direct lookup sees hidden states the feed filters out.
	rec := doJSON(t, handler, http.MethodGet, "/api/tasks/t1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.StatusAccepted, got.Status)

	rec = doJSON(t, handler, http.MethodGet, "/api/tasks/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetStatus(t *testing.T) {
	srv, tasks, _ := setupServer(t)
	handler := srv.Handler()

	require.NoError(t, tasks.Put(*models.NewTask("t1", "Laundry run")))

	rec := doJSON(t, handler, http.MethodPost, "/api/tasks/t1/status", map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code)

	got, ok, err := tasks.Get("t1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.StatusAccepted, got.Status)
}

func TestSetStatus_Withdraw(t *testing.T) {
	srv, tasks, _ := setupServer(t)

	require.NoError(t, tasks.Put(*models.NewTask("t1", "Laundry run")))

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/tasks/t1/status", map[string]string{"status": "withdrawn"})
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok, err := tasks.Get("t1")
	require.NoError(t, err)
	assert.False(t, ok, "withdrawn task must leave the store")
}

func TestSetStatus_Errors(t *testing.T) {
	srv, tasks, _ := setupServer(t)
	handler := srv.Handler()

	require.NoError(t, tasks.Put(*models.NewTask("t1", "Laundry run")))

	rec := doJSON(t, handler, http.MethodPost, "/api/tasks/t1/status", map[string]string{"status": "sideways"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/tasks/missing/status", map[string]string{"status": "active"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	srv, _, _ := setupServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestEventsStream(t *testing.T) {
	srv, tasks, _ := setupServer(t)

	// SSE needs a real connection; the recorder cannot stream.
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/events")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Give the handler a moment to subscribe before mutating the store.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, tasks.Put(*models.NewTask("t1", "Laundry run")))

	reader := bufio.NewReader(resp.Body)
	deadline := time.AfterFunc(3*time.Second, func() { _ = resp.Body.Close() })
	defer deadline.Stop()

	var dataLine string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err, "stream closed before a change event arrived")
		if strings.HasPrefix(line, "data: ") {
			dataLine = strings.TrimPrefix(strings.TrimSpace(line), "data: ")
			break
		}
	}

	var ev struct {
		Key      string  `json:"key"`
		OldValue *string `json:"old_value"`
		NewValue *string `json:"new_value"`
	}
	require.NoError(t, json.Unmarshal([]byte(dataLine), &ev))
	assert.Equal(t, "available_task_t1", ev.Key)
	assert.Nil(t, ev.OldValue)
	require.NotNil(t, ev.NewValue)
	assert.Contains(t, *ev.NewValue, `"t1"`)
}
