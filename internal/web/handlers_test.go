package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/notifier"
	"github.com/julianstephens/mantenix/internal/reconciler"
	"github.com/julianstephens/mantenix/internal/session"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type stubSource struct{}

func (stubSource) ListAgendaTasks(context.Context) ([]models.AgendaTask, error) {
	return []models.AgendaTask{
		{ID: "7", Title: "Check extinguishers", Status: "PENDING", Priority: "HIGH", DueDate: "2026-10-01", AssignedToName: "Ana"},
	}, nil
}

func (stubSource) ListRegularTasks(context.Context) ([]models.RegularTask, error) {
	return []models.RegularTask{
		{ID: "7", Title: "Order parts", Status: "completed", Priority: "low", CompletedAt: "2026-10-15T08:00:00Z"},
	}, nil
}

func (stubSource) ListTaskGroups(context.Context) ([]models.TaskGroup, error) {
	return nil, nil
}

type memStore struct {
	prefs models.Preferences
}

func (m *memStore) GetPreferences() (models.Preferences, error) { return m.prefs, nil }

func (m *memStore) SavePreferences(p models.Preferences) error {
	m.prefs = p
	return nil
}

type stopped struct{}

func (stopped) Stop() bool { return true }

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func setupServer(t *testing.T, updateErr error) (*Server, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := reconciler.New(reconciler.UpdaterFunc(func(context.Context, models.UnifiedTask, models.Status) error {
		return updateErr
	}), reconciler.Options{
		Notifier:  notifier.Nop{},
		AfterFunc: func(time.Duration, func()) reconciler.Timer { return stopped{} },
	})
	store := &memStore{}
	sess, err := session.New(session.Options{
		Source:     stubSource{},
		Store:      store,
		Reconciler: rec,
		Notifier:   notifier.Nop{},
		Location:   time.UTC,
		Now:        func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	if err := sess.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return NewServer(sess), store
}

func serve(t *testing.T, s *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHealth(t *testing.T) {
	s, _ := setupServer(t, nil)
	w, _ := serve(t, s, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestHandleView(t *testing.T) {
	s, _ := setupServer(t, nil)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantTasks int
	}{
		{"all", "", http.StatusOK, 2},
		{"agenda only", "?origin=agenda", http.StatusOK, 1},
		{"overdue", "?overdue=true", http.StatusOK, 1},
		{"completed", "?status=completed", http.StatusOK, 1},
		{"search", "?q=parts", http.StatusOK, 1},
		{"bad origin", "?origin=calendar", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := serve(t, s, http.MethodGet, "/api/view"+tt.query, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				if env.Success {
					t.Error("expected success=false")
				}
				return
			}
			var view struct {
				Tasks  []json.RawMessage `json:"tasks"`
				Counts models.Counts     `json:"counts"`
			}
			if err := json.Unmarshal(env.Data, &view); err != nil {
				t.Fatal(err)
			}
			if len(view.Tasks) != tt.wantTasks {
				t.Errorf("expected %d tasks, got %d", tt.wantTasks, len(view.Tasks))
			}
			if view.Counts.Total != 2 {
				t.Errorf("counts should ignore the filter, got %+v", view.Counts)
			}
		})
	}
}

func TestHandlePeople(t *testing.T) {
	s, _ := setupServer(t, nil)
	w, env := serve(t, s, http.MethodGet, "/api/people", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var people []models.PersonStats
	if err := json.Unmarshal(env.Data, &people); err != nil {
		t.Fatal(err)
	}
	if len(people) != 2 || people[0].Name != "Ana" || people[1].Name != constants.UnassignedName {
		t.Errorf("unexpected people: %+v", people)
	}
}

func TestHandleStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s, _ := setupServer(t, nil)
		w, env := serve(t, s, http.MethodPost, "/api/tasks/agenda/7/status", statusRequest{Status: "completed"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var task struct {
			Origin string `json:"origin"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(env.Data, &task); err != nil {
			t.Fatal(err)
		}
		if task.Origin != "agenda" || task.Status != "completed" {
			t.Errorf("unexpected task: %+v", task)
		}
	})

	t.Run("backend failure rolls back", func(t *testing.T) {
		s, _ := setupServer(t, errors.New("boom"))
		w, env := serve(t, s, http.MethodPost, "/api/tasks/agenda/7/status", statusRequest{Status: "completed"})
		if w.Code != http.StatusInternalServerError && w.Code != http.StatusBadGateway {
			t.Fatalf("expected a server error, got %d", w.Code)
		}
		if env.Success {
			t.Error("expected success=false")
		}
		task, err := s.sess.Task(models.OriginAgenda, "7")
		if err != nil {
			t.Fatal(err)
		}
		if task.Status != models.StatusPending {
			t.Errorf("status after failure = %q, want pending", task.Status)
		}
	})

	errCases := []struct {
		name     string
		path     string
		body     interface{}
		wantCode int
	}{
		{"unknown task", "/api/tasks/regular/99/status", statusRequest{Status: "completed"}, http.StatusNotFound},
		{"unknown status", "/api/tasks/agenda/7/status", statusRequest{Status: "done"}, http.StatusBadRequest},
		{"unknown origin", "/api/tasks/calendar/7/status", statusRequest{Status: "completed"}, http.StatusBadRequest},
		{"missing body", "/api/tasks/agenda/7/status", map[string]string{}, http.StatusBadRequest},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := setupServer(t, nil)
			w, _ := serve(t, s, http.MethodPost, tt.path, tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandlePreferences(t *testing.T) {
	s, store := setupServer(t, nil)

	w, _ := serve(t, s, http.MethodPost, "/api/pinned/Zoe", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pin: expected status 200, got %d", w.Code)
	}
	if !store.prefs.IsPinned("Zoe") {
		t.Error("pin was not written to the store")
	}

	w, env := serve(t, s, http.MethodGet, "/api/preferences", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var prefs models.Preferences
	if err := json.Unmarshal(env.Data, &prefs); err != nil {
		t.Fatal(err)
	}
	if !prefs.IsPinned("Zoe") {
		t.Errorf("unexpected preferences: %+v", prefs)
	}

	prefs.Timezone = "Not/AZone"
	w, _ = serve(t, s, http.MethodPut, "/api/preferences", prefs)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid timezone: expected status 400, got %d", w.Code)
	}

	prefs.Timezone = "Europe/Madrid"
	prefs.ViewMode = constants.ViewModeKanban
	w, _ = serve(t, s, http.MethodPut, "/api/preferences", prefs)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if store.prefs.ViewMode != constants.ViewModeKanban || store.prefs.Timezone != "Europe/Madrid" {
		t.Errorf("store not updated: %+v", store.prefs)
	}

	w, _ = serve(t, s, http.MethodPut, "/api/notes", map[string]string{"notes": "roof access via stairwell B"})
	if w.Code != http.StatusOK || store.prefs.Notes != "roof access via stairwell B" {
		t.Errorf("notes not saved: %d %q", w.Code, store.prefs.Notes)
	}

	w, _ = serve(t, s, http.MethodDelete, "/api/pinned/Zoe", nil)
	if w.Code != http.StatusOK || store.prefs.IsPinned("Zoe") {
		t.Errorf("unpin failed: %d %+v", w.Code, store.prefs)
	}
}
