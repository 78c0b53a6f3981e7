// Package clitest runs commands against an in-memory backend and a
// throwaway SQLite store.
package clitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/julianstephens/mantenix/internal/api"
	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/config"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/storage/sqlite"
)

// Backend serves the collections it holds and records every mutation.
type Backend struct {
	mu        sync.Mutex
	Agenda    []models.AgendaTask
	Regular   []models.RegularTask
	Groups    []models.TaskGroup
	Contacts  []models.Contact
	Reminders []models.Reminder
	Stats     models.AgendaStats

	// FailWrites makes every non-GET request answer 500.
	FailWrites bool

	mutations []Mutation
}

type Mutation struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func (b *Backend) Mutations() []Mutation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Mutation(nil), b.mutations...)
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.Method != http.MethodGet {
		m := Mutation{Method: r.Method, Path: r.URL.Path}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &m.Body)
		}
		b.mutations = append(b.mutations, m)
		if b.FailWrites {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"backend unavailable"}`)
			return
		}
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/agenda/tasks":
		writeJSON(w, b.Agenda)
	case r.Method == http.MethodGet && r.URL.Path == "/api/tasks":
		writeJSON(w, map[string]interface{}{"tasks": b.Regular})
	case r.Method == http.MethodGet && r.URL.Path == "/api/task-groups":
		writeJSON(w, b.Groups)
	case r.Method == http.MethodGet && r.URL.Path == "/api/agenda/stats":
		writeJSON(w, b.Stats)
	case r.Method == http.MethodGet && r.URL.Path == "/api/contacts":
		writeJSON(w, b.Contacts)
	case r.Method == http.MethodGet && r.URL.Path == "/api/reminders":
		writeJSON(w, map[string]interface{}{"reminders": b.Reminders})
	case r.Method == http.MethodPost:
		body := b.mutations[len(b.mutations)-1].Body
		if body == nil {
			body = map[string]interface{}{}
		}
		body["id"] = "new-1"
		writeJSON(w, body)
	case r.Method == http.MethodPut:
		body := b.mutations[len(b.mutations)-1].Body
		if body == nil {
			body = map[string]interface{}{}
		}
		body["id"] = r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		writeJSON(w, body)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// NewContext returns a command context wired to b and an initialized store.
// Command output lands in the returned buffer.
func NewContext(t *testing.T, b *Backend) (*cli.Context, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.APIURL = srv.URL
	cfg.CompanyID = "42"
	cfg.Timezone = "UTC"

	client, err := api.New(api.Options{BaseURL: srv.URL, CompanyID: cfg.CompanyID, Token: "test-token"})
	if err != nil {
		t.Fatalf("api.New() error = %v", err)
	}

	store := sqlite.New(filepath.Join(t.TempDir(), "mantenix.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	return &cli.Context{
		Config: cfg,
		Store:  store,
		Client: client,
		Out:    &out,
	}, &out
}
