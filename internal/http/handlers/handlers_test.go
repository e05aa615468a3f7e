package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"creativesuite/internal/auth"
	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
	"creativesuite/internal/http/handlers"
	"creativesuite/internal/http/httpapi"
	"creativesuite/internal/infra"
	"creativesuite/internal/proxy"
	"creativesuite/internal/store"
	"creativesuite/internal/workflow"
)

type fixture struct {
	router http.Handler
	store  *store.Store
}

// newFixture stands up the full router against a volatile store. The gateway
// points at an unroutable address: these tests cover the non-generative
// surface, so any provider call is a bug.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := infra.Logger(zerolog.New(io.Discard))

	st := store.New()
	st.Seed("professor")
	prefs := store.NewPrefs()
	authSvc := auth.NewService(st, prefs, logger)

	gw, err := gateway.NewClient(gateway.Options{BaseURL: "http://127.0.0.1:1/api/gemini"})
	require.NoError(t, err)
	deps := workflow.Deps{Store: st, Gateway: gw, Logger: logger, Models: workflow.Models{Text: "t", Image: "i", Video: "v"}}

	app := &handlers.App{
		Store:     st,
		Prefs:     prefs,
		Auth:      authSvc,
		Generator: workflow.NewGenerator(deps, 0),
		Chat:      workflow.NewChat(deps),
		Novel:     workflow.NewNovelWriter(deps),
		Studio:    workflow.NewStudio(deps),
		Sandbox:   workflow.NewSandbox(deps),
		Quiz:      workflow.NewQuizMaker(deps),
		Toolkit:   workflow.NewToolkit(deps),
		Assistant: workflow.NewAssistant(deps),
		Logger:    logger,
	}
	gemini := proxy.NewHandler(nil, false, logger)
	router := httpapi.NewRouter(app, gemini, httpapi.Options{AllowedOrigins: []string{"*"}})

	return &fixture{router: router, store: st}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T, email string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/session/login", map[string]string{
		"email":    email,
		"password": "professor",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUnlockGate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/session/unlock", map[string]string{"password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/session/unlock", map[string]string{"password": "professor"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginCreatesAccountAndResume(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/session/login", map[string]string{
		"email":    "new.person@example.com",
		"password": "professor",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User        domain.User `json:"user"`
		ShowWelcome bool        `json:"showWelcome"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "New Person", resp.User.Name)
	require.True(t, resp.ShowWelcome)

	rec = f.do(t, http.MethodGet, "/session/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/session/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjectQuotaEnforced(t *testing.T) {
	f := newFixture(t)
	f.login(t, "maker@example.com")

	for i := 0; i < 5; i++ {
		rec := f.do(t, http.MethodPost, "/projects", map[string]string{"name": fmt.Sprintf("p%d", i)})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := f.do(t, http.MethodPost, "/projects", map[string]string{"name": "one too many"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestTaskLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t, "maker@example.com")

	rec := f.do(t, http.MethodPost, "/projects", map[string]string{"name": "board"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var project domain.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))

	rec = f.do(t, http.MethodPost, "/projects/"+project.ID+"/tasks", map[string]string{"content": "write tests"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	require.Equal(t, domain.TaskStatusTodo, task.Status)

	rec = f.do(t, http.MethodPut, "/projects/"+project.ID+"/tasks/"+task.ID, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, domain.TaskStatusDone, updated.Tasks[0].Status)
}

func TestDocumentQuotaEnforced(t *testing.T) {
	f := newFixture(t)
	f.login(t, "writer@example.com")

	for i := 0; i < 3; i++ {
		rec := f.do(t, http.MethodPost, "/documents", map[string]string{"title": fmt.Sprintf("d%d", i)})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/documents", map[string]string{"title": "one too many"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAdminSurfaceRequiresAdminRole(t *testing.T) {
	f := newFixture(t)
	f.login(t, "regular@example.com")

	for _, path := range []string{"/admin/users", "/admin/activity", "/admin/tickets"} {
		rec := f.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusForbidden, rec.Code, path)
	}

	f.login(t, "admin@creativesuite.dev")
	rec := f.do(t, http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMaintenanceModeGatesNonAdmins(t *testing.T) {
	f := newFixture(t)
	f.store.MutateSettings(func(gs *domain.GlobalSettings) { gs.MaintenanceMode = true })

	f.login(t, "regular@example.com")
	rec := f.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	f.login(t, "admin@creativesuite.dev")
	rec = f.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSettingsHidePasswordFromNonAdmins(t *testing.T) {
	f := newFixture(t)
	f.login(t, "regular@example.com")

	rec := f.do(t, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var settings domain.GlobalSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	require.Empty(t, settings.Password)

	f.login(t, "admin@creativesuite.dev")
	rec = f.do(t, http.MethodGet, "/settings", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	require.Equal(t, "professor", settings.Password)
}

func TestGalleryLike(t *testing.T) {
	f := newFixture(t)
	f.login(t, "fan@example.com")
	f.store.SaveGalleryItem(domain.GalleryItem{ID: "g1"})

	rec := f.do(t, http.MethodPost, "/gallery/g1/like", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var item domain.GalleryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, 1, item.Likes)

	rec = f.do(t, http.MethodPost, "/gallery/missing/like", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSupportTicketFlow(t *testing.T) {
	f := newFixture(t)
	f.login(t, "helpme@example.com")

	rec := f.do(t, http.MethodPost, "/tickets", map[string]string{
		"subject": "Cannot export",
		"body":    "The zip download fails.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var ticket domain.SupportTicket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ticket))
	require.Equal(t, domain.TicketStatusOpen, ticket.Status)

	f.login(t, "admin@creativesuite.dev")
	rec = f.do(t, http.MethodPut, "/admin/tickets/"+ticket.ID+"/close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ticket))
	require.Equal(t, domain.TicketStatusClosed, ticket.Status)
}

func TestBlogDraftVisibility(t *testing.T) {
	f := newFixture(t)
	f.login(t, "admin@creativesuite.dev")

	rec := f.do(t, http.MethodPost, "/blog", map[string]any{
		"title":       "Roadmap",
		"content":     "Coming soon.",
		"isPublished": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var draft domain.BlogPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))

	f.login(t, "reader@example.com")
	rec = f.do(t, http.MethodGet, "/blog/"+draft.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	f.login(t, "admin@creativesuite.dev")
	rec = f.do(t, http.MethodPut, "/blog/"+draft.ID, map[string]any{"isPublished": true})
	require.Equal(t, http.StatusOK, rec.Code)

	f.login(t, "reader@example.com")
	rec = f.do(t, http.MethodGet, "/blog/"+draft.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProxyEndpointWithoutKey(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/gemini", map[string]any{
		"action": "generateContent", "model": "m", "payload": map[string]any{},
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "API key is not configured")
}
