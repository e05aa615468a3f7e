// Package handlers wires the HTTP surface to the orchestrators. Handlers stay
// thin: decode, delegate, encode. All policy and provider work lives below.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"creativesuite/internal/auth"
	"creativesuite/internal/domain"
	"creativesuite/internal/infra"
	"creativesuite/internal/store"
	"creativesuite/internal/workflow"
)

type App struct {
	Store     *store.Store
	Prefs     *store.Prefs
	Auth      *auth.Service
	Generator *workflow.Generator
	Chat      *workflow.Chat
	Novel     *workflow.NovelWriter
	Studio    *workflow.Studio
	Sandbox   *workflow.Sandbox
	Quiz      *workflow.QuizMaker
	Toolkit   *workflow.Toolkit
	Assistant *workflow.Assistant
	Logger    infra.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

// fail maps the error taxonomy onto HTTP statuses and writes the response.
func (a *App) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrPremiumRequired):
		code = http.StatusPaymentRequired
	case errors.Is(err, domain.ErrQuotaExceeded):
		code = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProviderFailure):
		code = http.StatusBadGateway
	}
	if code == http.StatusInternalServerError {
		a.Logger.Error().Err(err).Msg("handler: unclassified failure")
	}
	a.error(w, code, err.Error())
}

// decode reads a JSON body into v, rejecting unparseable input.
func (a *App) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}

// currentUser resolves the acting account or reports an auth failure.
func (a *App) currentUser(w http.ResponseWriter) (domain.User, bool) {
	u, ok := a.Auth.CurrentUser()
	if !ok {
		a.error(w, http.StatusUnauthorized, "not signed in")
		return domain.User{}, false
	}
	return u, true
}
