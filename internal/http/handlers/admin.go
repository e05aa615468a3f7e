package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"creativesuite/internal/domain"
)

// requireAdmin resolves the acting account and rejects non-admins.
func (a *App) requireAdmin(w http.ResponseWriter) (domain.User, bool) {
	user, ok := a.currentUser(w)
	if !ok {
		return domain.User{}, false
	}
	if !user.IsAdmin() {
		a.error(w, http.StatusForbidden, "admin access required")
		return domain.User{}, false
	}
	return user, true
}

func (a *App) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireAdmin(w); !ok {
		return
	}
	a.json(w, http.StatusOK, a.Store.Users())
}

type userStatusRequest struct {
	Status        domain.UserStatus `json:"status"`
	SuspensionEnd *time.Time        `json:"suspensionEndDate"`
}

// SetUserStatus bans, suspends or reactivates an account. Suspension requires
// an end date; reactivation clears it.
func (a *App) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	admin, ok := a.requireAdmin(w)
	if !ok {
		return
	}
	var req userStatusRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	switch req.Status {
	case domain.UserStatusActive, domain.UserStatusBanned:
	case domain.UserStatusSuspended:
		if req.SuspensionEnd == nil {
			a.fail(w, fmt.Errorf("suspension requires an end date: %w", domain.ErrInvalidInput))
			return
		}
	default:
		a.fail(w, fmt.Errorf("unknown status %q: %w", req.Status, domain.ErrInvalidInput))
		return
	}

	id := chi.URLParam(r, "id")
	if !a.Store.MutateUser(id, func(u *domain.User) {
		u.Status = req.Status
		if req.Status == domain.UserStatusSuspended {
			u.SuspensionEnd = req.SuspensionEnd
		} else {
			u.SuspensionEnd = nil
		}
	}) {
		a.error(w, http.StatusNotFound, "user not found")
		return
	}

	updated, _ := a.Store.UserByID(id)
	a.Store.LogActivity(admin, "Changed User Status", fmt.Sprintf("%s -> %s", updated.Email, req.Status))
	a.json(w, http.StatusOK, updated)
}

type premiumRequest struct {
	IsPremium bool `json:"isPremium"`
}

func (a *App) SetUserPremium(w http.ResponseWriter, r *http.Request) {
	admin, ok := a.requireAdmin(w)
	if !ok {
		return
	}
	var req premiumRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if !a.Store.MutateUser(id, func(u *domain.User) { u.IsPremium = req.IsPremium }) {
		a.error(w, http.StatusNotFound, "user not found")
		return
	}
	updated, _ := a.Store.UserByID(id)
	a.Store.LogActivity(admin, "Changed User Plan", fmt.Sprintf("%s premium=%t", updated.Email, req.IsPremium))
	a.json(w, http.StatusOK, updated)
}

type roleRequest struct {
	Role domain.UserRole `json:"role"`
}

func (a *App) SetUserRole(w http.ResponseWriter, r *http.Request) {
	admin, ok := a.requireAdmin(w)
	if !ok {
		return
	}
	var req roleRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.Role != domain.UserRoleUser && req.Role != domain.UserRoleAdmin {
		a.fail(w, fmt.Errorf("unknown role %q: %w", req.Role, domain.ErrInvalidInput))
		return
	}

	id := chi.URLParam(r, "id")
	if !a.Store.MutateUser(id, func(u *domain.User) { u.Role = req.Role }) {
		a.error(w, http.StatusNotFound, "user not found")
		return
	}
	updated, _ := a.Store.UserByID(id)
	a.Store.LogActivity(admin, "Changed User Role", fmt.Sprintf("%s -> %s", updated.Email, req.Role))
	a.json(w, http.StatusOK, updated)
}

// Activity returns the audit trail, newest first, capped at the ring size.
func (a *App) Activity(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireAdmin(w); !ok {
		return
	}
	a.json(w, http.StatusOK, a.Store.Activity())
}

// GetSettings returns the global singleton. The shared password is only
// disclosed to admins.
func (a *App) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings := a.Store.Settings()
	user, _ := a.Auth.CurrentUser()
	if !user.IsAdmin() {
		settings.Password = ""
	}
	a.json(w, http.StatusOK, settings)
}

// UpdateSettings replaces the global singleton. Admin-only; an empty password
// keeps the current one so admins cannot lock everyone out by accident.
func (a *App) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	admin, ok := a.requireAdmin(w)
	if !ok {
		return
	}
	var req domain.GlobalSettings
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	a.Store.MutateSettings(func(gs *domain.GlobalSettings) {
		password := gs.Password
		*gs = req
		if req.Password == "" {
			gs.Password = password
		}
	})
	a.Store.LogActivity(admin, "Updated Global Settings", "")
	a.json(w, http.StatusOK, a.Store.Settings())
}

// SetFAQs replaces the help-page entries. Admin-only.
func (a *App) SetFAQs(w http.ResponseWriter, r *http.Request) {
	admin, ok := a.requireAdmin(w)
	if !ok {
		return
	}
	var faqs []domain.FAQ
	if err := a.decode(r, &faqs); err != nil {
		a.fail(w, err)
		return
	}
	a.Store.SetFAQs(faqs)
	a.Store.LogActivity(admin, "Updated FAQs", fmt.Sprintf("%d entries", len(faqs)))
	a.json(w, http.StatusOK, a.Store.FAQs())
}
