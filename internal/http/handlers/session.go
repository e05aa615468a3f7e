package handlers

import (
	"errors"
	"net/http"

	authpkg "creativesuite/internal/auth"
	"creativesuite/internal/domain"
)

type unlockRequest struct {
	Password string `json:"password"`
}

// Unlock checks the shared access password without binding an account, for
// the lock screen shown before the email prompt.
func (a *App) Unlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if !a.Auth.Unlock(req.Password) {
		a.error(w, http.StatusUnauthorized, "incorrect access password")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"unlocked": true})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the shared access password and binds the
// session to the account behind the email, creating it on first sight.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	result, err := a.Auth.Login(req.Email, req.Password)
	if err != nil {
		var denial *authpkg.Denial
		if errors.As(err, &denial) {
			a.error(w, http.StatusUnauthorized, denial.Reason)
			return
		}
		a.fail(w, err)
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"user":        result.User,
		"showWelcome": result.ShowWelcome,
	})
}

// Resume restores the session bound to the remembered email, if any.
func (a *App) Resume(w http.ResponseWriter, r *http.Request) {
	user, ok := a.Auth.ResumeSession()
	if !ok {
		a.error(w, http.StatusUnauthorized, "no session to resume")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"user": user})
}

func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	a.Auth.Logout()
	a.json(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// Me returns the acting account with live usage counters.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, map[string]any{"user": user})
}

type prefsResponse struct {
	Theme string `json:"theme"`
}

func (a *App) GetPrefs(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, prefsResponse{Theme: a.Prefs.Theme()})
}

func (a *App) PutPrefs(w http.ResponseWriter, r *http.Request) {
	var req prefsResponse
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	a.Prefs.SetTheme(req.Theme)
	a.json(w, http.StatusOK, prefsResponse{Theme: a.Prefs.Theme()})
}

type profileRequest struct {
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// UpdateProfile edits the acting account's public card.
func (a *App) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req profileRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	a.Store.MutateUser(user.ID, func(u *domain.User) {
		if req.Name != "" {
			u.Name = req.Name
		}
		u.Bio = req.Bio
		if req.Avatar != "" {
			u.Avatar = req.Avatar
		}
	})
	updated, _ := a.Store.UserByID(user.ID)
	a.json(w, http.StatusOK, map[string]any{"user": updated})
}
