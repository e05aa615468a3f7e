// Package auth implements the shared-password gate and the session rules
// layered on top of the user collection. The password is a single shared
// secret from the global settings; it is not a per-user credential.
package auth

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"creativesuite/internal/domain"
	"creativesuite/internal/infra"
	"creativesuite/internal/store"
)

// Denial is a rejected login or access attempt. The reason is user-visible;
// nothing else escapes this package as an error.
type Denial struct {
	Reason string
}

func (d *Denial) Error() string {
	return d.Reason
}

// Result reports a successful login.
type Result struct {
	User        domain.User
	ShowWelcome bool
}

// Service gates access and tracks the active session. State is process-local,
// mirroring the single-browser session of the reference UI.
type Service struct {
	store  *store.Store
	prefs  *store.Prefs
	logger infra.Logger

	mu            sync.Mutex
	authenticated bool
	currentUserID string
}

func NewService(st *store.Store, prefs *store.Prefs, logger infra.Logger) *Service {
	return &Service{store: st, prefs: prefs, logger: logger}
}

// Unlock checks an attempt against the shared access password. The gate is
// independent of which user logs in.
func (s *Service) Unlock(passwordAttempt string) bool {
	return passwordAttempt == s.store.Settings().Password
}

// Login authenticates an email against the shared password. Unknown emails
// synthesize a fresh account; banned and currently-suspended accounts are
// rejected with a reason and no state change.
func (s *Service) Login(email, passwordAttempt string) (Result, error) {
	if !s.Unlock(passwordAttempt) {
		return Result{}, &Denial{Reason: "Incorrect password. Please try again."}
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return Result{}, &Denial{Reason: "Email is required."}
	}

	now := s.store.Now()
	user, found := s.store.UserByEmail(email)
	if !found {
		user = domain.User{
			ID:        store.NewID(),
			Name:      displayName(email),
			Email:     email,
			Avatar:    "https://i.pravatar.cc/150?u=" + email,
			Role:      domain.UserRoleUser,
			Status:    domain.UserStatusActive,
			CreatedAt: now,
		}
		s.store.SaveUser(user)
		s.logger.Info().Str("user_id", user.ID).Msg("auth: created account on first login")
	} else {
		if user.Status == domain.UserStatusBanned {
			return Result{}, &Denial{Reason: "This account is banned."}
		}
		if user.Suspended(now) {
			return Result{}, &Denial{Reason: fmt.Sprintf("This account is suspended until %s.", user.SuspensionEnd.Format(time.RFC1123))}
		}
		if user.SuspensionLapsed(now) {
			s.store.MutateUser(user.ID, func(u *domain.User) {
				u.Status = domain.UserStatusActive
				u.SuspensionEnd = nil
			})
			user, _ = s.store.UserByID(user.ID)
		}
	}

	s.mu.Lock()
	s.authenticated = true
	s.currentUserID = user.ID
	s.mu.Unlock()
	s.prefs.SetSessionEmail(user.Email)
	s.store.LogActivity(user, "Logged In", "")

	showWelcome := !s.prefs.WelcomeSeen(user.ID)
	if showWelcome {
		s.prefs.MarkWelcomeSeen(user.ID)
	}
	return Result{User: user, ShowWelcome: showWelcome}, nil
}

// ResumeSession restores a persisted session marker on startup. A lapsed
// suspension is reactivated before the session is restored; a marker for a
// user that no longer exists is cleared.
func (s *Service) ResumeSession() (domain.User, bool) {
	email := s.prefs.SessionEmail()
	if email == "" {
		return domain.User{}, false
	}
	user, found := s.store.UserByEmail(email)
	if !found {
		s.prefs.ClearSessionEmail()
		return domain.User{}, false
	}
	if user.SuspensionLapsed(s.store.Now()) {
		s.store.MutateUser(user.ID, func(u *domain.User) {
			u.Status = domain.UserStatusActive
			u.SuspensionEnd = nil
		})
		user, _ = s.store.UserByID(user.ID)
	}
	s.mu.Lock()
	s.authenticated = true
	s.currentUserID = user.ID
	s.mu.Unlock()
	return user, true
}

// Logout records the action and clears the session binding.
func (s *Service) Logout() {
	if user, ok := s.CurrentUser(); ok {
		s.store.LogActivity(user, "Logged Out", "")
	}
	s.mu.Lock()
	s.authenticated = false
	s.currentUserID = ""
	s.mu.Unlock()
	s.prefs.ClearSessionEmail()
}

// CurrentUser re-reads the active user's latest record from the store.
func (s *Service) CurrentUser() (domain.User, bool) {
	s.mu.Lock()
	id := s.currentUserID
	ok := s.authenticated
	s.mu.Unlock()
	if !ok || id == "" {
		return domain.User{}, false
	}
	return s.store.UserByID(id)
}

// IsAuthenticated reports whether a session is active.
func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// LockedOut derives the access-denied state from the current user record. It
// is recomputed on every call, never stored.
func (s *Service) LockedOut() bool {
	user, ok := s.CurrentUser()
	if !ok {
		return false
	}
	if user.Status == domain.UserStatusBanned {
		return true
	}
	return user.Suspended(s.store.Now())
}

// displayName derives a presentable name from the email local-part: separators
// become spaces and each word is capitalized.
func displayName(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	name := cases.Title(language.English).String(strings.TrimSpace(local))
	if name == "" {
		return "New User"
	}
	return name
}
