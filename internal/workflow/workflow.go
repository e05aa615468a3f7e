// Package workflow hosts the orchestrators that sit between the HTTP surface
// and the provider gateway: they enforce usage policy, run the provider call
// or call sequence, and commit results to the store. Usage counters and the
// activity log move only after an operation fully succeeds.
package workflow

import (
	"errors"
	"fmt"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
	"creativesuite/internal/infra"
	"creativesuite/internal/policy"
	"creativesuite/internal/store"
)

// Models binds each capability to its provider model identifier.
type Models struct {
	Text  string
	Image string
	Video string
}

// Deps carries the shared collaborators every orchestrator needs.
type Deps struct {
	Store   *store.Store
	Gateway *gateway.Client
	Logger  infra.Logger
	Models  Models
}

// activeUser resolves the acting user and verifies standing. A missing user is
// an authentication failure; a banned or suspended one is a standing failure.
func activeUser(s *store.Store, userID string) (domain.User, error) {
	u, ok := s.UserByID(userID)
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", userID, domain.ErrUnauthorized)
	}
	if u.Status == domain.UserStatusBanned || u.Suspended(s.Now()) {
		return domain.User{}, fmt.Errorf("account standing: %w", domain.ErrForbidden)
	}
	return u, nil
}

// recordSuccess bumps a usage counter and writes the activity entry with a
// fresh identity snapshot. Called only after the operation committed.
func recordSuccess(s *store.Store, userID string, bump func(*domain.User), action, details string) {
	s.MutateUser(userID, bump)
	if u, ok := s.UserByID(userID); ok {
		s.LogActivity(u, action, details)
	}
}

// providerErr folds an upstream failure into the provider-failure class while
// keeping the cause readable.
func providerErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrProviderFailure, err)
}

// denialErr maps a policy denial onto the error taxonomy so transport code can
// pick a status without inspecting policy internals.
func denialErr(err error) error {
	var d *policy.Denial
	if errors.As(err, &d) {
		if d.Upsell {
			return fmt.Errorf("%s: %w", d.Reason, domain.ErrPremiumRequired)
		}
		return fmt.Errorf("%s: %w", d.Reason, domain.ErrQuotaExceeded)
	}
	return err
}
