package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"creativesuite/internal/domain"
	"creativesuite/internal/policy"
)

func TestApplySnapshotsBeforeReplacing(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"text":"A tighter draft."}`), nil
	})
	seedUser(st, "u1", false)
	doc := seedDocument(st, "u1", "The original draft.")
	studio := NewStudio(deps)

	updated, err := studio.Apply(context.Background(), "u1", doc.ID, StudioActionRewrite)
	require.NoError(t, err)

	require.Equal(t, "A tighter draft.", updated.Content)
	require.Len(t, updated.VersionHistory, 1)
	require.Equal(t, "The original draft.", updated.VersionHistory[0].Content)
	require.Equal(t, 3, updated.WordCount)

	u, _ := st.UserByID("u1")
	require.Zero(t, u.Usage.Generations, "studio assists do not consume the media quota")
}

func TestContinueAppendsAndRequiresPremium(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"text":"And then it continued."}`), nil
	})
	free := seedUser(st, "free", false)
	premium := seedUser(st, "premium", true)
	freeDoc := seedDocument(st, free.ID, "Once upon a time.")
	premiumDoc := seedDocument(st, premium.ID, "Once upon a time.")
	studio := NewStudio(deps)

	_, err := studio.Apply(context.Background(), free.ID, freeDoc.ID, StudioActionContinue)
	require.ErrorIs(t, err, domain.ErrPremiumRequired)

	updated, err := studio.Apply(context.Background(), premium.ID, premiumDoc.ID, StudioActionContinue)
	require.NoError(t, err)
	require.Equal(t, "Once upon a time.\n\nAnd then it continued.", updated.Content)
}

func TestVersionHistoryEvictsPastFreeLimit(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"text":"rewrite"}`), nil
	})
	user := seedUser(st, "u1", false)
	doc := seedDocument(st, "u1", "v0")
	studio := NewStudio(deps)

	for i := 0; i < policy.FreeVersionLimit+3; i++ {
		studio.SnapshotVersion(user, doc.ID)
	}

	updated, _ := st.DocumentByID(doc.ID)
	require.Len(t, updated.VersionHistory, policy.FreeVersionLimit)
}

func TestRestoreVersionIsUndoable(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"text":"irrelevant"}`), nil
	})
	user := seedUser(st, "u1", false)
	doc := seedDocument(st, "u1", "old content")
	studio := NewStudio(deps)

	studio.SnapshotVersion(user, doc.ID)
	st.MutateDocument(doc.ID, func(d *domain.StudioDocument) {
		d.Content = "new content"
		d.Recount()
	})

	restored, err := studio.RestoreVersion("u1", doc.ID, 0)
	require.NoError(t, err)
	require.Equal(t, "old content", restored.Content)
	require.Equal(t, "new content", restored.VersionHistory[0].Content,
		"the pre-restore content must be snapshotted first")
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		t.Fatal("provider must not be called")
		return nil, nil
	})
	seedUser(st, "u1", false)
	doc := seedDocument(st, "u1", "text")
	studio := NewStudio(deps)

	_, err := studio.Apply(context.Background(), "u1", doc.ID, StudioAction("summon"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
