package workflow

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
	"creativesuite/internal/policy"
	"creativesuite/internal/store"
)

// proxyFunc fakes the provider boundary: it receives the decoded proxy
// envelope and returns the HTTP response the gateway client will see.
type proxyFunc func(action, model string, payload json.RawMessage) (*http.Response, error)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestDeps(t *testing.T, fn proxyFunc) (Deps, *store.Store) {
	t.Helper()
	st := store.New()

	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		var env struct {
			Action  string          `json:"action"`
			Model   string          `json:"model"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&env))
		return fn(env.Action, env.Model, env.Payload)
	})
	gw, err := gateway.NewClient(gateway.Options{
		BaseURL:    "http://proxy.test/api/gemini",
		HTTPClient: &http.Client{Transport: transport},
	})
	require.NoError(t, err)

	return Deps{
		Store:   st,
		Gateway: gw,
		Logger:  zerolog.New(io.Discard),
		Models:  Models{Text: "text-model", Image: "image-model", Video: "video-model"},
	}, st
}

func seedUser(st *store.Store, id string, premium bool) domain.User {
	u := domain.User{
		ID:        id,
		Name:      "Test User",
		Email:     id + "@example.com",
		Status:    domain.UserStatusActive,
		IsPremium: premium,
	}
	st.SaveUser(u)
	return u
}

// The media quota limits image and video generation only. A free user who has
// exhausted it keeps full access to the text tools, and none of them move the
// Generations counter.
func TestMediaQuotaDoesNotGateTextTools(t *testing.T) {
	exhaust := func(st *store.Store) {
		seedUser(st, "u1", false)
		st.MutateUser("u1", func(u *domain.User) { u.Usage.Generations = policy.FreeGenerationLimit })
	}
	checkGenerations := func(t *testing.T, st *store.Store) {
		t.Helper()
		u, _ := st.UserByID("u1")
		require.Equal(t, policy.FreeGenerationLimit, u.Usage.Generations, "text tools must not touch the media counter")
	}

	t.Run("chat", func(t *testing.T) {
		deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"text":"hello"}`+"\n"), nil
		})
		exhaust(st)
		chat := NewChat(deps)
		session, err := chat.StartSession("u1", "Brainstorm", "")
		require.NoError(t, err)
		_, err = chat.Send(context.Background(), "u1", session.ID, "hi", nil)
		require.NoError(t, err)
		checkGenerations(t, st)
	})

	t.Run("quiz", func(t *testing.T) {
		deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
			return jsonResponse(http.StatusOK, quizResultJSON), nil
		})
		exhaust(st)
		_, err := NewQuizMaker(deps).Generate(context.Background(), "u1", "Go", 1)
		require.NoError(t, err)
		checkGenerations(t, st)
	})

	t.Run("toolkit", func(t *testing.T) {
		deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"text":"[\"#102030\",\"#405060\"]"}`), nil
		})
		exhaust(st)
		_, err := NewToolkit(deps).Palette(context.Background(), "u1", "ocean")
		require.NoError(t, err)
		checkGenerations(t, st)
	})

	t.Run("assistant", func(t *testing.T) {
		deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"text":"It prints hi."}`), nil
		})
		exhaust(st)
		_, err := NewAssistant(deps).Run(context.Background(), "u1", TaskExplain, `fmt.Println("hi")`, "")
		require.NoError(t, err)
		checkGenerations(t, st)
	})

	t.Run("novel", func(t *testing.T) {
		deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"text":"A chapter."}`), nil
		})
		exhaust(st)
		doc := seedDocument(st, "u1", "Opening line.")
		_, err := NewNovelWriter(deps).WriteChapters(context.Background(), "u1", doc.ID, "A space saga.", 1)
		require.NoError(t, err)
		checkGenerations(t, st)
	})
}
