package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"creativesuite/internal/domain"
)

func TestAssistantExplain(t *testing.T) {
	var prompt string
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		var p struct {
			Contents string `json:"contents"`
		}
		require.NoError(t, json.Unmarshal(payload, &p))
		prompt = p.Contents
		return jsonResponse(http.StatusOK, `{"text":"It prints a line."}`), nil
	})
	seedUser(st, "u1", false)
	assistant := NewAssistant(deps)

	result, err := assistant.Run(context.Background(), "u1", TaskExplain, `fmt.Println("hi")`, "")
	require.NoError(t, err)
	require.Equal(t, "It prints a line.", result)
	require.True(t, strings.Contains(prompt, `fmt.Println("hi")`))

	u, _ := st.UserByID("u1")
	require.Equal(t, 1, u.Usage.CSAssistant)
	require.Equal(t, "Used Code Assistant", st.Activity()[0].Action)
}

func TestTranslateIsPremiumOnly(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"text":"translated"}`), nil
	})
	seedUser(st, "free", false)
	seedUser(st, "premium", true)
	assistant := NewAssistant(deps)

	_, err := assistant.Run(context.Background(), "free", TaskTranslate, "code", "Python")
	require.ErrorIs(t, err, domain.ErrPremiumRequired)

	result, err := assistant.Run(context.Background(), "premium", TaskTranslate, "code", "Python")
	require.NoError(t, err)
	require.Equal(t, "translated", result)
}

func TestTranslateRequiresTargetLanguage(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		t.Fatal("provider must not be called")
		return nil, nil
	})
	seedUser(st, "u1", true)
	assistant := NewAssistant(deps)

	_, err := assistant.Run(context.Background(), "u1", TaskTranslate, "code", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSuspendedUserCannotUseAssistant(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		t.Fatal("provider must not be called")
		return nil, nil
	})
	u := seedUser(st, "u1", true)
	end := st.Now().Add(24 * time.Hour)
	u.Status = domain.UserStatusSuspended
	u.SuspensionEnd = &end
	st.SaveUser(u)
	assistant := NewAssistant(deps)

	_, err := assistant.Run(context.Background(), "u1", TaskExplain, "code", "")
	require.ErrorIs(t, err, domain.ErrForbidden)
}
