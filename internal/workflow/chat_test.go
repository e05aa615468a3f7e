package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
)

func TestSendFoldsStreamIntoSingleMessage(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		require.Equal(t, gateway.ActionGenerateContentStream, action)
		body := `{"text":"Hel"}` + "\n" + `{"text":"lo"}` + "\n"
		return jsonResponse(http.StatusOK, body), nil
	})
	seedUser(st, "u1", false)
	chat := NewChat(deps)

	session, err := chat.StartSession("u1", "Brainstorm", "")
	require.NoError(t, err)

	var folds []string
	settled, err := chat.Send(context.Background(), "u1", session.ID, "hi there", func(cumulative string) {
		folds = append(folds, cumulative)
	})
	require.NoError(t, err)

	require.Len(t, settled.Messages, 2, "user turn plus one folded model message")
	require.Equal(t, domain.ChatRoleUser, settled.Messages[0].Role)
	require.Equal(t, "hi there", settled.Messages[0].Text)
	require.Equal(t, domain.ChatRoleModel, settled.Messages[1].Role)
	require.Equal(t, "Hello", settled.Messages[1].Text)
	require.False(t, settled.Messages[1].Error)

	require.Equal(t, []string{"Hel", "Hello"}, folds, "each fold carries the cumulative text")

	u, _ := st.UserByID("u1")
	require.Equal(t, 1, u.Usage.Chats)
	require.Equal(t, "Chatted with AI", st.Activity()[0].Action)
}

func TestSendStreamFailureKeepsUserTurn(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"error":"upstream exploded"}`), nil
	})
	seedUser(st, "u1", false)
	chat := NewChat(deps)

	session, err := chat.StartSession("u1", "Brainstorm", "")
	require.NoError(t, err)

	settled, err := chat.Send(context.Background(), "u1", session.ID, "hi there", nil)
	require.ErrorIs(t, err, domain.ErrProviderFailure)

	require.Len(t, settled.Messages, 2)
	require.Equal(t, "hi there", settled.Messages[0].Text)
	require.True(t, settled.Messages[1].Error, "placeholder must become an error marker")
	require.Equal(t, chatFailureText, settled.Messages[1].Text)

	u, _ := st.UserByID("u1")
	require.Zero(t, u.Usage.Chats, "counters move only on success")
}

func TestSendExcludesFailedTurnsFromTranscript(t *testing.T) {
	var sent []gateway.TranscriptMessage
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		var p struct {
			Contents []gateway.TranscriptMessage `json:"contents"`
		}
		require.NoError(t, json.Unmarshal(payload, &p))
		sent = p.Contents
		return jsonResponse(http.StatusOK, `{"text":"fine"}`+"\n"), nil
	})
	seedUser(st, "u1", false)
	chat := NewChat(deps)

	session, err := chat.StartSession("u1", "Brainstorm", "")
	require.NoError(t, err)
	st.MutateChatSession(session.ID, func(s *domain.ChatSession) {
		s.Messages = append(s.Messages,
			domain.ChatMessage{Role: domain.ChatRoleUser, Text: "earlier"},
			domain.ChatMessage{Role: domain.ChatRoleModel, Text: "Sorry.", Error: true},
		)
	})

	_, err = chat.Send(context.Background(), "u1", session.ID, "again", nil)
	require.NoError(t, err)

	require.Len(t, sent, 2, "failed model turn must not reach the provider")
	require.Equal(t, "earlier", sent[0].Parts[0].Text)
	require.Equal(t, "again", sent[1].Parts[0].Text)
}

func TestSendRejectsForeignSession(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		t.Fatal("provider must not be called")
		return nil, nil
	})
	seedUser(st, "owner", false)
	seedUser(st, "intruder", false)
	chat := NewChat(deps)

	session, err := chat.StartSession("owner", "Private", "")
	require.NoError(t, err)

	_, err = chat.Send(context.Background(), "intruder", session.ID, "hi", nil)
	require.ErrorIs(t, err, domain.ErrForbidden)
}
