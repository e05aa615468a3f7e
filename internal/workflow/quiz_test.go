package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"creativesuite/internal/domain"
)

const quizResultJSON = `{"text":"{\"topic\":\"Go\",\"questions\":[{\"question\":\"What is a goroutine?\",\"options\":[\"A thread\",\"A lightweight thread\",\"A process\",\"A channel\"],\"answer\":\"A lightweight thread\"}]}"}`

func TestGenerateQuizStoresDecodedQuiz(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		return jsonResponse(http.StatusOK, quizResultJSON), nil
	})
	seedUser(st, "u1", false)
	maker := NewQuizMaker(deps)

	quiz, err := maker.Generate(context.Background(), "u1", "Go", 1)
	require.NoError(t, err)
	require.Equal(t, "Go", quiz.Topic)
	require.Len(t, quiz.Questions, 1)
	require.Len(t, quiz.Questions[0].Options, 4)

	stored := st.QuizzesByUser("u1")
	require.Len(t, stored, 1)

	score := stored[0].Score(map[string]string{"What is a goroutine?": "A lightweight thread"})
	require.Equal(t, 1, score)
	require.Zero(t, stored[0].Score(nil), "unanswered questions count as incorrect")

	u, _ := st.UserByID("u1")
	require.Equal(t, 1, u.Usage.Quizzes)
	require.Equal(t, "Generated Quiz", st.Activity()[0].Action)
}

func TestGenerateQuizMalformedOutput(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"text":"not json at all"}`), nil
	})
	seedUser(st, "u1", false)
	maker := NewQuizMaker(deps)

	_, err := maker.Generate(context.Background(), "u1", "Go", 1)
	require.ErrorIs(t, err, domain.ErrProviderFailure)
	require.Empty(t, st.QuizzesByUser("u1"))

	u, _ := st.UserByID("u1")
	require.Zero(t, u.Usage.Quizzes)
}
