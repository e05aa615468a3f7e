package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, a.Store.QuizzesByUser(user.ID))
}

type generateQuizRequest struct {
	Topic     string `json:"topic"`
	Questions int    `json:"questions"`
}

func (a *App) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req generateQuizRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	quiz, err := a.Quiz.Generate(r.Context(), user.ID, req.Topic, req.Questions)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, quiz)
}

type scoreQuizRequest struct {
	Answers map[string]string `json:"answers"`
}

// ScoreQuiz grades submitted answers against the stored key.
func (a *App) ScoreQuiz(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req scoreQuizRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	for _, quiz := range a.Store.QuizzesByUser(user.ID) {
		if quiz.ID != id {
			continue
		}
		a.json(w, http.StatusOK, map[string]int{
			"score": quiz.Score(req.Answers),
			"total": len(quiz.Questions),
		})
		return
	}
	a.error(w, http.StatusNotFound, "quiz not found")
}
