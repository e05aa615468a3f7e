package domain

import "time"

// QuizQuestion is one multiple-choice question with its correct answer.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Quiz is a generated multiple-choice quiz.
type Quiz struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Score counts answers matching the question key. Unanswered questions count
// as incorrect.
func (q Quiz) Score(answers map[string]string) int {
	score := 0
	for _, question := range q.Questions {
		if answers[question.Question] == question.Answer {
			score++
		}
	}
	return score
}
