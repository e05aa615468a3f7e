package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
	"creativesuite/internal/infra"
	"creativesuite/internal/store"
)

// QuizMaker generates multiple-choice quizzes through schema-constrained
// structured output and stores them for later scoring.
type QuizMaker struct {
	store   *store.Store
	gateway *gateway.Client
	logger  infra.Logger
	model   string
}

// NewQuizMaker wires the quiz orchestrator.
func NewQuizMaker(deps Deps) *QuizMaker {
	return &QuizMaker{store: deps.Store, gateway: deps.Gateway, logger: deps.Logger, model: deps.Models.Text}
}

var quizSchema = &gateway.Schema{
	Type: "OBJECT",
	Properties: map[string]*gateway.Schema{
		"topic": {Type: "STRING"},
		"questions": {
			Type: "ARRAY",
			Items: &gateway.Schema{
				Type: "OBJECT",
				Properties: map[string]*gateway.Schema{
					"question": {Type: "STRING"},
					"options":  {Type: "ARRAY", Items: &gateway.Schema{Type: "STRING"}},
					"answer":   {Type: "STRING"},
				},
				Required: []string{"question", "options", "answer"},
			},
		},
	},
	Required: []string{"topic", "questions"},
}

// Generate produces and saves a quiz on the topic.
func (q *QuizMaker) Generate(ctx context.Context, userID, topic string, questions int) (domain.Quiz, error) {
	user, err := activeUser(q.store, userID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if strings.TrimSpace(topic) == "" {
		return domain.Quiz{}, fmt.Errorf("empty topic: %w", domain.ErrInvalidInput)
	}
	if questions <= 0 {
		questions = 5
	}

	result, err := q.gateway.GenerateContent(ctx, q.model, gateway.ContentPayload{
		Contents: fmt.Sprintf(
			"Create a %d-question multiple-choice quiz about %q. Each question has exactly four options and the answer must match one option verbatim.",
			questions, topic),
		Config: &gateway.GenerateConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   quizSchema,
		},
	})
	if err != nil {
		return domain.Quiz{}, providerErr("generate quiz", err)
	}

	var decoded struct {
		Topic     string                `json:"topic"`
		Questions []domain.QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(result.Text), &decoded); err != nil {
		return domain.Quiz{}, providerErr("generate quiz", fmt.Errorf("malformed structured output: %v", err))
	}
	if len(decoded.Questions) == 0 {
		return domain.Quiz{}, providerErr("generate quiz", fmt.Errorf("no questions returned"))
	}
	if decoded.Topic == "" {
		decoded.Topic = topic
	}

	quiz := domain.Quiz{
		ID:        store.NewID(),
		UserID:    user.ID,
		Topic:     decoded.Topic,
		Questions: decoded.Questions,
		CreatedAt: q.store.Now(),
	}
	q.store.SaveQuiz(quiz)

	recordSuccess(q.store, user.ID, func(u *domain.User) { u.Usage.Quizzes++ }, "Generated Quiz", decoded.Topic)
	return quiz, nil
}
