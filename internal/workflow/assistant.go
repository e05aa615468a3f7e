package workflow

import (
	"context"
	"fmt"
	"strings"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
	"creativesuite/internal/infra"
	"creativesuite/internal/policy"
	"creativesuite/internal/store"
)

// AssistantTask names the code-assistant operations.
type AssistantTask string

const (
	TaskExplain   AssistantTask = "explain"
	TaskOptimize  AssistantTask = "optimize"
	TaskDebug     AssistantTask = "debug"
	TaskTranslate AssistantTask = "translate"
)

// Assistant runs code-focused text generations. Translation between languages
// is a premium tool; the rest are open to every active account.
type Assistant struct {
	store   *store.Store
	gateway *gateway.Client
	logger  infra.Logger
	model   string
}

// NewAssistant wires the code assistant orchestrator.
func NewAssistant(deps Deps) *Assistant {
	return &Assistant{store: deps.Store, gateway: deps.Gateway, logger: deps.Logger, model: deps.Models.Text}
}

// Run executes one assistant task over the submitted code. targetLanguage is
// only consulted for translation.
func (a *Assistant) Run(ctx context.Context, userID string, task AssistantTask, code, targetLanguage string) (string, error) {
	user, err := activeUser(a.store, userID)
	if err != nil {
		return "", err
	}
	if task == TaskTranslate {
		if err := policy.RequirePremium(user, policy.FeatureCodeTranslation); err != nil {
			return "", denialErr(err)
		}
	}
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("empty code: %w", domain.ErrInvalidInput)
	}

	prompt, err := assistantPrompt(task, code, targetLanguage)
	if err != nil {
		return "", err
	}
	result, err := a.gateway.GenerateContent(ctx, a.model, gateway.ContentPayload{Contents: prompt})
	if err != nil {
		return "", providerErr(string(task), err)
	}
	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", providerErr(string(task), fmt.Errorf("empty result"))
	}

	recordSuccess(a.store, user.ID, func(u *domain.User) { u.Usage.CSAssistant++ }, "Used Code Assistant", string(task))
	return text, nil
}

func assistantPrompt(task AssistantTask, code, targetLanguage string) (string, error) {
	switch task {
	case TaskExplain:
		return "Explain what the following code does, step by step:\n\n" + code, nil
	case TaskOptimize:
		return "Optimize the following code for readability and performance. Return the improved code with a short note on what changed:\n\n" + code, nil
	case TaskDebug:
		return "Find and fix the bugs in the following code. Return the corrected code and describe each fix:\n\n" + code, nil
	case TaskTranslate:
		if strings.TrimSpace(targetLanguage) == "" {
			return "", fmt.Errorf("missing target language: %w", domain.ErrInvalidInput)
		}
		return fmt.Sprintf("Translate the following code to %s. Return only the translated code:\n\n%s", targetLanguage, code), nil
	default:
		return "", fmt.Errorf("unknown assistant task %q: %w", task, domain.ErrInvalidInput)
	}
}
