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

// Toolkit hosts the small design helpers: color palettes and CSS gradients.
// Both return plain color lists through structured output.
type Toolkit struct {
	store   *store.Store
	gateway *gateway.Client
	logger  infra.Logger
	model   string
}

// NewToolkit wires the design toolkit orchestrator.
func NewToolkit(deps Deps) *Toolkit {
	return &Toolkit{store: deps.Store, gateway: deps.Gateway, logger: deps.Logger, model: deps.Models.Text}
}

var colorListSchema = &gateway.Schema{
	Type:  "ARRAY",
	Items: &gateway.Schema{Type: "STRING"},
}

// Palette generates five hex colors matching the theme.
func (t *Toolkit) Palette(ctx context.Context, userID, theme string) ([]string, error) {
	colors, err := t.colors(ctx, userID,
		fmt.Sprintf("Generate a five-color palette for the theme %q. Return hex color codes like #1A2B3C.", theme),
		theme, "Generated Palette")
	if err != nil {
		return nil, err
	}
	return colors, nil
}

// Gradient generates two or three hex color stops for a CSS gradient.
func (t *Toolkit) Gradient(ctx context.Context, userID, mood string) ([]string, error) {
	colors, err := t.colors(ctx, userID,
		fmt.Sprintf("Generate three hex color stops for a smooth CSS gradient evoking %q. Return hex color codes like #1A2B3C.", mood),
		mood, "Generated Gradient")
	if err != nil {
		return nil, err
	}
	return colors, nil
}

func (t *Toolkit) colors(ctx context.Context, userID, prompt, subject, action string) ([]string, error) {
	user, err := activeUser(t.store, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("empty theme: %w", domain.ErrInvalidInput)
	}

	result, err := t.gateway.GenerateContent(ctx, t.model, gateway.ContentPayload{
		Contents: prompt,
		Config: &gateway.GenerateConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   colorListSchema,
		},
	})
	if err != nil {
		return nil, providerErr("generate colors", err)
	}

	var colors []string
	if err := json.Unmarshal([]byte(result.Text), &colors); err != nil {
		return nil, providerErr("generate colors", fmt.Errorf("malformed structured output: %v", err))
	}
	if len(colors) == 0 {
		return nil, providerErr("generate colors", fmt.Errorf("no colors returned"))
	}

	recordSuccess(t.store, user.ID, func(u *domain.User) { u.Usage.Toolkit++ }, action, subject)
	return colors, nil
}
