package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
	"creativesuite/internal/infra"
	"creativesuite/internal/policy"
	"creativesuite/internal/store"
	"creativesuite/pkg/zip"
)

// SandboxProject is one generated three-file web experiment.
type SandboxProject struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Sandbox generates small self-contained web apps through schema-constrained
// structured output. Generation and ZIP export are premium-only tools.
type Sandbox struct {
	store   *store.Store
	gateway *gateway.Client
	logger  infra.Logger
	model   string
}

// NewSandbox wires the sandbox orchestrator.
func NewSandbox(deps Deps) *Sandbox {
	return &Sandbox{store: deps.Store, gateway: deps.Gateway, logger: deps.Logger, model: deps.Models.Text}
}

var sandboxSchema = &gateway.Schema{
	Type: "OBJECT",
	Properties: map[string]*gateway.Schema{
		"html": {Type: "STRING"},
		"css":  {Type: "STRING"},
		"js":   {Type: "STRING"},
	},
	Required: []string{"html", "css", "js"},
}

// Generate produces a complete html/css/js project for the prompt.
func (s *Sandbox) Generate(ctx context.Context, userID, prompt string) (SandboxProject, error) {
	user, err := activeUser(s.store, userID)
	if err != nil {
		return SandboxProject{}, err
	}
	if err := policy.RequirePremium(user, policy.FeatureSandboxAI); err != nil {
		return SandboxProject{}, denialErr(err)
	}
	if strings.TrimSpace(prompt) == "" {
		return SandboxProject{}, fmt.Errorf("empty prompt: %w", domain.ErrInvalidInput)
	}

	result, err := s.gateway.GenerateContent(ctx, s.model, gateway.ContentPayload{
		Contents: "Build a small self-contained web app: " + prompt +
			"\nReturn the HTML body markup, the CSS and the JavaScript as separate fields.",
		Config: &gateway.GenerateConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   sandboxSchema,
		},
	})
	if err != nil {
		return SandboxProject{}, providerErr("generate sandbox app", err)
	}

	var project SandboxProject
	if err := json.Unmarshal([]byte(result.Text), &project); err != nil {
		return SandboxProject{}, providerErr("generate sandbox app", fmt.Errorf("malformed structured output: %v", err))
	}
	if project.HTML == "" && project.CSS == "" && project.JS == "" {
		return SandboxProject{}, providerErr("generate sandbox app", fmt.Errorf("empty project"))
	}

	s.store.LogActivity(user, "Generated Sandbox App", prompt)
	return project, nil
}

// ExportZip packs a project into the standard three-file archive layout.
func (s *Sandbox) ExportZip(userID string, project SandboxProject) ([]byte, error) {
	user, err := activeUser(s.store, userID)
	if err != nil {
		return nil, err
	}
	if err := policy.RequirePremium(user, policy.FeatureZipExport); err != nil {
		return nil, denialErr(err)
	}

	archive, err := zip.ArchiveAssets([]zip.Asset{
		{Filename: "index.html", MIME: "text/html", Data: []byte(project.HTML)},
		{Filename: "style.css", MIME: "text/css", Data: []byte(project.CSS)},
		{Filename: "script.js", MIME: "text/javascript", Data: []byte(project.JS)},
	})
	if err != nil {
		return nil, fmt.Errorf("archive sandbox project: %w", err)
	}

	if u, ok := s.store.UserByID(user.ID); ok {
		s.store.LogActivity(u, "Exported Sandbox App", "ZIP download")
	}
	return archive, nil
}
