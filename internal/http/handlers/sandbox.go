package handlers

import (
	"net/http"

	"creativesuite/internal/workflow"
)

type sandboxGenerateRequest struct {
	Prompt string `json:"prompt"`
}

func (a *App) GenerateSandbox(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req sandboxGenerateRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	project, err := a.Sandbox.Generate(r.Context(), user.ID, req.Prompt)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, project)
}

// ExportSandbox returns the project as a downloadable zip archive.
func (a *App) ExportSandbox(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var project workflow.SandboxProject
	if err := a.decode(r, &project); err != nil {
		a.fail(w, err)
		return
	}

	archive, err := a.Sandbox.ExportZip(user.ID, project)
	if err != nil {
		a.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="sandbox-project.zip"`)
	_, _ = w.Write(archive)
}
