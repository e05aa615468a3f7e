package handlers

import (
	"net/http"

	"creativesuite/internal/workflow"
)

type assistantRequest struct {
	Task           workflow.AssistantTask `json:"task"`
	Code           string                 `json:"code"`
	TargetLanguage string                 `json:"targetLanguage"`
}

func (a *App) RunAssistant(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req assistantRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	result, err := a.Assistant.Run(r.Context(), user.ID, req.Task, req.Code, req.TargetLanguage)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"result": result})
}
