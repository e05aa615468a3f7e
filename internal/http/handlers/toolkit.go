package handlers

import (
	"net/http"
)

type toolkitRequest struct {
	Theme string `json:"theme"`
}

func (a *App) GeneratePalette(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req toolkitRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	colors, err := a.Toolkit.Palette(r.Context(), user.ID, req.Theme)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string][]string{"colors": colors})
}

func (a *App) GenerateGradient(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req toolkitRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	colors, err := a.Toolkit.Gradient(r.Context(), user.ID, req.Theme)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string][]string{"colors": colors})
}
