package handlers

import (
	"encoding/json"
	"net/http"

	"creativesuite/internal/workflow"
)

type generateImagesRequest struct {
	Prompt string `json:"prompt"`
	Count  int    `json:"count"`
}

func (a *App) GenerateImages(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req generateImagesRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	items, err := a.Generator.GenerateImages(r.Context(), user.ID, req.Prompt, req.Count)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type generateVideoRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateVideo runs the long-running video job while streaming progress
// updates as newline-delimited JSON. The final line carries the gallery item
// or the terminal error.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req generateVideoRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	streamed := false

	item, err := a.Generator.GenerateVideo(r.Context(), user.ID, req.Prompt, func(p workflow.VideoProgress) {
		_ = enc.Encode(p)
		streamed = true
		if flusher != nil {
			flusher.Flush()
		}
	})
	if err != nil {
		if !streamed {
			a.fail(w, err)
			return
		}
		_ = enc.Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = enc.Encode(map[string]any{"item": item})
}
