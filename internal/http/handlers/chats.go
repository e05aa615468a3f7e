package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) ListChats(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, a.Store.ChatSessionsByUser(user.ID))
}

type startChatRequest struct {
	Name    string `json:"name"`
	Persona string `json:"persona"`
}

func (a *App) StartChat(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req startChatRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	session, err := a.Chat.StartSession(user.ID, req.Name, req.Persona)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, session)
}

func (a *App) GetChat(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	session, found := a.Store.ChatSessionByID(chi.URLParam(r, "id"))
	if !found {
		a.error(w, http.StatusNotFound, "chat session not found")
		return
	}
	if session.UserID != user.ID {
		a.error(w, http.StatusForbidden, "not your chat session")
		return
	}
	a.json(w, http.StatusOK, session)
}

type sendChatRequest struct {
	Text string `json:"text"`
}

// SendChat streams the model reply back as newline-delimited JSON chunks,
// each carrying the cumulative reply so far, and closes with the settled
// transcript. The transcript in the store is updated as the stream runs.
func (a *App) SendChat(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w)
	if !ok {
		return
	}
	var req sendChatRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	streamed := false

	session, err := a.Chat.Send(r.Context(), user.ID, chi.URLParam(r, "id"), req.Text, func(cumulative string) {
		_ = enc.Encode(map[string]string{"text": cumulative})
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

	_ = enc.Encode(map[string]any{"session": session})
}
