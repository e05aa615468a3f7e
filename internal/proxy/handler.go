// Package proxy implements the single provider-facing network boundary: a
// POST endpoint accepting {action, model, payload}. The provider credential
// lives only on this side; browsers and the gateway client never see it.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"creativesuite/internal/infra"
)

// Upstream abstracts the generative-AI provider behind the proxy.
type Upstream interface {
	// Invoke performs a unary action and returns the provider JSON verbatim.
	Invoke(ctx context.Context, action, model string, payload json.RawMessage) (json.RawMessage, error)
	// Stream performs a streaming generation, emitting one JSON chunk per call.
	Stream(ctx context.Context, model string, payload json.RawMessage, emit func(chunk json.RawMessage) error) error
	// FetchVideo opens the completed video body behind a download locator.
	FetchVideo(ctx context.Context, downloadLink string) (io.ReadCloser, error)
}

// Handler serves the proxy endpoint.
type Handler struct {
	upstream   Upstream
	configured bool
	logger     infra.Logger
}

// NewHandler wires the proxy. configured=false reproduces the missing-key
// behavior: every request fails with a server error, the process stays up.
func NewHandler(upstream Upstream, configured bool, logger infra.Logger) *Handler {
	return &Handler{upstream: upstream, configured: configured, logger: logger}
}

type proxyRequest struct {
	Action  string          `json:"action"`
	Model   string          `json:"model"`
	Payload json.RawMessage `json:"payload"`
}

type fetchVideoPayload struct {
	DownloadLink string `json:"downloadLink"`
}

// ServeHTTP dispatches one proxy action. Configuration failure is fatal for
// the request only; caught errors become a 500 carrying the error message.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req proxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.configured {
		h.error(w, http.StatusInternalServerError, "API key is not configured on the server.")
		return
	}

	switch req.Action {
	case "generateContent", "generateImages", "generateVideos", "getVideosOperation":
		result, err := h.upstream.Invoke(r.Context(), req.Action, req.Model, req.Payload)
		if err != nil {
			h.fail(w, req.Action, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(result)

	case "generateContentStream":
		h.streamContent(w, r, req)

	case "fetchVideo":
		h.fetchVideo(w, r, req)

	default:
		h.error(w, http.StatusBadRequest, fmt.Sprintf("Unknown action: %s", req.Action))
	}
}

func (h *Handler) streamContent(w http.ResponseWriter, r *http.Request, req proxyRequest) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	flusher, _ := w.(http.Flusher)

	wrote := false
	err := h.upstream.Stream(r.Context(), req.Model, req.Payload, func(chunk json.RawMessage) error {
		if _, err := w.Write(append(chunk, '\n')); err != nil {
			return err
		}
		wrote = true
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		// Headers may already be on the wire; a clean error status is only
		// possible before the first chunk.
		if !wrote {
			h.fail(w, req.Action, err)
			return
		}
		h.logger.Error().Err(err).Msg("proxy: stream aborted mid-flight")
	}
}

func (h *Handler) fetchVideo(w http.ResponseWriter, r *http.Request, req proxyRequest) {
	var payload fetchVideoPayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil || payload.DownloadLink == "" {
		h.error(w, http.StatusBadRequest, "Download link is missing.")
		return
	}
	body, err := h.upstream.FetchVideo(r.Context(), payload.DownloadLink)
	if err != nil {
		h.fail(w, req.Action, err)
		return
	}
	defer body.Close()
	w.Header().Set("Content-Type", "video/mp4")
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Error().Err(err).Msg("proxy: video copy interrupted")
	}
}

func (h *Handler) fail(w http.ResponseWriter, action string, err error) {
	h.logger.Error().Err(err).Str("action", action).Msg("proxy: action failed")
	h.error(w, http.StatusInternalServerError, err.Error())
}

func (h *Handler) error(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
