package proxy

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"creativesuite/internal/infra"
)

// GeminiOptions controls how the Gemini upstream is configured.
type GeminiOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Gemini translates proxy actions into Generative Language REST calls and
// folds the REST replies back into the shapes the gateway client consumes.
type Gemini struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewGemini constructs the upstream. A nil HTTP client gets a reusable one
// without a global timeout; streaming and long-poll calls bound themselves
// through the request context instead.
func NewGemini(opts GeminiOptions) *Gemini {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 0}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &Gemini{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: client,
		logger:     opts.Logger,
	}
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type geminiGenerateRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiGenerateResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// contentPayload is the wire shape the gateway sends for text actions.
// Contents is either a bare prompt string or a transcript of role turns.
type contentPayload struct {
	Contents json.RawMessage `json:"contents"`
	Config   *struct {
		ResponseMIMEType string          `json:"responseMimeType,omitempty"`
		ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
	} `json:"config,omitempty"`
}

type imagePayload struct {
	Prompt string `json:"prompt"`
	Config *struct {
		NumberOfImages int    `json:"numberOfImages,omitempty"`
		OutputMIMEType string `json:"outputMimeType,omitempty"`
	} `json:"config,omitempty"`
}

type videoPayload struct {
	Prompt string `json:"prompt"`
	Config *struct {
		NumberOfVideos int `json:"numberOfVideos,omitempty"`
	} `json:"config,omitempty"`
}

type operationPayload struct {
	Operation struct {
		Name string `json:"name"`
	} `json:"operation"`
}

// Invoke dispatches one unary action.
func (g *Gemini) Invoke(ctx context.Context, action, model string, payload json.RawMessage) (json.RawMessage, error) {
	switch action {
	case "generateContent":
		return g.generateContent(ctx, model, payload)
	case "generateImages":
		return g.generateImages(ctx, model, payload)
	case "generateVideos":
		return g.generateVideos(ctx, model, payload)
	case "getVideosOperation":
		return g.getVideosOperation(ctx, payload)
	default:
		return nil, fmt.Errorf("unsupported action %q", action)
	}
}

func (g *Gemini) generateContent(ctx context.Context, model string, payload json.RawMessage) (json.RawMessage, error) {
	request, err := buildGenerateRequest(payload)
	if err != nil {
		return nil, err
	}

	var response geminiGenerateResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(model))
	if err := g.invoke(ctx, path, request, &response); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]string{"text": joinedText(response)})
}

func (g *Gemini) generateImages(ctx context.Context, model string, payload json.RawMessage) (json.RawMessage, error) {
	var req imagePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	count := 1
	if req.Config != nil && req.Config.NumberOfImages > 0 {
		count = req.Config.NumberOfImages
	}

	body := map[string]any{
		"instances":  []map[string]any{{"prompt": req.Prompt}},
		"parameters": map[string]any{"sampleCount": count},
	}
	var response struct {
		Predictions []struct {
			BytesBase64Encoded string `json:"bytesBase64Encoded"`
			MimeType           string `json:"mimeType"`
		} `json:"predictions"`
	}
	path := fmt.Sprintf("/models/%s:predict", url.PathEscape(model))
	if err := g.invoke(ctx, path, body, &response); err != nil {
		return nil, err
	}

	images := make([]map[string]any, 0, len(response.Predictions))
	for _, p := range response.Predictions {
		images = append(images, map[string]any{
			"image": map[string]string{"imageBytes": p.BytesBase64Encoded},
		})
	}
	return json.Marshal(map[string]any{"generatedImages": images})
}

func (g *Gemini) generateVideos(ctx context.Context, model string, payload json.RawMessage) (json.RawMessage, error) {
	var req videoPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode video payload: %w", err)
	}
	count := 1
	if req.Config != nil && req.Config.NumberOfVideos > 0 {
		count = req.Config.NumberOfVideos
	}

	body := map[string]any{
		"instances":  []map[string]any{{"prompt": req.Prompt}},
		"parameters": map[string]any{"sampleCount": count},
	}
	var response struct {
		Name string `json:"name"`
	}
	path := fmt.Sprintf("/models/%s:predictLongRunning", url.PathEscape(model))
	if err := g.invoke(ctx, path, body, &response); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{"name": response.Name, "done": false})
}

func (g *Gemini) getVideosOperation(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	var req operationPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.Operation.Name == "" {
		return nil, fmt.Errorf("operation name is missing")
	}

	var response struct {
		Name     string `json:"name"`
		Done     bool   `json:"done"`
		Response *struct {
			GenerateVideoResponse *struct {
				GeneratedSamples []struct {
					Video struct {
						URI string `json:"uri"`
					} `json:"video"`
				} `json:"generatedSamples"`
			} `json:"generateVideoResponse"`
		} `json:"response"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	path := "/" + strings.TrimLeft(req.Operation.Name, "/")
	if err := g.invokeGet(ctx, path, &response); err != nil {
		return nil, err
	}

	// Flatten the long-running reply into the operation shape the gateway
	// polls against.
	out := map[string]any{"name": response.Name, "done": response.Done}
	if response.Error != nil {
		out["error"] = map[string]string{"message": response.Error.Message}
	}
	if response.Response != nil && response.Response.GenerateVideoResponse != nil {
		videos := make([]map[string]any, 0, len(response.Response.GenerateVideoResponse.GeneratedSamples))
		for _, s := range response.Response.GenerateVideoResponse.GeneratedSamples {
			videos = append(videos, map[string]any{
				"video": map[string]string{"uri": s.Video.URI},
			})
		}
		out["response"] = map[string]any{"generatedVideos": videos}
	}
	return json.Marshal(out)
}

// Stream runs a streaming generation over SSE and emits one {"text": ...}
// chunk per model fragment.
func (g *Gemini) Stream(ctx context.Context, model string, payload json.RawMessage, emit func(chunk json.RawMessage) error) error {
	request, err := buildGenerateRequest(payload)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/models/%s:streamGenerateContent", url.PathEscape(model))
	endpoint := g.baseURL + path
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := httpReq.URL.Query()
	q.Set("alt", "sse")
	q.Set("key", g.apiKey)
	httpReq.URL.RawQuery = q.Encode()
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return g.decodeError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var event geminiGenerateResponse
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			// Pass unrecognized events through untouched rather than
			// silently dropping model output.
			if err := emit(json.RawMessage(data)); err != nil {
				return err
			}
			continue
		}
		text := joinedText(event)
		if text == "" {
			continue
		}
		chunk, err := json.Marshal(map[string]string{"text": text})
		if err != nil {
			return err
		}
		if err := emit(chunk); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

// FetchVideo opens the finished video bytes behind a download locator. The
// credential is appended here so clients never hold it.
func (g *Gemini) FetchVideo(ctx context.Context, downloadLink string) (io.ReadCloser, error) {
	target := downloadLink
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = g.baseURL + "/" + strings.TrimLeft(target, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download video: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("download video status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return resp.Body, nil
}

func (g *Gemini) invoke(ctx context.Context, path string, payload any, out any) error {
	start := time.Now()
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return g.decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}

	if g.logger != nil {
		g.logger.Debug().
			Str("path", path).
			Dur("elapsed", time.Since(start)).
			Msg("proxy: gemini call completed")
	}
	return nil
}

func (g *Gemini) invokeGet(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return g.decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

// joinedText concatenates every text part across the response candidates.
func joinedText(response geminiGenerateResponse) string {
	var b strings.Builder
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func (g *Gemini) decodeError(resp *http.Response) error {
	var apiErr geminiErrorResponse
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	if len(data) > 0 {
		return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return fmt.Errorf("gemini status %d", resp.StatusCode)
}

// buildGenerateRequest normalizes the two accepted contents shapes, a bare
// prompt string or a role transcript, into a REST generate request.
func buildGenerateRequest(payload json.RawMessage) (*geminiGenerateRequest, error) {
	var req contentPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode content payload: %w", err)
	}

	var contents []geminiContent
	var prompt string
	if err := json.Unmarshal(req.Contents, &prompt); err == nil {
		contents = []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}}
	} else {
		var transcript []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		}
		if err := json.Unmarshal(req.Contents, &transcript); err != nil {
			return nil, fmt.Errorf("decode contents: %w", err)
		}
		for _, turn := range transcript {
			content := geminiContent{Role: turn.Role}
			for _, part := range turn.Parts {
				content.Parts = append(content.Parts, geminiPart{Text: part.Text})
			}
			contents = append(contents, content)
		}
	}

	request := &geminiGenerateRequest{Contents: contents}
	if req.Config != nil && (req.Config.ResponseMIMEType != "" || len(req.Config.ResponseSchema) > 0) {
		request.GenerationConfig = &geminiGenerationConfig{
			ResponseMimeType: req.Config.ResponseMIMEType,
			ResponseSchema:   req.Config.ResponseSchema,
		}
	}
	return request, nil
}
