// Package gateway is the typed client for the provider proxy. The provider
// credential never appears here; the proxy attaches it server-side. The
// client performs no retries: retry policy belongs to the workflows.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"creativesuite/internal/infra"
)

// Proxy actions. These are the only operations the network boundary accepts.
const (
	ActionGenerateContent       = "generateContent"
	ActionGenerateContentStream = "generateContentStream"
	ActionGenerateImages        = "generateImages"
	ActionGenerateVideos        = "generateVideos"
	ActionGetVideosOperation    = "getVideosOperation"
	ActionFetchVideo            = "fetchVideo"
)

// Options controls how the gateway client is configured.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client issues typed requests against the proxy endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type envelope struct {
	Action  string `json:"action"`
	Model   string `json:"model"`
	Payload any    `json:"payload"`
}

type proxyError struct {
	Error string `json:"error"`
}

// NewClient constructs a gateway client. Callers may provide a nil HTTP
// client; a reusable one without a global timeout is created so streams and
// long polls are not cut off.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("gateway: base URL is required")
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 0}
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{baseURL: baseURL, httpClient: client, logger: logger}, nil
}

// GenerateContent performs a unary text generation call.
func (c *Client) GenerateContent(ctx context.Context, model string, payload ContentPayload) (*ContentResult, error) {
	var result ContentResult
	if err := c.call(ctx, ActionGenerateContent, model, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateContentStream opens a streaming text generation call. The caller
// must Close the returned stream.
func (c *Client) GenerateContentStream(ctx context.Context, model string, payload ContentPayload) (*Stream, error) {
	resp, err := c.post(ctx, ActionGenerateContentStream, model, payload)
	if err != nil {
		return nil, err
	}
	return newStream(resp.Body), nil
}

// GenerateImages produces one or more images for a prompt.
func (c *Client) GenerateImages(ctx context.Context, model string, payload ImagePayload) (*ImagesResult, error) {
	var result ImagesResult
	if err := c.call(ctx, ActionGenerateImages, model, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateVideos submits a video job and returns its long-running-operation
// handle; the job is not complete yet.
func (c *Client) GenerateVideos(ctx context.Context, model string, payload VideoPayload) (Operation, error) {
	var op Operation
	if err := c.call(ctx, ActionGenerateVideos, model, payload, &op); err != nil {
		return Operation{}, err
	}
	return op, nil
}

// GetVideosOperation refreshes an operation handle; callers inspect Done.
func (c *Client) GetVideosOperation(ctx context.Context, model string, op Operation) (Operation, error) {
	var refreshed Operation
	payload := map[string]any{"operation": op}
	if err := c.call(ctx, ActionGetVideosOperation, model, payload, &refreshed); err != nil {
		return Operation{}, err
	}
	return refreshed, nil
}

// FetchVideo materializes a completed video's bytes from its locator.
func (c *Client) FetchVideo(ctx context.Context, model, downloadLink string) ([]byte, error) {
	resp, err := c.post(ctx, ActionFetchVideo, model, map[string]string{"downloadLink": downloadLink})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read video body: %w", err)
	}
	return data, nil
}

func (c *Client) call(ctx context.Context, action, model string, payload, out any) error {
	start := time.Now()
	resp, err := c.post(ctx, action, model, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	c.logger.Debug().
		Str("action", action).
		Str("model", model).
		Dur("elapsed", time.Since(start)).
		Msg("gateway: call completed")
	return nil
}

// post sends the proxy envelope and returns the raw response with a success
// status; any non-success status is folded into a single error value.
func (c *Client) post(ctx context.Context, action, model string, payload any) (*http.Response, error) {
	body, err := json.Marshal(envelope{Action: action, Model: model, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", action, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		var apiErr proxyError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s status %d: %s", action, resp.StatusCode, apiErr.Error)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return nil, fmt.Errorf("%s status %d: %s", action, resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return nil, fmt.Errorf("%s status %d", action, resp.StatusCode)
	}
	return resp, nil
}
