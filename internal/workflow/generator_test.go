package workflow

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
)

func TestGenerateImagesPublishesAndCounts(t *testing.T) {
	imageB64 := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		require.Equal(t, gateway.ActionGenerateImages, action)
		require.Equal(t, "image-model", model)
		return jsonResponse(http.StatusOK, fmt.Sprintf(
			`{"generatedImages":[{"image":{"imageBytes":%q}},{"image":{"imageBytes":%q}}]}`, imageB64, imageB64)), nil
	})
	seedUser(st, "u1", false)
	g := NewGenerator(deps, time.Second)

	items, err := g.GenerateImages(context.Background(), "u1", "a red fox", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, domain.MediaTypeImage, items[0].Type)
	require.True(t, strings.HasPrefix(items[0].URL, "data:image/jpeg;base64,"))

	u, _ := st.UserByID("u1")
	require.Equal(t, 1, u.Usage.Generations, "one generation per call regardless of image count")
	require.Len(t, st.GalleryItems(), 2)
	require.Equal(t, "Generated Image", st.Activity()[0].Action)
}

func TestGenerateImagesFailureLeavesCountersAlone(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"error":"upstream exploded"}`), nil
	})
	seedUser(st, "u1", false)
	g := NewGenerator(deps, time.Second)

	_, err := g.GenerateImages(context.Background(), "u1", "a red fox", 1)
	require.ErrorIs(t, err, domain.ErrProviderFailure)

	u, _ := st.UserByID("u1")
	require.Zero(t, u.Usage.Generations)
	require.Zero(t, st.ActivityLen())
	require.Empty(t, st.GalleryItems())
}

func TestGenerateImagesQuotaDenied(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		t.Fatal("provider must not be called past the quota")
		return nil, nil
	})
	u := seedUser(st, "u1", false)
	u.Usage.Generations = 100
	st.SaveUser(u)
	g := NewGenerator(deps, time.Second)

	_, err := g.GenerateImages(context.Background(), "u1", "x", 1)
	require.ErrorIs(t, err, domain.ErrPremiumRequired)
}

func TestGenerateVideoPollsThenFetchesOnce(t *testing.T) {
	polls := 0
	fetches := 0
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		switch action {
		case gateway.ActionGenerateVideos:
			return jsonResponse(http.StatusOK, `{"name":"operations/v1","done":false}`), nil
		case gateway.ActionGetVideosOperation:
			polls++
			if polls < 3 {
				return jsonResponse(http.StatusOK, `{"name":"operations/v1","done":false}`), nil
			}
			return jsonResponse(http.StatusOK,
				`{"name":"operations/v1","done":true,"response":{"generatedVideos":[{"video":{"uri":"files/v1"}}]}}`), nil
		case gateway.ActionFetchVideo:
			fetches++
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"video/mp4"}},
				Body:       http.NoBody,
			}, nil
		default:
			t.Fatalf("unexpected action %q", action)
			return nil, nil
		}
	})
	seedUser(st, "u1", true)

	g := NewGenerator(deps, 10*time.Second)
	g.sleep = func(ctx context.Context, d time.Duration) error {
		require.Equal(t, 10*time.Second, d)
		return nil
	}

	var phases []VideoPhase
	item, err := g.GenerateVideo(context.Background(), "u1", "a storm at sea", func(p VideoProgress) {
		phases = append(phases, p.Phase)
	})
	require.NoError(t, err)
	require.Equal(t, domain.MediaTypeVideo, item.Type)

	require.Equal(t, 3, polls)
	require.Equal(t, 1, fetches, "finished video must be downloaded exactly once")
	require.Equal(t, VideoPhaseSubmitted, phases[0])
	require.Equal(t, VideoPhaseReady, phases[len(phases)-1])
	require.Contains(t, phases, VideoPhasePolling)
	require.Contains(t, phases, VideoPhaseFetching)

	u, _ := st.UserByID("u1")
	require.Equal(t, 1, u.Usage.Generations)
	require.Equal(t, "Generated Video", st.Activity()[0].Action)
}

func TestGenerateVideoFreeUserDenied(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		t.Fatal("provider must not be called for a free user")
		return nil, nil
	})
	seedUser(st, "u1", false)
	g := NewGenerator(deps, time.Second)

	_, err := g.GenerateVideo(context.Background(), "u1", "x", nil)
	require.ErrorIs(t, err, domain.ErrPremiumRequired)
}

func TestGenerateVideoOperationError(t *testing.T) {
	deps, st := newTestDeps(t, func(action, model string, payload json.RawMessage) (*http.Response, error) {
		switch action {
		case gateway.ActionGenerateVideos:
			return jsonResponse(http.StatusOK, `{"name":"operations/v1","done":false}`), nil
		default:
			return jsonResponse(http.StatusOK, `{"name":"operations/v1","done":true,"error":{"message":"render farm on fire"}}`), nil
		}
	})
	seedUser(st, "u1", true)
	g := NewGenerator(deps, time.Second)
	g.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	var last VideoProgress
	_, err := g.GenerateVideo(context.Background(), "u1", "x", func(p VideoProgress) { last = p })
	require.ErrorIs(t, err, domain.ErrProviderFailure)
	require.True(t, errors.Is(err, domain.ErrProviderFailure))
	require.Equal(t, VideoPhaseFailed, last.Phase)

	u, _ := st.UserByID("u1")
	require.Zero(t, u.Usage.Generations)
}

func TestWaitMessageRotation(t *testing.T) {
	first := waitMessage(0)
	require.Contains(t, first, videoStatusLines[0])
	require.Contains(t, first, "(0s)")

	later := waitMessage(95 * time.Second)
	require.Contains(t, later, videoStatusLines[3])
	require.Contains(t, later, "(95s)")

	wrapped := waitMessage(160 * time.Second)
	require.Contains(t, wrapped, videoStatusLines[0], "rotation wraps after the last line")
}
