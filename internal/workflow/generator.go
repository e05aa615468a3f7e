package workflow

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
	"creativesuite/internal/infra"
	"creativesuite/internal/policy"
	"creativesuite/internal/store"
)

// VideoPhase tracks where a video job is in its lifecycle.
type VideoPhase string

const (
	VideoPhaseSubmitted VideoPhase = "submitted"
	VideoPhasePolling   VideoPhase = "polling"
	VideoPhaseFetching  VideoPhase = "fetching"
	VideoPhaseReady     VideoPhase = "ready"
	VideoPhaseFailed    VideoPhase = "failed"
)

// VideoProgress is one observable status update from a running video job.
type VideoProgress struct {
	Phase   VideoPhase `json:"phase"`
	Message string     `json:"message"`
}

// videoStatusLines rotate while a job renders so long waits never look stuck.
var videoStatusLines = [...]string{
	"Warming up the video engines...",
	"Gathering creative pixels...",
	"Directing the digital scenes...",
	"Rendering your frames...",
	"Adding the final polish...",
}

// Generator produces gallery media: single-shot images and long-running
// videos. Video jobs poll the provider until the operation reports done and
// download the result exactly once.
type Generator struct {
	store     *store.Store
	gateway   *gateway.Client
	logger    infra.Logger
	models    Models
	pollEvery time.Duration

	// sleep is swappable so tests can run the poll loop without real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGenerator wires a media generator. pollEvery at or below zero falls back
// to the provider-recommended ten seconds.
func NewGenerator(deps Deps, pollEvery time.Duration) *Generator {
	if pollEvery <= 0 {
		pollEvery = 10 * time.Second
	}
	return &Generator{
		store:     deps.Store,
		gateway:   deps.Gateway,
		logger:    deps.Logger,
		models:    deps.Models,
		pollEvery: pollEvery,
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// GenerateImages runs one image generation and publishes the results to the
// gallery. The usage counter moves once per call regardless of image count.
func (g *Generator) GenerateImages(ctx context.Context, userID, prompt string, count int) ([]domain.GalleryItem, error) {
	user, err := activeUser(g.store, userID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanGenerate(user); err != nil {
		return nil, denialErr(err)
	}
	if count <= 0 {
		count = 1
	}

	result, err := g.gateway.GenerateImages(ctx, g.models.Image, gateway.ImagePayload{
		Prompt: prompt,
		Config: &gateway.ImageConfig{NumberOfImages: count, OutputMIMEType: "image/jpeg"},
	})
	if err != nil {
		return nil, providerErr("generate images", err)
	}
	if len(result.GeneratedImages) == 0 {
		return nil, providerErr("generate images", fmt.Errorf("no images returned"))
	}

	items := make([]domain.GalleryItem, 0, len(result.GeneratedImages))
	for _, img := range result.GeneratedImages {
		item := domain.GalleryItem{
			ID:        store.NewID(),
			Type:      domain.MediaTypeImage,
			URL:       "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img.Image.ImageBytes),
			Prompt:    prompt,
			UserName:  user.Name,
			UserID:    user.ID,
			CreatedAt: g.store.Now(),
		}
		g.store.SaveGalleryItem(item)
		items = append(items, item)
	}

	recordSuccess(g.store, user.ID, func(u *domain.User) { u.Usage.Generations++ }, "Generated Image", prompt)
	g.logger.Info().Str("user_id", user.ID).Int("count", len(items)).Msg("generator: images published")
	return items, nil
}

// GenerateVideo runs the full video lifecycle: submit, poll until done, fetch
// the finished bytes once, publish to the gallery. progress may be nil; when
// set it receives every phase transition and each rotating wait message.
func (g *Generator) GenerateVideo(ctx context.Context, userID, prompt string, progress func(VideoProgress)) (domain.GalleryItem, error) {
	user, err := activeUser(g.store, userID)
	if err != nil {
		return domain.GalleryItem{}, err
	}
	if err := policy.CanGenerateVideo(user); err != nil {
		return domain.GalleryItem{}, denialErr(err)
	}

	report := func(phase VideoPhase, message string) {
		if progress != nil {
			progress(VideoProgress{Phase: phase, Message: message})
		}
	}

	report(VideoPhaseSubmitted, videoStatusLines[0])
	op, err := g.gateway.GenerateVideos(ctx, g.models.Video, gateway.VideoPayload{
		Prompt: prompt,
		Config: &gateway.VideoConfig{NumberOfVideos: 1},
	})
	if err != nil {
		report(VideoPhaseFailed, "Video generation failed to start.")
		return domain.GalleryItem{}, providerErr("generate video", err)
	}

	waited := time.Duration(0)
	for !op.Done {
		report(VideoPhasePolling, waitMessage(waited))
		if err := g.sleep(ctx, g.pollEvery); err != nil {
			report(VideoPhaseFailed, "Video generation was cancelled.")
			return domain.GalleryItem{}, err
		}
		waited += g.pollEvery

		op, err = g.gateway.GetVideosOperation(ctx, g.models.Video, op)
		if err != nil {
			report(VideoPhaseFailed, "Video generation failed while rendering.")
			return domain.GalleryItem{}, providerErr("poll video", err)
		}
	}

	if op.Error != nil {
		report(VideoPhaseFailed, "Video generation failed while rendering.")
		return domain.GalleryItem{}, providerErr("poll video", fmt.Errorf("%s", op.Error.Message))
	}
	uri := op.DownloadURI()
	if uri == "" {
		report(VideoPhaseFailed, "Video generation finished without a result.")
		return domain.GalleryItem{}, providerErr("poll video", fmt.Errorf("operation done without video"))
	}

	report(VideoPhaseFetching, "Downloading your video...")
	data, err := g.gateway.FetchVideo(ctx, g.models.Video, uri)
	if err != nil {
		report(VideoPhaseFailed, "Video download failed.")
		return domain.GalleryItem{}, providerErr("fetch video", err)
	}

	item := domain.GalleryItem{
		ID:        store.NewID(),
		Type:      domain.MediaTypeVideo,
		URL:       "data:video/mp4;base64," + base64.StdEncoding.EncodeToString(data),
		Prompt:    prompt,
		UserName:  user.Name,
		UserID:    user.ID,
		CreatedAt: g.store.Now(),
	}
	g.store.SaveGalleryItem(item)

	recordSuccess(g.store, user.ID, func(u *domain.User) { u.Usage.Generations++ }, "Generated Video", prompt)
	g.logger.Info().Str("user_id", user.ID).Dur("waited", waited).Msg("generator: video published")
	report(VideoPhaseReady, "Your video is ready.")
	return item, nil
}

// waitMessage rotates through the status lines every thirty seconds and tags
// the elapsed wall time so users see the job is alive.
func waitMessage(waited time.Duration) string {
	idx := int(waited/(30*time.Second)) % len(videoStatusLines)
	return fmt.Sprintf("%s (%ds)", videoStatusLines[idx], int(waited.Seconds()))
}
