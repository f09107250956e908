package app

import (
	"context"
	"log/slog"
	"time"

	"onewordstory/internal/archive"
	"onewordstory/internal/domain"
	"onewordstory/internal/narration"
)

// FinalizationResult is what a completed pipeline run hands back to
// the engine: the narration clips and the total presentation window.
type FinalizationResult struct {
	TitleAsset narration.Asset `json:"title"`
	StoryAsset narration.Asset `json:"story"`
	Total      time.Duration   `json:"-"`
}

// FinalizedPayload is the `f` packet body: the next story index, when
// writing reopens, and the narration clips to play meanwhile.
type FinalizedPayload struct {
	StoryIndex   int64           `json:"storyIndex"`
	ActivateAtMs int64           `json:"activateAt"`
	Title        narration.Asset `json:"title"`
	Story        narration.Asset `json:"story"`
}

// Finalizer consumes a completed story snapshot and produces the
// narration assets and presentation window for the cooldown.
type Finalizer interface {
	Finalize(ctx context.Context, snap domain.StorySnapshot) FinalizationResult
}

// Pipeline is the production Finalizer: compress, archive with retry,
// narrate best-effort, negotiate the presentation duration.
type Pipeline struct {
	archive         *archive.Client
	narration       *narration.Client
	voices          *VoicePool
	clipBuffer      time.Duration
	maxPresentation time.Duration
	logger          *slog.Logger
}

// NewPipeline creates a finalization pipeline
func NewPipeline(archiveClient *archive.Client, narrationClient *narration.Client, voices *VoicePool, clipBuffer, maxPresentation time.Duration, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		archive:         archiveClient,
		narration:       narrationClient,
		voices:          voices,
		clipBuffer:      clipBuffer,
		maxPresentation: maxPresentation,
		logger:          logger,
	}
}

// Finalize runs the pipeline to completion. Archive submission retries
// until acknowledged (or the configured cap); narration failures
// degrade to zero-duration placeholders instead of blocking.
func (p *Pipeline) Finalize(ctx context.Context, snap domain.StorySnapshot) FinalizationResult {
	payload, err := archive.EncodeStory(snap)
	if err != nil {
		// Marshalling plain arrays cannot realistically fail; an empty
		// payload still lets the rotation proceed.
		p.logger.Error("story encoding failed", "index", snap.Index, "error", err)
	}

	submission := archive.SubmitRequest{
		Index:     snap.Index,
		Title:     snap.Title(),
		StartedAt: snap.StartedAt.UnixMilli(),
		Payload:   payload,
	}
	if err := p.archive.SubmitStory(ctx, submission); err != nil {
		p.logger.Error("story archival gave up", "index", snap.Index, "error", err)
	} else {
		p.logger.Info("story archived", "index", snap.Index, "words", len(snap.Entries))
	}

	voice := p.voices.Pick()
	titleAsset := p.narrate(ctx, snap.Title(), voice)
	storyAsset := p.narrate(ctx, snap.Text(), voice)

	total := titleAsset.Duration() + storyAsset.Duration() + p.clipBuffer
	if total > p.maxPresentation {
		total = p.maxPresentation
	}

	return FinalizationResult{
		TitleAsset: titleAsset,
		StoryAsset: storyAsset,
		Total:      total,
	}
}

// narrate fetches one clip, degrading to a silent placeholder on any
// failure.
func (p *Pipeline) narrate(ctx context.Context, text, voice string) narration.Asset {
	if text == "" {
		return narration.Asset{Voice: voice}
	}
	asset, err := p.narration.Fetch(ctx, text, voice)
	if err != nil {
		p.logger.Warn("narration degraded to silence", "voice", voice, "error", err)
		return narration.Asset{Voice: voice}
	}
	return asset
}
