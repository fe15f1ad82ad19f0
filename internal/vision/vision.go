package vision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/romabozhanovgithub/callyfy/internal/pipeline"
	"github.com/romabozhanovgithub/callyfy/internal/store"
)

const embeddingExt = ".emb"

// CaptureScreen captures one frame, describes and embeds it, writes the
// embedding next to the image, and persists a single ScreenCapture
// record. The record is only written after the embedding file is on
// disk; any failure before that point leaves no record behind.
func (v *implVision) CaptureScreen(ctx context.Context, meetingID, outputDir string) (*store.ScreenCapture, error) {
	imagePath, err := v.grabber.Capture(ctx, meetingID, outputDir)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageCapture, fmt.Errorf("capture screen: %w", err))
	}

	description, err := v.vlm.Describe(ctx, imagePath)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageInference, fmt.Errorf("describe image: %w", err))
	}

	embedding, err := v.vlm.Embed(ctx, imagePath, description)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageInference, fmt.Errorf("embed image: %w", err))
	}

	stem := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	embeddingsPath := filepath.Join(outputDir, stem+embeddingExt)
	if err := os.WriteFile(embeddingsPath, embedding, 0644); err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, fmt.Errorf("write embedding: %w", err))
	}

	capture := &store.ScreenCapture{
		MeetingID:      meetingID,
		ImagePath:      imagePath,
		Description:    &description,
		EmbeddingsPath: &embeddingsPath,
	}

	uow, err := v.store.Begin(ctx)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}
	defer uow.Rollback()

	if err := uow.Add(ctx, capture); err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}

	v.logger.Debug(ctx, "Persisted screen capture %s for meeting %s", capture.ID, meetingID)
	return capture, nil
}
