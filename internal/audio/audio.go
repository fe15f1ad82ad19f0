package audio

import (
	"context"
	"fmt"

	"github.com/romabozhanovgithub/callyfy/internal/pipeline"
	"github.com/romabozhanovgithub/callyfy/internal/store"
)

// StartCapture opens the live audio stream for a meeting.
func (a *implAudio) StartCapture(ctx context.Context, meetingID string) error {
	if err := a.capture.StartStream(ctx, meetingID); err != nil {
		return pipeline.Fail(pipeline.StageCapture, err)
	}
	return nil
}

// StopCapture closes the live audio stream for a meeting.
func (a *implAudio) StopCapture(ctx context.Context, meetingID string) error {
	if err := a.capture.StopStream(ctx, meetingID); err != nil {
		return pipeline.Fail(pipeline.StageCapture, err)
	}
	return nil
}

// ProcessLiveChunk transcribes one raw audio chunk, attaches the
// resulting segment to the meeting, and commits it. Chunks are
// independent of each other; ordering is the caller's delivery order.
func (a *implAudio) ProcessLiveChunk(ctx context.Context, meetingID string, chunk []byte) (*store.TranscriptSegment, error) {
	segment, err := a.recognizer.TranscribeChunk(ctx, chunk)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageInference, fmt.Errorf("transcribe chunk: %w", err))
	}
	segment.MeetingID = meetingID

	uow, err := a.store.Begin(ctx)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}
	defer uow.Rollback()

	if err := uow.Add(ctx, segment); err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}

	a.logger.Debug(ctx, "Persisted live segment %s for meeting %s", segment.ID, meetingID)
	return segment, nil
}

// RecordFullAudio captures a full session recording to destination and
// persists the raw audio artifact referencing it.
func (a *implAudio) RecordFullAudio(ctx context.Context, meetingID, destination string) (*store.RawAudioArtifact, error) {
	if err := a.capture.RecordRaw(ctx, meetingID, destination); err != nil {
		return nil, pipeline.Fail(pipeline.StageCapture, fmt.Errorf("record raw audio: %w", err))
	}

	artifact := &store.RawAudioArtifact{
		MeetingID: meetingID,
		FilePath:  destination,
	}

	uow, err := a.store.Begin(ctx)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}
	defer uow.Rollback()

	if err := uow.Add(ctx, artifact); err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}

	a.logger.Info(ctx, "Recorded raw audio for meeting %s: %s", meetingID, destination)
	return artifact, nil
}

// PostProcess transcribes a full recording into an ordered sequence of
// segments and persists them in one batch commit. Either every segment
// is committed or none are.
func (a *implAudio) PostProcess(ctx context.Context, artifact *store.RawAudioArtifact) ([]store.TranscriptSegment, error) {
	segments, err := a.recognizer.TranscribeFile(ctx, artifact.FilePath)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageInference, fmt.Errorf("transcribe file: %w", err))
	}

	uow, err := a.store.Begin(ctx)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}
	defer uow.Rollback()

	for i := range segments {
		segments[i].MeetingID = artifact.MeetingID
		if err := uow.Add(ctx, &segments[i]); err != nil {
			return nil, pipeline.Fail(pipeline.StagePersistence, err)
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, pipeline.Fail(pipeline.StagePersistence, err)
	}

	a.logger.Info(ctx, "Post-processed %s: %d segments", artifact.FilePath, len(segments))
	return segments, nil
}
