package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/romabozhanovgithub/callyfy/internal/logger"
	"github.com/romabozhanovgithub/callyfy/internal/pipeline"
	"github.com/romabozhanovgithub/callyfy/internal/store"
)

type fakeCapture struct {
	recordErr error
}

func (f *fakeCapture) StartStream(ctx context.Context, meetingID string) error { return nil }
func (f *fakeCapture) StopStream(ctx context.Context, meetingID string) error  { return nil }

func (f *fakeCapture) RecordRaw(ctx context.Context, meetingID, destination string) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	return os.WriteFile(destination, []byte("riff"), 0644)
}

type fakeRecognizer struct {
	chunkErr     error
	fileSegments []store.TranscriptSegment
	fileErr      error
}

func (f *fakeRecognizer) TranscribeChunk(ctx context.Context, chunk []byte) (*store.TranscriptSegment, error) {
	if f.chunkErr != nil {
		return nil, f.chunkErr
	}
	now := time.Now()
	return &store.TranscriptSegment{StartedAt: now, EndedAt: now.Add(time.Second), Text: "hello world"}, nil
}

func (f *fakeRecognizer) TranscribeFile(ctx context.Context, path string) ([]store.TranscriptSegment, error) {
	return f.fileSegments, f.fileErr
}

func newTestPipeline(t *testing.T, capture *fakeCapture, rec *fakeRecognizer) (Audio, *store.Store, *store.Meeting) {
	t.Helper()

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	uow, err := st.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	m := &store.Meeting{Title: "Standup"}
	if err := uow.Add(ctx, m); err != nil {
		t.Fatal(err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatal(err)
	}

	return New(capture, rec, st, logger.Nop()), st, m
}

func TestProcessLiveChunk(t *testing.T) {
	a, st, m := newTestPipeline(t, &fakeCapture{}, &fakeRecognizer{})
	ctx := context.Background()

	seg, err := a.ProcessLiveChunk(ctx, m.ID, []byte("pcm"))
	if err != nil {
		t.Fatalf("ProcessLiveChunk: %v", err)
	}
	if seg.MeetingID != m.ID {
		t.Errorf("segment meeting = %q, want %q", seg.MeetingID, m.ID)
	}

	persisted, err := st.TranscriptsForMeeting(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(persisted) != 1 {
		t.Errorf("got %d persisted segments, want 1", len(persisted))
	}
}

func TestProcessLiveChunkInferenceFailure(t *testing.T) {
	rec := &fakeRecognizer{chunkErr: errors.New("model crashed")}
	a, st, m := newTestPipeline(t, &fakeCapture{}, rec)
	ctx := context.Background()

	_, err := a.ProcessLiveChunk(ctx, m.ID, []byte("pcm"))
	if err == nil {
		t.Fatal("expected error")
	}

	var stageErr *pipeline.StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != pipeline.StageInference {
		t.Errorf("err = %v, want inference StageError", err)
	}

	persisted, _ := st.TranscriptsForMeeting(ctx, m.ID)
	if len(persisted) != 0 {
		t.Errorf("got %d persisted segments after failure, want 0", len(persisted))
	}
}

func TestRecordFullAudio(t *testing.T) {
	a, st, m := newTestPipeline(t, &fakeCapture{}, &fakeRecognizer{})
	ctx := context.Background()

	dest := filepath.Join(t.TempDir(), "rec.wav")
	artifact, err := a.RecordFullAudio(ctx, m.ID, dest)
	if err != nil {
		t.Fatalf("RecordFullAudio: %v", err)
	}
	if artifact.FilePath != dest {
		t.Errorf("file path = %q, want %q", artifact.FilePath, dest)
	}

	persisted, err := st.AudioForMeeting(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(persisted) != 1 {
		t.Errorf("got %d artifacts, want 1", len(persisted))
	}
}

func TestRecordFullAudioCaptureFailure(t *testing.T) {
	capture := &fakeCapture{recordErr: errors.New("device unavailable")}
	a, st, m := newTestPipeline(t, capture, &fakeRecognizer{})
	ctx := context.Background()

	_, err := a.RecordFullAudio(ctx, m.ID, filepath.Join(t.TempDir(), "rec.wav"))
	if err == nil {
		t.Fatal("expected error")
	}

	var stageErr *pipeline.StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != pipeline.StageCapture {
		t.Errorf("err = %v, want capture StageError", err)
	}

	persisted, _ := st.AudioForMeeting(ctx, m.ID)
	if len(persisted) != 0 {
		t.Errorf("got %d artifacts after failure, want 0", len(persisted))
	}
}

func TestPostProcessBatchCommit(t *testing.T) {
	now := time.Now()
	rec := &fakeRecognizer{
		fileSegments: []store.TranscriptSegment{
			{StartedAt: now, EndedAt: now.Add(time.Second), Text: "first"},
			{StartedAt: now.Add(time.Second), EndedAt: now.Add(2 * time.Second), Text: "second"},
			{StartedAt: now.Add(2 * time.Second), EndedAt: now.Add(3 * time.Second), Text: "third"},
		},
	}
	a, st, m := newTestPipeline(t, &fakeCapture{}, rec)
	ctx := context.Background()

	artifact := &store.RawAudioArtifact{MeetingID: m.ID, FilePath: "rec.wav"}
	segments, err := a.PostProcess(ctx, artifact)
	if err != nil {
		t.Fatalf("PostProcess: %v", err)
	}
	if len(segments) != 3 {
		t.Errorf("got %d segments, want 3", len(segments))
	}

	persisted, err := st.TranscriptsForMeeting(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(persisted) != 3 {
		t.Errorf("got %d persisted segments, want 3", len(persisted))
	}
	if persisted[0].Text != "first" || persisted[2].Text != "third" {
		t.Errorf("segments out of order: %q .. %q", persisted[0].Text, persisted[2].Text)
	}
}

func TestPostProcessAllOrNothing(t *testing.T) {
	now := time.Now()
	bad := 2.0
	rec := &fakeRecognizer{
		fileSegments: []store.TranscriptSegment{
			{StartedAt: now, EndedAt: now.Add(time.Second), Text: "good"},
			// Invalid confidence makes the batch fail partway through.
			{StartedAt: now, EndedAt: now.Add(time.Second), Text: "bad", Confidence: &bad},
		},
	}
	a, st, m := newTestPipeline(t, &fakeCapture{}, rec)
	ctx := context.Background()

	artifact := &store.RawAudioArtifact{MeetingID: m.ID, FilePath: "rec.wav"}
	_, err := a.PostProcess(ctx, artifact)
	if err == nil {
		t.Fatal("expected error")
	}

	var stageErr *pipeline.StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != pipeline.StagePersistence {
		t.Errorf("err = %v, want persistence StageError", err)
	}

	persisted, _ := st.TranscriptsForMeeting(ctx, m.ID)
	if len(persisted) != 0 {
		t.Errorf("got %d persisted segments, want 0 (batch must be atomic)", len(persisted))
	}
}
