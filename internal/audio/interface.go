package audio

import (
	"context"

	"github.com/romabozhanovgithub/callyfy/internal/store"
)

// CaptureBackend is the audio capture contract. Implementations wrap a
// concrete recording engine.
type CaptureBackend interface {
	StartStream(ctx context.Context, meetingID string) error
	StopStream(ctx context.Context, meetingID string) error
	RecordRaw(ctx context.Context, meetingID, destination string) error
}

// Recognizer is the speech-recognition contract.
type Recognizer interface {
	TranscribeChunk(ctx context.Context, chunk []byte) (*store.TranscriptSegment, error)
	TranscribeFile(ctx context.Context, path string) ([]store.TranscriptSegment, error)
}

// Audio drives live-chunk transcription and full-recording
// post-processing.
type Audio interface {
	StartCapture(ctx context.Context, meetingID string) error
	StopCapture(ctx context.Context, meetingID string) error
	ProcessLiveChunk(ctx context.Context, meetingID string, chunk []byte) (*store.TranscriptSegment, error)
	RecordFullAudio(ctx context.Context, meetingID, destination string) (*store.RawAudioArtifact, error)
	PostProcess(ctx context.Context, artifact *store.RawAudioArtifact) ([]store.TranscriptSegment, error)
}
