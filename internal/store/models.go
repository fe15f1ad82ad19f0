// Package store provides SQLite persistence for meetings and their
// captured artifacts. All child entities reference their owning meeting
// by id and are removed with it (ON DELETE CASCADE).
package store

import "time"

// Summary kinds form a closed set.
const (
	SummaryRelevant = "relevant"
	SummaryRolling  = "rolling"
	SummaryFinal    = "final"
)

// Meeting is the root aggregate for one recorded session.
type Meeting struct {
	ID        string
	Title     string
	CreatedAt time.Time
	StartedAt *time.Time
	EndedAt   *time.Time
}

// Participant belongs to one meeting and may be referenced by transcript
// segments as a speaker.
type Participant struct {
	ID        string
	MeetingID string
	Name      string
	Role      *string
}

// TranscriptSegment is one transcribed span of speech. Immutable once
// written.
type TranscriptSegment struct {
	ID         string
	MeetingID  string
	SpeakerID  *string
	StartedAt  time.Time
	EndedAt    time.Time
	Text       string
	Confidence *float64
}

// ScreenCapture records one captured frame plus its description and
// embedding artifact.
type ScreenCapture struct {
	ID             string
	MeetingID      string
	CapturedAt     time.Time
	ImagePath      string
	Description    *string
	EmbeddingsPath *string
}

// SummaryRecord is one generated summary. Summaries of the same kind
// accumulate as history.
type SummaryRecord struct {
	ID          string
	MeetingID   string
	Kind        string
	GeneratedAt time.Time
	Content     string
	ModelName   *string
}

// RawAudioArtifact references a full-session recording on disk.
type RawAudioArtifact struct {
	ID              string
	MeetingID       string
	RecordedAt      time.Time
	FilePath        string
	SampleRate      *int
	DurationSeconds *float64
}
