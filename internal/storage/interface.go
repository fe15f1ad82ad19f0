package storage

import (
	"context"

	"github.com/romabozhanovgithub/callyfy/internal/store"
)

// Storage owns the on-disk layout per meeting and the meeting lifecycle
// records.
type Storage interface {
	CreateMeeting(ctx context.Context, title string) (*store.Meeting, error)
	ListMeetings(ctx context.Context) ([]store.Meeting, error)
	Meeting(ctx context.Context, id string) (*store.Meeting, error)
	StartMeeting(ctx context.Context, id string) (*store.Meeting, error)
	StopMeeting(ctx context.Context, id string) (*store.Meeting, error)
	AddParticipant(ctx context.Context, meetingID, name string, role *string) (*store.Participant, error)
	MeetingAssets(ctx context.Context, id string) (*Assets, error)

	MeetingDir(meetingID string) string
	AudioPath(meetingID, filename string) string
	ScreenDir(meetingID string) (string, error)
}

// Assets groups the four artifact collections of one meeting.
type Assets struct {
	Transcripts []store.TranscriptSegment
	Captures    []store.ScreenCapture
	Summaries   []store.SummaryRecord
	Audio       []store.RawAudioArtifact
}
