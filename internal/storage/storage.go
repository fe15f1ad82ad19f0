package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/romabozhanovgithub/callyfy/internal/store"
)

// CreateMeeting persists a new meeting record and creates its directory.
// The record commit and the directory creation succeed or fail as a
// whole: if the commit fails the directory is removed again.
func (s *implStorage) CreateMeeting(ctx context.Context, title string) (*store.Meeting, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	meeting := &store.Meeting{Title: title}
	if err := uow.Add(ctx, meeting); err != nil {
		return nil, fmt.Errorf("add meeting: %w", err)
	}

	dir := s.MeetingDir(meeting.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create meeting dir: %w", err)
	}

	if err := uow.Commit(); err != nil {
		if rmErr := os.Remove(dir); rmErr != nil {
			s.logger.Warn(ctx, "Failed to remove meeting dir after commit failure: %v", rmErr)
		}
		return nil, fmt.Errorf("commit meeting: %w", err)
	}

	s.logger.Info(ctx, "Created meeting %s (%s)", meeting.ID, title)
	return meeting, nil
}

// ListMeetings returns all meetings.
func (s *implStorage) ListMeetings(ctx context.Context) ([]store.Meeting, error) {
	return s.store.Meetings(ctx)
}

// Meeting fetches one meeting by id.
func (s *implStorage) Meeting(ctx context.Context, id string) (*store.Meeting, error) {
	return s.store.Meeting(ctx, id)
}

// StartMeeting marks a meeting as started. Calling it again leaves the
// original timestamp untouched.
func (s *implStorage) StartMeeting(ctx context.Context, id string) (*store.Meeting, error) {
	return s.store.SetStarted(ctx, id, time.Now().UTC())
}

// StopMeeting marks a meeting as ended, set-at-most-once.
func (s *implStorage) StopMeeting(ctx context.Context, id string) (*store.Meeting, error) {
	return s.store.SetEnded(ctx, id, time.Now().UTC())
}

// AddParticipant attaches a participant to a meeting.
func (s *implStorage) AddParticipant(ctx context.Context, meetingID, name string, role *string) (*store.Participant, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	p := &store.Participant{MeetingID: meetingID, Name: name, Role: role}
	if err := uow.Add(ctx, p); err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit participant: %w", err)
	}
	return p, nil
}

// MeetingAssets fetches all four asset collections for a meeting in one
// grouped call.
func (s *implStorage) MeetingAssets(ctx context.Context, id string) (*Assets, error) {
	if _, err := s.store.Meeting(ctx, id); err != nil {
		return nil, err
	}

	transcripts, err := s.store.TranscriptsForMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	captures, err := s.store.CapturesForMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	summaries, err := s.store.SummariesForMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	audio, err := s.store.AudioForMeeting(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Assets{
		Transcripts: transcripts,
		Captures:    captures,
		Summaries:   summaries,
		Audio:       audio,
	}, nil
}

// MeetingDir returns the canonical directory for a meeting.
func (s *implStorage) MeetingDir(meetingID string) string {
	return filepath.Join(s.baseDir, meetingID)
}

// AudioPath resolves a caller-supplied audio filename inside the
// meeting directory.
func (s *implStorage) AudioPath(meetingID, filename string) string {
	return filepath.Join(s.MeetingDir(meetingID), filename)
}

// ScreenDir returns the screen-capture subdirectory for a meeting,
// creating it if needed. Creating it twice is not an error.
func (s *implStorage) ScreenDir(meetingID string) (string, error) {
	dir := filepath.Join(s.MeetingDir(meetingID), s.screenDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create screen dir: %w", err)
	}
	return dir, nil
}
