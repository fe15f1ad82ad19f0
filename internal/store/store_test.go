package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func addMeeting(t *testing.T, s *Store, title string) *Meeting {
	t.Helper()

	ctx := context.Background()
	uow, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	m := &Meeting{Title: title}
	if err := uow.Add(ctx, m); err != nil {
		t.Fatalf("add meeting: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return m
}

func tempArtifact(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreateAndFetchMeeting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m := addMeeting(t, s, "Standup")
	if m.ID == "" {
		t.Fatal("meeting id not assigned")
	}
	if m.StartedAt != nil || m.EndedAt != nil {
		t.Error("new meeting should have nil started/ended timestamps")
	}

	got, err := s.Meeting(ctx, m.ID)
	if err != nil {
		t.Fatalf("Meeting: %v", err)
	}
	if got.Title != "Standup" {
		t.Errorf("title = %q, want %q", got.Title, "Standup")
	}
}

func TestMeetingNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Meeting(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSetStartedIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := addMeeting(t, s, "Standup")

	first := time.Now().Add(-time.Minute)
	got, err := s.SetStarted(ctx, m.ID, first)
	if err != nil {
		t.Fatalf("SetStarted: %v", err)
	}
	if got.StartedAt == nil {
		t.Fatal("startedAt not set")
	}
	if got.EndedAt != nil {
		t.Error("endedAt should still be nil")
	}

	// Second call must not overwrite the first value.
	got, err = s.SetStarted(ctx, m.ID, time.Now())
	if err != nil {
		t.Fatalf("SetStarted again: %v", err)
	}
	if got.StartedAt.Sub(first).Abs() > time.Second {
		t.Errorf("startedAt moved on second call: %v vs %v", got.StartedAt, first)
	}
}

func TestSetEndedIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := addMeeting(t, s, "Standup")

	first := time.Now().Add(-time.Minute)
	if _, err := s.SetEnded(ctx, m.ID, first); err != nil {
		t.Fatalf("SetEnded: %v", err)
	}
	got, err := s.SetEnded(ctx, m.ID, time.Now())
	if err != nil {
		t.Fatalf("SetEnded again: %v", err)
	}
	if got.EndedAt.Sub(first).Abs() > time.Second {
		t.Errorf("endedAt moved on second call: %v vs %v", got.EndedAt, first)
	}
}

func TestChildRequiresExistingMeeting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer uow.Rollback()

	seg := &TranscriptSegment{
		MeetingID: "no-such-meeting",
		StartedAt: time.Now(),
		EndedAt:   time.Now(),
		Text:      "hello",
	}
	if err := uow.Add(ctx, seg); err == nil {
		t.Error("expected foreign key rejection for dangling meeting reference")
	}
}

func TestTranscriptValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := addMeeting(t, s, "Standup")

	now := time.Now()
	bad := 1.5

	tests := []struct {
		name string
		seg  TranscriptSegment
	}{
		{"reversed time range", TranscriptSegment{MeetingID: m.ID, StartedAt: now, EndedAt: now.Add(-time.Second), Text: "x"}},
		{"confidence out of range", TranscriptSegment{MeetingID: m.ID, StartedAt: now, EndedAt: now, Text: "x", Confidence: &bad}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow, err := s.Begin(ctx)
			if err != nil {
				t.Fatal(err)
			}
			defer uow.Rollback()

			if err := uow.Add(ctx, &tt.seg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSummaryKindValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := addMeeting(t, s, "Standup")

	uow, err := s.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer uow.Rollback()

	r := &SummaryRecord{MeetingID: m.ID, Kind: "hourly", Content: "x"}
	if err := uow.Add(ctx, r); err == nil {
		t.Error("expected rejection of unknown summary kind")
	}
}

func TestArtifactPathMustExist(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := addMeeting(t, s, "Standup")

	uow, err := s.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer uow.Rollback()

	c := &ScreenCapture{MeetingID: m.ID, ImagePath: "/nonexistent/frame.png"}
	if err := uow.Add(ctx, c); err == nil {
		t.Error("expected rejection of missing image file")
	}

	a := &RawAudioArtifact{MeetingID: m.ID, FilePath: "/nonexistent/audio.wav"}
	if err := uow.Add(ctx, a); err == nil {
		t.Error("expected rejection of missing audio file")
	}
}

func TestBatchCommitAtomicity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := addMeeting(t, s, "Standup")

	uow, err := s.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	for i := 0; i < 3; i++ {
		seg := &TranscriptSegment{
			MeetingID: m.ID,
			StartedAt: now.Add(time.Duration(i) * time.Second),
			EndedAt:   now.Add(time.Duration(i+1) * time.Second),
			Text:      "segment",
		}
		if err := uow.Add(ctx, seg); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	// Abandon the batch: nothing may have been persisted.
	if err := uow.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	segments, err := s.TranscriptsForMeeting(ctx, m.ID)
	if err != nil {
		t.Fatalf("TranscriptsForMeeting: %v", err)
	}
	if len(segments) != 0 {
		t.Errorf("got %d segments after rollback, want 0", len(segments))
	}
}

func TestCascadeDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := addMeeting(t, s, "Standup")

	audioPath := tempArtifact(t, "rec.wav")

	uow, err := s.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if err := uow.Add(ctx, &TranscriptSegment{MeetingID: m.ID, StartedAt: now, EndedAt: now, Text: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := uow.Add(ctx, &SummaryRecord{MeetingID: m.ID, Kind: SummaryRolling, Content: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := uow.Add(ctx, &RawAudioArtifact{MeetingID: m.ID, FilePath: audioPath}); err != nil {
		t.Fatal(err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteMeeting(ctx, m.ID); err != nil {
		t.Fatalf("DeleteMeeting: %v", err)
	}

	segments, _ := s.TranscriptsForMeeting(ctx, m.ID)
	summaries, _ := s.SummariesForMeeting(ctx, m.ID)
	audio, _ := s.AudioForMeeting(ctx, m.ID)
	if len(segments)+len(summaries)+len(audio) != 0 {
		t.Errorf("children survived cascade delete: %d/%d/%d", len(segments), len(summaries), len(audio))
	}
}

func TestSearchTranscripts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := addMeeting(t, s, "Standup")
	other := addMeeting(t, s, "Retro")

	uow, err := s.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	uow.Add(ctx, &TranscriptSegment{MeetingID: m.ID, StartedAt: now, EndedAt: now, Text: "Deploy the API gateway"})
	uow.Add(ctx, &TranscriptSegment{MeetingID: m.ID, StartedAt: now, EndedAt: now, Text: "unrelated chatter"})
	uow.Add(ctx, &TranscriptSegment{MeetingID: other.ID, StartedAt: now, EndedAt: now, Text: "gateway timeout postmortem"})
	if err := uow.Commit(); err != nil {
		t.Fatal(err)
	}

	// Case-insensitive substring match across all meetings.
	got, err := s.SearchTranscripts(ctx, "GATEWAY", "")
	if err != nil {
		t.Fatalf("SearchTranscripts: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d matches, want 2", len(got))
	}

	// Meeting filter narrows the result.
	got, err = s.SearchTranscripts(ctx, "gateway", m.ID)
	if err != nil {
		t.Fatalf("SearchTranscripts: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d matches with meeting filter, want 1", len(got))
	}
}

func TestRefresh(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := addMeeting(t, s, "Standup")

	if _, err := s.SetStarted(ctx, m.ID, time.Now()); err != nil {
		t.Fatal(err)
	}

	// The local copy predates the update; Refresh pulls it in.
	if m.StartedAt != nil {
		t.Fatal("precondition: local copy should be stale")
	}
	if err := s.Refresh(ctx, m); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if m.StartedAt == nil {
		t.Error("Refresh did not pick up startedAt")
	}
}
