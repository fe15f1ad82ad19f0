package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// UnitOfWork is one transactional batch of writes. Entities staged with
// Add become durable together on Commit, or not at all.
type UnitOfWork struct {
	tx   *sql.Tx
	done bool
}

// Begin opens a new unit of work.
func (s *Store) Begin(ctx context.Context) (*UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &UnitOfWork{tx: tx}, nil
}

// Add stages one entity for insertion. The entity is validated here and
// the write is rejected before it can reach the database when an
// invariant does not hold: confidence out of range, an unknown summary
// kind, a reversed time range, or a referenced artifact file that does
// not exist on disk. Missing ids and zero timestamps are filled in.
func (u *UnitOfWork) Add(ctx context.Context, entity any) error {
	switch e := entity.(type) {
	case *Meeting:
		return u.addMeeting(ctx, e)
	case *Participant:
		return u.addParticipant(ctx, e)
	case *TranscriptSegment:
		return u.addTranscript(ctx, e)
	case *ScreenCapture:
		return u.addCapture(ctx, e)
	case *SummaryRecord:
		return u.addSummary(ctx, e)
	case *RawAudioArtifact:
		return u.addAudio(ctx, e)
	default:
		return fmt.Errorf("unsupported entity type %T", entity)
	}
}

// Commit makes all staged writes durable.
func (u *UnitOfWork) Commit() error {
	if u.done {
		return fmt.Errorf("unit of work already finished")
	}
	u.done = true
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback abandons all staged writes. Safe to call after Commit.
func (u *UnitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback()
}

func (u *UnitOfWork) addMeeting(ctx context.Context, m *Meeting) error {
	if m.Title == "" {
		return fmt.Errorf("meeting title is required")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := u.tx.ExecContext(ctx, `
		INSERT INTO meetings (id, title, createdAt, startedAt, endedAt)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.Title, timeToUnix(m.CreatedAt), nullTime(m.StartedAt), nullTime(m.EndedAt))
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

func (u *UnitOfWork) addParticipant(ctx context.Context, p *Participant) error {
	if p.MeetingID == "" {
		return fmt.Errorf("participant requires a meeting id")
	}
	if p.Name == "" {
		return fmt.Errorf("participant name is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	_, err := u.tx.ExecContext(ctx, `
		INSERT INTO participants (id, meetingId, name, role)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.MeetingID, p.Name, p.Role)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

func (u *UnitOfWork) addTranscript(ctx context.Context, t *TranscriptSegment) error {
	if t.MeetingID == "" {
		return fmt.Errorf("transcript segment requires a meeting id")
	}
	if t.EndedAt.Before(t.StartedAt) {
		return fmt.Errorf("transcript segment ends before it starts")
	}
	if t.Confidence != nil && (*t.Confidence < 0 || *t.Confidence > 1) {
		return fmt.Errorf("confidence %v out of range [0,1]", *t.Confidence)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	_, err := u.tx.ExecContext(ctx, `
		INSERT INTO transcript_segments (id, meetingId, speakerId, startedAt, endedAt, text, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.MeetingID, t.SpeakerID, timeToUnix(t.StartedAt), timeToUnix(t.EndedAt), t.Text, t.Confidence)
	if err != nil {
		return fmt.Errorf("insert transcript segment: %w", err)
	}
	return nil
}

func (u *UnitOfWork) addCapture(ctx context.Context, c *ScreenCapture) error {
	if c.MeetingID == "" {
		return fmt.Errorf("screen capture requires a meeting id")
	}
	if c.ImagePath == "" {
		return fmt.Errorf("screen capture requires an image path")
	}
	if err := requireFile(c.ImagePath); err != nil {
		return err
	}
	if c.EmbeddingsPath != nil {
		if err := requireFile(*c.EmbeddingsPath); err != nil {
			return err
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CapturedAt.IsZero() {
		c.CapturedAt = time.Now().UTC()
	}

	_, err := u.tx.ExecContext(ctx, `
		INSERT INTO screen_captures (id, meetingId, capturedAt, imagePath, description, embeddingsPath)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.MeetingID, timeToUnix(c.CapturedAt), c.ImagePath, c.Description, c.EmbeddingsPath)
	if err != nil {
		return fmt.Errorf("insert screen capture: %w", err)
	}
	return nil
}

func (u *UnitOfWork) addSummary(ctx context.Context, r *SummaryRecord) error {
	if r.MeetingID == "" {
		return fmt.Errorf("summary requires a meeting id")
	}
	switch r.Kind {
	case SummaryRelevant, SummaryRolling, SummaryFinal:
	default:
		return fmt.Errorf("unknown summary kind %q", r.Kind)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}

	_, err := u.tx.ExecContext(ctx, `
		INSERT INTO summaries (id, meetingId, kind, generatedAt, content, modelName)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.MeetingID, r.Kind, timeToUnix(r.GeneratedAt), r.Content, r.ModelName)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

func (u *UnitOfWork) addAudio(ctx context.Context, a *RawAudioArtifact) error {
	if a.MeetingID == "" {
		return fmt.Errorf("audio artifact requires a meeting id")
	}
	if a.FilePath == "" {
		return fmt.Errorf("audio artifact requires a file path")
	}
	if err := requireFile(a.FilePath); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.RecordedAt.IsZero() {
		a.RecordedAt = time.Now().UTC()
	}

	_, err := u.tx.ExecContext(ctx, `
		INSERT INTO raw_audio_artifacts (id, meetingId, recordedAt, filePath, sampleRate, durationSeconds)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.MeetingID, timeToUnix(a.RecordedAt), a.FilePath, a.SampleRate, a.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert audio artifact: %w", err)
	}
	return nil
}

func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("artifact file %s: %w", path, err)
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeToUnix(*t)
}
