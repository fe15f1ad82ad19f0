package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Refresh reloads an entity's fields from durable state, matching on its
// id. Returns ErrNotFound when the row no longer exists.
func (s *Store) Refresh(ctx context.Context, entity any) error {
	switch e := entity.(type) {
	case *Meeting:
		m, err := s.Meeting(ctx, e.ID)
		if err != nil {
			return err
		}
		*e = *m
		return nil

	case *TranscriptSegment:
		row := s.db.QueryRowContext(ctx, `
			SELECT id, meetingId, speakerId, startedAt, endedAt, text, confidence
			FROM transcript_segments WHERE id = ?
		`, e.ID)
		var t TranscriptSegment
		var startedAt, endedAt float64
		var speakerID sql.NullString
		var confidence sql.NullFloat64
		if err := row.Scan(&t.ID, &t.MeetingID, &speakerID, &startedAt, &endedAt, &t.Text, &confidence); err != nil {
			return refreshErr("transcript segment", e.ID, err)
		}
		t.StartedAt = timeFromUnix(startedAt)
		t.EndedAt = timeFromUnix(endedAt)
		if speakerID.Valid {
			t.SpeakerID = &speakerID.String
		}
		if confidence.Valid {
			t.Confidence = &confidence.Float64
		}
		*e = t
		return nil

	case *ScreenCapture:
		row := s.db.QueryRowContext(ctx, `
			SELECT id, meetingId, capturedAt, imagePath, description, embeddingsPath
			FROM screen_captures WHERE id = ?
		`, e.ID)
		var c ScreenCapture
		var capturedAt float64
		var description, embeddingsPath sql.NullString
		if err := row.Scan(&c.ID, &c.MeetingID, &capturedAt, &c.ImagePath, &description, &embeddingsPath); err != nil {
			return refreshErr("screen capture", e.ID, err)
		}
		c.CapturedAt = timeFromUnix(capturedAt)
		if description.Valid {
			c.Description = &description.String
		}
		if embeddingsPath.Valid {
			c.EmbeddingsPath = &embeddingsPath.String
		}
		*e = c
		return nil

	case *SummaryRecord:
		row := s.db.QueryRowContext(ctx, `
			SELECT id, meetingId, kind, generatedAt, content, modelName
			FROM summaries WHERE id = ?
		`, e.ID)
		var r SummaryRecord
		var generatedAt float64
		var modelName sql.NullString
		if err := row.Scan(&r.ID, &r.MeetingID, &r.Kind, &generatedAt, &r.Content, &modelName); err != nil {
			return refreshErr("summary", e.ID, err)
		}
		r.GeneratedAt = timeFromUnix(generatedAt)
		if modelName.Valid {
			r.ModelName = &modelName.String
		}
		*e = r
		return nil

	case *RawAudioArtifact:
		row := s.db.QueryRowContext(ctx, `
			SELECT id, meetingId, recordedAt, filePath, sampleRate, durationSeconds
			FROM raw_audio_artifacts WHERE id = ?
		`, e.ID)
		var a RawAudioArtifact
		var recordedAt float64
		var sampleRate sql.NullInt64
		var duration sql.NullFloat64
		if err := row.Scan(&a.ID, &a.MeetingID, &recordedAt, &a.FilePath, &sampleRate, &duration); err != nil {
			return refreshErr("audio artifact", e.ID, err)
		}
		a.RecordedAt = timeFromUnix(recordedAt)
		if sampleRate.Valid {
			v := int(sampleRate.Int64)
			a.SampleRate = &v
		}
		if duration.Valid {
			a.DurationSeconds = &duration.Float64
		}
		*e = a
		return nil

	default:
		return fmt.Errorf("unsupported entity type %T", entity)
	}
}

func refreshErr(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("refresh %s: %w", kind, err)
}
