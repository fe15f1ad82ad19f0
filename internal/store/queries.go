package store

import (
	"context"
	"database/sql"
	"fmt"
)

// TranscriptsForMeeting returns all transcript segments for a meeting,
// ordered by their start time.
func (s *Store) TranscriptsForMeeting(ctx context.Context, meetingID string) ([]TranscriptSegment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, speakerId, startedAt, endedAt, text, confidence
		FROM transcript_segments
		WHERE meetingId = ?
		ORDER BY startedAt ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()
	return collectTranscripts(rows)
}

// CapturesForMeeting returns all screen captures for a meeting, ordered
// by capture time.
func (s *Store) CapturesForMeeting(ctx context.Context, meetingID string) ([]ScreenCapture, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, capturedAt, imagePath, description, embeddingsPath
		FROM screen_captures
		WHERE meetingId = ?
		ORDER BY capturedAt ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query captures: %w", err)
	}
	defer rows.Close()

	var captures []ScreenCapture
	for rows.Next() {
		var c ScreenCapture
		var capturedAt float64
		var description, embeddingsPath sql.NullString
		if err := rows.Scan(&c.ID, &c.MeetingID, &capturedAt, &c.ImagePath, &description, &embeddingsPath); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		c.CapturedAt = timeFromUnix(capturedAt)
		if description.Valid {
			c.Description = &description.String
		}
		if embeddingsPath.Valid {
			c.EmbeddingsPath = &embeddingsPath.String
		}
		captures = append(captures, c)
	}
	return captures, rows.Err()
}

// SummariesForMeeting returns all summaries for a meeting, oldest first.
func (s *Store) SummariesForMeeting(ctx context.Context, meetingID string) ([]SummaryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, kind, generatedAt, content, modelName
		FROM summaries
		WHERE meetingId = ?
		ORDER BY generatedAt ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()
	return collectSummaries(rows)
}

// AudioForMeeting returns all raw audio artifacts for a meeting.
func (s *Store) AudioForMeeting(ctx context.Context, meetingID string) ([]RawAudioArtifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, recordedAt, filePath, sampleRate, durationSeconds
		FROM raw_audio_artifacts
		WHERE meetingId = ?
		ORDER BY recordedAt ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query audio artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []RawAudioArtifact
	for rows.Next() {
		var a RawAudioArtifact
		var recordedAt float64
		var sampleRate sql.NullInt64
		var duration sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.MeetingID, &recordedAt, &a.FilePath, &sampleRate, &duration); err != nil {
			return nil, fmt.Errorf("scan audio artifact: %w", err)
		}
		a.RecordedAt = timeFromUnix(recordedAt)
		if sampleRate.Valid {
			v := int(sampleRate.Int64)
			a.SampleRate = &v
		}
		if duration.Valid {
			a.DurationSeconds = &duration.Float64
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// ParticipantsForMeeting returns all participants of a meeting.
func (s *Store) ParticipantsForMeeting(ctx context.Context, meetingID string) ([]Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, name, role
		FROM participants
		WHERE meetingId = ?
		ORDER BY name ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		var p Participant
		var role sql.NullString
		if err := rows.Scan(&p.ID, &p.MeetingID, &p.Name, &role); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		if role.Valid {
			p.Role = &role.String
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// SearchTranscripts returns transcript segments whose text contains the
// query, case-insensitively. An empty meetingID searches all meetings.
func (s *Store) SearchTranscripts(ctx context.Context, query, meetingID string) ([]TranscriptSegment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, speakerId, startedAt, endedAt, text, confidence
		FROM transcript_segments
		WHERE instr(lower(text), lower(?)) > 0
		  AND (? = '' OR meetingId = ?)
		ORDER BY startedAt ASC
	`, query, meetingID, meetingID)
	if err != nil {
		return nil, fmt.Errorf("search transcripts: %w", err)
	}
	defer rows.Close()
	return collectTranscripts(rows)
}

// SearchSummaries returns summaries whose content contains the query,
// case-insensitively. An empty meetingID searches all meetings.
func (s *Store) SearchSummaries(ctx context.Context, query, meetingID string) ([]SummaryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, kind, generatedAt, content, modelName
		FROM summaries
		WHERE instr(lower(content), lower(?)) > 0
		  AND (? = '' OR meetingId = ?)
		ORDER BY generatedAt ASC
	`, query, meetingID, meetingID)
	if err != nil {
		return nil, fmt.Errorf("search summaries: %w", err)
	}
	defer rows.Close()
	return collectSummaries(rows)
}

func collectTranscripts(rows *sql.Rows) ([]TranscriptSegment, error) {
	var segments []TranscriptSegment
	for rows.Next() {
		var t TranscriptSegment
		var startedAt, endedAt float64
		var speakerID sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(&t.ID, &t.MeetingID, &speakerID, &startedAt, &endedAt, &t.Text, &confidence); err != nil {
			return nil, fmt.Errorf("scan transcript segment: %w", err)
		}
		t.StartedAt = timeFromUnix(startedAt)
		t.EndedAt = timeFromUnix(endedAt)
		if speakerID.Valid {
			t.SpeakerID = &speakerID.String
		}
		if confidence.Valid {
			t.Confidence = &confidence.Float64
		}
		segments = append(segments, t)
	}
	return segments, rows.Err()
}

func collectSummaries(rows *sql.Rows) ([]SummaryRecord, error) {
	var summaries []SummaryRecord
	for rows.Next() {
		var r SummaryRecord
		var generatedAt float64
		var modelName sql.NullString
		if err := rows.Scan(&r.ID, &r.MeetingID, &r.Kind, &generatedAt, &r.Content, &modelName); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		r.GeneratedAt = timeFromUnix(generatedAt)
		if modelName.Valid {
			r.ModelName = &modelName.String
		}
		summaries = append(summaries, r)
	}
	return summaries, rows.Err()
}
