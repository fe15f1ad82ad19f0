package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports that a referenced entity does not exist. It is
// distinct from backend or persistence failures.
var ErrNotFound = errors.New("not found")

const schema = `
	CREATE TABLE IF NOT EXISTS meetings (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		createdAt REAL NOT NULL,
		startedAt REAL,
		endedAt REAL
	);

	CREATE TABLE IF NOT EXISTS participants (
		id TEXT PRIMARY KEY,
		meetingId TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		role TEXT
	);

	CREATE TABLE IF NOT EXISTS transcript_segments (
		id TEXT PRIMARY KEY,
		meetingId TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		speakerId TEXT REFERENCES participants(id),
		startedAt REAL NOT NULL,
		endedAt REAL NOT NULL,
		text TEXT NOT NULL,
		confidence REAL
	);

	CREATE TABLE IF NOT EXISTS screen_captures (
		id TEXT PRIMARY KEY,
		meetingId TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		capturedAt REAL NOT NULL,
		imagePath TEXT NOT NULL,
		description TEXT,
		embeddingsPath TEXT
	);

	CREATE TABLE IF NOT EXISTS summaries (
		id TEXT PRIMARY KEY,
		meetingId TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		generatedAt REAL NOT NULL,
		content TEXT NOT NULL,
		modelName TEXT
	);

	CREATE TABLE IF NOT EXISTS raw_audio_artifacts (
		id TEXT PRIMARY KEY,
		meetingId TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		recordedAt REAL NOT NULL,
		filePath TEXT NOT NULL,
		sampleRate INTEGER,
		durationSeconds REAL
	);
`

// Store provides access to the callyfy SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite has a single writer; one pooled connection also keeps
	// :memory: databases from splitting across connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Meeting fetches one meeting by id. Returns ErrNotFound when absent.
func (s *Store) Meeting(ctx context.Context, id string) (*Meeting, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, createdAt, startedAt, endedAt
		FROM meetings
		WHERE id = ?
	`, id)

	m, err := scanMeeting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("meeting %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scan meeting: %w", err)
	}
	return m, nil
}

// Meetings returns all meetings ordered by creation time.
func (s *Store) Meetings(ctx context.Context) ([]Meeting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, createdAt, startedAt, endedAt
		FROM meetings
		ORDER BY createdAt ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, *m)
	}
	return meetings, rows.Err()
}

// SetStarted marks the meeting as started. The timestamp is set at most
// once; repeated calls leave the first value in place.
func (s *Store) SetStarted(ctx context.Context, id string, t time.Time) (*Meeting, error) {
	if _, err := s.Meeting(ctx, id); err != nil {
		return nil, err
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE meetings SET startedAt = ? WHERE id = ? AND startedAt IS NULL
	`, timeToUnix(t), id)
	if err != nil {
		return nil, fmt.Errorf("set started: %w", err)
	}
	return s.Meeting(ctx, id)
}

// SetEnded marks the meeting as ended, set-at-most-once like SetStarted.
func (s *Store) SetEnded(ctx context.Context, id string, t time.Time) (*Meeting, error) {
	if _, err := s.Meeting(ctx, id); err != nil {
		return nil, err
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE meetings SET endedAt = ? WHERE id = ? AND endedAt IS NULL
	`, timeToUnix(t), id)
	if err != nil {
		return nil, fmt.Errorf("set ended: %w", err)
	}
	return s.Meeting(ctx, id)
}

// DeleteMeeting removes a meeting and, through the schema's cascade
// rules, every child entity it owns.
func (s *Store) DeleteMeeting(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("meeting %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*Meeting, error) {
	var m Meeting
	var createdAt float64
	var startedAt, endedAt sql.NullFloat64

	if err := row.Scan(&m.ID, &m.Title, &createdAt, &startedAt, &endedAt); err != nil {
		return nil, err
	}

	m.CreatedAt = timeFromUnix(createdAt)
	if startedAt.Valid {
		t := timeFromUnix(startedAt.Float64)
		m.StartedAt = &t
	}
	if endedAt.Valid {
		t := timeFromUnix(endedAt.Float64)
		m.EndedAt = &t
	}
	return &m, nil
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

func timeToUnix(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
