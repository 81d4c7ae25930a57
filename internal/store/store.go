// Package store persists interview sessions in a local SQLite database so an
// interrupted interview can be resumed and finished sessions can be reported
// on later. The state machine itself never touches storage; this is the
// caller's layer.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/voxhire/voxhire/internal/ai"
	"github.com/voxhire/voxhire/internal/interview"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// ErrNotFound is returned when the requested session does not exist.
var ErrNotFound = errors.New("session not found")

// Candidate is the onboarding profile attached to a session.
type Candidate struct {
	Name            string `json:"name"`
	Company         string `json:"company"`
	RoleTitle       string `json:"role_title"`
	ExperienceLevel string `json:"experience_level"`
}

// Record is one persisted session: its profile, immutable rounds, the latest
// state snapshot and the pre-interview analysis context. Evaluations live in
// their own append-only table.
type Record struct {
	ID        string
	Candidate Candidate
	Rounds    []interview.Round
	Snapshot  interview.Snapshot
	Analysis  *ai.AnalysisBundle
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) when missing and
// prepares the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  candidate_name TEXT NOT NULL,
  company TEXT,
  role_title TEXT,
  experience_level TEXT,
  rounds_json TEXT NOT NULL,
  snapshot_json TEXT NOT NULL,
  analysis_json TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
  session_id TEXT NOT NULL REFERENCES sessions(id),
  ordinal INTEGER NOT NULL,
  round_key TEXT NOT NULL,
  round_name TEXT NOT NULL,
  question TEXT NOT NULL,
  answer TEXT NOT NULL,
  duration_seconds REAL,
  filler_words INTEGER,
  result_json TEXT NOT NULL,
  created_at TEXT NOT NULL,
  PRIMARY KEY (session_id, ordinal)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CreateSession inserts a new session record.
func (s *Store) CreateSession(ctx context.Context, rec *Record) error {
	rounds, err := json.Marshal(rec.Rounds)
	if err != nil {
		return fmt.Errorf("marshal rounds: %w", err)
	}
	snapshot, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	var analysis any
	if rec.Analysis != nil {
		data, err := json.Marshal(rec.Analysis)
		if err != nil {
			return fmt.Errorf("marshal analysis: %w", err)
		}
		analysis = string(data)
	}

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	const stmt = `
INSERT INTO sessions (id, candidate_name, company, role_title, experience_level, rounds_json, snapshot_json, analysis_json, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err = s.db.ExecContext(ctx, stmt,
		rec.ID,
		rec.Candidate.Name,
		rec.Candidate.Company,
		rec.Candidate.RoleTitle,
		rec.Candidate.ExperienceLevel,
		string(rounds),
		string(snapshot),
		analysis,
		now.Format(timeLayout),
		now.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SaveSnapshot updates the session's persisted cursors and flags.
func (s *Store) SaveSnapshot(ctx context.Context, id string, snap interview.Snapshot) error {
	snapshot, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	const stmt = `UPDATE sessions SET snapshot_json = ?, updated_at = ? WHERE id = ?;`
	result, err := s.db.ExecContext(ctx, stmt, string(snapshot), time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendEvaluation stores one evaluation at its position in the session's log.
// Rows are only ever inserted; the primary key rejects rewrites of history.
func (s *Store) AppendEvaluation(ctx context.Context, id string, ordinal int, ev interview.Evaluation) error {
	result, err := json.Marshal(ev.Result)
	if err != nil {
		return fmt.Errorf("marshal scoring result: %w", err)
	}

	const stmt = `
INSERT INTO evaluations (session_id, ordinal, round_key, round_name, question, answer, duration_seconds, filler_words, result_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err = s.db.ExecContext(ctx, stmt,
		id,
		ordinal,
		ev.RoundKey,
		ev.RoundName,
		ev.Question,
		ev.Answer.Transcript,
		ev.Answer.DurationSeconds,
		ev.Answer.FillerWords,
		string(result),
		ev.Timestamp.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

// Session loads one session record by id.
func (s *Store) Session(ctx context.Context, id string) (*Record, error) {
	const query = `
SELECT id, candidate_name, company, role_title, experience_level, rounds_json, snapshot_json, analysis_json, created_at, updated_at
FROM sessions WHERE id = ?;
`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// Sessions lists all stored sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]*Record, error) {
	const query = `
SELECT id, candidate_name, company, role_title, experience_level, rounds_json, snapshot_json, analysis_json, created_at, updated_at
FROM sessions ORDER BY created_at DESC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Evaluations replays the session's evaluation log in order. Scoring results
// are rehydrated as ai.AnswerScore values.
func (s *Store) Evaluations(ctx context.Context, id string) ([]interview.Evaluation, error) {
	const query = `
SELECT round_key, round_name, question, answer, duration_seconds, filler_words, result_json, created_at
FROM evaluations WHERE session_id = ? ORDER BY ordinal;
`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var evaluations []interview.Evaluation
	for rows.Next() {
		var (
			ev         interview.Evaluation
			duration   sql.NullFloat64
			filler     sql.NullInt64
			resultJSON string
			createdAt  string
		)
		if err := rows.Scan(&ev.RoundKey, &ev.RoundName, &ev.Question, &ev.Answer.Transcript, &duration, &filler, &resultJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}

		if duration.Valid {
			ev.Answer.DurationSeconds = &duration.Float64
		}
		if filler.Valid {
			count := int(filler.Int64)
			ev.Answer.FillerWords = &count
		}

		var score ai.AnswerScore
		if err := json.Unmarshal([]byte(resultJSON), &score); err != nil {
			return nil, fmt.Errorf("unmarshal scoring result: %w", err)
		}
		ev.Result = &score

		if ts, err := time.Parse(timeLayout, createdAt); err == nil {
			ev.Timestamp = ts
		}

		evaluations = append(evaluations, ev)
	}

	return evaluations, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec          Record
		roundsJSON   string
		snapJSON     string
		analysisJSON sql.NullString
		createdAt    string
		updatedAt    string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Candidate.Name,
		&rec.Candidate.Company,
		&rec.Candidate.RoleTitle,
		&rec.Candidate.ExperienceLevel,
		&roundsJSON,
		&snapJSON,
		&analysisJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(roundsJSON), &rec.Rounds); err != nil {
		return nil, fmt.Errorf("unmarshal rounds: %w", err)
	}
	if err := json.Unmarshal([]byte(snapJSON), &rec.Snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if analysisJSON.Valid && analysisJSON.String != "" {
		rec.Analysis = &ai.AnalysisBundle{}
		if err := json.Unmarshal([]byte(analysisJSON.String), rec.Analysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
	}
	if ts, err := time.Parse(timeLayout, createdAt); err == nil {
		rec.CreatedAt = ts
	}
	if ts, err := time.Parse(timeLayout, updatedAt); err == nil {
		rec.UpdatedAt = ts
	}

	return &rec, nil
}
