// Package store persists survey responses and inquiries in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

// Submission kinds.
const (
	KindSurvey  = "survey"
	KindInquiry = "inquiry"
)

// ErrNotFound is returned when a submission id is unknown.
var ErrNotFound = errors.New("store: submission not found")

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS survey_responses (
	submission_id TEXT NOT NULL REFERENCES submissions(id),
	position      INTEGER NOT NULL,
	field_name    TEXT NOT NULL,
	field_type    TEXT NOT NULL,
	value         TEXT NOT NULL,
	section_index INTEGER NOT NULL,
	PRIMARY KEY (submission_id, position)
);
CREATE TABLE IF NOT EXISTS inquiry_fields (
	submission_id TEXT NOT NULL REFERENCES submissions(id),
	name          TEXT NOT NULL,
	value         TEXT NOT NULL,
	PRIMARY KEY (submission_id, name)
);
`

// Submission is a stored submission header.
type Submission struct {
	ID        string
	Kind      string
	CreatedAt time.Time
}

// Store is a SQLite-backed submission store.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the response id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: database path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	s := &Store{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSurvey stores responses in order and returns the new submission id.
func (s *Store) SaveSurvey(ctx context.Context, responses []wizard.Response) (string, error) {
	return s.insert(ctx, KindSurvey, func(tx *sql.Tx, id string) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO survey_responses
			(submission_id, position, field_name, field_type, value, section_index)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, r := range responses {
			if _, err := stmt.ExecContext(ctx, id, i, r.FieldName, r.FieldType, r.Value, r.SectionIndex); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveInquiry stores a flat inquiry and returns the new submission id.
func (s *Store) SaveInquiry(ctx context.Context, fields map[string]string) (string, error) {
	return s.insert(ctx, KindInquiry, func(tx *sql.Tx, id string) error {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO inquiry_fields (submission_id, name, value) VALUES (?, ?, ?)`,
				id, name, fields[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) insert(ctx context.Context, kind string, rows func(*sql.Tx, string) error) (string, error) {
	id := s.newID()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO submissions (id, kind, created_at) VALUES (?, ?, ?)`,
		id, kind, s.now()); err != nil {
		return "", fmt.Errorf("store: insert %s: %w", kind, err)
	}
	if err := rows(tx, id); err != nil {
		return "", fmt.Errorf("store: insert %s rows: %w", kind, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// Get returns the header of submission id.
func (s *Store) Get(ctx context.Context, id string) (Submission, error) {
	var sub Submission
	err := s.db.QueryRowContext(ctx,
		`SELECT id, kind, created_at FROM submissions WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.Kind, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	if err != nil {
		return Submission{}, fmt.Errorf("store: get %s: %w", id, err)
	}
	return sub, nil
}

// Survey returns the stored responses of a survey submission in order.
func (s *Store) Survey(ctx context.Context, id string) ([]wizard.Response, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT field_name, field_type, value, section_index
		FROM survey_responses WHERE submission_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("store: survey %s: %w", id, err)
	}
	defer rows.Close()

	var out []wizard.Response
	for rows.Next() {
		var r wizard.Response
		if err := rows.Scan(&r.FieldName, &r.FieldType, &r.Value, &r.SectionIndex); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Inquiry returns the stored fields of an inquiry submission.
func (s *Store) Inquiry(ctx context.Context, id string) (map[string]string, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value FROM inquiry_fields WHERE submission_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("store: inquiry %s: %w", id, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, rows.Err()
}
