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

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/rcliao/anger-log/internal/model"
)

// createdAtLayout is fixed-width so created_at sorts lexically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

const recordColumns = `id, date, situation, emotions, thoughts, evidence, counter_evidence,
	balanced_thinking, mood_before, mood_after, detected_distortions, created_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the logger used to report malformed stored data.
func WithLogger(l *zap.Logger) Option {
	return func(s *SQLiteStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection serializes writers; id assignment and insert then
	// happen as a unit.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:     db,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS anger_records (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		date                 TEXT NOT NULL,
		situation            TEXT NOT NULL,
		emotions             TEXT NOT NULL,
		thoughts             TEXT NOT NULL,
		evidence             TEXT NOT NULL,
		counter_evidence     TEXT NOT NULL,
		balanced_thinking    TEXT NOT NULL,
		mood_before          INTEGER NOT NULL,
		mood_after           INTEGER NOT NULL,
		detected_distortions TEXT NOT NULL,
		created_at           TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_created ON anger_records(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_records_date ON anger_records(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Create(ctx context.Context, r model.Record) (*model.Record, error) {
	rec := r.Clone()
	rec.CreatedAt = s.now().UTC()

	emotionsJSON, err := json.Marshal(rec.Emotions)
	if err != nil {
		return nil, fmt.Errorf("encode emotions: %w", err)
	}
	distortionsJSON, err := json.Marshal(rec.DetectedDistortions)
	if err != nil {
		return nil, fmt.Errorf("encode distortions: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO anger_records (date, situation, emotions, thoughts, evidence, counter_evidence,
		                            balanced_thinking, mood_before, mood_after, detected_distortions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Date, rec.Situation, string(emotionsJSON), rec.Thoughts, rec.Evidence,
		rec.CounterEvidence, rec.BalancedThinking, rec.MoodBefore, rec.MoodAfter,
		string(distortionsJSON), rec.CreatedAt.Format(createdAtLayout))
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	rec.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Record, error) {
	return s.query(ctx,
		`SELECT `+recordColumns+` FROM anger_records
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, p.limit(), p.offset())
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*model.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM anger_records WHERE id = ?`, id)
	rec, err := s.scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Record, error) {
	candidates, err := s.query(ctx,
		`SELECT `+recordColumns+` FROM anger_records
		 WHERE date BETWEEN ? AND ?
		 ORDER BY id`, start.Format(model.DateLayout), end.Format(model.DateLayout))
	if err != nil {
		return nil, err
	}

	// The lexical BETWEEN admits strings that are not real dates.
	out := candidates[:0]
	for _, rec := range candidates {
		if inDateRange(rec.Date, start, end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]model.Record, error) {
	return s.query(ctx, `SELECT `+recordColumns+` FROM anger_records ORDER BY id`)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...interface{}) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.Record{}
	for rows.Next() {
		rec, err := s.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanRecord(row scanner) (model.Record, error) {
	var r model.Record
	var emotions, distortions sql.NullString
	var createdAt string

	err := row.Scan(
		&r.ID, &r.Date, &r.Situation, &emotions, &r.Thoughts, &r.Evidence,
		&r.CounterEvidence, &r.BalancedThinking, &r.MoodBefore, &r.MoodAfter,
		&distortions, &createdAt,
	)
	if err != nil {
		return r, err
	}

	r.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		s.logger.Warn("using zero time for stored column",
			zap.Int64("record_id", r.ID), zap.String("column", "created_at"), zap.Error(err))
	}

	r.Emotions, err = decodeList[model.Emotion](emotions)
	if err != nil {
		s.logger.Warn("using empty list for stored column",
			zap.Int64("record_id", r.ID), zap.String("column", "emotions"), zap.Error(err))
	}
	r.DetectedDistortions, err = decodeList[model.Finding](distortions)
	if err != nil {
		s.logger.Warn("using empty list for stored column",
			zap.Int64("record_id", r.ID), zap.String("column", "detected_distortions"), zap.Error(err))
	}

	return r, nil
}

// parseCreatedAt parses a created_at column. On failure it returns the
// zero time together with an error wrapping ErrMalformedStoredData.
func parseCreatedAt(raw string) (time.Time, error) {
	t, err := time.Parse(createdAtLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedStoredData, err)
	}
	return t, nil
}

// decodeList decodes a JSON array column. On failure it returns an empty
// list together with an error wrapping ErrMalformedStoredData.
func decodeList[T any](raw sql.NullString) ([]T, error) {
	out := []T{}
	if !raw.Valid || raw.String == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return []T{}, fmt.Errorf("%w: %v", ErrMalformedStoredData, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
