package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Polarity is a user relevance judgment: +1 relevant, -1 not relevant.
type Polarity int

const (
	Liked    Polarity = 1
	Disliked Polarity = -1
)

// Entry is one appended judgment. Entries are never updated or deleted;
// repeated feedback on the same job produces multiple rows, and consumers
// needing "latest judgment per job" must reduce on their side.
type Entry struct {
	JobTitle  string
	Company   string
	Source    string
	Location  string
	URL       string
	EmbScore  float64
	Polarity  Polarity
	CreatedAt time.Time
}

// Store is an append-only log of relevance judgments backed by sqlite.
// The single-connection pool serializes writes; readers see either the
// pre- or post-write state, never a partial row.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the feedback database at path and runs
// the schema migration.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open feedback db: %w", err)
	}

	// sqlite wants a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping feedback db: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate feedback db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS feedback (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  job_title TEXT NOT NULL DEFAULT '',
  company TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  emb_score REAL NOT NULL DEFAULT 0,
  feedback INTEGER NOT NULL,
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_feedback_polarity_created
ON feedback(feedback, created_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// Record appends one judgment. The write is durable before Record returns;
// any failure propagates to the caller.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if entry.Polarity != Liked && entry.Polarity != Disliked {
		return fmt.Errorf("invalid polarity %d: must be +1 or -1", entry.Polarity)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO feedback (job_title, company, source, location, url, emb_score, feedback, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		entry.JobTitle,
		entry.Company,
		entry.Source,
		entry.Location,
		entry.URL,
		entry.EmbScore,
		int(entry.Polarity),
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	return nil
}

// Recent returns up to limit judgments of the given polarity, newest
// first, projected as "{title} ({source})" display strings.
func (s *Store) Recent(ctx context.Context, polarity Polarity, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT job_title, source
FROM feedback
WHERE feedback = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`,
		int(polarity), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var title, source string
		if err := rows.Scan(&title, &source); err != nil {
			return nil, err
		}
		out = append(out, fmt.Sprintf("%s (%s)", title, source))
	}

	return out, rows.Err()
}

// RecentExamples returns the most recent liked and disliked examples,
// up to limit entries of each polarity.
func (s *Store) RecentExamples(ctx context.Context, limit int) (liked, disliked []string, err error) {
	liked, err = s.Recent(ctx, Liked, limit)
	if err != nil {
		return nil, nil, err
	}

	disliked, err = s.Recent(ctx, Disliked, limit)
	if err != nil {
		return nil, nil, err
	}

	return liked, disliked, nil
}
