// Package store keeps a local SQLite history of fetched insight runs so a
// previous analysis can be reopened without calling the recommender again.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/unimatch/pkg/debug"
	"github.com/vanderheijden86/unimatch/pkg/insights"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS insights_runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	fetched_at    INTEGER NOT NULL,
	student_level TEXT    NOT NULL DEFAULT '',
	source        TEXT    NOT NULL DEFAULT '',
	course_count  INTEGER NOT NULL DEFAULT 0,
	top_course    TEXT    NOT NULL DEFAULT '',
	payload       TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_insights_runs_fetched ON insights_runs(fetched_at DESC);
`

// RunInfo is a stored run without its payload.
type RunInfo struct {
	ID           int64
	FetchedAt    time.Time
	StudentLevel string
	Source       string // "api:<level>", a file path, or "-"
	CourseCount  int
	TopCourse    string
}

// Run is a stored run with its decoded payload.
type Run struct {
	RunInfo
	Result *insights.Result
}

// Store wraps the history database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open history database: %w", err)
	}
	// :memory: databases exist per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	debug.Log("store: opened %s", path)
	return &Store{db: db, path: path, now: time.Now}, nil
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores res and returns the new run id. A nil result is rejected;
// an empty one is stored so the history reflects what upstream returned.
func (s *Store) Save(ctx context.Context, source string, res *insights.Result) (int64, error) {
	if res == nil {
		return 0, fmt.Errorf("saving run: nil result")
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("encoding run: %w", err)
	}

	top := ""
	if res.HasAnalysis() {
		top = res.Analysis[0].Course
	}

	out, err := s.db.ExecContext(ctx,
		`INSERT INTO insights_runs (fetched_at, student_level, source, course_count, top_course, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.now().UnixMilli(), res.StudentLevel, source, res.Len(), top, string(payload))
	if err != nil {
		return 0, fmt.Errorf("saving run: %w", err)
	}
	return out.LastInsertId()
}

// List returns the most recent runs first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]RunInfo, error) {
	query := `SELECT id, fetched_at, student_level, source, course_count, top_course
		FROM insights_runs ORDER BY fetched_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		var ms int64
		if err := rows.Scan(&info.ID, &ms, &info.StudentLevel, &info.Source, &info.CourseCount, &info.TopCourse); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		info.FetchedAt = time.UnixMilli(ms)
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// Get loads one run by id.
func (s *Store) Get(ctx context.Context, id int64) (*Run, error) {
	return s.queryRun(ctx, `SELECT id, fetched_at, student_level, source, course_count, top_course, payload
		FROM insights_runs WHERE id = ?`, id)
}

// Latest loads the most recent run.
func (s *Store) Latest(ctx context.Context) (*Run, error) {
	return s.queryRun(ctx, `SELECT id, fetched_at, student_level, source, course_count, top_course, payload
		FROM insights_runs ORDER BY fetched_at DESC, id DESC LIMIT 1`)
}

func (s *Store) queryRun(ctx context.Context, query string, args ...any) (*Run, error) {
	var run Run
	var ms int64
	var payload string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&run.ID, &ms, &run.StudentLevel, &run.Source, &run.CourseCount, &run.TopCourse, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading run: %w", err)
	}
	run.FetchedAt = time.UnixMilli(ms)

	res, err := insights.DecodeBytes([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", run.ID, err)
	}
	run.Result = res
	return &run, nil
}

// Prune deletes all but the newest keep runs and reports how many were
// removed. keep <= 0 keeps everything.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	out, err := s.db.ExecContext(ctx,
		`DELETE FROM insights_runs WHERE id NOT IN (
			SELECT id FROM insights_runs ORDER BY fetched_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, _ := out.RowsAffected()
	if n > 0 {
		debug.Log("store: pruned %d runs", n)
	}
	return n, nil
}
