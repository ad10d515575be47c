// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/rs/zerolog"

	"github.com/apex-learning/course-recommender/internal/config"
	"github.com/apex-learning/course-recommender/internal/logging"
	"github.com/apex-learning/course-recommender/internal/metrics"
	"github.com/apex-learning/course-recommender/internal/recommend"
)

// Supported drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

// Change reasons carried by ChangeEvent.
const (
	ReasonUpsert    = "upsert"
	ReasonPublished = "published"
)

// Course is a stored catalog row: the recommender's view of a course plus
// the catalog bookkeeping columns.
type Course struct {
	recommend.CourseRecord `yaml:",inline"`

	Published bool      `json:"is_published" yaml:"is_published"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// ChangePublisher is notified after committed catalog mutations.
type ChangePublisher interface {
	PublishChanged(ctx context.Context, reason string, courseIDs []string) error
}

// Store is the SQL-backed course catalog. It is safe for concurrent use.
type Store struct {
	conn   *sql.DB
	driver string
	events ChangePublisher
	logger zerolog.Logger
	now    func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithEvents publishes a change event after every committed mutation.
func WithEvents(p ChangePublisher) Option {
	return func(s *Store) {
		s.events = p
	}
}

// WithLogger sets the store logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open connects to the configured database and creates the schema.
func Open(ctx context.Context, cfg *config.CatalogConfig, opts ...Option) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("catalog config is required")
	}

	driverName, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	if !isMemoryPath(cfg.Path) {
		dir := filepath.Dir(cfg.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create catalog directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	s := &Store{
		conn:   conn,
		driver: cfg.Driver,
		logger: logging.Logger().With().Str("component", "catalog").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.configureConnectionPool()

	if err := s.initialize(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	s.logger.Info().Str("driver", cfg.Driver).Str("path", cfg.Path).Msg("Catalog store opened")
	return s, nil
}

// dataSource maps the catalog config to a database/sql driver name and DSN.
func dataSource(cfg *config.CatalogConfig) (driverName, dsn string, err error) {
	switch cfg.Driver {
	case DriverDuckDB:
		threads := cfg.Threads
		if threads <= 0 {
			threads = runtime.NumCPU()
		}
		path := cfg.Path
		params := fmt.Sprintf("threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false", threads)
		if isMemoryPath(path) {
			path = ":memory:"
		} else {
			params = "access_mode=read_write&" + params
		}
		if cfg.MaxMemory != "" {
			params += "&max_memory=" + cfg.MaxMemory
		}
		return "duckdb", path + "?" + params, nil

	case DriverSQLite:
		if isMemoryPath(cfg.Path) {
			return "sqlite3", ":memory:", nil
		}
		return "sqlite3", "file:" + cfg.Path + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(wal)", nil

	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

func isMemoryPath(path string) bool {
	return path == "" || path == ":memory:"
}

// configureConnectionPool sizes the pool for the driver. SQLite allows one
// writer, and an in-memory SQLite database exists per connection, so it is
// pinned to a single connection.
func (s *Store) configureConnectionPool() {
	if s.driver == DriverSQLite {
		s.conn.SetMaxOpenConns(1)
		s.conn.SetMaxIdleConns(1)
		s.conn.SetConnMaxLifetime(0)
		s.conn.SetConnMaxIdleTime(0)
		return
	}
	s.conn.SetMaxOpenConns(runtime.NumCPU())
	s.conn.SetMaxIdleConns(2)
	s.conn.SetConnMaxLifetime(time.Hour)
	s.conn.SetConnMaxIdleTime(5 * time.Minute)
}

func (s *Store) initialize(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, createCoursesTable); err != nil {
		return fmt.Errorf("create apex_courses: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping checks if the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// ListPublished returns every published course in load order.
func (s *Store) ListPublished(ctx context.Context) (records []recommend.CourseRecord, err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogQuery("list_published", time.Since(start), err) }()

	rows, err := s.conn.QueryContext(ctx, selectPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to query published courses: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, c.CourseRecord)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read published courses: %w", err)
	}
	return records, nil
}

// Get returns one course, published or not.
func (s *Store) Get(ctx context.Context, id string) (course *Course, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrCourseNotFound) {
			metrics.RecordCatalogQuery("get", time.Since(start), nil)
			return
		}
		metrics.RecordCatalogQuery("get", time.Since(start), err)
	}()

	c, err := scanCourse(s.conn.QueryRowContext(ctx, selectByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert inserts or updates courses in one transaction and returns the
// number written. When the same id appears more than once the last record
// wins. A single change event is published after commit.
func (s *Store) Upsert(ctx context.Context, courses ...Course) (written int, err error) {
	if len(courses) == 0 {
		return 0, nil
	}

	start := time.Now()
	defer func() { metrics.RecordCatalogQuery("upsert", time.Since(start), err) }()

	batch, err := dedupe(courses)
	if err != nil {
		return 0, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Warn().Err(rbErr).Msg("Failed to roll back catalog upsert")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertCourse)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer closeQuietly(stmt)

	now := s.now().UTC()
	ids := make([]string, 0, len(batch))
	for i := range batch {
		c := &batch[i]
		created := c.CreatedAt
		if created.IsZero() {
			// Offset by position so new courses keep batch order.
			created = now.Add(time.Duration(i) * time.Microsecond)
		}
		if _, err = stmt.ExecContext(ctx,
			c.ID, c.Title, c.Description, c.Instructor, c.Price, c.Category, c.Difficulty,
			c.VideoURL, c.CoverImage, c.Tags, int64(c.DurationHours), int64(c.TotalEnrollments), c.AverageRating,
			c.Platform, c.ExternalURL, c.ThumbnailURL, c.Published, created.UnixMicro(), now.UnixMicro(),
		); err != nil {
			return 0, fmt.Errorf("failed to upsert course %s: %w", c.ID, err)
		}
		ids = append(ids, c.ID)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}

	s.logger.Debug().Int("courses", len(ids)).Msg("Catalog courses upserted")
	s.notify(ctx, ReasonUpsert, ids)
	return len(ids), nil
}

// SetPublished changes a course's visibility to the recommender.
func (s *Store) SetPublished(ctx context.Context, id string, published bool) (err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogQuery("set_published", time.Since(start), err) }()

	res, err := s.conn.ExecContext(ctx, updatePublished, published, s.now().UTC().UnixMicro(), id)
	if err != nil {
		return fmt.Errorf("failed to update course %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrCourseNotFound, id)
	}

	s.logger.Debug().Str("course_id", id).Bool("published", published).Msg("Course visibility changed")
	s.notify(ctx, ReasonPublished, []string{id})
	return nil
}

// Count returns the total and published course counts.
func (s *Store) Count(ctx context.Context) (total, published int, err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogQuery("count", time.Since(start), err) }()

	var t, p int64
	if err := s.conn.QueryRowContext(ctx, countCourses).Scan(&t, &p); err != nil {
		return 0, 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return int(t), int(p), nil
}

// notify publishes a change event. Publishing failures are logged, not
// returned: the write itself has already committed.
func (s *Store) notify(ctx context.Context, reason string, ids []string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChanged(ctx, reason, ids); err != nil {
		s.logger.Warn().Err(err).Str("reason", reason).Msg("Failed to publish catalog change event")
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (Course, error) {
	var (
		c                    Course
		duration, enrolled   int64
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Instructor, &c.Price, &c.Category, &c.Difficulty,
		&c.VideoURL, &c.CoverImage, &c.Tags, &duration, &enrolled, &c.AverageRating,
		&c.Platform, &c.ExternalURL, &c.ThumbnailURL, &c.Published, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return c, err
	}
	if err != nil {
		return c, fmt.Errorf("failed to scan course: %w", err)
	}
	c.DurationHours = int(duration)
	c.TotalEnrollments = int(enrolled)
	c.CreatedAt = time.UnixMicro(createdAt).UTC()
	c.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return c, nil
}

// dedupe validates the batch and keeps the last record per id, in order of
// first appearance.
func dedupe(courses []Course) ([]Course, error) {
	index := make(map[string]int, len(courses))
	out := make([]Course, 0, len(courses))
	for i := range courses {
		c := courses[i]
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrInvalidCourse, i)
		}
		if strings.TrimSpace(c.Title) == "" {
			return nil, fmt.Errorf("%w: course %s has no title", ErrInvalidCourse, c.ID)
		}
		if pos, ok := index[c.ID]; ok {
			out[pos] = c
			continue
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	return out, nil
}

// closeQuietly closes a resource, ignoring any error.
func closeQuietly(c io.Closer) {
	_ = c.Close() //nolint:errcheck // best-effort cleanup
}
