// Package store persists learner progress in a local SQLite file.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/oklog/ulid/v2"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"

	"github.com/mindquest/coach/internal/progress"
)

var (
	_ progress.LessonStore  = (*Store)(nil)
	_ progress.RunStore     = (*Store)(nil)
	_ progress.MetricsStore = (*Store)(nil)
	_ progress.RunHistory   = (*Store)(nil)
	_ progress.Atomic       = (*Store)(nil)
)

// conn is what the queries run against: the driver, or one transaction.
type conn interface {
	dialect.ExecQuerier
	Dialect() string
}

// txConn binds an ent transaction to the driver's dialect.
type txConn struct {
	dialect.Tx
	name string
}

func (c txConn) Dialect() string { return c.name }

// Store implements the progress store interfaces over SQLite.
type Store struct {
	db   *sql.DB
	drv  *entsql.Driver
	conn conn
	ids  *idSource
	now  func() time.Time
}

// idSource generates monotonic ULIDs.
type idSource struct {
	mu      sync.Mutex
	entropy io.Reader
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	ctx := context.Background()

	migrate, err := schema.NewMigrate(drv)
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	if err := migrate.Create(ctx, Tables...); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	if err := seedSequence(ctx, drv); err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{
		db:   db,
		drv:  drv,
		conn: drv,
		ids:  &idSource{entropy: ulid.Monotonic(rand.Reader, 0)},
		now:  time.Now,
	}, nil
}

// InTx runs fn against a copy of s bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(progress.Stores) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	ts := *s
	ts.conn = txConn{Tx: tx, name: s.drv.Dialect()}

	if err := fn(progress.Stores{Lessons: &ts, Runs: &ts, Metrics: &ts}); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

func (s *Store) newID(t time.Time) (string, error) {
	s.ids.mu.Lock()
	defer s.ids.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(t), s.ids.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// withPragmas adds per-connection pragmas to the DSN so every pooled
// connection gets them, not only the one applyPragmas ran on. Transactions
// begin IMMEDIATE so a completion holds the write lock from its first read.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. MINDQUEST_DB environment variable
// 2. $XDG_DATA_HOME/mindquest/mindquest.db
// 3. ~/.local/share/mindquest/mindquest.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MINDQUEST_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "mindquest", "mindquest.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
