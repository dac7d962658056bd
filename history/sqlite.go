package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lixenwraith/wa-tor/config"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) BeginRun(ctx context.Context, run RunInfo) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, width, height, fish_age_limit, shark_age_limit,
			shark_initial_energy, tick_duration_ms, strict_edges, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.StartedAt.UnixNano(), run.Width, run.Height,
		run.Config.FishAgeLimit, run.Config.SharkAgeLimit, run.Config.SharkInitialEnergy,
		run.Config.TickDurationMs, boolToInt(run.Config.StrictEdges), int64(run.Config.Seed))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Record(ctx context.Context, runID string, samples []Sample) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return nil
	}
	if ok, err := runExists(ctx, db, runID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO samples (run_id, tick, fish, sharks, simulate_ns)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sm := range samples {
		if _, err := stmt.ExecContext(ctx, runID, int64(sm.Tick), sm.Fish, sm.Sharks, sm.SimulateNs); err != nil {
			return fmt.Errorf("insert sample %d: %w", sm.Tick, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Samples(ctx context.Context, runID string) ([]Sample, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if ok, err := runExists(ctx, db, runID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT tick, fish, sharks, simulate_ns FROM samples
		WHERE run_id = ? ORDER BY tick
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var sm Sample
		var tick int64
		if err := rows.Scan(&tick, &sm.Fish, &sm.Sharks, &sm.SimulateNs); err != nil {
			return nil, err
		}
		sm.Tick = uint64(tick)
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Runs(ctx context.Context) ([]RunInfo, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, started_at, width, height, fish_age_limit, shark_age_limit,
			shark_initial_energy, tick_duration_ms, strict_edges, seed
		FROM runs ORDER BY started_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var (
			run       RunInfo
			cfg       config.Config
			startedAt int64
			strict    int
			seed      int64
		)
		if err := rows.Scan(&run.ID, &startedAt, &run.Width, &run.Height,
			&cfg.FishAgeLimit, &cfg.SharkAgeLimit, &cfg.SharkInitialEnergy,
			&cfg.TickDurationMs, &strict, &seed); err != nil {
			return nil, err
		}
		cfg.StrictEdges = strict != 0
		cfg.Seed = uint64(seed)
		run.Config = cfg
		run.StartedAt = time.Unix(0, startedAt)
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func runExists(ctx context.Context, db *sql.DB, runID string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			fish_age_limit INTEGER NOT NULL,
			shark_age_limit INTEGER NOT NULL,
			shark_initial_energy INTEGER NOT NULL,
			tick_duration_ms INTEGER NOT NULL,
			strict_edges INTEGER NOT NULL,
			seed INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS samples (
			run_id TEXT NOT NULL REFERENCES runs(id),
			tick INTEGER NOT NULL,
			fish INTEGER NOT NULL,
			sharks INTEGER NOT NULL,
			simulate_ns INTEGER NOT NULL,
			PRIMARY KEY (run_id, tick)
		);
	`)
	return err
}
