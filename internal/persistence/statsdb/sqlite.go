// Package statsdb keeps a SQLite ledger of leaf runs so harvests, trades and
// failures can be queried after the fact.
package statsdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"harvestbot.ai/internal/bt"
)

type Ledger struct {
	db  *sql.DB
	bot string

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	// mu orders sends on ch against close(ch).
	mu     sync.RWMutex
	closed bool

	errMu   sync.Mutex
	onError func(error)

	dropTotal atomic.Uint64
}

type req struct {
	run   leafRun
	flush chan struct{}
}

type leafRun struct {
	At        time.Time
	Leaf      string
	Status    bt.Status
	ElapsedUS int64
}

const queueSize = 4096

func Open(path, bot string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	l := &Ledger{db: db, bot: bot, ch: make(chan req, queueSize)}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.loop()
	}()
	return l, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS leaf_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at TEXT NOT NULL,
			bot TEXT NOT NULL,
			leaf TEXT NOT NULL,
			success INTEGER NOT NULL,
			elapsed_us INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_leaf_runs_leaf ON leaf_runs(leaf, success);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) Close() error {
	var err error
	l.once.Do(func() {
		l.mu.Lock()
		l.closed = true
		close(l.ch)
		l.mu.Unlock()
		l.wg.Wait()
		err = l.db.Close()
	})
	return err
}

var _ bt.Tracer = (*Ledger)(nil)

// LeafDone queues one leaf run. Runs are dropped, and counted, when the
// writer falls behind.
func (l *Ledger) LeafDone(name string, status bt.Status, elapsed time.Duration) {
	if l == nil {
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	select {
	case l.ch <- req{run: leafRun{At: time.Now().UTC(), Leaf: name, Status: status, ElapsedUS: elapsed.Microseconds()}}:
	default:
		l.dropTotal.Add(1)
	}
}

// Dropped is the number of runs lost to a full queue.
func (l *Ledger) Dropped() uint64 { return l.dropTotal.Load() }

// Sync blocks until every run queued before it is committed.
func (l *Ledger) Sync(ctx context.Context) error {
	done, err := l.queueFlush(ctx)
	if err != nil || done == nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// queueFlush returns a nil channel once the ledger is closed.
func (l *Ledger) queueFlush(ctx context.Context) (chan struct{}, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, nil
	}
	done := make(chan struct{})
	select {
	case l.ch <- req{flush: done}:
		return done, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// OnError sets the handler for write failures. Writes run in the
// background, so this is the only place they surface.
func (l *Ledger) OnError(fn func(error)) {
	l.errMu.Lock()
	l.onError = fn
	l.errMu.Unlock()
}

func (l *Ledger) report(op string, err error) {
	l.errMu.Lock()
	fn := l.onError
	l.errMu.Unlock()
	if fn != nil {
		fn(fmt.Errorf("statsdb %s: %w", op, err))
	}
}

func (l *Ledger) loop() {
	ctx := context.Background()
	insert, err := l.db.Prepare(`INSERT INTO leaf_runs(at,bot,leaf,success,elapsed_us) VALUES(?,?,?,?,?)`)
	if err != nil {
		l.report("prepare", err)
	}
	defer func() {
		if insert != nil {
			_ = insert.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = 2 * time.Second
	)
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			l.report("commit", err)
		}
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range l.ch {
		if r.flush != nil {
			commit()
			close(r.flush)
			continue
		}
		if insert == nil {
			continue
		}
		if tx == nil {
			txx, err := l.db.BeginTx(ctx, nil)
			if err != nil {
				l.report("begin", err)
				time.Sleep(50 * time.Millisecond)
				continue
			}
			tx = txx
		}
		success := 0
		if r.run.Status == bt.Success {
			success = 1
		}
		if _, err := tx.Stmt(insert).Exec(r.run.At.Format(time.RFC3339Nano), l.bot, r.run.Leaf, success, r.run.ElapsedUS); err != nil {
			l.report("insert", err)
			_ = tx.Rollback()
			tx = nil
			opCount = 0
			continue
		}
		opCount++
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}
	commit()
}

// LeafStats aggregates the runs of one leaf.
type LeafStats struct {
	Leaf      string
	Successes int
	Failures  int
	TotalUS   int64
}

// Leaves returns per-leaf totals ordered by leaf name.
func (l *Ledger) Leaves(ctx context.Context) ([]LeafStats, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT leaf, SUM(success), SUM(1 - success), SUM(elapsed_us)
		FROM leaf_runs GROUP BY leaf ORDER BY leaf`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LeafStats
	for rows.Next() {
		var s LeafStats
		if err := rows.Scan(&s.Leaf, &s.Successes, &s.Failures, &s.TotalUS); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Summary is the farm output as seen from the leaves.
type Summary struct {
	Harvests  int
	Trades    int
	Crafts    int
	Failures  int
	LeafCalls int
}

func (l *Ledger) Summary(ctx context.Context) (Summary, error) {
	leaves, err := l.Leaves(ctx)
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	for _, st := range leaves {
		s.LeafCalls += st.Successes + st.Failures
		s.Failures += st.Failures
		switch st.Leaf {
		case "CollectCropsAndReplant":
			s.Harvests += st.Successes
		case "Trade":
			s.Trades += st.Successes
		case "Craft":
			s.Crafts += st.Successes
		}
	}
	return s, nil
}
