package asqlite

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

// engine is the shared driver instance used to allocate native handles.
// Each handle is exclusively owned by one Conn's worker afterwards.
var engine = &sqlite3.SQLiteDriver{}

// Storage selects where a database lives: in memory or in a file.
type Storage struct {
	memory bool
	path   string
}

// Memory selects a fresh private in-memory database.
func Memory() Storage {
	return Storage{memory: true}
}

// File selects the database file at the given path.
func File(path string) Storage {
	return Storage{path: path}
}

// String returns the storage location for diagnostics.
func (s Storage) String() string {
	if s.memory {
		return ":memory:"
	}
	return s.path
}

// dsn builds the engine's open URI for this storage and access flags.
func (s Storage) dsn(readOnly, noCreate bool) string {
	if s.memory {
		return ":memory:"
	}
	mode := "rwc"
	if noCreate {
		mode = "rw"
	}
	if readOnly {
		mode = "ro"
	}
	return "file:" + s.path + "?mode=" + mode
}

type openConfig struct {
	readOnly bool
	noCreate bool
	logger   *log.Logger
}

// OpenOption represents a functional option for configuring Open.
type OpenOption func(*openConfig)

// ReadOnly opens the database for reading only.
func ReadOnly() OpenOption {
	return func(cfg *openConfig) {
		cfg.readOnly = true
	}
}

// NoCreate fails the open instead of creating a missing database file.
func NoCreate() OpenOption {
	return func(cfg *openConfig) {
		cfg.noCreate = true
	}
}

// WithLogger sets the logger used for lifecycle and leak diagnostics.
// The default is the logrus standard logger.
func WithLogger(logger *log.Logger) OpenOption {
	return func(cfg *openConfig) {
		cfg.logger = logger
	}
}

// Conn is an open connection to one database. It owns the native engine
// handle and a single dedicated worker; every operation on the connection
// is a unit of work queued to that worker and executed in submission
// order. Conn is safe for concurrent use from multiple goroutines;
// concurrent operations are serialized, never interleaved.
//
// A Conn must be closed with Close (or opened through WithConn, which
// guarantees it). Discarding an open Conn leaks the engine handle; a
// debug finalizer detects this, logs a warning and releases the handle on
// the connection's own worker.
type Conn struct {
	id      string
	storage Storage
	logger  *log.Logger

	mu     sync.Mutex // Protects closed, funcs and job submission ordering
	closed bool
	funcs  map[funcKey]struct{}

	w *worker

	// Owned by the worker goroutine. No other goroutine may touch these.
	db    *sqlite3.SQLiteConn
	stmts map[*Stmt]struct{}
}

// Open allocates a native handle for the given storage and binds it to a
// new dedicated worker. The engine-level open runs on that worker. On
// failure (file not accessible, corrupt header, ...) the worker is torn
// down and the engine's error is surfaced.
func Open(ctx context.Context, storage Storage, opts ...OpenOption) (*Conn, error) {
	cfg := openConfig{logger: log.StandardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ctx.Err(); err != nil {
		return nil, newCancelledError("open", err)
	}

	c := &Conn{
		id:      uuid.NewString(),
		storage: storage,
		logger:  cfg.logger,
		funcs:   make(map[funcKey]struct{}),
		w:       newWorker(),
		stmts:   make(map[*Stmt]struct{}),
	}

	dsn := storage.dsn(cfg.readOnly, cfg.noCreate)
	var openErr error
	finished := make(chan struct{})
	c.w.jobs <- func() {
		defer close(finished)
		ci, err := engine.Open(dsn)
		if err != nil {
			openErr = mapEngineError("open", err)
			return
		}
		c.db = ci.(*sqlite3.SQLiteConn)
	}
	<-finished

	if openErr != nil {
		c.w.shutdown()
		return nil, openErr
	}

	runtime.SetFinalizer(c, (*Conn).finalize)
	c.logger.WithFields(log.Fields{
		"connection": c.id,
		"storage":    storage.String(),
	}).Debug("asqlite: opened database")
	return c, nil
}

// WithConn opens a connection, runs body with it, and closes it on every
// exit path. This is the preferred way to use a connection with a bounded
// lifetime. The body's error takes precedence; a close failure is only
// surfaced when the body succeeded.
func WithConn(ctx context.Context, storage Storage, body func(*Conn) error, opts ...OpenOption) error {
	conn, err := Open(ctx, storage, opts...)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := body(conn); err != nil {
		return err
	}
	return conn.Close()
}

// ID returns the connection's unique identifier, as used in diagnostics.
func (c *Conn) ID() string {
	return c.id
}

// Storage returns the storage this connection was opened on.
func (c *Conn) Storage() Storage {
	return c.storage
}

// submit queues a unit of work onto the connection's worker and waits for
// it to complete. If ctx is already cancelled the work is never enqueued
// and a cancellation error is returned; once dispatched, work always runs
// to completion because engine calls are not preemptible mid-step.
func (c *Conn) submit(ctx context.Context, op string, job func()) error {
	if err := ctx.Err(); err != nil {
		return newCancelledError(op, err)
	}

	finished := make(chan struct{})
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return newClosedError(op)
	}
	c.w.jobs <- func() {
		defer close(finished)
		job()
	}
	c.mu.Unlock()

	<-finished
	return nil
}

// Query executes sql on the connection's worker and returns the resulting
// rows. Parameters bind positionally: `?` takes the next unused ordinal
// starting at 1 and `?N` takes ordinal N, with mixed forms resolved by the
// engine. Supplying fewer values than the statement references is a bind
// error; missing parameters are never silently treated as NULL.
func (c *Conn) Query(ctx context.Context, sql string, params ...Value) ([]Row, error) {
	var rows []Row
	var err error
	if serr := c.submit(ctx, "query", func() {
		rows, err = queryStatement(c.db, sql, params)
	}); serr != nil {
		return nil, serr
	}
	return rows, err
}

// Exec executes a mutating statement on the connection's worker and
// returns the engine's change counters. Parameter binding follows the
// same rules as Query.
func (c *Conn) Exec(ctx context.Context, sql string, params ...Value) (ExecResult, error) {
	var result ExecResult
	var err error
	if serr := c.submit(ctx, "exec", func() {
		result, err = execStatement(c.db, sql, params)
	}); serr != nil {
		return ExecResult{}, serr
	}
	return result, err
}

// Close finalizes any outstanding prepared statements and releases the
// native handle, on the connection's worker, then stops the worker. Close
// is idempotent; any other operation after Close fails with a
// connection-closed error.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	var closeErr error
	finished := make(chan struct{})
	c.w.jobs <- func() {
		defer close(finished)
		for stmt := range c.stmts {
			stmt.markClosed()
			stmt.st.Close()
			stmt.st = nil
		}
		c.stmts = make(map[*Stmt]struct{})
		if err := c.db.Close(); err != nil {
			closeErr = mapEngineError("close", err)
		}
	}
	c.w.shutdown()
	c.mu.Unlock()

	runtime.SetFinalizer(c, nil)
	<-finished
	<-c.w.done

	c.logger.WithFields(log.Fields{
		"connection": c.id,
		"storage":    c.storage.String(),
	}).Debug("asqlite: closed database")
	return closeErr
}

// finalize is the debug check for connections discarded while still open.
// Failing to close leaks engine-side memory and file descriptors, so the
// handle is released here, still on the connection's own worker rather
// than the finalizer goroutine.
func (c *Conn) finalize() {
	c.logger.WithFields(log.Fields{
		"connection": c.id,
		"storage":    c.storage.String(),
	}).Warn("asqlite: connection became unreachable without Close; releasing engine handle")

	c.w.jobs <- func() {
		for stmt := range c.stmts {
			stmt.st.Close()
		}
		c.db.Close()
	}
	c.w.shutdown()
}
