package asqlite

import (
	"context"
	"database/sql/driver"
	"sync"
)

// Stmt is a prepared statement kept alive across invocations, for callers
// that re-issue the same SQL repeatedly. It is bound to the worker of the
// connection that prepared it and is finalized by Close, or automatically
// when the owning connection closes.
type Stmt struct {
	conn *Conn
	sql  string

	mu     sync.Mutex // Protects closed
	closed bool

	// Owned by the connection's worker.
	st driver.Stmt
}

// Prepare compiles sql against the connection for repeated execution. The
// returned statement must be closed when no longer needed; the basic
// Query/Exec path does not require Prepare and finalizes its statement per
// invocation.
func (c *Conn) Prepare(ctx context.Context, sql string) (*Stmt, error) {
	s := &Stmt{conn: c, sql: sql}
	var err error
	if serr := c.submit(ctx, "prepare", func() {
		s.st, err = c.db.Prepare(sql)
		if err != nil {
			err = mapEngineError("prepare", err)
			return
		}
		c.stmts[s] = struct{}{}
	}); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SQL returns the statement's SQL text.
func (s *Stmt) SQL() string {
	return s.sql
}

// Query executes the prepared statement with the given parameters and
// returns the resulting rows. Binding rules match Conn.Query.
func (s *Stmt) Query(ctx context.Context, params ...Value) ([]Row, error) {
	var rows []Row
	var err error
	if serr := s.submit(ctx, "query", func() {
		if s.st == nil {
			err = newClosedError("query")
			return
		}
		var args []driver.Value
		args, err = bindParams(s.st, params)
		if err != nil {
			return
		}
		var raw driver.Rows
		raw, err = s.st.Query(args)
		if err != nil {
			err = mapEngineError("query", err)
			return
		}
		defer raw.Close()
		rows, err = stepRows(raw)
	}); serr != nil {
		return nil, serr
	}
	return rows, err
}

// Exec executes the prepared statement with the given parameters and
// returns the engine's change counters.
func (s *Stmt) Exec(ctx context.Context, params ...Value) (ExecResult, error) {
	var result ExecResult
	var err error
	if serr := s.submit(ctx, "exec", func() {
		if s.st == nil {
			err = newClosedError("exec")
			return
		}
		var args []driver.Value
		args, err = bindParams(s.st, params)
		if err != nil {
			return
		}
		result, err = execPrepared(s.st, args)
	}); serr != nil {
		return ExecResult{}, serr
	}
	return result, err
}

// Close finalizes the statement on the connection's worker. It is
// idempotent. Closing the owning connection finalizes the statement as
// well, after which any use fails with a closed error.
func (s *Stmt) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var closeErr error
	if serr := s.conn.submit(context.Background(), "close statement", func() {
		delete(s.conn.stmts, s)
		if err := s.st.Close(); err != nil {
			closeErr = mapEngineError("finalize", err)
		}
		s.st = nil
	}); serr != nil {
		// The connection already closed and finalized the statement for us.
		return nil
	}
	return closeErr
}

// submit routes a unit of work through the owning connection's worker,
// rejecting statements that were already closed.
func (s *Stmt) submit(ctx context.Context, op string, job func()) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return newClosedError(op)
	}
	s.mu.Unlock()
	return s.conn.submit(ctx, op, job)
}

// markClosed flags the statement as closed on behalf of the connection's
// close path.
func (s *Stmt) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
