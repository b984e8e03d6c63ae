package asqlite

import (
	"database/sql/driver"
	"io"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// ExecResult carries the engine's change counters for a mutating
// statement.
type ExecResult struct {
	// LastInsertID is the rowid of the most recent successful INSERT.
	LastInsertID int64
	// RowsAffected is the number of rows changed by the statement.
	RowsAffected int64
}

// The functions below implement the prepare → bind → step → finalize
// pipeline for one SQL text. They must only ever run on the worker that
// owns the handle, and they finalize the prepared statement on every path,
// success or failure.

// queryStatement prepares sql, binds params, steps every row through the
// value codec and finalizes the statement.
func queryStatement(db *sqlite3.SQLiteConn, sql string, params []Value) ([]Row, error) {
	st, err := db.Prepare(sql)
	if err != nil {
		return nil, mapEngineError("prepare", err)
	}
	defer st.Close()

	args, err := bindParams(st, params)
	if err != nil {
		return nil, err
	}
	rows, err := st.Query(args)
	if err != nil {
		return nil, mapEngineError("query", err)
	}
	defer rows.Close()
	return stepRows(rows)
}

// execStatement prepares sql, binds params, runs the statement to
// completion and reports the engine's change counters.
func execStatement(db *sqlite3.SQLiteConn, sql string, params []Value) (ExecResult, error) {
	st, err := db.Prepare(sql)
	if err != nil {
		return ExecResult{}, mapEngineError("prepare", err)
	}
	defer st.Close()

	args, err := bindParams(st, params)
	if err != nil {
		return ExecResult{}, err
	}
	return execPrepared(st, args)
}

// bindParams checks the supplied values against the number of placeholders
// the statement references and converts them to the engine's bind
// representation. Placeholder ordinal resolution (`?` auto-increment,
// `?N` explicit, and mixtures of the two) is entirely the engine's;
// NumInput reports the highest ordinal it resolved.
func bindParams(st driver.Stmt, params []Value) ([]driver.Value, error) {
	if want := st.NumInput(); want >= 0 && want != len(params) {
		return nil, newBindError(want, len(params))
	}
	args := make([]driver.Value, len(params))
	for i, p := range params {
		args[i] = p.driverValue()
	}
	return args, nil
}

// stepRows drains the statement, decoding every column of every tuple into
// an immutable Row. A step error aborts the drain and propagates; the
// caller's deferred finalize still runs.
func stepRows(rows driver.Rows) ([]Row, error) {
	cols := rows.Columns()
	dest := make([]driver.Value, len(cols))

	var out []Row
	for {
		err := rows.Next(dest)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, mapEngineError("step", err)
		}
		vals := make([]Value, len(cols))
		for i, dv := range dest {
			vals[i] = fromDriver(dv)
		}
		out = append(out, Row{columns: cols, values: vals})
	}
	return out, nil
}

// execPrepared runs an already-prepared statement with bound args and
// reads the change counters.
func execPrepared(st driver.Stmt, args []driver.Value) (ExecResult, error) {
	res, err := st.Exec(args)
	if err != nil {
		return ExecResult{}, mapEngineError("exec", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return ExecResult{}, mapEngineError("exec", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return ExecResult{}, mapEngineError("exec", err)
	}
	return ExecResult{LastInsertID: lastID, RowsAffected: affected}, nil
}
