// Package asqlite provides an asynchronous client interface to the
// embedded SQLite engine.
//
// The engine's native API is blocking and connection-affine: a handle must
// never be used from more than one thread at a time. This package bridges
// that model into ordinary Go concurrency by giving every connection a
// single dedicated worker goroutine. Each operation is a unit of work
// queued onto that worker and executed in submission order; the caller's
// goroutine simply blocks until its work completes, so connections are
// safe for concurrent use from any number of goroutines while the handle
// itself is only ever touched by its worker. Distinct connections execute
// fully independently.
//
// # Basic Usage
//
//	ctx := context.Background()
//	err := asqlite.WithConn(ctx, asqlite.Memory(), func(conn *asqlite.Conn) error {
//		if _, err := conn.Exec(ctx, "CREATE TABLE planets (name TEXT, moons INTEGER)"); err != nil {
//			return err
//		}
//		if _, err := conn.Exec(ctx, "INSERT INTO planets VALUES (?1, ?2)",
//			asqlite.Text("Earth"), asqlite.Integer(1)); err != nil {
//			return err
//		}
//
//		rows, err := conn.Query(ctx, "SELECT * FROM planets WHERE name = ?1", asqlite.Text("Earth"))
//		if err != nil {
//			return err
//		}
//		for _, row := range rows {
//			if name, ok := row.Column("name"); ok {
//				text, _ := name.AsText()
//				log.Printf("planet: %s", text)
//			}
//		}
//		return nil
//	})
//
// WithConn guarantees the connection is closed on every exit path. The
// raw Open/Close pair is available for connections with longer lifetimes;
// a connection discarded without Close is detected and logged as a leak.
//
// # Values
//
// Query parameters and result columns are represented by the Value tagged
// union over the engine's storage classes: null, integer, float, text and
// blob. Typed accessors coerce between numeric classes and report
// absence, rather than failing, when asked for an incompatible class:
//
//	if moons, ok := row.Value(1).AsInteger(); ok {
//		// column held an integer (or a float / numeric text)
//	}
//
// # Error Handling
//
// Every failure surfaces as an *Error carrying a symbolic Reason drawn
// from the engine's result-code space plus the engine's diagnostic
// message:
//
//	if _, err := conn.Exec(ctx, "INSERT ..."); err != nil {
//		if asqlite.IsConstraintViolation(err) {
//			// handle duplicate
//		} else if asqlite.IsBusy(err) {
//			// retry is a caller-level policy; nothing is retried here
//		}
//	}
//
// # Cancellation
//
// Operations accept a context, honored before dispatch only: work that
// has reached the worker always runs to completion, because an engine
// call cannot be interrupted safely mid-step. The engine layer has no
// timeout primitive; layer deadlines above this package if needed.
package asqlite
