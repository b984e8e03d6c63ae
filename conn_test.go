package asqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenCloseMemory(t *testing.T) {
	ctx := context.Background()

	conn, err := Open(ctx, Memory())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Close is idempotent.
	if err := conn.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}

	// Any operation after close is a state error, never a crash or hang.
	if _, err := conn.Query(ctx, "SELECT 1"); !IsClosed(err) {
		t.Errorf("Query after Close returned %v, want connection-closed error", err)
	}
	if _, err := conn.Exec(ctx, "CREATE TABLE t (x)"); !IsClosed(err) {
		t.Errorf("Exec after Close returned %v, want connection-closed error", err)
	}
	if _, err := conn.Prepare(ctx, "SELECT 1"); !IsClosed(err) {
		t.Errorf("Prepare after Close returned %v, want connection-closed error", err)
	}
}

func TestVersionQuery(t *testing.T) {
	ctx := context.Background()

	err := WithConn(ctx, Memory(), func(conn *Conn) error {
		rows, err := conn.Query(ctx, "SELECT sqlite_version()")
		if err != nil {
			return err
		}
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
		if rows[0].Len() != 1 {
			t.Fatalf("got %d columns, want 1", rows[0].Len())
		}
		version, ok := rows[0].Value(0).AsText()
		if !ok {
			t.Fatal("version column is not text")
		}
		if !strings.HasPrefix(version, "3.") {
			t.Errorf("sqlite_version() = %q, want a 3.x version string", version)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithConn failed: %v", err)
	}
}

func TestOpenFileCreatesDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "planets.db")

	err := WithConn(ctx, File(path), func(conn *Conn) error {
		_, err := conn.Exec(ctx, "CREATE TABLE planets (name TEXT)")
		return err
	})
	if err != nil {
		t.Fatalf("WithConn failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file was not created: %v", err)
	}

	// Reopen without create permission; the file exists now.
	err = WithConn(ctx, File(path), func(conn *Conn) error {
		_, err := conn.Query(ctx, "SELECT name FROM planets")
		return err
	}, NoCreate())
	if err != nil {
		t.Fatalf("reopening existing file with NoCreate failed: %v", err)
	}
}

func TestOpenMissingFileNoCreate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := Open(ctx, File(path), NoCreate())
	if err == nil {
		t.Fatal("Open() succeeded on a missing file with NoCreate")
	}
	if reason, ok := ReasonOf(err); !ok || reason != ReasonCantOpen {
		t.Errorf("Open() error = %v, want reason %v", err, ReasonCantOpen)
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "readonly.db")

	err := WithConn(ctx, File(path), func(conn *Conn) error {
		_, err := conn.Exec(ctx, "CREATE TABLE planets (name TEXT)")
		return err
	})
	if err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	err = WithConn(ctx, File(path), func(conn *Conn) error {
		if _, err := conn.Query(ctx, "SELECT name FROM planets"); err != nil {
			t.Errorf("read on read-only connection failed: %v", err)
		}
		_, err := conn.Exec(ctx, "INSERT INTO planets VALUES ('Pluto')")
		if err == nil {
			t.Error("write on read-only connection succeeded")
		} else if reason, ok := ReasonOf(err); !ok || reason != ReasonReadOnly {
			t.Errorf("write error = %v, want reason %v", err, ReasonReadOnly)
		}
		return nil
	}, ReadOnly())
	if err != nil {
		t.Fatalf("WithConn failed: %v", err)
	}
}

func TestCancelledBeforeDispatch(t *testing.T) {
	ctx := context.Background()

	conn, err := Open(ctx, Memory())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer conn.Close()

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	if _, err := conn.Query(cancelled, "SELECT 1"); !IsCancelled(err) {
		t.Errorf("Query with cancelled context returned %v, want cancellation error", err)
	}

	// The connection is unaffected and still serves work.
	rows, err := conn.Query(ctx, "SELECT 1")
	if err != nil {
		t.Fatalf("Query after cancellation failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
}

func TestWithConnClosesOnError(t *testing.T) {
	ctx := context.Background()
	bodyErr := errors.New("body failed")

	var leaked *Conn
	err := WithConn(ctx, Memory(), func(conn *Conn) error {
		leaked = conn
		return bodyErr
	})
	if !errors.Is(err, bodyErr) {
		t.Fatalf("WithConn returned %v, want the body error", err)
	}

	if _, err := leaked.Query(ctx, "SELECT 1"); !IsClosed(err) {
		t.Errorf("connection still usable after WithConn error path: %v", err)
	}
}

func TestOpenWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Open(ctx, Memory()); !IsCancelled(err) {
		t.Errorf("Open with cancelled context returned %v, want cancellation error", err)
	}
}
