// Command asqlite is a minimal interactive shell over the asqlite bridge.
// It reads one SQL statement per line from stdin; SELECTs print their rows
// tab-separated, everything else prints the affected row count.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	asqlite "github.com/tomyedwab/asqlite"
)

func main() {
	dbPath := flag.String("db", "", "Path to the database file (default: in-memory)")
	readOnly := flag.Bool("readonly", false, "Open the database read-only")
	flag.Parse()

	storage := asqlite.Memory()
	if *dbPath != "" {
		storage = asqlite.File(*dbPath)
	}
	var opts []asqlite.OpenOption
	if *readOnly {
		opts = append(opts, asqlite.ReadOnly())
	}

	ctx := context.Background()
	err := asqlite.WithConn(ctx, storage, func(conn *asqlite.Conn) error {
		fmt.Printf("Connected to %s\n", conn.Storage())
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("sql> ")
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == ".quit" || line == ".exit" {
				return nil
			}
			run(ctx, conn, line)
		}
	}, opts...)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, conn *asqlite.Conn, sql string) {
	if strings.HasPrefix(strings.ToLower(sql), "select") {
		rows, err := conn.Query(ctx, sql)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(rows) > 0 {
			fmt.Println(strings.Join(rows[0].Columns(), "\t"))
		}
		for _, row := range rows {
			fields := make([]string, row.Len())
			for i := 0; i < row.Len(); i++ {
				if text, ok := row.Value(i).AsText(); ok {
					fields[i] = text
				} else if row.Value(i).IsNull() {
					fields[i] = "NULL"
				} else {
					fields[i] = row.Value(i).String()
				}
			}
			fmt.Println(strings.Join(fields, "\t"))
		}
		fmt.Printf("(%d row(s))\n", len(rows))
		return
	}

	res, err := conn.Exec(ctx, sql)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("(%d row(s) affected)\n", res.RowsAffected)
}
