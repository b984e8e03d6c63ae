package asqlite_test

import (
	"context"
	"fmt"
	"log"

	asqlite "github.com/tomyedwab/asqlite"
)

func ExampleWithConn() {
	ctx := context.Background()

	err := asqlite.WithConn(ctx, asqlite.Memory(), func(conn *asqlite.Conn) error {
		if _, err := conn.Exec(ctx, "CREATE TABLE planets (name TEXT, moons INTEGER)"); err != nil {
			return err
		}
		if _, err := conn.Exec(ctx, "INSERT INTO planets VALUES (?1, ?2)",
			asqlite.Text("Earth"), asqlite.Integer(1)); err != nil {
			return err
		}

		rows, err := conn.Query(ctx, "SELECT * FROM planets WHERE name = ?1", asqlite.Text("Earth"))
		if err != nil {
			return err
		}
		for _, row := range rows {
			name, _ := row.Value(0).AsText()
			moons, _ := row.Value(1).AsInteger()
			fmt.Printf("%s has %d moon(s)\n", name, moons)
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	// Output: Earth has 1 moon(s)
}

func ExampleConn_Query() {
	ctx := context.Background()

	err := asqlite.WithConn(ctx, asqlite.Memory(), func(conn *asqlite.Conn) error {
		rows, err := conn.Query(ctx, "SELECT ?1 + ?2", asqlite.Integer(40), asqlite.Integer(2))
		if err != nil {
			return err
		}
		sum, _ := rows[0].Value(0).AsInteger()
		fmt.Println(sum)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	// Output: 42
}
