// Package demo runs the clause translator against an in-memory SQLite
// database.
package demo

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/canonical/sqlclause"
	"github.com/canonical/sqlclause/ast"
)

type Person struct {
	Name     string
	Height   int
	HomeTown string
}

const mappings = `
entities:
  Person:
    table: people
    columns:
      - {property: Name, column: name}
      - {property: Height, column: height_cm}
      - {property: HomeTown, column: home_town}
`

// Run creates a people table, queries it with generated clauses and moves
// one person to another town, writing what happens to w.
func Run(ctx context.Context, w io.Writer) error {
	registry, err := sqlclause.NewRegistryBuilder().
		LoadYAML(strings.NewReader(mappings), Person{}).
		Build()
	if err != nil {
		return err
	}

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return err
	}
	defer sqldb.Close()
	// Every connection to :memory: opens a new database.
	sqldb.SetMaxOpenConns(1)
	db := sqlclause.NewDB(sqldb)

	// Create the table
	_, err = sqldb.ExecContext(ctx, `
		CREATE TABLE people (
			name text,
			height_cm integer,
			home_town text
		);`)
	if err != nil {
		return err
	}

	// Insert the people
	var people = []Person{{"Jim", 150, "Kabul"}, {"Saba", 162, "Berlin"}, {"Dave", 169, "Brasília"}, {"Sophie", 174, "Berlin"}, {"Kiri", 168, "Cape Town"}}
	for _, p := range people {
		_, err := sqldb.ExecContext(ctx, "INSERT INTO people VALUES (?, ?, ?)", p.Name, p.Height, p.HomeTown)
		if err != nil {
			return err
		}
	}

	// Find people taller than Jim
	jim := people[0]
	where, err := registry.Where(Person{}, ast.Gt(ast.Field("Height"), ast.CapturedValue("jim.Height", &jim.Height)))
	if err != nil {
		return err
	}
	orderBy, err := registry.OrderBy(Person{}, ast.Field("Height"))
	if err != nil {
		return err
	}
	names, err := selectNames(ctx, db, where, orderBy)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintf(w, "%s is taller than %s.\n", name, jim.Name)
	}

	// Sophie moves to Kabul
	stmt, err := registry.Update(Person{}, ast.Eq(ast.Field("Name"), ast.Value("Sophie")), sqlclause.Patch{{Name: "HomeTown", Value: "Kabul"}}, "")
	if err != nil {
		return err
	}
	n, err := db.Exec(ctx, stmt)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d row updated.\n", stmt, n)

	// Find who is left in Berlin
	where, err = registry.Where(Person{}, ast.Eq(ast.Field("HomeTown"), ast.Value("Berlin")))
	if err != nil {
		return err
	}
	names, err = selectNames(ctx, db, where)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Living in Berlin: %s.\n", strings.Join(names, ", "))
	return nil
}

func selectNames(ctx context.Context, db *sqlclause.DB, clauses ...string) ([]string, error) {
	rows, err := db.Select(ctx, "people", clauses...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.Name, &p.Height, &p.HomeTown); err != nil {
			return nil, err
		}
		names = append(names, p.Name)
	}
	return names, rows.Err()
}
