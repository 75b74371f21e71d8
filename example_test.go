package sqlclause_test

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/canonical/sqlclause"
	"github.com/canonical/sqlclause/ast"

	_ "github.com/mattn/go-sqlite3"
)

type Employee struct {
	ID     int     `db:"id"`
	Name   string  `db:"name"`
	Team   string  `db:"team"`
	Badge  *string `db:"badge"`
	Joined time.Time
}

func Example() {
	registry, err := sqlclause.NewRegistryBuilder().Register(Employee{}).Build()
	if err != nil {
		panic(err)
	}

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		panic(err)
	}
	defer sqldb.Close()
	// Every connection to :memory: opens a new database.
	sqldb.SetMaxOpenConns(1)
	db := sqlclause.NewDB(sqldb)

	_, err = sqldb.Exec(`
	CREATE TABLE person (
		id integer,
		name text,
		team text,
		badge text
	);
	INSERT INTO person VALUES (1, 'Alastair', 'engineering', 'A1');
	INSERT INTO person VALUES (2, 'Ed', 'engineering', NULL);
	INSERT INTO person VALUES (3, 'Pedro', 'management', 'P9');
	INSERT INTO person VALUES (4, 'Joe', 'marketing', NULL);`)
	if err != nil {
		panic(err)
	}

	// Everyone in engineering, or without a badge.
	where, err := registry.Where(Employee{}, ast.Either(
		ast.Eq(ast.Field("Team"), ast.Value("engineering")),
		ast.Eq(ast.Field("Badge"), ast.Value(nil)),
	))
	if err != nil {
		panic(err)
	}
	orderBy, err := registry.OrderBy(Employee{}, ast.Field("Name"))
	if err != nil {
		panic(err)
	}
	fmt.Println(where, orderBy)

	rows, err := db.Select(nil, "person", where, orderBy)
	if err != nil {
		panic(err)
	}
	for rows.Next() {
		var (
			id         int
			name, team string
			badge      sql.NullString
		)
		if err := rows.Scan(&id, &name, &team, &badge); err != nil {
			panic(err)
		}
		fmt.Printf("%s is in %s\n", name, team)
	}
	if err := rows.Close(); err != nil {
		panic(err)
	}

	// Move Joe to engineering.
	stmt, err := registry.Update(Employee{}, ast.Eq(ast.Field("ID"), ast.Value(4)), sqlclause.Patch{{"Team", "engineering"}}, "person")
	if err != nil {
		panic(err)
	}
	fmt.Println(stmt)
	n, err := db.Exec(nil, stmt)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%d row updated\n", n)

	// Output:
	// WHERE (team = 'engineering' OR badge IS NULL) ORDER BY name
	// Alastair is in engineering
	// Ed is in engineering
	// Joe is in marketing
	// UPDATE person SET team = 'engineering' WHERE id = 4
	// 1 row updated
}

func ExampleWhere() {
	registry, err := sqlclause.NewRegistryBuilder().
		Entity(Employee{}).
		Map("Name", "name").
		Map("Joined", "joined_at").
		Build()
	if err != nil {
		panic(err)
	}
	m, _ := registry.Lookup(Employee{})

	// Team is not mapped, so the comparison on it is left out.
	where, err := sqlclause.Where(m, ast.All(
		ast.Eq(ast.Field("Name"), ast.Value("Ed")),
		ast.Eq(ast.Field("Team"), ast.Value("legal")),
		ast.Ge(ast.Field("Joined"), ast.Value(time.Date(2020, 6, 1, 9, 30, 0, 0, time.UTC))),
	))
	if err != nil {
		panic(err)
	}
	fmt.Println(where)

	// Output:
	// WHERE name = 'Ed' AND joined_at >= '2020-06-01 09:30:00.000'
}

func ExampleUpdate() {
	registry, err := sqlclause.NewRegistryBuilder().Register(Employee{}).Build()
	if err != nil {
		panic(err)
	}
	m, _ := registry.Lookup(Employee{})

	type teamChange struct {
		Team  string
		Badge *string
	}
	pred := ast.Eq(ast.Default(ast.Field("Badge"), ast.Value("none")), ast.Value("none"))

	stmt, err := sqlclause.Update(m, pred, teamChange{Team: "legal"}, "person")
	if err != nil {
		panic(err)
	}
	fmt.Println(stmt)

	// Nothing changes, so there is nothing to run.
	stmt, err = sqlclause.Update(m, pred, teamChange{}, "person")
	if err != nil {
		panic(err)
	}
	fmt.Printf("%q\n", stmt)

	// Output:
	// UPDATE person SET team = 'legal' WHERE COALESCE(badge, 'none') = 'none'
	// ""
}
