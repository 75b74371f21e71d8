// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlclause_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// This file contains a wrapper sql.Driver over the SQLite driver which records
// the text of every statement sent to the database. Tests use it to check that
// the statements they generate are the ones that run, and that empty
// statements never reach the database.

// sentStmts stores the statements run, indexed by test name.
var sentStmts = map[string][]string{}
var sentStmtsMutex sync.RWMutex

type Driver struct {
	driver.Driver
}

type Conn struct {
	testName string
	*sqlite3.SQLiteConn
}

func (c *Conn) record(query string) {
	sentStmtsMutex.Lock()
	defer sentStmtsMutex.Unlock()
	sentStmts[c.testName] = append(sentStmts[c.testName], query)
}

func (c *Conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.record(query)
	return c.SQLiteConn.QueryContext(ctx, query, args)
}

func (c *Conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.record(query)
	return c.SQLiteConn.ExecContext(ctx, query, args)
}

// sent returns the statements run by the test called testName.
func sent(testName string) []string {
	sentStmtsMutex.RLock()
	defer sentStmtsMutex.RUnlock()
	return append([]string(nil), sentStmts[testName]...)
}

const TestNameTag = "testName"

// Open expects the DSN to contain the test name using the testNameTag
// attribute.
func (d *Driver) Open(name string) (driver.Conn, error) {
	var testName string
	if _, parameters, ok := strings.Cut(name, "?"); ok {
		for _, p := range strings.Split(parameters, "&") {
			if strings.HasPrefix(p, TestNameTag+"=") {
				testName = strings.TrimPrefix(p, TestNameTag+"=")
			}
		}
	}
	if testName == "" {
		panic("internal error: testName is not found in the db DSN")
	}

	baseConn, err := d.Driver.Open(name)
	if err != nil {
		return nil, err
	}
	if baseConn, ok := baseConn.(*sqlite3.SQLiteConn); ok {
		return &Conn{SQLiteConn: baseConn, testName: testName}, nil
	}
	panic("internal error: base driver is not SQLite")
}

func init() {
	sql.Register("sqlite3_recorded", &Driver{
		&sqlite3.SQLiteDriver{},
	})
}
