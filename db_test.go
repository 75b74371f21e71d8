package sqlclause_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/sqlclause"
	"github.com/canonical/sqlclause/ast"
)

func newMockDB(t *testing.T, opts ...sqlclause.Option) (*sqlclause.DB, sqlmock.Sqlmock) {
	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })
	return sqlclause.NewDB(sqldb, opts...), mock
}

func TestDBExecSendsStatementText(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db, mock := newMockDB(t, sqlclause.WithLogger(logger))

	r, err := sqlclause.NewRegistryBuilder().Register(Book{}).Build()
	require.NoError(t, err)
	stmt, err := r.Update(Book{}, ast.Eq(ast.Field("Id"), ast.Value(5)), sqlclause.Patch{{"Title", "New"}}, "books")
	require.NoError(t, err)

	mock.ExpectExec("UPDATE books SET title = 'New' WHERE id = 5").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := db.Exec(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Contains(t, logs.String(), "executing statement")
	assert.Contains(t, logs.String(), "UPDATE books SET title = 'New' WHERE id = 5")
}

func TestDBExecEmptyStatement(t *testing.T) {
	db, mock := newMockDB(t)

	n, err := db.Exec(nil, "")
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBExecError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("boom")
	mock.ExpectExec("UPDATE books SET rating = 1 WHERE ").WillReturnError(boom)

	_, err := db.Exec(context.Background(), "UPDATE books SET rating = 1 WHERE ")
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBSelect(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT * FROM books WHERE author IS NULL ORDER BY title").
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Anonymous Tales"))

	rows, err := db.Select(context.Background(), "books", "WHERE author IS NULL", "", "ORDER BY title")
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var title string
		require.NoError(t, rows.Scan(&title))
		got = append(got, title)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Anonymous Tales"}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTXExec(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE books SET rating = 2 WHERE id = 1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT * FROM books WHERE id = 1").WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(2))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.Begin(ctx, nil)
	require.NoError(t, err)
	n, err := tx.Exec(ctx, "UPDATE books SET rating = 2 WHERE id = 1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := tx.Select(ctx, "books", "WHERE id = 1")
	require.NoError(t, err)
	require.NoError(t, rows.Close())

	n, err = tx.Exec(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("no transactions today"))

	_, err := db.Begin(context.Background(), nil)
	assert.EqualError(t, err, "no transactions today")
	require.NoError(t, mock.ExpectationsWereMet())
}
