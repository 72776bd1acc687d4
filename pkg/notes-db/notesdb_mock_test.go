package notesdb

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockTimestamp = "2024-01-02T03:04:05.000000000Z"

func noteRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "content", "created_at", "updated_at"}).
		AddRow(1, "title", "content", mockTimestamp, mockTimestamp)
}

func TestNewNoteRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO notes").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err = NewNote(db, "title", "content")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNoteRollsBackOnExecFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, title, content, created_at, updated_at FROM notes WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(noteRows())
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE notes SET").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	newContent := "new content"
	_, err = UpdateNote(db, 1, nil, &newContent)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNoteRollsBackOnExecFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM notes WHERE id").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err = DeleteNote(db, 1)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNoteMissingRowRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM notes WHERE id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = DeleteNote(db, 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
