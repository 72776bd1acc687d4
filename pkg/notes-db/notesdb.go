package notesdb

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/quicknote/quicknote-api/pkg/notes"
)

var (
	//go:embed files/create_notes_tables_sqlite3.sql
	CREATE_NOTES_TABLES_SQLITE3_SQL string

	//go:embed files/create_notes_tables_mysql.sql
	CREATE_NOTES_TABLES_MYSQL_SQL string
)

// MaxTitleLength is the cap on a trimmed note title, counted in runes.
const MaxTitleLength = 30

var (
	ErrNotFound     = errors.New("note not found")
	ErrTitleTooLong = fmt.Errorf("title should be less than %d characters", MaxTitleLength)
	ErrEmptyTitle   = errors.New("title is required")
	ErrEmptyContent = errors.New("content is required")
)

func Initialize(driver string, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	var schema string
	switch driver {
	case "mysql":
		schema = CREATE_NOTES_TABLES_MYSQL_SQL
	default:
		schema = CREATE_NOTES_TABLES_SQLITE3_SQL
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(schema)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	return db, nil
}

// NewNote validates and persists a note. The length check runs against the
// trimmed title but the title is stored as supplied.
func NewNote(db *sql.DB, title string, content string) (*notes.Note, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, ErrEmptyTitle
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if content == "" {
		return nil, ErrEmptyContent
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result, err := tx.Exec(
		"INSERT INTO notes (title, content, created_at, updated_at) VALUES (?, ?, ?, ?)",
		title, content, formatTime(now), formatTime(now))
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		return nil, err
	}

	return GetNote(db, id)
}

func GetNotes(db *sql.DB) ([]*notes.Note, error) {
	rows, err := db.Query(
		"SELECT id, title, content, created_at, updated_at FROM notes ORDER BY updated_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotes(rows)
}

func GetNote(db *sql.DB, id int64) (*notes.Note, error) {
	row := db.QueryRow(
		"SELECT id, title, content, created_at, updated_at FROM notes WHERE id = ?", id)

	note, err := scanNote(row)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return note, nil
}

// UpdateNote applies a partial update. A nil field is left untouched; a
// title that trims to empty keeps the prior title rather than erroring.
func UpdateNote(db *sql.DB, id int64, title *string, content *string) (*notes.Note, error) {
	existing, err := GetNote(db, id)
	if err != nil {
		return nil, err
	}

	newTitle := existing.Title
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if utf8.RuneCountInString(trimmed) > MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		if trimmed != "" {
			newTitle = trimmed
		}
	}
	newContent := existing.Content
	if content != nil {
		newContent = *content
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(
		"UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?",
		newTitle, newContent, formatTime(time.Now().UTC()), id)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		return nil, err
	}

	return GetNote(db, id)
}

func DeleteNote(db *sql.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	result, err := tx.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		tx.Rollback()
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		return err
	}

	return nil
}

// SearchNotes matches the query as a case-insensitive substring of title
// or content. An empty query returns no results rather than all notes.
// Both sides are lowered in SQL so each driver applies its own folding
// rules consistently.
func SearchNotes(db *sql.DB, query string) ([]*notes.Note, error) {
	if query == "" {
		return []*notes.Note{}, nil
	}

	rows, err := db.Query(
		`SELECT id, title, content, created_at, updated_at FROM notes
		 WHERE INSTR(LOWER(title), LOWER(?)) > 0 OR INSTR(LOWER(content), LOWER(?)) > 0
		 ORDER BY updated_at DESC, id DESC`,
		query, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotes(rows)
}

// Private

type scannable interface {
	Scan(dest ...any) error
}

func scanNote(row scannable) (*notes.Note, error) {
	note := &notes.Note{}
	var createdAt, updatedAt string
	err := row.Scan(&note.ID, &note.Title, &note.Content, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	note.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	note.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return note, nil
}

func collectNotes(rows *sql.Rows) ([]*notes.Note, error) {
	result := []*notes.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Fixed-width fraction keeps updated_at lexically sortable in SQL.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Parse(time.RFC3339, s)
	}
	return t, nil
}
