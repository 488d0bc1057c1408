package quizstore

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/osler/chartquiz/internal/quizgen"
)

// SQLiteWriter persists validated records with write-through semantics:
// every Append commits before returning, so partial progress survives a
// crash or early termination.
type SQLiteWriter struct {
	db *sqlx.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS questions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	patient     TEXT NOT NULL,
	row_id      TEXT,
	level       TEXT NOT NULL,
	difficulty  TEXT NOT NULL DEFAULT '',
	question    TEXT NOT NULL,
	answer      TEXT NOT NULL,
	options     TEXT
);
`

func NewSQLiteWriter(dbPath string) (*SQLiteWriter, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteWriter{db: db}, nil
}

func (s *SQLiteWriter) Append(records []quizgen.QuestionRecord) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, r := range records {
		_, err := tx.Exec(`INSERT INTO questions (patient, row_id, level, difficulty, question, answer, options)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.PatientID,
			nullableString(r.SourceNoteID),
			string(r.Level),
			r.Difficulty,
			r.Question,
			r.Answer,
			nullableOptions(r.Options),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert question: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteWriter) Close() error {
	return s.db.Close()
}

// LoadAll returns every persisted record in insertion order.
func (s *SQLiteWriter) LoadAll() ([]quizgen.QuestionRecord, error) {
	rows, err := s.db.Query(`SELECT patient, row_id, level, difficulty, question, answer, options FROM questions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []quizgen.QuestionRecord
	for rows.Next() {
		var r quizgen.QuestionRecord
		var rowID, options sql.NullString
		var level string
		if err := rows.Scan(&r.PatientID, &rowID, &level, &r.Difficulty, &r.Question, &r.Answer, &options); err != nil {
			return nil, err
		}
		r.Level = quizgen.Level(level)
		if rowID.Valid && rowID.String != "" {
			id := rowID.String
			r.SourceNoteID = &id
		}
		if options.Valid {
			r.Options = decodeOptions(options.String)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableOptions(options []string) sql.NullString {
	if len(options) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: encodeOptions(options), Valid: true}
}
