/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sqlite.go
Description: SQLite-backed template store for the Akaylee Templater. Persists generated
templates keyed by unique command name with quality metadata, supports term-based name
filtering for corpus selection, and provides last-writer-wins upserts safe for
concurrent batch workers.
*/

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	cli_command TEXT UNIQUE NOT NULL,
	ttp_content TEXT NOT NULL,
	cli_content TEXT,
	grammar_content TEXT,
	oracle_rows INTEGER,
	template_rows INTEGER,
	match_ratio REAL,
	source TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_cli_command ON templates(cli_command);
`

// SQLiteStore implements interfaces.TemplateStore on a local SQLite file.
// database/sql's connection pool gives each worker its own connection;
// failed connections are discarded and recreated by the pool.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) a template database at path.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening template database %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating template schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the template for a command key, or nil when absent.
func (s *SQLiteStore) Get(ctx context.Context, command string) (*interfaces.Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, cli_command, ttp_content, cli_content, grammar_content,
		        oracle_rows, template_rows, match_ratio, source, created_at
		 FROM templates WHERE cli_command = ?`, command)
	template, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return template, err
}

// List returns templates matching the filter string. The filter splits on
// '_' and '-', keeps terms longer than 2 characters, and ANDs a substring
// match per term over the command key. An empty filter returns everything.
func (s *SQLiteStore) List(ctx context.Context, filter string) ([]*interfaces.Template, error) {
	query := `SELECT id, cli_command, ttp_content, cli_content, grammar_content,
	                 oracle_rows, template_rows, match_ratio, source, created_at
	          FROM templates WHERE 1=1`
	var args []interface{}
	for _, term := range FilterTerms(filter) {
		query += " AND cli_command LIKE ?"
		args = append(args, "%"+term+"%")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var templates []*interfaces.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

// Upsert inserts or replaces a template by its command key.
// Last writer wins; no row-level locking beyond SQLite's own.
func (s *SQLiteStore) Upsert(ctx context.Context, template *interfaces.Template) error {
	createdAt := template.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var ratio interface{}
	if template.MatchRatio != nil {
		ratio = *template.MatchRatio
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO templates
		 (cli_command, ttp_content, cli_content, grammar_content,
		  oracle_rows, template_rows, match_ratio, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		template.Command, template.Content, template.SampleText, template.GrammarText,
		template.OracleRows, template.TemplateRows, ratio, template.Source, createdAt)
	if err != nil {
		return fmt.Errorf("upserting template %q: %w", template.Command, err)
	}
	return nil
}

// Delete removes a template by its command key.
func (s *SQLiteStore) Delete(ctx context.Context, command string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE cli_command = ?`, command)
	if err != nil {
		return fmt.Errorf("deleting template %q: %w", command, err)
	}
	return nil
}

// Count returns the number of stored templates.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&count)
	return count, err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// FilterTerms implements the name-based search contract: split the filter
// on '_' and '-', keep terms longer than 2 characters.
func FilterTerms(filter string) []string {
	var terms []string
	for _, term := range strings.Split(strings.ReplaceAll(filter, "-", "_"), "_") {
		if len(term) > 2 {
			terms = append(terms, term)
		}
	}
	return terms
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (*interfaces.Template, error) {
	var t interfaces.Template
	var sample, grammar, source sql.NullString
	var oracleRows, templateRows sql.NullInt64
	var ratio sql.NullFloat64
	var createdAt sql.NullTime

	err := row.Scan(&t.ID, &t.Command, &t.Content, &sample, &grammar,
		&oracleRows, &templateRows, &ratio, &source, &createdAt)
	if err != nil {
		return nil, err
	}

	t.SampleText = sample.String
	t.GrammarText = grammar.String
	t.Source = source.String
	t.OracleRows = int(oracleRows.Int64)
	t.TemplateRows = int(templateRows.Int64)
	if ratio.Valid {
		r := ratio.Float64
		t.MatchRatio = &r
	}
	if createdAt.Valid {
		t.CreatedAt = createdAt.Time
	}
	return &t, nil
}
