package corpus

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists a built corpus in a sqlite database so repeated runs do not
// need to re-scrape Wikipedia.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) a corpus database at the given path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS words (
		word TEXT PRIMARY KEY,
		frequency INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create corpus schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Import replaces the stored word list inside a single transaction. Words
// already present accumulate frequency, so document-derived word lists can be
// merged into a Wikipedia-derived corpus.
func (s *Store) Import(words []Word) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin corpus import: %w", err)
	}
	defer tx.Rollback() // ignored after commit

	stmt, err := tx.Prepare(`INSERT INTO words (word, frequency) VALUES (?, ?)
		ON CONFLICT(word) DO UPDATE SET frequency = frequency + excluded.frequency`)
	if err != nil {
		return fmt.Errorf("failed to prepare corpus insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range words {
		if w.Text == "" || w.Frequency <= 0 {
			continue
		}
		if _, err := stmt.Exec(w.Text, w.Frequency); err != nil {
			return fmt.Errorf("failed to insert word %q: %w", w.Text, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit corpus import (%d words): %w", len(words), err)
	}
	return nil
}

// Load reads all stored words into a Corpus, most frequent first.
func (s *Store) Load() (*Corpus, error) {
	rows, err := s.db.Query(`SELECT word, frequency FROM words ORDER BY frequency DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus words: %w", err)
	}
	defer rows.Close()

	var words []Word
	for rows.Next() {
		var w Word
		if err := rows.Scan(&w.Text, &w.Frequency); err != nil {
			return nil, fmt.Errorf("failed to scan corpus row: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return New(words)
}

// Count returns the number of stored words.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count corpus words: %w", err)
	}
	return n, nil
}
