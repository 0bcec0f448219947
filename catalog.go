package xarax

import (
	"database/sql"
	"fmt"

	"github.com/kieselsteini/xarax/strtab"
	_ "github.com/mattn/go-sqlite3"
)

// Catalog is a SQLite copy of a string table, for reviewing and searching
// the game text outside of the game.
type Catalog struct {
	db *sql.DB
}

func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS block (id INTEGER PRIMARY KEY NOT NULL, category INTEGER NOT NULL, subject INTEGER NOT NULL, variant INTEGER NOT NULL, heap_offset INTEGER NOT NULL, body TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Import replaces the contents of the catalog with the blocks of t, keeping
// their order. The heap text is decoded from codepage before it is stored.
func (c *Catalog) Import(t *strtab.Table, codepage string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM block"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO block (id, category, subject, variant, heap_offset, body) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range t.Records() {
		body, err := strtab.Decode(codepage, t.Text(r))
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		if _, err := stmt.Exec(i, r.Category, r.Subject, r.Variant, r.Offset, body); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Len returns the number of blocks in the catalog.
func (c *Catalog) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM block").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Find returns the text of the block matching category, subject and variant,
// passing over the first skip matches in table order. A negative skip never
// matches.
func (c *Catalog) Find(category, subject, variant uint8, skip int) (string, bool, error) {
	if skip < 0 {
		return "", false, nil
	}
	var body string
	switch err := c.db.QueryRow("SELECT body FROM block WHERE category = ? AND subject = ? AND variant = ? ORDER BY id LIMIT 1 OFFSET ?", category, subject, variant, skip).Scan(&body); err {
	case sql.ErrNoRows:
		return "", false, nil
	case nil:
		return body, true, nil
	default:
		return "", false, err
	}
}
