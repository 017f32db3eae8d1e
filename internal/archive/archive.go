// Package archive keeps a local history of every item that ever made it
// into an edition. The rolling snapshot caps and expires aggressively; the
// archive is where expired items remain searchable until pruned.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
)

type Archive struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	a := &Archive{readDB: readDB, writeDB: writeDB}
	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) init() error {
	_, err := a.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id          TEXT PRIMARY KEY,
			category    TEXT NOT NULL,
			source      TEXT NOT NULL,
			title       TEXT NOT NULL,
			link        TEXT NOT NULL,
			summary     TEXT NOT NULL DEFAULT '',
			image       TEXT NOT NULL DEFAULT '',
			priority    INTEGER NOT NULL DEFAULT 9,
			published   DATETIME NOT NULL,
			fetched_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_items_published ON items(published DESC);
		CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (a *Archive) Close() error {
	var errs []error
	if a.readDB != nil {
		errs = append(errs, a.readDB.Close())
	}
	if a.writeDB != nil {
		errs = append(errs, a.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Record upserts one category's items. Re-fetched items refresh their
// title, summary, and fetch time but keep their first-seen row.
func (a *Archive) Record(category string, items []news.Item) error {
	tx, err := a.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO items (id, category, source, title, link, summary, image, priority, published, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range items {
		_, err := stmt.Exec(it.ID, category, it.Source, it.Title, it.Link,
			it.Summary, it.Image, it.Priority, it.Published, it.FetchedAt)
		if err != nil {
			return fmt.Errorf("recording item %s: %w", it.ID, err)
		}
	}

	return tx.Commit()
}

// QueryOpts narrows a Search.
type QueryOpts struct {
	Category string
	Search   string
	Limit    int
}

// Search returns archived items, newest first.
func (a *Archive) Search(opts QueryOpts) ([]news.Item, error) {
	var (
		where []string
		args  []interface{}
	)

	if opts.Category != "" {
		where = append(where, "category = ?")
		args = append(args, opts.Category)
	}
	if opts.Search != "" {
		where = append(where, "(title LIKE ? OR summary LIKE ?)")
		term := "%" + opts.Search + "%"
		args = append(args, term, term)
	}

	query := "SELECT id, source, title, link, summary, image, priority, published, fetched_at FROM items"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY published DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := a.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var items []news.Item
	for rows.Next() {
		var it news.Item
		if err := rows.Scan(&it.ID, &it.Source, &it.Title, &it.Link, &it.Summary,
			&it.Image, &it.Priority, &it.Published, &it.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Prune deletes archived items published before the retention window and
// returns how many were removed.
func (a *Archive) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res, err := a.writeDB.Exec("DELETE FROM items WHERE published < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats returns the item count and the database file size.
func (a *Archive) Stats(dbPath string) (count int64, size int64, err error) {
	if err := a.readDB.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return 0, 0, err
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, err
	}
	return count, info.Size(), nil
}

// CountByCategory returns per-category item counts.
func (a *Archive) CountByCategory() (map[string]int64, error) {
	rows, err := a.readDB.Query("SELECT category, COUNT(*) FROM items GROUP BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var cat string
		var n int64
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		counts[cat] = n
	}
	return counts, rows.Err()
}
