// Package cache provides a SQLite-backed cache of report extractions.
// The cache is stored in .defectview/cache.db. Entries are keyed by document
// path and a hash of the content and severity table, so an edited report or
// a reconfigured table is simply re-extracted.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/agis/defectview/internal/severity"
)

// FileName is the name of the cache database inside the config directory.
const FileName = "cache.db"

// Cache manages the .defectview/cache.db SQLite database.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the cache database in the given directory.
// It initializes the schema if the database is new.
func Open(dir string) (*Cache, error) {
	dbPath := filepath.Join(dir, FileName)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	cache := &Cache{db: db, dbPath: dbPath}

	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return cache, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Clear removes every cached document.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM issues; DELETE FROM headings; DELETE FROM problems; DELETE FROM documents;")
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Stats returns cache statistics.
type Stats struct {
	DocumentCount int64 `yaml:"documents" json:"documents"`
	IssueCount    int64 `yaml:"issues" json:"issues"`
	ProblemCount  int64 `yaml:"problems" json:"problems"`
}

// GetStats returns statistics about the cache contents.
func (c *Cache) GetStats() (*Stats, error) {
	var stats Stats

	for _, q := range []struct {
		table string
		dst   *int64
	}{
		{"documents", &stats.DocumentCount},
		{"issues", &stats.IssueCount},
		{"problems", &stats.ProblemCount},
	} {
		if err := c.db.QueryRow("SELECT COUNT(*) FROM " + q.table).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("count %s: %w", q.table, err)
		}
	}

	return &stats, nil
}


// HashReport returns the cache key for a report extracted against table.
// Extraction problems depend on the configured levels, so a changed table
// changes the key.
func HashReport(data []byte, table severity.Table) string {
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	if enc, err := yaml.Marshal(table); err == nil {
		h.Write(enc)
	} else {
		fmt.Fprintf(h, "%#v", table)
	}
	return hex.EncodeToString(h.Sum(nil))
}
