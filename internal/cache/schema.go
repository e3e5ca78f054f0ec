package cache

// schemaSQL defines the SQLite schema for the cache database.
// Tables:
//   - documents: one row per report path with the hash it was extracted from
//   - issues, headings, problems: the extraction, in document order
const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    path TEXT PRIMARY KEY,
    content_hash TEXT NOT NULL,
    extracted_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS issues (
    doc_path TEXT NOT NULL,
    ord INTEGER NOT NULL,
    id TEXT NOT NULL,
    title TEXT NOT NULL,
    severity TEXT NOT NULL,
    weight INTEGER NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    products TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (doc_path, ord)
);

CREATE TABLE IF NOT EXISTS headings (
    doc_path TEXT NOT NULL,
    ord INTEGER NOT NULL,
    id TEXT NOT NULL,
    text TEXT NOT NULL,
    class TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (doc_path, ord)
);

CREATE TABLE IF NOT EXISTS problems (
    doc_path TEXT NOT NULL,
    ord INTEGER NOT NULL,
    kind TEXT NOT NULL,
    section INTEGER NOT NULL,
    issue_id TEXT NOT NULL DEFAULT '',
    detail TEXT NOT NULL,
    PRIMARY KEY (doc_path, ord)
);

CREATE INDEX IF NOT EXISTS idx_issues_severity ON issues(severity);
`

// initSchema creates the database tables and indexes if they don't exist.
func (c *Cache) initSchema() error {
	_, err := c.db.Exec(schemaSQL)
	return err
}
