package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agis/defectview/internal/issue"
)

// DocumentEntry holds the cache state for one report.
type DocumentEntry struct {
	Path        string
	ContentHash string
	ExtractedAt time.Time
}

// LookupDocument returns the cached extraction of path when it was stored
// under the same content hash. ok is false on a miss or a stale entry.
func (c *Cache) LookupDocument(path, hash string) (ex issue.Extraction, ok bool, err error) {
	entry, err := c.GetDocumentEntry(path)
	if errors.Is(err, sql.ErrNoRows) {
		return issue.Extraction{}, false, nil
	}
	if err != nil {
		return issue.Extraction{}, false, err
	}
	if entry.ContentHash != hash {
		return issue.Extraction{}, false, nil
	}

	if ex.Issues, err = c.loadIssues(path); err != nil {
		return issue.Extraction{}, false, err
	}
	if ex.Headings, err = c.loadHeadings(path); err != nil {
		return issue.Extraction{}, false, err
	}
	if ex.Problems, err = c.loadProblems(path); err != nil {
		return issue.Extraction{}, false, err
	}
	return ex, true, nil
}

// GetDocumentEntry retrieves the cache state of a report.
// Returns sql.ErrNoRows if the report has never been cached.
func (c *Cache) GetDocumentEntry(path string) (*DocumentEntry, error) {
	var entry DocumentEntry
	var extractedAt string
	err := c.db.QueryRow(`
		SELECT path, content_hash, extracted_at FROM documents WHERE path = ?`,
		path).Scan(&entry.Path, &entry.ContentHash, &extractedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get document entry %s: %w", path, err)
	}
	entry.ExtractedAt, _ = time.Parse(time.RFC3339, extractedAt)
	return &entry, nil
}

// SaveDocument replaces the cached extraction of path.
func (c *Cache) SaveDocument(path, hash string, ex issue.Extraction) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := saveDocument(tx, path, hash, ex); err != nil {
		tx.Rollback()
		return fmt.Errorf("save document %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func saveDocument(tx *sql.Tx, path, hash string, ex issue.Extraction) error {
	for _, table := range []string{"issues", "headings", "problems"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE doc_path = ?", path); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO documents (path, content_hash, extracted_at)
		VALUES (?, ?, ?)`,
		path, hash, time.Now().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	for i, is := range ex.Issues {
		if _, err := tx.Exec(`
			INSERT INTO issues (doc_path, ord, id, title, severity, weight, description, products)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			path, i, is.ID, is.Title, is.Severity, is.Weight, is.Description,
			strings.Join(is.Products, issue.ProductSeparator),
		); err != nil {
			return fmt.Errorf("insert issue %s: %w", is.ID, err)
		}
	}

	for i, h := range ex.Headings {
		if _, err := tx.Exec(`
			INSERT INTO headings (doc_path, ord, id, text, class) VALUES (?, ?, ?, ?, ?)`,
			path, i, h.ID, h.Text, h.Class,
		); err != nil {
			return fmt.Errorf("insert heading %s: %w", h.ID, err)
		}
	}

	for i, p := range ex.Problems {
		if _, err := tx.Exec(`
			INSERT INTO problems (doc_path, ord, kind, section, issue_id, detail)
			VALUES (?, ?, ?, ?, ?, ?)`,
			path, i, string(p.Kind), p.Section, p.IssueID, p.Detail,
		); err != nil {
			return fmt.Errorf("insert problem %d: %w", i, err)
		}
	}

	return nil
}

// DeleteDocument removes a report from the cache.
func (c *Cache) DeleteDocument(path string) error {
	for _, table := range []string{"issues", "headings", "problems"} {
		if _, err := c.db.Exec("DELETE FROM "+table+" WHERE doc_path = ?", path); err != nil {
			return fmt.Errorf("delete %s for %s: %w", table, path, err)
		}
	}
	if _, err := c.db.Exec("DELETE FROM documents WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete document %s: %w", path, err)
	}
	return nil
}

func (c *Cache) loadIssues(path string) ([]issue.Issue, error) {
	rows, err := c.db.Query(`
		SELECT id, title, severity, weight, description, products
		FROM issues WHERE doc_path = ? ORDER BY ord`, path)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer rows.Close()

	issues := []issue.Issue{}
	for rows.Next() {
		var is issue.Issue
		var products string
		if err := rows.Scan(&is.ID, &is.Title, &is.Severity, &is.Weight, &is.Description, &products); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		if products != "" {
			is.Products = strings.Split(products, issue.ProductSeparator)
		}
		issues = append(issues, is)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}
	return issues, nil
}

func (c *Cache) loadHeadings(path string) ([]issue.Heading, error) {
	rows, err := c.db.Query(`
		SELECT id, text, class FROM headings WHERE doc_path = ? ORDER BY ord`, path)
	if err != nil {
		return nil, fmt.Errorf("query headings: %w", err)
	}
	defer rows.Close()

	headings := []issue.Heading{}
	for rows.Next() {
		var h issue.Heading
		if err := rows.Scan(&h.ID, &h.Text, &h.Class); err != nil {
			return nil, fmt.Errorf("scan heading: %w", err)
		}
		headings = append(headings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate headings: %w", err)
	}
	return headings, nil
}

func (c *Cache) loadProblems(path string) ([]issue.Problem, error) {
	rows, err := c.db.Query(`
		SELECT kind, section, issue_id, detail FROM problems WHERE doc_path = ? ORDER BY ord`, path)
	if err != nil {
		return nil, fmt.Errorf("query problems: %w", err)
	}
	defer rows.Close()

	var problems []issue.Problem
	for rows.Next() {
		var p issue.Problem
		var kind string
		if err := rows.Scan(&kind, &p.Section, &p.IssueID, &p.Detail); err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		p.Kind = issue.ProblemKind(kind)
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate problems: %w", err)
	}
	return problems, nil
}
