// Package issue holds the immutable issue model and the extractor that builds
// it from per-section records.
package issue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agis/defectview/internal/severity"
)

// Issue is one defect record. Issues are never modified after extraction.
type Issue struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Severity    string   `yaml:"severity" json:"severity"`
	Weight      int      `yaml:"weight" json:"weight"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Products    []string `yaml:"products,omitempty" json:"products,omitempty"`
}

// HasProduct reports whether product is one of the issue's products.
// Matching is by exact name.
func (i Issue) HasProduct(product string) bool {
	for _, p := range i.Products {
		if p == product {
			return true
		}
	}
	return false
}

// Heading is a section heading in document order. The sidebar is built from
// these.
type Heading struct {
	ID    string `yaml:"id" json:"id"`
	Text  string `yaml:"text" json:"text"`
	Class string `yaml:"class,omitempty" json:"class,omitempty"`
}

// Record is the structured content of one report section as supplied by the
// upstream template. Has* fields distinguish an absent marker from an empty
// one.
type Record struct {
	HeadingID    string
	HeadingText  string
	HeadingClass string

	Severity    string
	HasSeverity bool

	Weight    string
	HasWeight bool

	Products    string
	HasProducts bool

	Description    string
	HasDescription bool
}

// ProblemKind classifies a per-section extraction problem.
type ProblemKind string

const (
	// MalformedSection: the section has no heading id and was skipped.
	MalformedSection ProblemKind = "malformed_section"
	// UnknownSeverity: the severity is empty or not configured. The issue is
	// kept but never listed under a severity group.
	UnknownSeverity ProblemKind = "unknown_severity"
	// UnparsableWeight: the weight is missing or not a non-negative integer;
	// weight 0 is used.
	UnparsableWeight ProblemKind = "unparsable_weight"
)

// Problem is a diagnostic raised while extracting one section. Problems never
// abort extraction.
type Problem struct {
	Kind    ProblemKind `yaml:"kind" json:"kind"`
	Section int         `yaml:"section" json:"section"`
	IssueID string      `yaml:"issue_id,omitempty" json:"issue_id,omitempty"`
	Detail  string      `yaml:"detail" json:"detail"`
}

func (p Problem) String() string {
	if p.IssueID != "" {
		return fmt.Sprintf("section %d (%s): %s: %s", p.Section, p.IssueID, p.Kind, p.Detail)
	}
	return fmt.Sprintf("section %d: %s: %s", p.Section, p.Kind, p.Detail)
}

// Extraction is the result of extracting a whole document.
type Extraction struct {
	Issues   []Issue   `yaml:"issues" json:"issues"`
	Headings []Heading `yaml:"headings" json:"headings"`
	Problems []Problem `yaml:"problems,omitempty" json:"problems,omitempty"`
}

// ProductSeparator separates product names inside a products marker.
const ProductSeparator = ", "

// Extract converts section records into issues, in record order. Defects in a
// single record are absorbed and reported as problems.
func Extract(records []Record, table severity.Table) Extraction {
	ex := Extraction{
		Issues:   make([]Issue, 0, len(records)),
		Headings: make([]Heading, 0, len(records)),
	}

	for idx, rec := range records {
		id := strings.TrimSpace(rec.HeadingID)
		if id == "" {
			ex.Problems = append(ex.Problems, Problem{
				Kind:    MalformedSection,
				Section: idx,
				Detail:  "section heading has no id",
			})
			continue
		}

		is := Issue{
			ID:       id,
			Title:    strings.TrimSpace(rec.HeadingText),
			Severity: strings.TrimSpace(rec.Severity),
			Products: splitProducts(rec.Products),
		}
		if rec.HasDescription {
			is.Description = rec.Description
		}

		if !table.Has(is.Severity) {
			detail := fmt.Sprintf("severity %q is not configured", is.Severity)
			if !rec.HasSeverity {
				detail = "no severity marker"
			}
			ex.Problems = append(ex.Problems, Problem{
				Kind: UnknownSeverity, Section: idx, IssueID: id, Detail: detail,
			})
		}

		weight, err := strconv.Atoi(strings.TrimSpace(rec.Weight))
		if err != nil || !rec.HasWeight || weight < 0 {
			detail := fmt.Sprintf("weight %q is not an integer", rec.Weight)
			switch {
			case !rec.HasWeight:
				detail = "no weight marker"
			case err == nil:
				detail = fmt.Sprintf("weight %d is negative", weight)
			}
			ex.Problems = append(ex.Problems, Problem{
				Kind: UnparsableWeight, Section: idx, IssueID: id, Detail: detail,
			})
			weight = 0
		}
		is.Weight = weight

		ex.Issues = append(ex.Issues, is)
		ex.Headings = append(ex.Headings, Heading{
			ID:    id,
			Text:  strings.TrimSpace(rec.HeadingText),
			Class: rec.HeadingClass,
		})
	}

	return ex
}

func splitProducts(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ProductSeparator)
	products := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			products = append(products, p)
		}
	}
	return products
}

// Finding is a weight/severity inconsistency reported by CheckWeights.
type Finding struct {
	IssueID  string `yaml:"issue_id" json:"issue_id"`
	Severity string `yaml:"severity" json:"severity"`
	Weight   int    `yaml:"weight" json:"weight"`
	Message  string `yaml:"message" json:"message"`
}

// CheckWeights reports issues whose weight is not allowed for their severity
// or whose weight falls into another level's band. Issues with unknown
// severities are skipped; extraction already reports them.
func CheckWeights(issues []Issue, table severity.Table) []Finding {
	var findings []Finding
	for _, is := range issues {
		level, ok := table.Lookup(is.Severity)
		if !ok {
			continue
		}
		if !level.Allows(is.Weight) {
			findings = append(findings, Finding{
				IssueID:  is.ID,
				Severity: is.Severity,
				Weight:   is.Weight,
				Message:  fmt.Sprintf("weight %d is not one of %v", is.Weight, level.AllowedWeights),
			})
		}
		if band, ok := table.Classify(is.Weight); ok && band.Name != level.Name {
			findings = append(findings, Finding{
				IssueID:  is.ID,
				Severity: is.Severity,
				Weight:   is.Weight,
				Message:  fmt.Sprintf("weight %d classifies as %s", is.Weight, band.Name),
			})
		}
	}
	return findings
}
