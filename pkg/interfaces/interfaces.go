/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Core types and interfaces for the Akaylee Templater. Defines the fundamental
data structures used throughout template reverse-engineering including captured records,
column profiles, generation results, engine contracts, and the template store contract.
*/

package interfaces

import (
	"context"
	"time"
)

// CapturedRecord is an ordered field-name -> value mapping produced by the
// oracle adapter for one parsed record. Values are always non-empty trimmed
// strings; list-valued captures are joined with ", " at the adapter boundary.
type CapturedRecord struct {
	Fields []string          // Field names in oracle declaration order
	Values map[string]string // Field name -> captured value (populated fields only)
}

// Get returns the value for a field and whether it is populated.
func (r *CapturedRecord) Get(name string) (string, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// Len returns the number of populated fields in the record.
func (r *CapturedRecord) Len() int {
	return len(r.Values)
}

// ColumnProfile aggregates observations about one field across all quality
// rows of a generation run. A single multi-word value is enough to mark the
// whole field as space-bearing for the rest of the run.
type ColumnProfile struct {
	HasSpaces bool     // True if any observed value contains a space
	Samples   []string // All observed values for this field
}

// OracleResult is the normalized output of the external oracle engine:
// the ordered field names it declares plus the raw value rows it captured.
// Row cells may be nil (not captured), a string, or a list of strings.
type OracleResult struct {
	FieldNames []string        // Ordered field names from the grammar
	Rows       [][]interface{} // Raw captured rows, aligned with FieldNames
}

// TemplateResult is the structured, possibly hierarchical output of the
// external target template engine for one execution.
type TemplateResult struct {
	Root interface{} // Nested result: maps, lists, and scalar leaves
}

// FlatRecord is one flattened field -> value record extracted from a nested
// template result. Used by the validator and the auto-match scorer.
type FlatRecord map[string]interface{}

// OracleEngine is the external state-machine-based extraction engine.
// The core only consumes its output and its failure signal; grammar
// semantics are entirely opaque to this module.
type OracleEngine interface {
	// Extract parses sample text with the given grammar and returns the
	// ordered field names plus captured rows.
	Extract(ctx context.Context, grammar string, sample string) (*OracleResult, error)
}

// TemplateEngine is the external target engine that executes a generated
// line-oriented template against raw text and returns nested records.
type TemplateEngine interface {
	// Execute runs a template against sample text.
	Execute(ctx context.Context, template string, sample string) (*TemplateResult, error)
}

// Template is the persisted entity in the template store. It is created by
// the generation pipeline or manual entry, mutated only by explicit edit,
// and read-only for the auto-match scorer.
type Template struct {
	ID           int64     `json:"id"`            // Store-assigned row ID
	Command      string    `json:"command"`       // Unique command/category key
	Content      string    `json:"content"`       // Target-template text
	SampleText   string    `json:"sample_text"`   // Original raw sample, if retained
	GrammarText  string    `json:"grammar_text"`  // Oracle grammar, if retained
	OracleRows   int       `json:"oracle_rows"`   // Quality-row count from the oracle
	TemplateRows int       `json:"template_rows"` // Record count from the target engine
	MatchRatio   *float64  `json:"match_ratio"`   // TemplateRows/OracleRows, nil when undefined
	Source       string    `json:"source"`        // Provenance: generated, imported, manual
	CreatedAt    time.Time `json:"created_at"`    // Creation timestamp
}

// TemplateStore is the persistent keyed store of templates.
// Concurrent writers to the same key use last-writer-wins semantics.
type TemplateStore interface {
	// Get returns the template for a command key, or nil when absent.
	Get(ctx context.Context, command string) (*Template, error)

	// List returns templates whose command key matches the filter string.
	// The filter splits on '_' and '-', keeps terms longer than 2 characters,
	// and requires every term to appear as a substring of the key.
	List(ctx context.Context, filter string) ([]*Template, error)

	// Upsert inserts or replaces a template by its command key.
	Upsert(ctx context.Context, template *Template) error

	// Delete removes a template by its command key.
	Delete(ctx context.Context, command string) error

	// Count returns the number of stored templates.
	Count(ctx context.Context) (int, error)

	// Close releases the store's resources.
	Close() error
}

// GenerationStatus classifies the outcome of one generation unit.
type GenerationStatus int

const (
	StatusSuccess GenerationStatus = iota
	StatusFailedGeneration
	StatusFailedValidation
	StatusNoPatterns
	StatusTimeout
)

// String returns the human-readable status name used in batch reporting.
func (s GenerationStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailedGeneration:
		return "failed_generation"
	case StatusFailedValidation:
		return "failed_validation"
	case StatusNoPatterns:
		return "no_patterns"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// GenerationResult holds everything one generation unit produced, for batch
// aggregation and export.
type GenerationResult struct {
	ID           string           `json:"id"`            // Unit identifier
	Command      string           `json:"command"`       // Command/category key
	Source       string           `json:"source"`        // Provenance of the input pair
	Status       GenerationStatus `json:"status"`        // Unit outcome
	Template     string           `json:"template"`      // Generated template text, if any
	Error        string           `json:"error"`         // Failure message, if any
	OracleRows   int              `json:"oracle_rows"`   // Oracle quality-row count
	TemplateRows int              `json:"template_rows"` // Target engine record count
	MatchRatio   *float64         `json:"match_ratio"`   // TemplateRows/OracleRows, nil when undefined
	OverMatched  bool             `json:"over_matched"`  // True when MatchRatio > 1.0
	OracleParsed []FlatRecord     `json:"oracle_parsed"` // Quality rows for export
	TargetParsed []FlatRecord     `json:"target_parsed"` // Flattened target records for export
	SampleText   string           `json:"sample_text"`   // Raw sample, for export
	GrammarText  string           `json:"grammar_text"`  // Oracle grammar, for export
}

// GenerationConfig carries the plain parameters the core accepts from the
// CLI layer. Core packages never read configuration themselves.
type GenerationConfig struct {
	MinCols  int           // Minimum populated fields for a quality row
	Validate bool          // Re-execute the generated template and compare counts
	Timeout  time.Duration // Per-unit timeout for engine invocations
}

// BatchConfig carries the batch driver's invocation parameters.
type BatchConfig struct {
	Limit     int           // Maximum number of units to process
	Workers   int           // Fixed worker pool size
	Timeout   time.Duration // Per-unit timeout
	BatchSize int           // Pool recycle boundary
	MinCols   int           // Quality-row threshold
	MinRatio  float64       // Minimum match ratio for export
	Validate  bool          // Whether units validate their templates
	ExportDir string        // Export directory, empty to disable
	Vendors   []string      // Vendor/category prefixes to filter on
}
