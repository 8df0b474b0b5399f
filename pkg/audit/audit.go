// Package audit records one journal entry per report run: which workbooks
// went in, what was selected, what came out and how it ended.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"metricsreport/pkg/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Action represents the command that produced an audit entry.
type Action string

const (
	// ActionGenerate is a full report run.
	ActionGenerate Action = "GENERATE"
	// ActionOptions is a cascade pool lookup.
	ActionOptions Action = "OPTIONS"
)

// Outcome represents the result of an audited run.
type Outcome string

const (
	// OutcomeSuccess indicates that the run completed.
	OutcomeSuccess Outcome = "SUCCESS"
	// OutcomeFailure indicates that the run stopped on an error.
	OutcomeFailure Outcome = "FAILURE"
)

// Entry represents a single journal record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Action    Action    `json:"action"`
	Outcome   Outcome   `json:"outcome"`
	RunID     string    `json:"run_id,omitempty"`
	Cutoff    string    `json:"cutoff,omitempty"`

	// Inputs maps workbook role to a short content hash.
	Inputs    map[string]string `json:"inputs,omitempty"`
	Selection *SelectionSummary `json:"selection,omitempty"`
	Rows      int               `json:"rows"`
	Export    *ExportSummary    `json:"export,omitempty"`

	DurationMs   int64          `json:"duration_ms"`
	ErrorCode    string         `json:"error_code,omitempty"`
	ErrorStage   string         `json:"error_stage,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// SelectionSummary counts the names selected at each level.
type SelectionSummary struct {
	Formats  int `json:"formats"`
	Variants int `json:"variants"`
	Products int `json:"products"`
}

// ExportSummary describes the written export artifact.
type ExportSummary struct {
	Format string `json:"format"`
	File   string `json:"file"`
	Bytes  int    `json:"bytes"`
}

// Logger is the interface that audit journals must implement.
type Logger interface {
	// Log records an audit entry.
	Log(ctx context.Context, entry *Entry) error

	// Close flushes pending entries and releases resources.
	Close() error
}

// Config holds configuration parameters for the audit journal.
type Config struct {
	Enabled     bool          // If true, auditing is active.
	Backend     string        // "file", "stdout" or "stderr".
	FilePath    string        // Path to the journal, if backend is "file".
	BufferSize  int           // Size of the internal buffer for asynchronous writes.
	FlushPeriod time.Duration // Period to flush buffered entries.
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() *Config {
	return &Config{
		Enabled:     false,
		Backend:     "file",
		FilePath:    "report-audit.jsonl",
		BufferSize:  64,
		FlushPeriod: 5 * time.Second,
	}
}

// FromConfig builds audit options from the application configuration.
func FromConfig(cfg *config.AuditConfig) *Config {
	c := DefaultConfig()
	c.Enabled = cfg.Enabled
	if cfg.Backend != "" {
		c.Backend = cfg.Backend
	}
	if cfg.FilePath != "" {
		c.FilePath = cfg.FilePath
	}
	if cfg.BufferSize > 0 {
		c.BufferSize = cfg.BufferSize
	}
	if cfg.FlushPeriod > 0 {
		c.FlushPeriod = cfg.FlushPeriod
	}
	return c
}

// Builder provides a fluent API for constructing an Entry object.
type Builder struct {
	entry *Entry
}

// NewEntry creates and returns a new Builder initialized with a timestamp.
func NewEntry() *Builder {
	return &Builder{
		entry: &Entry{
			Timestamp: time.Now(),
			Inputs:    make(map[string]string),
			Metadata:  make(map[string]any),
		},
	}
}

// Service sets the service name.
func (b *Builder) Service(s string) *Builder {
	b.entry.Service = s
	return b
}

// Action sets the action type.
func (b *Builder) Action(a Action) *Builder {
	b.entry.Action = a
	return b
}

// Outcome sets the outcome.
func (b *Builder) Outcome(o Outcome) *Builder {
	b.entry.Outcome = o
	return b
}

// RunID sets the run identifier shared with logs and traces.
func (b *Builder) RunID(id string) *Builder {
	b.entry.RunID = id
	return b
}

// Cutoff sets the cut-off label of the run.
func (b *Builder) Cutoff(label string) *Builder {
	b.entry.Cutoff = label
	return b
}

// Input records the content hash of one input workbook.
func (b *Builder) Input(role, hash string) *Builder {
	b.entry.Inputs[role] = hash
	return b
}

// Selection records how many names were selected per level.
func (b *Builder) Selection(formats, variants, products int) *Builder {
	b.entry.Selection = &SelectionSummary{Formats: formats, Variants: variants, Products: products}
	return b
}

// Rows sets the number of emitted report rows.
func (b *Builder) Rows(n int) *Builder {
	b.entry.Rows = n
	return b
}

// Export records the export artifact.
func (b *Builder) Export(format, file string, size int) *Builder {
	b.entry.Export = &ExportSummary{Format: format, File: file, Bytes: size}
	return b
}

// Duration sets the duration of the run in milliseconds.
func (b *Builder) Duration(d time.Duration) *Builder {
	b.entry.DurationMs = d.Milliseconds()
	return b
}

// Error sets the error code, stage and message of a failed run.
func (b *Builder) Error(code, stage, message string) *Builder {
	b.entry.ErrorCode = code
	b.entry.ErrorStage = stage
	b.entry.ErrorMessage = message
	return b
}

// Meta adds a key-value pair to the metadata map.
func (b *Builder) Meta(key string, value any) *Builder {
	b.entry.Metadata[key] = value
	return b
}

// Build finalizes the Entry. It generates an ID if one is not already set.
func (b *Builder) Build() *Entry {
	if b.entry.ID == "" {
		b.entry.ID = uuid.New().String()
	}
	return b.entry
}

// MarshalJSON customizes the JSON serialization of an Entry.
func (e *Entry) MarshalJSON() ([]byte, error) {
	type Alias Entry
	return json.Marshal((*Alias)(e))
}
