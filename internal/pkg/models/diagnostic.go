package models

import (
	"fmt"
	"time"
)

// DiagnosticKind classifies which extraction stage produced a diagnostic.
type DiagnosticKind string

const (
	KindRaceInfo   DiagnosticKind = "race_info"
	KindHorseData  DiagnosticKind = "horse_data"
	KindOddsData   DiagnosticKind = "odds_data"
	KindValidation DiagnosticKind = "validation"
)

// Severity of a diagnostic. Errors block success, warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

const maxSnippetLen = 200

// Diagnostic is one field-level finding from an extraction call.
// Never mutated after creation.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Field      string         `json:"field"`
	Message    string         `json:"message"`
	RawSnippet string         `json:"raw_snippet,omitempty"`
	LineNumber int            `json:"line_number,omitempty"` // 1-based, 0 when unknown
	Severity   Severity       `json:"severity"`
}

// NewError builds an error-severity diagnostic. The snippet is bounded so a
// full pasted block cannot blow up stored reports.
func NewError(kind DiagnosticKind, field, message, snippet string) Diagnostic {
	return Diagnostic{Kind: kind, Field: field, Message: message, RawSnippet: boundSnippet(snippet), Severity: SeverityError}
}

// NewWarning builds a warning-severity diagnostic.
func NewWarning(kind DiagnosticKind, field, message, snippet string) Diagnostic {
	return Diagnostic{Kind: kind, Field: field, Message: message, RawSnippet: boundSnippet(snippet), Severity: SeverityWarning}
}

// AtLine returns a copy of d with the source line number attached.
func (d Diagnostic) AtLine(line int) Diagnostic {
	d.LineNumber = line
	return d
}

// Downgraded returns a copy of d with severity lowered to warning.
func (d Diagnostic) Downgraded() Diagnostic {
	d.Severity = SeverityWarning
	return d
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s/%s] %s: %s", d.Kind, d.Severity, d.Field, d.Message)
}

func boundSnippet(s string) string {
	r := []rune(s)
	if len(r) <= maxSnippetLen {
		return s
	}
	return string(r[:maxSnippetLen])
}

// ExtractionResult is the diagnostics-bearing part of every extractor
// result. The diagnostics list is the sole source of truth for success:
// a call succeeded iff it produced zero error-severity diagnostics.
type ExtractionResult struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Success reports whether the extraction produced no errors.
func (r *ExtractionResult) Success() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return false
		}
	}
	return true
}

// ErrorCount returns the number of error-severity diagnostics.
func (r *ExtractionResult) ErrorCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity diagnostics.
func (r *ExtractionResult) WarningCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// Add appends diagnostics to the result.
func (r *ExtractionResult) Add(diags ...Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, diags...)
}

// Report is the aggregated view over one or more extraction calls.
// Derived purely from the diagnostics; regenerable at any time — only
// GeneratedAt varies between regenerations.
type Report struct {
	Summary       string                          `json:"summary"`
	TotalErrors   int                             `json:"total_errors"`
	TotalWarnings int                             `json:"total_warnings"`
	ByKind        map[DiagnosticKind][]Diagnostic `json:"by_kind"`
	Suggestions   []string                        `json:"suggestions"`
	GeneratedAt   time.Time                       `json:"generated_at"`
}
