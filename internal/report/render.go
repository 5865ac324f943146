package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/keibalab/keibanote/internal/pkg/models"
)

// renderSnippetLen is the display budget for raw snippets in the text
// rendering; longer snippets are cut with an ellipsis.
const renderSnippetLen = 50

// RenderText renders the report in its fixed line-oriented shape: header,
// generated-at line, summary line, per-kind itemized sections, then the
// numbered suggestions.
func RenderText(r models.Report) string {
	var sb strings.Builder
	sb.WriteString("=== keibanote parse report ===\n")
	sb.WriteString("generated at: " + r.GeneratedAt.Format(time.RFC3339) + "\n")
	sb.WriteString("summary: " + r.Summary + "\n")

	for _, kind := range kindOrder {
		diags := r.ByKind[kind]
		if len(diags) == 0 {
			continue
		}
		errors, warnings := 0, 0
		for _, d := range diags {
			if d.Severity == models.SeverityError {
				errors++
			} else {
				warnings++
			}
		}
		sb.WriteString(fmt.Sprintf("\n[%s] %s, %s\n", kind, plural(errors, "error"), plural(warnings, "warning")))
		for _, d := range diags {
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s", d.Severity, d.Field, d.Message))
			if d.LineNumber > 0 {
				sb.WriteString(fmt.Sprintf(" (line %d)", d.LineNumber))
			}
			if d.RawSnippet != "" {
				sb.WriteString(fmt.Sprintf(" %q", truncate(d.RawSnippet, renderSnippetLen)))
			}
			sb.WriteString("\n")
		}
	}

	if len(r.Suggestions) > 0 {
		sb.WriteString("\nsuggestions:\n")
		for i, s := range r.Suggestions {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, s))
		}
	}
	return sb.String()
}

// RenderJSON renders the report as indented JSON with no additional
// transformation.
func RenderJSON(r models.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
