// Package format renders lint reports for terminals and for machine
// consumption.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/rzbill/sigil/pkg/report"
	"github.com/rzbill/sigil/pkg/types"
)

// Renderer writes human-readable report output.
type Renderer struct {
	Out io.Writer

	// ContextLines is how many source lines to show around a finding.
	ContextLines int

	// Quiet suppresses success and progress chatter, leaving findings only.
	Quiet bool

	// Width is the terminal width used for the summary rule.
	Width int

	// sources holds raw input per source name, for context excerpts.
	sources map[string][]byte
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width = 80
	}
	return &Renderer{
		Out:          out,
		ContextLines: 1,
		Width:        width,
		sources:      make(map[string][]byte),
	}
}

// AddSource registers raw input so findings can show surrounding lines.
func (r *Renderer) AddSource(name string, data []byte) {
	r.sources[name] = data
}

// Render prints every finding of the report, grouped under its source.
func (r *Renderer) Render(source string, rep *report.Report) {
	if len(rep.Findings) == 0 {
		if !r.Quiet {
			SuccessColor.Fprintf(r.Out, "✓ %s: %d document(s), no findings\n", source, rep.Summary.Documents)
		}
		return
	}

	FileColor.Fprintf(r.Out, "%s:\n", source)
	for _, f := range rep.Findings {
		r.renderFinding(source, f)
	}
}

func (r *Renderer) renderFinding(source string, f types.Finding) {
	sev := WarningColor
	if f.Severity == types.SeverityError {
		sev = ErrorColor
	}
	sev.Fprintf(r.Out, "  %s", strings.ToUpper(string(f.Severity)))
	LineColor.Fprintf(r.Out, " %d:%d", f.Pos.Line, f.Pos.Column)
	fmt.Fprintf(r.Out, " %s", f.Object)
	RuleColor.Fprintf(r.Out, " [%s]", f.Rule)
	fmt.Fprintf(r.Out, " %s\n", f.Message)

	if r.ContextLines > 0 && f.Pos.Line > 0 {
		r.renderContext(source, f.Pos.Line)
	}
}

// renderContext prints the offending line with a little surrounding
// source, each prefixed by its line number.
func (r *Renderer) renderContext(source string, line int) {
	data, ok := r.sources[source]
	if !ok {
		return
	}
	lines := strings.Split(string(data), "\n")
	if line > len(lines) {
		return
	}
	from := line - r.ContextLines
	if from < 1 {
		from = 1
	}
	to := line + r.ContextLines
	if to > len(lines) {
		to = len(lines)
	}
	for i := from; i <= to; i++ {
		if i == line {
			CodeColor.Fprintf(r.Out, "    %4d │ %s\n", i, lines[i-1])
		} else {
			ContextColor.Fprintf(r.Out, "    %4d │ %s\n", i, lines[i-1])
		}
	}
}

// Summary prints the closing line for a lint invocation covering all files.
func (r *Renderer) Summary(files, errors, warnings int, elapsed time.Duration) {
	if r.Quiet && errors == 0 && warnings == 0 {
		return
	}
	fmt.Fprintln(r.Out, strings.Repeat("─", min(r.Width, 60)))
	if errors == 0 && warnings == 0 {
		SuccessColor.Fprintf(r.Out, "✓ %d file(s) linted, no findings", files)
	} else if errors == 0 {
		WarningColor.Fprintf(r.Out, "⚠ %d file(s) linted: %d warning(s)", files, warnings)
	} else {
		ErrorColor.Fprintf(r.Out, "✗ %d file(s) linted: %d error(s), %d warning(s)", files, errors, warnings)
	}
	ContextColor.Fprintf(r.Out, "  (%s)\n", elapsed.Round(time.Millisecond))
}

// fileReport pairs a source with its report for JSON output.
type fileReport struct {
	Source string         `json:"source"`
	Report *report.Report `json:"report"`
}

// RenderJSON writes the reports as a single JSON document keyed by source.
func RenderJSON(w io.Writer, reports map[string]*report.Report, order []string) error {
	out := make([]fileReport, 0, len(order))
	for _, source := range order {
		if rep, ok := reports[source]; ok {
			out = append(out, fileReport{Source: source, Report: rep})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
