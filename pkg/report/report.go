// Package report aggregates findings into the terminal artifact of a
// validation run.
package report

import (
	"sort"

	"github.com/rzbill/sigil/pkg/types"
)

// Summary holds the headline counts of a report.
type Summary struct {
	Documents    int `json:"documents"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	UnknownKinds int `json:"unknownKinds"`
}

// Report is the ordered set of findings for one validation run.
type Report struct {
	// RunID identifies the run that produced the report. It is the only
	// field not derived from the input.
	RunID string `json:"runId"`

	Findings []types.Finding `json:"findings"`
	Summary  Summary         `json:"summary"`
}

// Aggregate sorts findings into the canonical report order and computes
// summary counts. Ordering: document index first, errors before warnings
// within a document, then emission order. Aggregating the same finding
// set again yields an identical report.
func Aggregate(runID string, documents int, findings []types.Finding) *Report {
	sorted := make([]types.Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DocIndex != sorted[j].DocIndex {
			return sorted[i].DocIndex < sorted[j].DocIndex
		}
		return severityRank(sorted[i].Severity) < severityRank(sorted[j].Severity)
	})

	summary := Summary{Documents: documents}
	for _, f := range sorted {
		switch f.Severity {
		case types.SeverityError:
			summary.Errors++
		case types.SeverityWarning:
			summary.Warnings++
		}
		if f.Rule == types.RuleUnknownKind {
			summary.UnknownKinds++
		}
	}

	return &Report{RunID: runID, Findings: sorted, Summary: summary}
}

// HasErrors reports whether the run found at least one error-severity
// finding. CLI exit codes key off this; warnings alone do not fail a run.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

func severityRank(s types.Severity) int {
	if s == types.SeverityError {
		return 0
	}
	return 1
}
