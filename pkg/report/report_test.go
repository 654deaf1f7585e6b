package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/sigil/pkg/types"
)

func finding(docIndex int, severity types.Severity, rule, path string) types.Finding {
	return types.Finding{
		Severity: severity,
		DocIndex: docIndex,
		Rule:     rule,
		Path:     path,
	}
}

func TestAggregate_Ordering(t *testing.T) {
	findings := []types.Finding{
		finding(2, types.SeverityWarning, types.RuleUnknownField, "extra"),
		finding(0, types.SeverityWarning, types.RuleUnknownKind, "kind"),
		finding(2, types.SeverityError, types.RuleRequiredField, "spec.containers"),
		finding(1, types.SeverityError, types.RuleTypeMismatch, "spec.replicas"),
		finding(2, types.SeverityError, types.RuleInvalidName, "metadata.name"),
	}

	rep := Aggregate("run-1", 3, findings)
	require.Len(t, rep.Findings, 5)

	// Document index first, errors before warnings within a document,
	// emission order among equals.
	assert.Equal(t, 0, rep.Findings[0].DocIndex)
	assert.Equal(t, 1, rep.Findings[1].DocIndex)
	assert.Equal(t, types.RuleRequiredField, rep.Findings[2].Rule)
	assert.Equal(t, types.RuleInvalidName, rep.Findings[3].Rule)
	assert.Equal(t, types.RuleUnknownField, rep.Findings[4].Rule)
}

func TestAggregate_Idempotent(t *testing.T) {
	findings := []types.Finding{
		finding(1, types.SeverityWarning, types.RuleDanglingSelector, "spec.selector"),
		finding(0, types.SeverityError, types.RuleParseError, ""),
	}

	first := Aggregate("run-1", 2, findings)
	second := Aggregate("run-1", 2, first.Findings)
	assert.Equal(t, first, second)
}

func TestAggregate_InputNotMutated(t *testing.T) {
	findings := []types.Finding{
		finding(1, types.SeverityError, types.RuleTypeMismatch, "a"),
		finding(0, types.SeverityError, types.RuleTypeMismatch, "b"),
	}

	Aggregate("run-1", 2, findings)
	assert.Equal(t, 1, findings[0].DocIndex, "caller slice must stay in emission order")
}

func TestAggregate_Summary(t *testing.T) {
	findings := []types.Finding{
		finding(0, types.SeverityError, types.RuleRequiredField, "spec"),
		finding(1, types.SeverityWarning, types.RuleUnknownKind, "kind"),
		finding(2, types.SeverityWarning, types.RuleUnknownKind, "kind"),
		finding(3, types.SeverityWarning, types.RuleDanglingSelector, "spec.selector"),
	}

	rep := Aggregate("run-1", 5, findings)
	assert.Equal(t, Summary{Documents: 5, Errors: 1, Warnings: 3, UnknownKinds: 2}, rep.Summary)
	assert.True(t, rep.HasErrors())

	clean := Aggregate("run-2", 5, nil)
	assert.False(t, clean.HasErrors())
	assert.Empty(t, clean.Findings)
}
