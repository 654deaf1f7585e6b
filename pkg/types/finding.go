package types

import "fmt"

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifiers are stable strings; external tooling keys off them.
const (
	RuleParseError      = "loader.parseError"
	RuleMalformedHeader = "classify.malformedHeader"
	RuleUnknownKind     = "classify.unknownKind"

	RuleRequiredField   = "schema.requiredField"
	RuleTypeMismatch    = "schema.typeMismatch"
	RuleEnumMismatch    = "schema.enumMismatch"
	RuleUnknownField    = "schema.unknownField"
	RuleInvalidQuantity = "schema.invalidQuantity"
	RuleQuantityRange   = "schema.quantityRange"
	RuleInvalidName     = "schema.invalidName"
	RuleInvalidSchedule = "schema.invalidSchedule"

	RuleDanglingSelector    = "xref.danglingSelector"
	RuleDanglingRoleRef     = "xref.danglingRoleRef"
	RuleVolumeMountMismatch = "xref.volumeMountMismatch"
)

// Finding is one validation result. Immutable after creation; owned by
// the report once emitted.
type Finding struct {
	Severity Severity  `json:"severity"`
	DocIndex int       `json:"docIndex"`
	Object   ObjectRef `json:"object"`
	Pos      Position  `json:"position"`

	// Rule is the stable identifier of the violated rule.
	Rule string `json:"rule"`

	// Path is the dotted field path the finding refers to, when one exists.
	Path string `json:"path,omitempty"`

	Message string `json:"message"`
}

func (f Finding) String() string {
	if f.Path != "" {
		return fmt.Sprintf("[%s] doc %d %s %s (%s): %s", f.Severity, f.DocIndex, f.Object, f.Pos, f.Path, f.Message)
	}
	return fmt.Sprintf("[%s] doc %d %s %s: %s", f.Severity, f.DocIndex, f.Object, f.Pos, f.Message)
}

// ErrorFinding builds an error-severity finding for doc.
func ErrorFinding(doc *Document, pos Position, rule, path, msg string) Finding {
	return Finding{
		Severity: SeverityError,
		DocIndex: doc.Index,
		Object:   doc.Ref(),
		Pos:      pos,
		Rule:     rule,
		Path:     path,
		Message:  msg,
	}
}

// WarningFinding builds a warning-severity finding for doc.
func WarningFinding(doc *Document, pos Position, rule, path, msg string) Finding {
	f := ErrorFinding(doc, pos, rule, path, msg)
	f.Severity = SeverityWarning
	return f
}
