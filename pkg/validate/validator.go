package validate

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rzbill/sigil/pkg/catalog"
	"github.com/rzbill/sigil/pkg/types"
	yaml "gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation"
)

// Options control validation policy.
type Options struct {
	// Strict promotes unknown-field findings from warning to error.
	Strict bool
}

// Document walks every field rule of the schema against the document and
// returns the findings. The document is never mutated; a nil schema
// (unclassified document) yields no findings.
func Document(doc *types.Document, schema *catalog.ObjectSchema, opts Options) []types.Finding {
	if doc == nil || doc.Failed() || schema == nil {
		return nil
	}
	w := &walker{doc: doc, opts: opts}
	w.mapping(doc.Root, schema.Fields, "", false)
	w.semantic(schema)
	return w.findings
}

type walker struct {
	doc      *types.Document
	opts     Options
	findings []types.Finding
}

func (w *walker) errorf(pos types.Position, rule, path, format string, args ...interface{}) {
	w.findings = append(w.findings, types.ErrorFinding(w.doc, pos, rule, path, fmt.Sprintf(format, args...)))
}

func (w *walker) warnf(pos types.Position, rule, path, format string, args ...interface{}) {
	w.findings = append(w.findings, types.WarningFinding(w.doc, pos, rule, path, fmt.Sprintf(format, args...)))
}

// mapping checks a mapping node against a rule set. Open mappings accept
// undeclared keys silently; closed ones report them as unknown fields
// (warning by default, error in strict mode).
func (w *walker) mapping(n *yaml.Node, fields []catalog.FieldRule, prefix string, open bool) {
	n = types.Unwrap(n)
	declared := make(map[string]bool, len(fields))
	for _, rule := range fields {
		declared[rule.Name] = true
		path := joinPath(prefix, rule.Name)
		value := types.MapValue(n, rule.Name)
		if value == nil {
			if rule.Required {
				w.errorf(types.NodePos(n), types.RuleRequiredField, path,
					"required field %s is missing", path)
			}
			continue
		}
		w.shape(value, rule.Shape, path)
	}

	if open {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if declared[key.Value] {
			continue
		}
		path := joinPath(prefix, key.Value)
		if w.opts.Strict {
			w.errorf(types.NodePos(key), types.RuleUnknownField, path, "unknown field %s", path)
		} else {
			w.warnf(types.NodePos(key), types.RuleUnknownField, path, "unknown field %s", path)
		}
	}
}

func (w *walker) shape(n *yaml.Node, s catalog.Shape, path string) {
	switch s.Kind {
	case catalog.ShapeAny:
		// Unmodeled subtree.

	case catalog.ShapeString:
		if !isScalar(n) {
			w.typeMismatch(n, path, "a string")
		}

	case catalog.ShapeInt:
		if !isScalar(n) || n.Tag != "!!int" {
			w.typeMismatch(n, path, "an integer")
		}

	case catalog.ShapeBool:
		if !isScalar(n) || n.Tag != "!!bool" {
			w.typeMismatch(n, path, "a boolean")
		}

	case catalog.ShapeName:
		if !isScalar(n) {
			w.typeMismatch(n, path, "a name string")
			return
		}
		if errs := validation.IsDNS1123Subdomain(n.Value); len(errs) > 0 {
			w.errorf(types.NodePos(n), types.RuleInvalidName, path,
				"%q is not a valid name: %s", n.Value, errs[0])
		}

	case catalog.ShapeQuantity:
		if !isScalar(n) {
			w.typeMismatch(n, path, "a quantity")
			return
		}
		if _, err := ParseQuantity(n.Value, lastSegment(path)); err != nil {
			w.errorf(types.NodePos(n), types.RuleInvalidQuantity, path, "%v", err)
		}

	case catalog.ShapeQuantityMap:
		un := types.Unwrap(n)
		if un == nil || un.Kind != yaml.MappingNode {
			w.typeMismatch(n, path, "a mapping of quantities")
			return
		}
		for i := 0; i+1 < len(un.Content); i += 2 {
			key, value := un.Content[i], un.Content[i+1]
			sub := joinPath(path, key.Value)
			if !isScalar(value) {
				w.typeMismatch(value, sub, "a quantity")
				continue
			}
			if _, err := ParseQuantity(value.Value, key.Value); err != nil {
				w.errorf(types.NodePos(value), types.RuleInvalidQuantity, sub, "%v", err)
			}
		}

	case catalog.ShapeCron:
		if !isScalar(n) {
			w.typeMismatch(n, path, "a cron expression")
			return
		}
		if _, err := cron.ParseStandard(n.Value); err != nil {
			w.errorf(types.NodePos(n), types.RuleInvalidSchedule, path,
				"invalid cron schedule %q: %v", n.Value, err)
		}

	case catalog.ShapeEnum:
		if !isScalar(n) {
			w.typeMismatch(n, path, "one of "+strings.Join(s.Enum, "|"))
			return
		}
		for _, allowed := range s.Enum {
			if n.Value == allowed {
				return
			}
		}
		w.errorf(types.NodePos(n), types.RuleEnumMismatch, path,
			"value %q is not one of %s", n.Value, strings.Join(s.Enum, ", "))

	case catalog.ShapeStringMap:
		un := types.Unwrap(n)
		if un == nil || un.Kind != yaml.MappingNode {
			w.typeMismatch(n, path, "a mapping of strings")
			return
		}
		for i := 0; i+1 < len(un.Content); i += 2 {
			key, value := un.Content[i], un.Content[i+1]
			if !isScalar(value) {
				w.typeMismatch(value, joinPath(path, key.Value), "a string")
			}
		}

	case catalog.ShapeMapping:
		un := types.Unwrap(n)
		if un == nil || un.Kind != yaml.MappingNode {
			w.typeMismatch(n, path, "a mapping")
			return
		}
		w.mapping(un, s.Fields, path, s.Open)

	case catalog.ShapeList:
		un := types.Unwrap(n)
		if un == nil || un.Kind != yaml.SequenceNode {
			w.typeMismatch(n, path, "a list")
			return
		}
		for i, elem := range un.Content {
			w.shape(elem, *s.Elem, fmt.Sprintf("%s[%d]", path, i))
		}
	}
}

func (w *walker) typeMismatch(n *yaml.Node, path, want string) {
	w.errorf(types.NodePos(n), types.RuleTypeMismatch, path,
		"field %s must be %s, got %s", path, want, describeNode(n))
}

func isScalar(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag != "!!null"
}

func describeNode(n *yaml.Node) string {
	if n == nil {
		return "nothing"
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "null"
		}
		return strings.TrimPrefix(n.Tag, "!!")
	case yaml.SequenceNode:
		return "a list"
	case yaml.MappingNode:
		return "a mapping"
	case yaml.AliasNode:
		return "an alias"
	}
	return "an unknown node"
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// lastSegment extracts the final path element, which for quantity fields
// is the resource name ("cpu", "memory").
func lastSegment(path string) string {
	if i := strings.LastIndexAny(path, ".]"); i >= 0 && i+1 < len(path) {
		return path[i+1:]
	}
	return path
}
