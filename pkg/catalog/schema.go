package catalog

import (
	"github.com/rzbill/sigil/pkg/types"
)

// ShapeKind enumerates the value shapes a field rule can demand.
type ShapeKind string

const (
	// ShapeAny accepts any node. Used for subtrees the catalog does not model.
	ShapeAny ShapeKind = "any"

	ShapeString ShapeKind = "string"
	ShapeInt    ShapeKind = "int"
	ShapeBool   ShapeKind = "bool"

	// ShapeName is a scalar constrained to the DNS-1123 subdomain grammar.
	ShapeName ShapeKind = "name"

	// ShapeQuantity is a scalar in the resource quantity grammar (200m, 1Gi).
	ShapeQuantity ShapeKind = "quantity"

	// ShapeQuantityMap is a mapping of resource names to quantities,
	// as in resources.requests / resources.limits.
	ShapeQuantityMap ShapeKind = "quantityMap"

	// ShapeCron is a scalar that must parse as a standard cron expression.
	ShapeCron ShapeKind = "cron"

	// ShapeEnum is a scalar restricted to a fixed set of literals.
	ShapeEnum ShapeKind = "enum"

	// ShapeStringMap is a mapping of scalar keys to scalar values
	// (labels, annotations, configmap data).
	ShapeStringMap ShapeKind = "stringMap"

	// ShapeMapping is a nested object validated against Fields.
	ShapeMapping ShapeKind = "mapping"

	// ShapeList is a sequence whose elements are validated against Elem.
	ShapeList ShapeKind = "list"
)

// Shape describes the expected value of one field.
type Shape struct {
	Kind ShapeKind

	// Enum holds the allowed literals when Kind is ShapeEnum.
	Enum []string

	// Elem is the element shape when Kind is ShapeList.
	Elem *Shape

	// Fields are the nested rules when Kind is ShapeMapping.
	Fields []FieldRule

	// Open marks a mapping whose undeclared keys are accepted silently,
	// instead of producing unknown-field findings.
	Open bool
}

// FieldRule describes one field of an object schema: its name within the
// parent mapping, whether it must be present, and its value shape.
type FieldRule struct {
	Name     string
	Required bool
	Shape    Shape
}

// SelectorRule marks a schema as carrying a label selector that should
// match at least one pod-producing document in the batch.
type SelectorRule struct {
	// Path is the dotted path to the matchLabels-style string map,
	// e.g. "spec.selector" for Service.
	Path string
}

// NameRefRule marks a schema as referencing another document by name.
type NameRefRule struct {
	// Path is the dotted path to the reference mapping; it must carry
	// "kind" and "name" scalars (e.g. "roleRef").
	Path string

	// Kinds are the document kinds the reference may point at.
	Kinds []string
}

// Semantic check identifiers, dispatched by the validator after the
// structural walk.
const (
	CheckLimitRangeBounds = "limitRangeBounds"
	CheckServicePorts     = "servicePorts"
)

// ObjectSchema binds an ObjectKind to its field rules and cross-reference
// behavior. Schemas are immutable once registered.
type ObjectSchema struct {
	Kind types.ObjectKind

	// Fields are the top-level rules, including apiVersion/kind/metadata.
	Fields []FieldRule

	// PodTemplatePaths are dotted paths to pod-template mappings inside
	// the document. "" means the document root itself (a bare Pod).
	// Empty slice means the kind produces no pods.
	PodTemplatePaths []string

	// Selector is set for kinds whose selector participates in
	// cross-reference matching (Service, NetworkPolicy, PDB).
	Selector *SelectorRule

	// NameRef is set for kinds that reference another document by name
	// (RoleBinding, ClusterRoleBinding).
	NameRef *NameRefRule

	// Checks lists semantic checks to run after the structural walk.
	Checks []string
}

// PodLabels extracts the labels of one pod template of doc, given a
// template path from PodTemplatePaths.
func (s *ObjectSchema) PodLabels(doc *types.Document, tplPath string) map[string]string {
	path := "metadata.labels"
	if tplPath != "" {
		path = tplPath + ".metadata.labels"
	}
	return types.StringMap(doc.Lookup(path))
}
