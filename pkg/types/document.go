// Package types holds the shared value types of the validation pipeline:
// documents, findings, positions, and yaml.Node helpers.
package types

import (
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// UnknownIdentity stands in for a name or kind a document does not carry.
const UnknownIdentity = "unknown"

// Position is a 1-based source location. A zero Position means the
// location is not known.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParseError describes a YAML syntax failure in one document chunk.
type ParseError struct {
	Source  string
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%s: %s", e.Source, e.Pos, e.Message)
}

// ObjectRef identifies a document by its declared header fields. Fields
// the document does not carry hold UnknownIdentity.
type ObjectRef struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

func (r ObjectRef) String() string {
	if r.Namespace != "" {
		return fmt.Sprintf("%s/%s/%s", r.Kind, r.Namespace, r.Name)
	}
	return fmt.Sprintf("%s/%s", r.Kind, r.Name)
}

// Document is one YAML document out of a multi-document input. A
// document that failed to parse has a nil Root and a non-nil Err; it
// still occupies its slot in the batch so indices and reports stay
// aligned with the input.
type Document struct {
	// Index is the document's position in its batch, in input order.
	Index int

	// Source names where the document came from (file path or "<stdin>").
	Source string

	// Root is the document's top-level mapping node. Nil when parsing failed.
	Root *yaml.Node

	// Pos is where the document starts in the input.
	Pos Position

	// Err holds the parse failure for placeholder documents.
	Err *ParseError
}

// Failed reports whether the document is a parse-failure placeholder.
func (d *Document) Failed() bool {
	return d.Err != nil
}

// APIVersion returns the document's declared apiVersion, or "".
func (d *Document) APIVersion() string {
	return ScalarValue(MapValue(d.Root, "apiVersion"))
}

// Kind returns the document's declared kind, or "".
func (d *Document) Kind() string {
	return ScalarValue(MapValue(d.Root, "kind"))
}

// Name returns metadata.name, or "".
func (d *Document) Name() string {
	return ScalarValue(LookupPath(d.Root, "metadata.name"))
}

// Namespace returns metadata.namespace, or "".
func (d *Document) Namespace() string {
	return ScalarValue(LookupPath(d.Root, "metadata.namespace"))
}

// Lookup walks a dotted path from the document root.
func (d *Document) Lookup(path string) *yaml.Node {
	return LookupPath(d.Root, path)
}

// Ref builds the document's identity for findings, substituting
// UnknownIdentity for header fields the document does not carry.
func (d *Document) Ref() ObjectRef {
	ref := ObjectRef{
		Kind:      d.Kind(),
		Name:      d.Name(),
		Namespace: d.Namespace(),
	}
	if ref.Kind == "" {
		ref.Kind = UnknownIdentity
	}
	if ref.Name == "" {
		ref.Name = UnknownIdentity
	}
	return ref
}
