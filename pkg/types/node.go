package types

import (
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Helpers for reading yaml.Node trees. All of them tolerate nil input so
// callers can chain lookups without guarding every step.

// Unwrap descends through document nodes to the underlying content node.
func Unwrap(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	return n
}

// MapValue returns the value node for key in a mapping node, or nil.
func MapValue(n *yaml.Node, key string) *yaml.Node {
	n = Unwrap(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// MapKey returns the key node for key in a mapping node, or nil. Used to
// anchor findings at the key's own position.
func MapKey(n *yaml.Node, key string) *yaml.Node {
	n = Unwrap(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i]
		}
	}
	return nil
}

// MapKeys returns the key names of a mapping node in declaration order.
func MapKeys(n *yaml.Node) []string {
	n = Unwrap(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}

// ScalarValue returns the string value of a scalar node, or "".
func ScalarValue(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// LookupPath walks a dotted path from n and returns the node found, or
// nil. An empty path returns n itself (unwrapped).
func LookupPath(n *yaml.Node, path string) *yaml.Node {
	n = Unwrap(n)
	if path == "" {
		return n
	}
	for _, part := range strings.Split(path, ".") {
		n = MapValue(n, part)
		if n == nil {
			return nil
		}
	}
	return n
}

// StringMap flattens a mapping of scalar keys to scalar values. Non-scalar
// values are skipped.
func StringMap(n *yaml.Node) map[string]string {
	n = Unwrap(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make(map[string]string, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i+1].Kind == yaml.ScalarNode {
			out[n.Content[i].Value] = n.Content[i+1].Value
		}
	}
	return out
}

// NodePos converts a node's source location to a Position.
func NodePos(n *yaml.Node) Position {
	if n == nil {
		return Position{}
	}
	return Position{Line: n.Line, Column: n.Column}
}
