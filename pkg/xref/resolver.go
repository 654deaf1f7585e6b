// Package xref evaluates relationships between documents in one batch:
// label selectors against pod templates, role references against RBAC
// documents, and volume mounts against their own document's volumes.
// It runs after every document has been classified and validated.
package xref

import (
	"fmt"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/rzbill/sigil/pkg/catalog"
	"github.com/rzbill/sigil/pkg/types"
)

// Entry pairs a document with its matched schema. Schema is nil for
// documents that failed parsing or classification; those only take part
// as much as their fields allow.
type Entry struct {
	Doc    *types.Document
	Schema *catalog.ObjectSchema
}

// Resolve evaluates all cross-reference rules over the batch. Findings
// come out in a fixed pass order (selectors, name references, volumes)
// so report ordering is reproducible; the rules themselves are
// commutative.
func Resolve(batch []Entry) []types.Finding {
	var findings []types.Finding
	findings = append(findings, selectorPass(batch)...)
	findings = append(findings, nameRefPass(batch)...)
	findings = append(findings, volumePass(batch)...)
	return findings
}

// selectorPass confirms each selector-bearing document matches at least
// one pod template in the batch. A miss is advisory only: the selected
// pods may be created outside this batch.
func selectorPass(batch []Entry) []types.Finding {
	var findings []types.Finding
	for _, e := range batch {
		if e.Schema == nil || e.Schema.Selector == nil {
			continue
		}
		selNode := e.Doc.Lookup(e.Schema.Selector.Path)
		set := types.StringMap(selNode)
		if len(set) == 0 {
			continue
		}
		selector := labels.SelectorFromSet(labels.Set(set))
		ns := namespaceOf(e.Doc)

		matched := false
		for _, target := range batch {
			if target.Schema == nil || len(target.Schema.PodTemplatePaths) == 0 {
				continue
			}
			if namespaceOf(target.Doc) != ns {
				continue
			}
			for _, tpl := range target.Schema.PodTemplatePaths {
				if selector.Matches(labels.Set(target.Schema.PodLabels(target.Doc, tpl))) {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			findings = append(findings, types.WarningFinding(e.Doc, types.NodePos(selNode),
				types.RuleDanglingSelector, e.Schema.Selector.Path,
				fmt.Sprintf("selector %s does not match any pod template in this batch", formatSet(set))))
		}
	}
	return findings
}

// nameRefPass confirms role references point at a Role/ClusterRole
// present in the batch. Like selectors, a miss is a warning: the target
// may exist in the cluster already.
func nameRefPass(batch []Entry) []types.Finding {
	var findings []types.Finding
	for _, e := range batch {
		if e.Schema == nil || e.Schema.NameRef == nil {
			continue
		}
		rule := e.Schema.NameRef
		refNode := e.Doc.Lookup(rule.Path)
		refKind := types.ScalarValue(types.MapValue(refNode, "kind"))
		refName := types.ScalarValue(types.MapValue(refNode, "name"))
		if refKind == "" || refName == "" {
			continue // schema validation already reported the broken ref
		}
		if !contains(rule.Kinds, refKind) {
			continue // enum mismatch, reported by the validator
		}

		found := false
		for _, target := range batch {
			if target.Doc.Kind() != refKind || target.Doc.Name() != refName {
				continue
			}
			// Role references are namespace-scoped; ClusterRoles are not.
			if refKind == "Role" && namespaceOf(target.Doc) != namespaceOf(e.Doc) {
				continue
			}
			found = true
			break
		}
		if !found {
			findings = append(findings, types.WarningFinding(e.Doc, types.NodePos(refNode),
				types.RuleDanglingRoleRef, rule.Path,
				fmt.Sprintf("%s %q is not defined in this batch", refKind, refName)))
		}
	}
	return findings
}

// volumePass checks that every volumeMounts entry names a volume declared
// in the same document. This is a same-document mismatch and is
// unambiguous, so it is an error rather than a warning.
func volumePass(batch []Entry) []types.Finding {
	var findings []types.Finding
	for _, e := range batch {
		if e.Schema == nil {
			continue
		}
		for _, tpl := range e.Schema.PodTemplatePaths {
			specPath := "spec"
			if tpl != "" {
				specPath = tpl + ".spec"
			}
			spec := e.Doc.Lookup(specPath)
			declared := volumeNames(types.MapValue(spec, "volumes"))

			for _, listName := range []string{"containers", "initContainers"} {
				containers := types.Unwrap(types.MapValue(spec, listName))
				if containers == nil || containers.Kind != yaml.SequenceNode {
					continue
				}
				for i, c := range containers.Content {
					mounts := types.Unwrap(types.MapValue(c, "volumeMounts"))
					if mounts == nil || mounts.Kind != yaml.SequenceNode {
						continue
					}
					for j, m := range mounts.Content {
						nameNode := types.MapValue(m, "name")
						name := types.ScalarValue(nameNode)
						if name == "" || declared[name] {
							continue
						}
						path := fmt.Sprintf("%s.%s[%d].volumeMounts[%d].name", specPath, listName, i, j)
						findings = append(findings, types.ErrorFinding(e.Doc, types.NodePos(nameNode),
							types.RuleVolumeMountMismatch, path,
							fmt.Sprintf("volumeMount %q has no matching entry in %s.volumes", name, specPath)))
					}
				}
			}
		}
	}
	return findings
}

func volumeNames(n *yaml.Node) map[string]bool {
	n = types.Unwrap(n)
	names := make(map[string]bool)
	if n == nil || n.Kind != yaml.SequenceNode {
		return names
	}
	for _, v := range n.Content {
		if name := types.ScalarValue(types.MapValue(v, "name")); name != "" {
			names[name] = true
		}
	}
	return names
}

func namespaceOf(doc *types.Document) string {
	if ns := doc.Namespace(); ns != "" {
		return ns
	}
	return "default"
}

func formatSet(set map[string]string) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+set[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
