// Package validate classifies documents against the rule catalog and
// checks their fields against the matched schema. All problems become
// findings; nothing in this package aborts a batch.
package validate

import (
	"fmt"
	"strings"

	"github.com/rzbill/sigil/pkg/catalog"
	"github.com/rzbill/sigil/pkg/types"
)

// Classify resolves a document's (apiVersion, kind) pair against the
// catalog. A parse-failure placeholder yields its ParseError finding
// here so the report covers every document in the batch. An unknown
// kind is a warning, not an error: the batch may legitimately carry
// kinds the catalog does not model.
func Classify(doc *types.Document, cat *catalog.Catalog) (*catalog.ObjectSchema, []types.Finding) {
	if doc.Failed() {
		return nil, []types.Finding{
			types.ErrorFinding(doc, doc.Err.Pos, types.RuleParseError, "", doc.Err.Message),
		}
	}

	apiVersion := doc.APIVersion()
	kind := doc.Kind()
	if apiVersion == "" || kind == "" {
		missing := make([]string, 0, 2)
		if apiVersion == "" {
			missing = append(missing, "apiVersion")
		}
		if kind == "" {
			missing = append(missing, "kind")
		}
		return nil, []types.Finding{
			types.ErrorFinding(doc, doc.Pos, types.RuleMalformedHeader, "",
				fmt.Sprintf("document is missing %s", strings.Join(missing, " and "))),
		}
	}

	if schema, ok := cat.Lookup(apiVersion, kind); ok {
		return schema, nil
	}

	pos := types.NodePos(types.MapKey(doc.Root, "kind"))
	if pos.Line == 0 {
		pos = doc.Pos
	}
	if versions := cat.VersionsForKind(kind); len(versions) > 0 {
		return nil, []types.Finding{
			types.WarningFinding(doc, pos, types.RuleUnknownKind, "kind",
				fmt.Sprintf("kind %s is not served by apiVersion %s (known: %s)",
					kind, apiVersion, strings.Join(versions, ", "))),
		}
	}
	return nil, []types.Finding{
		types.WarningFinding(doc, pos, types.RuleUnknownKind, "kind",
			fmt.Sprintf("unknown kind %s", kind)),
	}
}
