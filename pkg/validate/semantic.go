package validate

import (
	"fmt"

	yaml "gopkg.in/yaml.v3"

	"github.com/rzbill/sigil/pkg/catalog"
	"github.com/rzbill/sigil/pkg/types"
)

// semantic runs the kind-specific checks a structural walk cannot
// express, dispatched by the check ids the schema declares.
func (w *walker) semantic(schema *catalog.ObjectSchema) {
	for _, check := range schema.Checks {
		switch check {
		case catalog.CheckLimitRangeBounds:
			w.limitRangeBounds()
		case catalog.CheckServicePorts:
			w.servicePorts()
		}
	}
}

// servicePorts requires spec.ports on every service except ExternalName
// ones, which forward by DNS and expose no ports of their own.
func (w *walker) servicePorts() {
	spec := types.Unwrap(w.doc.Lookup("spec"))
	if spec == nil || spec.Kind != yaml.MappingNode {
		return
	}
	if types.ScalarValue(types.MapValue(spec, "type")) == "ExternalName" {
		return
	}
	if types.MapValue(spec, "ports") == nil {
		w.errorf(types.NodePos(spec), types.RuleRequiredField, "spec.ports",
			"required field spec.ports is missing")
	}
}

// limitRangeBounds enforces min <= max per resource name across each
// spec.limits entry. Quantities that failed to parse were already
// reported by the structural walk and are skipped here.
func (w *walker) limitRangeBounds() {
	limits := types.Unwrap(w.doc.Lookup("spec.limits"))
	if limits == nil || limits.Kind != yaml.SequenceNode {
		return
	}
	for i, item := range limits.Content {
		minNode := types.Unwrap(types.MapValue(item, "min"))
		maxNode := types.Unwrap(types.MapValue(item, "max"))
		if minNode == nil || maxNode == nil {
			continue
		}
		for j := 0; j+1 < len(minNode.Content); j += 2 {
			name := minNode.Content[j].Value
			minVal := minNode.Content[j+1]
			maxVal := types.MapValue(maxNode, name)
			if !isScalar(minVal) || !isScalar(maxVal) {
				continue
			}
			minQ, errMin := ParseQuantity(minVal.Value, name)
			maxQ, errMax := ParseQuantity(maxVal.Value, name)
			if errMin != nil || errMax != nil {
				continue
			}
			if minQ > maxQ {
				path := fmt.Sprintf("spec.limits[%d].min.%s", i, name)
				w.errorf(types.NodePos(minVal), types.RuleQuantityRange, path,
					"min %s exceeds max %s for %s", minVal.Value, maxVal.Value, name)
			}
		}
	}
}
