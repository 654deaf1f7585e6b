package validate

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/resource"
)

// ParseQuantity parses a resource quantity string ("200m", "2", "128Mi",
// "1Gi") and normalizes it to a canonical integer unit: millicores when
// the resource name is cpu-like, otherwise the plain value (bytes for
// memory and storage). Range checks compare these normalized values.
func ParseQuantity(s, resourceName string) (int64, error) {
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	if isCPU(resourceName) {
		return q.MilliValue(), nil
	}
	return q.Value(), nil
}

// isCPU matches the resource names that are measured in cores. Quota
// documents prefix them ("requests.cpu", "limits.cpu").
func isCPU(name string) bool {
	switch name {
	case "cpu", "requests.cpu", "limits.cpu":
		return true
	}
	return false
}
