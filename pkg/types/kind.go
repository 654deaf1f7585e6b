package types

// ObjectKind identifies a document's type via its apiVersion and kind.
// At most one catalog entry matches a well-formed document.
type ObjectKind struct {
	// APIVersion as written in the manifest, e.g. "apps/v1" or "v1".
	APIVersion string `json:"apiVersion"`

	// Kind, e.g. "Deployment".
	Kind string `json:"kind"`
}

func (k ObjectKind) String() string {
	return k.APIVersion + "/" + k.Kind
}

// Group returns the API group portion of the apiVersion ("" for the
// core group).
func (k ObjectKind) Group() string {
	for i := 0; i < len(k.APIVersion); i++ {
		if k.APIVersion[i] == '/' {
			return k.APIVersion[:i]
		}
	}
	return ""
}
