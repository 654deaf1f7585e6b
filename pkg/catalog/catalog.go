// Package catalog holds the static table of object schemas and
// cross-reference rules the validation pipeline runs against. A catalog
// is built once at startup and is read-only afterward, so any number of
// concurrent pipeline stages can share it without locking.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/rzbill/sigil/pkg/types"
)

// ErrDuplicateSchema is returned when a schema is registered twice for
// the same (apiVersion, kind). It indicates a programming defect, not a
// document defect, so callers treat it as fatal at startup.
type ErrDuplicateSchema struct {
	Kind types.ObjectKind
}

func (e *ErrDuplicateSchema) Error() string {
	return fmt.Sprintf("duplicate schema for %s", e.Kind)
}

// Catalog maps ObjectKinds to their schemas.
type Catalog struct {
	schemas map[types.ObjectKind]*ObjectSchema

	// kindNames tracks kind names across all apiVersions, used to tell
	// "unknown kind" apart from "known kind, wrong apiVersion".
	kindNames map[string][]string
}

// New returns an empty catalog. Register all schemas before handing the
// catalog to a pipeline; it is not safe to mutate concurrently with reads.
func New() *Catalog {
	return &Catalog{
		schemas:   make(map[types.ObjectKind]*ObjectSchema),
		kindNames: make(map[string][]string),
	}
}

// Register adds a schema. Registering the same ObjectKind twice fails
// with ErrDuplicateSchema.
func (c *Catalog) Register(s *ObjectSchema) error {
	if _, exists := c.schemas[s.Kind]; exists {
		return &ErrDuplicateSchema{Kind: s.Kind}
	}
	c.schemas[s.Kind] = s
	c.kindNames[s.Kind.Kind] = append(c.kindNames[s.Kind.Kind], s.Kind.APIVersion)
	return nil
}

// MustRegister is Register for startup-time catalog construction, where
// a duplicate is a programming defect.
func (c *Catalog) MustRegister(s *ObjectSchema) {
	if err := c.Register(s); err != nil {
		panic(err)
	}
}

// Lookup finds the schema for an (apiVersion, kind) pair.
func (c *Catalog) Lookup(apiVersion, kind string) (*ObjectSchema, bool) {
	s, ok := c.schemas[types.ObjectKind{APIVersion: apiVersion, Kind: kind}]
	return s, ok
}

// VersionsForKind returns the apiVersions the catalog knows for a kind
// name, or nil if the kind name is unknown entirely.
func (c *Catalog) VersionsForKind(kind string) []string {
	return c.kindNames[kind]
}

// Kinds returns all registered ObjectKinds, sorted for stable output.
func (c *Catalog) Kinds() []types.ObjectKind {
	kinds := make([]types.ObjectKind, 0, len(c.schemas))
	for k := range c.schemas {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i].Kind != kinds[j].Kind {
			return kinds[i].Kind < kinds[j].Kind
		}
		return kinds[i].APIVersion < kinds[j].APIVersion
	})
	return kinds
}

// Len returns the number of registered schemas.
func (c *Catalog) Len() int {
	return len(c.schemas)
}

// Fingerprint hashes the registered kind set. Cached lint results are
// keyed on it so a catalog change invalidates prior entries.
func (c *Catalog) Fingerprint() string {
	h := sha256.New()
	for _, k := range c.Kinds() {
		fmt.Fprintln(h, k.String())
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
