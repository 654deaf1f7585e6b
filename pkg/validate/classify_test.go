package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/rzbill/sigil/pkg/catalog"
	"github.com/rzbill/sigil/pkg/loader"
	"github.com/rzbill/sigil/pkg/types"
)

func TestClassify_KnownKind(t *testing.T) {
	doc := parseOne(t, `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: api
`)
	schema, findings := Classify(doc, catalog.Builtin())
	require.NotNil(t, schema)
	assert.Empty(t, findings)
	assert.Equal(t, "Deployment", schema.Kind.Kind)
}

func TestClassify_UnknownKind(t *testing.T) {
	doc := parseOne(t, `
apiVersion: example.com/v1
kind: Frobnicator
metadata:
  name: whatever
`)
	schema, findings := Classify(doc, catalog.Builtin())
	assert.Nil(t, schema)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, types.RuleUnknownKind, f.Rule)
	assert.Equal(t, types.SeverityWarning, f.Severity)
	assert.Equal(t, "kind", f.Path)
	// Anchored at the kind key, line 3 of the input above.
	assert.Equal(t, 3, f.Pos.Line)
}

func TestClassify_KnownKindWrongAPIVersion(t *testing.T) {
	doc := parseOne(t, `
apiVersion: extensions/v1beta1
kind: Deployment
metadata:
  name: api
`)
	schema, findings := Classify(doc, catalog.Builtin())
	assert.Nil(t, schema)
	require.Len(t, findings, 1)
	assert.Equal(t, types.RuleUnknownKind, findings[0].Rule)
	assert.Contains(t, findings[0].Message, "apps/v1")
}

func TestClassify_MalformedHeader(t *testing.T) {
	doc := parseOne(t, `
metadata:
  name: mystery
`)
	schema, findings := Classify(doc, catalog.Builtin())
	assert.Nil(t, schema)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, types.RuleMalformedHeader, f.Rule)
	assert.Equal(t, types.SeverityError, f.Severity)
	assert.Contains(t, f.Message, "apiVersion and kind")
}

func TestClassify_RoundTripSerialization(t *testing.T) {
	input := `apiVersion: apps/v1
kind: Deployment
metadata:
  name: api
spec:
  selector:
    matchLabels:
      app: api
  template:
    metadata:
      labels:
        app: api
    spec:
      containers:
        - name: api
          image: api:v2
---
apiVersion: v1
kind: Service
metadata:
  name: api
spec:
  selector:
    app: api
  ports:
    - port: 80
---
apiVersion: batch/v1
kind: CronJob
metadata:
  name: backup
spec:
  schedule: "0 2 * * *"
  jobTemplate:
    spec:
      template:
        spec:
          containers:
            - name: backup
              image: backup:latest
`
	cat := catalog.Builtin()
	docs := loader.Parse([]byte(input), "test.yaml")
	require.Len(t, docs, 3)

	for _, doc := range docs {
		schema, findings := Classify(doc, cat)
		require.Empty(t, findings)
		require.NotNil(t, schema)

		// Re-serializing a loaded document and loading it again must
		// classify to the same catalog entry.
		data, err := yaml.Marshal(doc.Root)
		require.NoError(t, err)
		reloaded := loader.Parse(data, "roundtrip.yaml")
		require.Len(t, reloaded, 1)
		require.False(t, reloaded[0].Failed())

		again, findings := Classify(reloaded[0], cat)
		require.Empty(t, findings)
		assert.Same(t, schema, again, "round trip changed classification for %s", doc.Kind())
	}
}

func TestClassify_ParseErrorPlaceholder(t *testing.T) {
	docs := loader.Parse([]byte("kind: [unclosed\n"), "test.yaml")
	require.Len(t, docs, 1)
	require.True(t, docs[0].Failed())

	schema, findings := Classify(docs[0], catalog.Builtin())
	assert.Nil(t, schema)
	require.Len(t, findings, 1)
	assert.Equal(t, types.RuleParseError, findings[0].Rule)
	assert.Equal(t, types.SeverityError, findings[0].Severity)
}
