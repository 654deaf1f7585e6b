package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/sigil/pkg/log"
	"github.com/rzbill/sigil/pkg/types"
)

const mixedBatch = `apiVersion: v1
kind: Pod
metadata:
  name: web
spec: {}
---
apiVersion: example.com/v1
kind: Frobnicator
metadata:
  name: whatever
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: app-config
data:
  key: value
`

func testOpts() Options {
	return Options{Logger: log.NewNopLogger()}
}

func TestRun_MixedBatch(t *testing.T) {
	rep, err := RunBytes(context.Background(), []byte(mixedBatch), "test.yaml", testOpts())
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Summary.Documents)
	assert.Equal(t, 1, rep.Summary.Errors)
	assert.Equal(t, 1, rep.Summary.Warnings)
	assert.Equal(t, 1, rep.Summary.UnknownKinds)
	assert.True(t, rep.HasErrors())
	assert.NotEmpty(t, rep.RunID)

	require.Len(t, rep.Findings, 2)
	assert.Equal(t, types.RuleRequiredField, rep.Findings[0].Rule)
	assert.Equal(t, 0, rep.Findings[0].DocIndex)
	assert.Equal(t, types.RuleUnknownKind, rep.Findings[1].Rule)
	assert.Equal(t, 1, rep.Findings[1].DocIndex)
}

func TestRun_DocumentsAreIndependent(t *testing.T) {
	// The unknown kind in the middle must not change what the documents
	// around it produce.
	withUnknown, err := RunBytes(context.Background(), []byte(mixedBatch), "test.yaml", testOpts())
	require.NoError(t, err)

	alone, err := RunBytes(context.Background(), []byte(`apiVersion: v1
kind: Pod
metadata:
  name: web
spec: {}
`), "test.yaml", testOpts())
	require.NoError(t, err)

	require.Len(t, alone.Findings, 1)
	first := withUnknown.Findings[0]
	assert.Equal(t, alone.Findings[0].Rule, first.Rule)
	assert.Equal(t, alone.Findings[0].Path, first.Path)
	assert.Equal(t, alone.Findings[0].Message, first.Message)
}

func TestRun_Deterministic(t *testing.T) {
	// Same input, same findings, regardless of worker scheduling. Only
	// the run ID differs.
	first, err := RunBytes(context.Background(), []byte(mixedBatch), "test.yaml", testOpts())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		opts := testOpts()
		opts.Workers = 1 + i%4
		next, err := RunBytes(context.Background(), []byte(mixedBatch), "test.yaml", opts)
		require.NoError(t, err)
		assert.Equal(t, first.Findings, next.Findings)
		assert.Equal(t, first.Summary, next.Summary)
	}
}

func TestRun_CrossReferences(t *testing.T) {
	rep, err := RunBytes(context.Background(), []byte(`apiVersion: v1
kind: Service
metadata:
  name: web
spec:
  selector:
    app: web
  ports:
    - port: 80
`), "test.yaml", testOpts())
	require.NoError(t, err)

	require.Len(t, rep.Findings, 1)
	assert.Equal(t, types.RuleDanglingSelector, rep.Findings[0].Rule)
	assert.False(t, rep.HasErrors(), "dangling selectors warn, they do not fail the run")
}

func TestRun_StrictPromotesUnknownFields(t *testing.T) {
	input := []byte(`apiVersion: v1
kind: ConfigMap
metadata:
  name: app-config
extraField: true
`)
	relaxed, err := RunBytes(context.Background(), input, "test.yaml", testOpts())
	require.NoError(t, err)
	assert.False(t, relaxed.HasErrors())

	opts := testOpts()
	opts.Strict = true
	strict, err := RunBytes(context.Background(), input, "test.yaml", opts)
	require.NoError(t, err)
	assert.True(t, strict.HasErrors())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := RunBytes(ctx, []byte(mixedBatch), "test.yaml", testOpts())
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_EmptyBatch(t *testing.T) {
	rep, err := Run(context.Background(), nil, testOpts())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Summary.Documents)
	assert.Empty(t, rep.Findings)
	assert.False(t, rep.HasErrors())
}
