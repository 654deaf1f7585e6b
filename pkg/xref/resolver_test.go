package xref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/sigil/pkg/catalog"
	"github.com/rzbill/sigil/pkg/loader"
	"github.com/rzbill/sigil/pkg/types"
	"github.com/rzbill/sigil/pkg/validate"
)

func batchFor(t *testing.T, input string) []Entry {
	t.Helper()
	docs := loader.Parse([]byte(input), "test.yaml")
	cat := catalog.Builtin()
	batch := make([]Entry, len(docs))
	for i, doc := range docs {
		schema, _ := validate.Classify(doc, cat)
		batch[i] = Entry{Doc: doc, Schema: schema}
	}
	return batch
}

func rulesOf(findings []types.Finding) []string {
	var rules []string
	for _, f := range findings {
		rules = append(rules, f.Rule)
	}
	return rules
}

func TestResolve_DanglingServiceSelector(t *testing.T) {
	findings := Resolve(batchFor(t, `
apiVersion: v1
kind: Service
metadata:
  name: web
spec:
  selector:
    app: web
  ports:
    - port: 80
---
apiVersion: apps/v1
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
`))

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, types.RuleDanglingSelector, f.Rule)
	assert.Equal(t, types.SeverityWarning, f.Severity)
	assert.Equal(t, 0, f.DocIndex)
	assert.Equal(t, "spec.selector", f.Path)
	assert.Contains(t, f.Message, "{app=web}")
}

func TestResolve_SelectorMatchesTemplate(t *testing.T) {
	findings := Resolve(batchFor(t, `
apiVersion: v1
kind: Service
metadata:
  name: web
spec:
  selector:
    app: web
  ports:
    - port: 80
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
spec:
  selector:
    matchLabels:
      app: web
  template:
    metadata:
      labels:
        app: web
        tier: frontend
    spec:
      containers:
        - name: web
          image: nginx
`))
	assert.Empty(t, findings, "subset selector must match a superset label set")
}

func TestResolve_SelectorIsNamespaceScoped(t *testing.T) {
	findings := Resolve(batchFor(t, `
apiVersion: v1
kind: Service
metadata:
  name: web
  namespace: staging
spec:
  selector:
    app: web
  ports:
    - port: 80
---
apiVersion: v1
kind: Pod
metadata:
  name: web
  namespace: production
  labels:
    app: web
spec:
  containers:
    - name: web
      image: nginx
`))

	require.Len(t, findings, 1)
	assert.Equal(t, types.RuleDanglingSelector, findings[0].Rule)
}

func TestResolve_OmittedNamespaceIsDefault(t *testing.T) {
	findings := Resolve(batchFor(t, `
apiVersion: v1
kind: Service
metadata:
  name: web
spec:
  selector:
    app: web
  ports:
    - port: 80
---
apiVersion: v1
kind: Pod
metadata:
  name: web
  namespace: default
  labels:
    app: web
spec:
  containers:
    - name: web
      image: nginx
`))
	assert.Empty(t, findings)
}

func TestResolve_RoleRef(t *testing.T) {
	resolved := `
apiVersion: rbac.authorization.k8s.io/v1
kind: RoleBinding
metadata:
  name: read-pods
roleRef:
  apiGroup: rbac.authorization.k8s.io
  kind: Role
  name: pod-reader
subjects:
  - kind: ServiceAccount
    name: app
---
apiVersion: rbac.authorization.k8s.io/v1
kind: Role
metadata:
  name: pod-reader
rules:
  - apiGroups: [""]
    resources: ["pods"]
    verbs: ["get", "list"]
`
	assert.Empty(t, Resolve(batchFor(t, resolved)))

	dangling := `
apiVersion: rbac.authorization.k8s.io/v1
kind: RoleBinding
metadata:
  name: read-pods
roleRef:
  apiGroup: rbac.authorization.k8s.io
  kind: Role
  name: pod-reader
subjects:
  - kind: ServiceAccount
    name: app
`
	findings := Resolve(batchFor(t, dangling))
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, types.RuleDanglingRoleRef, f.Rule)
	assert.Equal(t, types.SeverityWarning, f.Severity)
	assert.Equal(t, "roleRef", f.Path)
	assert.Contains(t, f.Message, `Role "pod-reader"`)
}

func TestResolve_RoleRefNamespaceScoped(t *testing.T) {
	findings := Resolve(batchFor(t, `
apiVersion: rbac.authorization.k8s.io/v1
kind: RoleBinding
metadata:
  name: read-pods
  namespace: staging
roleRef:
  apiGroup: rbac.authorization.k8s.io
  kind: Role
  name: pod-reader
subjects:
  - kind: ServiceAccount
    name: app
---
apiVersion: rbac.authorization.k8s.io/v1
kind: Role
metadata:
  name: pod-reader
  namespace: production
rules: []
`))

	require.Equal(t, []string{types.RuleDanglingRoleRef}, rulesOf(findings))
}

func TestResolve_ClusterRoleRefIgnoresNamespace(t *testing.T) {
	findings := Resolve(batchFor(t, `
apiVersion: rbac.authorization.k8s.io/v1
kind: ClusterRoleBinding
metadata:
  name: admins
roleRef:
  apiGroup: rbac.authorization.k8s.io
  kind: ClusterRole
  name: cluster-admin
subjects:
  - kind: Group
    name: admins
---
apiVersion: rbac.authorization.k8s.io/v1
kind: ClusterRole
metadata:
  name: cluster-admin
rules: []
`))
	assert.Empty(t, findings)
}

func TestResolve_VolumeMountMismatch(t *testing.T) {
	findings := Resolve(batchFor(t, `
apiVersion: v1
kind: Pod
metadata:
  name: web
spec:
  volumes:
    - name: config
      configMap:
        name: app-config
  containers:
    - name: web
      image: nginx
      volumeMounts:
        - name: config
          mountPath: /etc/app
        - name: data
          mountPath: /var/data
`))

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, types.RuleVolumeMountMismatch, f.Rule)
	assert.Equal(t, types.SeverityError, f.Severity)
	assert.Equal(t, "spec.containers[0].volumeMounts[1].name", f.Path)
	assert.Contains(t, f.Message, `"data"`)
}

func TestResolve_VolumeMountInsideTemplate(t *testing.T) {
	findings := Resolve(batchFor(t, `
apiVersion: apps/v1
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
      initContainers:
        - name: init
          image: busybox
          volumeMounts:
            - name: scratch
              mountPath: /scratch
      containers:
        - name: api
          image: api:v2
`))

	require.Len(t, findings, 1)
	assert.Equal(t, "spec.template.spec.initContainers[0].volumeMounts[0].name", findings[0].Path)
}

func TestResolve_SkipsUnclassifiedEntries(t *testing.T) {
	batch := batchFor(t, `
apiVersion: example.com/v1
kind: Frobnicator
metadata:
  name: whatever
spec:
  selector:
    app: web
`)
	require.Nil(t, batch[0].Schema)
	assert.Empty(t, Resolve(batch))
}
