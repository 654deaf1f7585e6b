package catalog

import (
	"github.com/rzbill/sigil/pkg/types"
)

// Builtin constructs the catalog of object kinds the engine ships with.
// Construction is startup-time work; a duplicate registration here is a
// programming defect and panics.
func Builtin() *Catalog {
	c := New()
	for _, s := range builtinSchemas() {
		c.MustRegister(s)
	}
	return c
}

// Shape construction helpers keep the table below readable.

func req(name string, s Shape) FieldRule {
	return FieldRule{Name: name, Required: true, Shape: s}
}

func opt(name string, s Shape) FieldRule {
	return FieldRule{Name: name, Shape: s}
}

var (
	str         = Shape{Kind: ShapeString}
	integer     = Shape{Kind: ShapeInt}
	boolean     = Shape{Kind: ShapeBool}
	dnsName     = Shape{Kind: ShapeName}
	quantity    = Shape{Kind: ShapeQuantity}
	quantityMap = Shape{Kind: ShapeQuantityMap}
	cronExpr    = Shape{Kind: ShapeCron}
	stringMap   = Shape{Kind: ShapeStringMap}
	anyNode     = Shape{Kind: ShapeAny}
)

func enum(vals ...string) Shape {
	return Shape{Kind: ShapeEnum, Enum: vals}
}

func list(elem Shape) Shape {
	e := elem
	return Shape{Kind: ShapeList, Elem: &e}
}

// obj is a closed mapping: undeclared keys produce unknown-field findings.
func obj(fields ...FieldRule) Shape {
	return Shape{Kind: ShapeMapping, Fields: fields}
}

// openObj is a mapping permissive of extension fields beyond the declared ones.
func openObj(fields ...FieldRule) Shape {
	return Shape{Kind: ShapeMapping, Fields: fields, Open: true}
}

// Shared sub-schemas.

var objectMeta = openObj(
	req("name", dnsName),
	opt("namespace", dnsName),
	opt("labels", stringMap),
	opt("annotations", stringMap),
)

// templateMeta is pod-template metadata: labels matter, name does not.
var templateMeta = openObj(
	opt("name", dnsName),
	opt("labels", stringMap),
	opt("annotations", stringMap),
)

var labelSelector = openObj(
	opt("matchLabels", stringMap),
	opt("matchExpressions", list(anyNode)),
)

var envVar = openObj(
	req("name", str),
	opt("value", str),
	opt("valueFrom", anyNode),
)

var containerPort = openObj(
	req("containerPort", integer),
	opt("name", dnsName),
	opt("protocol", enum("TCP", "UDP", "SCTP")),
	opt("hostPort", integer),
)

var volumeMount = openObj(
	req("name", dnsName),
	req("mountPath", str),
	opt("readOnly", boolean),
	opt("subPath", str),
)

var resourceRequirements = openObj(
	opt("limits", quantityMap),
	opt("requests", quantityMap),
)

var container = openObj(
	req("name", dnsName),
	req("image", str),
	opt("command", list(str)),
	opt("args", list(str)),
	opt("workingDir", str),
	opt("env", list(envVar)),
	opt("envFrom", list(anyNode)),
	opt("ports", list(containerPort)),
	opt("resources", resourceRequirements),
	opt("volumeMounts", list(volumeMount)),
	opt("livenessProbe", anyNode),
	opt("readinessProbe", anyNode),
	opt("startupProbe", anyNode),
	opt("lifecycle", anyNode),
	opt("imagePullPolicy", enum("Always", "IfNotPresent", "Never")),
	opt("securityContext", anyNode),
)

// volume entries carry a required name plus one open source block
// (configMap, secret, emptyDir, hostPath, persistentVolumeClaim, ...).
var volume = openObj(
	req("name", dnsName),
)

var nameRef = openObj(
	req("name", dnsName),
)

var podSpec = openObj(
	req("containers", list(container)),
	opt("initContainers", list(container)),
	opt("volumes", list(volume)),
	opt("restartPolicy", enum("Always", "OnFailure", "Never")),
	opt("nodeSelector", stringMap),
	opt("serviceAccountName", dnsName),
	opt("imagePullSecrets", list(nameRef)),
	opt("hostNetwork", boolean),
	opt("dnsPolicy", enum("ClusterFirst", "Default", "ClusterFirstWithHostNet", "None")),
	opt("terminationGracePeriodSeconds", integer),
	opt("activeDeadlineSeconds", integer),
	opt("affinity", anyNode),
	opt("tolerations", list(anyNode)),
	opt("securityContext", anyNode),
	opt("schedulerName", str),
	opt("priorityClassName", dnsName),
)

var podTemplate = openObj(
	opt("metadata", templateMeta),
	req("spec", podSpec),
)

var servicePort = openObj(
	opt("name", dnsName),
	req("port", integer),
	opt("targetPort", anyNode),
	opt("protocol", enum("TCP", "UDP", "SCTP")),
	opt("nodePort", integer),
)

var policyRule = openObj(
	req("verbs", list(str)),
	opt("apiGroups", list(str)),
	opt("resources", list(str)),
	opt("resourceNames", list(str)),
	opt("nonResourceURLs", list(str)),
)

var rbacSubject = openObj(
	req("kind", enum("User", "Group", "ServiceAccount")),
	req("name", str),
	opt("namespace", dnsName),
	opt("apiGroup", str),
)

var roleRef = obj(
	req("apiGroup", str),
	req("kind", enum("Role", "ClusterRole")),
	req("name", dnsName),
)

var accessMode = enum("ReadWriteOnce", "ReadOnlyMany", "ReadWriteMany", "ReadWriteOncePod")

// header returns the rules every object schema starts with.
func header(rest ...FieldRule) []FieldRule {
	fields := []FieldRule{
		req("apiVersion", str),
		req("kind", str),
		req("metadata", objectMeta),
	}
	return append(fields, rest...)
}

func kindOf(apiVersion, kind string) types.ObjectKind {
	return types.ObjectKind{APIVersion: apiVersion, Kind: kind}
}

func builtinSchemas() []*ObjectSchema {
	return []*ObjectSchema{
		{
			Kind:             kindOf("v1", "Pod"),
			Fields:           header(req("spec", podSpec), opt("status", anyNode)),
			PodTemplatePaths: []string{""},
		},
		{
			Kind: kindOf("apps/v1", "Deployment"),
			Fields: header(req("spec", openObj(
				opt("replicas", integer),
				req("selector", labelSelector),
				req("template", podTemplate),
				opt("strategy", anyNode),
				opt("minReadySeconds", integer),
				opt("revisionHistoryLimit", integer),
				opt("progressDeadlineSeconds", integer),
				opt("paused", boolean),
			)), opt("status", anyNode)),
			PodTemplatePaths: []string{"spec.template"},
		},
		{
			Kind: kindOf("apps/v1", "StatefulSet"),
			Fields: header(req("spec", openObj(
				req("serviceName", dnsName),
				opt("replicas", integer),
				req("selector", labelSelector),
				req("template", podTemplate),
				opt("volumeClaimTemplates", list(anyNode)),
				opt("updateStrategy", anyNode),
				opt("podManagementPolicy", enum("OrderedReady", "Parallel")),
			)), opt("status", anyNode)),
			PodTemplatePaths: []string{"spec.template"},
		},
		{
			Kind: kindOf("apps/v1", "DaemonSet"),
			Fields: header(req("spec", openObj(
				req("selector", labelSelector),
				req("template", podTemplate),
				opt("updateStrategy", anyNode),
				opt("minReadySeconds", integer),
				opt("revisionHistoryLimit", integer),
			)), opt("status", anyNode)),
			PodTemplatePaths: []string{"spec.template"},
		},
		{
			Kind: kindOf("batch/v1", "Job"),
			Fields: header(req("spec", openObj(
				req("template", podTemplate),
				opt("completions", integer),
				opt("parallelism", integer),
				opt("backoffLimit", integer),
				opt("activeDeadlineSeconds", integer),
				opt("ttlSecondsAfterFinished", integer),
				opt("selector", labelSelector),
				opt("manualSelector", boolean),
			)), opt("status", anyNode)),
			PodTemplatePaths: []string{"spec.template"},
		},
		{
			Kind: kindOf("batch/v1", "CronJob"),
			Fields: header(req("spec", openObj(
				req("schedule", cronExpr),
				req("jobTemplate", openObj(
					opt("metadata", templateMeta),
					req("spec", openObj(
						req("template", podTemplate),
						opt("completions", integer),
						opt("parallelism", integer),
						opt("backoffLimit", integer),
						opt("ttlSecondsAfterFinished", integer),
					)),
				)),
				opt("concurrencyPolicy", enum("Allow", "Forbid", "Replace")),
				opt("startingDeadlineSeconds", integer),
				opt("successfulJobsHistoryLimit", integer),
				opt("failedJobsHistoryLimit", integer),
				opt("suspend", boolean),
				opt("timeZone", str),
			)), opt("status", anyNode)),
			PodTemplatePaths: []string{"spec.jobTemplate.spec.template"},
		},
		{
			Kind: kindOf("v1", "Service"),
			Fields: header(req("spec", openObj(
				opt("selector", stringMap),
				// ports are demanded by the servicePorts check instead,
				// since ExternalName services have none.
				opt("ports", list(servicePort)),
				opt("type", enum("ClusterIP", "NodePort", "LoadBalancer", "ExternalName")),
				opt("clusterIP", str),
				opt("externalName", str),
				opt("sessionAffinity", enum("None", "ClientIP")),
				opt("externalTrafficPolicy", enum("Cluster", "Local")),
			)), opt("status", anyNode)),
			Selector: &SelectorRule{Path: "spec.selector"},
			Checks:   []string{CheckServicePorts},
		},
		{
			Kind: kindOf("v1", "ConfigMap"),
			Fields: header(
				opt("data", stringMap),
				opt("binaryData", stringMap),
				opt("immutable", boolean),
			),
		},
		{
			Kind: kindOf("v1", "Secret"),
			Fields: header(
				opt("type", str),
				opt("data", stringMap),
				opt("stringData", stringMap),
				opt("immutable", boolean),
			),
		},
		{
			Kind: kindOf("v1", "PersistentVolume"),
			Fields: header(req("spec", openObj(
				req("capacity", quantityMap),
				req("accessModes", list(accessMode)),
				opt("persistentVolumeReclaimPolicy", enum("Retain", "Recycle", "Delete")),
				opt("storageClassName", dnsName),
				opt("volumeMode", enum("Filesystem", "Block")),
				opt("mountOptions", list(str)),
				opt("hostPath", anyNode),
				opt("nfs", anyNode),
				opt("csi", anyNode),
				opt("local", anyNode),
				opt("claimRef", anyNode),
				opt("nodeAffinity", anyNode),
			)), opt("status", anyNode)),
		},
		{
			Kind: kindOf("v1", "PersistentVolumeClaim"),
			Fields: header(req("spec", openObj(
				req("accessModes", list(accessMode)),
				req("resources", resourceRequirements),
				opt("storageClassName", dnsName),
				opt("volumeName", dnsName),
				opt("volumeMode", enum("Filesystem", "Block")),
				opt("selector", labelSelector),
			)), opt("status", anyNode)),
		},
		{
			Kind: kindOf("networking.k8s.io/v1", "Ingress"),
			Fields: header(req("spec", openObj(
				opt("ingressClassName", dnsName),
				opt("defaultBackend", anyNode),
				opt("rules", list(anyNode)),
				opt("tls", list(anyNode)),
			)), opt("status", anyNode)),
		},
		{
			Kind:   kindOf("rbac.authorization.k8s.io/v1", "Role"),
			Fields: header(req("rules", list(policyRule))),
		},
		{
			Kind: kindOf("rbac.authorization.k8s.io/v1", "ClusterRole"),
			Fields: header(
				opt("rules", list(policyRule)),
				opt("aggregationRule", anyNode),
			),
		},
		{
			Kind: kindOf("rbac.authorization.k8s.io/v1", "RoleBinding"),
			Fields: header(
				req("subjects", list(rbacSubject)),
				req("roleRef", roleRef),
			),
			NameRef: &NameRefRule{Path: "roleRef", Kinds: []string{"Role", "ClusterRole"}},
		},
		{
			Kind: kindOf("rbac.authorization.k8s.io/v1", "ClusterRoleBinding"),
			Fields: header(
				req("subjects", list(rbacSubject)),
				req("roleRef", roleRef),
			),
			NameRef: &NameRefRule{Path: "roleRef", Kinds: []string{"ClusterRole"}},
		},
		{
			Kind: kindOf("v1", "ServiceAccount"),
			Fields: header(
				opt("secrets", list(anyNode)),
				opt("imagePullSecrets", list(nameRef)),
				opt("automountServiceAccountToken", boolean),
			),
		},
		{
			Kind: kindOf("networking.k8s.io/v1", "NetworkPolicy"),
			Fields: header(req("spec", openObj(
				req("podSelector", labelSelector),
				opt("policyTypes", list(enum("Ingress", "Egress"))),
				opt("ingress", list(anyNode)),
				opt("egress", list(anyNode)),
			))),
			Selector: &SelectorRule{Path: "spec.podSelector.matchLabels"},
		},
		{
			Kind: kindOf("autoscaling/v2", "HorizontalPodAutoscaler"),
			Fields: header(req("spec", openObj(
				req("scaleTargetRef", openObj(
					opt("apiVersion", str),
					req("kind", str),
					req("name", dnsName),
				)),
				opt("minReplicas", integer),
				req("maxReplicas", integer),
				opt("metrics", list(anyNode)),
				opt("behavior", anyNode),
			)), opt("status", anyNode)),
		},
		{
			Kind: kindOf("policy/v1", "PodDisruptionBudget"),
			Fields: header(req("spec", openObj(
				opt("minAvailable", anyNode),
				opt("maxUnavailable", anyNode),
				req("selector", labelSelector),
			)), opt("status", anyNode)),
			Selector: &SelectorRule{Path: "spec.selector.matchLabels"},
		},
		{
			Kind: kindOf("v1", "ResourceQuota"),
			Fields: header(req("spec", openObj(
				req("hard", quantityMap),
				opt("scopes", list(enum(
					"Terminating", "NotTerminating", "BestEffort", "NotBestEffort",
					"PriorityClass", "CrossNamespacePodAffinity",
				))),
				opt("scopeSelector", anyNode),
			)), opt("status", anyNode)),
		},
		{
			Kind: kindOf("v1", "LimitRange"),
			Fields: header(req("spec", obj(
				req("limits", list(openObj(
					req("type", enum("Pod", "Container", "PersistentVolumeClaim")),
					opt("max", quantityMap),
					opt("min", quantityMap),
					opt("default", quantityMap),
					opt("defaultRequest", quantityMap),
					opt("maxLimitRequestRatio", quantityMap),
				))),
			))),
			Checks: []string{CheckLimitRangeBounds},
		},
		{
			Kind: kindOf("apiextensions.k8s.io/v1", "CustomResourceDefinition"),
			Fields: header(req("spec", openObj(
				req("group", dnsName),
				req("names", openObj(
					req("plural", dnsName),
					req("kind", str),
					opt("singular", dnsName),
					opt("listKind", str),
					opt("shortNames", list(str)),
					opt("categories", list(str)),
				)),
				req("scope", enum("Namespaced", "Cluster")),
				req("versions", list(openObj(
					req("name", str),
					req("served", boolean),
					req("storage", boolean),
					opt("schema", anyNode),
					opt("subresources", anyNode),
					opt("additionalPrinterColumns", list(anyNode)),
					opt("deprecated", boolean),
					opt("deprecationWarning", str),
				))),
				opt("conversion", anyNode),
			)), opt("status", anyNode)),
		},
		{
			Kind: kindOf("policy/v1beta1", "PodSecurityPolicy"),
			Fields: header(req("spec", openObj(
				opt("privileged", boolean),
				opt("allowPrivilegeEscalation", boolean),
				req("seLinux", openObj(req("rule", str))),
				req("runAsUser", openObj(req("rule", str))),
				req("fsGroup", openObj(req("rule", str))),
				req("supplementalGroups", openObj(req("rule", str))),
				opt("volumes", list(str)),
				opt("hostNetwork", boolean),
				opt("hostPID", boolean),
				opt("hostIPC", boolean),
				opt("readOnlyRootFilesystem", boolean),
				opt("requiredDropCapabilities", list(str)),
				opt("allowedCapabilities", list(str)),
			))),
		},
		{
			Kind: kindOf("v1", "Namespace"),
			Fields: header(
				opt("spec", anyNode),
				opt("status", anyNode),
			),
		},
		{
			Kind: kindOf("v1", "Event"),
			Fields: header(
				req("involvedObject", openObj(
					req("kind", str),
					req("name", dnsName),
					opt("namespace", dnsName),
					opt("apiVersion", str),
					opt("uid", str),
					opt("fieldPath", str),
				)),
				opt("reason", str),
				opt("message", str),
				opt("type", enum("Normal", "Warning")),
				opt("source", anyNode),
				opt("firstTimestamp", str),
				opt("lastTimestamp", str),
				opt("count", integer),
				opt("reportingComponent", str),
				opt("reportingInstance", str),
			),
		},
		{
			Kind: kindOf("v1", "Endpoints"),
			Fields: header(
				opt("subsets", list(openObj(
					opt("addresses", list(anyNode)),
					opt("notReadyAddresses", list(anyNode)),
					opt("ports", list(openObj(
						opt("name", dnsName),
						req("port", integer),
						opt("protocol", enum("TCP", "UDP", "SCTP")),
					))),
				))),
			),
		},
	}
}
