// Package metrics defines and registers all custom Prometheus metrics for the
// catalog API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package load.
// HTTP request metrics come from echoprometheus and are served next to these
// on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Request pipeline ──────────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected by the authentication gate.
// Label:
//   - reason: "missing_header", "invalid_header", "invalid_token" or "not_owner"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected for missing or invalid credentials.",
	},
	[]string{"reason"},
)

// ValidationFailuresTotal counts request bodies or ids rejected before
// reaching a service.
// Label:
//   - schema: schema name (e.g. "product"), or "id" for path ids
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of requests rejected by schema or id validation.",
	},
	[]string{"schema"},
)

// ── Storage ───────────────────────────────────────────────────────────────────

// StorageErrorsTotal counts classified storage failures seen by routers.
// Labels:
//   - resource: e.g. "product"
//   - class:    "client" or "server"
//   - kind:     e.g. "foreign_key_violation", "unknown"
var StorageErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_errors_total",
		Help:      "Total number of storage failures, by resource and classification.",
	},
	[]string{"resource", "class", "kind"},
)

// ResourceWritesTotal counts successful writes.
// Labels:
//   - resource: e.g. "order"
//   - op:       "create", "update" or "delete"
var ResourceWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_writes_total",
		Help:      "Total number of successful create, update and delete operations.",
	},
	[]string{"resource", "op"},
)
