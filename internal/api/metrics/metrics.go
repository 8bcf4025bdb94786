// Package metrics defines and registers all custom Prometheus metrics for the
// user-manager service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry at import
// time via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usermanager"

// ── User lifecycle metrics ────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
// Label:
//   - role: the derived role name ("ROLE_ADMIN" or "ROLE_USER")
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users successfully registered, by derived role.",
	},
	[]string{"role"},
)

// RegistrationErrorsTotal counts rejected registrations.
// Label:
//   - reason: "username_exists", "validation", "configuration" or "internal"
var RegistrationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_errors_total",
		Help:      "Total number of registration attempts that failed, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "disabled" or "not_found"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditEntriesTotal counts audit entries persisted by the dispatcher.
// Label:
//   - action: "registered", "updated" or "deleted"
var AuditEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_total",
		Help:      "Total number of audit entries written, by action.",
	},
	[]string{"action"},
)

// AuditWriteErrorsTotal counts audit entries that failed to persist.
var AuditWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_errors_total",
		Help:      "Total number of audit entries dropped after a write failure.",
	},
)

// AuditQueueDepth tracks entries waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
