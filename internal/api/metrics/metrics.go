// Package metrics defines the custom Prometheus metrics of the
// residencia API. It is the single source of truth for metric names,
// labels, and help strings; promauto registers everything with the
// default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "residencia"

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success", "invalid_credentials", "disabled", "rate_limited"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AlertasGeneradasTotal counts alerts created by the rule engine.
// Label:
//   - regla: "vencimientos" (follow-ups and workshops) or "medidas"
var AlertasGeneradasTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alertas_generadas_total",
		Help:      "Total number of alerts created by the due-date scans.",
	},
	[]string{"regla"},
)

// AlertasResueltasTotal counts alerts resolved through the API.
var AlertasResueltasTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alertas_resueltas_total",
		Help:      "Total number of alerts marked as resolved.",
	},
)
