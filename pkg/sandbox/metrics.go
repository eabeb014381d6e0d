package sandbox

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests     *prometheus.CounterVec
	taskFailures *prometheus.CounterVec
	forwarded    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "httpsandbox",
			Name:      "http_requests_total",
			Help:      "Requests sent to the placeholder and GitHub APIs.",
		}, []string{"method", "code"}),
		taskFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "httpsandbox",
			Name:      "task_failures_total",
			Help:      "Dispatched tasks that finished with an error.",
		}, []string{"mode"}),
		forwarded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "httpsandbox",
			Name:      "org_repositories_forwarded_total",
			Help:      "Organization repositories forwarded to the importer.",
		}),
	}
}
