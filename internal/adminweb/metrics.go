// Package adminweb — metrics.go описывает Prometheus-метрики панели.
package adminweb

import "github.com/prometheus/client_golang/prometheus"

var (
	adminRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adminweb_requests_total",
			Help: "Total admin panel requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)
	adminDeposits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adminweb_deposits_total",
			Help: "Total deposits issued through the admin panel",
		},
	)
	adminPrizesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adminweb_prizes_created_total",
			Help: "Total prizes created through the admin panel",
		},
	)
	adminLoginFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adminweb_login_failures_total",
			Help: "Total failed admin panel logins",
		},
	)
)

func init() {
	prometheus.MustRegister(adminRequests, adminDeposits, adminPrizesCreated, adminLoginFailures)
}
