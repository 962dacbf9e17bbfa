package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heveatrack_satellite_feed_calls_total",
			Help: "Total satellite analysis feed calls",
		},
		[]string{"endpoint", "status"},
	)

	AnalysesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heveatrack_health_analyses_stored_total",
			Help: "Total block health analyses persisted",
		},
		[]string{"source"},
	)

	ForecastsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heveatrack_yield_forecasts_generated_total",
			Help: "Total yield forecasts generated",
		},
		[]string{"status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heveatrack_http_requests_total",
			Help: "Total HTTP requests served by the API",
		},
		[]string{"path", "method", "status"},
	)
)
