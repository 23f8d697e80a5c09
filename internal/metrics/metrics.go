// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts requests handled by the API servers.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "releasarr_http_requests_total",
		Help: "HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	// PublishedMessages counts broker messages by routing subject.
	PublishedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "releasarr_published_messages_total",
		Help: "Broker messages published by subject.",
	}, []string{"subject"})

	// ActiveSubscribers tracks live GraphQL subscription listeners.
	ActiveSubscribers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "releasarr_active_subscribers",
		Help: "Active subscription listeners by topic.",
	}, []string{"topic"})
)

// Handler returns the /metrics scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
