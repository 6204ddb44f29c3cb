package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal"

var (
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "api_requests_total", Help: "Requests made to the church API",
	}, []string{"endpoint", "outcome"})
	APILatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "api_request_seconds", Help: "Church API latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "offline_cache_lookups_total", Help: "Offline worker cache lookups",
	}, []string{"result"})
	StaleResponses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "stale_responses_total", Help: "Responses discarded because a newer request was issued",
	})
	PushReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "push_received_total", Help: "Push notifications received",
	})
	Viewers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "viewers", Help: "Viewers with a stored page state",
	})
)

func init() {
	prometheus.MustRegister(APIRequests, APILatency, CacheLookups, StaleResponses, PushReceived, Viewers)
}

func Handler() http.Handler { return promhttp.Handler() }

// ObserveAPI records one church API call.
func ObserveAPI(endpoint, outcome string, d time.Duration) {
	APIRequests.WithLabelValues(endpoint, outcome).Inc()
	APILatency.WithLabelValues(endpoint).Observe(d.Seconds())
}
