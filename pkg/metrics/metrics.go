// Package metrics exposes prometheus instruments for the storefront API.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the instruments the handlers and services record into.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration prometheus.Histogram

	OrdersTotal         prometheus.Counter
	PaymentsTotal       *prometheus.CounterVec
	NotificationsTotal  prometheus.Counter
	CatalogCacheHits    prometheus.Counter
	CatalogCacheMisses  prometheus.Counter
}

// New creates the instrument set under the "storefront" namespace.
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "status"}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		OrdersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "orders_total",
			Help:      "Total orders created",
		}),
		PaymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "payments_total",
			Help:      "Total gateway payment attempts by method and outcome",
		}, []string{"method", "outcome"}),
		NotificationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "notifications_total",
			Help:      "Total notifications written",
		}),
		CatalogCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "catalog_cache_hits_total",
			Help:      "Catalog reads served from cache",
		}),
		CatalogCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "catalog_cache_misses_total",
			Help:      "Catalog reads that fell through to the database",
		}),
	}
}

// Register registers all instruments with the default registerer.
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersTotal,
		m.PaymentsTotal,
		m.NotificationsTotal,
		m.CatalogCacheHits,
		m.CatalogCacheMisses,
	}
	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the /metrics endpoint handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
