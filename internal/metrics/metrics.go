package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	requests         *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	listingsCreated  prometheus.Counter
	inquiriesCreated prometheus.Counter
	duplicateInquiry prometheus.Counter
	blobsStored      prometheus.Counter
	blobsRemoved     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		listingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listings_created_total",
			Help: "Listings created.",
		}),
		inquiriesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inquiries_created_total",
			Help: "Contact inquiries created.",
		}),
		duplicateInquiry: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duplicate_inquiries_total",
			Help: "Contact inquiries rejected as duplicates.",
		}),
		blobsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blobs_stored_total",
			Help: "Uploaded image files written to the blob store.",
		}),
		blobsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blobs_removed_total",
			Help: "Image files removed from the blob store.",
		}),
	}
	m.Registry.MustRegister(
		m.requests,
		m.latency,
		m.listingsCreated,
		m.inquiriesCreated,
		m.duplicateInquiry,
		m.blobsStored,
		m.blobsRemoved,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ListingCreated() {
	if m != nil {
		m.listingsCreated.Inc()
	}
}

func (m *Metrics) InquiryCreated() {
	if m != nil {
		m.inquiriesCreated.Inc()
	}
}

func (m *Metrics) DuplicateInquiry() {
	if m != nil {
		m.duplicateInquiry.Inc()
	}
}

func (m *Metrics) BlobsStored(n int) {
	if m != nil && n > 0 {
		m.blobsStored.Add(float64(n))
	}
}

func (m *Metrics) BlobsRemoved(n int) {
	if m != nil && n > 0 {
		m.blobsRemoved.Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency keyed by the matched route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
