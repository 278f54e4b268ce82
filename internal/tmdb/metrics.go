// SPDX-License-Identifier: MIT

package tmdb

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "trendsd_upstream_request_duration_seconds",
	Help:    "Duration of TMDB API requests in seconds",
	Buckets: prometheus.ExponentialBuckets(0.05, 2.0, 10), // 50ms .. ~25.6s
}, []string{"operation", "status"})

func observeRequest(operation, status string, d time.Duration) {
	upstreamRequestDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}
