// SPDX-License-Identifier: MIT

package trends

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trendsd_cache_requests_total",
	Help: "Number of cache lookups by the trends service, labelled hit or miss",
}, []string{"result"})

func observeCache(result string) {
	cacheRequestsTotal.WithLabelValues(result).Inc()
}
