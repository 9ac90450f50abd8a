package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"statline/internal/db"
)

var searchQueriesDesc = prometheus.NewDesc(
	"statline_search_queries_total",
	"Total recorded search queries by sport and outcome",
	[]string{"sport", "outcome"},
	nil,
)

// QueryCollector is a custom Prometheus collector that reads per-sport search
// counts from the database on each scrape.
type QueryCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *QueryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- searchQueriesDesc
}

// Collect queries the database for telemetry totals and emits them as counters.
func (c *QueryCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.GetQueryOutcomeCounts(context.Background())
	if err != nil {
		slog.Error("failed to collect search query metrics", "error", err)
		return
	}
	for _, count := range counts {
		outcome := "ok"
		if count.HasError {
			outcome = "error"
		}
		ch <- prometheus.MustNewConstMetric(
			searchQueriesDesc,
			prometheus.CounterValue,
			float64(count.Count),
			count.Sport,
			outcome,
		)
	}
}

var initOnce sync.Once

// Init registers the custom collector. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&QueryCollector{db: database})
	})
}
