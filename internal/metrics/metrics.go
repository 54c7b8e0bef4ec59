package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"linkhub/internal/models"
)

var (
	linksDesc = prometheus.NewDesc(
		"linkhub_links",
		"Number of stored links by category and sensitivity",
		[]string{"category", "sensitive"},
		nil,
	)
	likesDesc = prometheus.NewDesc(
		"linkhub_likes",
		"Number of like edges",
		nil, nil,
	)
	bookmarksDesc = prometheus.NewDesc(
		"linkhub_bookmarks",
		"Number of bookmark edges",
		nil, nil,
	)
	usersDesc = prometheus.NewDesc(
		"linkhub_users",
		"Number of registered users",
		nil, nil,
	)
	pendingReportsDesc = prometheus.NewDesc(
		"linkhub_pending_reports",
		"Content reports waiting for review",
		nil, nil,
	)

	toggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkhub_engagement_toggles_total",
			Help: "Like and bookmark toggles by action and whether they changed state",
		},
		[]string{"action", "outcome"},
	)
)

// StatsSource supplies the totals reported on each scrape.
type StatsSource interface {
	GetEngagementStats(ctx context.Context) (*models.EngagementStats, error)
}

// EngagementCollector is a custom Prometheus collector that reads engagement
// totals from the database on each scrape.
type EngagementCollector struct {
	source  StatsSource
	timeout time.Duration
}

// NewEngagementCollector creates a collector backed by source.
func NewEngagementCollector(source StatsSource) *EngagementCollector {
	return &EngagementCollector{source: source, timeout: 5 * time.Second}
}

// Describe sends the metric descriptors to the channel.
func (c *EngagementCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- linksDesc
	ch <- likesDesc
	ch <- bookmarksDesc
	ch <- usersDesc
	ch <- pendingReportsDesc
}

// Collect queries the database and emits the totals as gauges.
func (c *EngagementCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	stats, err := c.source.GetEngagementStats(ctx)
	if err != nil {
		slog.Error("failed to collect engagement metrics", "error", err)
		return
	}

	for _, l := range stats.Links {
		sensitive := "false"
		if l.Sensitive {
			sensitive = "true"
		}
		ch <- prometheus.MustNewConstMetric(linksDesc, prometheus.GaugeValue, float64(l.Count), l.Category, sensitive)
	}
	ch <- prometheus.MustNewConstMetric(likesDesc, prometheus.GaugeValue, float64(stats.Likes))
	ch <- prometheus.MustNewConstMetric(bookmarksDesc, prometheus.GaugeValue, float64(stats.Bookmarks))
	ch <- prometheus.MustNewConstMetric(usersDesc, prometheus.GaugeValue, float64(stats.Users))
	ch <- prometheus.MustNewConstMetric(pendingReportsDesc, prometheus.GaugeValue, float64(stats.PendingReports))
}

var initOnce sync.Once

// Init registers the custom collector and the toggle counters.
// Must be called once at startup.
func Init(source StatsSource) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewEngagementCollector(source), toggles)
	})
}

// RecordToggle counts a like/unlike/bookmark/unbookmark call. applied reports
// whether the call changed state.
func RecordToggle(action string, applied bool) {
	outcome := "noop"
	if applied {
		outcome = "applied"
	}
	toggles.WithLabelValues(action, outcome).Inc()
}
