package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"linkhub/internal/models"
)

type fakeStats struct {
	stats *models.EngagementStats
	err   error
}

func (f *fakeStats) GetEngagementStats(ctx context.Context) (*models.EngagementStats, error) {
	return f.stats, f.err
}

func TestEngagementCollector(t *testing.T) {
	source := &fakeStats{stats: &models.EngagementStats{
		Links: []models.CategoryLinkCount{
			{Category: "Technology", Sensitive: false, Count: 3},
			{Category: "Technology", Sensitive: true, Count: 1},
		},
		Likes:          5,
		Bookmarks:      2,
		Users:          4,
		PendingReports: 1,
	}}

	expected := `
# HELP linkhub_likes Number of like edges
# TYPE linkhub_likes gauge
linkhub_likes 5
# HELP linkhub_links Number of stored links by category and sensitivity
# TYPE linkhub_links gauge
linkhub_links{category="Technology",sensitive="false"} 3
linkhub_links{category="Technology",sensitive="true"} 1
# HELP linkhub_users Number of registered users
# TYPE linkhub_users gauge
linkhub_users 4
`
	err := testutil.CollectAndCompare(NewEngagementCollector(source), strings.NewReader(expected),
		"linkhub_likes", "linkhub_links", "linkhub_users")
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}

	if n := testutil.CollectAndCount(NewEngagementCollector(source)); n != 6 {
		t.Errorf("CollectAndCount() = %d, want 6", n)
	}
}

func TestEngagementCollector_SourceError(t *testing.T) {
	source := &fakeStats{err: errors.New("database down")}

	if n := testutil.CollectAndCount(NewEngagementCollector(source)); n != 0 {
		t.Errorf("CollectAndCount() = %d, want 0 on error", n)
	}
}

func TestRecordToggle(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(toggles); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	defer reg.Unregister(toggles)

	before := testutil.ToFloat64(toggles.WithLabelValues("like", "applied"))
	beforeNoop := testutil.ToFloat64(toggles.WithLabelValues("like", "noop"))

	RecordToggle("like", true)
	RecordToggle("like", false)
	RecordToggle("like", false)

	if got := testutil.ToFloat64(toggles.WithLabelValues("like", "applied")) - before; got != 1 {
		t.Errorf("applied delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(toggles.WithLabelValues("like", "noop")) - beforeNoop; got != 2 {
		t.Errorf("noop delta = %v, want 2", got)
	}
}
