package models

// EngagementStats are site-wide totals exported as metrics.
type EngagementStats struct {
	Links          []CategoryLinkCount
	Likes          int64
	Bookmarks      int64
	Users          int64
	PendingReports int64
}

// CategoryLinkCount is the number of links in a category split by sensitivity.
type CategoryLinkCount struct {
	Category  string
	Sensitive bool
	Count     int64
}
