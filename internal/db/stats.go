package db

import (
	"context"

	"linkhub/internal/models"
)

// GetEngagementStats returns site-wide totals for the metrics collector.
func (d *DB) GetEngagementStats(ctx context.Context) (*models.EngagementStats, error) {
	stats := &models.EngagementStats{}

	rows, err := d.Pool.Query(ctx, `
		SELECT c.name, l.is_sensitive, COUNT(l.id)
		FROM links l
		JOIN categories c ON c.id = l.category_id
		GROUP BY c.name, l.is_sensitive
	`)
	if err != nil {
		return nil, storageError("link stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.CategoryLinkCount
		if err := rows.Scan(&c.Category, &c.Sensitive, &c.Count); err != nil {
			return nil, storageError("link stats", err)
		}
		stats.Links = append(stats.Links, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("link stats", err)
	}

	err = d.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM likes),
			(SELECT COUNT(*) FROM bookmarks),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM contact_requests WHERE request_type = 'report' AND status = 'pending')
	`).Scan(&stats.Likes, &stats.Bookmarks, &stats.Users, &stats.PendingReports)
	if err != nil {
		return nil, storageError("engagement stats", err)
	}

	return stats, nil
}
