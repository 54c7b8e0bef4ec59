package models

import "time"

// Link is a shared link submitted by a user.
type Link struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	CategoryID  int64     `json:"category_id"`
	OwnerID     int64     `json:"owner_id"`
	LikesCount  int64     `json:"likes_count"`
	IsSensitive bool      `json:"is_sensitive"`
	CreatedAt   time.Time `json:"created_at"`
}

// LinkWithDetails is the feed projection of a link, joined with its category name
// and the owner's username.
type LinkWithDetails struct {
	Link
	CategoryName string `json:"category_name"`
	Author       string `json:"author"`
}

// IsOwnedBy reports whether userID owns the link.
func (l *Link) IsOwnedBy(userID int64) bool {
	return l.OwnerID == userID
}

// VisibleTo reports whether the link may be shown to a viewer. Sensitive links are
// shown only to their owner or to viewers who opted in.
func (l *Link) VisibleTo(viewerID int64, includeSensitive bool) bool {
	if !l.IsSensitive || includeSensitive {
		return true
	}
	return viewerID != 0 && l.IsOwnedBy(viewerID)
}
