package models

// Category groups links. Categories are seeded at startup and read-only afterwards.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryFeed is a category together with the visible links filed under it.
type CategoryFeed struct {
	Category
	Links []LinkWithDetails `json:"links"`
}

// DefaultCategories is the seed set used when no categories are configured.
var DefaultCategories = []Category{
	{Name: "Technology", Description: "Latest in tech and programming"},
	{Name: "Design", Description: "Creative design and UX/UI"},
	{Name: "Business", Description: "Business and entrepreneurship"},
	{Name: "Health", Description: "Health and wellness"},
	{Name: "Gaming", Description: "Gaming and entertainment"},
}

// GroupByCategory files links under their categories in category order, dropping
// categories that end up empty.
func GroupByCategory(categories []Category, links []LinkWithDetails) []CategoryFeed {
	byCategory := make(map[int64][]LinkWithDetails)
	for _, l := range links {
		byCategory[l.CategoryID] = append(byCategory[l.CategoryID], l)
	}

	feed := make([]CategoryFeed, 0, len(categories))
	for _, c := range categories {
		if len(byCategory[c.ID]) == 0 {
			continue
		}
		feed = append(feed, CategoryFeed{Category: c, Links: byCategory[c.ID]})
	}
	return feed
}
