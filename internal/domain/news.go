package domain

import "time"

type NewsItem struct {
	ID             uint
	PublishedAt    time.Time
	Title          string
	ShortDesc      string
	URL            string
	CommentCount   int
	CommentAvgHour float64
}

type NewsItemSent struct {
	ID         uint
	NewsItemID uint
	ChatID     uint
	SentAt     time.Time
}

const (
	NewsFieldPublishedAt    = "published_at"
	NewsFieldTitle          = "title"
	NewsFieldShortDesc      = "short_desc"
	NewsFieldCommentCount   = "comment_count"
	NewsFieldCommentAvgHour = "comment_avg_hour"
)

type FieldChange struct {
	Field  string
	Before any
	After  any
}

// DiffNewsItems lists the tracked fields whose values differ between stored and scraped.
func DiffNewsItems(stored, scraped NewsItem) []FieldChange {
	var changes []FieldChange
	if !stored.PublishedAt.Equal(scraped.PublishedAt) {
		changes = append(changes, FieldChange{Field: NewsFieldPublishedAt, Before: stored.PublishedAt.UTC(), After: scraped.PublishedAt.UTC()})
	}
	if stored.Title != scraped.Title {
		changes = append(changes, FieldChange{Field: NewsFieldTitle, Before: stored.Title, After: scraped.Title})
	}
	if stored.ShortDesc != scraped.ShortDesc {
		changes = append(changes, FieldChange{Field: NewsFieldShortDesc, Before: stored.ShortDesc, After: scraped.ShortDesc})
	}
	if stored.CommentCount != scraped.CommentCount {
		changes = append(changes, FieldChange{Field: NewsFieldCommentCount, Before: stored.CommentCount, After: scraped.CommentCount})
	}
	if stored.CommentAvgHour != scraped.CommentAvgHour {
		changes = append(changes, FieldChange{Field: NewsFieldCommentAvgHour, Before: stored.CommentAvgHour, After: scraped.CommentAvgHour})
	}
	return changes
}
