package domain

// FeedResponse is one page of the notification feed.
type FeedResponse struct {
	// TotalCount is nil when the total is not known.
	TotalCount *int           `json:"totalCount,omitempty"`
	HasMore    bool           `json:"hasMore"`
	Data       []Notification `json:"data"`
	PageSize   int            `json:"pageSize"`
	Page       int            `json:"page"`
}

// Query selects notifications from a repository.
type Query struct {
	Archived *bool
	Read     *bool
	Tags     []string
	Limit    int
	Offset   int
}
