package models

import "time"

// UsageType values recorded for usage events.
const (
	UsageTypeClick = "click"
)

// UsageEvent records one interaction with a bookmark, feeding the
// usage-analytics aggregates (stats, trends, popular times).
type UsageEvent struct {
	ID         int       `json:"Id"`
	BookmarkID int       `json:"bookmarkId"`
	Timestamp  time.Time `json:"timestamp"`
	UsageType  string    `json:"usageType"`
}
