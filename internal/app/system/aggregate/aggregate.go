// Package aggregate computes derived values over bookmarks, folders,
// and usage events. Everything here is pure: counts are recomputed
// from the inputs on every call, never read from cached fields, so
// stale bookmark_count_c values cannot leak into API responses.
package aggregate

import (
	"sort"
	"time"

	"github.com/linkvault/linkvault/internal/domain/models"
)

// RecentWindow is how far back a bookmark counts as "recent".
const RecentWindow = 7 * 24 * time.Hour

// Summary is the headline stats block for the dashboard.
type Summary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Archived int `json:"archived"`
	Pinned   int `json:"pinned"`
	Recent   int `json:"recent"`
}

// Summarize computes the headline counts as of now.
func Summarize(bookmarks []models.Bookmark, now time.Time) Summary {
	s := Summary{Total: len(bookmarks)}
	cutoff := now.Add(-RecentWindow)
	for _, b := range bookmarks {
		if b.IsArchived {
			s.Archived++
		} else {
			s.Active++
		}
		if b.IsPinned {
			s.Pinned++
		}
		// Strictly after the cutoff: a bookmark exactly seven days
		// old has aged out.
		if b.DateAdded.After(cutoff) {
			s.Recent++
		}
	}
	return s
}

// SortByDateDesc orders bookmarks newest-first by DateAdded. The sort
// is stable so records sharing a timestamp keep their fetch order.
func SortByDateDesc(bookmarks []models.Bookmark) {
	sort.SliceStable(bookmarks, func(i, j int) bool {
		return bookmarks[i].DateAdded.After(bookmarks[j].DateAdded)
	})
}

// FolderCounts returns the number of non-archived bookmarks per
// folder id. Folders with no bookmarks are absent from the map.
func FolderCounts(bookmarks []models.Bookmark) map[int]int {
	counts := make(map[int]int)
	for _, b := range bookmarks {
		if b.IsArchived || b.FolderID == 0 {
			continue
		}
		counts[b.FolderID]++
	}
	return counts
}

// TagCounts returns how many bookmarks carry each tag name.
func TagCounts(bookmarks []models.Bookmark) map[string]int {
	counts := make(map[string]int)
	for _, b := range bookmarks {
		for _, tag := range b.Tags {
			counts[tag]++
		}
	}
	return counts
}

// UsageStats summarizes click activity.
type UsageStats struct {
	TotalClicks    int `json:"totalClicks"`
	ClicksToday    int `json:"clicksToday"`
	ClicksThisWeek int `json:"clicksThisWeek"`
}

// Stats computes click totals as of now. "Today" is the calendar day
// of now in UTC; "this week" is the trailing RecentWindow.
func Stats(events []models.UsageEvent, now time.Time) UsageStats {
	s := UsageStats{TotalClicks: len(events)}
	dayStart := now.UTC().Truncate(24 * time.Hour)
	weekCutoff := now.Add(-RecentWindow)
	for _, e := range events {
		if !e.Timestamp.Before(dayStart) {
			s.ClicksToday++
		}
		if e.Timestamp.After(weekCutoff) {
			s.ClicksThisWeek++
		}
	}
	return s
}

// BookmarkClicks pairs a bookmark with its click count.
type BookmarkClicks struct {
	BookmarkID int `json:"bookmarkId"`
	Clicks     int `json:"clicks"`
}

// MostUsed returns up to limit bookmarks ordered by click count
// descending, breaking ties by bookmark id for a stable ranking.
func MostUsed(events []models.UsageEvent, limit int) []BookmarkClicks {
	counts := make(map[int]int)
	for _, e := range events {
		if e.BookmarkID != 0 {
			counts[e.BookmarkID]++
		}
	}

	ranked := make([]BookmarkClicks, 0, len(counts))
	for id, n := range counts {
		ranked = append(ranked, BookmarkClicks{BookmarkID: id, Clicks: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Clicks != ranked[j].Clicks {
			return ranked[i].Clicks > ranked[j].Clicks
		}
		return ranked[i].BookmarkID < ranked[j].BookmarkID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// DayCount is one day in a usage trend.
type DayCount struct {
	Date   string `json:"date"` // YYYY-MM-DD, UTC
	Clicks int    `json:"clicks"`
}

// Trends buckets clicks per UTC day for the trailing days window,
// ending with today. Days with no clicks appear with a zero count so
// charts get a continuous series.
func Trends(events []models.UsageEvent, days int, now time.Time) []DayCount {
	if days <= 0 {
		return nil
	}

	perDay := make(map[string]int)
	for _, e := range events {
		perDay[e.Timestamp.UTC().Format("2006-01-02")]++
	}

	out := make([]DayCount, 0, days)
	start := now.UTC().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, DayCount{Date: date, Clicks: perDay[date]})
	}
	return out
}

// PopularTimes returns a 24-slot histogram of clicks by UTC hour.
func PopularTimes(events []models.UsageEvent) [24]int {
	var hours [24]int
	for _, e := range events {
		hours[e.Timestamp.UTC().Hour()]++
	}
	return hours
}
