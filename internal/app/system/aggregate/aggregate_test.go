package aggregate

import (
	"testing"
	"time"

	"github.com/linkvault/linkvault/internal/domain/models"
)

var now = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestSummarize(t *testing.T) {
	bookmarks := []models.Bookmark{
		{ID: 1, DateAdded: now.Add(-time.Hour)},
		{ID: 2, DateAdded: now.Add(-30 * 24 * time.Hour), IsPinned: true},
		{ID: 3, DateAdded: now.Add(-2 * 24 * time.Hour), IsArchived: true},
	}

	s := Summarize(bookmarks, now)
	if s.Total != 3 || s.Active != 2 || s.Archived != 1 || s.Pinned != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.Recent != 2 {
		t.Errorf("Recent = %d, want 2", s.Recent)
	}
}

func TestRecentBoundaryIsExclusive(t *testing.T) {
	exactly := models.Bookmark{ID: 1, DateAdded: now.Add(-RecentWindow)}
	inside := models.Bookmark{ID: 2, DateAdded: now.Add(-RecentWindow + time.Second)}

	if got := Summarize([]models.Bookmark{exactly}, now).Recent; got != 0 {
		t.Errorf("bookmark exactly at boundary counted as recent")
	}
	if got := Summarize([]models.Bookmark{inside}, now).Recent; got != 1 {
		t.Errorf("bookmark inside window not counted as recent")
	}
}

func TestSortByDateDescIsStable(t *testing.T) {
	shared := now.Add(-time.Hour)
	bookmarks := []models.Bookmark{
		{ID: 1, DateAdded: shared},
		{ID: 2, DateAdded: now},
		{ID: 3, DateAdded: shared},
	}

	SortByDateDesc(bookmarks)
	want := []int{2, 1, 3}
	for i, b := range bookmarks {
		if b.ID != want[i] {
			t.Fatalf("order = %v at %d, want %v", b.ID, i, want)
		}
	}
}

func TestFolderCountsSkipsArchivedAndUnfiled(t *testing.T) {
	bookmarks := []models.Bookmark{
		{ID: 1, FolderID: 1},
		{ID: 2, FolderID: 1},
		{ID: 3, FolderID: 1, IsArchived: true},
		{ID: 4, FolderID: 0},
		{ID: 5, FolderID: 2},
	}

	counts := FolderCounts(bookmarks)
	if counts[1] != 2 {
		t.Errorf("folder 1 count = %d, want 2", counts[1])
	}
	if counts[2] != 1 {
		t.Errorf("folder 2 count = %d, want 1", counts[2])
	}
	if _, ok := counts[0]; ok {
		t.Error("unfiled bookmarks should not produce a count")
	}
}

func TestTagCounts(t *testing.T) {
	bookmarks := []models.Bookmark{
		{ID: 1, Tags: []string{"go", "web"}},
		{ID: 2, Tags: []string{"go"}},
	}
	counts := TagCounts(bookmarks)
	if counts["go"] != 2 || counts["web"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestStats(t *testing.T) {
	events := []models.UsageEvent{
		{Timestamp: now.Add(-time.Hour)},           // today, this week
		{Timestamp: now.Add(-3 * 24 * time.Hour)},  // this week
		{Timestamp: now.Add(-30 * 24 * time.Hour)}, // old
	}

	s := Stats(events, now)
	if s.TotalClicks != 3 {
		t.Errorf("TotalClicks = %d, want 3", s.TotalClicks)
	}
	if s.ClicksToday != 1 {
		t.Errorf("ClicksToday = %d, want 1", s.ClicksToday)
	}
	if s.ClicksThisWeek != 2 {
		t.Errorf("ClicksThisWeek = %d, want 2", s.ClicksThisWeek)
	}
}

func TestMostUsedRankingAndTies(t *testing.T) {
	events := []models.UsageEvent{
		{BookmarkID: 2}, {BookmarkID: 2},
		{BookmarkID: 1}, {BookmarkID: 1},
		{BookmarkID: 3},
	}

	ranked := MostUsed(events, 2)
	if len(ranked) != 2 {
		t.Fatalf("got %d entries, want 2", len(ranked))
	}
	// Ties on clicks resolve by id ascending.
	if ranked[0].BookmarkID != 1 || ranked[1].BookmarkID != 2 {
		t.Errorf("ranking = %+v", ranked)
	}
}

func TestTrendsFillsEmptyDays(t *testing.T) {
	events := []models.UsageEvent{
		{Timestamp: now},
		{Timestamp: now.AddDate(0, 0, -2)},
		{Timestamp: now.AddDate(0, 0, -2)},
	}

	trend := Trends(events, 3, now)
	if len(trend) != 3 {
		t.Fatalf("got %d days, want 3", len(trend))
	}
	if trend[0].Clicks != 2 || trend[1].Clicks != 0 || trend[2].Clicks != 1 {
		t.Errorf("trend = %+v", trend)
	}
	if trend[2].Date != "2026-08-30" {
		t.Errorf("last day = %s, want 2026-08-30", trend[2].Date)
	}
}

func TestPopularTimes(t *testing.T) {
	events := []models.UsageEvent{
		{Timestamp: time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)},
		{Timestamp: time.Date(2026, 8, 29, 9, 45, 0, 0, time.UTC)},
		{Timestamp: time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC)},
	}

	hours := PopularTimes(events)
	if hours[9] != 2 {
		t.Errorf("hour 9 = %d, want 2", hours[9])
	}
	if hours[22] != 1 {
		t.Errorf("hour 22 = %d, want 1", hours[22])
	}
}
