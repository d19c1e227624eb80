package search

import (
	"testing"

	"github.com/linkvault/linkvault/internal/domain/models"
)

var fixtures = []models.Bookmark{
	{ID: 1, Title: "Go Blog", URL: "https://go.dev/blog", Description: "release notes", Tags: []string{"go", "news"}, FolderID: 1},
	{ID: 2, Title: "Recipes", URL: "https://food.example.com", Description: "dinner ideas", Tags: []string{"cooking"}, FolderID: 2, IsPinned: true},
	{ID: 3, Title: "Archived thing", URL: "https://old.example.com", Tags: []string{"go"}, IsArchived: true},
}

func ids(bs []models.Bookmark) []int {
	out := make([]int, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestEmptyFilterIsIdentity(t *testing.T) {
	got := Apply(fixtures, Filter{})
	if len(got) != len(fixtures) {
		t.Fatalf("got %d bookmarks, want %d", len(got), len(fixtures))
	}
	for i := range got {
		if got[i].ID != fixtures[i].ID {
			t.Errorf("order changed at %d: got %d, want %d", i, got[i].ID, fixtures[i].ID)
		}
	}
}

func TestQueryMatchesAllTextFields(t *testing.T) {
	cases := []struct {
		query string
		want  []int
	}{
		{"go blog", []int{1}},     // title
		{"FOOD.EXAMPLE", []int{2}}, // url, case-insensitive
		{"dinner", []int{2}},      // description
		{"cook", []int{2}},        // tag substring
		{"go", []int{1, 3}},       // tag and title/url
		{"nothing matches this", nil},
	}
	for _, tc := range cases {
		got := ids(Apply(fixtures, Filter{Query: tc.query}))
		if len(got) != len(tc.want) {
			t.Errorf("query %q: got %v, want %v", tc.query, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("query %q: got %v, want %v", tc.query, got, tc.want)
				break
			}
		}
	}
}

func TestStructuredCriteria(t *testing.T) {
	pinned := true
	archived := false

	if got := ids(Apply(fixtures, Filter{FolderID: 2})); len(got) != 1 || got[0] != 2 {
		t.Errorf("FolderID filter = %v, want [2]", got)
	}
	if got := ids(Apply(fixtures, Filter{Tag: "go"})); len(got) != 2 {
		t.Errorf("Tag filter = %v, want two results", got)
	}
	if got := ids(Apply(fixtures, Filter{Pinned: &pinned})); len(got) != 1 || got[0] != 2 {
		t.Errorf("Pinned filter = %v, want [2]", got)
	}
	if got := ids(Apply(fixtures, Filter{Archived: &archived})); len(got) != 2 {
		t.Errorf("Archived=false filter = %v, want two results", got)
	}
}

func TestCriteriaCombineWithAnd(t *testing.T) {
	got := ids(Apply(fixtures, Filter{Query: "go", FolderID: 1}))
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("combined filter = %v, want [1]", got)
	}
}
