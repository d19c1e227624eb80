package models

// Tag labels bookmarks. Its identity is its name (case-sensitive).
//
// Tags exist only while referenced: the first bookmark to use a name
// creates the tag with UsageCount 1, and a tag whose usage count drops
// to zero is deleted rather than kept around empty.
type Tag struct {
	Name  string `json:"name"`
	Color string `json:"color"`

	// UsageCount is the number of bookmarks referencing this tag. It is
	// maintained by the tag store's credit/debit bookkeeping and
	// repaired by the background GC job if it ever drifts.
	UsageCount int `json:"usageCount"`
}
