package record

import "errors"

// ErrNotFound is returned when a record id does not exist in its table.
var ErrNotFound = errors.New("record not found")

// IsNotFound reports whether err means a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
