// Package sharelink encodes folder ids into opaque share tokens and
// builds the public URLs that carry them.
package sharelink

import (
	"encoding/base32"
	"fmt"
	"strconv"
	"strings"
)

// Tokens use unpadded base32 so they survive URL paths, copy/paste,
// and case-mangling mail clients.
var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Token returns the opaque share token for a folder id.
func Token(folderID int) string {
	return encoding.EncodeToString([]byte(strconv.Itoa(folderID)))
}

// FolderID decodes a share token back to the folder id it names.
// Tokens are matched case-insensitively. Only the canonical encoding
// of an id resolves: alias forms that decode to the same id (leading
// zeros, a sign prefix) are rejected, so each folder has exactly one
// valid token.
func FolderID(token string) (int, error) {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	raw, err := encoding.DecodeString(normalized)
	if err != nil {
		return 0, fmt.Errorf("malformed share token: %w", err)
	}
	id, err := strconv.Atoi(string(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("malformed share token")
	}
	if Token(id) != normalized {
		return 0, fmt.Errorf("malformed share token")
	}
	return id, nil
}

// URL builds the public share link for a folder on the given base,
// e.g. URL("https://links.example.com", 42).
func URL(base string, folderID int) string {
	return strings.TrimRight(base, "/") + "/shared/" + Token(folderID)
}
