package util

import "github.com/google/uuid"

const abbreviatedUUIDPrefixLength = 8

// IsValidUUID reports whether s is a UUID in the canonical 8-4-4-4-12 form.
func IsValidUUID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// AbbreviateUUID shortens a UUID to its first group for table cells. Other
// values are returned unchanged.
func AbbreviateUUID(id string) string {
	if !IsValidUUID(id) {
		return id
	}
	return id[:abbreviatedUUIDPrefixLength] + "…"
}
