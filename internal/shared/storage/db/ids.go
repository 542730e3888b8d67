package db

import "github.com/google/uuid"

// ValidID reports whether id can be compared against a UUID column. Postgres
// rejects malformed values outright, so callers treat them as unknown rows.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ValidIDs keeps the values that can be compared against a UUID column.
func ValidIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if ValidID(id) {
			out = append(out, id)
		}
	}
	return out
}
