// pkg/loader/values.go
package loader

import (
	"strconv"
	"strings"
	"time"
)

// Cell coercions for the exported CSV artifacts. The cleaned files are
// trusted but still loaded defensively: an empty or unparsable cell becomes
// SQL NULL rather than failing the load.

// nullInt converts a CSV cell to an integer or NULL.
func nullInt(value string) interface{} {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return n
}

// nullFloat converts a CSV cell to a float or NULL.
func nullFloat(value string) interface{} {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return f
}

// nullDate converts a YYYY-MM-DD cell to a date or NULL.
func nullDate(value string) interface{} {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return t
}

// parseFlag converts a CSV cell to a boolean. Anything outside the accepted
// truthy vocabulary is false.
func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "t", "yes":
		return true
	default:
		return false
	}
}

// rowID extracts a positive identifier from a CSV cell. Zero or unparsable
// identifiers disqualify the row.
func rowID(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
