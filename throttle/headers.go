package throttle

import (
	"net/http"
	"strings"
)

// Normalize canonicalizes raw response headers into a map with lowercase keys
// and single string values. Repeated headers keep their first value; entries
// without a value are dropped. Normalizing an already-normalized map is a
// no-op.
func Normalize(raw http.Header) map[string]string {
	normalized := make(map[string]string, len(raw))
	for key, values := range raw {
		if len(values) == 0 {
			continue
		}
		lower := strings.ToLower(key)
		if _, exists := normalized[lower]; exists {
			continue
		}
		normalized[lower] = values[0]
	}
	return normalized
}
