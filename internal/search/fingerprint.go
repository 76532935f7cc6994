package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint produces the cache key for a query. Condition and location are
// trimmed and case-folded first, so formatting differences in otherwise
// identical requests still hit the same entry.
func Fingerprint(q Query) string {
	input := fmt.Sprintf("%s|%s|%d|%g",
		strings.ToLower(strings.TrimSpace(q.Condition)),
		strings.ToLower(strings.TrimSpace(q.Location)),
		q.MaxResults,
		q.DistanceLimit,
	)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:16])
}
