package subscription

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// DefaultIdempotencyWindow is how long a resubmission replays the first session.
const DefaultIdempotencyWindow = 10 * time.Minute

// IdempotencyKey derives a stable key for one tenant, plan and provider within a window.
// Requests whose timestamps truncate to the same windowStart share a key.
func IdempotencyKey(tenantID string, planID string, provider ProviderChoice, windowStart time.Time) string {
	h := sha256.New()
	for _, part := range []string{tenantID, planID, string(provider), strconv.FormatInt(windowStart.Unix(), 10)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// windowStart truncates t to the beginning of its idempotency window.
func windowStart(t time.Time, window time.Duration) time.Time {
	return t.UTC().Truncate(window)
}
