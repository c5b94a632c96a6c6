package hash

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/substantialcattle5/naib/util"
)

// Throttle caps the aggregate disk read rate of the hash workers using a
// token bucket. A nil *Throttle is valid and means no limiting.
type Throttle struct {
	rateLimiter *rate.Limiter
	limit       string // Original limit string for display purposes
}

// NewThrottle creates a read throttle from a limit string.
// Examples: "1M", "100K", "50MB"
func NewThrottle(limitStr string) (*Throttle, error) {
	if limitStr == "" {
		return nil, nil // No limiting if empty
	}

	bytesPerSecond, err := util.ParseSize(limitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid io limit '%s': %w", limitStr, err)
	}

	if bytesPerSecond <= 0 {
		return nil, fmt.Errorf("io limit must be positive, got %d bytes/second", bytesPerSecond)
	}

	// Burst capacity of one second of data keeps reads smooth while
	// holding the overall rate.
	burst := int(bytesPerSecond)
	if burst < 1024 {
		burst = 1024 // Minimum burst of 1KB for small limits
	}

	limiter := rate.NewLimiter(rate.Limit(bytesPerSecond), burst)

	return &Throttle{
		rateLimiter: limiter,
		limit:       limitStr,
	}, nil
}

// WaitN waits for n bytes to be available according to the rate limit.
func (t *Throttle) WaitN(ctx context.Context, n int) error {
	if t == nil || t.rateLimiter == nil {
		return nil // No limiting if throttle is nil
	}
	if n > t.rateLimiter.Burst() {
		n = t.rateLimiter.Burst()
	}
	return t.rateLimiter.WaitN(ctx, n)
}

// Limit returns the original limit string.
func (t *Throttle) Limit() string {
	if t == nil {
		return ""
	}
	return t.limit
}

// Rate returns the current rate limit in bytes per second.
func (t *Throttle) Rate() float64 {
	if t == nil || t.rateLimiter == nil {
		return 0
	}
	return float64(t.rateLimiter.Limit())
}
