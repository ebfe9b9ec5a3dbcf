package ratelimit

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// minBurst keeps small limits from degenerating into tiny reads
const minBurst = 64 * 1024

// Limiter is a token bucket shared by every copy of a run
type Limiter struct {
	rate  int64 // bytes per second
	burst int64

	mu     sync.Mutex
	tokens int64
	last   time.Time
}

// NewLimiter returns a limiter for bytesPerSecond, or nil when the value
// means "unlimited". A nil *Limiter is valid and never blocks.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	burst := max(bytesPerSecond, minBurst)
	return &Limiter{
		rate:   bytesPerSecond,
		burst:  burst,
		tokens: burst,
		last:   time.Now(),
	}
}

// ParseRate parses a bandwidth such as "10M", "512KiB" or "1G" into bytes
// per second. An empty string or "0" means unlimited.
func ParseRate(s string) (int64, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid bandwidth %q: %w", s, err)
	}
	return int64(n), nil
}

// Rate returns the configured bytes per second
func (l *Limiter) Rate() int64 {
	if l == nil {
		return 0
	}
	return l.rate
}

// wait blocks until n tokens are available or ctx is done
func (l *Limiter) wait(ctx context.Context, n int64) error {
	for {
		l.mu.Lock()
		now := time.Now()
		l.tokens = min(l.burst, l.tokens+int64(now.Sub(l.last).Seconds()*float64(l.rate)))
		l.last = now

		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return nil
		}

		delay := time.Duration(float64(n-l.tokens) / float64(l.rate) * float64(time.Second))
		l.mu.Unlock()

		timer := time.NewTimer(max(delay, time.Millisecond))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Reader throttles reads from an underlying reader
type Reader struct {
	ctx     context.Context
	reader  io.Reader
	limiter *Limiter
}

// NewReader wraps reader with the limiter. With a nil limiter the reader
// is returned unchanged.
func NewReader(ctx context.Context, reader io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return reader
	}
	return &Reader{ctx: ctx, reader: reader, limiter: limiter}
}

// Read reserves tokens for at most one burst, then reads
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if int64(len(p)) > r.limiter.burst {
		p = p[:r.limiter.burst]
	}

	if err := r.limiter.wait(r.ctx, int64(len(p))); err != nil {
		return 0, err
	}

	n, err := r.reader.Read(p)
	if short := int64(len(p) - n); short > 0 {
		r.limiter.refund(short)
	}
	return n, err
}

// refund returns tokens reserved for bytes that were never read
func (l *Limiter) refund(n int64) {
	l.mu.Lock()
	l.tokens = min(l.burst, l.tokens+n)
	l.mu.Unlock()
}
