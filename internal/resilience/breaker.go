package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// ErrCircuitOpen is returned when a call is rejected without being attempted.
var ErrCircuitOpen = eris.New("resilience: circuit open")

// BreakerConfig controls when a Breaker stops letting calls through.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failed calls that opens
	// the breaker. Zero disables the breaker.
	FailureThreshold int

	// Cooldown is how long the breaker stays open before a single probe
	// call is allowed. Default: 1m.
	Cooldown time.Duration
}

// Breaker short-circuits calls to a backend that keeps failing, so a dead
// model endpoint costs one retry cycle instead of one per prompt.
type Breaker struct {
	cfg BreakerConfig

	mu       sync.Mutex
	failures int
	openedAt time.Time
	open     bool

	now func() time.Time
}

// NewBreaker returns a closed breaker.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// Call runs fn unless the breaker is open.
func Call[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if b == nil {
		return fn(ctx)
	}
	if !b.allow() {
		return zero, ErrCircuitOpen
	}
	val, err := fn(ctx)
	b.record(err)
	return val, err
}

// Open reports whether calls are currently rejected.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open && b.now().Sub(b.openedAt) < b.cfg.Cooldown
}

func (b *Breaker) allow() bool {
	if b.cfg.FailureThreshold <= 0 {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return true
	}
	// Past the cooldown one probe goes through; record decides the outcome.
	return b.now().Sub(b.openedAt) >= b.cfg.Cooldown
}

func (b *Breaker) record(err error) {
	if b.cfg.FailureThreshold <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		b.open = false
		return
	}
	b.failures++
	if b.open || b.failures >= b.cfg.FailureThreshold {
		b.open = true
		b.openedAt = b.now()
	}
}
