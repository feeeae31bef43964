package signal

import (
	"sync"

	"github.com/dkeye/Duet/internal/core"
	"golang.org/x/time/rate"
)

// JoinLimiter throttles create-or-join per connection.
type JoinLimiter struct {
	mu       sync.Mutex
	limiters map[core.SessionID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewJoinLimiter(perSecond float64, burst int) *JoinLimiter {
	return &JoinLimiter{
		limiters: make(map[core.SessionID]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *JoinLimiter) Allow(sid core.SessionID) bool {
	rl.mu.Lock()
	l, ok := rl.limiters[sid]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[sid] = l
	}
	rl.mu.Unlock()
	return l.Allow()
}

// Forget drops the limiter of a closed connection.
func (rl *JoinLimiter) Forget(sid core.SessionID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.limiters, sid)
}
