package authflow

import (
	"sync"
	"time"
)

// PendingTTL bounds how long a registration waits for its OTP.
const PendingTTL = 30 * time.Minute

// PendingRegistration is a signup waiting for its OTP. It lives only in
// process memory.
type PendingRegistration struct {
	UserID     string
	OTPAwaited bool
	createdAt  time.Time
}

// PendingRegistry maps visitor ids to their pending registration.
type PendingRegistry struct {
	mu      sync.Mutex
	pending map[string]PendingRegistration
	ttl     time.Duration
	now     func() time.Time
}

func NewPendingRegistry(ttl time.Duration) *PendingRegistry {
	if ttl <= 0 {
		ttl = PendingTTL
	}
	return &PendingRegistry{
		pending: make(map[string]PendingRegistration),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (p *PendingRegistry) Put(visitor, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending[visitor] = PendingRegistration{UserID: userID, OTPAwaited: true, createdAt: p.now()}
}

// Get returns the visitor's registration unless it is missing or expired.
func (p *PendingRegistry) Get(visitor string) (PendingRegistration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	reg, ok := p.pending[visitor]
	if !ok {
		return PendingRegistration{}, false
	}
	if p.now().Sub(reg.createdAt) > p.ttl {
		delete(p.pending, visitor)
		return PendingRegistration{}, false
	}
	return reg, true
}

func (p *PendingRegistry) Delete(visitor string) {
	p.mu.Lock()
	delete(p.pending, visitor)
	p.mu.Unlock()
}

// Sweep drops expired registrations.
func (p *PendingRegistry) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	now := p.now()
	for visitor, reg := range p.pending {
		if now.Sub(reg.createdAt) > p.ttl {
			delete(p.pending, visitor)
			removed++
		}
	}
	return removed
}
