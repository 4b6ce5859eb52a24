package authflow

import (
	"errors"
	"sync"
)

var ErrSubmissionInFlight = errors.New("Request already in progress")

// InFlight allows one outstanding submission per visitor.
type InFlight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{active: make(map[string]struct{})}
}

// Acquire marks visitor busy. ok is false when a submission is already
// running; otherwise release must be called when it finishes.
func (f *InFlight) Acquire(visitor string) (release func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.active[visitor]; busy {
		return nil, false
	}
	f.active[visitor] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.active, visitor)
			f.mu.Unlock()
		})
	}, true
}
