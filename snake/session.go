package snake

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hoshinonyaruko/grid-snake/structs"
)

// Session guards one GameState with a mutex so that input, ticks and renderers
// may run on different goroutines.
type Session struct {
	mu    sync.Mutex
	state *GameState
}

func NewSession(state *GameState) *Session {
	return &Session{state: state}
}

func (s *Session) SetDirection(d structs.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetDirection(d)
}

// Tick advances the game and returns the resulting snapshot.
func (s *Session) Tick() structs.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Tick()
	return s.state.Snapshot()
}

func (s *Session) Snapshot() structs.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Run ticks the game every interval and passes each snapshot to onTick.
// It returns nil after the terminating tick has been delivered, or ctx.Err()
// if the context is cancelled first.
func (s *Session) Run(ctx context.Context, interval time.Duration, onTick func(structs.Snapshot)) error {
	if interval <= 0 {
		return errors.New("tick interval must be positive")
	}
	if onTick == nil {
		onTick = func(structs.Snapshot) {}
	}

	if snap := s.Snapshot(); snap.Status == structs.Terminated {
		onTick(snap)
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		snap := s.Tick()
		onTick(snap)
		if snap.Status == structs.Terminated {
			return nil
		}
	}
}
