package event

import (
	"slices"
	"sync"

	"github.com/hirepurchase/backend/internal/domain/shared"
)

// subscriptions tracks which handlers receive which leasing event types.
// Handlers registered without types receive every event.
type subscriptions struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	catchAll []shared.EventHandler
}

func newSubscriptions() *subscriptions {
	return &subscriptions{byType: make(map[string][]shared.EventHandler)}
}

func (s *subscriptions) add(handler shared.EventHandler, eventTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(eventTypes) == 0 {
		if !slices.Contains(s.catchAll, handler) {
			s.catchAll = append(s.catchAll, handler)
		}
		return
	}
	for _, eventType := range eventTypes {
		if slices.Contains(s.byType[eventType], handler) {
			continue
		}
		s.byType[eventType] = append(s.byType[eventType], handler)
	}
}

func (s *subscriptions) remove(handler shared.EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catchAll = slices.DeleteFunc(s.catchAll, func(h shared.EventHandler) bool { return h == handler })
	for eventType, handlers := range s.byType {
		handlers = slices.DeleteFunc(handlers, func(h shared.EventHandler) bool { return h == handler })
		if len(handlers) == 0 {
			delete(s.byType, eventType)
			continue
		}
		s.byType[eventType] = handlers
	}
}

// forType returns the type-specific handlers followed by the catch-all ones.
// The returned slice is a copy and safe to iterate without the lock.
func (s *subscriptions) forType(eventType string) []shared.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	typed := s.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(s.catchAll))
	out = append(out, typed...)
	return append(out, s.catchAll...)
}

func (s *subscriptions) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[shared.EventHandler]struct{})
	for _, h := range s.catchAll {
		seen[h] = struct{}{}
	}
	for _, handlers := range s.byType {
		for _, h := range handlers {
			seen[h] = struct{}{}
		}
	}
	return len(seen)
}
