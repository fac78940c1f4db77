package events

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrRegistrationConflict is matched by the error On returns when the
	// kind already has a handler.
	ErrRegistrationConflict = errors.New("event already has a handler")
	ErrUnknownKind          = errors.New("unknown event kind")
	ErrNilHandler           = errors.New("nil event handler")
)

// ConflictError reports an attempt to register a second handler for a kind.
type ConflictError struct {
	Kind Kind
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("event %s already has a handler, please use Off() to remove it first", e.Kind)
}

func (e *ConflictError) Unwrap() error { return ErrRegistrationConflict }

// Handler receives the arguments passed to Emit.
type Handler func(args ...any)

// slot is the handler registered for a kind. id tells registrations apart
// so a Subscription only removes its own handler.
type slot struct {
	handler Handler
	id      uint64
}

// Registry maps each event kind to at most one handler.
type Registry struct {
	mu       sync.Mutex
	handlers map[Kind]slot
	nextID   uint64
}

// New returns an empty registry with every kind unassigned.
func New() *Registry {
	r := &Registry{handlers: make(map[Kind]slot, 3)}
	for _, k := range Kinds() {
		r.handlers[k] = slot{}
	}
	return r
}

// Subscription identifies one registration made with Subscribe.
type Subscription struct {
	r    *Registry
	kind Kind
	id   uint64
}

var (
	globalRegistry *Registry
	globalOnce     sync.Once
)

// Global returns the process-wide registry, creating it on first call.
// There is no reset: handlers stay registered until removed with Off.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = New()
	})
	return globalRegistry
}

// On registers handler for kind. It never replaces an existing handler.
func (r *Registry) On(kind Kind, handler Handler) error {
	_, err := r.Subscribe(kind, handler)
	return err
}

// Subscribe is On returning a handle that can later remove exactly this
// registration.
func (r *Registry) Subscribe(kind Kind, handler Handler) (*Subscription, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers[kind].handler != nil {
		return nil, &ConflictError{Kind: kind}
	}
	r.nextID++
	r.handlers[kind] = slot{handler: handler, id: r.nextID}
	return &Subscription{r: r, kind: kind, id: r.nextID}, nil
}

// Off clears the handler for kind. Clearing an empty kind is a no-op.
func (r *Registry) Off(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[kind]; ok {
		r.handlers[kind] = slot{}
	}
}

// Has reports whether kind currently has a handler.
func (r *Registry) Has(kind Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handlers[kind].handler != nil
}

// Active reports whether the subscription's handler is still registered.
func (s *Subscription) Active() bool {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	return s.r.handlers[s.kind].id == s.id
}

// Off removes the handler if it is still the registered one and reports
// whether it did. A handler registered by someone else after an Off of
// this one is left alone.
func (s *Subscription) Off() bool {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	if s.r.handlers[s.kind].id != s.id {
		return false
	}
	s.r.handlers[s.kind] = slot{}
	return true
}

// Emit calls the handler for kind synchronously with args. Without a
// handler it does nothing. A panic raised by the handler reaches the
// caller of Emit.
func (r *Registry) Emit(kind Kind, args ...any) {
	r.mu.Lock()
	h := r.handlers[kind].handler
	r.mu.Unlock()

	if h == nil {
		return
	}
	h(args...)
}
