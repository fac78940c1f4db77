// Package navigation wraps a router.Navigator so that every navigation
// runs through the route event protocol:
//
//	routeStart(link) -> start slot -> action -> routeComplete(link) + complete slot
//	                                         \-> routeError(err)
//
// A cancelled navigation is silent. A failed navigation is reported through
// routeError and never returned to the caller.
package navigation

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"routernav/internal/events"
	"routernav/internal/router"
)

// ErrNilNavigator is returned by New when there is nothing to wrap.
var ErrNilNavigator = errors.New("nil navigator")

// ErrorLogPrefix starts every line the default routeError handler logs.
const ErrorLogPrefix = "route error: "

// Op names a wrapped navigation operation.
type Op string

const (
	OpPush     Op = "push"
	OpReplace  Op = "replace"
	OpBack     Op = "back"
	OpForward  Op = "forward"
	OpRefresh  Op = "refresh"
	OpPrefetch Op = "prefetch"
)

// Phase is a step of a single invocation.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseStarting
	PhaseCancelled
	PhaseActing
	PhaseCompleted
	PhaseErrored
)

var phaseNames = [...]string{"idle", "starting", "cancelled", "acting", "completed", "errored"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", p)
}

// Terminal reports whether p ends an invocation.
func (p Phase) Terminal() bool {
	return p == PhaseCancelled || p == PhaseCompleted || p == PhaseErrored
}

// PanicError carries a value recovered from a panicking navigation primitive.
type PanicError struct {
	Op    Op
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Op, e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Events is the consumer handle: the registry plus the two slots.
// Slots keep their value across navigations until set again or cleared
// with nil.
type Events struct {
	*events.Registry

	mu              sync.Mutex
	onRouteStart    func() Decision
	onRouteComplete func()
}

// SetOnRouteStart sets the slot consulted after routeStart. nil clears it.
func (e *Events) SetOnRouteStart(fn func() Decision) {
	e.mu.Lock()
	e.onRouteStart = fn
	e.mu.Unlock()
}

// SetOnRouteComplete sets the slot called after routeComplete. nil clears it.
func (e *Events) SetOnRouteComplete(fn func()) {
	e.mu.Lock()
	e.onRouteComplete = fn
	e.mu.Unlock()
}

func (e *Events) startSlot() func() Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.onRouteStart
}

func (e *Events) completeSlot() func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.onRouteComplete
}

// Options configures an Interceptor.
type Options struct {
	// Registry receives the route events. A fresh registry is used when nil;
	// pass events.Global() to share handlers process-wide.
	Registry *events.Registry

	// Logger is used by the default routeError handler. Defaults to log.Default().
	Logger *log.Logger

	// DisableErrorLog skips installing the default routeError handler.
	DisableErrorLog bool

	OnRouteStart    func() Decision
	OnRouteComplete func()

	// Trace, when set, observes every phase an invocation enters.
	Trace func(op Op, link string, phase Phase)
}

// Interceptor runs navigations through the route event protocol. It is
// stateless across invocations apart from its registry and slots.
type Interceptor struct {
	nav    router.Navigator
	events *Events
	trace  func(Op, string, Phase)

	mu       sync.Mutex
	errorLog *events.Subscription
}

// New wraps nav. Unless DisableErrorLog is set it installs a routeError
// handler that logs the error; if the registry already has one, New
// returns the registration conflict.
func New(nav router.Navigator, opts Options) (*Interceptor, error) {
	if nav == nil {
		return nil, ErrNilNavigator
	}
	reg := opts.Registry
	if reg == nil {
		reg = events.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	i := &Interceptor{
		nav: nav,
		events: &Events{
			Registry:        reg,
			onRouteStart:    opts.OnRouteStart,
			onRouteComplete: opts.OnRouteComplete,
		},
		trace: opts.Trace,
	}

	if !opts.DisableErrorLog {
		sub, err := reg.Subscribe(events.RouteError, func(args ...any) {
			if len(args) == 0 {
				return
			}
			logger.Printf(ErrorLogPrefix+"%v", args[0])
		})
		if err != nil {
			return nil, fmt.Errorf("install route error logger: %w", err)
		}
		i.errorLog = sub
	}
	return i, nil
}

// Events returns the handle for registering handlers and setting slots.
func (i *Interceptor) Events() *Events { return i.events }

// Close removes the routeError handler New installed, if it is still the
// registered one. Handlers registered by anyone else stay in place.
func (i *Interceptor) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.errorLog != nil {
		i.errorLog.Off()
		i.errorLog = nil
	}
}

func (i *Interceptor) Push(href string, opts router.NavigateOptions) {
	i.run(OpPush, href, func() error { return i.nav.Push(href, opts) })
}

func (i *Interceptor) Replace(href string, opts router.NavigateOptions) {
	i.run(OpReplace, href, func() error { return i.nav.Replace(href, opts) })
}

func (i *Interceptor) Back() {
	i.run(OpBack, "", i.nav.Back)
}

func (i *Interceptor) Forward() {
	i.run(OpForward, "", i.nav.Forward)
}

func (i *Interceptor) Refresh() {
	i.run(OpRefresh, "", i.nav.Refresh)
}

func (i *Interceptor) Prefetch(href string, opts router.PrefetchOptions) {
	i.run(OpPrefetch, href, func() error { return i.nav.Prefetch(href, opts) })
}

func (i *Interceptor) enter(op Op, link string, p Phase) {
	if i.trace != nil {
		i.trace(op, link, p)
	}
}

func (i *Interceptor) run(op Op, link string, action func() error) {
	i.enter(op, link, PhaseStarting)
	i.events.Emit(events.RouteStart, link)

	if slot := i.events.startSlot(); slot != nil {
		d := slot()
		if d.Cancelled() {
			i.enter(op, link, PhaseCancelled)
			return
		}
		if d.Failed() {
			i.enter(op, link, PhaseErrored)
			i.events.Emit(events.RouteError, d.Err())
			return
		}
	}

	i.enter(op, link, PhaseActing)
	if err := guard(op, action); err != nil {
		i.enter(op, link, PhaseErrored)
		i.events.Emit(events.RouteError, err)
		return
	}

	i.enter(op, link, PhaseCompleted)
	i.events.Emit(events.RouteComplete, link)
	if slot := i.events.completeSlot(); slot != nil {
		slot()
	}
}

// guard runs action and turns a panic into a *PanicError.
func guard(op Op, action func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Op: op, Value: v}
		}
	}()
	return action()
}
