// Package session drives a router.Router through a navigation.Interceptor
// for the routernav commands and records the route events it observes.
package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"routernav/internal/config"
	"routernav/internal/events"
	"routernav/internal/navigation"
	"routernav/internal/router"
	"routernav/internal/tui"
)

// Options configures a Session.
type Options struct {
	Out io.Writer

	// Confirm is asked before navigating to a vetoed page. Without it
	// vetoed navigations are cancelled.
	Confirm func(href string) bool

	// Trace prints every protocol phase.
	Trace bool

	// Registry defaults to a fresh registry per session.
	Registry *events.Registry
}

// Session is one run of the demo application.
type Session struct {
	cfg     *config.Config
	router  *router.Router
	nav     *navigation.Interceptor
	out     io.Writer
	confirm func(string) bool

	mu        sync.Mutex
	lines     []string
	pending   string
	completed int
	cancelled int
}

// errorWriter receives the default routeError log lines and records them
// as styled routeError event lines.
type errorWriter struct{ s *Session }

func (w errorWriter) Write(p []byte) (int, error) {
	msg := strings.TrimPrefix(strings.TrimRight(string(p), "\n"), navigation.ErrorLogPrefix)
	w.s.record(tui.EventLine(events.RouteError, msg))
	return len(p), nil
}

// New builds the router described by cfg and wraps it. Route events are
// printed to opts.Out; route errors also go to the standard logger.
func New(cfg *config.Config, opts Options) (*Session, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	s := &Session{
		cfg:     cfg,
		router:  router.New(cfg.Start, router.WithPages(cfg.Hrefs()...), router.WithRejected(cfg.Fail...)),
		out:     opts.Out,
		confirm: opts.Confirm,
	}

	nopts := navigation.Options{
		Registry:        opts.Registry,
		Logger:          log.New(io.MultiWriter(errorWriter{s}, log.Writer()), "", 0),
		OnRouteStart:    s.onRouteStart,
		OnRouteComplete: s.onRouteComplete,
	}
	if opts.Trace {
		nopts.Trace = func(op navigation.Op, link string, p navigation.Phase) {
			s.record(tui.Muted(fmt.Sprintf("  %s %s -> %s", op, link, p)))
		}
	}

	nav, err := navigation.New(s.router, nopts)
	if err != nil {
		return nil, err
	}
	s.nav = nav

	reg := nav.Events()
	if err := reg.On(events.RouteStart, func(args ...any) {
		link, _ := args[0].(string)
		s.mu.Lock()
		s.pending = link
		s.mu.Unlock()
		s.record(tui.EventLine(events.RouteStart, link))
	}); err != nil {
		nav.Close()
		return nil, err
	}
	if err := reg.On(events.RouteComplete, func(args ...any) {
		s.record(tui.EventLine(events.RouteComplete, args[0]))
	}); err != nil {
		reg.Off(events.RouteStart)
		nav.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) onRouteStart() navigation.Decision {
	s.mu.Lock()
	href := s.pending
	s.mu.Unlock()

	if href == "" || !s.cfg.Vetoed(href) {
		return navigation.Proceed()
	}
	if s.confirm != nil && s.confirm(href) {
		return navigation.Proceed()
	}
	s.mu.Lock()
	s.cancelled++
	s.mu.Unlock()
	s.record(tui.Muted("  cancelled navigation to " + href))
	return navigation.Cancel()
}

func (s *Session) onRouteComplete() {
	s.mu.Lock()
	s.completed++
	s.mu.Unlock()
}

func (s *Session) record(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
	fmt.Fprintln(s.out, line)
}

// Do performs one step through the interceptor. Only an unknown op is an
// error; navigation failures surface as routeError events.
func (s *Session) Do(step config.Step) error {
	switch step.Op {
	case "push":
		s.nav.Push(step.Href, router.NavigateOptions{Scroll: true})
	case "replace":
		s.nav.Replace(step.Href, router.NavigateOptions{Scroll: true})
	case "back":
		s.nav.Back()
	case "forward":
		s.nav.Forward()
	case "refresh":
		s.nav.Refresh()
	case "prefetch":
		s.nav.Prefetch(step.Href, router.PrefetchOptions{Kind: "auto"})
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

// RunScript performs every configured step, stopping early when ctx is done.
func (s *Session) RunScript(ctx context.Context) error {
	for i, step := range s.cfg.Script {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Do(step); err != nil {
			return fmt.Errorf("script step %d: %w", i+1, err)
		}
	}
	return nil
}

// Events exposes the interceptor's handle for extra handlers.
func (s *Session) Events() *navigation.Events { return s.nav.Events() }

// Current returns the href the router is positioned on.
func (s *Session) Current() string { return s.router.Current().Href }

// Stats returns how many navigations completed and how many were vetoed.
func (s *Session) Stats() (completed, cancelled int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed, s.cancelled
}

// Recent returns a copy of every line recorded so far.
func (s *Session) Recent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Close releases every handler the session registered.
func (s *Session) Close() {
	reg := s.nav.Events()
	reg.Off(events.RouteStart)
	reg.Off(events.RouteComplete)
	s.nav.Close()
}
