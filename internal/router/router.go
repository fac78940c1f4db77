// Package router provides the navigation primitive wrapped by the
// navigation package: a history stack of hrefs with back/forward movement
// and a prefetch cache.
package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

var (
	ErrEmptyHref   = errors.New("empty href")
	ErrNoHistory   = errors.New("no history entry")
	ErrUnknownPage = errors.New("unknown page")
	ErrRejected    = errors.New("navigation rejected")
)

// NavigateOptions is forwarded unchanged by wrappers.
type NavigateOptions struct {
	// Scroll resets the scroll position of the destination when true.
	Scroll bool
}

// PrefetchOptions is forwarded unchanged by wrappers.
type PrefetchOptions struct {
	Kind string
}

// Navigator is the set of navigation primitives.
type Navigator interface {
	Push(href string, opts NavigateOptions) error
	Replace(href string, opts NavigateOptions) error
	Back() error
	Forward() error
	Refresh() error
	Prefetch(href string, opts PrefetchOptions) error
}

// Entry is one slot of the history stack.
type Entry struct {
	Href    string
	Options NavigateOptions
}

// Router is an in-memory Navigator. The zero value is not usable; use New.
type Router struct {
	mu       sync.Mutex
	entries  []Entry
	index    int
	pages    map[string]struct{}
	rejected map[string]struct{}
	prefetch map[uint64]PrefetchOptions
	refresh  int
}

// Option configures a Router.
type Option func(*Router)

// WithPages restricts navigation to the given hrefs.
func WithPages(hrefs ...string) Option {
	return func(r *Router) {
		for _, h := range hrefs {
			r.pages[h] = struct{}{}
		}
	}
}

// WithRejected makes every navigation to the given hrefs fail with ErrRejected.
func WithRejected(hrefs ...string) Option {
	return func(r *Router) {
		for _, h := range hrefs {
			r.rejected[h] = struct{}{}
		}
	}
}

// New returns a Router positioned on start.
func New(start string, opts ...Option) *Router {
	r := &Router{
		entries:  []Entry{{Href: start}},
		pages:    make(map[string]struct{}),
		rejected: make(map[string]struct{}),
		prefetch: make(map[uint64]PrefetchOptions),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Router) check(href string) error {
	if strings.TrimSpace(href) == "" {
		return ErrEmptyHref
	}
	if _, ok := r.rejected[href]; ok {
		return fmt.Errorf("%w: %s", ErrRejected, href)
	}
	if len(r.pages) > 0 {
		if _, ok := r.pages[href]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPage, href)
		}
	}
	return nil
}

// Push drops any forward entries and appends href.
func (r *Router) Push(href string, opts NavigateOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(href); err != nil {
		return err
	}
	r.entries = append(r.entries[:r.index+1], Entry{Href: href, Options: opts})
	r.index = len(r.entries) - 1
	return nil
}

// Replace overwrites the current entry.
func (r *Router) Replace(href string, opts NavigateOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(href); err != nil {
		return err
	}
	r.entries[r.index] = Entry{Href: href, Options: opts}
	return nil
}

func (r *Router) Back() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index == 0 {
		return fmt.Errorf("back: %w", ErrNoHistory)
	}
	r.index--
	return nil
}

func (r *Router) Forward() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index >= len(r.entries)-1 {
		return fmt.Errorf("forward: %w", ErrNoHistory)
	}
	r.index++
	return nil
}

// Refresh re-renders the current entry and drops the prefetch cache.
func (r *Router) Refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh++
	clear(r.prefetch)
	return nil
}

// Prefetch records href in the prefetch cache without moving.
func (r *Router) Prefetch(href string, opts PrefetchOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(href); err != nil {
		return err
	}
	r.prefetch[xxhash.Sum64String(href)] = opts
	return nil
}

// Current returns the entry the router is positioned on.
func (r *Router) Current() Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[r.index]
}

// History returns a copy of the stack and the current index.
func (r *Router) History() ([]Entry, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out, r.index
}

// Prefetched reports whether href sits in the prefetch cache.
func (r *Router) Prefetched(href string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.prefetch[xxhash.Sum64String(href)]
	return ok
}

// Refreshes returns how many times Refresh ran.
func (r *Router) Refreshes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refresh
}
