package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnTwiceConflicts(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			r := New()
			require.NoError(t, r.On(k, func(...any) {}))

			err := r.On(k, func(...any) {})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRegistrationConflict))

			var conflict *ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, k, conflict.Kind)
		})
	}
}

func TestOffThenOnReplacesHandler(t *testing.T) {
	r := New()
	var got []string

	require.NoError(t, r.On(RouteStart, func(...any) { got = append(got, "first") }))
	r.Off(RouteStart)
	require.NoError(t, r.On(RouteStart, func(...any) { got = append(got, "second") }))

	r.Emit(RouteStart, "/")
	assert.Equal(t, []string{"second"}, got)
}

func TestConflictKeepsOriginalHandler(t *testing.T) {
	r := New()
	calls := 0
	require.NoError(t, r.On(RouteComplete, func(...any) { calls++ }))
	require.Error(t, r.On(RouteComplete, func(...any) { calls += 100 }))

	r.Emit(RouteComplete, "/")
	assert.Equal(t, 1, calls)
}

func TestEmitWithoutHandlerIsNoop(t *testing.T) {
	r := New()
	assert.NotPanics(t, func() {
		r.Emit(RouteError, errors.New("ignored"))
		r.Emit(RouteStart)
	})
}

func TestEmitPassesArguments(t *testing.T) {
	r := New()
	var got []any
	require.NoError(t, r.On(RouteStart, func(args ...any) { got = args }))

	r.Emit(RouteStart, "/about", 2)
	assert.Equal(t, []any{"/about", 2}, got)
}

func TestEmitPropagatesHandlerPanic(t *testing.T) {
	r := New()
	require.NoError(t, r.On(RouteError, func(args ...any) { panic(args[0]) }))

	assert.PanicsWithValue(t, "boom", func() { r.Emit(RouteError, "boom") })
}

func TestOffOnEmptyKindIsNoop(t *testing.T) {
	r := New()
	r.Off(RouteComplete)
	assert.False(t, r.Has(RouteComplete))
}

func TestHandlerMayUnregisterItself(t *testing.T) {
	r := New()
	calls := 0
	require.NoError(t, r.On(RouteComplete, func(...any) {
		calls++
		r.Off(RouteComplete)
	}))

	r.Emit(RouteComplete, "/")
	r.Emit(RouteComplete, "/")
	assert.Equal(t, 1, calls)
	assert.False(t, r.Has(RouteComplete))
}

func TestOnRejectsUnknownKindAndNilHandler(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.On(Kind("routeChangeStart"), func(...any) {}), ErrUnknownKind)
	assert.ErrorIs(t, r.On(RouteStart, nil), ErrNilHandler)
}

func TestGlobalIsShared(t *testing.T) {
	a, b := Global(), Global()
	require.Same(t, a, b)

	require.NoError(t, a.On(RouteStart, func(...any) {}))
	t.Cleanup(func() { a.Off(RouteStart) })

	assert.True(t, b.Has(RouteStart))
	assert.ErrorIs(t, b.On(RouteStart, func(...any) {}), ErrRegistrationConflict)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("routeError")
	require.NoError(t, err)
	assert.Equal(t, RouteError, k)

	_, err = ParseKind("hashChange")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSubscriptionOffLeavesLaterHandler(t *testing.T) {
	r := New()
	sub, err := r.Subscribe(RouteError, func(...any) {})
	require.NoError(t, err)
	assert.True(t, sub.Active())

	r.Off(RouteError)
	assert.False(t, sub.Active())

	calls := 0
	require.NoError(t, r.On(RouteError, func(...any) { calls++ }))

	assert.False(t, sub.Off())
	r.Emit(RouteError, "x")
	assert.Equal(t, 1, calls)
}

func TestSubscriptionOffRemovesOwnHandler(t *testing.T) {
	r := New()
	sub, err := r.Subscribe(RouteStart, func(...any) {})
	require.NoError(t, err)

	assert.True(t, sub.Off())
	assert.False(t, r.Has(RouteStart))
	assert.False(t, sub.Off())
}
