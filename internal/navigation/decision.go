package navigation

import "errors"

// ErrStartFailed is reported when Fail is given a nil error.
var ErrStartFailed = errors.New("route start failed")

type verdict uint8

const (
	proceed verdict = iota
	cancel
	fail
)

// Decision is the outcome of the route start slot. The zero value proceeds.
type Decision struct {
	verdict verdict
	err     error
}

// Proceed lets the navigation run.
func Proceed() Decision { return Decision{} }

// Cancel stops the navigation silently: no action and no further events.
func Cancel() Decision { return Decision{verdict: cancel} }

// Fail stops the navigation and reports err through routeError.
func Fail(err error) Decision {
	if err == nil {
		err = ErrStartFailed
	}
	return Decision{verdict: fail, err: err}
}

// FromBool maps the boolean convention where false cancels.
func FromBool(ok bool) Decision {
	if !ok {
		return Cancel()
	}
	return Proceed()
}

func (d Decision) Cancelled() bool { return d.verdict == cancel }
func (d Decision) Failed() bool    { return d.verdict == fail }
func (d Decision) Err() error      { return d.err }

func (d Decision) String() string {
	switch d.verdict {
	case cancel:
		return "cancel"
	case fail:
		return "fail: " + d.err.Error()
	}
	return "proceed"
}
