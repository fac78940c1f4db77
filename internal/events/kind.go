package events

import "fmt"

// Kind identifies a route event.
type Kind string

// Route event kinds. The set is closed.
const (
	RouteStart    Kind = "routeStart"
	RouteComplete Kind = "routeComplete"
	RouteError    Kind = "routeError"
)

// Kinds returns every route event kind in protocol order.
func Kinds() []Kind {
	return []Kind{RouteStart, RouteComplete, RouteError}
}

// Valid reports whether k is one of the route event kinds.
func (k Kind) Valid() bool {
	switch k {
	case RouteStart, RouteComplete, RouteError:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// ParseKind resolves an event name such as "routeStart".
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return k, nil
}
