package events

import "github.com/asaskevich/EventBus"

// AppBus is the application lifecycle bus shared by main and the command
// tree. Route events never travel over it; they go through a Registry.
var AppBus EventBus.Bus

func init() {
	AppBus = EventBus.New()
}

// Lifecycle topics published on AppBus.
const (
	// EventShutdownRequested carries the reason as a string.
	EventShutdownRequested = "app:shutdown:requested"

	// EventSessionCompleted carries the number of navigations performed.
	EventSessionCompleted = "session:completed"
)
