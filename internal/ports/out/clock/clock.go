package clock

import "time"

// Clock provides time to the application.
// Using an interface enables deterministic tests via a controllable
// implementation: the ICE monitor's deadline and response-window timers
// come from After, so tests can drive them without real waiting.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}
