package health

import "sync/atomic"

// ready gates the readiness probe independently of dependency checks so a
// draining server is pulled out of rotation before listeners close.
var ready atomic.Bool

func init() {
	ready.Store(true)
}

// SetReady flips the readiness gate. Main sets it false at shutdown start.
func SetReady(v bool) {
	ready.Store(v)
}

// Accepting reports whether the service still accepts traffic.
func Accepting() bool {
	return ready.Load()
}
