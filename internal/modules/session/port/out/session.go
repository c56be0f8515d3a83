package out

import (
	"time"

	sessiondto "japa/internal/modules/session/dto"
)

// Handle cancels a scheduled task that has not run yet.
type Handle interface {
	Cancel() bool
}

// Scheduler runs task after delay on the caller's own event loop, never
// concurrently with other session calls.
type Scheduler interface {
	Schedule(delay time.Duration, task func()) Handle
}

type Listener interface {
	Notify(signal sessiondto.Signal)
}
