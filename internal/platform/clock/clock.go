package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in the local zone; day boundaries for
// history and streaks follow the user's calendar, not UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
