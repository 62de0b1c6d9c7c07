package util

import "time"

// Clock is the host's time source. The core engines never read a clock;
// timestamps flow in through it so replays stay deterministic.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
