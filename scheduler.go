package flurry

import "time"

// Scheduler abstracts the host's "invoke on next frame" primitive. The
// Controller requests at most one pending callback at a time and may cancel
// it; both operations are synchronous. Run supplies a scheduler driven by
// the ebiten game loop; tests and embedding hosts can use ManualScheduler.
type Scheduler interface {
	// RequestFrame registers fn to be invoked on the next frame with the
	// frame's timestamp. The returned cancel function revokes the request;
	// calling it after the frame has fired is a no-op.
	RequestFrame(fn func(now time.Time)) (cancel func())
}

// ManualScheduler is a Scheduler driven by explicit Fire calls, one frame
// per call. It holds at most one pending callback: a new request replaces
// the previous one. The zero value is ready to use.
//
// ManualScheduler is not safe for concurrent use; like the Controller it is
// meant to be driven from a single game loop.
type ManualScheduler struct {
	pending func(now time.Time)
	gen     uint64
}

// RequestFrame implements Scheduler.
func (s *ManualScheduler) RequestFrame(fn func(now time.Time)) func() {
	s.pending = fn
	s.gen++
	gen := s.gen
	return func() {
		// Only cancel if no newer request has replaced this one.
		if s.gen == gen {
			s.pending = nil
		}
	}
}

// Pending reports whether a callback is waiting for the next Fire.
func (s *ManualScheduler) Pending() bool {
	return s.pending != nil
}

// Fire invokes the pending callback with the given timestamp, if any. The
// slot is cleared before the callback runs so the callback may request the
// next frame.
func (s *ManualScheduler) Fire(now time.Time) {
	fn := s.pending
	s.pending = nil
	if fn != nil {
		fn(now)
	}
}
