package core

import (
	"context"
	"errors"
	"time"
)

// Scheduler runs one write attempt per interval, sequentially, until the
// context is cancelled or an attempt fails fatally.
type Scheduler struct {
	// Interval is the sleep before every attempt. Zero is allowed.
	Interval time.Duration
	// Attempt performs a single unit of work.
	Attempt func() (*Attempt, error)
	// OnAttempt, if set, receives every completed attempt, written or skipped.
	OnAttempt func(*Attempt)
}

// Start blocks running the loop. The sleep starts after the previous
// attempt returns, so a slow attempt delays the next one rather than
// causing a catch-up burst.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.Attempt == nil {
		return errors.New("scheduler: no attempt function")
	}

	timer := time.NewTimer(s.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		// select picks randomly when both are ready.
		if err := ctx.Err(); err != nil {
			return err
		}

		att, err := s.Attempt()
		if err != nil {
			return err
		}
		if s.OnAttempt != nil && att != nil {
			s.OnAttempt(att)
		}

		timer.Reset(s.Interval)
	}
}
