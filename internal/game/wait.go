package game

import "time"

// PollTimeout guards every polling loop of the farming tasks.
const PollTimeout = 5 * time.Second

// YieldN yields n times.
func YieldN(c Client, n int) error {
	for i := 0; i < n; i++ {
		if err := c.Yield(); err != nil {
			return err
		}
	}
	return nil
}

// WaitUntil yields until cond holds or timeout elapses on the client clock.
func WaitUntil(c Client, timeout time.Duration, cond func() bool) error {
	start := c.Now()
	for !cond() {
		if c.Now().Sub(start) >= timeout {
			return ErrTimeout
		}
		if err := c.Yield(); err != nil {
			return err
		}
	}
	return nil
}
