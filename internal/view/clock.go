package view

import (
	"sync"
	"time"
)

// DefaultClockInterval is the clock refresh period.
const DefaultClockInterval = time.Second

const (
	timeLayout = "15:04:05"
	dateLayout = "Jan 2, 2006"
)

// FormatTime renders t as a zero-padded 24-hour clock, e.g. "09:05:03".
func FormatTime(t time.Time) string { return t.Format(timeLayout) }

// FormatDate renders t as a short month/day/year date, e.g. "Mar 7, 2025".
func FormatDate(t time.Time) string { return t.Format(dateLayout) }

// Clock calls onTick with the current time every interval until stopped.
type Clock struct {
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// StartClock starts the tick goroutine. now defaults to time.Now.
func StartClock(interval time.Duration, now func() time.Time, onTick func(time.Time)) *Clock {
	if now == nil {
		now = time.Now
	}
	c := &Clock{stop: make(chan struct{})}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-t.C:
				onTick(now())
			}
		}
	}()
	return c
}

// Stop halts the clock and waits for the tick goroutine to exit.
func (c *Clock) Stop() {
	c.once.Do(func() { close(c.stop) })
	c.wg.Wait()
}
