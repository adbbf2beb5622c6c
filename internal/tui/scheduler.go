package tui

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/arcanaland/concentration/internal/game"
)

// ClockScheduler delivers scheduled game events into the session's event channel.
// Callbacks never touch game state themselves; the loop dispatches what they send.
type ClockScheduler struct {
	clock  clock.Clock
	events chan<- game.Event
	done   <-chan struct{}
}

// NewClockScheduler posts events into events until done is closed
func NewClockScheduler(clk clock.Clock, events chan<- game.Event, done <-chan struct{}) *ClockScheduler {
	return &ClockScheduler{clock: clk, events: events, done: done}
}

// After sends ev once d has elapsed
func (s *ClockScheduler) After(d time.Duration, ev game.Event) func() {
	t := s.clock.AfterFunc(d, func() { s.post(ev) })
	return func() { t.Stop() }
}

// Every sends ev each time d elapses until cancelled
func (s *ClockScheduler) Every(d time.Duration, ev game.Event) func() {
	ticker := s.clock.Ticker(d)
	stop := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.post(ev)
			case <-stop:
				return
			case <-s.done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(stop)
		})
	}
}

func (s *ClockScheduler) post(ev game.Event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}
