package game

import (
	"time"

	"github.com/google/uuid"
)

// Event is an input to Machine.Dispatch
type Event interface {
	event()
}

// CardSelected is a click on the card with the given instance ID
type CardSelected struct {
	ID uuid.UUID
}

// TimerTick is one beat of the round countdown
type TimerTick struct {
	Round uuid.UUID
}

// StartPressed starts a fresh round
type StartPressed struct{}

// RestartPressed redeals without starting
type RestartPressed struct{}

// FlipBack turns a mismatched pair face-down again once the reveal delay has passed
type FlipBack struct {
	Round         uuid.UUID
	First, Second uuid.UUID
}

func (CardSelected) event()   {}
func (TimerTick) event()      {}
func (StartPressed) event()   {}
func (RestartPressed) event() {}
func (FlipBack) event()       {}

// Scheduler delivers events back to the dispatcher later.
// The returned func cancels the delivery; calling it twice is harmless.
type Scheduler interface {
	After(d time.Duration, ev Event) (cancel func())
	Every(d time.Duration, ev Event) (cancel func())
}

// Audio receives the feedback cues emitted by the machine
type Audio interface {
	PlayFlip()
	PlayMatch()
	PlayWin()
	PlayLose()
	PlayBackgroundMusic()
	PauseBackgroundMusic()
}
