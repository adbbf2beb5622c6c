package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/arcanaland/concentration/internal/card"
	"github.com/arcanaland/concentration/internal/deck"
)

const (
	MessageWon  = "You Won!"
	MessageLost = "You Lose!"

	LabelStart   = "Start"
	LabelStarted = "Started"
)

// Phase is the lifecycle stage of a round
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInRound
	PhaseWon
	PhaseLost
)

func (p Phase) String() string {
	switch p {
	case PhaseInRound:
		return "in-round"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return "not-started"
	}
}

// Rules are the fixed budgets of a round
type Rules struct {
	TargetMoves  int
	TimeLimit    int // seconds
	FlipDelay    time.Duration
	TickInterval time.Duration
}

// DefaultRules returns a 25 move, 45 second round with a one second reveal
func DefaultRules() Rules {
	return Rules{
		TargetMoves:  25,
		TimeLimit:    45,
		FlipDelay:    time.Second,
		TickInterval: time.Second,
	}
}

// RoundState is everything the machine tracks about the current round
type RoundState struct {
	Round    uuid.UUID
	Phase    Phase
	Score    int
	Moves    int
	TimeLeft int
	Started  bool
	Locked   bool
	First    *CardInstance
	Second   *CardInstance
	Message  string
}

// Machine owns the round state and applies events to it.
// It is not safe for concurrent use; a single loop must call Dispatch.
type Machine struct {
	rules Rules
	defs  []card.Definition
	rng   deck.Intner
	audio Audio
	sched Scheduler

	state RoundState
	board *Board

	stopTimer    func()
	stopFlipBack func()
}

// NewMachine shuffles and deals the first board. The round stays
// NotStarted until a StartPressed event arrives.
func NewMachine(defs []card.Definition, rules Rules, rng deck.Intner, audio Audio, sched Scheduler) *Machine {
	m := &Machine{
		rules: rules,
		defs:  defs,
		rng:   rng,
		audio: audio,
		sched: sched,
	}
	m.reset()
	return m
}

// Dispatch applies one event
func (m *Machine) Dispatch(ev Event) {
	switch e := ev.(type) {
	case CardSelected:
		m.selectCard(e.ID)
	case TimerTick:
		m.tick(e.Round)
	case FlipBack:
		m.flipBack(e)
	case StartPressed:
		m.start()
	case RestartPressed:
		m.reset()
	}
}

// State returns a copy of the round state
func (m *Machine) State() RoundState {
	return m.state
}

// Board returns the live board
func (m *Machine) Board() *Board {
	return m.board
}

// Rules returns the rules the machine was built with
func (m *Machine) Rules() Rules {
	return m.rules
}

func (m *Machine) selectCard(id uuid.UUID) {
	s := &m.state
	if s.Locked || !s.Started || s.Phase != PhaseInRound {
		return
	}

	c := m.board.Find(id)
	if c == nil || c.Inert || c == s.First || c.Face == FaceUp {
		return
	}

	c.Face = FaceUp
	m.audio.PlayFlip()

	if s.First == nil {
		s.First = c
		return
	}

	s.Second = c
	s.Moves++
	s.Score++
	s.Locked = true

	if s.First.Key == s.Second.Key {
		s.First.Inert = true
		s.Second.Inert = true
		m.audio.PlayMatch()
		m.clearSelection()
	} else {
		m.stopFlipBack = m.sched.After(m.rules.FlipDelay, FlipBack{
			Round:  s.Round,
			First:  s.First.ID,
			Second: s.Second.ID,
		})
	}

	// Runs before a mismatched pair is turned back down.
	m.checkEndCondition()
}

func (m *Machine) flipBack(e FlipBack) {
	if e.Round != m.state.Round {
		return
	}
	m.stopFlipBack = nil

	for _, id := range []uuid.UUID{e.First, e.Second} {
		if c := m.board.Find(id); c != nil && !c.Inert {
			c.Face = FaceDown
		}
	}

	m.state.First = nil
	m.state.Second = nil
	if m.state.Phase == PhaseInRound {
		m.state.Locked = false
	}
}

func (m *Machine) tick(round uuid.UUID) {
	if round != m.state.Round || m.state.Phase != PhaseInRound {
		return
	}

	m.state.TimeLeft--
	if m.state.TimeLeft <= 0 {
		m.checkEndCondition()
	}
}

// checkEndCondition moves an in-progress round to Won or Lost.
// Outside PhaseInRound it does nothing, so each round ends at most once.
func (m *Machine) checkEndCondition() {
	s := &m.state
	if s.Phase != PhaseInRound {
		return
	}

	switch {
	case m.board.FaceDown() == 0:
		m.cancelTimer()
		s.Phase = PhaseWon
		s.Message = MessageWon
		m.audio.PlayWin()
		m.audio.PauseBackgroundMusic()
	case s.Moves > m.rules.TargetMoves || s.TimeLeft <= 0:
		m.cancelTimer()
		s.Locked = true
		s.Phase = PhaseLost
		s.Message = MessageLost
		m.audio.PlayLose()
		m.audio.PauseBackgroundMusic()
	}
}

func (m *Machine) start() {
	m.reset()
	if len(m.board.Cards) == 0 {
		return
	}

	m.state.Started = true
	m.state.Phase = PhaseInRound
	m.stopTimer = m.sched.Every(m.rules.TickInterval, TimerTick{Round: m.state.Round})
	m.audio.PlayBackgroundMusic()
}

// reset redeals a fresh NotStarted round
func (m *Machine) reset() {
	m.cancelTimer()
	if m.stopFlipBack != nil {
		m.stopFlipBack()
		m.stopFlipBack = nil
	}

	d := deck.New(m.defs)
	d.Shuffle(m.rng)
	m.board = Render(d)

	m.state = RoundState{
		Round:    uuid.New(),
		Phase:    PhaseNotStarted,
		TimeLeft: m.rules.TimeLimit,
	}
}

func (m *Machine) clearSelection() {
	m.state.First = nil
	m.state.Second = nil
	m.state.Locked = false
}

func (m *Machine) cancelTimer() {
	if m.stopTimer != nil {
		m.stopTimer()
		m.stopTimer = nil
	}
}
