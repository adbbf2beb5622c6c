package tui

import (
	"context"
	"io"
	"log"

	"github.com/arcanaland/concentration/internal/game"
)

// Controls is the audio surface the session drives from the keyboard
type Controls interface {
	ToggleMute() bool
	SetVolume(level float64)
	Muted() bool
	Volume() float64
}

// VolumeStep is how far one +/- key press moves the volume
const VolumeStep = 0.1

// Session runs the single event loop of a game: keyboard input and
// scheduled events are serialized through it, so the machine is only
// ever touched by one goroutine.
type Session struct {
	machine  *game.Machine
	controls Controls
	events   <-chan game.Event
	logger   *log.Logger

	Width  int
	Art    ArtFunc
	cursor int
}

// NewSession wires a machine to the event channel its scheduler posts into
func NewSession(m *game.Machine, controls Controls, events <-chan game.Event, logger *log.Logger) *Session {
	return &Session{
		machine:  m,
		controls: controls,
		events:   events,
		logger:   logger,
		Width:    80,
	}
}

// Run draws to out and processes input from in until the player quits,
// in reaches EOF, or ctx is cancelled.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	keys := make(chan Key, 16)
	go readKeys(ctx, in, keys, s.logger)

	if err := s.draw(out); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-s.events:
			s.machine.Dispatch(ev)

		case k, ok := <-keys:
			if !ok || k == KeyQuit {
				return nil
			}
			s.Handle(k)
		}

		if err := s.draw(out); err != nil {
			return err
		}
	}
}

// Handle applies one key press
func (s *Session) Handle(k Key) {
	cards := s.machine.Board().Cards
	cols := Columns(len(cards), s.Width)

	switch k {
	case KeyLeft:
		if s.cursor%cols > 0 {
			s.cursor--
		}
	case KeyRight:
		if s.cursor%cols < cols-1 && s.cursor+1 < len(cards) {
			s.cursor++
		}
	case KeyUp:
		if s.cursor-cols >= 0 {
			s.cursor -= cols
		}
	case KeyDown:
		if s.cursor+cols < len(cards) {
			s.cursor += cols
		}
	case KeySelect:
		if s.cursor < len(cards) {
			s.machine.Dispatch(game.CardSelected{ID: cards[s.cursor].ID})
		}
	case KeyStart:
		s.machine.Dispatch(game.StartPressed{})
	case KeyRestart:
		s.machine.Dispatch(game.RestartPressed{})
	case KeyMute:
		s.controls.ToggleMute()
	case KeyVolumeUp:
		s.controls.SetVolume(s.controls.Volume() + VolumeStep)
	case KeyVolumeDown:
		s.controls.SetVolume(s.controls.Volume() - VolumeStep)
	}
}

// Cursor returns the index of the highlighted card
func (s *Session) Cursor() int {
	return s.cursor
}

// Frame returns what the next draw would show
func (s *Session) Frame() Frame {
	return Frame{
		Snapshot: s.machine.Snapshot(),
		Cursor:   s.cursor,
		Muted:    s.controls.Muted(),
		Volume:   s.controls.Volume(),
		Width:    s.Width,
		Art:      s.Art,
	}
}

func (s *Session) draw(out io.Writer) error {
	return Draw(out, s.Frame())
}

// readKeys decodes input until it fails, then closes keys. An escape
// sequence cut off at the end of one read is completed by the next.
func readKeys(ctx context.Context, in io.Reader, keys chan<- Key, logger *log.Logger) {
	defer close(keys)

	buf := make([]byte, 64)
	var pending []byte
	for {
		n, err := in.Read(buf)
		data := append(pending, buf[:n]...)

		ready := data
		pending = nil
		if err == nil {
			ready, pending = splitPending(data)
			pending = append([]byte(nil), pending...)
		}

		for _, k := range DecodeKeys(ready) {
			select {
			case keys <- k:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				logger.Printf("input closed: %v", err)
			}
			return
		}
	}
}
