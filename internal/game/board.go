package game

import (
	"github.com/google/uuid"

	"github.com/arcanaland/concentration/internal/deck"
)

// Face is the visible side of a card instance
type Face int

const (
	FaceDown Face = iota
	FaceUp
)

func (f Face) String() string {
	if f == FaceUp {
		return "face-up"
	}
	return "face-down"
}

// CardInstance is one dealt card on the board.
// Every render issues fresh IDs, so an instance never outlives its round.
type CardInstance struct {
	ID    uuid.UUID
	Key   string
	Image string
	Face  Face
	Inert bool // matched and detached from input
}

// Board holds the card instances of the current round in deck order
type Board struct {
	Cards []*CardInstance
}

// Render deals one face-down instance per deck entry
func Render(d deck.Deck) *Board {
	b := &Board{Cards: make([]*CardInstance, 0, len(d))}
	for _, def := range d {
		b.Cards = append(b.Cards, &CardInstance{
			ID:    uuid.New(),
			Key:   def.Name,
			Image: def.Image,
			Face:  FaceDown,
		})
	}
	return b
}

// Find returns the instance with the given ID, or nil
func (b *Board) Find(id uuid.UUID) *CardInstance {
	for _, c := range b.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FaceDown counts the cards still face-down
func (b *Board) FaceDown() int {
	n := 0
	for _, c := range b.Cards {
		if c.Face == FaceDown {
			n++
		}
	}
	return n
}
