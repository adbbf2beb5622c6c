package deck

import (
	"github.com/arcanaland/concentration/internal/card"
)

// Deck is the playable sequence of cards: every definition appears twice
type Deck []card.Definition

// Intner is the random source used by Shuffle. *rand.Rand satisfies it.
type Intner interface {
	Intn(n int) int
}

// New builds a deck by doubling the given definitions, keeping their order
func New(defs []card.Definition) Deck {
	d := make(Deck, 0, 2*len(defs))
	d = append(d, defs...)
	d = append(d, defs...)
	return d
}

// Shuffle permutes the deck in place.
//
// It walks from the last index down to the first and swaps each position
// with one drawn uniformly from 0..i inclusive, so every permutation is
// equally likely for a uniform source.
func (d Deck) Shuffle(rng Intner) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Keys returns the match key of every entry, in deck order
func (d Deck) Keys() []string {
	keys := make([]string, len(d))
	for i, c := range d {
		keys[i] = c.Name
	}
	return keys
}
