package validator

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcanaland/concentration/internal/deck"
)

// MaxComfortableCards is the largest card set that still fits a typical terminal grid
const MaxComfortableCards = 18

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

type Validator struct {
	DeckPath string
	Results  ValidationResults
}

func NewValidator(deckPath string) *Validator {
	return &Validator{
		DeckPath: deckPath,
		Results:  ValidationResults{},
	}
}

// Validate loads the card set and checks its definitions and images.
// An error is returned only when the set cannot be read at all.
func (v *Validator) Validate() (ValidationResults, error) {
	set, err := deck.LoadSet(context.Background(), v.DeckPath)
	if errors.Is(err, deck.ErrEmptySet) {
		v.Results.Errors = append(v.Results.Errors, "card set has no cards")
		return v.Results, nil
	}
	if err != nil {
		return v.Results, err
	}

	v.validateNames(set)
	v.validateImages(set)
	v.validateSize(set)

	return v.Results, nil
}

// validateNames checks that every card has a unique match key
func (v *Validator) validateNames(set *deck.Set) {
	seen := make(map[string]int)
	for i, c := range set.Cards {
		if strings.TrimSpace(c.Name) == "" {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("card %d has no name", i+1))
			continue
		}

		if first, ok := seen[c.Name]; ok {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("duplicate card name %q (cards %d and %d)", c.Name, first+1, i+1))
			continue
		}
		seen[c.Name] = i
	}
}

// validateImages checks that local images exist and decode
func (v *Validator) validateImages(set *deck.Set) {
	for _, c := range set.Cards {
		if c.Image == "" {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("card %q has no image; its name is shown instead", c.Name))
			continue
		}

		ref := set.ResolveImage(c.Image)
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("card %q image is remote and was not checked: %s", c.Name, ref))
			continue
		}

		if strings.EqualFold(filepath.Ext(ref), ".svg") {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("card %q image is SVG and cannot be shown in the terminal: %s", c.Name, c.Image))
			continue
		}

		file, err := os.Open(ref)
		if err != nil {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("card %q image not found: %s", c.Name, c.Image))
			continue
		}

		_, _, err = image.DecodeConfig(file)
		file.Close()
		if err != nil {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("card %q image cannot be decoded: %s (%v)", c.Name, c.Image, err))
		}
	}
}

// validateSize warns about sets too large for a comfortable board
func (v *Validator) validateSize(set *deck.Set) {
	if len(set.Cards) > MaxComfortableCards {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("card set has %d cards (%d on the board); boards over %d cards may not fit the terminal",
				len(set.Cards), 2*len(set.Cards), 2*MaxComfortableCards))
	}
}
