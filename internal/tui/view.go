package tui

import (
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	"github.com/fatih/color"

	"github.com/arcanaland/concentration/internal/ansiart"
	"github.com/arcanaland/concentration/internal/game"
)

const (
	// CardWidth and CardHeight are the inner size of a card cell in terminal cells
	CardWidth  = 10
	CardHeight = 4

	cellWidth = CardWidth + 2 // with border
	gap       = 1

	clearScreen = "\x1b[H\x1b[2J"
	newline     = "\r\n" // raw mode does not translate \n
)

var (
	labelStyle   = color.New(color.FgCyan)
	valueStyle   = color.New(color.FgHiWhite, color.Bold)
	cursorStyle  = color.New(color.FgYellow, color.Bold)
	matchedStyle = color.New(color.FgGreen)
	backStyle    = color.New(color.FgBlue)
	wonStyle     = color.New(color.FgGreen, color.Bold)
	lostStyle    = color.New(color.FgRed, color.Bold)
	hintStyle    = color.New(color.Faint)
)

// ArtFunc returns the face image of a card as CardHeight lines of
// CardWidth visible cells, or nil when the card has no usable image
type ArtFunc func(c game.CardView) []string

// Frame is everything drawn on one screen
type Frame struct {
	Snapshot game.Snapshot
	Cursor   int
	Muted    bool
	Volume   float64
	Width    int
	Art      ArtFunc
}

// Columns returns how many cards fit on one row of the grid
func Columns(cards, width int) int {
	if cards <= 0 {
		return 1
	}

	cols := int(math.Ceil(math.Sqrt(float64(cards))))
	if width > 0 {
		if fit := (width + gap) / (cellWidth + gap); fit < cols {
			cols = fit
		}
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Draw clears the screen and renders the whole frame
func Draw(w io.Writer, f Frame) error {
	var b strings.Builder
	b.WriteString(clearScreen)

	s := f.Snapshot
	b.WriteString(labelStyle.Sprint("Score: ") + valueStyle.Sprintf("%d", s.Score) + "   ")
	b.WriteString(labelStyle.Sprint("Moves left: ") + valueStyle.Sprintf("%d", s.MovesRemaining) + "   ")
	b.WriteString(labelStyle.Sprint("Time: ") + valueStyle.Sprintf("%ds", s.TimeLeft))
	b.WriteString(newline)

	b.WriteString(valueStyle.Sprintf("[%s]", s.StartLabel) + "   ")
	if f.Muted {
		b.WriteString(labelStyle.Sprint("Sound: ") + valueStyle.Sprint("muted") + "   ")
	} else {
		b.WriteString(labelStyle.Sprint("Sound: ") + valueStyle.Sprint("on") + "   ")
	}
	b.WriteString(labelStyle.Sprint("Volume: ") + volumeGauge(f.Volume))
	b.WriteString(newline + newline)

	cols := Columns(len(s.Cards), f.Width)
	for start := 0; start < len(s.Cards); start += cols {
		end := start + cols
		if end > len(s.Cards) {
			end = len(s.Cards)
		}

		cells := make([][]string, 0, end-start)
		for _, c := range s.Cards[start:end] {
			cells = append(cells, drawCard(c, c.Index == f.Cursor, f.Art))
		}

		for line := 0; line < CardHeight+2; line++ {
			parts := make([]string, len(cells))
			for i, cell := range cells {
				parts[i] = cell[line]
			}
			b.WriteString(strings.Join(parts, strings.Repeat(" ", gap)))
			b.WriteString(newline)
		}
	}

	b.WriteString(newline)
	switch s.Phase {
	case game.PhaseWon:
		b.WriteString(wonStyle.Sprint(s.Message))
	case game.PhaseLost:
		b.WriteString(lostStyle.Sprint(s.Message))
	}
	b.WriteString(newline)

	b.WriteString(hintStyle.Sprint("arrows/hjkl move · space flip · s start · r restart · m mute · +/- volume · q quit"))
	b.WriteString(newline)

	_, err := io.WriteString(w, b.String())
	return err
}

// drawCard returns the CardHeight+2 lines of one bordered card cell
func drawCard(c game.CardView, selected bool, art ArtFunc) []string {
	border := color.New(color.Reset)
	switch {
	case selected:
		border = cursorStyle
	case c.Inert:
		border = matchedStyle
	}

	body := make([]string, CardHeight)
	if c.Face == game.FaceDown {
		for i := range body {
			body[i] = backStyle.Sprint(strings.Repeat("░", CardWidth))
		}
	} else {
		var lines []string
		if art != nil {
			lines = art(c)
		}
		if len(lines) == CardHeight {
			copy(body, lines)
		} else {
			for i := range body {
				body[i] = strings.Repeat(" ", CardWidth)
			}
			body[CardHeight/2-1] = center(c.Key, CardWidth)
			if c.Inert {
				body[CardHeight/2-1] = hintStyle.Sprint(body[CardHeight/2-1])
			}
		}
	}

	out := make([]string, 0, CardHeight+2)
	out = append(out, border.Sprint("┌"+strings.Repeat("─", CardWidth)+"┐"))
	for _, line := range body {
		out = append(out, border.Sprint("│")+line+border.Sprint("│"))
	}
	out = append(out, border.Sprint("└"+strings.Repeat("─", CardWidth)+"┘"))
	return out
}

// center pads or truncates s to exactly width cells
func center(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	left := (width - len(r)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(r)-left)
}

func volumeGauge(level float64) string {
	const steps = 10
	filled := int(math.Round(level * steps))
	return valueStyle.Sprint(strings.Repeat("▮", filled)+strings.Repeat("▯", steps-filled)) +
		fmt.Sprintf(" %d%%", int(math.Round(level*100)))
}

// CardArt adapts an ansiart renderer to an ArtFunc. resolve maps a card's
// image reference to something the renderer can open. Each failing image
// is logged once and drawn as its name.
func CardArt(r *ansiart.Renderer, resolve func(string) string, logger *log.Logger) ArtFunc {
	logged := make(map[string]bool)
	return func(c game.CardView) []string {
		if c.Image == "" {
			return nil
		}
		ref := resolve(c.Image)
		art, err := r.Render(ref)
		if err != nil {
			if !logged[ref] {
				logged[ref] = true
				logger.Printf("card %q: %v", c.Key, err)
			}
			return nil
		}
		lines := strings.Split(art, "\n")
		if len(lines) != CardHeight {
			return nil
		}
		return lines
	}
}
