package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/concentration/internal/ansiart"
	"github.com/arcanaland/concentration/internal/card"
	"github.com/arcanaland/concentration/internal/config"
	"github.com/arcanaland/concentration/internal/deck"
)

const (
	showArtWidth  = 32
	showArtHeight = 16
)

var showCmd = &cobra.Command{
	Use:   "show [card_name]",
	Short: "Display a card of a deck with ANSI art",
	Long: `Show displays one card of a card set with its image rendered as ANSI
terminal art, the way it appears face up on the board.

You can specify a deck using the --deck flag, which will look for the deck
in your deck library (XDG_DATA_HOME/concentration/decks), as a path or as a
URL. If no deck is specified, the default deck from your config is used.

Examples:
  concentration show moon
  concentration show --deck animals fox
  concentration show --deck ./my-deck/cards.toml lantern`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cardName := args[0]

		deckName, _ := cmd.Flags().GetString("deck")
		if !cmd.Flags().Changed("deck") {
			defaultDeck, err := config.GetDefaultDeck()
			if err != nil {
				return fmt.Errorf("error getting default deck: %w", err)
			}
			deckName = defaultDeck
		}

		deckPath, err := config.GetDeckPath(deckName)
		if err != nil {
			return err
		}

		set, err := deck.LoadSet(context.Background(), deckPath)
		if err != nil {
			return fmt.Errorf("error loading deck: %w", err)
		}

		c, err := set.Card(cardName)
		if err != nil {
			return fmt.Errorf("error getting card: %w", err)
		}

		var art string
		if c.Image != "" {
			r := ansiart.NewRenderer(showArtWidth, showArtHeight, filepath.Join(config.GetCacheDir(), "ansi"))
			r.Logger = log.New(os.Stderr, "warning: ", 0)
			art, err = r.Render(set.ResolveImage(c.Image))
			if err != nil {
				return fmt.Errorf("error rendering card image: %w", err)
			}
		}

		// Get terminal width
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || width <= 0 {
			width = 80
		}

		displayCard(os.Stdout, c, set, art, width)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("deck", "d", "", "Specify a deck from your deck library, a path or a URL")
}

// displayCard prints the ANSI art with the card information to its right
func displayCard(w io.Writer, c card.Definition, set *deck.Set, art string, width int) {
	var artLines []string
	maxArtWidth := 0
	if art != "" {
		artLines = strings.Split(art, "\n")
		for _, line := range artLines {
			maxArtWidth = max(maxArtWidth, ansiart.VisibleWidth(line))
		}
	}

	var infoLines []string
	infoLines = append(infoLines, colorize.CyanString("Card:  ")+colorize.HiWhiteString("%s", c.Name))
	infoLines = append(infoLines, colorize.CyanString("Deck:  ")+colorize.HiWhiteString("%s", set.Name))
	infoLines = append(infoLines, colorize.CyanString("Pairs: ")+colorize.HiWhiteString("%d", len(set.Cards)))
	if c.Image != "" {
		infoLines = append(infoLines, colorize.CyanString("Image: ")+colorize.HiWhiteString("%s", c.Image))
	} else {
		infoLines = append(infoLines, colorize.CyanString("Image: ")+colorize.HiBlackString("none, shown by name"))
	}

	// Art on the left, info on the right; stack them when the terminal is too narrow
	spacing := 4
	infoStartCol := maxArtWidth + spacing
	if art != "" && width-infoStartCol-2 < 20 {
		fmt.Fprintln(w)
		for _, line := range artLines {
			fmt.Fprintf(w, "  %s\n", line)
		}
		artLines = nil
		infoStartCol = 0
	}

	fmt.Fprintln(w)

	maxLines := max(len(artLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		fmt.Fprint(w, "  ")
		if i < len(artLines) {
			fmt.Fprint(w, artLines[i])
			fmt.Fprint(w, strings.Repeat(" ", infoStartCol-ansiart.VisibleWidth(artLines[i])))
		} else {
			fmt.Fprint(w, strings.Repeat(" ", infoStartCol))
		}

		if i < len(infoLines) {
			fmt.Fprint(w, infoLines[i])
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
