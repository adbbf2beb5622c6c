package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/arcanaland/concentration/internal/ansiart"
	"github.com/arcanaland/concentration/internal/audio"
	"github.com/arcanaland/concentration/internal/config"
	"github.com/arcanaland/concentration/internal/deck"
	"github.com/arcanaland/concentration/internal/game"
	"github.com/arcanaland/concentration/internal/logging"
	"github.com/arcanaland/concentration/internal/random"
	"github.com/arcanaland/concentration/internal/tui"
)

const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
	resetView  = "\x1b[0m\x1b[H\x1b[2J"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round of concentration",
	Long: `Play deals the card set twice, shuffles it and waits for Start.

The card set comes from --deck (a name in your deck library, a path to a
cards.json or cards.toml file or deck directory, or an http(s) URL). Without
--deck the default deck from your config is used, and without a default the
builtin set.

Keys:
  arrows / hjkl   move
  space / enter   flip the highlighted card
  s               start the round
  r               restart with a fresh shuffle
  m               mute or unmute
  + / -           volume
  q / Ctrl-C      quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolvePlayOptions(cmd.Flags())
		if err != nil {
			return err
		}
		cfg := opts.Config

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		deckPath, err := config.GetDeckPath(opts.Deck)
		if err != nil {
			return err
		}

		set, err := deck.LoadSet(ctx, deckPath)
		if err != nil {
			return fmt.Errorf("error loading deck: %w", err)
		}

		rng, seed, err := random.NewRand(opts.Seed)
		if err != nil {
			return err
		}

		logger, closer, err := logging.Open(config.GetLogFilePath())
		if err != nil {
			return err
		}
		defer closer.Close()
		logger.Printf("playing %s (%d cards), seed %d", set.Name, len(set.Cards), seed)

		tracks := audio.NewTracks(cfg.Audio.Player, audio.Files{
			Background: cfg.Audio.Background,
			Flip:       cfg.Audio.Flip,
			Win:        cfg.Audio.Win,
			Lose:       cfg.Audio.Lose,
			Match:      cfg.Audio.Match,
		}, os.Stdout, logger)
		controller := audio.NewController(tracks, cfg.Volume, cfg.Muted, logger)
		defer controller.PauseBackgroundMusic()

		events := make(chan game.Event, 16)
		sched := tui.NewClockScheduler(clock.New(), events, ctx.Done())

		machine := game.NewMachine(set.Cards, opts.Rules, rng, controller, sched)

		session := tui.NewSession(machine, controller, events, logger)
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			session.Width = w
		}
		renderer := ansiart.NewRenderer(tui.CardWidth, tui.CardHeight, filepath.Join(config.GetCacheDir(), "ansi"))
		renderer.Logger = logger
		session.Art = tui.CardArt(renderer, set.ResolveImage, logger)

		// Fetch all art up front; the game loop must never wait on the network
		fmt.Println("Loading card art...")
		renderer.Preload(ctx, imageRefs(set))
		if ctx.Err() != nil {
			return nil
		}

		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			state, err := term.MakeRaw(fd)
			if err != nil {
				return fmt.Errorf("error entering raw mode: %w", err)
			}
			defer term.Restore(fd, state)
		}

		fmt.Print(hideCursor)
		defer fmt.Print(resetView + showCursor)

		if err := session.Run(ctx, os.Stdin, os.Stdout); err != nil {
			logger.Printf("session ended: %v", err)
			return err
		}

		logger.Printf("session ended: %s", machine.State().Phase)
		return nil
	},
}

// playOptions is the configuration of one play session after flags are applied
type playOptions struct {
	Config *config.Config
	Deck   string
	Seed   int64
	Rules  game.Rules
}

// resolvePlayOptions loads the config file and environment, then applies the
// flags that were set explicitly on top of them
func resolvePlayOptions(flags *pflag.FlagSet) (*playOptions, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	opts := &playOptions{Config: cfg, Deck: cfg.DefaultDeck}
	if flags.Changed("deck") {
		opts.Deck, _ = flags.GetString("deck")
	}
	if flags.Changed("target-moves") {
		cfg.TargetMoves, _ = flags.GetInt("target-moves")
	}
	if flags.Changed("time-limit") {
		cfg.TimeLimit, _ = flags.GetInt("time-limit")
	}
	opts.Seed, _ = flags.GetInt64("seed")

	if cfg.TargetMoves <= 0 {
		return nil, fmt.Errorf("target moves must be positive, got %d", cfg.TargetMoves)
	}
	if cfg.TimeLimit <= 0 {
		return nil, fmt.Errorf("time limit must be positive, got %d", cfg.TimeLimit)
	}

	opts.Rules = game.Rules{
		TargetMoves:  cfg.TargetMoves,
		TimeLimit:    cfg.TimeLimit,
		FlipDelay:    cfg.FlipDelay(),
		TickInterval: time.Second,
	}
	return opts, nil
}

// imageRefs lists the distinct resolved image references of a set
func imageRefs(set *deck.Set) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, c := range set.Cards {
		if c.Image == "" {
			continue
		}
		ref := set.ResolveImage(c.Image)
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

func addPlayFlags(flags *pflag.FlagSet) {
	flags.StringP("deck", "d", "", "Specify a deck from your deck library, a path or a URL")
	flags.Int64("seed", 0, "Shuffle seed; 0 picks a random one")
	flags.Int("target-moves", 25, "Moves allowed per round")
	flags.Int("time-limit", 45, "Seconds allowed per round")
}

func init() {
	RootCmd.AddCommand(playCmd)
	addPlayFlags(playCmd.Flags())
}
