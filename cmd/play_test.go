package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/concentration/internal/card"
	"github.com/arcanaland/concentration/internal/deck"
)

func isolateConfig(t *testing.T, file string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))

	if file != "" {
		path := filepath.Join(root, "config", "concentration", "config.toml")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(file), 0644))
	}
}

func TestResolvePlayOptions(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		env       map[string]string
		args      []string
		wantDeck  string
		wantMoves int
		wantTime  int
		wantDelay time.Duration
		wantSeed  int64
	}{
		{
			name:      "defaults",
			wantMoves: 25,
			wantTime:  45,
			wantDelay: time.Second,
		},
		{
			name:      "config file",
			file:      "default_deck = \"animals\"\ntarget_moves = 30\ntime_limit = 60\nflip_delay_ms = 500\n",
			wantDeck:  "animals",
			wantMoves: 30,
			wantTime:  60,
			wantDelay: 500 * time.Millisecond,
		},
		{
			name:      "env over file",
			file:      "default_deck = \"animals\"\ntarget_moves = 30\n",
			env:       map[string]string{"CONCENTRATION_DECK": "fruit", "CONCENTRATION_TARGET_MOVES": "20"},
			wantDeck:  "fruit",
			wantMoves: 20,
			wantTime:  45,
			wantDelay: time.Second,
		},
		{
			name:      "flags over env and file",
			file:      "default_deck = \"animals\"\ntarget_moves = 30\ntime_limit = 60\n",
			env:       map[string]string{"CONCENTRATION_TARGET_MOVES": "20"},
			args:      []string{"--deck", "./mine.toml", "--target-moves", "12", "--time-limit", "90", "--seed", "7"},
			wantDeck:  "./mine.toml",
			wantMoves: 12,
			wantTime:  90,
			wantDelay: time.Second,
			wantSeed:  7,
		},
		{
			name:      "unset flags keep config",
			file:      "target_moves = 30\ntime_limit = 60\n",
			args:      []string{"--seed", "3"},
			wantMoves: 30,
			wantTime:  60,
			wantDelay: time.Second,
			wantSeed:  3,
		},
		{
			name:      "empty deck flag selects builtin",
			file:      "default_deck = \"animals\"\n",
			args:      []string{"--deck", ""},
			wantMoves: 25,
			wantTime:  45,
			wantDelay: time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t, tt.file)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			flags := pflag.NewFlagSet("play", pflag.ContinueOnError)
			addPlayFlags(flags)
			require.NoError(t, flags.Parse(tt.args))

			opts, err := resolvePlayOptions(flags)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDeck, opts.Deck)
			assert.Equal(t, tt.wantSeed, opts.Seed)
			assert.Equal(t, tt.wantMoves, opts.Rules.TargetMoves)
			assert.Equal(t, tt.wantTime, opts.Rules.TimeLimit)
			assert.Equal(t, tt.wantDelay, opts.Rules.FlipDelay)
			assert.Equal(t, time.Second, opts.Rules.TickInterval)
		})
	}
}

func TestResolvePlayOptionsRejectsBudgets(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		args    []string
		wantErr string
	}{
		{name: "zero moves flag", args: []string{"--target-moves", "0"}, wantErr: "target moves must be positive, got 0"},
		{name: "negative time flag", args: []string{"--time-limit=-5"}, wantErr: "time limit must be positive, got -5"},
		{name: "zero moves in file", file: "target_moves = 0\n", wantErr: "target moves must be positive"},
		{name: "zero time in file", file: "time_limit = 0\n", wantErr: "time limit must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t, tt.file)

			flags := pflag.NewFlagSet("play", pflag.ContinueOnError)
			addPlayFlags(flags)
			require.NoError(t, flags.Parse(tt.args))

			_, err := resolvePlayOptions(flags)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImageRefs(t *testing.T) {
	set := &deck.Set{
		Base: "https://cards.example.com/night",
		Cards: []card.Definition{
			{Name: "moon", Image: "moon.png"},
			{Name: "sun"},
			{Name: "star", Image: "https://cdn.example.com/star.png"},
			{Name: "moon2", Image: "moon.png"},
		},
	}

	assert.Equal(t, []string{
		"https://cards.example.com/night/moon.png",
		"https://cdn.example.com/star.png",
	}, imageRefs(set))
}
