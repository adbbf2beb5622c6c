package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Files maps each game track to an audio file
type Files struct {
	Background string
	Flip       string
	Win        string
	Lose       string
	Match      string
}

// NewTracks builds the five tracks. Cues without a player command or file
// fall back to the terminal bell on w; the background track stays silent.
func NewTracks(player string, files Files, w io.Writer, logger *log.Logger) Tracks {
	cue := func(file string) Track {
		if player == "" || file == "" {
			return &BellTrack{w: w}
		}
		return NewCommandTrack(player, file, false, logger)
	}

	var bg Track = &SilentTrack{}
	if player != "" && files.Background != "" {
		bg = NewCommandTrack(player, files.Background, true, logger)
	}

	return Tracks{
		Background: bg,
		Flip:       cue(files.Flip),
		Win:        cue(files.Win),
		Lose:       cue(files.Lose),
		Match:      cue(files.Match),
	}
}

// CommandTrack plays a file through an external player.
//
// The player is a command template; {file} is replaced by the audio file,
// {volume} by the level as a fraction and {percent} by the level out of 100.
// A looping track restarts the player until paused.
type CommandTrack struct {
	template []string
	file     string
	loop     bool
	logger   *log.Logger

	run      func(ctx context.Context, args []string) error
	lookPath func(string) (string, error)

	mu      sync.Mutex
	muted   bool
	volume  float64
	playing bool
	cancel  context.CancelFunc
}

// NewCommandTrack creates a track for file played by the player template
func NewCommandTrack(player, file string, loop bool, logger *log.Logger) *CommandTrack {
	return &CommandTrack{
		template: strings.Fields(player),
		file:     file,
		loop:     loop,
		logger:   logger,
		volume:   1,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

func runCommand(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	return cmd.Run()
}

// Play starts the player. A muted track reports success without playing.
func (t *CommandTrack) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.playing = true
	if t.muted {
		return nil
	}
	return t.startLocked()
}

// Pause stops the player if it is running
func (t *CommandTrack) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.playing = false
	t.stopLocked()
	return nil
}

// SetMuted silences the track. Unmuting resumes a looping track that is still playing.
func (t *CommandTrack) SetMuted(muted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.muted == muted {
		return
	}
	t.muted = muted

	if muted {
		t.stopLocked()
		return
	}
	if t.loop && t.playing {
		if err := t.startLocked(); err != nil {
			t.logger.Printf("failed to resume %s: %v", t.file, err)
		}
	}
}

// SetVolume stores the level used the next time the player starts
func (t *CommandTrack) SetVolume(level float64) {
	t.mu.Lock()
	t.volume = level
	t.mu.Unlock()
}

func (t *CommandTrack) startLocked() error {
	if len(t.template) == 0 {
		return fmt.Errorf("no player command")
	}
	if _, err := os.Stat(t.file); err != nil {
		return fmt.Errorf("audio file unavailable: %w", err)
	}
	if _, err := t.lookPath(t.template[0]); err != nil {
		return fmt.Errorf("player unavailable: %w", err)
	}

	t.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	go t.playLoop(ctx)
	return nil
}

func (t *CommandTrack) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *CommandTrack) playLoop(ctx context.Context) {
	for {
		t.mu.Lock()
		args := t.argsLocked()
		t.mu.Unlock()

		err := t.run(ctx, args)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			t.logger.Printf("player exited for %s: %v", t.file, err)
			return
		}
		if !t.loop {
			return
		}
	}
}

func (t *CommandTrack) argsLocked() []string {
	r := strings.NewReplacer(
		"{file}", t.file,
		"{volume}", strconv.FormatFloat(t.volume, 'f', 2, 64),
		"{percent}", strconv.Itoa(int(t.volume*100+0.5)),
	)

	args := make([]string, len(t.template))
	hasFile := false
	for i, a := range t.template {
		if strings.Contains(a, "{file}") {
			hasFile = true
		}
		args[i] = r.Replace(a)
	}
	if !hasFile {
		args = append(args, t.file)
	}
	return args
}

// BellTrack rings the terminal bell as a cue
type BellTrack struct {
	w      io.Writer
	mu     sync.Mutex
	muted  bool
	volume float64
}

func (t *BellTrack) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.muted || t.volume == 0 {
		return nil
	}
	_, err := io.WriteString(t.w, "\a")
	return err
}

func (t *BellTrack) Pause() error { return nil }

func (t *BellTrack) SetMuted(muted bool) {
	t.mu.Lock()
	t.muted = muted
	t.mu.Unlock()
}

func (t *BellTrack) SetVolume(level float64) {
	t.mu.Lock()
	t.volume = level
	t.mu.Unlock()
}

// SilentTrack accepts every call and plays nothing
type SilentTrack struct{}

func (SilentTrack) Play() error       { return nil }
func (SilentTrack) Pause() error      { return nil }
func (SilentTrack) SetMuted(bool)     {}
func (SilentTrack) SetVolume(float64) {}
