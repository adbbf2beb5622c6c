package audio

import (
	"log"
)

// Track is one independently addressable media handle
type Track interface {
	Play() error
	Pause() error
	SetMuted(muted bool)
	SetVolume(level float64)
}

// Tracks are the five handles the game plays
type Tracks struct {
	Background Track
	Flip       Track
	Win        Track
	Lose       Track
	Match      Track
}

// Controller plays game cues with one global mute and volume setting.
// Playback failures are logged and otherwise ignored.
type Controller struct {
	tracks Tracks
	logger *log.Logger

	muted  bool
	volume float64
}

// NewController builds a controller and applies the initial settings to every track
func NewController(tracks Tracks, volume float64, muted bool, logger *log.Logger) *Controller {
	c := &Controller{tracks: tracks, logger: logger, muted: muted}
	c.SetVolume(volume)
	for _, t := range c.all() {
		t.SetMuted(muted)
	}
	return c
}

func (c *Controller) PlayFlip()  { c.play("flip", c.tracks.Flip) }
func (c *Controller) PlayMatch() { c.play("match", c.tracks.Match) }
func (c *Controller) PlayWin()   { c.play("win", c.tracks.Win) }
func (c *Controller) PlayLose()  { c.play("lose", c.tracks.Lose) }

func (c *Controller) PlayBackgroundMusic() {
	c.play("background music", c.tracks.Background)
}

func (c *Controller) PauseBackgroundMusic() {
	if err := c.tracks.Background.Pause(); err != nil {
		c.logger.Printf("failed to pause background music: %v", err)
	}
}

// ToggleMute flips the global mute and returns the new setting
func (c *Controller) ToggleMute() bool {
	c.muted = !c.muted
	for _, t := range c.all() {
		t.SetMuted(c.muted)
	}
	return c.muted
}

// SetVolume sets the global volume, clamped to [0,1]
func (c *Controller) SetVolume(level float64) {
	switch {
	case level < 0:
		level = 0
	case level > 1:
		level = 1
	}
	c.volume = level
	for _, t := range c.all() {
		t.SetVolume(level)
	}
}

func (c *Controller) Muted() bool     { return c.muted }
func (c *Controller) Volume() float64 { return c.volume }

func (c *Controller) play(name string, t Track) {
	if err := t.Play(); err != nil {
		c.logger.Printf("failed to play %s: %v", name, err)
	}
}

func (c *Controller) all() []Track {
	return []Track{c.tracks.Background, c.tracks.Flip, c.tracks.Win, c.tracks.Lose, c.tracks.Match}
}
