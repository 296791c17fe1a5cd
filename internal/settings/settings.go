// Package settings reads the player's preferences from a TOML file. The file
// is optional and never written back.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

// ErrUnknownPreset is returned by Preset for names other than low, medium and high.
var ErrUnknownPreset = errors.New("unknown graphics preset")

// DefaultFile is the settings path used when none is given.
const DefaultFile = "tank-arena.toml"

// Settings is everything a frontend needs before building a session.
type Settings struct {
	Graphics     game.GraphicsSettings
	Difficulty   string
	Muted        bool
	MasterVolume float64
}

// Default returns the medium preset on normal difficulty with sound on.
func Default() Settings {
	return Settings{
		Graphics:     game.DefaultGraphics(),
		Difficulty:   "normal",
		MasterVolume: 0.7,
	}
}

// fileFormat mirrors the on-disk keys. Only keys present in the file
// override the preset they are layered on.
//
//	preset            = "high"
//	difficulty        = "hard"
//	muted             = false
//	master_volume     = 0.5
//	explosions        = true
//	particle_density  = "low"
//	screen_shake      = false
//	frame_rate_target = 30
type fileFormat struct {
	Preset          string  `toml:"preset"`
	Difficulty      string  `toml:"difficulty"`
	Muted           bool    `toml:"muted"`
	MasterVolume    float64 `toml:"master_volume"`
	Explosions      bool    `toml:"explosions"`
	ParticleDensity string  `toml:"particle_density"`
	ScreenShake     bool    `toml:"screen_shake"`
	FrameRateTarget int     `toml:"frame_rate_target"`
}

// Preset returns the graphics bundle for low, medium or high.
func Preset(name string) (game.GraphicsSettings, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		return game.GraphicsSettings{
			Explosions:      true,
			ParticleDensity: game.DensityLow,
			ScreenShake:     false,
			FrameRateTarget: 30,
		}, nil
	case "medium":
		return game.DefaultGraphics(), nil
	case "high":
		return game.GraphicsSettings{
			Explosions:      true,
			ParticleDensity: game.DensityHigh,
			ScreenShake:     true,
			FrameRateTarget: 0,
		}, nil
	}
	return game.GraphicsSettings{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
}

// Load reads path. A missing file yields the defaults silently; a file that
// cannot be parsed yields the defaults and a warning. Individual bad values
// are warned about and left at their preset value.
func Load(path string, logger *log.Logger) Settings {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("settings")

	s, err := parse(path, logger)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("using defaults", "path", path, "err", err)
		}
		return Default()
	}
	logger.Debug("loaded", "path", path,
		"difficulty", s.Difficulty,
		"density", s.Graphics.ParticleDensity,
		"fps", s.Graphics.FrameRateTarget)
	return s
}

func parse(path string, logger *log.Logger) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	var f fileFormat
	md, err := toml.Decode(string(raw), &f)
	if err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, k := range md.Undecoded() {
		logger.Warn("ignoring unknown key", "key", k.String())
	}

	s := Default()
	if md.IsDefined("preset") {
		g, err := Preset(f.Preset)
		if err != nil {
			logger.Warn("ignoring preset", "err", err)
		} else {
			s.Graphics = g
		}
	}
	if md.IsDefined("difficulty") {
		if _, err := game.LookupDifficulty(f.Difficulty); err != nil {
			logger.Warn("ignoring difficulty", "err", err)
		} else {
			s.Difficulty = f.Difficulty
		}
	}
	if md.IsDefined("muted") {
		s.Muted = f.Muted
	}
	if md.IsDefined("master_volume") {
		if f.MasterVolume < 0 || f.MasterVolume > 1 {
			logger.Warn("ignoring master_volume outside 0..1", "value", f.MasterVolume)
		} else {
			s.MasterVolume = f.MasterVolume
		}
	}
	if md.IsDefined("explosions") {
		s.Graphics.Explosions = f.Explosions
	}
	if md.IsDefined("particle_density") {
		switch d := game.ParticleDensity(f.ParticleDensity); d {
		case game.DensityLow, game.DensityMedium, game.DensityHigh:
			s.Graphics.ParticleDensity = d
		default:
			logger.Warn("ignoring particle_density", "value", f.ParticleDensity)
		}
	}
	if md.IsDefined("screen_shake") {
		s.Graphics.ScreenShake = f.ScreenShake
	}
	if md.IsDefined("frame_rate_target") {
		switch f.FrameRateTarget {
		case 0, 30, 60:
			s.Graphics.FrameRateTarget = f.FrameRateTarget
		default:
			logger.Warn("ignoring frame_rate_target (want 0, 30 or 60)", "value", f.FrameRateTarget)
		}
	}
	return s, nil
}
