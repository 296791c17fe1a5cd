package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Tank-Arena/internal/audio"
	"github.com/Garsondee/Tank-Arena/internal/ebitenui"
	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/settings"
)

func main() {
	var settingsPath string
	var difficulty string
	var seed int64
	var touch bool
	var mute bool
	var verbose bool

	flag.StringVar(&settingsPath, "settings", settings.DefaultFile, "path to the TOML settings file")
	flag.StringVar(&difficulty, "difficulty", "", "preselect a difficulty tier (overrides the settings file)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 picks one from the clock)")
	flag.BoolVar(&touch, "touch", false, "show on-screen touch controls")
	flag.BoolVar(&mute, "mute", false, "start with sound off")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	prefs := settings.Load(settingsPath, logger)
	if difficulty != "" {
		prefs.Difficulty = difficulty
	}

	cfg := game.DefaultConfig()
	cfg.Graphics = prefs.Graphics
	cfg.TouchMode = touch
	cfg.Logger = logger.WithPrefix("game")
	if seed != 0 {
		cfg.Seed = seed
	}
	if d, err := game.LookupDifficulty(prefs.Difficulty); err == nil {
		cfg.Difficulty = d
	} else {
		logger.Warn("keeping default difficulty", "err", err)
	}

	acfg := audio.DefaultConfig()
	acfg.MasterVolume = prefs.MasterVolume
	synth, err := audio.NewSynth(acfg, logger)
	if err != nil {
		logger.Warn("no audio device, running silent", "err", err)
		cfg.Audio = &game.NopAudio{}
	} else {
		defer synth.Close()
		cfg.Audio = synth
	}

	app := ebitenui.New(cfg, logger)
	if prefs.Muted || mute {
		app.Session().ToggleMute()
	}

	ebiten.SetWindowTitle("Tank Arena")
	ebiten.SetWindowSize(int(cfg.Arena.Width), int(cfg.Arena.Height))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebitenui.TPS)
	if err := ebiten.RunGame(app); err != nil {
		logger.Fatal("game exited", "err", err)
	}
}
