package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Tank-Arena/internal/audio"
	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/settings"
	"github.com/Garsondee/Tank-Arena/internal/termui"
)

func main() {
	var settingsPath string
	var difficulty string
	var logPath string
	var seed int64
	var demo bool
	var mute bool

	flag.StringVar(&settingsPath, "settings", settings.DefaultFile, "path to the TOML settings file")
	flag.StringVar(&difficulty, "difficulty", "", "preselect a difficulty tier (overrides the settings file)")
	flag.StringVar(&logPath, "log", "", "append logs to this file (the screen owns the terminal)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 picks one from the clock)")
	flag.BoolVar(&demo, "demo", false, "let the autopilot play")
	flag.BoolVar(&mute, "mute", false, "start with sound off")
	flag.Parse()

	if err := run(settingsPath, difficulty, logPath, seed, demo, mute); err != nil {
		fmt.Fprintf(os.Stderr, "tanks-term: %v\n", err)
		os.Exit(1)
	}
}

func run(settingsPath, difficulty, logPath string, seed int64, demo, mute bool) error {
	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true, Level: log.DebugLevel})

	prefs := settings.Load(settingsPath, logger)
	if difficulty != "" {
		prefs.Difficulty = difficulty
	}

	cfg := game.DefaultConfig()
	cfg.Graphics = prefs.Graphics
	cfg.Logger = logger.WithPrefix("game")
	if seed != 0 {
		cfg.Seed = seed
	}
	d, err := game.LookupDifficulty(prefs.Difficulty)
	if err != nil {
		return err
	}
	cfg.Difficulty = d

	acfg := audio.DefaultConfig()
	acfg.MasterVolume = prefs.MasterVolume
	if synth, err := audio.NewSynth(acfg, logger); err != nil {
		logger.Warn("no audio device, running silent", "err", err)
		cfg.Audio = &game.NopAudio{}
	} else {
		defer synth.Close()
		cfg.Audio = synth
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	term := termui.New(screen, cfg, termui.Options{Demo: demo}, logger)
	if prefs.Muted || mute {
		term.Session().ToggleMute()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := term.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("bye", "score", term.Session().Score(), "level", term.Session().Level())
	return nil
}
