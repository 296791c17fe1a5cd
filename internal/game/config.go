package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// --- Arena and gameplay constants ---

const (
	arenaWidth  = 800.0
	arenaHeight = 600.0

	tankSize       = 32.0
	bulletSize     = 6.0
	bonusSize      = 20.0
	boundaryMargin = 20.0 // tanks may not enter this band along the arena edge

	bulletSpeed         = 7.0
	shootCooldownTicks  = 30
	cannonRecoil        = 5.0
	cannonRecovery      = 0.5 // recoil removed per tick
	invulnerableTicks   = 120
	enemyDecisionMin    = 30 // ticks
	enemyDecisionMax    = 90
	enemyBlockedRethink = 20   // ticks until the next decision after a blocked move
	enemyChaseChance    = 0.80 // probability a decision heads for the player

	enemyScore      = 100
	levelClearBonus = 500

	bonusLifeTicks      = 600
	bonusBlinkTicks     = 60 // bonuses blink once fewer ticks than this remain
	bonusSpawnInterval  = 10 * time.Second
	speedBoostAmount    = 1.0
	speedBoostDuration  = 10 * time.Second
	moveSoundInterval   = 200 * time.Millisecond
	autoFireInterval    = 300 * time.Millisecond
	noticeLifeTicks     = 120
	maxNotices          = 5
	maxExplosions       = 20
	maxBullets          = 50
	explosionSizeWall   = 0.7
	explosionSizeEnemy  = 1.2
	explosionSizePlayer = 1.5
	maxScreenShake      = 10.0
)

// Sentinel errors.
var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Difficulty fixes the tuning of a whole session.
type Difficulty struct {
	Key            string // lookup key: easy, normal, hard, expert
	Name           string // display label
	EnemySpeed     float64
	EnemyShootProb float64 // per enemy, per tick
	InitialEnemies int
	EnemyIncrement int // extra enemies per level after the first
	BonusChance    float64
	PlayerSpeed    float64
	PlayerLives    int
}

// EnemiesForLevel returns the enemy quota for a 1-based level number.
func (d Difficulty) EnemiesForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return d.InitialEnemies + (level-1)*d.EnemyIncrement
}

var difficulties = map[string]Difficulty{
	"easy": {
		Key: "easy", Name: "EASY",
		EnemySpeed: 1.0, EnemyShootProb: 0.01,
		InitialEnemies: 3, EnemyIncrement: 1,
		BonusChance: 0.4, PlayerSpeed: 3.5, PlayerLives: 4,
	},
	"normal": {
		Key: "normal", Name: "NORMAL",
		EnemySpeed: 1.5, EnemyShootProb: 0.02,
		InitialEnemies: 5, EnemyIncrement: 2,
		BonusChance: 0.3, PlayerSpeed: 3.0, PlayerLives: 3,
	},
	"hard": {
		Key: "hard", Name: "HARD",
		EnemySpeed: 2.0, EnemyShootProb: 0.03,
		InitialEnemies: 7, EnemyIncrement: 3,
		BonusChance: 0.2, PlayerSpeed: 2.5, PlayerLives: 2,
	},
	"expert": {
		Key: "expert", Name: "EXPERT",
		EnemySpeed: 2.5, EnemyShootProb: 0.04,
		InitialEnemies: 10, EnemyIncrement: 4,
		BonusChance: 0.1, PlayerSpeed: 2.0, PlayerLives: 1,
	},
}

// DifficultyOrder lists the tiers from easiest to hardest.
var DifficultyOrder = []string{"easy", "normal", "hard", "expert"}

// LookupDifficulty resolves a tier by key.
func LookupDifficulty(key string) (Difficulty, error) {
	d, ok := difficulties[key]
	if !ok {
		known := make([]string, 0, len(difficulties))
		for k := range difficulties {
			known = append(known, k)
		}
		sort.Strings(known)
		return Difficulty{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownDifficulty, key, known)
	}
	return d, nil
}

// MustDifficulty is LookupDifficulty for compile-time constant keys.
func MustDifficulty(key string) Difficulty {
	d, err := LookupDifficulty(key)
	if err != nil {
		panic(err)
	}
	return d
}

// ParticleDensity caps how many particles an explosion may emit.
type ParticleDensity string

const (
	DensityLow    ParticleDensity = "low"
	DensityMedium ParticleDensity = "medium"
	DensityHigh   ParticleDensity = "high"
)

// ParticleLimit returns the per-explosion particle cap. Unknown values map to medium.
func (p ParticleDensity) ParticleLimit() int {
	switch p {
	case DensityLow:
		return 8
	case DensityHigh:
		return 40
	default:
		return 20
	}
}

// GraphicsSettings are the cosmetic/performance preferences read at startup.
type GraphicsSettings struct {
	Explosions      bool
	ParticleDensity ParticleDensity
	ScreenShake     bool
	FrameRateTarget int // 0 = uncapped
}

// DefaultGraphics matches the medium preset.
func DefaultGraphics() GraphicsSettings {
	return GraphicsSettings{
		Explosions:      true,
		ParticleDensity: DensityMedium,
		ScreenShake:     true,
		FrameRateTarget: 60,
	}
}

// uncappedFPS stands in for "no cap" so the throttle still has a finite interval.
const uncappedFPS = 144

// touchFPS is the frame target used on touch devices.
const touchFPS = 30

// Config wires a Session to its collaborators. Zero-valued sinks, clock and
// logger are replaced with defaults by NewSession.
type Config struct {
	Arena      Arena
	Difficulty Difficulty
	Graphics   GraphicsSettings
	TouchMode  bool
	Seed       int64

	Clock  Clock
	Audio  AudioSink
	HUD    HUDSink
	Logger *log.Logger

	// RNG overrides the seeded simulation source. Tests use it to script branches.
	RNG RNG
}

// DefaultConfig returns a normal-difficulty config seeded from the clock.
func DefaultConfig() Config {
	return Config{
		Arena:      Arena{Width: arenaWidth, Height: arenaHeight},
		Difficulty: MustDifficulty("normal"),
		Graphics:   DefaultGraphics(),
		Seed:       time.Now().UnixNano(),
	}
}

// frameTarget resolves the effective frames-per-second target.
func (c Config) frameTarget() int {
	if c.TouchMode {
		return touchFPS
	}
	if c.Graphics.FrameRateTarget <= 0 {
		return uncappedFPS
	}
	return c.Graphics.FrameRateTarget
}

func (c Config) withDefaults() Config {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		c.Arena = Arena{Width: arenaWidth, Height: arenaHeight}
	}
	if c.Difficulty.Key == "" {
		c.Difficulty = MustDifficulty("normal")
	}
	if c.Graphics.ParticleDensity == "" {
		c.Graphics.ParticleDensity = DensityMedium
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Audio == nil {
		c.Audio = &NopAudio{}
	}
	if c.HUD == nil {
		c.HUD = NopHUD{}
	}
	if c.Logger == nil {
		c.Logger = log.Default().WithPrefix("session")
	}
	if c.RNG == nil {
		c.RNG = rand.New(rand.NewSource(c.Seed)) // #nosec G404 -- game only
	}
	return c
}
