package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

// stallWindow is how many ticks without a kill mark a run as stalled.
const stallWindow = 1800

type runStats struct {
	runIndex   int
	seed       int64
	difficulty string
	ticks      int

	outcome string
	reason  string

	score      int
	level      int
	lives      int
	levelsDone int

	firstKillTick   int
	firstDeathTick  int
	firstBonusTick  int
	lastKillTick    int
	firstClearTick  int
	gameOverTick    int
	enemiesKilled   int
	playerDeaths    int
	blockedHits     int
	wallsDestroyed  int
	bonusesSpawned  int
	bonusesTaken    int
	bonusesExpired  int
	stateChanges    int
	omittedTiles    int
	omittedEnemies  int
	omittedBonuses  int
	soundsPlayed    map[game.SoundEvent]int
	bonusKindsTaken map[string]struct{}

	events []game.Event
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var difficulty string
	var dumpPath string
	var copyReport bool
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&difficulty, "difficulty", "normal", "difficulty tier (easy, normal, hard, expert)")
	flag.StringVar(&dumpPath, "dump", "", "write every run and its event log to this msgpack file")
	flag.BoolVar(&copyReport, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&verbose, "v", false, "print each run's event log")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "report"})

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if _, err := game.LookupDifficulty(difficulty); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	var out bytes.Buffer
	w := io.MultiWriter(os.Stdout, &out)

	fmt.Fprintf(w, "=== Headless Arena Report ===\n")
	fmt.Fprintf(w, "difficulty=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", difficulty, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runAutopilot(i+1, seed, ticks, difficulty)
		all = append(all, stats)
		printRun(w, stats, verbose)
	}
	printAggregate(w, all)

	if dumpPath != "" {
		if err := writeDumpFile(dumpPath, all); err != nil {
			logger.Error("dump failed", "path", dumpPath, "err", err)
		} else {
			logger.Info("dump written", "path", dumpPath, "runs", len(all))
		}
	}
	if copyReport {
		if err := clipboard.WriteAll(out.String()); err != nil {
			logger.Warn("clipboard copy failed", "err", err)
		} else {
			logger.Info("report copied to clipboard")
		}
	}
}

// runAutopilot plays one seeded game with the autopilot, advancing through
// levels until the player is out of lives or the tick budget runs out.
func runAutopilot(runIndex int, seed int64, ticks int, difficulty string) runStats {
	ts := game.NewTestSession(
		game.WithSeed(seed),
		game.WithDifficulty(difficulty),
	)
	pilot := game.NewAutopilot(rand.New(rand.NewSource(seed + 1))) // #nosec G404 -- simulation only

	levelsDone := 0
	ran := 0
	for ran < ticks && ts.State() != game.StateGameOver {
		if ts.State() == game.StateLevelComplete {
			levelsDone++
			if err := ts.NextLevel(); err != nil {
				break
			}
		}
		pilot.Drive(ts.Session)
		ts.Step()
		ran++
	}
	if ts.State() == game.StateLevelComplete {
		levelsDone++
	}

	rs := collect(ts.Events().Entries())
	rs.runIndex = runIndex
	rs.seed = seed
	rs.difficulty = difficulty
	rs.ticks = ran
	rs.score = ts.Score()
	rs.level = ts.Level()
	rs.lives = ts.Lives()
	rs.levelsDone = levelsDone
	rs.soundsPlayed = map[game.SoundEvent]int{}
	for _, ev := range ts.Audio.Played {
		rs.soundsPlayed[ev]++
	}
	rs.outcome, rs.reason = classifyRun(rs)
	return rs
}

// collect tallies a run's event log.
func collect(entries []game.Event) runStats {
	rs := runStats{
		firstKillTick:   firstTick(entries, game.CatCombat, "enemy_destroyed", ""),
		firstDeathTick:  firstTick(entries, game.CatCombat, "player_destroyed", ""),
		firstBonusTick:  firstTick(entries, game.CatBonus, "collected", ""),
		firstClearTick:  firstTick(entries, game.CatState, "change", "-> level-complete"),
		gameOverTick:    firstTick(entries, game.CatState, "change", "-> game-over"),
		lastKillTick:    -1,
		bonusKindsTaken: map[string]struct{}{},
		events:          entries,
	}
	for _, e := range entries {
		switch e.Category {
		case game.CatCombat:
			switch e.Key {
			case "enemy_destroyed":
				rs.enemiesKilled++
				rs.lastKillTick = e.Tick
			case "player_destroyed":
				rs.playerDeaths++
			case "player_blocked":
				rs.blockedHits++
			}
		case game.CatWall:
			if e.Key == "destroyed" {
				rs.wallsDestroyed++
			}
		case game.CatBonus:
			switch e.Key {
			case "spawned":
				rs.bonusesSpawned++
			case "collected":
				rs.bonusesTaken++
				rs.bonusKindsTaken[e.Value] = struct{}{}
			case "expired":
				rs.bonusesExpired++
			}
		case game.CatLevel:
			switch e.Key {
			case "tiles_omitted":
				rs.omittedTiles += int(e.NumVal)
			case "enemies_omitted":
				rs.omittedEnemies += int(e.NumVal)
			case "bonus_omitted":
				rs.omittedBonuses++
			}
		case game.CatState:
			if e.Key == "change" {
				rs.stateChanges++
			}
		}
	}
	return rs
}

// classifyRun labels how a run ended:
//   - "wiped": the player ran out of lives
//   - "stalled": no kill in the last stallWindow ticks of a long run
//   - "cleared": at least one level was completed
//   - "running": none of the above
func classifyRun(rs runStats) (string, string) {
	if rs.gameOverTick >= 0 {
		return "wiped", fmt.Sprintf("game_over_at=%d levels_done=%d", rs.gameOverTick, rs.levelsDone)
	}
	last := rs.lastKillTick
	if last < 0 {
		last = 0
	}
	if rs.ticks >= stallWindow && rs.ticks-last >= stallWindow {
		return "stalled", fmt.Sprintf("no_kill_for=%d kills=%d", rs.ticks-last, rs.enemiesKilled)
	}
	if rs.levelsDone > 0 {
		return "cleared", fmt.Sprintf("levels_done=%d", rs.levelsDone)
	}
	return "running", fmt.Sprintf("kills=%d", rs.enemiesKilled)
}

func firstTick(entries []game.Event, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(w io.Writer, rs runStats, verbose bool) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "outcome=%s (%s)\n", rs.outcome, rs.reason)
	fmt.Fprintf(w, "result: ticks=%d score=%d level=%d lives=%d levels_done=%d\n",
		rs.ticks, rs.score, rs.level, rs.lives, rs.levelsDone)
	fmt.Fprintf(w, "phase_markers: first_kill=%d first_death=%d first_bonus=%d first_clear=%d game_over=%d\n",
		rs.firstKillTick, rs.firstDeathTick, rs.firstBonusTick, rs.firstClearTick, rs.gameOverTick)
	fmt.Fprintf(w, "combat: kills=%d deaths=%d blocked_hits=%d walls_destroyed=%d\n",
		rs.enemiesKilled, rs.playerDeaths, rs.blockedHits, rs.wallsDestroyed)
	fmt.Fprintf(w, "bonus: spawned=%d collected=%d expired=%d kinds=%s\n",
		rs.bonusesSpawned, rs.bonusesTaken, rs.bonusesExpired, joinSet(rs.bonusKindsTaken))
	fmt.Fprintf(w, "placement_omitted: tiles=%d enemies=%d bonuses=%d\n",
		rs.omittedTiles, rs.omittedEnemies, rs.omittedBonuses)
	fmt.Fprintf(w, "sounds: %s\n", formatSounds(rs.soundsPlayed))
	if verbose {
		for _, e := range rs.events {
			fmt.Fprintln(w, "  "+e.String())
		}
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	totalKills := 0
	totalDeaths := 0
	totalWalls := 0
	totalBonus := 0
	totalScore := 0
	totalLevels := 0

	killTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))
	clearTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}
	kinds := map[string]struct{}{}

	for _, rs := range all {
		totalKills += rs.enemiesKilled
		totalDeaths += rs.playerDeaths
		totalWalls += rs.wallsDestroyed
		totalBonus += rs.bonusesTaken
		totalScore += rs.score
		totalLevels += rs.levelsDone
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		if rs.firstClearTick >= 0 {
			clearTicks = append(clearTicks, rs.firstClearTick)
		}
		outcomes[rs.outcome]++
		for k := range rs.bonusKindsTaken {
			kinds[k] = struct{}{}
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d\n", len(all))
	fmt.Fprintf(w, "avg_per_run: score=%.1f levels_done=%.1f kills=%.1f deaths=%.1f walls=%.1f bonuses=%.1f\n",
		avg(totalScore, len(all)), avg(totalLevels, len(all)), avg(totalKills, len(all)),
		avg(totalDeaths, len(all)), avg(totalWalls, len(all)), avg(totalBonus, len(all)))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_kill=%s first_death=%s first_clear=%s\n",
		avgTickString(killTicks), avgTickString(deathTicks), avgTickString(clearTicks))
	fmt.Fprintf(w, "outcomes: %s (most common: %s)\n", formatCounts(outcomes), topCount(outcomes))
	fmt.Fprintf(w, "bonus_kinds_seen=%d [%s]\n", len(kinds), joinSet(kinds))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// topCount returns the most frequent key with its count. Ties go to the
// alphabetically first key so reports are stable.
func topCount(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := ""
	bestN := 0
	for _, k := range keys {
		if counts[k] > bestN {
			best = k
			bestN = counts[k]
		}
	}
	return fmt.Sprintf("%s(%d)", best, bestN)
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

func formatSounds(played map[game.SoundEvent]int) string {
	counts := make(map[string]int, len(played))
	for ev, n := range played {
		counts[string(ev)] = n
	}
	return formatCounts(counts)
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
