package main

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// dumpEvent is one event log line in the dump.
type dumpEvent struct {
	Tick     int     `msgpack:"tick"`
	Category string  `msgpack:"cat"`
	Key      string  `msgpack:"key"`
	Value    string  `msgpack:"val,omitempty"`
	NumVal   float64 `msgpack:"num,omitempty"`
}

// dumpRun is the machine-readable record of one run.
type dumpRun struct {
	Run        int            `msgpack:"run"`
	Seed       int64          `msgpack:"seed"`
	Difficulty string         `msgpack:"difficulty"`
	Ticks      int            `msgpack:"ticks"`
	Outcome    string         `msgpack:"outcome"`
	Score      int            `msgpack:"score"`
	Level      int            `msgpack:"level"`
	Lives      int            `msgpack:"lives"`
	LevelsDone int            `msgpack:"levels_done"`
	Kills      int            `msgpack:"kills"`
	Deaths     int            `msgpack:"deaths"`
	Sounds     map[string]int `msgpack:"sounds"`
	Events     []dumpEvent    `msgpack:"events"`
}

func toDump(rs runStats) dumpRun {
	d := dumpRun{
		Run:        rs.runIndex,
		Seed:       rs.seed,
		Difficulty: rs.difficulty,
		Ticks:      rs.ticks,
		Outcome:    rs.outcome,
		Score:      rs.score,
		Level:      rs.level,
		Lives:      rs.lives,
		LevelsDone: rs.levelsDone,
		Kills:      rs.enemiesKilled,
		Deaths:     rs.playerDeaths,
		Sounds:     make(map[string]int, len(rs.soundsPlayed)),
		Events:     make([]dumpEvent, 0, len(rs.events)),
	}
	for ev, n := range rs.soundsPlayed {
		d.Sounds[string(ev)] = n
	}
	for _, e := range rs.events {
		d.Events = append(d.Events, dumpEvent{
			Tick:     e.Tick,
			Category: e.Category,
			Key:      e.Key,
			Value:    e.Value,
			NumVal:   e.NumVal,
		})
	}
	return d
}

// writeDump encodes every run as one msgpack array.
func writeDump(w io.Writer, all []runStats) error {
	runs := make([]dumpRun, 0, len(all))
	for _, rs := range all {
		runs = append(runs, toDump(rs))
	}
	if err := msgpack.NewEncoder(w).Encode(runs); err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	return nil
}

func writeDumpFile(path string, all []runStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump: %w", err)
	}
	if err := writeDump(f, all); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
