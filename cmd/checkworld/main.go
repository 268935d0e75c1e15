// Package main validates a world file offline and optionally replays a command
// script against it.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cory-johannsen/wanderer/internal/game/command"
	"github.com/cory-johannsen/wanderer/internal/game/engine"
	"github.com/cory-johannsen/wanderer/internal/game/session"
	"github.com/cory-johannsen/wanderer/internal/game/world"
)

func main() {
	worldPath := flag.String("world", "content/worlds/caves.yaml", "path to the world file")
	scriptPath := flag.String("script", "", "optional file of commands to replay, one per line")
	capacity := flag.Int("capacity", 0, "inventory capacity for the replay; zero means unlimited")
	strict := flag.Bool("strict", false, "exit non-zero if any replayed command is refused")
	flag.Parse()

	start := time.Now()
	w, err := world.LoadWorldFromFile(*worldPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := writeReport(os.Stdout, w); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("world ok in %s\n", time.Since(start).Round(time.Millisecond))

	if *scriptPath == "" {
		return
	}
	f, err := os.Open(*scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	lines, err := command.ReadScript(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(w, session.New(w.Start(), *capacity))
	disp := command.NewDispatcher(command.DefaultRegistry(), eng, nil)
	refused := writeReplay(os.Stdout, command.Replay(disp, lines))
	if *strict && refused > 0 {
		os.Exit(2)
	}
}
