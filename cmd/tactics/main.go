// Command tactics hosts the Fallen Village tactics-core simulation
// engine: a websocket dashboard server (serve) and a headless
// turn-by-turn runner (simulate), both built on top of the engine
// package's InitGame/PhaseController/Processor.
package main

import (
	"fmt"
	"os"

	"github.com/fallenvillage/tactics-core/cmd/tactics/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
