package cmd

import (
	"fmt"

	"github.com/fallenvillage/tactics-core/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var simulateTurns int

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless decision/execution cycle and dump the resulting map",
	RunE: func(c *cobra.Command, args []string) error {
		opts := engine.GenerateOptions{
			Width:  viper.GetInt("width"),
			Height: viper.GetInt("height"),
			Floors: viper.GetInt("floors"),
		}
		w := engine.NewWorld(opts)
		if err := w.InitGame(uint64(viper.GetInt64("seed"))); err != nil {
			return fmt.Errorf("init game: %w", err)
		}

		controller := engine.NewPhaseController(w)
		for turn := 0; turn < simulateTurns; turn++ {
			controller.Tick(w.Timer) // jump straight to Execution for this turn
			fmt.Printf("=== turn %d ===\n", turn+1)
			printWorld(w)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simulateTurns, "turns", 1, "number of decision/execution cycles to run")
	rootCmd.AddCommand(simulateCmd)
}

var terrainGlyphs = map[engine.TileType]string{
	engine.TileEmpty:       "·",
	engine.TileConcrete:    "░",
	engine.TileMud:         "▒",
	engine.TileStairsUp:    "<",
	engine.TileStairsDown:  ">",
	engine.TileWall:        "█",
}

// printWorld renders floor 0's tiles and units as ASCII art, the style
// of the teacher's cmd/mapgen/main.go terrain dump.
func printWorld(w *engine.World) {
	fd := w.Floors[0]

	unitGlyphs := make(map[string]string, len(w.Units))
	for _, u := range w.Units {
		if u.Position.Floor != 0 {
			continue
		}
		key := fmt.Sprintf("%d,%d", u.Position.X, u.Position.Y)
		if u.Kind == engine.KindPlayer {
			unitGlyphs[key] = "@"
		} else {
			unitGlyphs[key] = "e"
		}
	}

	for y := 0; y < fd.Height; y++ {
		for x := 0; x < fd.Width; x++ {
			key := fmt.Sprintf("%d,%d", x, y)
			if g, ok := unitGlyphs[key]; ok {
				fmt.Print(g)
				continue
			}
			fmt.Print(terrainGlyphs[fd.Tiles[x][y].Type])
		}
		fmt.Println()
	}
	fmt.Printf("phase=%v timer=%.1f queued=%d units=%d\n", w.Phase, w.Timer, len(w.Queue), len(w.Units))
}
