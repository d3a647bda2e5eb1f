package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	seed    int64
	width   int
	height  int
	floors  int
)

// rootCmd is the base command when tactics is called without a
// subcommand, following the flag/viper-binding pattern
// turnforge-weewar's cmd/cli/cmd/root.go uses.
var rootCmd = &cobra.Command{
	Use:          "tactics",
	Short:        "Fallen Village tactics-core host",
	SilenceUsage: true,
	Long: `tactics hosts the Fallen Village deterministic tactics simulation core.

Examples:
  tactics simulate --seed 42 --turns 5   Run 5 decision/execution cycles headless
  tactics serve --seed 42 --port 8080    Start a websocket dashboard host

Global flags:
  --seed int      world seed (env TACTICS_SEED)
  --width int     floor width (env TACTICS_WIDTH)
  --height int    floor height (env TACTICS_HEIGHT)
  --floors int    floor count (env TACTICS_FLOORS)`,
}

// Execute adds all child commands to rootCmd and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.tactics.yaml)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "world seed (env: TACTICS_SEED)")
	rootCmd.PersistentFlags().IntVar(&width, "width", 20, "floor width (env: TACTICS_WIDTH)")
	rootCmd.PersistentFlags().IntVar(&height, "height", 20, "floor height (env: TACTICS_HEIGHT)")
	rootCmd.PersistentFlags().IntVar(&floors, "floors", 2, "floor count (env: TACTICS_FLOORS)")

	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	viper.BindPFlag("width", rootCmd.PersistentFlags().Lookup("width"))
	viper.BindPFlag("height", rootCmd.PersistentFlags().Lookup("height"))
	viper.BindPFlag("floors", rootCmd.PersistentFlags().Lookup("floors"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".tactics")
		}
	}

	viper.SetEnvPrefix("TACTICS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}
