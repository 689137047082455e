// Command ekosystem runs the grid ecosystem simulation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ekosystem",
	Short: "Turn-based grid ecosystem simulation",
	Long: `Ekosystem fills a square board with grass, fruit bushes and mushrooms, places
creatures of eight species on it and runs turns until a single species is left.
The winner and the number of turns are appended to a result log.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	addRunFlags(rootCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
}
