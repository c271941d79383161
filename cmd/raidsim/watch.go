package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/raidsim/internal/platform/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Play a session in the terminal",
	Long: `Attach a terminal renderer to a live session. Walk the map, open
doors, push secret walls and fire weapons while the event stream scrolls
alongside the view.

Examples:
  raidsim watch
  raidsim watch --seed 42
  raidsim watch --level maps/e1m1.yaml --defs maps/e1m1_defs.yaml`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) {
	logger := newLogger()

	s, err := newSimulator(logger, seed())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	target, err := tui.RunWatch(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if target != "" {
		fmt.Printf("Session ended: %s\n", target)
	}
}
