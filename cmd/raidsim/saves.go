package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/raidsim/internal/platform/tui"
	"github.com/vovakirdan/raidsim/internal/sim"
	"github.com/vovakirdan/raidsim/internal/storage"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Browse and manage save slots",
	Long: `Browse the save database in an interactive table. Subcommands
print slot listings, inspect a snapshot, or delete a slot without
entering the browser.

Examples:
  raidsim saves
  raidsim saves list
  raidsim saves show quick
  raidsim saves delete quick`,
	Args: cobra.NoArgs,
	Run:  runSaves,
}

var savesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all save slots",
	Args:  cobra.NoArgs,
	Run:   runSavesList,
}

var savesShowCmd = &cobra.Command{
	Use:   "show <slot>",
	Short: "Print a summary of one saved snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesShow,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete a save slot",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

func init() {
	savesCmd.AddCommand(savesListCmd)
	savesCmd.AddCommand(savesShowCmd)
	savesCmd.AddCommand(savesDeleteCmd)
}

func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening save database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runSaves(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	if err := tui.RunSavesBrowser(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSavesList(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing saves: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No saves recorded yet.")
		fmt.Println()
		fmt.Println("Run 'raidsim run --save <slot>' to create one.")
		return
	}

	fmt.Printf("  %-12s  %-12s  %-8s  %s\n", "Slot", "Level", "Tic", "Saved")
	fmt.Printf("  %-12s  %-12s  %-8s  %s\n", "----", "-----", "---", "-----")
	for _, entry := range entries {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-12s  %-12s  %-8d  %s\n", entry.Slot, entry.LevelID, entry.Tics, dateStr)
	}
}

func runSavesShow(cmd *cobra.Command, args []string) {
	slot := args[0]

	store := openStore()
	defer store.Close()

	entry, err := store.Get(slot)
	if err != nil {
		if errors.Is(err, storage.ErrNoSave) {
			fmt.Fprintf(os.Stderr, "Error: no save in slot %q\n", slot)
			fmt.Fprintln(os.Stderr, "Run 'raidsim saves list' to see available slots.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	save, err := sim.DecodeSaveGame(entry.Data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding save: %v\n", err)
		os.Exit(1)
	}

	alive := 0
	for _, a := range save.Actors {
		if !a.Dead && !a.Removed {
			alive++
		}
	}

	fmt.Printf("Save %q\n", slot)
	fmt.Println()
	fmt.Printf("  Level:      %s\n", save.LevelID)
	fmt.Printf("  Tic:        %d\n", save.Clock.Tics)
	fmt.Printf("  Health:     %d\n", save.Player.Health)
	fmt.Printf("  Actors:     %d (%d alive)\n", len(save.Actors), alive)
	fmt.Printf("  Doors:      %d\n", len(save.Doors))
	fmt.Printf("  Push walls: %d\n", len(save.PushWalls))
	fmt.Printf("  Saved:      %s\n", entry.CreatedAt.Format("2006-01-02 15:04"))
	if len(save.Player.Inventory) > 0 {
		fmt.Println()
		fmt.Println("  Inventory:")
		for item, count := range save.Player.Inventory {
			fmt.Printf("    %-10s %d\n", item, count)
		}
	}
}

func runSavesDelete(cmd *cobra.Command, args []string) {
	slot := args[0]

	store := openStore()
	defer store.Close()

	if err := store.Delete(slot); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting save: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted slot %q.\n", slot)
}
