package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kat-hollis/vocabgarden/pkg/stats"
	"github.com/kat-hollis/vocabgarden/pkg/store"
	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

var statsReset bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz statistics and the most-missed words",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsReset, "reset", false, "clear all recorded statistics")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	if statsReset {
		if err := store.ResetStats(a.db); err != nil {
			return err
		}
		fmt.Println("Statistics cleared.")
		return nil
	}

	tracker := stats.NewTracker(store.StatsStore{DB: a.db})
	attempts, correct, err := tracker.Totals()
	if err != nil {
		return err
	}
	if attempts == 0 {
		fmt.Println("No attempts recorded yet.")
		return nil
	}
	accuracy, err := tracker.Accuracy()
	if err != nil {
		return err
	}
	fmt.Printf("Attempts: %d  Correct: %d  Accuracy: %d%%\n", attempts, correct, accuracy)

	missed, err := tracker.MostMissed(3, 10)
	if err != nil {
		return err
	}
	if len(missed) == 0 {
		fmt.Println("No frequently missed words. Keep it up.")
		return nil
	}

	// Show display text for ids when the lesson data is reachable.
	byID := map[string]vocab.Item{}
	if _, items, err := loadItems(cmd.Context()); err == nil {
		for _, it := range items {
			byID[it.ID] = it
		}
	}

	fmt.Println("\nMost missed:")
	for _, r := range missed {
		label := r.ItemID
		if it, ok := byID[r.ItemID]; ok {
			label = fmt.Sprintf("%s – %s", vocab.Display(it, vocab.DisplayBoth), it.EN)
		}
		fmt.Printf("  %2d misses (%d attempts)  %s\n", r.Misses(), r.Attempts, label)
	}
	return nil
}
