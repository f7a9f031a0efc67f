package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kat-hollis/vocabgarden/pkg/store"
	"github.com/kat-hollis/vocabgarden/pkg/textnorm"
	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

var (
	vocabLessons []string
	vocabStarred bool
	vocabSearch  string
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Browse the vocabulary list",
	RunE:  runVocabList,
}

var vocabStarCmd = &cobra.Command{
	Use:   "star <item-id>",
	Short: "Toggle the star on an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()
		on, err := store.ToggleStar(a.db, args[0])
		if err != nil {
			return err
		}
		if on {
			fmt.Printf("Starred %s.\n", args[0])
		} else {
			fmt.Printf("Unstarred %s.\n", args[0])
		}
		return nil
	},
}

var vocabKanjiCmd = &cobra.Command{
	Use:   "kanji <item-id>",
	Short: "Toggle the per-item kanji display override",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()
		on, err := store.ToggleKanjiOverride(a.db, args[0])
		if err != nil {
			return err
		}
		if on {
			fmt.Printf("Kanji display forced on for %s.\n", args[0])
		} else {
			fmt.Printf("Kanji override cleared for %s.\n", args[0])
		}
		return nil
	},
}

var vocabResetStarsCmd = &cobra.Command{
	Use:   "reset-stars",
	Short: "Remove all stars",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()
		if err := store.ResetStars(a.db); err != nil {
			return err
		}
		fmt.Println("All stars cleared.")
		return nil
	},
}

func init() {
	vocabCmd.Flags().StringSliceVarP(&vocabLessons, "lessons", "l", nil, "lesson codes to include (default all)")
	vocabCmd.Flags().BoolVar(&vocabStarred, "starred", false, "only starred items")
	vocabCmd.Flags().StringVarP(&vocabSearch, "search", "s", "", "filter by english or japanese text")
	vocabCmd.AddCommand(vocabStarCmd, vocabKanjiCmd, vocabResetStarsCmd)
	rootCmd.AddCommand(vocabCmd)
}

func runVocabList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	_, items, err := loadItems(cmd.Context())
	if err != nil {
		return err
	}
	starred, err := store.Stars(a.db)
	if err != nil {
		return err
	}

	pool := vocab.Filter(items, lessonCodeSet(vocabLessons), starred, vocabStarred)
	pool = searchItems(pool, vocabSearch)

	for _, it := range pool {
		star := " "
		if starred[it.ID] {
			star = "★"
		}
		fmt.Printf("%s %-28s %-24s %s\n", star, it.ID, vocab.Display(it, vocab.DisplayBoth), it.EN)
	}
	fmt.Printf("%d words.\n", len(pool))
	return nil
}

// searchItems keeps items whose english or japanese matches the query, using
// the same normalization the grader applies.
func searchItems(items []vocab.Item, query string) []vocab.Item {
	if strings.TrimSpace(query) == "" {
		return items
	}
	en := textnorm.NormalizeEnglish(query)
	jp := textnorm.NormalizeJapanese(query)

	var out []vocab.Item
	for _, it := range items {
		switch {
		case en != "" && strings.Contains(textnorm.NormalizeEnglish(it.EN), en):
			out = append(out, it)
		case jp != "" && (strings.Contains(textnorm.NormalizeJapanese(it.Kana), jp) ||
			strings.Contains(textnorm.NormalizeJapanese(it.Kanji), jp)):
			out = append(out, it)
		}
	}
	return out
}
