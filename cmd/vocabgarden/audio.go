package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kat-hollis/vocabgarden/pkg/analyze"
	"github.com/kat-hollis/vocabgarden/pkg/audio"
	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

var (
	audioCheckLessons []string
	audioCheckMissing bool
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Audio file maintenance",
}

var audioCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report found and missing recordings for the selection",
	RunE:  runAudioCheck,
}

var audioReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Match loose recordings to items and name them by item id",
	Long:  "Moves unrecognized audio files into raw/, matches each file's trailing filename token against item kana and kanji (falling back to a tokenizer-derived reading), copies matches to <itemID>.<ext>, and writes audio_rename_report.json.",
	RunE:  runAudioReconcile,
}

func init() {
	audioCheckCmd.Flags().StringSliceVarP(&audioCheckLessons, "lessons", "l", nil, "lesson codes to include (default all)")
	audioCheckCmd.Flags().BoolVar(&audioCheckMissing, "missing", false, "show only items without audio")
	audioCmd.AddCommand(audioCheckCmd, audioReconcileCmd)
	rootCmd.AddCommand(audioCmd)
}

func runAudioCheck(cmd *cobra.Command, args []string) error {
	_, items, err := loadItems(cmd.Context())
	if err != nil {
		return err
	}
	pool := vocab.Filter(items, lessonCodeSet(audioCheckLessons), nil, false)

	resolver := audio.NewResolver(audioDir())
	found := 0
	for _, it := range pool {
		id := it.ResolvedAudioID()
		path, ok := resolver.Resolve(id)
		if ok {
			found++
			if audioCheckMissing {
				continue
			}
			fmt.Printf("found    %-28s %s\n", it.ID, path)
			continue
		}
		fmt.Printf("missing  %-28s expected %s\n", it.ID, audio.ExpectedFilename(id))
	}
	fmt.Printf("Audio found: %d/%d.\n", found, len(pool))
	return nil
}

func runAudioReconcile(cmd *cobra.Command, args []string) error {
	_, items, err := loadItems(cmd.Context())
	if err != nil {
		return err
	}

	var reading audio.ReadingFunc
	if analyzer, err := analyze.New(); err == nil {
		reading = analyzer.Reading
	} else {
		slog.Warn("tokenizer unavailable, skipping reading fallback", "error", err)
	}

	rc := &audio.Reconciler{Dir: audioDir(), Reading: reading, Logger: slog.Default()}
	report, err := rc.Run(items)
	if err != nil {
		return err
	}

	fmt.Printf("Renamed %d, unmatched %d, ambiguous %d, duplicates %d, missing %d.\n",
		len(report.Renamed), len(report.UnmatchedFiles), len(report.Ambiguous),
		len(report.Duplicates), len(report.MissingAudioForItemIDs))
	fmt.Printf("Report written to %s.\n", audio.ReportFile)
	return nil
}
