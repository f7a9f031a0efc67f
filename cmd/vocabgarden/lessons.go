package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kat-hollis/vocabgarden/pkg/lessons"
)

var lessonsRefresh bool

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lessons and item counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := lessons.NewLoader(lessonsSource(), filepath.Join(dataDir(), "cache"))
		if lessonsRefresh {
			if err := loader.Refresh(cmd.Context()); err != nil {
				return err
			}
		}
		lessonList, items, err := loader.Load(cmd.Context())
		if err != nil {
			return err
		}
		perLesson := map[string]int{}
		for _, it := range items {
			perLesson[it.Lesson]++
		}
		for _, l := range lessonList {
			count := perLesson[l.Name]
			fmt.Printf("%-8s %-36s %d words\n", l.Code, l.Name, count)
		}
		fmt.Printf("%d lessons, %d words total.\n", len(lessonList), len(items))
		return nil
	},
}

func init() {
	lessonsCmd.Flags().BoolVar(&lessonsRefresh, "refresh", false, "force a refetch from a remote source")
	rootCmd.AddCommand(lessonsCmd)
}
