package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kat-hollis/vocabgarden/pkg/analyze"
	"github.com/kat-hollis/vocabgarden/pkg/dictionary"
	"github.com/kat-hollis/vocabgarden/pkg/ingest"
	"github.com/kat-hollis/vocabgarden/pkg/lessons"
	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

// Oversized pages are rejected rather than truncated.
const maxArticleSize = 10 * 1024 * 1024

var (
	importURL      string
	importLesson   string
	importMinCount int
	importNoDict   bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Extract draft vocabulary items from a web article",
	Long:  "Fetches an article, extracts its readable Japanese text, tokenizes it, and writes content words as a draft lesson file for manual review.",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importURL, "url", "u", "", "article URL (required)")
	importCmd.Flags().StringVar(&importLesson, "lesson", "", "lesson name for the drafted items (required)")
	importCmd.Flags().IntVar(&importMinCount, "min-count", 1, "drop words occurring fewer times")
	importCmd.Flags().BoolVar(&importNoDict, "no-dict", false, "skip dictionary glossing")
	_ = importCmd.MarkFlagRequired("url")
	_ = importCmd.MarkFlagRequired("lesson")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	body, err := fetchArticle(ctx, importURL)
	if err != nil {
		return err
	}
	defer body.Close()

	article, err := ingest.ReadArticle(io.LimitReader(body, maxArticleSize), importURL)
	if err != nil {
		return err
	}
	fmt.Printf("Title: %s (%d chars)\n", article.Title, len(article.Text))

	analyzer, err := analyze.New()
	if err != nil {
		return err
	}

	var dict *dictionary.Index
	if !importNoDict {
		dictPath := filepath.Join(dataDir(), "jmdict-eng-common.json")
		if err := dictionary.EnsureDictionary(ctx, dictPath); err != nil {
			slog.Warn("dictionary unavailable, glosses will be empty", "error", err)
		} else {
			start := time.Now()
			entries, err := dictionary.Load(dictPath)
			if err != nil {
				slog.Warn("dictionary load failed, glosses will be empty", "error", err)
			} else {
				dict = dictionary.NewIndex(entries)
				slog.Debug("dictionary loaded", "entries", len(entries), "took", time.Since(start))
			}
		}
	}

	ex := ingest.NewExtractor(analyzer, dict)
	ex.MinCount = importMinCount
	items, err := ex.Extract(ctx, article.Text, importLesson)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No vocabulary candidates found.")
		return nil
	}

	code := vocab.LessonCode(importLesson)
	root := lessonsSource()
	file := "lessons/" + code + ".json"
	if err := ingest.WriteLessonFile(filepath.Join(root, filepath.FromSlash(file)), items); err != nil {
		return err
	}
	if err := lessons.AppendLesson(root, lessons.Lesson{
		Code:  code,
		Name:  importLesson,
		File:  file,
		Count: len(items),
	}); err != nil {
		return err
	}

	fmt.Printf("Drafted %d items into %s. Review and edit before drilling.\n", len(items), file)
	return nil
}

func fetchArticle(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// Some news sites block default Go clients.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ja;q=0.8")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	if resp.ContentLength > maxArticleSize {
		resp.Body.Close()
		return nil, errors.Errorf("article too large (%d bytes)", resp.ContentLength)
	}
	return resp.Body, nil
}
