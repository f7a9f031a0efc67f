package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kat-hollis/vocabgarden/pkg/audio"
	"github.com/kat-hollis/vocabgarden/pkg/quiz"
	"github.com/kat-hollis/vocabgarden/pkg/stats"
	"github.com/kat-hollis/vocabgarden/pkg/store"
	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

var (
	quizMode     string
	quizAnswer   string
	quizCount    int
	quizAuto     bool
	quizLessons  []string
	quizStarred  bool
	quizDisplay  string
	quizAutoplay bool
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Run an interactive quiz session",
	RunE:  runQuiz,
}

func init() {
	quizCmd.Flags().StringVarP(&quizMode, "mode", "m", "mixed", "question mode: en2jp|jp2en|listen2en|listen2jp|mixed|mixedlisten")
	quizCmd.Flags().StringVarP(&quizAnswer, "answer", "a", "mc", "answer type: mc|typed|mixed")
	quizCmd.Flags().IntVarP(&quizCount, "count", "n", 20, "question count (1-500)")
	quizCmd.Flags().BoolVar(&quizAuto, "auto", false, "quiz the whole selected pool")
	quizCmd.Flags().StringSliceVarP(&quizLessons, "lessons", "l", nil, "lesson codes to include (default all)")
	quizCmd.Flags().BoolVar(&quizStarred, "starred", false, "only starred items")
	quizCmd.Flags().StringVarP(&quizDisplay, "display", "d", "kana", "japanese display: kana|kanji|both")
	quizCmd.Flags().BoolVar(&quizAutoplay, "autoplay", false, "autoplay audio on japanese prompts")
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	_, items, err := loadItems(ctx)
	if err != nil {
		return err
	}

	starred, err := store.Stars(a.db)
	if err != nil {
		return err
	}
	overrides, err := store.KanjiOverrides(a.db)
	if err != nil {
		return err
	}

	pool := vocab.Filter(items, lessonCodeSet(quizLessons), starred, quizStarred)

	cfg := quiz.Config{
		QuestionMode: quiz.QuestionMode(quizMode),
		AnswerType:   answerType(quizAnswer),
		Count:        quizCount,
		Auto:         quizAuto,
		DisplayMode:  vocab.DisplayMode(quizDisplay),
		Overrides:    overrides,
		AudioOn:      a.settings.AudioOn,
		Autoplay:     quizAutoplay || a.settings.Autoplay,
		Smart:        a.settings.SmartGrade,
	}

	tracker := stats.NewTracker(store.StatsStore{DB: a.db})
	s, err := quiz.Start(pool, cfg, tracker)
	if err != nil {
		if errors.Is(err, quiz.ErrNoItems) {
			fmt.Println("No words in the selected lessons. Adjust your selection and try again.")
			return nil
		}
		return err
	}
	if s.Capped() {
		fmt.Printf("Only %d words in the selection; quiz shortened.\n", s.PoolSize())
	}

	resolver := audio.NewResolver(audioDir())
	player := &audio.Player{
		Command: playerCommand(),
		Volume:  a.settings.Volume,
		Logger:  slog.Default(),
	}

	loop := quizLoop{
		ctx:      ctx,
		s:        s,
		db:       a.db,
		in:       bufio.NewScanner(os.Stdin),
		resolver: resolver,
		player:   player,
		audioOn:  a.settings.AudioOn,
	}
	return loop.run()
}

func answerType(s string) quiz.AnswerType {
	switch s {
	case "typed":
		return quiz.AnswerTyped
	case "mixed":
		return quiz.AnswerMixed
	}
	return quiz.AnswerMultipleChoice
}

type quizLoop struct {
	ctx      context.Context
	s        *quiz.Session
	db       store.DBExecutor
	in       *bufio.Scanner
	resolver *audio.Resolver
	player   *audio.Player
	audioOn  bool
}

func (l *quizLoop) run() error {
	for {
		q, ok := l.s.Current()
		if !ok {
			break
		}
		cur, total := l.s.Progress()
		prompt, err := l.s.Prompt()
		if err != nil {
			return err
		}
		fmt.Printf("\n[%d/%d] %s\n", cur, total, prompt)

		if l.s.ShouldAutoplay() {
			l.play(q.Item)
		}
		if opts, err := l.s.Options(); err == nil {
			for i, o := range opts {
				fmt.Printf("  %d) %s\n", i+1, o)
			}
		}

		ended, err := l.askAndGrade(q)
		if err != nil {
			return err
		}
		if ended {
			break
		}

		done, err := l.s.Advance()
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	sum := l.s.End()
	fmt.Printf("\nDone. %d/%d correct.\n", sum.Correct, sum.Total)
	return nil
}

// askAndGrade reads input until the current question is graded and the
// learner moves on, handling replay/star/quit commands along the way.
// It returns true when the learner quit early.
func (l *quizLoop) askAndGrade(q quiz.Question) (bool, error) {
	for {
		fmt.Print("> ")
		if !l.in.Scan() {
			return true, l.in.Err()
		}
		line := strings.TrimSpace(l.in.Text())

		switch line {
		case "q", "quit":
			return true, nil
		case "=":
			l.play(q.Item)
			continue
		case "*":
			on, err := store.ToggleStar(l.db, q.Item.ID)
			if err != nil {
				slog.Warn("star toggle failed", "error", err)
			} else if on {
				fmt.Println("Starred.")
			} else {
				fmt.Println("Unstarred.")
			}
			continue
		}

		if l.s.AwaitingAdvance() {
			// Any other input moves to the next question.
			return false, nil
		}

		res, err := l.submit(q, line)
		switch {
		case errors.Is(err, quiz.ErrEmptyAnswer):
			fmt.Println("Type an answer first.")
			continue
		case errors.Is(err, quiz.ErrAlreadyAnswered):
			return false, nil
		case err != nil:
			return false, err
		}

		if res.Correct {
			fmt.Println("✓ Correct!")
		} else {
			fmt.Printf("✗ Not quite. Answer: %s\n", res.Expected)
		}
		fmt.Println("(enter for next, * star, q quit)")
	}
}

func (l *quizLoop) submit(q quiz.Question, line string) (quiz.Result, error) {
	if q.Answer == quiz.AnswerMultipleChoice {
		opts, err := l.s.Options()
		if err != nil {
			return quiz.Result{}, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(opts) {
			fmt.Printf("Pick 1-%d.\n", len(opts))
			return quiz.Result{}, quiz.ErrEmptyAnswer
		}
		return l.s.SubmitMultipleChoice(opts[n-1])
	}
	return l.s.SubmitTyped(line)
}

func (l *quizLoop) play(it vocab.Item) {
	if !l.audioOn {
		fmt.Println("Audio is off in settings.")
		return
	}
	path, ok := l.resolver.Resolve(it.ResolvedAudioID())
	if !ok {
		fmt.Printf("Missing audio for %s.\n", it.ResolvedAudioID())
		return
	}
	if err := l.player.Play(l.ctx, path); err != nil {
		if errors.Is(err, audio.ErrNoPlayer) {
			fmt.Println("No audio player configured; set --player or the player config key.")
			return
		}
		slog.Warn("playback failed", "file", path, "error", err)
	}
}
