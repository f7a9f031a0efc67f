package quiz

import (
	"errors"
	"math/rand"

	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

// Session misuse is reported through these sentinel errors. They are
// advisory: every one of them leaves the session state unchanged, and none
// of them is fatal.
var (
	ErrNoItems         = errors.New("no items in the selected set")
	ErrNotActive       = errors.New("no quiz is running")
	ErrAlreadyAnswered = errors.New("already answered; advance to the next question")
	ErrAnswerFirst     = errors.New("submit an answer first")
	ErrEmptyAnswer     = errors.New("empty answer")
	ErrNotChoice       = errors.New("current question is not multiple choice")
	ErrNotTyped        = errors.New("current question is not typed")
)

// Question counts outside the auto mode are clamped to this range. A zero
// count means "unset" and takes the default; negatives clamp to the minimum.
const (
	MinQuestionCount     = 1
	MaxQuestionCount     = 500
	DefaultQuestionCount = 20
)

// Recorder receives one call per graded attempt. Persistence is best-effort:
// a failing recorder never changes a grading decision.
type Recorder interface {
	Record(itemID string, correct bool) error
}

// Config carries the learner-chosen knobs for one session.
type Config struct {
	QuestionMode QuestionMode
	AnswerType   AnswerType
	Count        int  // requested question count; ignored when Auto
	Auto         bool // use the full pool size
	DisplayMode  vocab.DisplayMode
	Overrides    map[string]bool // per-item kanji display overrides
	AudioOn      bool
	Autoplay     bool
	Smart        bool
	Rand         *rand.Rand // optional; seeded from math/rand global when nil
}

// State is the session's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateActive
	StateFinished
)

// Result is the graded outcome of one submission.
type Result struct {
	Correct  bool
	Expected string
}

// Summary is the end-of-session tally.
type Summary struct {
	Correct int
	Total   int
}

// Session sequences questions from a fixed pool. It is single-owner: one
// logical caller drives it, and no method suspends.
type Session struct {
	cfg    Config
	grader Grader
	rec    Recorder
	rng    *rand.Rand

	pool      []vocab.Item
	questions []Question
	idx       int
	state     State

	awaitingNext bool
	correctCount int
	capped       bool

	options *OptionSet // built once per multiple-choice question
}

// Start builds a session from the already-filtered pool. The pool is
// shuffled, the first n items become questions, and every meta-mode is
// resolved immediately so redisplaying a question never re-rolls it.
// An empty pool returns ErrNoItems and no session.
func Start(pool []vocab.Item, cfg Config, rec Recorder) (*Session, error) {
	if len(pool) == 0 {
		return nil, ErrNoItems
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	count := cfg.Count
	if cfg.Auto {
		count = len(pool)
	} else {
		if count == 0 {
			count = DefaultQuestionCount
		}
		if count < MinQuestionCount {
			count = MinQuestionCount
		}
		if count > MaxQuestionCount {
			count = MaxQuestionCount
		}
	}
	capped := count > len(pool)
	if capped {
		count = len(pool)
	}

	shuffled := sampleItems(pool, len(pool), rng)
	questions := make([]Question, 0, count)
	for _, it := range shuffled[:count] {
		qm, at := ResolveModes(cfg.QuestionMode, cfg.AnswerType, cfg.AudioOn, rng)
		questions = append(questions, Question{Item: it, Mode: qm, Answer: at})
	}

	s := &Session{
		cfg:       cfg,
		grader:    Grader{Smart: cfg.Smart},
		rec:       rec,
		rng:       rng,
		pool:      pool,
		questions: questions,
		state:     StateActive,
		capped:    capped,
	}
	s.prepare()
	return s, nil
}

// prepare readies the question at the cursor: fresh sub-state and, for
// multiple choice, a one-time option set.
func (s *Session) prepare() {
	s.awaitingNext = false
	s.options = nil
	q := s.questions[s.idx]
	if q.Answer == AnswerMultipleChoice {
		set := BuildOptions(q, s.pool, s.cfg.DisplayMode, s.cfg.Overrides, s.rng)
		s.options = &set
	}
}

// State returns the lifecycle position.
func (s *Session) State() State { return s.state }

// Capped reports whether the requested count exceeded the pool and was
// silently reduced; callers surface this as a notice, not an error.
func (s *Session) Capped() bool { return s.capped }

// AwaitingAdvance is true exactly when the current question has been graded
// and not yet advanced past.
func (s *Session) AwaitingAdvance() bool { return s.state == StateActive && s.awaitingNext }

// Current returns the question at the cursor, if the session is active.
func (s *Session) Current() (Question, bool) {
	if s.state != StateActive {
		return Question{}, false
	}
	return s.questions[s.idx], true
}

// Progress returns the 1-based question number and the total.
func (s *Session) Progress() (current, total int) {
	n := s.idx + 1
	if n > len(s.questions) {
		n = len(s.questions)
	}
	return n, len(s.questions)
}

// CorrectCount is the running tally of correct answers.
func (s *Session) CorrectCount() int { return s.correctCount }

// PoolSize is the number of items eligible for this session.
func (s *Session) PoolSize() int { return len(s.pool) }

// Prompt renders the current question's prompt text.
func (s *Session) Prompt() (string, error) {
	q, ok := s.Current()
	if !ok {
		return "", ErrNotActive
	}
	return PromptText(q, s.cfg.DisplayMode, s.cfg.Overrides), nil
}

// Options returns the current multiple-choice option strings.
func (s *Session) Options() ([]string, error) {
	q, ok := s.Current()
	if !ok {
		return nil, ErrNotActive
	}
	if q.Answer != AnswerMultipleChoice || s.options == nil {
		return nil, ErrNotChoice
	}
	return s.options.Options, nil
}

// ShouldAutoplay reports whether entering the current question should
// trigger external audio playback: autoplay is on and the prompt side is
// Japanese.
func (s *Session) ShouldAutoplay() bool {
	q, ok := s.Current()
	if !ok || !s.cfg.Autoplay {
		return false
	}
	return q.Mode == ModeJP2EN || q.Mode.Listening()
}

// SubmitMultipleChoice grades a selected option value. A second submission
// on the same question is rejected without side effects.
func (s *Session) SubmitMultipleChoice(selected string) (Result, error) {
	q, ok := s.Current()
	if !ok {
		return Result{}, ErrNotActive
	}
	if s.awaitingNext {
		return Result{}, ErrAlreadyAnswered
	}
	if q.Answer != AnswerMultipleChoice || s.options == nil {
		return Result{}, ErrNotChoice
	}
	return s.finishAttempt(q, selected == s.options.Correct), nil
}

// SubmitTyped grades free-typed input. Empty input is a no-op so a stray
// enter key never burns an attempt.
func (s *Session) SubmitTyped(raw string) (Result, error) {
	q, ok := s.Current()
	if !ok {
		return Result{}, ErrNotActive
	}
	if s.awaitingNext {
		return Result{}, ErrAlreadyAnswered
	}
	if q.Answer != AnswerTyped {
		return Result{}, ErrNotTyped
	}
	if isBlank(raw) {
		return Result{}, ErrEmptyAnswer
	}
	return s.finishAttempt(q, s.grader.Grade(q, raw)), nil
}

func (s *Session) finishAttempt(q Question, correct bool) Result {
	s.awaitingNext = true
	if correct {
		s.correctCount++
	}
	if s.rec != nil {
		// Best-effort: the attempt already counted even if the write fails.
		_ = s.rec.Record(q.Item.ID, correct)
	}
	return Result{
		Correct:  correct,
		Expected: CorrectAnswerText(q, s.cfg.DisplayMode, s.cfg.Overrides),
	}
}

// Advance moves past an answered question. It reports done=true when the
// session just finished. Advancing before answering is a no-op advisory.
func (s *Session) Advance() (done bool, err error) {
	if s.state != StateActive {
		return false, ErrNotActive
	}
	if !s.awaitingNext {
		return false, ErrAnswerFirst
	}
	s.idx++
	if s.idx >= len(s.questions) {
		s.state = StateFinished
		s.awaitingNext = false
		return true, nil
	}
	s.prepare()
	return false, nil
}

// End stops the session immediately, regardless of sub-state. Attempts
// already recorded stay recorded; remaining questions are discarded.
func (s *Session) End() Summary {
	if s.state == StateActive {
		s.state = StateFinished
	}
	return s.SummaryTotals()
}

// SummaryTotals returns the running score against the planned total.
func (s *Session) SummaryTotals() Summary {
	return Summary{Correct: s.correctCount, Total: len(s.questions)}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' && r != '　' {
			return false
		}
	}
	return true
}
