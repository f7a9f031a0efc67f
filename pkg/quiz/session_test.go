package quiz

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

type fakeRecorder struct {
	ids  []string
	oks  []bool
	fail error
}

func (f *fakeRecorder) Record(id string, ok bool) error {
	f.ids = append(f.ids, id)
	f.oks = append(f.oks, ok)
	return f.fail
}

func typedConfig() Config {
	return Config{
		QuestionMode: ModeEN2JP,
		AnswerType:   AnswerTyped,
		Auto:         true,
		DisplayMode:  vocab.DisplayKana,
		Smart:        true,
		Rand:         rand.New(rand.NewSource(1)),
	}
}

func TestStartEmptyPool(t *testing.T) {
	_, err := Start(nil, typedConfig(), nil)
	require.ErrorIs(t, err, ErrNoItems)
}

func TestStartCapsCountAtPoolSize(t *testing.T) {
	pool := testPool(5)
	cfg := typedConfig()
	cfg.Auto = false
	cfg.Count = 20

	s, err := Start(pool, cfg, nil)
	require.NoError(t, err)
	_, total := s.Progress()
	assert.Equal(t, 5, total)
	assert.True(t, s.Capped(), "reducing the requested count should surface a notice")
}

func TestStartClampsRequestedCount(t *testing.T) {
	pool := testPool(10)
	cfg := typedConfig()
	cfg.Auto = false
	cfg.Count = 9000

	s, err := Start(pool, cfg, nil)
	require.NoError(t, err)
	_, total := s.Progress()
	// 9000 clamps to 500, then caps at the pool.
	assert.Equal(t, 10, total)
}

func TestStartCountZeroAndNegative(t *testing.T) {
	pool := testPool(30)
	cfg := typedConfig()
	cfg.Auto = false

	cfg.Count = 0
	s, err := Start(pool, cfg, nil)
	require.NoError(t, err)
	_, total := s.Progress()
	assert.Equal(t, DefaultQuestionCount, total, "zero means unset")

	cfg.Count = -5
	s, err = Start(pool, cfg, nil)
	require.NoError(t, err)
	_, total = s.Progress()
	assert.Equal(t, MinQuestionCount, total, "negatives clamp to the minimum")
}

func TestStartAutoUsesFullPool(t *testing.T) {
	pool := testPool(7)
	s, err := Start(pool, typedConfig(), nil)
	require.NoError(t, err)
	_, total := s.Progress()
	assert.Equal(t, 7, total)
	assert.False(t, s.Capped())
}

func TestSubmitTypedRecordsAttempt(t *testing.T) {
	pool := testPool(3)
	rec := &fakeRecorder{}
	s, err := Start(pool, typedConfig(), rec)
	require.NoError(t, err)

	q, ok := s.Current()
	require.True(t, ok)

	res, err := s.SubmitTyped(q.Item.Kana)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, q.Item.Kana, res.Expected)
	assert.Equal(t, 1, s.CorrectCount())
	require.Len(t, rec.ids, 1)
	assert.Equal(t, q.Item.ID, rec.ids[0])
	assert.True(t, rec.oks[0])
}

func TestDoubleSubmitIsIdempotent(t *testing.T) {
	pool := testPool(3)
	rec := &fakeRecorder{}
	s, err := Start(pool, typedConfig(), rec)
	require.NoError(t, err)

	q, _ := s.Current()
	_, err = s.SubmitTyped(q.Item.Kana)
	require.NoError(t, err)

	_, err = s.SubmitTyped(q.Item.Kana)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.Len(t, rec.ids, 1, "second submit must not record another attempt")
	assert.Equal(t, 1, s.CorrectCount())
}

func TestAdvanceBeforeAnswering(t *testing.T) {
	pool := testPool(3)
	s, err := Start(pool, typedConfig(), nil)
	require.NoError(t, err)

	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrAnswerFirst)
	assert.Equal(t, StateActive, s.State())
}

func TestEmptyTypedAnswerIsNoOp(t *testing.T) {
	pool := testPool(3)
	rec := &fakeRecorder{}
	s, err := Start(pool, typedConfig(), rec)
	require.NoError(t, err)

	_, err = s.SubmitTyped("   ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Empty(t, rec.ids)
	assert.False(t, s.AwaitingAdvance())
}

func TestFullSessionFlow(t *testing.T) {
	pool := testPool(3)
	rec := &fakeRecorder{}
	s, err := Start(pool, typedConfig(), rec)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		q, ok := s.Current()
		require.True(t, ok)

		answer := q.Item.Kana
		if i == 1 {
			answer = "まちがい" // deliberately wrong
		}
		res, err := s.SubmitTyped(answer)
		require.NoError(t, err)
		assert.Equal(t, i != 1, res.Correct)
		assert.True(t, s.AwaitingAdvance())

		done, err := s.Advance()
		require.NoError(t, err)
		assert.Equal(t, i == 2, done)
	}

	assert.Equal(t, StateFinished, s.State())
	sum := s.SummaryTotals()
	assert.Equal(t, 2, sum.Correct)
	assert.Equal(t, 3, sum.Total)
	assert.Len(t, rec.ids, 3)
}

func TestMultipleChoiceSubmit(t *testing.T) {
	pool := testPool(6)
	cfg := typedConfig()
	cfg.AnswerType = AnswerMultipleChoice
	rec := &fakeRecorder{}
	s, err := Start(pool, cfg, rec)
	require.NoError(t, err)

	opts, err := s.Options()
	require.NoError(t, err)
	require.Len(t, opts, 4)

	q, _ := s.Current()
	correct := vocab.Display(q.Item, vocab.DisplayKana)
	res, err := s.SubmitMultipleChoice(correct)
	require.NoError(t, err)
	assert.True(t, res.Correct)

	// Typed submit against a multiple-choice question is rejected.
	_, err = s.SubmitTyped("x")
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
}

func TestMultipleChoiceWrongPick(t *testing.T) {
	pool := testPool(6)
	cfg := typedConfig()
	cfg.AnswerType = AnswerMultipleChoice
	s, err := Start(pool, cfg, nil)
	require.NoError(t, err)

	opts, err := s.Options()
	require.NoError(t, err)
	q, _ := s.Current()
	correct := vocab.Display(q.Item, vocab.DisplayKana)

	var wrong string
	for _, o := range opts {
		if o != correct {
			wrong = o
			break
		}
	}
	require.NotEmpty(t, wrong)

	res, err := s.SubmitMultipleChoice(wrong)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, correct, res.Expected)
	assert.Equal(t, 0, s.CorrectCount())
}

func TestRecorderFailureDoesNotAffectGrading(t *testing.T) {
	pool := testPool(3)
	rec := &fakeRecorder{fail: errors.New("disk full")}
	s, err := Start(pool, typedConfig(), rec)
	require.NoError(t, err)

	q, _ := s.Current()
	res, err := s.SubmitTyped(q.Item.Kana)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 1, s.CorrectCount())
}

func TestEndMidSession(t *testing.T) {
	pool := testPool(5)
	s, err := Start(pool, typedConfig(), nil)
	require.NoError(t, err)

	q, _ := s.Current()
	_, err = s.SubmitTyped(q.Item.Kana)
	require.NoError(t, err)

	sum := s.End()
	assert.Equal(t, StateFinished, s.State())
	assert.Equal(t, 1, sum.Correct)
	assert.Equal(t, 5, sum.Total)

	_, err = s.SubmitTyped("x")
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestQuestionModesResolvedOnce(t *testing.T) {
	pool := testPool(10)
	cfg := typedConfig()
	cfg.QuestionMode = ModeMixed
	cfg.AnswerType = AnswerMixed
	s, err := Start(pool, cfg, nil)
	require.NoError(t, err)

	q1, _ := s.Current()
	q2, _ := s.Current()
	assert.Equal(t, q1.Mode, q2.Mode, "redisplay must not re-roll the mode")
	assert.Equal(t, q1.Answer, q2.Answer)
	assert.NotEqual(t, ModeMixed, q1.Mode)
	assert.NotEqual(t, AnswerMixed, q1.Answer)
}
