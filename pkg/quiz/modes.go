// Package quiz implements the drilling engine: question construction,
// answer grading, multiple-choice option sampling, and the session state
// machine that sequences a quiz from start to summary.
package quiz

import (
	"math/rand"
	"strings"

	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

// QuestionMode is the direction a question is posed in. The meta-modes
// ModeMixed and ModeMixedListen are collapsed to a concrete mode once, when
// the question is built.
type QuestionMode string

const (
	ModeEN2JP       QuestionMode = "en2jp"
	ModeJP2EN       QuestionMode = "jp2en"
	ModeListenEN    QuestionMode = "listen2en"
	ModeListenJP    QuestionMode = "listen2jp"
	ModeMixed       QuestionMode = "mixed"
	ModeMixedListen QuestionMode = "mixedlisten"
)

// AnswerType is how the learner responds.
type AnswerType string

const (
	AnswerMultipleChoice AnswerType = "mc"
	AnswerTyped          AnswerType = "typed"
	AnswerMixed          AnswerType = "mixed"
)

// Question is one concrete prompt: an item plus resolved mode and answer
// type. It lives only for the duration of the attempt.
type Question struct {
	Item   vocab.Item
	Mode   QuestionMode
	Answer AnswerType
}

// JapaneseAnswer reports whether the expected answer is Japanese text.
func (m QuestionMode) JapaneseAnswer() bool {
	return m == ModeEN2JP || m == ModeListenJP
}

// EnglishAnswer reports whether the expected answer is an English gloss.
func (m QuestionMode) EnglishAnswer() bool {
	return m == ModeJP2EN || m == ModeListenEN
}

// Listening reports whether the prompt is audio-only.
func (m QuestionMode) Listening() bool {
	return strings.HasPrefix(string(m), "listen")
}

// ResolveModes collapses meta-modes to concrete ones. Mixed picks uniformly
// between translation directions; mixed-listen picks between the listening
// variants when audio is enabled and falls back to the translation pair when
// it is not. Resolution happens once per question, never re-rolled.
func ResolveModes(qm QuestionMode, at AnswerType, audioOn bool, rng *rand.Rand) (QuestionMode, AnswerType) {
	switch qm {
	case ModeMixed:
		qm = pick(rng, ModeEN2JP, ModeJP2EN)
	case ModeMixedListen:
		if audioOn {
			qm = pick(rng, ModeListenEN, ModeListenJP)
		} else {
			qm = pick(rng, ModeEN2JP, ModeJP2EN)
		}
	}
	if at == AnswerMixed {
		if rng.Intn(2) == 0 {
			at = AnswerMultipleChoice
		} else {
			at = AnswerTyped
		}
	}
	return qm, at
}

func pick(rng *rand.Rand, a, b QuestionMode) QuestionMode {
	if rng.Intn(2) == 0 {
		return a
	}
	return b
}

// ListeningPrompt is shown in place of text when the prompt is audio-only.
const ListeningPrompt = "🎧 Listening… (press = to replay)"

// PromptText renders the prompt for a question: the English gloss, the
// Japanese display form, or the listening placeholder.
func PromptText(q Question, global vocab.DisplayMode, overrides map[string]bool) string {
	switch {
	case q.Mode == ModeJP2EN:
		return vocab.Display(q.Item, vocab.EffectiveDisplayMode(q.Item, global, overrides))
	case q.Mode.Listening():
		return ListeningPrompt
	}
	return q.Item.EN
}

// CorrectAnswerText is the canonical correct-answer string shown in
// feedback: the Japanese display form for Japanese-target questions, the
// gloss otherwise.
func CorrectAnswerText(q Question, global vocab.DisplayMode, overrides map[string]bool) string {
	if q.Mode.JapaneseAnswer() {
		return vocab.Display(q.Item, vocab.EffectiveDisplayMode(q.Item, global, overrides))
	}
	return q.Item.EN
}
