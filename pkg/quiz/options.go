package quiz

import (
	"math/rand"

	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

// maxDistractorCandidates bounds how many pool items are considered when
// building a distractor set.
const maxDistractorCandidates = 12

// OptionSet is a rendered multiple-choice round: the correct display string
// and the shuffled options containing it exactly once.
type OptionSet struct {
	Correct string
	Options []string
}

// BuildOptions assembles up to four options for the question: the correct
// answer plus three distractors sampled from the pool. Candidates are drawn
// without replacement, mapped to their display strings, deduplicated, and
// cleared of anything equal to the correct answer. Pools too small for three
// distinct distractors yield a smaller set; that is normal, not an error.
func BuildOptions(q Question, pool []vocab.Item, global vocab.DisplayMode, overrides map[string]bool, rng *rand.Rand) OptionSet {
	jp := q.Mode.JapaneseAnswer()
	correct := optionText(q.Item, jp, global, overrides)

	others := make([]vocab.Item, 0, len(pool))
	for _, it := range pool {
		if it.ID != q.Item.ID {
			others = append(others, it)
		}
	}
	picks := sampleItems(others, maxDistractorCandidates, rng)

	seen := map[string]bool{correct: true, "": true}
	var candidates []string
	for _, it := range picks {
		v := optionText(it, jp, global, overrides)
		if seen[v] {
			continue
		}
		seen[v] = true
		candidates = append(candidates, v)
	}

	distractors := sampleStrings(candidates, 3, rng)
	options := append([]string{correct}, distractors...)
	shuffleStrings(options, rng)
	return OptionSet{Correct: correct, Options: options}
}

func optionText(it vocab.Item, japanese bool, global vocab.DisplayMode, overrides map[string]bool) string {
	if japanese {
		return vocab.Display(it, vocab.EffectiveDisplayMode(it, global, overrides))
	}
	return it.EN
}

func sampleItems(items []vocab.Item, n int, rng *rand.Rand) []vocab.Item {
	out := make([]vocab.Item, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if n < len(out) {
		out = out[:n]
	}
	return out
}

func sampleStrings(values []string, n int, rng *rand.Rand) []string {
	out := make([]string, len(values))
	copy(out, values)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if n < len(out) {
		out = out[:n]
	}
	return out
}

func shuffleStrings(values []string, rng *rand.Rand) {
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
}
