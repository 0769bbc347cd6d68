package generator

// PlaceholderDistractor fills option slots when the distractor pool runs dry.
const PlaceholderDistractor = "Information not provided in this section of the text."

// OptionSynthesizer turns a correct answer and a distractor pool into a
// labelled option set with the correct answer at a random position.
type OptionSynthesizer struct {
	MaxDistractors int
	Placeholder    string
}

// DefaultOptionSynthesizer produces four options, A through D.
func DefaultOptionSynthesizer() OptionSynthesizer {
	return OptionSynthesizer{MaxDistractors: 3, Placeholder: PlaceholderDistractor}
}

// Synthesize draws distractors from pool without replacement, pads with the
// placeholder, shuffles, and labels options from 'A'. Pool entries equal to
// correct are never drawn. Returns the options and the correct label.
func (s OptionSynthesizer) Synthesize(r Rand, correct string, pool []string) (map[string]string, string) {
	remaining := make([]string, 0, len(pool))
	for _, p := range pool {
		if p != correct {
			remaining = append(remaining, p)
		}
	}

	items := make([]string, 0, s.MaxDistractors+1)
	items = append(items, correct)
	for i := 0; i < s.MaxDistractors; i++ {
		if len(remaining) == 0 {
			items = append(items, s.Placeholder)
			continue
		}
		j := r.Intn(len(remaining))
		items = append(items, remaining[j])
		remaining[j] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	options := make(map[string]string, len(items))
	var answer string
	for pos, src := range order {
		label := labelAt(pos)
		options[label] = items[src]
		if src == 0 {
			answer = label
		}
	}
	return options, answer
}

func labelAt(i int) string {
	return string(rune('A' + i))
}
