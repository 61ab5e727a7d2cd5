package attendance

// Matcher resolves normalized external labels against one day's roster labels.
// Candidates are normalized once at construction.
type Matcher struct {
	labels     []string
	normalized []string
	words      [][]string
}

// NewMatcher prepares a matcher for the given roster labels, kept in table order
func NewMatcher(labels []string) *Matcher {
	m := &Matcher{
		labels:     labels,
		normalized: make([]string, len(labels)),
		words:      make([][]string, len(labels)),
	}
	for i, label := range labels {
		m.normalized[i] = Normalize(label)
		m.words[i] = SignificantWords(m.normalized[i])
	}
	return m
}

// MatchIndex returns the roster index matching the normalized label. An exact key
// match anywhere in the roster wins over the significant-word fallback; within
// each strategy the first line in table order wins.
func (m *Matcher) MatchIndex(normalized string) (int, bool) {
	if normalized == "" {
		return -1, false
	}

	for i, candidate := range m.normalized {
		if candidate == normalized {
			return i, true
		}
	}

	input := SignificantWords(normalized)
	if len(input) == 0 {
		return -1, false
	}
	for i, candidate := range m.words {
		if sameWords(input, candidate) {
			return i, true
		}
	}
	return -1, false
}

// Match returns the roster label matching the normalized label
func (m *Matcher) Match(normalized string) (string, bool) {
	i, ok := m.MatchIndex(normalized)
	if !ok {
		return "", false
	}
	return m.labels[i], true
}

// Match resolves a normalized external label against roster labels
func Match(normalized string, rosterLabels []string) (string, bool) {
	return NewMatcher(rosterLabels).Match(normalized)
}

func sameWords(input, candidate []string) bool {
	if len(candidate) == 0 || len(candidate) != len(input) {
		return false
	}
	set := make(map[string]bool, len(candidate))
	for _, w := range candidate {
		set[w] = true
	}
	for _, w := range input {
		if !set[w] {
			return false
		}
	}
	return true
}
