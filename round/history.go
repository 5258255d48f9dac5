package round

// History keeps the texts of previously asked questions, oldest first.
// A positive limit keeps only the most recent entries.
type History struct {
	limit int
	items []string
}

func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}

	return &History{limit: limit}
}

func (h *History) Add(question string) {
	h.items = append(h.items, question)

	if h.limit > 0 && len(h.items) > h.limit {
		// copy down so the backing array does not keep growing
		n := copy(h.items, h.items[len(h.items)-h.limit:])
		h.items = h.items[:n]
	}
}

func (h *History) Len() int {
	return len(h.items)
}

// Items returns a copy of the recorded questions.
func (h *History) Items() []string {
	items := make([]string, len(h.items))
	copy(items, h.items)
	return items
}
