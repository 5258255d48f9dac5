package render

import (
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/the-lightning-land/triviad/round"
	"io"
	"strings"
)

const (
	waitingText = "Waiting for orchestrator..."
	cardWidth   = 26
	clearScreen = "\033[H\033[2J"
)

type cardKind int

const (
	cardNeutral cardKind = iota
	cardCorrect
	cardWrong
)

// cardFor decides how the option card for key is highlighted. The correct
// key turns green once the round is decided, the player's key turns red if
// it was wrong.
func cardFor(key round.Key, s *round.Snapshot) cardKind {
	if !s.Status.Final() {
		return cardNeutral
	}

	if key.Equal(s.CorrectAnswer) {
		return cardCorrect
	}

	if s.Status == round.StatusWrong && key.Equal(s.UserAnswer) {
		return cardWrong
	}

	return cardNeutral
}

type styles struct {
	question lipgloss.Style
	cards    map[cardKind]lipgloss.Style
	label    lipgloss.Style
	messages map[round.Status]lipgloss.Style
	waiting  lipgloss.Style
}

func newStyles() *styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(cardWidth).
		Align(lipgloss.Center)

	return &styles{
		question: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ECF0F1")).
			Background(lipgloss.Color("#2C3E50")).
			Padding(1, 3).
			Width(3*(cardWidth+6) - 6).
			Align(lipgloss.Center),
		cards: map[cardKind]lipgloss.Style{
			cardNeutral: card.BorderForeground(lipgloss.Color("#BDC3C7")),
			cardCorrect: card.BorderForeground(lipgloss.Color("#27AE60")).Foreground(lipgloss.Color("#27AE60")),
			cardWrong:   card.BorderForeground(lipgloss.Color("#E74C3C")).Foreground(lipgloss.Color("#E74C3C")),
		},
		label: lipgloss.NewStyle().Bold(true),
		messages: map[round.Status]lipgloss.Style{
			round.StatusCorrect: lipgloss.NewStyle().Italic(true).Bold(true).Foreground(lipgloss.Color("#27AE60")),
			round.StatusWrong:   lipgloss.NewStyle().Italic(true).Bold(true).Foreground(lipgloss.Color("#C0392B")),
		},
		waiting: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#F39C12")),
	}
}

func (s *styles) message(status round.Status) lipgloss.Style {
	if style, ok := s.messages[status]; ok {
		return style
	}

	return lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#7F8C8D"))
}

// Terminal draws the round as coloured cards. It redraws only when the
// snapshot changed since the last call.
type Terminal struct {
	out    io.Writer
	styles *styles
	clear  bool

	drawn bool
	last  *round.Snapshot
}

// NewTerminal returns a view writing to out. With clear set every redraw
// starts on an empty screen.
func NewTerminal(out io.Writer, clear bool) *Terminal {
	return &Terminal{
		out:    out,
		styles: newStyles(),
		clear:  clear,
	}
}

func (t *Terminal) Render(snapshot *round.Snapshot) error {
	if t.drawn && t.last.Equal(snapshot) {
		return nil
	}

	var b strings.Builder

	if t.clear {
		b.WriteString(clearScreen)
	}

	if snapshot == nil {
		b.WriteString(t.styles.waiting.Render(waitingText))
	} else {
		b.WriteString(t.draw(snapshot))
	}

	b.WriteString("\n")

	if _, err := io.WriteString(t.out, b.String()); err != nil {
		return err
	}

	t.drawn = true
	t.last = snapshot

	return nil
}

func (t *Terminal) draw(s *round.Snapshot) string {
	cards := make([]string, 0, len(round.Keys))

	for _, key := range round.Keys {
		text := fmt.Sprintf("%s %s", t.styles.label.Render(string(key)+"."), s.Options[key])
		cards = append(cards, t.styles.cards[cardFor(key, s)].Render(text))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.styles.question.Render(s.Question),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		"",
		t.styles.message(s.Status).Render(s.Message),
	)
}
