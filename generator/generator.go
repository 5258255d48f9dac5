// Package generator produces the text of a trivia round: topic choices,
// questions and the spoken reaction to an answer.
package generator

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/triviad/round"
	"strings"
)

// Generator is the content source of the game. Any call may fail; callers
// are expected to fall back to the values in this package.
type Generator interface {
	// Topics returns three pairwise distinct short topic labels.
	Topics(ctx context.Context) ([3]string, error)
	// Question returns a question about topic that avoids the texts in history.
	Question(ctx context.Context, topic string, history []string) (*Question, error)
	// Feedback returns a one sentence reaction to the player's answer.
	Feedback(ctx context.Context, correct bool, chosen, answer round.Key) (string, error)
}

type Question struct {
	Text    string
	Options round.Options
	Answer  round.Key
}

func (q *Question) Validate() error {
	if q == nil {
		return errors.New("no question")
	}

	if strings.TrimSpace(q.Text) == "" {
		return errors.New("question text is empty")
	}

	if !q.Answer.Valid() {
		return errors.Errorf("invalid answer key %q", q.Answer)
	}

	return nil
}

// ValidateTopics checks that all topics are set and pairwise distinct.
func ValidateTopics(topics [3]string) error {
	seen := make(map[string]bool, len(topics))

	for _, topic := range topics {
		t := strings.ToLower(strings.TrimSpace(topic))
		if t == "" {
			return errors.New("empty topic")
		}

		if seen[t] {
			return errors.Errorf("duplicate topic %q", topic)
		}

		seen[t] = true
	}

	return nil
}

// FallbackTopics are offered when no topics could be generated.
var FallbackTopics = [3]string{"Science", "History", "Pop Culture"}

// FallbackQuestion is asked when no question could be generated.
func FallbackQuestion() *Question {
	return &Question{
		Text:    "Who is the 'father' of Python? (Fallback)",
		Options: round.Options{"Guido van Rossum", "Elon Musk", "Jeff Bezos"},
		Answer:  round.KeyA,
	}
}

// FallbackFeedback is spoken when no feedback could be generated.
func FallbackFeedback(correct bool, answer round.Key) string {
	if correct {
		return "Correct!"
	}

	return "Wrong! The answer was " + string(answer) + "."
}
