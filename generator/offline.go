package generator

import (
	"context"
	"fmt"
	"github.com/the-lightning-land/triviad/round"
	"math/rand/v2"
	"slices"
)

// Compile time check for protocol compatibility
var _ Generator = (*Offline)(nil)

// Offline serves rounds from a built-in question bank. It needs no
// network and is used for demos and tests.
type Offline struct {
	rnd *rand.Rand
}

func NewOffline(seed uint64) *Offline {
	return &Offline{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

var bank = []Question{
	{Text: "What is 2 + 2?", Options: round.Options{"3", "4", "5"}, Answer: round.KeyB},
	{Text: "Which planet is known as the Red Planet?", Options: round.Options{"Mars", "Venus", "Jupiter"}, Answer: round.KeyA},
	{Text: "How many legs does a spider have?", Options: round.Options{"Six", "Ten", "Eight"}, Answer: round.KeyC},
	{Text: "Which gas do plants absorb from the air?", Options: round.Options{"Oxygen", "Carbon dioxide", "Helium"}, Answer: round.KeyB},
	{Text: "In which year did the first moon landing happen?", Options: round.Options{"1969", "1972", "1959"}, Answer: round.KeyA},
	{Text: "Which language is the Go gopher the mascot of?", Options: round.Options{"Rust", "Java", "Go"}, Answer: round.KeyC},
	{Text: "What is the largest ocean on Earth?", Options: round.Options{"Atlantic", "Pacific", "Indian"}, Answer: round.KeyB},
	{Text: "Who painted the Mona Lisa?", Options: round.Options{"Leonardo da Vinci", "Michelangelo", "Raphael"}, Answer: round.KeyA},
}

var (
	praise = []string{"Nailed it!", "Correct, you absolute genius.", "Right again, show-off."}
	roasts = []string{"HAHA! Wrong! Even a toddler knows that!", "Wrong. My toaster knew that one.", "Nope. Did you press that with your elbow?"}
)

func (o *Offline) Topics(_ context.Context) ([3]string, error) {
	var topics [3]string

	for i, j := range o.rnd.Perm(len(vibes))[:len(topics)] {
		topics[i] = vibes[j]
	}

	return topics, nil
}

// Question picks a bank entry that is not in history. Once the bank is
// exhausted questions repeat.
func (o *Offline) Question(_ context.Context, topic string, history []string) (*Question, error) {
	var fresh []Question

	for _, q := range bank {
		if !slices.Contains(history, q.Text) {
			fresh = append(fresh, q)
		}
	}

	if len(fresh) == 0 {
		fresh = bank
	}

	q := fresh[o.rnd.IntN(len(fresh))]

	return &q, nil
}

func (o *Offline) Feedback(_ context.Context, correct bool, chosen, answer round.Key) (string, error) {
	if correct {
		return praise[o.rnd.IntN(len(praise))], nil
	}

	return fmt.Sprintf("%s You said %s, it was %s.", roasts[o.rnd.IntN(len(roasts))], chosen, answer), nil
}
