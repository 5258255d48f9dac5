package round

import (
	"github.com/go-errors/errors"
	"strings"
)

// Key identifies one of the three answer options.
type Key string

const (
	KeyNone Key = ""
	KeyA    Key = "A"
	KeyB    Key = "B"
	KeyC    Key = "C"
)

// Keys lists the option keys in display order.
var Keys = [3]Key{KeyA, KeyB, KeyC}

// ParseKey trims and upper cases s and returns the matching key.
func ParseKey(s string) (Key, bool) {
	switch k := Key(strings.ToUpper(strings.TrimSpace(s))); k {
	case KeyA, KeyB, KeyC:
		return k, true
	default:
		return KeyNone, false
	}
}

func (k Key) Valid() bool {
	return k == KeyA || k == KeyB || k == KeyC
}

// Equal compares two keys case-insensitively.
func (k Key) Equal(other Key) bool {
	return strings.EqualFold(strings.TrimSpace(string(k)), strings.TrimSpace(string(other)))
}

type Status string

const (
	StatusWaiting          Status = "waiting"
	StatusWaitingForAnswer Status = "waiting_for_answer"
	StatusCorrect          Status = "correct"
	StatusWrong            Status = "wrong"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusWaitingForAnswer, StatusCorrect, StatusWrong:
		return true
	default:
		return false
	}
}

// Final reports whether the status closes a round.
func (s Status) Final() bool {
	return s == StatusCorrect || s == StatusWrong
}

// Placeholder is shown for options the generator left empty.
const Placeholder = "-"

// Snapshot is the complete description of the round currently on display.
// Snapshots are built with NewSnapshot and never modified afterwards.
type Snapshot struct {
	Question      string
	Options       map[Key]string
	Status        Status
	CorrectAnswer Key
	UserAnswer    Key
	Message       string
}

// Options is a helper for building the option map of a snapshot.
type Options [3]string

func (o Options) Map() map[Key]string {
	return map[Key]string{
		KeyA: o[0],
		KeyB: o[1],
		KeyC: o[2],
	}
}

// NewSnapshot validates the given fields and returns a snapshot that always
// carries exactly the keys A, B and C in its options.
func NewSnapshot(question string, options map[Key]string, status Status, correct, user Key, message string) (*Snapshot, error) {
	if !status.Valid() {
		return nil, errors.Errorf("invalid status %q", status)
	}

	if correct != KeyNone && !correct.Valid() {
		return nil, errors.Errorf("invalid correct answer %q", correct)
	}

	if user != KeyNone && !user.Valid() {
		return nil, errors.Errorf("invalid user answer %q", user)
	}

	opts := make(map[Key]string, len(Keys))
	for _, k := range Keys {
		v := strings.TrimSpace(options[k])
		if v == "" {
			v = Placeholder
		}
		opts[k] = v
	}

	return &Snapshot{
		Question:      question,
		Options:       opts,
		Status:        status,
		CorrectAnswer: correct,
		UserAnswer:    user,
		Message:       message,
	}, nil
}

// Equal compares two snapshots field by field.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}

	if s.Question != other.Question || s.Status != other.Status || s.Message != other.Message ||
		s.CorrectAnswer != other.CorrectAnswer || s.UserAnswer != other.UserAnswer {
		return false
	}

	for _, k := range Keys {
		if s.Options[k] != other.Options[k] {
			return false
		}
	}

	return true
}
