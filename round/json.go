package round

import (
	"encoding/json"
	"github.com/go-errors/errors"
)

// record is the wire shape of the shared state record.
type record struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	Status        string            `json:"status"`
	Message       string            `json:"message"`
	CorrectAnswer string            `json:"correct_answer"`
	UserAnswer    string            `json:"user_answer"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	r := record{
		Question:      s.Question,
		Options:       make(map[string]string, len(Keys)),
		Status:        string(s.Status),
		Message:       s.Message,
		CorrectAnswer: string(s.CorrectAnswer),
		UserAnswer:    string(s.UserAnswer),
	}

	for _, k := range Keys {
		r.Options[string(k)] = s.Options[k]
	}

	return json.Marshal(&r)
}

// UnmarshalJSON decodes a record and runs it through NewSnapshot, so a
// decoded snapshot satisfies the same invariants as a constructed one.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}

	options := make(map[Key]string, len(r.Options))
	for k, v := range r.Options {
		key, ok := ParseKey(k)
		if !ok {
			return errors.Errorf("unknown option key %q", k)
		}
		options[key] = v
	}

	correct, user := Key(r.CorrectAnswer), Key(r.UserAnswer)
	if k, ok := ParseKey(r.CorrectAnswer); ok {
		correct = k
	}
	if k, ok := ParseKey(r.UserAnswer); ok {
		user = k
	}

	snapshot, err := NewSnapshot(r.Question, options, Status(r.Status), correct, user, r.Message)
	if err != nil {
		return err
	}

	*s = *snapshot

	return nil
}
