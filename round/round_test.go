package round

import (
	"encoding/json"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
		ok   bool
	}{
		{"A", KeyA, true},
		{"b", KeyB, true},
		{"  c\r", KeyC, true},
		{"D", KeyNone, false},
		{"AB", KeyNone, false},
		{"", KeyNone, false},
	}

	for _, tt := range tests {
		got, ok := ParseKey(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseKey(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewSnapshotFillsOptions(t *testing.T) {
	s, err := NewSnapshot("q", map[Key]string{KeyA: "one", KeyC: "  "}, StatusWaiting, KeyNone, KeyNone, "")
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	if len(s.Options) != 3 {
		t.Fatalf("len(Options) = %d, want 3", len(s.Options))
	}

	if s.Options[KeyA] != "one" || s.Options[KeyB] != Placeholder || s.Options[KeyC] != Placeholder {
		t.Fatalf("Options = %v", s.Options)
	}
}

func TestNewSnapshotRejectsInvalid(t *testing.T) {
	if _, err := NewSnapshot("q", nil, Status("done"), KeyNone, KeyNone, ""); err == nil {
		t.Error("expected error for unknown status")
	}

	if _, err := NewSnapshot("q", nil, StatusCorrect, Key("D"), KeyNone, ""); err == nil {
		t.Error("expected error for unknown correct answer")
	}

	if _, err := NewSnapshot("q", nil, StatusWrong, KeyA, Key("x"), ""); err == nil {
		t.Error("expected error for unknown user answer")
	}
}

func TestSnapshotJSON(t *testing.T) {
	s, err := NewSnapshot("2+2?", Options{"3", "4", "5"}.Map(), StatusWrong, KeyB, KeyC, "nope")
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"question", "options", "status", "message", "correct_answer", "user_answer"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("record is missing field %q: %s", name, data)
		}
	}

	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !got.Equal(s) {
		t.Fatalf("decoded %+v, want %+v", got, s)
	}
}

func TestSnapshotJSONNormalizes(t *testing.T) {
	var s Snapshot
	err := json.Unmarshal([]byte(`{"question":"q","options":{"a":"x"},"status":"correct","correct_answer":" b ","user_answer":"b"}`), &s)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if s.CorrectAnswer != KeyB || s.UserAnswer != KeyB {
		t.Errorf("answers = %q/%q, want B/B", s.CorrectAnswer, s.UserAnswer)
	}

	if s.Options[KeyA] != "x" || s.Options[KeyB] != Placeholder {
		t.Errorf("Options = %v", s.Options)
	}

	if err := json.Unmarshal([]byte(`{"status":"paused"}`), &s); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestStatusFinal(t *testing.T) {
	for _, s := range []Status{StatusWaiting, StatusWaitingForAnswer} {
		if !s.Valid() || s.Final() {
			t.Errorf("%v: Valid() = %v, Final() = %v", s, s.Valid(), s.Final())
		}
	}

	for _, s := range []Status{StatusCorrect, StatusWrong} {
		if !s.Valid() || !s.Final() {
			t.Errorf("%v: Valid() = %v, Final() = %v", s, s.Valid(), s.Final())
		}
	}

	if Status("other").Valid() {
		t.Fatal("unknown status reported valid")
	}
}

func TestHistoryBounded(t *testing.T) {
	h := NewHistory(2)
	h.Add("one")
	h.Add("two")
	h.Add("three")

	items := h.Items()
	if len(items) != 2 || items[0] != "two" || items[1] != "three" {
		t.Fatalf("Items() = %v", items)
	}

	items[0] = "changed"
	if h.Items()[0] != "two" {
		t.Fatal("Items() leaked internal slice")
	}
}

func TestHistoryUnbounded(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 100; i++ {
		h.Add("q")
	}

	if h.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", h.Len())
	}
}
