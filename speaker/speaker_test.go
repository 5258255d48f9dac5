package speaker

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

func TestSilentDuration(t *testing.T) {
	s := NewSilent(&SilentConfig{PerWord: 100 * time.Millisecond, Max: time.Second})

	if d := s.duration("one two three"); d != 300*time.Millisecond {
		t.Errorf("duration = %v", d)
	}

	if d := s.duration("a b c d e f g h i j k l m n"); d != time.Second {
		t.Errorf("duration not capped: %v", d)
	}
}

func TestSilentCancel(t *testing.T) {
	s := NewSilent(&SilentConfig{PerWord: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Speak(ctx, "never finishes"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Speak() error = %v, want canceled", err)
	}
}

func TestSilentImmediate(t *testing.T) {
	s := NewSilent(&SilentConfig{})

	if err := s.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
}

func TestNewCommandRequiresCommand(t *testing.T) {
	if _, err := NewCommand(&CommandConfig{Command: "  "}); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestCommandRuns(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}

	c, err := NewCommand(&CommandConfig{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
}

func TestCommandFails(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	c, err := NewCommand(&CommandConfig{Command: "false"})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Speak(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
}
