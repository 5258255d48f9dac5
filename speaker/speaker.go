package speaker

import (
	"context"
	"github.com/go-errors/errors"
	"os/exec"
	"strings"
	"time"
)

// Speaker voices a line of text. Speak returns once playback has ended,
// failed or ctx was cancelled.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

type CommandConfig struct {
	// Command is split on whitespace; the text is appended as last argument.
	Command string
	Logger  Logger
}

// Command speaks through an external text-to-speech program such as espeak.
type Command struct {
	name string
	args []string
	log  Logger
}

// Compile time check for protocol compatibility
var _ Speaker = (*Command)(nil)

func NewCommand(config *CommandConfig) (*Command, error) {
	fields := strings.Fields(config.Command)
	if len(fields) == 0 {
		return nil, errors.New("no speaker command given")
	}

	c := &Command{
		name: fields[0],
		args: fields[1:],
	}

	if config.Logger != nil {
		c.log = config.Logger
	} else {
		c.log = noopLogger{}
	}

	return c, nil
}

func (c *Command) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	c.log.Debugf("Speaking %q", text)

	args := append(append([]string(nil), c.args...), text)

	out, err := exec.CommandContext(ctx, c.name, args...).CombinedOutput()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err != nil {
		return errors.Errorf("could not run %v: %v: %s", c.name, err, strings.TrimSpace(string(out)))
	}

	return nil
}

type SilentConfig struct {
	// PerWord is how long each word pretends to take.
	PerWord time.Duration
	// Max caps a single line.
	Max    time.Duration
	Logger Logger
}

// Silent only logs the text and waits roughly as long as reading it out
// would take.
type Silent struct {
	perWord time.Duration
	max     time.Duration
	log     Logger
}

// Compile time check for protocol compatibility
var _ Speaker = (*Silent)(nil)

func NewSilent(config *SilentConfig) *Silent {
	s := &Silent{
		perWord: config.PerWord,
		max:     config.Max,
	}

	if config.Logger != nil {
		s.log = config.Logger
	} else {
		s.log = noopLogger{}
	}

	return s
}

func (s *Silent) duration(text string) time.Duration {
	d := time.Duration(len(strings.Fields(text))) * s.perWord
	if s.max > 0 && d > s.max {
		d = s.max
	}

	return d
}

func (s *Silent) Speak(ctx context.Context, text string) error {
	s.log.Infof("Speaking %q", text)

	d := s.duration(text)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
