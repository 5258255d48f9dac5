package trivia

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/triviad/generator"
	"github.com/the-lightning-land/triviad/machine"
	"github.com/the-lightning-land/triviad/round"
	"github.com/the-lightning-land/triviad/speaker"
	"github.com/the-lightning-land/triviad/statedb"
	"time"
)

const (
	topicPrompt  = "Select a Topic"
	topicMessage = "Press A, B, or C."

	questionMessage = "Press the correct button!"
)

type Config struct {
	Machine   machine.Machine
	Store     statedb.Store
	Generator generator.Generator
	Speaker   speaker.Speaker
	Logger    Logger
	// HistorySize bounds how many asked questions are remembered. Zero
	// remembers all of them.
	HistorySize int
	// AnswerTimeout re-prompts the player after this long without input.
	// Zero waits forever.
	AnswerTimeout time.Duration
}

// Game runs the round loop. It owns the round state and is the only writer
// of the shared state record.
type Game struct {
	machine       machine.Machine
	store         statedb.Store
	generator     generator.Generator
	speaker       speaker.Speaker
	log           Logger
	answerTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	history  *round.History
	playback *playback

	state    State
	topic    string
	question *generator.Question
	answer   round.Key
}

func NewGame(config *Config) *Game {
	ctx, cancel := context.WithCancel(context.Background())

	g := &Game{
		machine:       config.Machine,
		store:         config.Store,
		generator:     config.Generator,
		speaker:       config.Speaker,
		answerTimeout: config.AnswerTimeout,
		ctx:           ctx,
		cancel:        cancel,
		history:       round.NewHistory(config.HistorySize),
		state:         SelectTopic,
	}

	if config.Logger != nil {
		g.log = config.Logger
	} else {
		g.log = noopLogger{}
	}

	return g
}

// Run blocks until Shutdown is called.
func (g *Game) Run() error {
	g.log.Infof("Starting game...")

	defer g.stopPlayback()

	for {
		err := g.step()

		if g.ctx.Err() != nil {
			g.log.Infof("Stopped game in state %v", g.state)
			return nil
		}

		if err != nil {
			return errors.Errorf("failed in state %v: %v", g.state, err)
		}

		g.state = g.state.Next()
	}
}

func (g *Game) Shutdown() {
	g.cancel()
}

func (g *Game) step() error {
	g.log.Debugf("Entering state %v", g.state)

	switch g.state {
	case SelectTopic:
		return g.selectTopic()
	case GenerateQuestion:
		g.generateQuestion()
		return nil
	case AwaitAnswer:
		return g.awaitAnswer()
	case Evaluate:
		g.evaluate()
		return nil
	default:
		return errors.Errorf("unknown state %v", g.state)
	}
}

func (g *Game) selectTopic() error {
	g.log.Infof("Generating topics...")

	topics, err := g.generator.Topics(g.ctx)
	if err == nil {
		err = generator.ValidateTopics(topics)
	}
	if err != nil {
		g.log.Warnf("Could not generate topics, using fallback: %v", err)
		topics = generator.FallbackTopics
	}

	options := round.Options(topics)

	g.publish(topicPrompt, options.Map(), round.StatusWaiting, round.KeyNone, round.KeyNone, topicMessage)
	g.announceAsync(topicPrompt, machine.Speaking)

	key, err := g.waitForToken(topicPrompt)
	if err != nil {
		return err
	}

	g.topic = options.Map()[key]
	g.question = nil
	g.answer = round.KeyNone

	g.log.Infof("Selected topic %q", g.topic)

	return nil
}

func (g *Game) generateQuestion() {
	g.log.Infof("Generating question for %q...", g.topic)

	q, err := g.generator.Question(g.ctx, g.topic, g.history.Items())
	if err == nil {
		err = q.Validate()
	}
	if err != nil {
		g.log.Warnf("Could not generate question, using fallback: %v", err)
		q = generator.FallbackQuestion()
	}

	g.question = q
	g.answer = round.KeyNone
	g.history.Add(q.Text)

	g.publish(q.Text, q.Options.Map(), round.StatusWaitingForAnswer, round.KeyNone, round.KeyNone, questionMessage)
	g.announceAsync(q.Text, machine.Speaking)
}

func (g *Game) awaitAnswer() error {
	key, err := g.waitForToken(g.question.Text)
	if err != nil {
		return err
	}

	g.answer = key

	return nil
}

func (g *Game) evaluate() {
	q := g.question
	correct := g.answer.Equal(q.Answer)

	status := round.StatusWrong
	if correct {
		status = round.StatusCorrect
	}

	g.log.Infof("Answer %v, correct answer %v: %v", g.answer, q.Answer, status)

	feedback, err := g.generator.Feedback(g.ctx, correct, g.answer, q.Answer)
	if err != nil {
		g.log.Warnf("Could not generate feedback, using fallback: %v", err)
		feedback = generator.FallbackFeedback(correct, q.Answer)
	} else if feedback == "" {
		g.log.Warnf("Generator returned empty feedback, using fallback")
		feedback = generator.FallbackFeedback(correct, q.Answer)
	}

	g.publish(q.Text, q.Options.Map(), status, q.Answer, g.answer, feedback)

	sig := machine.Speaking
	if !correct {
		sig = machine.Alarm
	}

	g.announce(feedback, sig)
}

// waitForToken blocks for a button press. With an answer timeout set the
// prompt is repeated every time the timeout elapses.
func (g *Game) waitForToken(prompt string) (round.Key, error) {
	for {
		ctx, cancel := g.ctx, context.CancelFunc(func() {})
		if g.answerTimeout > 0 {
			ctx, cancel = context.WithTimeout(g.ctx, g.answerTimeout)
		}

		key, err := g.machine.WaitForToken(ctx)
		cancel()

		if err == nil {
			g.log.Infof("Received %v", key)
			return key, nil
		}

		if g.ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			g.log.Infof("No answer after %v, prompting again", g.answerTimeout)
			g.announceAsync(prompt, machine.Speaking)
			continue
		}

		return round.KeyNone, err
	}
}

func (g *Game) publish(question string, options map[round.Key]string, status round.Status, correct, user round.Key, message string) {
	snapshot, err := round.NewSnapshot(question, options, status, correct, user, message)
	if err != nil {
		g.log.Errorf("Could not build snapshot: %v", err)
		return
	}

	if err := g.store.Publish(snapshot); err != nil {
		g.log.Errorf("Could not publish snapshot: %v", err)
		return
	}

	g.log.Infof("Published %v: %q %v %q", status, question, snapshot.Options, message)
}
