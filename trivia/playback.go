package trivia

import (
	"context"
	"github.com/the-lightning-land/triviad/machine"
)

// playback is a line being spoken in the background.
type playback struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// play voices text and resets the actuators afterwards, whatever the
// outcome of the playback.
func (g *Game) play(ctx context.Context, text string) {
	defer g.machine.Signal(machine.AllOff)

	if err := g.speaker.Speak(ctx, text); err != nil && ctx.Err() == nil {
		g.log.Warnf("Could not play audio: %v", err)
	}
}

// announce voices text and returns when playback has ended.
func (g *Game) announce(text string, sig machine.Signal) {
	g.stopPlayback()
	g.machine.Signal(sig)
	g.play(g.ctx, text)
}

// announceAsync voices text without waiting for it. A later announcement
// cuts it short.
func (g *Game) announceAsync(text string, sig machine.Signal) {
	g.stopPlayback()

	ctx, cancel := context.WithCancel(g.ctx)
	p := &playback{cancel: cancel, done: make(chan struct{})}
	g.playback = p

	// the start signal goes out before we return
	g.machine.Signal(sig)

	go func() {
		defer close(p.done)
		defer cancel()

		g.play(ctx, text)
	}()
}

// stopPlayback cancels the background announcement, if any, and waits for
// its reset signal.
func (g *Game) stopPlayback() {
	if g.playback == nil {
		return
	}

	g.playback.cancel()
	<-g.playback.done
	g.playback = nil
}
