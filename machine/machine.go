package machine

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/triviad/round"
)

// ErrStopped is returned by WaitForToken once the machine was stopped.
var ErrStopped = errors.New("machine stopped")

// Machine is the physical answer box: three buttons and the actuators that
// accompany spoken feedback.
type Machine interface {
	Start() error
	Stop() error
	// Signal drives the actuators. Failures are logged, never returned.
	Signal(sig Signal)
	// WaitForToken blocks until a button was pressed or ctx is done.
	WaitForToken(ctx context.Context) (round.Key, error)
	// Inject feeds a raw input line as if it came from the device.
	Inject(ctx context.Context, line string) error
	SubscribeSignals() *SignalClient
}

func waitForToken(ctx context.Context, tokens <-chan round.Key, done <-chan struct{}) (round.Key, error) {
	select {
	case key := <-tokens:
		return key, nil
	case <-ctx.Done():
		return round.KeyNone, ctx.Err()
	case <-done:
		return round.KeyNone, ErrStopped
	}
}

func deliverToken(ctx context.Context, tokens chan<- round.Key, done <-chan struct{}, key round.Key) error {
	select {
	case tokens <- key:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return ErrStopped
	}
}
