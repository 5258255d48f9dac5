// Package render shows the shared round record. It only ever reads the
// record and never talks back to the game.
package render

import (
	"context"
	"github.com/the-lightning-land/triviad/round"
	"github.com/the-lightning-land/triviad/statedb"
	"time"
)

const DefaultInterval = 500 * time.Millisecond

// View draws a snapshot. A nil snapshot means the game has not published
// anything readable yet.
type View interface {
	Render(snapshot *round.Snapshot) error
}

type PollerConfig struct {
	Store    statedb.Store
	View     View
	Interval time.Duration
	Logger   Logger
}

// Poller re-reads the record on a fixed interval and hands it to the view.
type Poller struct {
	store    statedb.Store
	view     View
	interval time.Duration
	log      Logger
}

func NewPoller(config *PollerConfig) *Poller {
	p := &Poller{
		store:    config.Store,
		view:     config.View,
		interval: config.Interval,
	}

	if p.interval <= 0 {
		p.interval = DefaultInterval
	}

	if config.Logger != nil {
		p.log = config.Logger
	} else {
		p.log = noopLogger{}
	}

	return p
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.poll()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll() {
	snapshot, ok := p.store.ReadLatest()
	if !ok {
		snapshot = nil
	}

	if err := p.view.Render(snapshot); err != nil {
		p.log.Errorf("Could not render: %v", err)
	}
}
