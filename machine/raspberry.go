package machine

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/triviad/round"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
	"sync"
	"time"
)

const (
	edgeTimeout = 100 * time.Millisecond
	debounce    = 200 * time.Millisecond
)

// Compile time check for protocol compatibility
var _ Machine = (*Raspberry)(nil)

type RaspberryConfig struct {
	ButtonAPin string
	ButtonBPin string
	ButtonCPin string
	MotorPin   string
	SpeakPin   string
	LightPin   string
	Logger     Logger
}

// Raspberry is an answer box wired directly to the GPIO header.
type Raspberry struct {
	config *RaspberryConfig
	log    Logger

	buttons map[round.Key]gpio.PinIO
	motor   gpio.PinIO
	speak   gpio.PinIO
	light   gpio.PinIO

	outMtx  sync.Mutex
	decoder lineDecoder
	tokens  chan round.Key
	signals signalHub
	done    chan struct{}
	wg      sync.WaitGroup
	stop    sync.Once
}

func NewRaspberry(config *RaspberryConfig) *Raspberry {
	r := &Raspberry{
		config: config,
		tokens: make(chan round.Key, 1),
		done:   make(chan struct{}),
	}

	if config.Logger != nil {
		r.log = config.Logger
	} else {
		r.log = noopLogger{}
	}

	return r
}

func pinByName(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, errors.Errorf("could not find pin %v", name)
	}

	return pin, nil
}

func (r *Raspberry) Start() error {
	if _, err := host.Init(); err != nil {
		return errors.Errorf("could not initialize periph: %v", err)
	}

	r.buttons = make(map[round.Key]gpio.PinIO, len(round.Keys))

	for key, name := range map[round.Key]string{
		round.KeyA: r.config.ButtonAPin,
		round.KeyB: r.config.ButtonBPin,
		round.KeyC: r.config.ButtonCPin,
	} {
		pin, err := pinByName(name)
		if err != nil {
			return err
		}

		if err := pin.In(gpio.PullDown, gpio.RisingEdge); err != nil {
			return errors.Errorf("could not set up button pin %v: %v", name, err)
		}

		r.buttons[key] = pin
	}

	var err error

	if r.motor, err = pinByName(r.config.MotorPin); err != nil {
		return err
	}

	if r.speak, err = pinByName(r.config.SpeakPin); err != nil {
		return err
	}

	if r.light, err = pinByName(r.config.LightPin); err != nil {
		return err
	}

	r.Signal(AllOff)

	for key, pin := range r.buttons {
		r.wg.Add(1)
		go r.watchButton(key, pin)
	}

	return nil
}

func (r *Raspberry) watchButton(key round.Key, pin gpio.PinIO) {
	defer r.wg.Done()

	var last time.Time

	for {
		select {
		case <-r.done:
			return
		default:
		}

		if !pin.WaitForEdge(edgeTimeout) {
			continue
		}

		if time.Since(last) < debounce {
			continue
		}

		last = time.Now()
		r.log.Debugf("Button %v pressed", key)

		if err := deliverToken(context.Background(), r.tokens, r.done, key); err != nil {
			return
		}
	}
}

func (r *Raspberry) Stop() error {
	r.stop.Do(func() {
		close(r.done)
		r.wg.Wait()

		if r.motor != nil {
			r.Signal(AllOff)
		}

		r.signals.closeAll()
	})

	return nil
}

func (r *Raspberry) Signal(sig Signal) {
	r.signals.broadcast(sig)

	if r.motor == nil {
		r.log.Infof("Signal %v (pins not set up)", sig)
		return
	}

	r.outMtx.Lock()
	defer r.outMtx.Unlock()

	for _, out := range []struct {
		pin gpio.PinIO
		on  bool
	}{
		{r.motor, sig.Shake},
		{r.speak, sig.Speak},
		{r.light, sig.Light},
	} {
		if err := out.pin.Out(gpio.Level(out.on)); err != nil {
			r.log.Errorf("Could not set pin %v: %v", out.pin, err)
		}
	}
}

func (r *Raspberry) WaitForToken(ctx context.Context) (round.Key, error) {
	return waitForToken(ctx, r.tokens, r.done)
}

func (r *Raspberry) Inject(ctx context.Context, line string) error {
	for _, key := range r.decoder.Feed([]byte(line + "\n")) {
		if err := deliverToken(ctx, r.tokens, r.done, key); err != nil {
			return err
		}
	}

	return nil
}

func (r *Raspberry) SubscribeSignals() *SignalClient {
	return r.signals.Subscribe()
}
