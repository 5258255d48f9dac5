package machine

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/triviad/round"
	"go.bug.st/serial"
	"io"
	"sync"
	"time"
)

// pollInterval is the read timeout of the port, short enough that a button
// press feels immediate.
const pollInterval = 50 * time.Millisecond

// Compile time check for protocol compatibility
var _ Machine = (*Serial)(nil)

type SerialConfig struct {
	Port     string
	BaudRate int
	Logger   Logger
}

// Serial talks to the answer box over a serial line. If the port cannot be
// opened it runs in simulation mode: signals are only logged and input
// arrives through Inject.
type Serial struct {
	name     string
	baudRate int
	log      Logger
	open     func(name string, baudRate int) (io.ReadWriteCloser, error)

	// writeMtx guards port and simulated
	writeMtx  sync.Mutex
	port      io.ReadWriteCloser
	simulated bool

	decoder lineDecoder
	tokens  chan round.Key
	signals signalHub
	done    chan struct{}
	wg      sync.WaitGroup
	stop    sync.Once
}

func NewSerial(config *SerialConfig) *Serial {
	s := &Serial{
		name:     config.Port,
		baudRate: config.BaudRate,
		open:     openSerialPort,
		tokens:   make(chan round.Key, 1),
		done:     make(chan struct{}),
	}

	if config.Logger != nil {
		s.log = config.Logger
	} else {
		s.log = noopLogger{}
	}

	return s
}

func openSerialPort(name string, baudRate int) (io.ReadWriteCloser, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}

	if err := port.SetReadTimeout(pollInterval); err != nil {
		_ = port.Close()
		return nil, errors.Errorf("could not set read timeout: %v", err)
	}

	return port, nil
}

// Start opens the port. A missing device is not an error.
func (s *Serial) Start() error {
	port, err := s.open(s.name, s.baudRate)
	if err != nil {
		s.log.Warnf("Could not open serial port %v: %v. Running in simulation mode.", s.name, err)

		s.writeMtx.Lock()
		s.simulated = true
		s.writeMtx.Unlock()

		return nil
	}

	s.writeMtx.Lock()
	s.port = port
	s.writeMtx.Unlock()

	s.log.Infof("Connected to %v at %v baud", s.name, s.baudRate)

	s.wg.Add(1)
	go s.readLoop(port)

	return nil
}

func (s *Serial) Stop() error {
	var err error

	s.stop.Do(func() {
		close(s.done)

		if cerr := s.disconnect(); cerr != nil {
			err = errors.Errorf("could not close serial port: %v", cerr)
		}

		s.wg.Wait()
		s.signals.closeAll()
	})

	return err
}

func (s *Serial) Simulated() bool {
	s.writeMtx.Lock()
	defer s.writeMtx.Unlock()

	return s.simulated
}

// disconnect closes the port once. Later signals are only logged.
func (s *Serial) disconnect() error {
	s.writeMtx.Lock()
	defer s.writeMtx.Unlock()

	if s.port == nil {
		return nil
	}

	err := s.port.Close()
	s.port = nil

	return err
}

func (s *Serial) readLoop(port io.Reader) {
	defer s.wg.Done()

	buf := make([]byte, 64)

	for {
		n, err := port.Read(buf)
		if n > 0 {
			for _, key := range s.decoder.Feed(buf[:n]) {
				s.log.Debugf("Received %v", key)

				if err := deliverToken(context.Background(), s.tokens, s.done, key); err != nil {
					return
				}
			}
		}

		select {
		case <-s.done:
			return
		default:
		}

		// an empty read without error means the read timeout elapsed
		if err != nil {
			s.log.Errorf("Could not read from serial port: %v. Running in simulation mode.", err)

			if cerr := s.disconnect(); cerr != nil {
				s.log.Errorf("Could not close serial port: %v", cerr)
			}

			s.writeMtx.Lock()
			s.simulated = true
			s.writeMtx.Unlock()

			return
		}
	}
}

// Signal writes the encoded signal to the device.
func (s *Serial) Signal(sig Signal) {
	s.signals.broadcast(sig)

	s.writeMtx.Lock()
	defer s.writeMtx.Unlock()

	if s.port == nil {
		s.log.Infof("Signal %v (hardware not connected)", sig)
		return
	}

	if _, err := s.port.Write(sig.Encode()); err != nil {
		s.log.Errorf("Could not write signal %v: %v", sig, err)
		return
	}

	s.log.Debugf("Sent signal %v", sig)
}

func (s *Serial) WaitForToken(ctx context.Context) (round.Key, error) {
	s.log.Debugf("Listening for input (A/B/C)...")
	return waitForToken(ctx, s.tokens, s.done)
}

// Inject runs line through the same decoder as the port's input.
func (s *Serial) Inject(ctx context.Context, line string) error {
	for _, key := range s.decoder.Feed([]byte(line + "\n")) {
		if err := deliverToken(ctx, s.tokens, s.done, key); err != nil {
			return err
		}
	}

	return nil
}

func (s *Serial) SubscribeSignals() *SignalClient {
	return s.signals.Subscribe()
}
