package machine

import (
	"bytes"
	"context"
	"errors"
	"github.com/the-lightning-land/triviad/round"
	"io"
	"sync"
	"testing"
	"time"
)

type fakePort struct {
	r *io.PipeReader
	w *io.PipeWriter

	mtx     sync.Mutex
	written bytes.Buffer
	closed  bool
}

func newFakePort() *fakePort {
	r, w := io.Pipe()
	return &fakePort{r: r, w: w}
}

func (p *fakePort) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.mtx.Lock()
	p.closed = true
	p.mtx.Unlock()

	return p.r.Close()
}

func (p *fakePort) Closed() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.closed
}

func (p *fakePort) String() string {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.written.String()
}

func TestSerialSimulationMode(t *testing.T) {
	s := NewSerial(&SerialConfig{Port: "/dev/does-not-exist", BaudRate: 1200})
	s.open = func(string, int) (io.ReadWriteCloser, error) {
		return nil, errors.New("no such device")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if !s.Simulated() {
		t.Fatal("expected simulation mode")
	}

	s.Signal(Alarm)
	s.Signal(AllOff)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go func() {
		_ = s.Inject(ctx, "nope")
		_ = s.Inject(ctx, "b")
	}()

	key, err := s.WaitForToken(ctx)
	if err != nil {
		t.Fatalf("WaitForToken: %v", err)
	}

	if key != round.KeyB {
		t.Fatalf("WaitForToken() = %q, want B", key)
	}
}

func TestSerialReadsPort(t *testing.T) {
	port := newFakePort()

	s := NewSerial(&SerialConfig{Port: "fake", BaudRate: 1200})
	s.open = func(string, int) (io.ReadWriteCloser, error) {
		return port, nil
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if s.Simulated() {
		t.Fatal("unexpected simulation mode")
	}

	go func() {
		_, _ = port.w.Write([]byte("garbage\nx"))
		_, _ = port.w.Write([]byte("\nc\r\n"))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	key, err := s.WaitForToken(ctx)
	if err != nil {
		t.Fatalf("WaitForToken: %v", err)
	}

	if key != round.KeyC {
		t.Fatalf("WaitForToken() = %q, want C", key)
	}

	s.Signal(Speaking)
	s.Signal(AllOff)

	if got := port.String(); got != "010\n000\n" {
		t.Fatalf("written = %q", got)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestSerialWaitCancels(t *testing.T) {
	s := NewSerial(&SerialConfig{Port: "none"})
	s.open = func(string, int) (io.ReadWriteCloser, error) {
		return nil, errors.New("absent")
	}
	_ = s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := s.WaitForToken(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitForToken() error = %v, want deadline exceeded", err)
	}

	_ = s.Stop()

	if _, err := s.WaitForToken(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("WaitForToken() after Stop error = %v, want ErrStopped", err)
	}
}

func TestSignalSubscription(t *testing.T) {
	s := NewSerial(&SerialConfig{Port: "none"})
	s.open = func(string, int) (io.ReadWriteCloser, error) {
		return nil, errors.New("absent")
	}
	_ = s.Start()
	defer s.Stop()

	client := s.SubscribeSignals()

	s.Signal(Alarm)
	s.Signal(AllOff)

	if got := <-client.Signals; got != Alarm {
		t.Fatalf("first signal = %v", got)
	}

	if got := <-client.Signals; got != AllOff {
		t.Fatalf("second signal = %v", got)
	}

	client.Cancel()

	if _, ok := <-client.Signals; ok {
		t.Fatal("expected closed channel after Cancel")
	}
}

func TestSerialFallsBackAfterReadError(t *testing.T) {
	port := newFakePort()

	s := NewSerial(&SerialConfig{Port: "/dev/ttyUSB0", BaudRate: 1200})
	s.open = func(string, int) (io.ReadWriteCloser, error) {
		return port, nil
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if s.Simulated() {
		t.Fatal("unexpected simulation mode")
	}

	// device unplugged
	port.w.CloseWithError(errors.New("device disconnected"))

	deadline := time.Now().Add(time.Second)
	for !s.Simulated() {
		if time.Now().After(deadline) {
			t.Fatal("serial did not fall back to simulation mode")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if !port.Closed() {
		t.Fatal("port was not closed")
	}

	s.Signal(Alarm)

	if got := port.String(); got != "" {
		t.Fatalf("signal written to a disconnected port: %q", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.Inject(ctx, "b"); err != nil {
		t.Fatalf("Inject: %v", err)
	}

	key, err := s.WaitForToken(ctx)
	if err != nil || key != round.KeyB {
		t.Fatalf("WaitForToken() = %v, %v", key, err)
	}
}
