package api

import (
	"context"
	"encoding/json"
	"github.com/gorilla/websocket"
	"github.com/the-lightning-land/triviad/machine"
	"github.com/the-lightning-land/triviad/round"
	"github.com/the-lightning-land/triviad/statedb"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestApi(t *testing.T) (*Api, *machine.Serial, statedb.Store) {
	t.Helper()

	m := machine.NewSerial(&machine.SerialConfig{
		Port:     filepath.Join(t.TempDir(), "no-such-tty"),
		BaudRate: 1200,
	})
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = m.Stop() })

	store := statedb.NewFileStore(filepath.Join(t.TempDir(), "current_state.json"))

	return New(&Config{Machine: m, Store: store}), m, store
}

func TestGetRound(t *testing.T) {
	api, _, store := newTestApi(t)

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/round", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	s, err := round.NewSnapshot("2+2?", round.Options{"3", "4", "5"}.Map(), round.StatusWaitingForAnswer, round.KeyNone, round.KeyNone, "go")
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Publish(s); err != nil {
		t.Fatal(err)
	}

	rec = httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/round", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got round.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("could not decode %q: %v", rec.Body.String(), err)
	}

	if !got.Equal(s) {
		t.Fatalf("round = %+v, want %+v", got, s)
	}
}

func TestPostButton(t *testing.T) {
	api, m, _ := newTestApi(t)

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/buttons/b", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	key, err := m.WaitForToken(ctx)
	if err != nil {
		t.Fatalf("WaitForToken: %v", err)
	}

	if key != round.KeyB {
		t.Fatalf("key = %q, want B", key)
	}

	rec = httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/buttons/D", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSignalEvents(t *testing.T) {
	api, m, _ := newTestApi(t)

	srv := httptest.NewServer(api.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/signals/events"

	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	// the subscription is set up right after the upgrade, keep signalling
	// until it is in place
	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.Signal(machine.Alarm)
			}
		}
	}()

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))

	var ev signalEvent
	if err := c.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if ev.Signal != "111" || !ev.Shake || !ev.Speak || !ev.Light {
		t.Fatalf("event = %+v", ev)
	}
}
