package api

import (
	"github.com/gorilla/websocket"
	"net/http"
	"time"
)

type signalEvent struct {
	Signal string `json:"signal"`
	Shake  bool   `json:"shake"`
	Speak  bool   `json:"speak"`
	Light  bool   `json:"light"`
}

func (a *Api) handleGetSignalEvents() http.HandlerFunc {
	upgrader := &websocket.Upgrader{}

	return func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			a.log.Errorf("Could not upgrade connection: %v", err)
			return
		}

		client := a.machine.SubscribeSignals()

		closed := make(chan struct{})

		// read pump
		go func() {
			defer close(closed)

			c.SetReadLimit(512)
			c.SetReadDeadline(time.Now().Add(60 * time.Second))
			c.SetPongHandler(func(string) error {
				c.SetReadDeadline(time.Now().Add(60 * time.Second))
				return nil
			})

			for {
				_, _, err := c.ReadMessage()
				if err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						a.log.Errorf("unexpected websocket closure: %v", err)
					}
					break
				}
			}
		}()

		// write pump
		defer c.Close()
		defer client.Cancel()

		ticker := time.NewTicker(54 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case sig, ok := <-client.Signals:
				c.SetWriteDeadline(time.Now().Add(10 * time.Second))

				if !ok {
					c.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}

				err := c.WriteJSON(&signalEvent{
					Signal: sig.String(),
					Shake:  sig.Shake,
					Speak:  sig.Speak,
					Light:  sig.Light,
				})
				if err != nil {
					return
				}
			case <-ticker.C:
				c.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	}
}
