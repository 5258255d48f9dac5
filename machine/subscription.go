package machine

import "sync"

// signalBacklog is how many signals a slow subscriber may fall behind
// before signals are dropped for it.
const signalBacklog = 16

type SignalClient struct {
	Signals chan Signal
	Id      uint32
	hub     *signalHub
}

func (c *SignalClient) Cancel() {
	c.hub.remove(c.Id)
}

type signalHub struct {
	mtx     sync.Mutex
	nextId  uint32
	clients map[uint32]*SignalClient
}

func (h *signalHub) Subscribe() *SignalClient {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.clients == nil {
		h.clients = make(map[uint32]*SignalClient)
	}

	client := &SignalClient{
		Signals: make(chan Signal, signalBacklog),
		Id:      h.nextId,
		hub:     h,
	}

	h.nextId++
	h.clients[client.Id] = client

	return client
}

func (h *signalHub) remove(id uint32) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if client, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(client.Signals)
	}
}

func (h *signalHub) broadcast(sig Signal) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	for _, client := range h.clients {
		select {
		case client.Signals <- sig:
		default:
		}
	}
}

func (h *signalHub) closeAll() {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Signals)
	}
}
