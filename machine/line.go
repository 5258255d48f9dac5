package machine

import (
	"github.com/the-lightning-land/triviad/round"
	"sync"
)

// maxLineLength bounds the line buffer against a device that never sends
// a newline.
const maxLineLength = 64

// lineDecoder accumulates raw device bytes into lines and keeps the lines
// that name an answer key. Everything else is dropped.
type lineDecoder struct {
	mu  sync.Mutex
	buf []byte
	// overflow marks a line that outgrew the buffer; it is dropped whole.
	overflow bool
}

func (d *lineDecoder) Feed(p []byte) []round.Key {
	d.mu.Lock()
	defer d.mu.Unlock()

	var keys []round.Key

	for _, b := range p {
		if b != '\n' {
			if len(d.buf) < maxLineLength {
				d.buf = append(d.buf, b)
			} else {
				d.overflow = true
			}
			continue
		}

		if !d.overflow {
			if key, ok := round.ParseKey(string(d.buf)); ok {
				keys = append(keys, key)
			}
		}

		d.buf = d.buf[:0]
		d.overflow = false
	}

	return keys
}
