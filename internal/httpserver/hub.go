package httpserver

import (
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/ricky2013dev/smithpjt-verify/internal/animator"
	"github.com/ricky2013dev/smithpjt-verify/internal/ledger"
	"github.com/ricky2013dev/smithpjt-verify/internal/script"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is one dashboard update pushed over the stream socket.
type Event struct {
	Type    string           `json:"type"`
	Session string           `json:"session,omitempty"`
	Speaker script.Speaker   `json:"speaker,omitempty"`
	Text    string           `json:"text,omitempty"`
	On      bool             `json:"on,omitempty"`
	State   string           `json:"state,omitempty"`
	Step    int              `json:"step,omitempty"`
	Status  string           `json:"status,omitempty"`
	Records []ledger.Record  `json:"records,omitempty"`
	Overlay []animator.State `json:"overlay,omitempty"`
}

// message is a framed payload for one subscriber: JSON text or binary PCM.
type message struct {
	binary bool
	data   []byte
}

// hub fans session events out to stream subscribers. Slow subscribers drop
// messages rather than stalling the engine.
type hub struct {
	mu   sync.Mutex
	subs map[chan message]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[chan message]struct{})}
}

func (h *hub) subscribe() chan message {
	ch := make(chan message, 256)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(ch chan message) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *hub) publish(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	h.broadcast(message{data: data})
}

func (h *hub) publishPCM(pcm []byte) {
	h.broadcast(message{binary: true, data: pcm})
}

func (h *hub) broadcast(m message) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- m:
		default:
		}
	}
	h.mu.Unlock()
}

// hubSink adapts the hub to the speech audio sink: synthesized PCM rides the
// same socket as the transcript events, as binary frames.
type hubSink struct{ h *hub }

func (s hubSink) WritePCM(pcm []byte) { s.h.publishPCM(pcm) }
func (s hubSink) Reset()              {}
