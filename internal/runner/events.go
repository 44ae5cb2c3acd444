package runner

import (
	"sync"
	"time"

	"github.com/hperssn/reflex/internal/domain"
)

type PhaseEvent struct {
	ID        string       `json:"id"`
	SessionID string       `json:"sessionId"`
	From      domain.Phase `json:"from"`
	To        domain.Phase `json:"to"`
	Trigger   string       `json:"trigger"`
	At        time.Time    `json:"at"`
	Snapshot  Snapshot     `json:"snapshot"`
}

const subscriberBuffer = 16

type broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan PhaseEvent
	closed bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan PhaseEvent)}
}

func (b *broadcaster) subscribe() (<-chan PhaseEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan PhaseEvent, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// publish never blocks; a subscriber with a full buffer misses the event.
func (b *broadcaster) publish(ev PhaseEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
