package attachment

import (
	"sync"

	"github.com/julien-sobczak/the-notewriter-live/internal/medias"
)

// Mailbox collects results posted by workers until the owner drains them.
type Mailbox struct {
	mu      sync.Mutex
	results []medias.Result
	notify  chan struct{}
}

func NewMailbox() *Mailbox {
	return &Mailbox{
		notify: make(chan struct{}, 1),
	}
}

// Post never blocks.
func (m *Mailbox) Post(result medias.Result) {
	m.mu.Lock()
	m.results = append(m.results, result)
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Drain returns the pending results in posting order.
func (m *Mailbox) Drain() []medias.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := m.results
	m.results = nil
	return results
}

// Notify is signaled when new results are available.
func (m *Mailbox) Notify() <-chan struct{} {
	return m.notify
}
