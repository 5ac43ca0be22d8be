package theme

// Event is a payload-free change notification.
type Event int

const (
	// EventListChanged signals that the set of visible theme names changed.
	EventListChanged Event = iota + 1
	// EventContentChanged signals that a visible theme's content changed.
	EventContentChanged
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventListChanged:
		return "list-changed"
	case EventContentChanged:
		return "content-changed"
	default:
		return "unknown"
	}
}

// subscriberBuffer is the per-subscriber channel capacity. Events beyond it
// are dropped for that subscriber.
const subscriberBuffer = 16

// Subscribe returns a channel that receives change events.
func (m *Manager) Subscribe() <-chan Event {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if m.subsClosed {
		close(ch)
		return ch
	}
	m.subscribers = append(m.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (m *Manager) Unsubscribe(ch <-chan Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// notify sends events to all subscribers without blocking.
func (m *Manager) notify(events ...Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for _, ev := range events {
		m.logger.Debug("theme event", "event", ev.String())
		for _, ch := range m.subscribers {
			select {
			case ch <- ev:
			default:
				// Channel full, skip
			}
		}
	}
}

// closeSubscribers closes every subscriber channel.
func (m *Manager) closeSubscribers() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for _, ch := range m.subscribers {
		close(ch)
	}
	m.subscribers = nil
	m.subsClosed = true
}
