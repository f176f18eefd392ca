package session

// Event is a notification raised by the store or catalog so observers (e.g.
// a UI) can react without polling.
type Event interface{ event() }

// ListChangedEvent signals that the catalog's cached session list was
// replaced.
type ListChangedEvent struct{}

// SavedEvent signals the outcome of a save for one session.
type SavedEvent struct {
	SessionID string
	OK        bool
}

// LoadedEvent signals the outcome of a load for one session. Recovered is
// set when the content came from the backup document.
type LoadedEvent struct {
	SessionID string
	OK        bool
	Recovered bool
}

func (ListChangedEvent) event() {}
func (SavedEvent) event()       {}
func (LoadedEvent) event()      {}

// Notifier delivers events to subscribed handlers by direct call. It is not
// safe for concurrent use; all operations in this package execute on the
// host's single control thread.
type Notifier struct {
	handlers []func(Event)
}

// Subscribe registers a handler for all events.
func (n *Notifier) Subscribe(fn func(Event)) {
	n.handlers = append(n.handlers, fn)
}

func (n *Notifier) publish(e Event) {
	if n == nil {
		return
	}
	for _, fn := range n.handlers {
		fn(e)
	}
}
