package desktop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/syntheme/internal/theme"
)

const (
	// DBusInterface is the interface theme signals are emitted on.
	DBusInterface = "io.github.jmylchreest.Syntheme"
	// DBusPath is the default object path theme signals are emitted from.
	DBusPath = dbus.ObjectPath("/io/github/jmylchreest/Syntheme")

	// SignalListChanged is emitted when the set of theme names changes.
	SignalListChanged = "ListChanged"
	// SignalContentChanged is emitted when a theme's content changes.
	SignalContentChanged = "ContentChanged"
)

// emitter is the part of *dbus.Conn the Broadcaster needs.
type emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...any) error
}

// signalForEvent maps a manager event to its signal member name.
func signalForEvent(ev theme.Event) (string, bool) {
	switch ev {
	case theme.EventListChanged:
		return SignalListChanged, true
	case theme.EventContentChanged:
		return SignalContentChanged, true
	default:
		return "", false
	}
}

// eventForSignal maps a fully qualified signal name back to a manager event.
func eventForSignal(name string) (theme.Event, bool) {
	switch name {
	case DBusInterface + "." + SignalListChanged:
		return theme.EventListChanged, true
	case DBusInterface + "." + SignalContentChanged:
		return theme.EventContentChanged, true
	default:
		return 0, false
	}
}

// Broadcaster emits manager events as session-bus signals.
type Broadcaster struct {
	conn    emitter
	path    dbus.ObjectPath
	manager *theme.Manager
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	events  <-chan theme.Event
	doneCh  chan struct{}
}

// NewBroadcaster creates a Broadcaster emitting from path on conn.
func NewBroadcaster(conn *dbus.Conn, path dbus.ObjectPath, m *theme.Manager, logger *slog.Logger) *Broadcaster {
	return newBroadcaster(conn, path, m, logger)
}

func newBroadcaster(conn emitter, path dbus.ObjectPath, m *theme.Manager, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = DBusPath
	}
	return &Broadcaster{
		conn:    conn,
		path:    path,
		manager: m,
		logger:  logger,
	}
}

// Export publishes introspection data for the signal interface on conn so
// tools like busctl can discover it.
func Export(conn *dbus.Conn, path dbus.ObjectPath) error {
	node := &introspect.Node{
		Name: string(path),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Signals: themeSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}
	return nil
}

// Start subscribes to the manager and emits a signal per event until ctx
// is done, Stop is called, or the manager closes.
func (b *Broadcaster) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return
	}
	b.running = true
	b.events = b.manager.Subscribe()
	b.doneCh = make(chan struct{})

	go b.loop(ctx, b.events, b.doneCh)
	b.logger.Debug("theme signal broadcaster started", "path", b.path)
}

// Stop unsubscribes from the manager and waits for the emit loop to exit.
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	events, done := b.events, b.doneCh
	b.mu.Unlock()

	b.manager.Unsubscribe(events)
	<-done
	b.logger.Debug("theme signal broadcaster stopped")
}

func (b *Broadcaster) loop(ctx context.Context, events <-chan theme.Event, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := b.Emit(ev); err != nil {
				b.logger.Warn("failed to emit theme signal", "event", ev.String(), "error", err)
			}
		}
	}
}

// Emit sends the signal for ev.
func (b *Broadcaster) Emit(ev theme.Event) error {
	member, ok := signalForEvent(ev)
	if !ok {
		return fmt.Errorf("no signal for event %d", ev)
	}
	if b.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := b.conn.Emit(b.path, DBusInterface+"."+member); err != nil {
		return fmt.Errorf("failed to emit %s signal: %w", member, err)
	}

	b.logger.Debug("emitted theme signal", "signal", member)
	return nil
}

// Listener refreshes a manager when another process announces a theme
// change on the session bus.
type Listener struct {
	conn    *dbus.Conn
	manager *theme.Manager
	logger  *slog.Logger

	signals chan *dbus.Signal
	doneCh  chan struct{}
}

// NewListener creates a Listener on conn.
func NewListener(conn *dbus.Conn, m *theme.Manager, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		conn:    conn,
		manager: m,
		logger:  logger,
	}
}

// Start adds the match rule and processes signals until ctx is done.
func (l *Listener) Start(ctx context.Context) error {
	if err := l.conn.AddMatchSignal(dbus.WithMatchInterface(DBusInterface)); err != nil {
		return fmt.Errorf("failed to add match rule: %w", err)
	}

	l.signals = make(chan *dbus.Signal, 16)
	l.doneCh = make(chan struct{})
	l.conn.Signal(l.signals)

	go l.loop(ctx)
	l.logger.Debug("theme signal listener started", "interface", DBusInterface)
	return nil
}

// Wait blocks until the listener loop exits.
func (l *Listener) Wait() {
	if l.doneCh != nil {
		<-l.doneCh
	}
}

func (l *Listener) loop(ctx context.Context) {
	defer close(l.doneCh)
	defer l.conn.RemoveSignal(l.signals)

	self := l.conn.Names()
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-l.signals:
			if !ok {
				return
			}
			if len(self) > 0 && sig.Sender == self[0] {
				continue
			}
			ev, ok := eventForSignal(sig.Name)
			if !ok {
				continue
			}
			l.logger.Debug("theme signal received", "event", ev.String(), "sender", sig.Sender)
			if err := l.manager.Refresh(); err != nil {
				l.logger.Warn("failed to refresh themes", "error", err)
			}
		}
	}
}

// themeSignals returns the D-Bus signal introspection data.
func themeSignals() []introspect.Signal {
	return []introspect.Signal{
		{Name: SignalListChanged},
		{Name: SignalContentChanged},
	}
}
