// Package pointer dispatches terminal mouse clicks to document-level listeners,
// the way a page routes clicks through capture-phase handlers before the
// element that was hit gets to react.
package pointer

// Rect is a screen region in terminal cells.
type Rect struct {
	X, Y int
	W, H int
}

// Contains reports whether the cell at (x, y) lies inside the region.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether the region covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Event is a single click travelling through the document. A listener that
// consumes the click sets Handled so later listeners can ignore it.
type Event struct {
	X, Y    int
	Handled bool
}

// Listener wraps a click handler. Listeners are compared by pointer, so the
// same *Listener must be passed to Add and Remove.
type Listener struct {
	Name string
	Fn   func(*Event)
}

// NewListener creates a listener around fn.
func NewListener(name string, fn func(*Event)) *Listener {
	return &Listener{Name: name, Fn: fn}
}

// Document holds the capture-phase listeners in registration order.
type Document struct {
	listeners []*Listener
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Add registers l. Registering a listener that is already present is a no-op.
func (d *Document) Add(l *Listener) {
	if l == nil || d.Has(l) {
		return
	}
	d.listeners = append(d.listeners, l)
}

// AddFirst registers l ahead of every other listener, so it sees each click
// first. A listener already registered is moved to the front.
func (d *Document) AddFirst(l *Listener) {
	if l == nil {
		return
	}
	d.Remove(l)
	d.listeners = append([]*Listener{l}, d.listeners...)
}

// Remove unregisters l if present.
func (d *Document) Remove(l *Listener) {
	for i, existing := range d.listeners {
		if existing == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

// Has reports whether l is registered.
func (d *Document) Has(l *Listener) bool {
	for _, existing := range d.listeners {
		if existing == l {
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (d *Document) Len() int {
	return len(d.listeners)
}

// Dispatch runs the listeners registered at the time of the call, in order.
// A listener removed by an earlier one during the same event is skipped; one
// added during the event first sees the next click.
func (d *Document) Dispatch(ev *Event) {
	snapshot := append([]*Listener(nil), d.listeners...)
	for _, l := range snapshot {
		if l.Fn == nil || !d.Has(l) {
			continue
		}
		l.Fn(ev)
	}
}
