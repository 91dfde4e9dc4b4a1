package widget

import (
	"github.com/julianstephens/slackfeedback/internal/logger"
	"github.com/julianstephens/slackfeedback/internal/pointer"
)

// Toggle closes an open widget and opens a closed one.
func (w *Widget) Toggle() {
	if w.open {
		w.Close()
	} else {
		w.Activate()
	}
}

// Activate opens the panel and starts listening for clicks outside it.
func (w *Widget) Activate() {
	if w.opts.Disabled {
		return
	}
	w.open = true
	w.doc.Add(w.outside)
	logger.Debug("Registered outside-click listener", "listeners", w.doc.Len())
}

// Close hides the panel and stops listening for outside clicks.
func (w *Widget) Close() {
	w.open = false
	w.doc.Remove(w.outside)
	logger.Debug("Unregistered outside-click listener", "listeners", w.doc.Len())
}

// IsOpen reports whether the panel is shown.
func (w *Widget) IsOpen() bool { return w.open }

// ListeningForOutsideClicks reports whether the outside-click listener is registered.
func (w *Widget) ListeningForOutsideClicks() bool { return w.doc.Has(w.outside) }

func (w *Widget) handleClickOutside(ev *pointer.Event) {
	if ev.Handled {
		return
	}
	if !w.bounds.Contains(ev.X, ev.Y) {
		w.Close()
	}
}
