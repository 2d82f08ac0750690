package panel

import (
	"github.com/jakopako/pagetrace/internal/dom"
)

// HistoryClearer is the part of the tracker the clear trigger needs.
type HistoryClearer interface {
	ClearHistory()
}

// Resetter returns a visual log to its empty state.
type Resetter interface {
	Reset()
}

// BindClearTrigger makes clicks on the element with id triggerID, or on
// anything inside it, reset the visual log and clear the history. The
// listener bubbles, so the tracker has already recorded the click when
// it runs. Without such an element the listener never fires.
func BindClearTrigger(host dom.Host, triggerID string, resetter Resetter, clearer HistoryClearer) {
	if triggerID == "" {
		triggerID = DefaultTriggerID
	}
	host.Document().AddEventListener(dom.Click, func(ev dom.Event) {
		me, ok := ev.(*dom.MouseEvent)
		if !ok || !hitsTrigger(me, triggerID) {
			return
		}
		if resetter != nil {
			resetter.Reset()
		}
		clearer.ClearHistory()
	}, false)
}

func hitsTrigger(me *dom.MouseEvent, triggerID string) bool {
	if me.Target != nil && dom.ID(me.Target) == triggerID {
		return true
	}
	for _, hop := range me.Path {
		if el, ok := hop.(dom.Element); ok && dom.ID(el) == triggerID {
			return true
		}
	}
	return false
}
