package content

import (
	"github.com/Gaurav-Gosain/panels/internal/events"
	"github.com/Gaurav-Gosain/panels/internal/geometry"
)

// Window events a content can listen to.
const (
	EventUpdatePos  = "update-pos"
	EventUpdateSize = "update-size"
)

// Emitter delivers window geometry events to a content.
type Emitter struct {
	bus *events.Bus[string, geometry.Rect]
}

// NewEmitter returns an emitter with no listeners.
func NewEmitter() *Emitter {
	return &Emitter{bus: events.NewBus[string, geometry.Rect]()}
}

// On registers fn for event and returns a func that removes it.
func (e *Emitter) On(event string, fn func(geometry.Rect)) events.UnsubscribeFunc {
	return e.bus.Subscribe(event, fn)
}

// Emit calls every listener of event with rect.
func (e *Emitter) Emit(event string, rect geometry.Rect) {
	e.bus.Publish(event, rect)
}

// Listeners returns the number of listeners for event.
func (e *Emitter) Listeners(event string) int {
	return e.bus.SubscriberCount(event)
}
