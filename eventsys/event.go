// Package eventsys provides a minimal, host-agnostic discrete-event
// scheduling substrate. A prefetch.Controller does not know about any
// particular simulator; it only needs something that can hand it back
// a Tick value and invoke its Handler at the right time. Any host that
// wraps this Engine, or implements the same small set of interfaces
// directly, can drive a Controller.
package eventsys

// Tick is the unit of simulated time used throughout this module. It is
// an opaque, monotonically increasing counter — not wall-clock time.
type Tick uint64

// An Event is something scheduled to happen at a specific Tick.
type Event interface {
	Time() Tick
	SetTime(t Tick)
	Handler() Handler
}

// A Handler reacts to an Event scheduled for it.
//
// Akita requires that a component can only schedule events for itself.
// The Controller schedules its own epoch event and is the sole handler
// of it.
type Handler interface {
	Handle(e Event) error
}

// EventBase provides the common fields and accessors for concrete events.
type EventBase struct {
	time    Tick
	handler Handler
}

// NewEventBase creates an EventBase bound to handler, to fire at t.
func NewEventBase(t Tick, handler Handler) EventBase {
	return EventBase{time: t, handler: handler}
}

// Time returns the tick at which the event should fire.
func (e EventBase) Time() Tick { return e.time }

// SetTime updates the tick at which the event should fire.
func (e *EventBase) SetTime(t Tick) { e.time = t }

// Handler returns the handler responsible for the event.
func (e EventBase) Handler() Handler { return e.handler }

// HookPos names a position in a Handler's lifecycle at which a Hook may
// be invoked.
type HookPos struct {
	Name string
}

// HookPosBeforeEpoch fires immediately before a Controller runs its
// per-epoch algorithm.
var HookPosBeforeEpoch = &HookPos{Name: "BeforeEpoch"}

// HookPosAfterEpoch fires immediately after a Controller commits an
// epoch's state and re-schedules itself.
var HookPosAfterEpoch = &HookPos{Name: "AfterEpoch"}

// HookCtx carries the information about the site at which a Hook fired.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
}

// Hookable is anything that accepts Hooks.
type Hookable interface {
	AcceptHook(h Hook)
}

// A Hook is a short piece of program invoked by a Hookable at one of its
// HookPos positions. A Controller invokes its hooks around each epoch;
// external observers (a live dashboard, an extra logger) attach through
// this mechanism instead of being wired directly into the Controller.
type Hook interface {
	Func(ctx HookCtx)
}

// HookableBase provides the bookkeeping needed to implement Hookable.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// InvokeHook runs every registered hook with ctx, in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
