package eventsys

import "container/heap"

type eventQueue []Event

func (eq eventQueue) Len() int { return len(eq) }

func (eq eventQueue) Less(i, j int) bool {
	return eq[i].Time() < eq[j].Time()
}

func (eq eventQueue) Swap(i, j int) {
	eq[i], eq[j] = eq[j], eq[i]
}

func (eq *eventQueue) Push(x interface{}) {
	*eq = append(*eq, x.(Event))
}

func (eq *eventQueue) Pop() interface{} {
	old := *eq
	n := len(old)
	event := old[n-1]
	*eq = old[0 : n-1]
	return event
}

// An Engine is the unit that maintains all scheduled events and runs
// them in tick order. It is single-threaded and cooperative: Run
// advances exactly one event at a time, matching the ordering
// guarantees a host simulator provides to a Controller.
type Engine struct {
	now   Tick
	queue eventQueue
}

// NewEngine creates a new event-driven engine starting at tick 0.
func NewEngine() *Engine {
	e := new(Engine)
	e.queue = make(eventQueue, 0, 16)
	heap.Init(&e.queue)

	return e
}

// Now returns the engine's current tick.
func (engine *Engine) Now() Tick {
	return engine.CurTick()
}

// CurTick returns the engine's current tick. It satisfies prefetch.Clock,
// letting an Engine be handed directly to prefetch.NewController.
func (engine *Engine) CurTick() Tick {
	return engine.now
}

// ScheduleAt registers event to fire at the given absolute tick. Ticks
// in the past relative to Now are accepted and fire on the next Run;
// the Controller never schedules into the past under normal use.
func (engine *Engine) ScheduleAt(event Event, tick Tick) {
	event.SetTime(tick)
	heap.Push(&engine.queue, event)
}

// HasMoreEvent reports whether any event remains scheduled.
func (engine *Engine) HasMoreEvent() bool {
	return len(engine.queue) > 0
}

// Run pops the earliest-scheduled event, advances Now to its tick, and
// invokes its Handler. It is a no-op if no event is scheduled.
func (engine *Engine) Run() error {
	if len(engine.queue) == 0 {
		return nil
	}

	event := heap.Pop(&engine.queue).(Event)
	engine.now = event.Time()

	return event.Handler().Handle(event)
}

// RunAll drains the queue, running events in tick order until none
// remain or a Handler returns an error.
func (engine *Engine) RunAll() error {
	for engine.HasMoreEvent() {
		if err := engine.Run(); err != nil {
			return err
		}
	}

	return nil
}

// Reset discards all scheduled events and resets Now to 0.
func (engine *Engine) Reset() {
	engine.queue = make(eventQueue, 0, 16)
	heap.Init(&engine.queue)
	engine.now = 0
}
