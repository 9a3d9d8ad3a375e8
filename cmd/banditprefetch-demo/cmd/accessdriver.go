package cmd

import (
	"math/rand"

	"github.com/sarchlab/banditprefetch/eventsys"
	"github.com/sarchlab/banditprefetch/prefetch"
)

// accessDriver periodically feeds one synthetic access into the cache
// and controller, and advances the synthetic CPU's op counter. It
// reschedules itself every tick, independent of the controller's own
// epoch scheduling.
type accessDriver struct {
	eventsys.EventBase

	scheduler prefetch.Scheduler
	cache     *syntheticCache
	ctrl      *prefetch.Controller
	cpu       *syntheticCPU

	rng      *rand.Rand
	nextAddr uint64
}

func newAccessDriver(
	scheduler prefetch.Scheduler, cache *syntheticCache, ctrl *prefetch.Controller, cpu *syntheticCPU,
) *accessDriver {
	d := &accessDriver{
		scheduler: scheduler,
		cache:     cache,
		ctrl:      ctrl,
		cpu:       cpu,
		rng:       rand.New(rand.NewSource(3)),
	}
	d.EventBase = eventsys.NewEventBase(0, d)

	return d
}

func (d *accessDriver) Handle(e eventsys.Event) error {
	addr := d.nextAddr
	d.nextAddr += 64

	missed := d.cache.recordAccess(d.rng, 0.3)

	d.ctrl.CalculatePrefetch(prefetch.AccessInfo{Addr: addr, Miss: missed}, nil)
	d.ctrl.Notify(prefetch.AccessInfo{Addr: addr, Miss: missed})

	if d.cpu != nil {
		d.cpu.advance(1)
	}

	next := e.Time() + 1
	newEvt := eventsys.NewEventBase(next, d)
	d.scheduler.ScheduleAt(&newEvt, next)

	return nil
}
