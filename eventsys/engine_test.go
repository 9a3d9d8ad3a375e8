package eventsys_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/banditprefetch/eventsys"
)

type recordingHandler struct {
	handled []eventsys.Tick
}

func (h *recordingHandler) Handle(e eventsys.Event) error {
	h.handled = append(h.handled, e.Time())
	return nil
}

var _ = Describe("Engine", func() {
	var (
		engine  *eventsys.Engine
		handler *recordingHandler
	)

	BeforeEach(func() {
		engine = eventsys.NewEngine()
		handler = &recordingHandler{}
	})

	It("should start with no event", func() {
		Expect(engine.HasMoreEvent()).To(BeFalse())
	})

	It("should schedule and run an event", func() {
		evt := eventsys.NewTickEvent(10, handler)
		engine.ScheduleAt(&evt, 10)

		Expect(engine.HasMoreEvent()).To(BeTrue())

		Expect(engine.Run()).To(Succeed())
		Expect(handler.handled).To(Equal([]eventsys.Tick{10}))
		Expect(engine.Now()).To(Equal(eventsys.Tick(10)))
	})

	It("should execute events in tick order regardless of schedule order", func() {
		e1 := eventsys.NewTickEvent(10, handler)
		e2 := eventsys.NewTickEvent(0, handler)
		e3 := eventsys.NewTickEvent(5, handler)

		engine.ScheduleAt(&e1, 10)
		engine.ScheduleAt(&e2, 0)
		engine.ScheduleAt(&e3, 5)

		Expect(engine.RunAll()).To(Succeed())
		Expect(handler.handled).To(Equal([]eventsys.Tick{0, 5, 10}))
		Expect(engine.Now()).To(Equal(eventsys.Tick(10)))
	})

	It("should reset to an empty queue at tick 0", func() {
		evt := eventsys.NewTickEvent(3, handler)
		engine.ScheduleAt(&evt, 3)

		engine.Reset()

		Expect(engine.HasMoreEvent()).To(BeFalse())
		Expect(engine.Now()).To(Equal(eventsys.Tick(0)))
	})
})
