package eventsys_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/banditprefetch/eventsys"
)

var _ = Describe("EpochScheduler", func() {
	var (
		engine    *eventsys.Engine
		handler   *recordingHandler
		scheduler *eventsys.EpochScheduler
	)

	BeforeEach(func() {
		engine = eventsys.NewEngine()
		handler = &recordingHandler{}
		scheduler = eventsys.NewEpochScheduler(engine, handler, 1000)
	})

	It("should schedule the first epoch one period from now", func() {
		scheduler.ScheduleNext()
		Expect(engine.Run()).To(Succeed())
		Expect(engine.Now()).To(Equal(eventsys.Tick(1000)))
	})

	It("should re-arm relative to the tick it fires at, not tick 0", func() {
		scheduler.ScheduleNext()
		Expect(engine.Run()).To(Succeed())

		scheduler.ScheduleNext()
		Expect(engine.Run()).To(Succeed())

		Expect(engine.Now()).To(Equal(eventsys.Tick(2000)))
	})
})
