package prefetch_test

import (
	"math/rand"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/banditprefetch/eventsys"
	"github.com/sarchlab/banditprefetch/prefetch"
)

var _ = Describe("Controller", func() {
	var (
		cache     *fakeCache
		cpu       *fakeCPU
		clock     *fakeClock
		scheduler *fakeScheduler
	)

	BeforeEach(func() {
		cache = &fakeCache{}
		cpu = &fakeCPU{}
		clock = &fakeClock{}
		scheduler = &fakeScheduler{}
	})

	newController := func(children []prefetch.Child, currentAction int) *prefetch.Controller {
		return prefetch.NewController(prefetch.Params{
			FallbackName:  "L2",
			Children:      children,
			CurrentAction: currentAction,
			TicksPerEpoch: 100,
			LearningRate:  0.1,
			ExploreRate:   0.1,
			CPU:           cpu,
			Cache:         cache,
			PersistPath:   filepath.Join(GinkgoT().TempDir(), "qtable.bin"),
			Rand:          rand.New(rand.NewSource(1)),
		}, clock, scheduler)
	}

	Describe("Scenario A: no children configured", func() {
		It("stays OFF and never emits candidates", func() {
			ctrl := newController(nil, -1)
			ctrl.Startup()

			Expect(ctrl.CurrentAction().IsOff()).To(BeTrue())

			cands := ctrl.CalculatePrefetch(prefetch.AccessInfo{Addr: 0x100}, nil)
			Expect(cands).To(BeEmpty())

			ctrl.Handle(nil)

			Expect(ctrl.CurrentAction().IsOff()).To(BeTrue())
		})
	})

	Describe("epoch state machine", func() {
		It("schedules exactly one epoch event per Startup and per Handle", func() {
			ctrl := newController(nil, -1)
			ctrl.Startup()

			Expect(scheduler.scheduled).To(HaveLen(1))
			Expect(scheduler.scheduled[0]).To(Equal(eventsys.Tick(100)))

			clock.tick = 100
			ctrl.Handle(nil)

			Expect(scheduler.scheduled).To(HaveLen(2))
			Expect(scheduler.scheduled[1]).To(Equal(eventsys.Tick(200)))
		})
	})

	Describe("routing and attribution", func() {
		It("only emits candidates from the currently selected child, but trains every child", func() {
			childA := &fakeChild{childName: "A", candidates: []prefetch.Candidate{{Addr: 0x10}}}
			childB := &fakeChild{childName: "B", candidates: []prefetch.Candidate{{Addr: 0x20}}}

			ctrl := newController([]prefetch.Child{childA, childB}, 0)
			ctrl.Startup()

			cands := ctrl.CalculatePrefetch(prefetch.AccessInfo{Addr: 0x1000}, nil)

			Expect(childA.calls).To(Equal(1))
			Expect(childB.calls).To(Equal(1))

			Expect(cands).To(HaveLen(1))
			Expect(cands[0].Addr).To(Equal(uint64(0x10)))

			Expect(ctrl.Stats().Children[0].Issued).To(Equal(uint64(1)))
			Expect(ctrl.Stats().Children[1].Issued).To(Equal(uint64(0)))
		})

		It("credits the issuing child when a later access hits a tracked prefetch", func() {
			childA := &fakeChild{childName: "A", candidates: []prefetch.Candidate{{Addr: 0x10}}}

			ctrl := newController([]prefetch.Child{childA}, 0)
			ctrl.Startup()

			ctrl.CalculatePrefetch(prefetch.AccessInfo{Addr: 0x1000}, nil)
			ctrl.Notify(prefetch.AccessInfo{Addr: 0x10, Miss: false})

			Expect(ctrl.Stats().Children[0].Useful).To(Equal(uint64(1)))

			// A second hit on the same address credits nothing further.
			ctrl.Notify(prefetch.AccessInfo{Addr: 0x10, Miss: false})
			Expect(ctrl.Stats().Children[0].Useful).To(Equal(uint64(1)))
		})

		It("marks a repeated candidate for the same address as redundant", func() {
			childA := &fakeChild{childName: "A", candidates: []prefetch.Candidate{{Addr: 0x10}}}

			ctrl := newController([]prefetch.Child{childA}, 0)
			ctrl.Startup()

			ctrl.CalculatePrefetch(prefetch.AccessInfo{Addr: 0x1000}, nil)
			ctrl.CalculatePrefetch(prefetch.AccessInfo{Addr: 0x1040}, nil)

			Expect(ctrl.Stats().Children[0].Issued).To(Equal(uint64(1)))
			Expect(ctrl.Stats().Children[0].Redundant).To(Equal(uint64(1)))
		})
	})

	Describe("epoch algorithm", func() {
		It("publishes a snapshot and persists the Q-table on every epoch", func() {
			store := &fakeStore{}
			persistPath := filepath.Join(GinkgoT().TempDir(), "qtable.bin")

			ctrl := prefetch.NewController(prefetch.Params{
				FallbackName:  "L2",
				TicksPerEpoch: 50,
				LearningRate:  0.1,
				ExploreRate:   0.1,
				CPU:           cpu,
				Cache:         cache,
				Store:         store,
				PersistPath:   persistPath,
				Rand:          rand.New(rand.NewSource(1)),
			}, clock, scheduler)

			ctrl.Startup()

			cache.accesses, cache.misses = 100, 40
			cpu.totalOps = 1000
			clock.tick = 50

			ctrl.Handle(nil)

			snap := ctrl.Latest()
			Expect(snap.Epoch).To(Equal(uint64(1)))
			Expect(snap.RawMissRate).To(BeNumerically("~", 0.4, 1e-9))
			Expect(store.snapshots).To(HaveLen(1))
			Expect(persistPath).To(BeAnExistingFile())
		})
	})
})
