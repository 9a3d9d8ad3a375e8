package eventsys_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/banditprefetch/eventsys"
)

type countingHook struct {
	calls []eventsys.HookCtx
}

func (h *countingHook) Func(ctx eventsys.HookCtx) {
	h.calls = append(h.calls, ctx)
}

type hookableThing struct {
	eventsys.HookableBase
}

var _ = Describe("EventBase", func() {
	It("should report its time and handler", func() {
		h := &recordingHandler{}
		e := eventsys.NewEventBase(7, h)

		Expect(e.Time()).To(Equal(eventsys.Tick(7)))
		Expect(e.Handler()).To(Equal(h))
	})

	It("should allow its time to be changed", func() {
		e := eventsys.NewEventBase(0, nil)
		e.SetTime(42)
		Expect(e.Time()).To(Equal(eventsys.Tick(42)))
	})
})

var _ = Describe("HookableBase", func() {
	It("should invoke no hooks when none are registered", func() {
		var thing hookableThing
		thing.InvokeHook(eventsys.HookCtx{Pos: eventsys.HookPosBeforeEpoch})
	})

	It("should invoke every registered hook, in order", func() {
		var thing hookableThing
		first := &countingHook{}
		second := &countingHook{}

		thing.AcceptHook(first)
		thing.AcceptHook(second)

		ctx := eventsys.HookCtx{Domain: &thing, Pos: eventsys.HookPosAfterEpoch}
		thing.InvokeHook(ctx)

		Expect(first.calls).To(Equal([]eventsys.HookCtx{ctx}))
		Expect(second.calls).To(Equal([]eventsys.HookCtx{ctx}))
	})
})
