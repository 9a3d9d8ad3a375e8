package prefetch

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/sarchlab/banditprefetch/eventsys"
)

// Phase names the controller's position in its epoch state machine:
// IDLE (before Startup), ARMED (an epoch event is scheduled), TICKING
// (inside the epoch handler). The machine cycles ARMED -> TICKING ->
// ARMED for the life of the simulation; there is no terminal state
// beyond the host simply stopping the clock.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmed
	PhaseTicking
)

// Controller is a single bandit controller managing one cache. See
// spec.md for the full behavioral contract; this type is the state
// machine plus the online learner plus the attribution tracker plus
// persistence, wired together.
type Controller struct {
	eventsys.HookableBase

	name      string
	cacheName string

	cache Cache
	cpu   CPU

	children      []Child
	childrenSig   string
	numActions    int
	currentAction Action

	ticksPerEpoch eventsys.Tick
	scheduler     Scheduler
	clock         Clock

	learningRate    float64
	exploreRate     float64
	actionPenalties []float64
	rng             *rand.Rand

	debugLogging bool
	csvLogger    *CSVLogger
	store        EpochHistoryStore
	persistPath  string

	phase Phase

	lastAccesses uint64
	lastMisses   uint64

	lastTotalOps uint64
	lastIPC      float64
	lastIPCTick  eventsys.Tick

	haveSmoothedMiss bool
	smoothedMissRate float64

	epochAccesses uint64
	epochMisses   uint64

	qtable     *QTable
	lastState  State
	lastAction int // bandit index

	attribution *AttributionTable
	stats       *StatRegistry

	epochCount uint64

	mu     sync.Mutex
	latest EpochSnapshot
}

// NewController builds a Controller from p. clock and scheduler are
// typically the same *eventsys.Engine; they are accepted separately so
// tests can substitute fakes for either independently.
func NewController(p Params, clock Clock, scheduler Scheduler) *Controller {
	children := make([]Child, len(p.Children))
	copy(children, p.Children)

	numActions := len(children) + 1

	semanticAction := p.CurrentAction
	if semanticAction < -1 || semanticAction >= len(children) {
		log.Printf("prefetch: controller %q: initial action %d invalid, resetting to 0",
			p.FallbackName, p.CurrentAction)
		semanticAction = 0
	}

	action := actionFromSemantic(semanticAction)

	rng := p.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c := &Controller{
		name:            p.FallbackName,
		cacheName:       p.CacheName,
		cache:           p.Cache,
		cpu:             p.CPU,
		children:        children,
		childrenSig:     childrenSignature(children),
		numActions:      numActions,
		currentAction:   action,
		ticksPerEpoch:   eventsys.Tick(p.TicksPerEpoch),
		scheduler:       scheduler,
		clock:           clock,
		learningRate:    p.LearningRate,
		exploreRate:     p.ExploreRate,
		actionPenalties: normalizeActionPenalties(p.ActionPenalties, numActions),
		rng:             rng,
		debugLogging:    p.DebugLogging,
		csvLogger:       p.CSVLogger,
		store:           p.Store,
		persistPath:     p.PersistPath,
		phase:           PhaseIdle,
		qtable:          NewQTable(numActions),
		attribution:     NewAttributionTable(),
		stats:           NewStatRegistry(numActions, len(children)),
	}

	if c.persistPath == "" {
		c.persistPath = qTableFileName(p.CacheName, p.FallbackName)
	}

	if c.cpu != nil {
		c.lastTotalOps = c.cpu.TotalOps()
	} else {
		log.Printf("prefetch: controller %q: CPU is nil, IPC reward disabled", c.name)
	}

	return c
}

// Startup loads any persisted Q-table, snapshots the initial cache/CPU
// counters, and schedules the first epoch event at now+ticksPerEpoch.
// It must be called exactly once, before the host begins delivering
// ticks.
func (c *Controller) Startup() {
	if table, err := loadQTable(c.persistPath, c.childrenSig, c.numActions); err == nil {
		c.qtable = table
	}

	if c.cache != nil {
		c.lastAccesses = c.cache.RuntimeAccesses()
		c.lastMisses = c.cache.RuntimeMisses()
	} else {
		log.Printf("prefetch: controller %q: cache is nil, miss-based state disabled", c.name)
	}

	if c.cpu != nil {
		c.lastTotalOps = c.cpu.TotalOps()
	}

	c.lastIPCTick = c.clock.CurTick()

	c.scheduleNext()
}

func (c *Controller) scheduleNext() {
	next := c.clock.CurTick() + c.ticksPerEpoch
	evt := eventsys.NewTickEvent(next, c)
	c.scheduler.ScheduleAt(&evt, next)
	c.phase = PhaseArmed
}

// Handle implements eventsys.Handler: it is invoked once per epoch by
// the host scheduler. It runs the epoch algorithm and re-arms exactly
// one new epoch event (invariant 5: no event duplication).
func (c *Controller) Handle(_ eventsys.Event) error {
	c.phase = PhaseTicking

	c.InvokeHook(eventsys.HookCtx{Domain: c, Pos: eventsys.HookPosBeforeEpoch})
	c.runEpoch()
	c.InvokeHook(eventsys.HookCtx{Domain: c, Pos: eventsys.HookPosAfterEpoch, Item: c.latestLocked()})

	c.scheduleNext()

	return nil
}

func (c *Controller) latestLocked() EpochSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.latest
}

// Latest returns the most recently published EpochSnapshot. It is safe
// to call concurrently with Handle; it is the only Controller state a
// caller other than the host scheduler may touch.
func (c *Controller) Latest() EpochSnapshot {
	return c.latestLocked()
}

// Stats returns the controller's live statistics registry.
func (c *Controller) Stats() *StatRegistry {
	return c.stats
}

// CurrentAction returns the semantic action currently in effect.
func (c *Controller) CurrentAction() Action {
	return c.currentAction
}

// runEpoch performs the twelve-step per-epoch algorithm from spec.md
// §4.1.
func (c *Controller) runEpoch() {
	// 1. Observe cache deltas.
	missRate := 0.0

	if c.cache != nil {
		accesses := c.cache.RuntimeAccesses()
		misses := c.cache.RuntimeMisses()

		dAcc := accesses - c.lastAccesses
		dMis := misses - c.lastMisses

		c.lastAccesses = accesses
		c.lastMisses = misses

		if dAcc > 0 {
			missRate = float64(dMis) / float64(dAcc)
		}
	}

	// 2. Observe CPU deltas.
	newIPC := c.lastIPC
	deltaIPC := 0.0

	if c.cpu != nil {
		nowOps := c.cpu.TotalOps()
		now := c.clock.CurTick()
		dt := now - c.lastIPCTick

		if dt > 0 {
			newIPC = float64(nowOps-c.lastTotalOps) / float64(dt)
			deltaIPC = newIPC - c.lastIPC
		}

		c.lastTotalOps = nowOps
		c.lastIPCTick = now
	}

	// 3. Smooth miss rate.
	smoothed, deltaSmoothed := smoothMissRate(missRate, c.smoothedMissRate, c.haveSmoothedMiss)

	prevSmoothed := c.smoothedMissRate
	if !c.haveSmoothedMiss {
		prevSmoothed = smoothed
	}

	c.smoothedMissRate = smoothed
	c.haveSmoothedMiss = true

	// 4. Derive accuracy.
	accuracy := deriveAccuracy(prevSmoothed, smoothed)

	c.lastIPC = newIPC

	// 5. Discretize -> state.
	state := encodeState(deltaSmoothed, deltaIPC, accuracy)

	// 6. Reward.
	reward := 0.5*ipcSign(deltaIPC) + 0.5*(2*accuracy-1)
	if c.lastAction >= 0 && c.lastAction < len(c.actionPenalties) {
		reward -= c.actionPenalties[c.lastAction]
	}

	// 7. Update action-value.
	row := c.qtable.Row(c.lastState)
	row[c.lastAction] += c.learningRate * (reward - row[c.lastAction])

	// 8. Select next action.
	nextBanditIdx := selectBanditIndex(c.qtable, state, c.exploreRate, c.rng)
	nextAction := actionFromBanditIndex(nextBanditIdx, c.numActions)

	// 9. Increment usage counters.
	c.stats.RecordActionUse(nextBanditIdx)

	// 10. Decay exploration rate.
	c.exploreRate *= ExploreDecay
	if c.exploreRate < ExploreMin {
		c.exploreRate = ExploreMin
	}

	c.epochCount++

	snap := EpochSnapshot{
		Epoch:                 c.epochCount,
		Tick:                  c.clock.CurTick(),
		State:                 state,
		RawMissRate:           missRate,
		SmoothedMissRate:      smoothed,
		DeltaSmoothedMissRate: deltaSmoothed,
		IPC:                   newIPC,
		DeltaIPC:              deltaIPC,
		Accuracy:              accuracy,
		Action:                nextAction,
		ExploreRate:           c.exploreRate,
	}

	c.mu.Lock()
	c.latest = snap
	c.mu.Unlock()

	// 11. Optional CSV logging every EpochPrintInterval epochs.
	if c.debugLogging && c.csvLogger != nil && c.epochCount%EpochPrintInterval == 0 {
		c.csvLogger.WriteRow(c.epochCount, snap)
	}

	if c.store != nil {
		c.store.Append(snap)
	}

	// 12. Commit and persist.
	c.currentAction = nextAction
	c.lastState = state
	c.lastAction = nextBanditIdx

	c.epochAccesses = 0
	c.epochMisses = 0

	if err := saveQTable(c.persistPath, c.childrenSig, c.qtable); err != nil {
		log.Printf("prefetch: controller %q: could not save Q-table to %s: %v",
			c.name, c.persistPath, err)
	}
}

// Notify handles a completed cache access. It only ever credits useful
// prefetches and updates debug-only epoch counters; it never forwards
// to children, which are trained solely via the calculatePrefetch
// fan-out below (spec.md §4.3's deliberate asymmetry, to avoid training
// a child twice).
func (c *Controller) Notify(info AccessInfo) {
	c.epochAccesses++
	if info.Miss {
		c.epochMisses++
		return
	}

	childIndex, ok := c.attribution.CreditUseful(info.Addr)
	if ok {
		c.stats.RecordUseful(childIndex)
	}
}

// CalculatePrefetch fans the access out to every child so each can
// update its own internal tables, but only emits candidates from the
// currently-selected child (if any). OFF suppresses emission entirely
// while still letting every child train.
func (c *Controller) CalculatePrefetch(info AccessInfo, view CacheView) []Candidate {
	var out []Candidate

	now := c.clock.CurTick()

	for i, child := range c.children {
		candidates := child.CalculatePrefetch(info, view)

		if c.currentAction.IsOff() || i != c.currentAction.ChildIndex() {
			continue
		}

		for _, cand := range candidates {
			wasRedundant, _ := c.attribution.Track(cand.Addr, i, now)

			if wasRedundant {
				c.stats.RecordRedundant(i)
			} else {
				c.stats.RecordIssued(i)
			}

			out = append(out, cand)
		}
	}

	return out
}
