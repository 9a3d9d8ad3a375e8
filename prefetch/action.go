package prefetch

// Action is the semantic decision a Controller commits to for an epoch:
// either "issue no prefetches" or "route to child i". It is the tagged
// variant recommended in place of overloading a bare integer where -1
// means OFF; the -1 encoding still exists, but only for construction
// parameters and external observers (see Semantic and
// actionFromSemantic). The policy works with bandit indices instead (see
// banditIndexFromAction and actionFromBanditIndex).
type Action struct {
	off   bool
	child int
}

// ActionOff is the decision to suppress prefetching for the epoch,
// while children still see calculatePrefetch calls so they can train.
var ActionOff = Action{off: true}

// ActionChild returns the action that routes prefetches to child i.
func ActionChild(i int) Action {
	return Action{child: i}
}

// IsOff reports whether the action is OFF.
func (a Action) IsOff() bool { return a.off }

// ChildIndex returns the routed child's index. It panics if the action
// is OFF; callers must check IsOff first.
func (a Action) ChildIndex() int {
	if a.off {
		panic("prefetch: ChildIndex called on the OFF action")
	}

	return a.child
}

// Semantic returns the gem5-style semantic encoding: -1 for OFF, else
// the child index. It exists only to satisfy external observers (tests,
// logging) that expect that convention.
func (a Action) Semantic() int {
	if a.off {
		return -1
	}

	return a.child
}

// actionFromSemantic builds an Action from the semantic encoding used at
// construction time and in CSV logs. semantic must be -1 or a valid
// child index; validation is the caller's responsibility.
func actionFromSemantic(semantic int) Action {
	if semantic < 0 {
		return ActionOff
	}

	return ActionChild(semantic)
}

// banditIndexFromAction maps a semantic Action to its bandit index in
// [0,K]: index K (the last slot) means OFF.
func banditIndexFromAction(a Action, numActions int) int {
	if a.off {
		return numActions - 1
	}

	return a.child
}

// actionFromBanditIndex maps a bandit index in [0,K] back to a semantic
// Action: index K (the last slot) means OFF.
func actionFromBanditIndex(idx, numActions int) Action {
	if idx == numActions-1 {
		return ActionOff
	}

	return ActionChild(idx)
}
