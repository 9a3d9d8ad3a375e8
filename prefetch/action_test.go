package prefetch

import "testing"

func TestActionOff(t *testing.T) {
	a := ActionOff
	if !a.IsOff() {
		t.Fatalf("ActionOff.IsOff() = false, want true")
	}

	if a.Semantic() != -1 {
		t.Errorf("ActionOff.Semantic() = %d, want -1", a.Semantic())
	}
}

func TestActionChild(t *testing.T) {
	a := ActionChild(2)
	if a.IsOff() {
		t.Fatalf("ActionChild(2).IsOff() = true, want false")
	}

	if a.ChildIndex() != 2 {
		t.Errorf("ChildIndex() = %d, want 2", a.ChildIndex())
	}

	if a.Semantic() != 2 {
		t.Errorf("Semantic() = %d, want 2", a.Semantic())
	}
}

func TestActionChildIndexPanicsOnOff(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("ChildIndex on ActionOff should panic")
		}
	}()

	ActionOff.ChildIndex()
}

func TestActionFromSemantic(t *testing.T) {
	if got := actionFromSemantic(-1); !got.IsOff() {
		t.Errorf("actionFromSemantic(-1) should be OFF")
	}

	if got := actionFromSemantic(3); got.IsOff() || got.ChildIndex() != 3 {
		t.Errorf("actionFromSemantic(3) = %+v, want child 3", got)
	}
}

func TestBanditIndexRoundTrip(t *testing.T) {
	numActions := 4 // 3 children + OFF

	for i := 0; i < numActions-1; i++ {
		a := ActionChild(i)

		idx := banditIndexFromAction(a, numActions)
		if idx != i {
			t.Errorf("banditIndexFromAction(child %d) = %d, want %d", i, idx, i)
		}

		back := actionFromBanditIndex(idx, numActions)
		if back.IsOff() || back.ChildIndex() != i {
			t.Errorf("actionFromBanditIndex(%d) = %+v, want child %d", idx, back, i)
		}
	}

	offIdx := banditIndexFromAction(ActionOff, numActions)
	if offIdx != numActions-1 {
		t.Errorf("banditIndexFromAction(OFF) = %d, want %d", offIdx, numActions-1)
	}

	if back := actionFromBanditIndex(offIdx, numActions); !back.IsOff() {
		t.Errorf("actionFromBanditIndex(%d) = %+v, want OFF", offIdx, back)
	}
}
