package prefetch

// State is a packed discretization of an epoch's observations:
// accBin*100 + missBin*10 + ipcBin. It stays sparse in the QTable —
// only observed states get a row — even though its 45-value range is
// bounded.
type State uint64

// Smoothing and accuracy-mapping constants, taken verbatim from the
// ml_prefetch_controller.cc constants of the same name.
const (
	missSmoothAlpha = 0.3
	accMaxSpan      = 0.2
)

// ObservationSnapshot holds everything computed from one epoch's raw
// counters, before it is folded into a State.
type ObservationSnapshot struct {
	RawMissRate           float64
	SmoothedMissRate      float64
	DeltaSmoothedMissRate float64
	IPC                   float64
	DeltaIPC              float64
	Accuracy              float64
}

// missBin discretizes deltaSmoothedMissRate per spec:
//
//	(-inf,-0.10) -> 0, [-0.10,-0.02) -> 1, [-0.02,0.02) -> 2,
//	[0.02,0.10) -> 3, [0.10,+inf) -> 4.
func missBin(d float64) int {
	switch {
	case d < -0.10:
		return 0
	case d < -0.02:
		return 1
	case d < 0.02:
		return 2
	case d < 0.10:
		return 3
	default:
		return 4
	}
}

// ipcBin discretizes deltaIpc per spec:
//
//	(-inf,-1e-4) -> 0, [-1e-4,1e-4) -> 1, [1e-4,+inf) -> 2.
func ipcBin(d float64) int {
	switch {
	case d < -1e-4:
		return 0
	case d < 1e-4:
		return 1
	default:
		return 2
	}
}

// accBin discretizes accuracy (assumed in [0,1]) per spec:
//
//	(-inf,0.20] -> 0, (0.20,0.60] -> 1, (0.60,+inf) -> 2.
func accBin(a float64) int {
	switch {
	case a <= 0.20:
		return 0
	case a <= 0.60:
		return 1
	default:
		return 2
	}
}

// encodeState packs the three bins into a single State value.
func encodeState(deltaSmoothedMiss, deltaIPC, accuracy float64) State {
	acc := accBin(accuracy)
	miss := missBin(deltaSmoothedMiss)
	ipc := ipcBin(deltaIPC)

	return State(acc*100 + miss*10 + ipc)
}

// smoothMissRate applies the exponential moving average update used to
// turn a noisy per-epoch miss rate into a smoothed signal. On the first
// call (have == false) it bootstraps the average to raw with zero delta,
// matching endEpoch()'s bootstrap branch.
func smoothMissRate(raw, prevSmoothed float64, have bool) (smoothed, delta float64) {
	if !have {
		return raw, 0
	}

	smoothed = missSmoothAlpha*raw + (1-missSmoothAlpha)*prevSmoothed

	return smoothed, smoothed - prevSmoothed
}

// deriveAccuracy rescales the improvement in smoothed miss rate
// (previous minus new) into [0,1], clamping the raw improvement to
// +/-accMaxSpan first.
func deriveAccuracy(prevSmoothed, newSmoothed float64) float64 {
	improvement := prevSmoothed - newSmoothed

	switch {
	case improvement > accMaxSpan:
		improvement = accMaxSpan
	case improvement < -accMaxSpan:
		improvement = -accMaxSpan
	}

	return (improvement + accMaxSpan) / (2 * accMaxSpan)
}

// ipcSign returns the reward-shaping sign of an IPC delta, with a 1e-6
// dead zone around zero.
func ipcSign(delta float64) float64 {
	switch {
	case delta > 1e-6:
		return 1
	case delta < -1e-6:
		return -1
	default:
		return 0
	}
}
