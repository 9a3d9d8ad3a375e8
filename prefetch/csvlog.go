package prefetch

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/tebeka/atexit"
)

// EpochPrintInterval is how many epochs pass between CSV rows when
// debug logging is enabled.
const EpochPrintInterval = 20

// csvHeader is written once, when the file is first opened.
const csvHeader = "epoch,tick,state,miss_rate,delta_miss,ipc,delta_ipc,accuracy,action\n"

// CSVLogger writes EpochSnapshot rows to a CSV file, truncating it on
// first open. The teacher keeps a single process-global file handle
// shared by every controller instance in the process; here that is made
// explicit as an injectable object instead of a package-level global, per
// spec.md §9's "process-wide CSV state" design note. Callers that want
// the original shared-singleton behavior can construct one CSVLogger and
// pass it to every Controller they build.
type CSVLogger struct {
	path string

	once    sync.Once
	openErr error
	file    *os.File
}

// NewCSVLogger creates a logger that will lazily open path on its first
// WriteRow call.
func NewCSVLogger(path string) *CSVLogger {
	return &CSVLogger{path: path}
}

func (l *CSVLogger) ensureOpen() error {
	l.once.Do(func() {
		f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			l.openErr = err
			log.Printf("prefetch: could not open CSV log %q: %v", l.path, err)

			return
		}

		l.file = f

		if _, err := l.file.WriteString(csvHeader); err != nil {
			log.Printf("prefetch: could not write CSV header to %q: %v", l.path, err)
		}

		atexit.Register(func() { _ = l.file.Close() })
	})

	return l.openErr
}

// WriteRow appends one CSV row for snap. Any failure to open or write is
// logged and otherwise ignored: an unopenable CSV file disables logging,
// it never fails the epoch it was called from.
func (l *CSVLogger) WriteRow(epoch uint64, snap EpochSnapshot) {
	if err := l.ensureOpen(); err != nil {
		return
	}

	_, err := fmt.Fprintf(l.file, "%d,%d,%d,%g,%g,%g,%g,%g,%d\n",
		epoch,
		snap.Tick,
		snap.State,
		snap.RawMissRate,
		snap.DeltaSmoothedMissRate,
		snap.IPC,
		snap.DeltaIPC,
		snap.Accuracy,
		snap.Action.Semantic(),
	)
	if err != nil {
		log.Printf("prefetch: could not write CSV row to %q: %v", l.path, err)
	}
}
