package cmd

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/process"
)

// hostCPU backs prefetch.CPU with this process's own cumulative CPU
// time, scaled into an operation-count proxy. It exists for --real-cpu
// demo runs where the "workload" is whatever the host process itself
// is doing.
type hostCPU struct {
	proc *process.Process
}

func newHostCPU() (*hostCPU, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("could not attach to pid: %w", err)
	}

	return &hostCPU{proc: proc}, nil
}

// TotalOps reports cumulative user+system CPU seconds scaled to an
// integer op count. It is monotonically non-decreasing, which is the
// only property the controller relies on.
func (c *hostCPU) TotalOps() uint64 {
	times, err := c.proc.Times()
	if err != nil {
		return 0
	}

	const opsPerCPUSecond = 1_000_000

	return uint64((times.User + times.System) * opsPerCPUSecond)
}
