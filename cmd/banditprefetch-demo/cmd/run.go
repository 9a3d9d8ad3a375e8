package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/banditprefetch/eventsys"
	"github.com/sarchlab/banditprefetch/monitoring"
	"github.com/sarchlab/banditprefetch/prefetch"
	"github.com/sarchlab/banditprefetch/store"
)

var (
	flagTotalTicks    uint64
	flagTicksPerEpoch uint64
	flagLearningRate  float64
	flagExploreRate   float64
	flagChildren      string
	flagRealCPU       bool
	flagStorePath     string
	flagCSVPath       string
	flagMonitor       bool
	flagMonitorPort   int
	flagSeed          int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bandit prefetch controller against a workload.",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Uint64Var(&flagTotalTicks, "ticks", envUint64("BANDIT_TICKS", 100_000),
		"total number of ticks to simulate")
	runCmd.Flags().Uint64Var(&flagTicksPerEpoch, "epoch", envUint64("BANDIT_EPOCH", 1000),
		"ticks per controller epoch")
	runCmd.Flags().Float64Var(&flagLearningRate, "learning-rate", envFloat64("BANDIT_LEARNING_RATE", 0.1),
		"epsilon-greedy learning rate")
	runCmd.Flags().Float64Var(&flagExploreRate, "explore-rate", envFloat64("BANDIT_EXPLORE_RATE", 0.2),
		"initial exploration rate")
	runCmd.Flags().StringVar(&flagChildren, "children", envString("BANDIT_CHILDREN", "stride,markov"),
		"comma-separated candidate prefetcher names")
	runCmd.Flags().BoolVar(&flagRealCPU, "real-cpu", false,
		"back the CPU signal with this process's real CPU time instead of a synthetic one")
	runCmd.Flags().StringVar(&flagStorePath, "store", envString("BANDIT_STORE", ""),
		"path to a SQLite database for epoch history; empty disables it")
	runCmd.Flags().StringVar(&flagCSVPath, "csv", envString("BANDIT_CSV", ""),
		"path to a CSV file for debug epoch logging; empty disables it")
	runCmd.Flags().BoolVar(&flagMonitor, "monitor", false,
		"start the HTTP monitoring server")
	runCmd.Flags().IntVar(&flagMonitorPort, "monitor-port", int(envUint64("BANDIT_MONITOR_PORT", 0)),
		"monitoring server port; 0 picks an ephemeral port")
	runCmd.Flags().Int64Var(&flagSeed, "seed", int64(envUint64("BANDIT_SEED", 1)),
		"exploration RNG seed")
}

func runDemo(_ *cobra.Command, _ []string) error {
	engine := eventsys.NewEngine()

	names := strings.Split(flagChildren, ",")
	children := make([]prefetch.Child, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		children = append(children, newSyntheticChild(name))
	}

	cache := newSyntheticCache()

	var cpuAdapter prefetch.CPU

	var synthCPU *syntheticCPU

	if flagRealCPU {
		hostCPU, err := newHostCPU()
		if err != nil {
			return fmt.Errorf("banditprefetch-demo: could not attach to host CPU: %w", err)
		}

		cpuAdapter = hostCPU
	} else {
		synthCPU = newSyntheticCPU()
		cpuAdapter = synthCPU
	}

	var csvLogger *prefetch.CSVLogger
	if flagCSVPath != "" {
		csvLogger = prefetch.NewCSVLogger(flagCSVPath)
	}

	var epochStore prefetch.EpochHistoryStore
	if flagStorePath != "" {
		s, err := store.Open(flagStorePath)
		if err != nil {
			return fmt.Errorf("banditprefetch-demo: could not open store: %w", err)
		}
		defer s.Close()

		epochStore = s.ForController("demo")
	}

	ctrl := prefetch.NewController(prefetch.Params{
		FallbackName:  "demo",
		Children:      children,
		CurrentAction: -1,
		TicksPerEpoch: flagTicksPerEpoch,
		LearningRate:  flagLearningRate,
		ExploreRate:   flagExploreRate,
		DebugLogging:  csvLogger != nil,
		CPU:           cpuAdapter,
		Cache:         cache,
		CSVLogger:     csvLogger,
		Store:         epochStore,
		Rand:          rand.New(rand.NewSource(flagSeed)),
	}, engine, engine)

	if flagMonitor {
		server := monitoring.NewServer().WithPortNumber(flagMonitorPort)
		server.RegisterController("demo", ctrl, flagTotalTicks/flagTicksPerEpoch)

		addr, err := server.StartServer()
		if err != nil {
			return fmt.Errorf("banditprefetch-demo: could not start monitor: %w", err)
		}

		fmt.Fprintf(os.Stderr, "banditprefetch-demo: monitoring at http://%s\n", addr)
	}

	ctrl.Startup()

	driver := newAccessDriver(engine, cache, ctrl, synthCPU)
	engine.ScheduleAt(driver, engine.Now()+1)

	for engine.Now() < eventsys.Tick(flagTotalTicks) {
		if !engine.HasMoreEvent() {
			break
		}

		if err := engine.Run(); err != nil {
			return fmt.Errorf("banditprefetch-demo: engine error: %w", err)
		}
	}

	snap := ctrl.Latest()
	fmt.Printf("finished at tick %d: epoch=%d action=%d ipc=%.6f accuracy=%.3f\n",
		engine.Now(), snap.Epoch, snap.Action.Semantic(), snap.IPC, snap.Accuracy)

	return nil
}

func envUint64(name string, def uint64) uint64 {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}

	parsed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def
	}

	return parsed
}

func envFloat64(name string, def float64) float64 {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}

	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}

	return parsed
}

func envString(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}

	return def
}
