// jobbench drives the entity swarm headless and reports scheduler throughput.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"time"

	"entityjobs/internal/config"
	"entityjobs/internal/logging"
	"entityjobs/internal/threading"
	"entityjobs/internal/threading/entities"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	configPath string
	entityN    int
	cycles     int
	threads    int
	minJobSize int
	lifetime   int
	seed       int64
	async      bool
	inline     bool
	logLevel   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jobbench",
		Short: "Benchmark the entity job scheduler without a window",
		Long: `jobbench populates a world, advances it for a number of scheduler
cycles and prints cycle timings.

Examples:
  # 100k entities on 7 workers
  jobbench --entities 100000 --threads 7

  # Compare against the inline fallback
  jobbench --entities 100000 --inline
`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runBench,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file; missing file means defaults")
	rootCmd.Flags().IntVarP(&entityN, "entities", "n", 0, "Entities to simulate (default: demo.entities)")
	rootCmd.Flags().IntVar(&cycles, "cycles", 1000, "Scheduler cycles to run")
	rootCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Worker count (default: scheduler.thread_count)")
	rootCmd.Flags().IntVar(&minJobSize, "min-job-size", 0, "Minimum items per worker (default: scheduler.minimum_job_size)")
	rootCmd.Flags().IntVar(&lifetime, "lifetime", -1, "Entity lifetime in cycles, 0 never expires (default: demo.lifetime)")
	rootCmd.Flags().Int64Var(&seed, "seed", 1, "Random seed for the initial population")
	rootCmd.Flags().BoolVar(&async, "async", false, "Dispatch without force sync and join separately")
	rootCmd.Flags().BoolVar(&inline, "inline", false, "Use the inline scheduler")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (default: logging.level)")

	return rootCmd
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cycles < 1 {
		return fmt.Errorf("--cycles must be at least 1")
	}

	logger := logging.NewLoggerWithWriter(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, cmd.ErrOrStderr())
	result, err := bench(cfg, cycles, seed, logger)
	if err != nil {
		return err
	}
	result.print(cmd.OutOrStdout())
	return nil
}

// loadConfig reads path, falling back to defaults when the file does not exist
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// applyFlags overrides config values with flags the user set explicitly
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("entities") {
		cfg.Demo.Entities = entityN
	}
	if flags.Changed("threads") {
		cfg.Scheduler.ThreadCount = threads
	}
	if flags.Changed("min-job-size") {
		cfg.Scheduler.MinimumJobSize = minJobSize
	}
	if flags.Changed("lifetime") {
		cfg.Demo.Lifetime = lifetime
	}
	if flags.Changed("async") {
		cfg.Scheduler.ForceSync = !async
	}
	if flags.Changed("inline") {
		cfg.Scheduler.Inline = inline
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
}

type benchResult struct {
	Entities       int
	Cycles         int
	Threads        int
	ActiveWorkers  int
	JobSize        int
	Elapsed        time.Duration
	AvgCycle       time.Duration
	PeakCycleMs    float64
	ItemsProcessed uint64
	Expired        int
	Failures       uint64
	AllocBytes     uint64
}

// bench runs n cycles over a freshly populated world. Expired entities are
// replaced after each cycle so the population stays constant.
func bench(cfg *config.Config, n int, seed int64, logger *slog.Logger) (benchResult, error) {
	rng := rand.New(rand.NewSource(seed))
	world := entities.NewWorld(float64(cfg.GetScreenWidth()), float64(cfg.GetScreenHeight()))
	world.Populate(rng, cfg.Demo.Entities, cfg.Demo.MaxSpeed, cfg.Demo.Lifetime)

	tc, err := threading.NewThreadingComponents(cfg, world, logger)
	if err != nil {
		return benchResult{}, err
	}

	expired := 0
	var cycleErr error
	start := time.Now()
	for i := 0; i < n; i++ {
		var removed int
		if cfg.Scheduler.ForceSync {
			removed, err = tc.EntityUpdater.Update()
		} else {
			err = tc.EntityUpdater.Dispatch()
			var syncErr error
			removed, syncErr = tc.EntityUpdater.Finish()
			err = errors.Join(err, syncErr)
		}
		if err != nil {
			cycleErr = fmt.Errorf("cycle %d: %w", i, err)
			break
		}
		expired += removed
		if missing := cfg.Demo.Entities - world.Count(); missing > 0 {
			world.Populate(rng, missing, cfg.Demo.MaxSpeed, cfg.Demo.Lifetime)
		}
	}
	elapsed := time.Since(start)

	metrics := tc.GetPerformanceMetrics()
	stats := tc.GetDetailedPerformanceStats()
	peak, _ := stats["peak_cycle_time_ms"].(float64)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	result := benchResult{
		Entities:       cfg.Demo.Entities,
		Cycles:         int(metrics.Cycles),
		Threads:        cfg.GetThreadCount(),
		ActiveWorkers:  metrics.ActiveWorkers,
		JobSize:        metrics.JobSize,
		Elapsed:        elapsed,
		AvgCycle:       metrics.AverageCycleTime,
		PeakCycleMs:    peak,
		ItemsProcessed: metrics.ItemsProcessed,
		Expired:        expired,
		Failures:       metrics.WorkerFailures + metrics.MainFailures,
		AllocBytes:     mem.TotalAlloc,
	}

	if err := tc.Shutdown(); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
	return result, cycleErr
}

func (r benchResult) print(w io.Writer) {
	perSecond := 0.0
	if r.Elapsed > 0 {
		perSecond = float64(r.ItemsProcessed) / r.Elapsed.Seconds()
	}

	fmt.Fprintf(w, "entities:        %s\n", humanize.Comma(int64(r.Entities)))
	fmt.Fprintf(w, "cycles:          %s\n", humanize.Comma(int64(r.Cycles)))
	fmt.Fprintf(w, "threads:         %d (active %d, job size %s)\n", r.Threads, r.ActiveWorkers, humanize.Comma(int64(r.JobSize)))
	fmt.Fprintf(w, "elapsed:         %s\n", r.Elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "avg cycle:       %s\n", r.AvgCycle.Round(time.Microsecond))
	fmt.Fprintf(w, "peak cycle:      %.3fms\n", r.PeakCycleMs)
	fmt.Fprintf(w, "items processed: %s (%s/s)\n", humanize.Comma(int64(r.ItemsProcessed)), humanize.SIWithDigits(perSecond, 2, "items"))
	fmt.Fprintf(w, "expired:         %s\n", humanize.Comma(int64(r.Expired)))
	fmt.Fprintf(w, "failures:        %d\n", r.Failures)
	fmt.Fprintf(w, "allocated:       %s\n", humanize.Bytes(r.AllocBytes))
}
