package resources

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/rStore/cmd/util"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:   "perf",
		Short: "Performance testing tool for rStore servers",
		Long: `Runs concurrent create, list and get requests against a rStore server and reports latency percentiles.
Resources can not be deleted, so every create benchmark permanently grows the store.`,
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNumThreads   = 10
	perfNumRequests  = 1000
	perfPayloadBytes = 16
	perfSkip         = make([]string, 0)
	perfCSVPath      = ""
)

var perfPercentiles = []float64{0.5, 0.95, 0.99}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. create,list)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of concurrent workers"))
	key = "requests"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Number of requests per benchmark"))
	key = "payload-size"
	perfTestCmd.Flags().Int(key, 16, util.WrapString("Size of the payloads of the create benchmark (in bytes)"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfNumRequests = viper.GetInt("requests")
	perfPayloadBytes = viper.GetInt("payload-size")
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	perfCSVPath = viper.GetString("csv")

	if perfNumThreads <= 0 || perfNumRequests <= 0 {
		return fmt.Errorf("threads and requests must be positive")
	}
	return nil
}

// benchmark is a single named load test
type benchmark struct {
	name string
	op   func(i int) error
}

// perfResult is the outcome of one benchmark
type perfResult struct {
	name     string
	timer    gometrics.Timer
	errors   gometrics.Counter
	duration time.Duration
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for rStore servers")

	// Print configuration
	config := util.GetClientConfig()
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Threads: %d, Requests: %d\n", perfNumThreads, perfNumRequests)
	fmt.Println()

	payload := strings.Repeat("x", perfPayloadBytes)

	// the get benchmark reads ids that exist when the benchmarks start
	info, err := resourceStore.GetDBInfo()
	if err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}

	benchmarks := []benchmark{
		{name: "create", op: func(int) error {
			_, err := resourceStore.Append(payload)
			return err
		}},
		{name: "list", op: func(int) error {
			_, err := resourceStore.List()
			return err
		}},
		{name: "get", op: func(i int) error {
			if info.LastID == 0 {
				_, _, err := resourceStore.Get(1)
				return err
			}
			_, _, err := resourceStore.Get(uint64(i)%info.LastID + 1)
			return err
		}},
	}

	fmt.Println("starting tests...")

	registry := gometrics.NewRegistry()
	var results []perfResult
	for _, b := range benchmarks {
		if shouldSkip(b.name) {
			continue
		}
		r := runBenchmark(registry, b)
		printResult(r)
		results = append(results, r)
	}

	if perfCSVPath != "" {
		if err := saveResultsToCSV(results, perfCSVPath); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		fmt.Printf("results saved to %s\n", perfCSVPath)
	}
	return nil
}

// runBenchmark executes perfNumRequests operations on perfNumThreads workers
func runBenchmark(registry gometrics.Registry, b benchmark) perfResult {
	timer := gometrics.GetOrRegisterTimer(b.name, registry)
	errCount := gometrics.GetOrRegisterCounter(b.name+".errors", registry)

	jobs := make(chan int)
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < perfNumThreads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				opStart := time.Now()
				if err := b.op(i); err != nil {
					errCount.Inc(1)
					continue
				}
				timer.UpdateSince(opStart)
			}
		}()
	}

	for i := 0; i < perfNumRequests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return perfResult{
		name:     b.name,
		timer:    timer.Snapshot(),
		errors:   errCount.Snapshot(),
		duration: time.Since(start),
	}
}

func shouldSkip(name string) bool {
	for _, s := range perfSkip {
		if strings.TrimSpace(s) == name {
			return true
		}
	}
	return false
}

func opsPerSec(r perfResult) float64 {
	if r.duration <= 0 {
		return 0
	}
	return float64(r.timer.Count()) / r.duration.Seconds()
}

func printResult(r perfResult) {
	ps := r.timer.Percentiles(perfPercentiles)
	fmt.Printf("%-8s\t%8.2f ops/sec\tmean %-10s\tp50 %-10s\tp95 %-10s\tp99 %-10s\terrors %d\n",
		r.name,
		opsPerSec(r),
		time.Duration(r.timer.Mean()).Round(time.Microsecond),
		time.Duration(ps[0]).Round(time.Microsecond),
		time.Duration(ps[1]).Round(time.Microsecond),
		time.Duration(ps[2]).Round(time.Microsecond),
		r.errors.Count(),
	)
}

// saveResultsToCSV writes one row per benchmark (latencies in nanoseconds)
func saveResultsToCSV(results []perfResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"benchmark", "count", "errors", "ops_per_sec", "mean_ns", "p50_ns", "p95_ns", "p99_ns", "max_ns"}); err != nil {
		return err
	}
	for _, r := range results {
		ps := r.timer.Percentiles(perfPercentiles)
		if err := w.Write([]string{
			r.name,
			strconv.FormatInt(r.timer.Count(), 10),
			strconv.FormatInt(r.errors.Count(), 10),
			strconv.FormatFloat(opsPerSec(r), 'f', 2, 64),
			strconv.FormatFloat(r.timer.Mean(), 'f', 0, 64),
			strconv.FormatFloat(ps[0], 'f', 0, 64),
			strconv.FormatFloat(ps[1], 'f', 0, 64),
			strconv.FormatFloat(ps[2], 'f', 0, 64),
			strconv.FormatInt(r.timer.Max(), 10),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
