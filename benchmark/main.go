// Package main provides a performance benchmarking tool for the localcache CLI.
// It seeds SQLite stores of increasing size, measures execution times of the
// read-only and pruning commands against them, running each test multiple times,
// treating the first successful run as cold and averaging the rest as warm,
// and generates CSV output for performance analysis and documentation.
//
// Prerequisites:
// - localcache binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the seeded SQLite files are created (default: a temp dir)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/localcache/internal/iocache"
	"github.com/huangsam/localcache/internal/localcache"
	"github.com/huangsam/localcache/schema"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Entries  int
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	Runs       int
	StoreSizes []int
	MaxEntries int
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "localcache-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:    workDir,
		Timeout:    5 * time.Minute,
		Runs:       4,
		StoreSizes: []int{100, 1_000, 10_000},
		MaxEntries: schema.DefaultMaxEntries,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(context.Background(), config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the localcache binary and the work dir exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("localcache"); err != nil {
		return fmt.Errorf("localcache binary not found in PATH")
	}
	if info, err := os.Stat(config.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("work dir %s is not a directory", config.WorkDir)
	}
	return nil
}

// seedStore writes size entries with distinct timestamps into a fresh SQLite file.
// Every tenth key holds a legacy value so prune has cleanup work to do.
func seedStore(ctx context.Context, dbPath string, size int) error {
	_ = os.Remove(dbPath)
	store, err := iocache.NewSQLStore(ctx, schema.SQLiteBackend, dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	base := time.Now().Add(-time.Duration(size) * time.Second)
	tick := 0
	c := localcache.New(store, localcache.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}))

	for i := range size {
		key := fmt.Sprintf("bench/%06d", i)
		if i%10 == 0 {
			if err := store.SetItem(ctx, key, strconv.Itoa(i)); err != nil {
				return err
			}
			continue
		}
		if err := c.Save(ctx, key, map[string]int{"n": i}); err != nil {
			return err
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured store sizes
func runBenchmarks(ctx context.Context, config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d store sizes, %v timeout, %d runs\n",
		len(config.StoreSizes), config.Timeout, config.Runs)

	for _, size := range config.StoreSizes {
		fmt.Printf("Benchmarking %d entries\n", size)
		dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("bench_%d.db", size))

		if err := seedStore(ctx, dbPath, size); err != nil {
			return nil, fmt.Errorf("failed to seed %d entries: %w", size, err)
		}
		for _, command := range [][]string{{"list", "--output", "csv"}, {"status"}} {
			result := runBenchmarkSuite(config, size, dbPath, command, nil)
			results = append(results, result)
		}

		// prune rewrites the store, so every run starts from a fresh seed
		prune := []string{"prune", "--max-entries", strconv.Itoa(config.MaxEntries)}
		result := runBenchmarkSuite(config, size, dbPath, prune, func() error {
			return seedStore(ctx, dbPath, size)
		})
		results = append(results, result)
	}

	return results, nil
}

// runBenchmarkSuite runs a command config.Runs times and summarizes the timings
func runBenchmarkSuite(config BenchmarkConfig, size int, dbPath string, args []string, before func() error) BenchmarkResult {
	fmt.Printf("  %s (%d runs)\n", args[0], config.Runs)

	coldTime, warmTimes := runBenchmark(config, dbPath, args, before)

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}
	warmAvg := "TIMEOUT"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Entries:  size,
		Command:  args[0],
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a localcache command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, dbPath string, args []string, before func() error) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		if before != nil {
			if err := before(); err != nil {
				fmt.Printf("  Warning: setup for run %d failed: %v\n", run, err)
				continue
			}
		}

		start := time.Now()

		cmd := exec.Command("localcache", args...)
		cmd.Env = append(os.Environ(),
			"LOCALCACHE_BACKEND=sqlite",
			"LOCALCACHE_DB_CONNECT="+dbPath,
			"LOCALCACHE_COLOR=no",
		)
		cmd.Stdout = nil
		cmd.Stderr = nil

		done := make(chan error, 1)
		if err := cmd.Start(); err != nil {
			fmt.Printf("  Warning: failed to start %v: %v\n", args, err)
			continue
		}
		go func() {
			done <- cmd.Wait()
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("localcache_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"entries", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{strconv.Itoa(result.Entries), result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"list", "status", "prune"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %8d entries: Cold: %s, Warm: %s\n", result.Entries, result.ColdTime, result.WarmTime)
			}
		}
	}
}
