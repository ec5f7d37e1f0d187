// Package main provides a performance benchmarking tool for the Weighttrend CLI.
// It measures execution times across history lengths, spans and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - weighttrend binary installed and available in PATH
//
// Usage: go run benchmark/main.go [years...]
//
//	years: Lengths of synthetic history to benchmark (defaults to 1, 5 and 10)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Years       int
	Command     string
	Span        string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Years       []int
	Spans       []string
}

func main() {
	years := []int{1, 5, 10}
	if len(os.Args) > 1 {
		years = years[:0]
		for _, arg := range os.Args[1:] {
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				fmt.Printf("Usage: %s [years...]\n", os.Args[0])
				os.Exit(1)
			}
			years = append(years, n)
		}
	}

	config := BenchmarkConfig{
		Timeout:     time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Years:       years,
		Spans:       []string{"week", "month", "year"},
	}

	if _, err := exec.LookPath("weighttrend"); err != nil {
		fmt.Printf("Prerequisites check failed: weighttrend binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// clearCache drops snapshots so that each suite starts cold
func clearCache() {
	clearCmd := exec.Command("weighttrend", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}
}

// runBenchmarks executes all benchmark tests across configured history lengths
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %v years, %v timeout, no-cache: %d runs, cache: %d runs\n",
		config.Years, config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, years := range config.Years {
		fmt.Printf("Benchmarking %d years of history\n", years)
		for _, span := range config.Spans {
			results = append(results, runBenchmarkSuite(config, years, "frame", span))
		}
		results = append(results, runBenchmarkSuite(config, years, "series", ""))
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, years int, command, span string) BenchmarkResult {
	args := []string{command, "--synthetic-years", strconv.Itoa(years), "--output", "csv"}
	if span != "" {
		args = append(args, "--span", span)
	}
	fmt.Printf("Running %s\n", strings.Join(args, " "))

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, args, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs, starting from an empty snapshot table
	clearCache()
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Years:       years,
		Command:     command,
		Span:        span,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a weighttrend command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, baseArgs []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append(append([]string{}, baseArgs...), "--cache-backend", cacheBackend)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("weighttrend", args...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that the command printed a CSV header and at least one row
func isSuccess(output []byte) bool {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	return len(lines) > 1 && strings.Contains(lines[0], ",")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/weighttrend_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"years", "cmd", "span", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		record := []string{strconv.Itoa(result.Years), result.Command, result.Span, result.NoCacheTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "frame", "Frame:")
	printCommandSummary(results, "series", "Series:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			label := fmt.Sprintf("%dy %s", result.Years, result.Span)
			fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", label, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
