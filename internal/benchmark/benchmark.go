// Package benchmark provides timing and throughput measurement for the
// render pipeline. The generic suite runs arbitrary functions; the style
// suite measures every registered style against a fixed payload so
// regressions in a single compositor stand out.
package benchmark

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/MeKo-Tech/stipple/internal/encode"
	"github.com/MeKo-Tech/stipple/internal/render"
	"github.com/MeKo-Tech/stipple/internal/style"
)

// Timer provides simple timing utilities for benchmarking.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer creates a new timer with the given name.
func NewTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// String returns a formatted string representation of the timer.
func (t *Timer) String() string {
	return fmt.Sprintf("%s: %v", t.name, t.duration)
}

// MemoryStats holds memory usage statistics.
type MemoryStats struct {
	AllocBytes      uint64  // Currently allocated bytes
	TotalAllocBytes uint64  // Total allocated bytes (cumulative)
	SysBytes        uint64  // Total bytes from system
	NumGC           uint32  // Number of GC runs
	GCCPUFraction   float64 // Fraction of CPU time spent in GC
}

// GetMemoryStats returns current memory statistics.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemoryStats{
		AllocBytes:      m.Alloc,
		TotalAllocBytes: m.TotalAlloc,
		SysBytes:        m.Sys,
		NumGC:           m.NumGC,
		GCCPUFraction:   m.GCCPUFraction,
	}
}

// String returns a formatted string representation of memory stats.
func (m MemoryStats) String() string {
	return fmt.Sprintf("Alloc: %d KB, Total: %d KB, Sys: %d KB, GC: %d (%.2f%% CPU)",
		m.AllocBytes/1024,
		m.TotalAllocBytes/1024,
		m.SysBytes/1024,
		m.NumGC,
		m.GCCPUFraction*100)
}

// BenchmarkResult holds the result of a benchmark run.
type BenchmarkResult struct {
	Name         string
	Duration     time.Duration
	MemoryBefore MemoryStats
	MemoryAfter  MemoryStats
	Iterations   int
	Error        error
}

// String returns a formatted string representation of the benchmark result.
func (br BenchmarkResult) String() string {
	if br.Error != nil {
		return fmt.Sprintf("%s: ERROR - %v", br.Name, br.Error)
	}

	memDiff := br.MemoryAfter.AllocBytes - br.MemoryBefore.AllocBytes
	avgDuration := br.Duration / time.Duration(br.Iterations)

	return fmt.Sprintf("%s: %d iterations, avg: %v, total: %v, mem: +%d KB",
		br.Name, br.Iterations, avgDuration, br.Duration, int64(memDiff)/1024) //nolint:gosec // G115: Safe conversion for memory display
}

// Benchmark represents a benchmark function.
type Benchmark struct {
	Name string
	Func func() error
}

// BenchmarkSuite manages multiple benchmarks.
type BenchmarkSuite struct {
	benchmarks []Benchmark
	results    []BenchmarkResult
	mu         sync.Mutex
}

// NewBenchmarkSuite creates a new benchmark suite.
func NewBenchmarkSuite() *BenchmarkSuite {
	return &BenchmarkSuite{
		benchmarks: make([]Benchmark, 0),
		results:    make([]BenchmarkResult, 0),
	}
}

// Add adds a benchmark to the suite.
func (bs *BenchmarkSuite) Add(name string, fn func() error) {
	bs.benchmarks = append(bs.benchmarks, Benchmark{
		Name: name,
		Func: fn,
	})
}

// Run runs a single benchmark with the specified number of iterations.
func (bs *BenchmarkSuite) Run(name string, iterations int) BenchmarkResult {
	var benchmark Benchmark
	found := false
	for _, b := range bs.benchmarks {
		if b.Name == name {
			benchmark = b
			found = true
			break
		}
	}

	if !found {
		return BenchmarkResult{
			Name:  name,
			Error: fmt.Errorf("benchmark '%s' not found", name),
		}
	}

	return bs.runBenchmark(benchmark, iterations)
}

// RunAll runs all benchmarks in the suite.
func (bs *BenchmarkSuite) RunAll(iterations int) []BenchmarkResult {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	bs.results = make([]BenchmarkResult, 0, len(bs.benchmarks))

	for _, benchmark := range bs.benchmarks {
		result := bs.runBenchmark(benchmark, iterations)
		bs.results = append(bs.results, result)
	}

	return bs.results
}

// runBenchmark executes a single benchmark.
func (bs *BenchmarkSuite) runBenchmark(benchmark Benchmark, iterations int) BenchmarkResult {
	// Force garbage collection before measuring
	runtime.GC()
	memBefore := GetMemoryStats()

	timer := NewTimer(benchmark.Name)
	var err error

	for range iterations {
		if e := benchmark.Func(); e != nil {
			err = e
			break
		}
	}

	duration := timer.Stop()
	memAfter := GetMemoryStats()

	return BenchmarkResult{
		Name:         benchmark.Name,
		Duration:     duration,
		MemoryBefore: memBefore,
		MemoryAfter:  memAfter,
		Iterations:   iterations,
		Error:        err,
	}
}

// Results returns the last run results.
func (bs *BenchmarkSuite) Results() []BenchmarkResult {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.results
}

// PrintResults prints formatted benchmark results.
func (bs *BenchmarkSuite) PrintResults() {
	results := bs.Results()
	fmt.Println("\nBenchmark Results:")
	fmt.Println("==================")
	for _, result := range results {
		fmt.Println(result.String())
	}
	fmt.Println()
}

// StyleBenchmark measures render throughput per style. Every registered
// style is rendered with the same payload, size and palette so the only
// variable is the compositor itself.
type StyleBenchmark struct {
	suite   *BenchmarkSuite
	payload string
	size    int
}

// NewStyleBenchmark creates a style benchmark rendering the given payload
// at the given pixel size. A zero size uses the renderer default.
func NewStyleBenchmark(payload string, size int) *StyleBenchmark {
	sb := &StyleBenchmark{
		suite:   NewBenchmarkSuite(),
		payload: payload,
		size:    size,
	}

	for _, s := range style.Styles {
		sb.addStyle(s)
	}

	return sb
}

func (sb *StyleBenchmark) addStyle(s style.Style) {
	sb.suite.Add("Style_"+s.String(), func() error {
		renderer, err := render.NewBuilder().
			WithSize(sb.size).
			WithStyle(s).
			Build()
		if err != nil {
			return err
		}
		_, err = renderer.Render(render.Request{
			Data:   sb.payload,
			Format: encode.FormatQR,
		})
		return err
	})
}

// Run executes all style benchmarks with the given iteration count.
func (sb *StyleBenchmark) Run(iterations int) []BenchmarkResult {
	return sb.suite.RunAll(iterations)
}

// Report formats the last run's results as a text table with per-symbol
// throughput, slowest style last.
func (sb *StyleBenchmark) Report() string {
	results := sb.suite.Results()
	if len(results) == 0 {
		return "no benchmark results\n"
	}

	var b strings.Builder
	b.WriteString("Style Throughput\n")
	b.WriteString(strings.Repeat("-", 50))
	b.WriteByte('\n')

	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(&b, "%-20s ERROR: %v\n", strings.TrimPrefix(r.Name, "Style_"), r.Error)
			continue
		}
		avg := r.Duration / time.Duration(r.Iterations)
		perSec := 0.0
		if avg > 0 {
			perSec = float64(time.Second) / float64(avg)
		}
		fmt.Fprintf(&b, "%-20s avg %-12v %8.1f symbols/s\n",
			strings.TrimPrefix(r.Name, "Style_"), avg, perSec)
	}

	return b.String()
}
