package benchmark

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MeKo-Tech/stipple/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmarkSuite(t *testing.T) {
	suite := NewBenchmarkSuite()
	assert.NotNil(t, suite)
	assert.Empty(t, suite.benchmarks)

	// Add a simple benchmark
	suite.Add("test_benchmark", func() error {
		time.Sleep(1 * time.Millisecond)
		return nil
	})

	assert.Len(t, suite.benchmarks, 1)
	assert.Equal(t, "test_benchmark", suite.benchmarks[0].Name)
}

func TestBenchmarkSuiteRun(t *testing.T) {
	suite := NewBenchmarkSuite()

	// Add a successful benchmark
	suite.Add("success_test", func() error {
		time.Sleep(1 * time.Millisecond)
		return nil
	})

	// Add a failing benchmark
	suite.Add("error_test", func() error {
		return errors.New("test error")
	})

	// Run successful benchmark
	result := suite.Run("success_test", 5)
	assert.Equal(t, "success_test", result.Name)
	assert.Equal(t, 5, result.Iterations)
	require.NoError(t, result.Error)
	assert.Positive(t, result.Duration)

	// Run failing benchmark
	result = suite.Run("error_test", 3)
	assert.Equal(t, "error_test", result.Name)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "test error")

	// Run non-existent benchmark
	result = suite.Run("non_existent", 1)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "not found")
}

func TestBenchmarkSuiteRunAll(t *testing.T) {
	suite := NewBenchmarkSuite()

	// Add multiple benchmarks
	suite.Add("fast_test", func() error {
		time.Sleep(1 * time.Millisecond)
		return nil
	})

	suite.Add("slow_test", func() error {
		time.Sleep(5 * time.Millisecond)
		return nil
	})

	// Run all benchmarks
	results := suite.RunAll(3)
	require.Len(t, results, 2)

	// Check that results are stored
	storedResults := suite.Results()
	assert.Equal(t, results, storedResults)

	// Verify results
	fastResult := results[0]
	slowResult := results[1]

	assert.Equal(t, "fast_test", fastResult.Name)
	assert.Equal(t, "slow_test", slowResult.Name)
	assert.Equal(t, 3, fastResult.Iterations)
	assert.Equal(t, 3, slowResult.Iterations)
	assert.NoError(t, fastResult.Error)
	assert.NoError(t, slowResult.Error)

	// Slow test should take longer than fast test
	assert.Greater(t, slowResult.Duration, fastResult.Duration)
}

func TestStyleBenchmark(t *testing.T) {
	sb := NewStyleBenchmark("https://example.com/bench", 96)
	require.NotNil(t, sb)
	assert.Len(t, sb.suite.benchmarks, len(style.Styles))

	results := sb.Run(2)
	require.Len(t, results, len(style.Styles))

	for _, result := range results {
		require.NoError(t, result.Error, result.Name)
		assert.Equal(t, 2, result.Iterations)
		assert.Positive(t, result.Duration)
		assert.True(t, strings.HasPrefix(result.Name, "Style_"))
	}
}

func TestStyleBenchmarkReport(t *testing.T) {
	sb := NewStyleBenchmark("report payload", 64)
	assert.Equal(t, "no benchmark results\n", sb.Report())

	sb.Run(1)
	report := sb.Report()
	assert.Contains(t, report, "Style Throughput")
	for _, s := range style.Styles {
		assert.Contains(t, report, s.String())
	}
	assert.Contains(t, report, "symbols/s")
}

// Example benchmark test that shows how to use the framework.
func TestExampleBenchmarkUsage(t *testing.T) {
	// Create a benchmark suite
	suite := NewBenchmarkSuite()

	// Add some example operations
	suite.Add("string_concat", func() error {
		var result string
		for range 1000 {
			result += "a"
		}
		return nil
	})

	suite.Add("slice_append", func() error {
		var slice []int
		for i := range 1000 {
			slice = append(slice, i)
		}
		_ = slice // result intentionally unused in benchmark
		return nil
	})

	// Run benchmarks
	results := suite.RunAll(10)
	require.Len(t, results, 2)

	// Print results for demonstration
	t.Log("Example benchmark results:")
	for _, result := range results {
		t.Log(result.String())
	}

	// All should succeed
	for _, result := range results {
		require.NoError(t, result.Error)
		assert.Positive(t, result.Duration)
	}
}
