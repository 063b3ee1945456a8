package bench

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/dSearch/cmd/util"
	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/ValentinKolb/dSearch/rpc/message"
	"github.com/ValentinKolb/dSearch/rpc/serializer"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Logger is the logger of the bench command
var Logger = logger.GetLogger("bench")

var (
	// BenchCmd measures the serializers
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Performance testing tool for the serializers",
		Args:    cobra.NoArgs,
		RunE:    run,
		PreRunE: processBenchConfig,
	}
	benchNumThreads  = 10
	benchSourceSize  = 1
	benchSkip        = make([]string, 0)
	benchPercentiles = []float64{0.5, 0.9, 0.99}
)

func init() {
	// add flags
	key := "skip"
	BenchCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. scroll-encode,update-decode)"))
	key = "threads"
	BenchCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "source-size"
	BenchCmd.Flags().Int(key, 1, util.WrapString("Size of the document source in the update response with get result (in KB)"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	benchNumThreads = viper.GetInt("threads")
	benchSourceSize = viper.GetInt("source-size")
	benchSkip = strings.Split(viper.GetString("skip"), ",")

	if benchNumThreads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", benchNumThreads)
	}
	return nil
}

// benchmark is one measured operation
type benchmark struct {
	name    string
	message message.Message
	decode  bool
}

// result of a benchmark
type result struct {
	bench     testing.BenchmarkResult
	latencies []float64 // in ns, one per entry of benchPercentiles
	bytes     int
}

func run(cmd *cobra.Command, _ []string) error {
	config, err := util.GetClientConfig()
	if err != nil {
		return err
	}
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	fmt.Println("Performance testing tool for the dSearch serializers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Threads: %d\n", benchNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	registry := gometrics.NewRegistry()
	results := make(map[string]result)
	for _, b := range benchmarks() {
		if shouldSkip(b.name) {
			printResult(b.name, result{})
			continue
		}
		r, err := runBenchmark(b, s, config.WireVersion, gometrics.GetOrRegisterTimer(b.name, registry))
		if err != nil {
			return fmt.Errorf("(%s) - %w", b.name, err)
		}
		results[b.name] = r
		printResult(b.name, r)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, config); err != nil {
			return err
		}
	}

	return nil
}

// benchmarks returns all benchmarks in the order they are run
func benchmarks() []benchmark {
	keepAlive := message.NewScrollRequest("DXF1ZXJ5QW5kRmV0Y2gBAAAAAAAAAD4WYm9laVYtZndUQlNsdDcwakFMNjU1QQ==").
		SetKeepAlive(message.TimeValue(time.Minute))

	withGet := message.NewUpdateResponse("books", "doc", "42", 7, false)
	withGet.GetResult = &message.GetResult{
		Index:   "books",
		Type:    "doc",
		ID:      "42",
		Version: 7,
		Exists:  true,
		Source:  json.RawMessage(`{"body":"` + strings.Repeat("x", benchSourceSize*1024) + `"}`),
		Fields:  map[string][]string{"tags": {"scifi", "classic"}},
	}

	update := message.NewUpdateResponse("books", "doc", "42", 7, true)

	return []benchmark{
		{name: "scroll-encode", message: keepAlive},
		{name: "scroll-decode", message: keepAlive, decode: true},
		{name: "update-encode", message: update},
		{name: "update-decode", message: update, decode: true},
		{name: "update-get-encode", message: withGet},
		{name: "update-get-decode", message: withGet, decode: true},
	}
}

// runBenchmark runs b in parallel and records the latency of every call in timer
func runBenchmark(b benchmark, s serializer.IRPCSerializer, version common.Version, timer gometrics.Timer) (result, error) {
	payload, err := s.Serialize(b.message, version)
	if err != nil {
		return result{}, err
	}

	op := func() error {
		_, err := s.Serialize(b.message, version)
		return err
	}
	if b.decode {
		op = func() error {
			target, _ := message.New(b.message.Name())
			return s.Deserialize(payload, version, target)
		}
	}

	benchResult := testing.Benchmark(func(tb *testing.B) {
		tb.SetParallelism(benchNumThreads)
		tb.ResetTimer()

		tb.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				start := time.Now()
				if err := op(); err != nil {
					Logger.Errorf("(%s) - %v", b.name, err)
				}
				timer.UpdateSince(start)
			}
		})
	})

	return result{
		bench:     benchResult,
		latencies: timer.Percentiles(benchPercentiles),
		bytes:     len(payload),
	}, nil
}

func shouldSkip(test string) bool {
	for _, s := range benchSkip {
		if strings.TrimSpace(s) == test {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, r result) {
	if r.bench.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(r.bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\t%dB", test, nsPerOp, time.Duration(nsPerOp), opsPerSec, r.bytes)
	for i, p := range benchPercentiles {
		fmt.Printf("\tp%g=%s", p*100, time.Duration(r.latencies[i]))
	}
	fmt.Println()
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]result, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Bytes",
		"P50Ns", "P90Ns", "P99Ns",
		"Serializer", "WireVersion", "Threads", "SourceSizeKB",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, r := range results {
		nsPerOp := math.Max(float64(r.bench.NsPerOp()), 1)
		opsPerSec := 1.0 / (nsPerOp / 1e9)

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.Itoa(r.bytes),
		}
		for _, l := range r.latencies {
			row = append(row, fmt.Sprintf("%.0f", l))
		}
		row = append(row,
			config.Serializer,
			config.WireVersion.String(),
			strconv.Itoa(benchNumThreads),
			strconv.Itoa(benchSourceSize),
		)

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
