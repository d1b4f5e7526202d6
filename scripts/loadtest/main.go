// Loadtest fires concurrent requests at a running dispatcher and checks that
// every unregistered path gets the fixed 404 answer.
//
// Usage:
//
//	go run ./scripts/loadtest -base http://localhost:8888 -concurrency 20 -requests 2000
//	go run ./scripts/loadtest -targets "/start,/upload?text=hi,/nope" -out summary.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const notFoundBody = "404 Not found"

type pathStats struct {
	Count       int             `json:"count"`
	StatusCodes map[int]int     `json:"status_codes"`
	Violations  int             `json:"violations"`
	Latencies   []time.Duration `json:"-"`
}

func main() {
	var (
		base        = flag.String("base", "http://localhost:8888", "Server base URL")
		targets     = flag.String("targets", "/,/start,/upload?text=hello,/missing", "Comma-separated request targets")
		concurrency = flag.Int("concurrency", 10, "Number of concurrent workers")
		requests    = flag.Int("requests", 500, "Total number of requests to send")
		timeoutSec  = flag.Int("timeout", 5, "Per-request timeout in seconds")
		outJSON     = flag.String("out", "", "Write JSON summary to this file (optional)")
	)
	flag.Parse()

	if err := checkFlags(*concurrency, *requests, *targets); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	paths := strings.Split(*targets, ",")
	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}

	stats := make(map[string]*pathStats, len(paths))
	for _, p := range paths {
		stats[p] = &pathStats{StatusCodes: map[int]int{}}
	}

	var (
		mu       sync.Mutex
		failures int
		wg       sync.WaitGroup
	)

	jobs := make(chan string)
	start := time.Now()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				began := time.Now()
				resp, err := client.Get(*base + target)
				if err != nil {
					mu.Lock()
					failures++
					mu.Unlock()
					continue
				}
				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				dur := time.Since(began)

				mu.Lock()
				ps := stats[target]
				ps.Count++
				ps.StatusCodes[resp.StatusCode]++
				ps.Latencies = append(ps.Latencies, dur)
				if resp.StatusCode == http.StatusNotFound &&
					(string(body) != notFoundBody || resp.Header.Get("Content-Type") != "text/plain") {
					ps.Violations++
				}
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < *requests; i++ {
		jobs <- paths[i%len(paths)]
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	violations := 0

	fmt.Println("--- Dispatch Load Test ---")
	fmt.Printf("Base: %s  Requests: %d  Concurrency: %d\n", *base, *requests, *concurrency)
	fmt.Printf("Duration: %v  Throughput: %.2f req/s  Transport failures: %d\n",
		elapsed, float64(*requests)/elapsed.Seconds(), failures)

	sort.Strings(paths)
	for _, p := range paths {
		ps := stats[p]
		violations += ps.Violations
		fmt.Printf("  %-24s count=%d codes=%v p50=%v p99=%v violations=%d\n",
			p, ps.Count, ps.StatusCodes, pick(ps.Latencies, 0.50), pick(ps.Latencies, 0.99), ps.Violations)
	}

	if *outJSON != "" {
		f, err := os.Create(*outJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create json file: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			f.Close()
			fmt.Fprintf(os.Stderr, "failed to write json summary: %v\n", err)
			os.Exit(1)
		}
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close json file: %v\n", err)
			os.Exit(1)
		}
	}

	if failures > 0 || violations > 0 {
		os.Exit(2)
	}
}

// checkFlags validates the command-line settings before any worker starts.
func checkFlags(concurrency, requests int, targets string) error {
	if concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	if requests < 0 {
		return errors.New("requests cannot be negative")
	}
	if strings.TrimSpace(targets) == "" {
		return errors.New("at least one target is required")
	}
	return nil
}

func pick(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[int(float64(len(sorted)-1)*p)]
}
