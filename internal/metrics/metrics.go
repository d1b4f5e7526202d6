package metrics

import (
	"sort"
	"sync"
	"time"
)

// maxSamples bounds the response-time window kept per path.
const maxSamples = 1000

type Metrics struct {
	mutex         sync.RWMutex
	requests      map[string]int64
	matched       map[string]int64
	notFound      map[string]int64
	responseTimes map[string][]time.Duration
	statusCodes   map[string]map[int]int64
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64                  `json:"total_requests"`
	TotalMatched  int64                  `json:"total_matched"`
	TotalNotFound int64                  `json:"total_not_found"`
	Uptime        time.Duration          `json:"uptime"`
	Paths         map[string]PathMetrics `json:"paths"`
}

type PathMetrics struct {
	Requests    int64         `json:"requests"`
	Matched     int64         `json:"matched"`
	NotFound    int64         `json:"not_found"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

func (m *Metrics) IncrementRequests(path string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[path]++
}

func (m *Metrics) RecordMatch(path string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.matched[path]++
}

func (m *Metrics) RecordNotFound(path string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.notFound[path]++
}

func (m *Metrics) RecordResponse(path string, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.responseTimes[path] = append(m.responseTimes[path], duration)
	if len(m.responseTimes[path]) > maxSamples {
		m.responseTimes[path] = m.responseTimes[path][1:]
	}

	if m.statusCodes[path] == nil {
		m.statusCodes[path] = make(map[int]int64)
	}
	m.statusCodes[path][statusCode]++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime: time.Since(m.startTime),
		Paths:  make(map[string]PathMetrics),
	}

	allPaths := make(map[string]bool)
	for path := range m.requests {
		allPaths[path] = true
	}
	for path := range m.matched {
		allPaths[path] = true
	}
	for path := range m.notFound {
		allPaths[path] = true
	}
	for path := range m.responseTimes {
		allPaths[path] = true
	}

	for path := range allPaths {
		snap.TotalRequests += m.requests[path]
		snap.TotalMatched += m.matched[path]
		snap.TotalNotFound += m.notFound[path]

		pm := PathMetrics{
			Requests:    m.requests[path],
			Matched:     m.matched[path],
			NotFound:    m.notFound[path],
			StatusCodes: copyCodes(m.statusCodes[path]),
		}

		durations := m.responseTimes[path]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			pm.AvgResponse = average(sorted)
			pm.P50Response = percentile(sorted, 0.50)
			pm.P95Response = percentile(sorted, 0.95)
			pm.P99Response = percentile(sorted, 0.99)
		}

		snap.Paths[path] = pm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:      make(map[string]int64),
		matched:       make(map[string]int64),
		notFound:      make(map[string]int64),
		responseTimes: make(map[string][]time.Duration),
		statusCodes:   make(map[string]map[int]int64),
		startTime:     time.Now(),
	}
}

func copyCodes(codes map[int]int64) map[int]int64 {
	out := make(map[int]int64, len(codes))
	for code, n := range codes {
		out[code] = n
	}
	return out
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
