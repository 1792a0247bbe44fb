package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for requests and triage outcomes.
type Metrics struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	errorCount     map[string]int64
	tierCount      map[int]int64
	automationRuns map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:   make(map[string]int64),
		errorCount:     make(map[string]int64),
		tierCount:      make(map[int]int64),
		automationRuns: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordTier counts one classification landing in the given tier.
func (m *Metrics) RecordTier(tier int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tierCount[tier]++
}

// RecordAutomation counts one automation run by terminal status.
func (m *Metrics) RecordAutomation(status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.automationRuns[status]++
}

// TierCounts returns a copy of per-tier classification counts.
func (m *Metrics) TierCounts() map[int]int64 {
	if m == nil {
		return map[int]int64{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int]int64, len(m.tierCount))
	for k, v := range m.tierCount {
		out[k] = v
	}
	return out
}

// AutomationCounts returns a copy of automation run counts keyed by
// terminal status.
func (m *Metrics) AutomationCounts() map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.automationRuns))
	for k, v := range m.automationRuns {
		out[k] = v
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
