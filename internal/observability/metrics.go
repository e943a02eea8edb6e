package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for the gateway, the operation
// queue and the validation core.
type Metrics struct {
	mu                sync.Mutex
	requestCount      map[string]int64
	errorCount        map[string]int64
	queuedOperations  map[string]int64
	queueTimeouts     map[string]int64
	validationResults map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:      make(map[string]int64),
		errorCount:        make(map[string]int64),
		queuedOperations:  make(map[string]int64),
		queueTimeouts:     make(map[string]int64),
		validationResults: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
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

// RecordQueuedOperation counts one operation drained from a guild queue.
func (m *Metrics) RecordQueuedOperation(guildID string, timedOut bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queuedOperations[guildID]++
	if timedOut {
		m.queueTimeouts[guildID]++
	}
}

// RecordValidation counts one aggregate validation outcome.
func (m *Metrics) RecordValidation(command string, valid bool) {
	if m == nil {
		return
	}
	key := command + "|" + strconv.FormatBool(valid)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationResults[key]++
}
