// Package reporting collects per-webhook calculation log entries and
// summarizes them into a retrospective report.
package reporting

import (
	"sync"
	"time"
)

// Event names recorded by the orchestrator.
const (
	EventCalculateTaxes = "calculate-taxes"
	EventOrderCreated   = "order-created"
	EventOrderFulfilled = "order-fulfilled"
)

// LogEntry is one processed webhook.
type LogEntry struct {
	Timestamp time.Time
	Event     string
	Channel   string
	Provider  string
	Succeeded bool
	ErrorKind string
	Latency   time.Duration
}

// Recorder is an in-memory, append-only store of log entries. Safe for
// concurrent use; entries are copied out on read.
type Recorder struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one entry.
func (r *Recorder) Record(entry LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Entries returns a snapshot of everything recorded so far.
func (r *Recorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]LogEntry, len(r.entries))
	copy(snapshot, r.entries)
	return snapshot
}

// RetrospectiveReport summarizes webhook activity over the recorded window.
type RetrospectiveReport struct {
	TotalRequests  int            `json:"totalRequests"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	EventBreakdown map[string]int `json:"eventBreakdown"`
	ErrorBreakdown map[string]int `json:"errorBreakdown"`
	ProviderUsage  map[string]int `json:"providerUsage"`
	ChannelUsage   map[string]int `json:"channelUsage"`
	AverageLatency time.Duration  `json:"averageLatencyNs"`
	DateFrom       time.Time      `json:"dateFrom"`
	DateTo         time.Time      `json:"dateTo"`
}

// GenerateRetrospective folds log entries into a report. An empty input
// yields an empty report with initialized maps, not nil.
func GenerateRetrospective(logs []LogEntry) *RetrospectiveReport {
	report := &RetrospectiveReport{
		EventBreakdown: make(map[string]int),
		ErrorBreakdown: make(map[string]int),
		ProviderUsage:  make(map[string]int),
		ChannelUsage:   make(map[string]int),
	}
	if len(logs) == 0 {
		return report
	}

	report.DateFrom = logs[0].Timestamp
	report.DateTo = logs[0].Timestamp
	var totalLatency time.Duration

	for _, entry := range logs {
		report.TotalRequests++
		totalLatency += entry.Latency

		if entry.Timestamp.Before(report.DateFrom) {
			report.DateFrom = entry.Timestamp
		}
		if entry.Timestamp.After(report.DateTo) {
			report.DateTo = entry.Timestamp
		}

		if entry.Event != "" {
			report.EventBreakdown[entry.Event]++
		}
		if entry.Provider != "" {
			report.ProviderUsage[entry.Provider]++
		}
		if entry.Channel != "" {
			report.ChannelUsage[entry.Channel]++
		}

		if entry.Succeeded {
			report.Succeeded++
		} else {
			report.Failed++
			if entry.ErrorKind != "" {
				report.ErrorBreakdown[entry.ErrorKind]++
			}
		}
	}

	report.AverageLatency = totalLatency / time.Duration(report.TotalRequests)
	return report
}
