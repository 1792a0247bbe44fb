package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordTier(1)
	m.RecordTier(1)
	m.RecordTier(3)
	m.RecordAutomation("completed")
	m.RecordAutomation("failed")
	m.RecordRequest("/v1/tickets/triage", "POST", 200, 5*time.Millisecond)

	tiers := m.TierCounts()
	assert.Equal(t, int64(2), tiers[1])
	assert.Equal(t, int64(1), tiers[3])

	runs := m.AutomationCounts()
	assert.Equal(t, int64(1), runs["completed"])
	assert.Equal(t, int64(1), runs["failed"])

	// Snapshots are copies, not views.
	tiers[1] = 99
	assert.Equal(t, int64(2), m.TierCounts()[1])
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordTier(1)
	m.RecordAutomation("completed")
	assert.Empty(t, m.TierCounts())
	assert.Empty(t, m.AutomationCounts())
}
