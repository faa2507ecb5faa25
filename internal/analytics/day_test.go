package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay_Apply(t *testing.T) {
	base := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	d := NewDay("2026-05-04")

	d.Apply(Event{Time: base, IP: "10.0.0.2", Success: true, Goal: "sleep"})
	d.Apply(Event{Time: base.Add(-time.Hour), IP: "10.0.0.1", Success: true})
	d.Apply(Event{Time: base.Add(time.Hour), IP: "10.0.0.2", Success: false, Error: "VALIDATION_ERROR: age is required", RequestID: "r1"})
	d.Apply(Event{Time: base.Add(30 * time.Minute), IP: "10.0.0.3", Success: false, Goal: "energy"})

	assert.Equal(t, int64(4), d.TotalRequests)
	assert.Equal(t, int64(2), d.SuccessfulRequests)
	assert.Equal(t, int64(2), d.FailedRequests)
	assert.Equal(t, map[string]int64{"sleep": 1}, d.GoalSelections)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, d.UniqueIPs)
	require.Len(t, d.Errors, 1)
	assert.Equal(t, "r1", d.Errors[0].RequestID)
	assert.Equal(t, base.Add(-time.Hour), *d.FirstRequest)
	assert.Equal(t, base.Add(time.Hour), *d.LastRequest)
}

func TestDay_ErrorListKeepsNewest(t *testing.T) {
	base := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	d := NewDay("2026-05-04")

	for i := 0; i < MaxErrorsPerDay+20; i++ {
		d.Apply(Event{Time: base.Add(time.Duration(i) * time.Second), Error: fmt.Sprintf("e%d", i)})
	}

	require.Len(t, d.Errors, MaxErrorsPerDay)
	assert.Equal(t, "e20", d.Errors[0].Error)
	assert.Equal(t, fmt.Sprintf("e%d", MaxErrorsPerDay+19), d.Errors[MaxErrorsPerDay-1].Error)
	assert.Equal(t, int64(MaxErrorsPerDay+20), d.FailedRequests)
}

func TestDay_CloneIsIndependent(t *testing.T) {
	d := NewDay("2026-05-04")
	d.Apply(Event{Time: time.Now(), IP: "1.1.1.1", Success: true, Goal: "focus"})

	cp := d.Clone()
	cp.GoalSelections["focus"] = 99
	cp.UniqueIPs[0] = "changed"
	*cp.FirstRequest = time.Time{}

	assert.Equal(t, int64(1), d.GoalSelections["focus"])
	assert.Equal(t, "1.1.1.1", d.UniqueIPs[0])
	assert.False(t, d.FirstRequest.IsZero())
}

func TestDateKey_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2026, 5, 4, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-05-04", DateKey(ts, time.UTC))
	assert.Equal(t, "2026-05-05", DateKey(ts, loc))
}
