// Package analytics keeps per-day request counters in memory and mirrors them
// into a JSON file that holds a trailing window of days.
package analytics

import (
	"sort"
	"time"
)

const (
	dateLayout = "2006-01-02"

	// MaxErrorsPerDay bounds the error list kept for a single day; older
	// entries are dropped first.
	MaxErrorsPerDay = 100
)

// GoalLocalsKey is the Fiber locals key a handler sets to the goal of a
// successful suggestion request.
const GoalLocalsKey = "analytics_goal"

// Event is one handled request.
type Event struct {
	Time      time.Time
	IP        string
	Success   bool
	Goal      string // set only for successful suggestion requests
	Error     string
	RequestID string
}

type ErrorEntry struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId"`
}

// Day aggregates all events of one local calendar date.
type Day struct {
	Date               string           `json:"date"`
	TotalRequests      int64            `json:"totalRequests"`
	SuccessfulRequests int64            `json:"successfulRequests"`
	FailedRequests     int64            `json:"failedRequests"`
	GoalSelections     map[string]int64 `json:"goalSelections"`
	Errors             []ErrorEntry     `json:"errors"`
	UniqueIPs          []string         `json:"uniqueIPs"`
	FirstRequest       *time.Time       `json:"firstRequest"`
	LastRequest        *time.Time       `json:"lastRequest"`
}

func NewDay(date string) Day {
	return Day{
		Date:           date,
		GoalSelections: map[string]int64{},
		Errors:         []ErrorEntry{},
		UniqueIPs:      []string{},
	}
}

// DateKey formats t as a calendar date in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// Apply folds ev into d.
func (d *Day) Apply(ev Event) {
	if d.GoalSelections == nil {
		d.GoalSelections = map[string]int64{}
	}

	d.TotalRequests++
	if ev.Success {
		d.SuccessfulRequests++
		if ev.Goal != "" {
			d.GoalSelections[ev.Goal]++
		}
	} else {
		d.FailedRequests++
		if ev.Error != "" {
			d.Errors = append(d.Errors, ErrorEntry{Error: ev.Error, Timestamp: ev.Time, RequestID: ev.RequestID})
			if over := len(d.Errors) - MaxErrorsPerDay; over > 0 {
				d.Errors = append(d.Errors[:0:0], d.Errors[over:]...)
			}
		}
	}

	if ev.IP != "" {
		i := sort.SearchStrings(d.UniqueIPs, ev.IP)
		if i == len(d.UniqueIPs) || d.UniqueIPs[i] != ev.IP {
			d.UniqueIPs = append(d.UniqueIPs, "")
			copy(d.UniqueIPs[i+1:], d.UniqueIPs[i:])
			d.UniqueIPs[i] = ev.IP
		}
	}

	t := ev.Time
	if d.FirstRequest == nil || t.Before(*d.FirstRequest) {
		d.FirstRequest = &t
	}
	if d.LastRequest == nil || t.After(*d.LastRequest) {
		last := t
		d.LastRequest = &last
	}
}

// Clone returns a deep copy safe to hand to other goroutines.
func (d Day) Clone() Day {
	cp := d
	cp.GoalSelections = make(map[string]int64, len(d.GoalSelections))
	for k, v := range d.GoalSelections {
		cp.GoalSelections[k] = v
	}
	cp.Errors = append([]ErrorEntry{}, d.Errors...)
	cp.UniqueIPs = append([]string{}, d.UniqueIPs...)
	if d.FirstRequest != nil {
		t := *d.FirstRequest
		cp.FirstRequest = &t
	}
	if d.LastRequest != nil {
		t := *d.LastRequest
		cp.LastRequest = &t
	}
	return cp
}
