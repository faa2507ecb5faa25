package analytics

import "fmt"

const MaxSummaryDays = 90

type Totals struct {
	TotalRequests      int64            `json:"totalRequests"`
	SuccessfulRequests int64            `json:"successfulRequests"`
	FailedRequests     int64            `json:"failedRequests"`
	GoalSelections     map[string]int64 `json:"goalSelections"`
	UniqueIPs          int              `json:"uniqueIPs"`
	Errors             int              `json:"errors"`
}

type Summary struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Days   []Day  `json:"days"`
	Totals Totals `json:"totals"`
}

// Summary returns the persisted days covering the last n dates, today
// included, along with their totals. Unique IPs are counted across the range.
func (a *Aggregator) Summary(n int) (Summary, error) {
	if n < 1 || n > MaxSummaryDays {
		return Summary{}, fmt.Errorf("days must be between 1 and %d", MaxSummaryDays)
	}

	now := a.now()
	from := DateKey(now.AddDate(0, 0, -(n - 1)), a.loc)
	to := DateKey(now, a.loc)

	days, err := a.store.Range(from, to)
	if err != nil {
		return Summary{}, err
	}

	totals := Totals{GoalSelections: map[string]int64{}}
	ips := map[string]struct{}{}
	for _, d := range days {
		totals.TotalRequests += d.TotalRequests
		totals.SuccessfulRequests += d.SuccessfulRequests
		totals.FailedRequests += d.FailedRequests
		totals.Errors += len(d.Errors)
		for goal, count := range d.GoalSelections {
			totals.GoalSelections[goal] += count
		}
		for _, ip := range d.UniqueIPs {
			ips[ip] = struct{}{}
		}
	}
	totals.UniqueIPs = len(ips)

	return Summary{From: from, To: to, Days: days, Totals: totals}, nil
}
