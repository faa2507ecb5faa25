package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	defaultQueueSize = 1024
	maxBatch         = 256

	// MidnightSpec fires at local midnight.
	MidnightSpec = "0 0 * * *"
)

type Options struct {
	Now       func() time.Time
	Location  *time.Location
	QueueSize int
	// OnDrop is called for every event that could not be queued for the file.
	OnDrop func()
}

type op struct {
	ev   Event
	sync chan struct{} // non-nil for flush markers
}

// Aggregator owns today's in-memory counters and feeds a single writer
// goroutine that mirrors every event into the FileStore.
type Aggregator struct {
	mu   sync.Mutex
	live Day

	store  *FileStore
	now    func() time.Time
	loc    *time.Location
	onDrop func()

	queue   chan op
	cron    *cron.Cron
	done    chan struct{}
	wg      sync.WaitGroup
	started atomic.Bool
	stopped atomic.Bool
	dropped atomic.Int64
}

func New(store *FileStore, opts Options) *Aggregator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	a := &Aggregator{
		store:  store,
		now:    opts.Now,
		loc:    opts.Location,
		onDrop: opts.OnDrop,
		queue:  make(chan op, opts.QueueSize),
		done:   make(chan struct{}),
	}
	a.live = NewDay(DateKey(a.now(), a.loc))
	a.cron = cron.New(
		cron.WithLocation(a.loc),
		cron.WithChain(cron.Recover(cronLogger{})),
	)
	return a
}

// Start launches the writer goroutine and the midnight reset job.
func (a *Aggregator) Start() error {
	if !a.started.CompareAndSwap(false, true) {
		return errors.New("analytics aggregator already started")
	}
	if _, err := a.cron.AddFunc(MidnightSpec, func() { a.Rollover(a.now()) }); err != nil {
		return fmt.Errorf("failed to schedule analytics reset: %w", err)
	}
	a.cron.Start()

	a.wg.Add(1)
	go a.writer()

	slog.Info("analytics aggregator started", "date", a.Live().Date)
	return nil
}

// Stop cancels the reset job, persists whatever is queued and waits for the
// writer to exit or ctx to end.
func (a *Aggregator) Stop(ctx context.Context) error {
	if !a.started.Load() || !a.stopped.CompareAndSwap(false, true) {
		return nil
	}

	cronCtx := a.cron.Stop()
	close(a.done)

	finished := make(chan struct{})
	go func() {
		a.wg.Wait()
		<-cronCtx.Done()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Record counts ev in memory and queues it for the file without blocking.
// A zero ev.Time is replaced by the aggregator's clock.
func (a *Aggregator) Record(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = a.now()
	}

	a.mu.Lock()
	a.rolloverLocked(ev.Time)
	if DateKey(ev.Time, a.loc) == a.live.Date {
		a.live.Apply(ev)
	}
	a.mu.Unlock()

	if a.stopped.Load() {
		a.drop("aggregator stopped")
		return
	}
	select {
	case a.queue <- op{ev: ev}:
	default:
		a.drop("queue full")
	}
}

// Rollover starts a new in-memory day when t falls on a later date than the
// current one. Calling it again for the same date does nothing.
func (a *Aggregator) Rollover(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rolloverLocked(t)
}

func (a *Aggregator) rolloverLocked(t time.Time) {
	date := DateKey(t, a.loc)
	if date <= a.live.Date {
		return
	}
	slog.Info("analytics day rolled over", "from", a.live.Date, "to", date, "requests", a.live.TotalRequests)
	a.live = NewDay(date)
}

// Live returns a copy of the in-memory counters for the current date.
func (a *Aggregator) Live() Day {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rolloverLocked(a.now())
	return a.live.Clone()
}

// Today returns the persisted record for the current date.
func (a *Aggregator) Today() (Day, error) {
	day, _, err := a.store.Day(DateKey(a.now(), a.loc))
	return day, err
}

// Dropped reports how many events never reached the file.
func (a *Aggregator) Dropped() int64 {
	return a.dropped.Load()
}

// Flush blocks until every event queued before the call has been written.
func (a *Aggregator) Flush(ctx context.Context) error {
	if !a.started.Load() || a.stopped.Load() {
		return errors.New("analytics aggregator is not running")
	}
	ack := make(chan struct{})
	select {
	case a.queue <- op{sync: ack}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Aggregator) drop(reason string) {
	n := a.dropped.Add(1)
	if a.onDrop != nil {
		a.onDrop()
	}
	slog.Warn("analytics event dropped", "reason", reason, "dropped_total", n)
}

func (a *Aggregator) writer() {
	defer a.wg.Done()

	batch := make([]Event, 0, maxBatch)
	var acks []chan struct{}

	take := func(o op) {
		if o.sync != nil {
			acks = append(acks, o.sync)
			return
		}
		batch = append(batch, o.ev)
	}

	flush := func() {
		if len(batch) > 0 {
			a.persist(batch)
			batch = batch[:0]
		}
		for _, ack := range acks {
			close(ack)
		}
		acks = acks[:0]
	}

	for {
		select {
		case o := <-a.queue:
			take(o)
		drain:
			for len(batch) < maxBatch {
				select {
				case o := <-a.queue:
					take(o)
				default:
					break drain
				}
			}
			flush()
		case <-a.done:
			for {
				select {
				case o := <-a.queue:
					take(o)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (a *Aggregator) persist(batch []Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analytics writer panicked", "panic", r)
		}
	}()
	if err := a.store.Apply(batch, a.now()); err != nil {
		slog.Error("failed to persist analytics", "events", len(batch), "error", err)
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
