package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileStore keeps every retained Day in a single JSON object keyed by date.
// The whole file is rewritten on each Apply through a temp file and rename,
// so readers never see a partial write.
type FileStore struct {
	mu        sync.Mutex
	path      string
	retention int
	loc       *time.Location
	days      map[string]Day
	loaded    bool
}

func NewFileStore(path string, retentionDays int, loc *time.Location) *FileStore {
	if loc == nil {
		loc = time.Local
	}
	return &FileStore{path: path, retention: retentionDays, loc: loc}
}

// Apply folds events into their days, drops days that fell out of the
// retention window relative to now and persists the result.
func (s *FileStore) Apply(events []Event, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	for _, ev := range events {
		key := DateKey(ev.Time, s.loc)
		day, ok := s.days[key]
		if !ok {
			day = NewDay(key)
		}
		day.Apply(ev)
		s.days[key] = day
	}
	s.pruneLocked(now)

	return s.writeLocked()
}

// Day returns the stored record for date and whether one exists.
func (s *FileStore) Day(date string) (Day, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return Day{}, false, err
	}
	day, ok := s.days[date]
	if !ok {
		return NewDay(date), false, nil
	}
	return day.Clone(), true, nil
}

// Range returns stored days with from <= date <= to, oldest first.
func (s *FileStore) Range(from, to string) ([]Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	out := []Day{}
	for date, day := range s.days {
		if date >= from && date <= to {
			out = append(out, day.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *FileStore) loadLocked() error {
	if s.loaded {
		return nil
	}

	s.days = map[string]Day{}
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.loaded = true
		return nil
	case err != nil:
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.days); err != nil {
			// keep the unreadable file around for inspection and start over
			aside := s.path + ".corrupt"
			slog.Warn("analytics file is corrupt, starting fresh", "path", s.path, "moved_to", aside, "error", err)
			if rerr := os.Rename(s.path, aside); rerr != nil {
				return fmt.Errorf("failed to move corrupt analytics file: %w", rerr)
			}
			s.days = map[string]Day{}
		}
	}
	s.loaded = true
	return nil
}

func (s *FileStore) pruneLocked(now time.Time) {
	if s.retention <= 0 {
		return
	}
	cutoff := DateKey(now.AddDate(0, 0, -(s.retention - 1)), s.loc)
	for date := range s.days {
		if date < cutoff {
			delete(s.days, date)
		}
	}
}

func (s *FileStore) writeLocked() error {
	data, err := json.MarshalIndent(s.days, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analytics: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp analytics file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write analytics: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync analytics: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close analytics file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace analytics file: %w", err)
	}
	return nil
}
