// Package logbuf keeps the most recent log lines in memory for the log viewer
// and writes them through to the log table.
package logbuf

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

// DefaultCapacity is used when a non-positive capacity is requested
const DefaultCapacity = 500

const (
	pendingSize  = 256
	writeTimeout = 5 * time.Second
)

// Ring is a bounded buffer of log entries. When full the oldest entry is evicted.
// It implements logrus.Hook so it can be attached to a logger.
type Ring struct {
	mu      sync.Mutex
	entries []domain.LogEntry
	next    int // index the next entry is written to
	size    int
	seq     int64

	// Set while persisting; entries are queued for the writer goroutine
	pending chan domain.LogEntry
	done    chan struct{}
	dropped int64
}

// NewRing creates a ring that holds up to capacity entries
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{entries: make([]domain.LogEntry, capacity)}
}

// Append stores a new entry, evicting the oldest when the ring is full.
// While persisting, the entry is also queued for the store.
func (r *Ring) Append(level domain.LogLevel, message string, at time.Time) domain.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	entry := domain.LogEntry{ID: r.seq, Level: level, Message: message, Timestamp: at}
	r.put(entry)

	if r.pending != nil {
		select {
		case r.pending <- entry:
		default:
			r.dropped++
		}
	}
	return entry
}

func (r *Ring) put(entry domain.LogEntry) {
	r.entries[r.next] = entry
	r.next = (r.next + 1) % len(r.entries)
	if r.size < len(r.entries) {
		r.size++
	}
}

// Persist loads the newest stored entries into the ring, ahead of anything
// logged so far, and starts writing entries to store.
func (r *Ring) Persist(ctx context.Context, store repo.LogRepo) error {
	stored, err := store.List(ctx, len(r.entries))
	if err != nil {
		return fmt.Errorf("failed to load logs: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil {
		return nil
	}

	current := r.snapshotLocked()
	r.next, r.size, r.seq = 0, 0, 0
	for i := len(stored) - 1; i >= 0; i-- {
		r.put(*stored[i])
		r.seq = stored[i].ID
	}

	r.pending = make(chan domain.LogEntry, pendingSize)
	r.done = make(chan struct{})

	// Lines logged before the store was available are renumbered and queued too
	for _, e := range current {
		r.seq++
		e.ID = r.seq
		r.put(e)
		select {
		case r.pending <- e:
		default:
			r.dropped++
		}
	}

	go r.write(store, r.pending, r.done)
	return nil
}

// Close stops persisting after the queued entries are written
func (r *Ring) Close() {
	r.mu.Lock()
	pending, done := r.pending, r.done
	r.pending = nil
	dropped := r.dropped
	r.mu.Unlock()

	if pending == nil {
		return
	}
	close(pending)
	<-done
	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "[logbuf] %d log entries were not persisted\n", dropped)
	}
}

// write drains queued entries into store. Failures go to stderr because
// logging them would feed back into this hook.
func (r *Ring) write(store repo.LogRepo, pending <-chan domain.LogEntry, done chan<- struct{}) {
	defer close(done)
	for entry := range pending {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		e := entry
		if err := store.Append(ctx, &e); err != nil {
			fmt.Fprintf(os.Stderr, "[logbuf] failed to persist log entry: %v\n", err)
		}
		cancel()
	}
}

// Entries returns up to limit entries, newest first. limit <= 0 returns all.
func (r *Ring) Entries(limit int) []domain.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.size
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]domain.LogEntry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (r.next - i + len(r.entries)) % len(r.entries)
		result = append(result, r.entries[idx])
	}
	return result
}

// snapshotLocked returns the stored entries oldest first
func (r *Ring) snapshotLocked() []domain.LogEntry {
	result := make([]domain.LogEntry, 0, r.size)
	for i := r.size; i >= 1; i-- {
		idx := (r.next - i + len(r.entries)) % len(r.entries)
		result = append(result, r.entries[idx])
	}
	return result
}

// Len returns the number of stored entries
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Levels implements logrus.Hook. Debug and trace lines are not kept.
func (r *Ring) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

// Fire implements logrus.Hook
func (r *Ring) Fire(e *logrus.Entry) error {
	message := e.Message
	if module, ok := e.Data["module"].(string); ok && module != "" {
		message = "[" + module + "] " + message
	}
	r.Append(levelOf(e.Level), message, e.Time)
	return nil
}

func levelOf(l logrus.Level) domain.LogLevel {
	switch {
	case l <= logrus.ErrorLevel:
		return domain.LogLevelError
	case l == logrus.WarnLevel:
		return domain.LogLevelWarn
	default:
		return domain.LogLevelInfo
	}
}
