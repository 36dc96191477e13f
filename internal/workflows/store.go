package workflows

import (
	"sync"
	"time"
)

// ExecutionStore retains execution records and their log buffers for a
// bounded window after completion. Entries are evicted by a per-entry timer
// and, as a backstop, lazily on read, so no background sweep is needed.
type ExecutionStore struct {
	retention time.Duration

	mu      sync.RWMutex
	entries map[string]*storeEntry

	// onCount, when set, observes the retained-entry count after changes
	onCount func(count int)
}

type storeEntry struct {
	execution *WorkflowExecution
	logs      []ExecutionLog
	expiresAt time.Time // zero until eviction is scheduled
	timer     *time.Timer
}

// NewExecutionStore creates a store with the given retention window
func NewExecutionStore(retention time.Duration) *ExecutionStore {
	return &ExecutionStore{
		retention: retention,
		entries:   make(map[string]*storeEntry),
	}
}

// SetCountObserver registers a callback observing the retained-entry count
func (s *ExecutionStore) SetCountObserver(fn func(count int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCount = fn
}

// Put stores a snapshot of the execution record, replacing any previous
// snapshot for the same id. Log buffer and eviction schedule survive
// replacement.
func (s *ExecutionStore) Put(execution *WorkflowExecution) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[execution.ID]
	if !ok {
		entry = &storeEntry{}
		s.entries[execution.ID] = entry
	}
	entry.execution = execution.Clone()
	s.notifyCountLocked()
}

// AppendLog appends a log entry to the execution's buffer
func (s *ExecutionStore) AppendLog(executionID string, log ExecutionLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[executionID]
	if !ok {
		return
	}
	entry.logs = append(entry.logs, log)
}

// Get returns the execution record for the id, or false once the retention
// window has elapsed
func (s *ExecutionStore) Get(executionID string) (*WorkflowExecution, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[executionID]
	if !ok || s.expiredLocked(executionID, entry) {
		return nil, false
	}
	return entry.execution.Clone(), true
}

// Logs returns the log entries for the id; nil once expired
func (s *ExecutionStore) Logs(executionID string) []ExecutionLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[executionID]
	if !ok || s.expiredLocked(executionID, entry) {
		return nil
	}
	logs := make([]ExecutionLog, len(entry.logs))
	copy(logs, entry.logs)
	return logs
}

// ScheduleEviction starts the retention countdown for a finished execution
func (s *ExecutionStore) ScheduleEviction(executionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[executionID]
	if !ok {
		return
	}
	entry.expiresAt = time.Now().Add(s.retention)
	entry.timer = time.AfterFunc(s.retention, func() {
		s.evict(executionID)
	})
}

// Count returns the number of retained entries
func (s *ExecutionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops all pending eviction timers
func (s *ExecutionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.timer != nil {
			entry.timer.Stop()
		}
	}
}

func (s *ExecutionStore) evict(executionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, executionID)
	s.notifyCountLocked()
}

// expiredLocked removes the entry when the timer has not fired yet but the
// window has already elapsed
func (s *ExecutionStore) expiredLocked(executionID string, entry *storeEntry) bool {
	if entry.expiresAt.IsZero() || time.Now().Before(entry.expiresAt) {
		return false
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	delete(s.entries, executionID)
	s.notifyCountLocked()
	return true
}

func (s *ExecutionStore) notifyCountLocked() {
	if s.onCount != nil {
		s.onCount(len(s.entries))
	}
}
