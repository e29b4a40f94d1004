package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ChatRecord is one logged question/answer interaction. Records are never
// mutated or deleted after creation.
type ChatRecord struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Query     string
	Response  string
	RunTime   time.Duration
}

// Log is the append-only conversation log for one running session. It lives
// in memory only; a restart starts a fresh log.
type Log struct {
	mu      sync.Mutex
	records []ChatRecord
	now     func() time.Time
}

// NewLog creates an empty session log
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Record appends a new record with a fresh identifier and timestamp.
// It never fails. Appends are serialized; call order is preserved.
func (l *Log) Record(query, response string, runTime time.Duration) ChatRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := ChatRecord{
		ID:        uuid.New(),
		CreatedAt: l.now(),
		Query:     query,
		Response:  response,
		RunTime:   runTime,
	}
	l.records = append(l.records, rec)
	return rec
}

// Records returns a snapshot of all records in append order
func (l *Log) Records() []ChatRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ChatRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
