package service

import (
	"sort"
	"sync"

	"github.com/bytebasket/backend/internal/types"
)

// DefaultMismatchLogCapacity is the number of entries kept when no capacity is configured.
const DefaultMismatchLogCapacity = 1000

// MismatchLog is a fixed-capacity ring buffer of mismatch entries. Once
// full, each append overwrites the oldest entry. It is safe for concurrent use.
type MismatchLog struct {
	mu      sync.RWMutex
	entries []types.MismatchLogEntry
	next    int
	size    int
}

// NewMismatchLog creates a log holding at most capacity entries.
func NewMismatchLog(capacity int) *MismatchLog {
	if capacity <= 0 {
		capacity = DefaultMismatchLogCapacity
	}
	return &MismatchLog{entries: make([]types.MismatchLogEntry, capacity)}
}

func (l *MismatchLog) Append(entry types.MismatchLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[l.next] = entry
	l.next = (l.next + 1) % len(l.entries)
	if l.size < len(l.entries) {
		l.size++
	}
}

func (l *MismatchLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

func (l *MismatchLog) Capacity() int {
	return len(l.entries)
}

// Snapshot returns the retained entries oldest first.
func (l *MismatchLog) Snapshot() []types.MismatchLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.MismatchLogEntry, 0, l.size)
	start := (l.next - l.size + len(l.entries)) % len(l.entries)
	for i := 0; i < l.size; i++ {
		out = append(out, l.entries[(start+i)%len(l.entries)])
	}
	return out
}

// Query returns the entries matching filters, newest first.
func (l *MismatchLog) Query(filters types.MismatchFilters) []types.MismatchLogEntry {
	all := l.Snapshot()
	out := make([]types.MismatchLogEntry, 0, len(all))
	for _, e := range all {
		if filters.UserID != nil && e.UserID != *filters.UserID {
			continue
		}
		if filters.Severity != "" && e.Severity != filters.Severity {
			continue
		}
		if filters.StartDate != nil && e.Timestamp.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && e.Timestamp.After(*filters.EndDate) {
			continue
		}
		out = append(out, e)
	}
	// Reverse first so equal timestamps keep newest-appended first under the stable sort.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
