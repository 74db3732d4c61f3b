package logger

import (
	"fmt"
	"sync"
	"time"
)

// Entry is a single recorded log line.
type Entry struct {
	Time    time.Time              `json:"time"`
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
	Caller  string                 `json:"caller,omitempty"`
}

// Recorder keeps the most recent log entries in a fixed-size ring buffer.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	filled  bool
}

func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 100
	}
	return &Recorder{entries: make([]Entry, capacity)}
}

func (r *Recorder) Add(level, msg string, fields map[string]interface{}, caller string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = Entry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  fields,
		Caller:  caller,
	}
	r.next++
	if r.next == len(r.entries) {
		r.next = 0
		r.filled = true
	}
}

// Recent returns up to n entries, oldest first.
func (r *Recorder) Recent(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ordered []Entry
	if r.filled {
		ordered = append(ordered, r.entries[r.next:]...)
	}
	ordered = append(ordered, r.entries[:r.next]...)

	if n > 0 && len(ordered) > n {
		ordered = ordered[len(ordered)-n:]
	}
	out := make([]Entry, len(ordered))
	copy(out, ordered)
	return out
}

// RecentLines renders recent entries as human-readable lines, oldest first.
func (r *Recorder) RecentLines(n int) []string {
	entries := r.Recent(n)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s [%s] %s", e.Time.Format(time.RFC3339), e.Level, e.Message))
	}
	return lines
}
