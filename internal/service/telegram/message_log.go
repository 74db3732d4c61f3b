package telegram

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MessageLog persists sent message ids so a later run can replace them.
type MessageLog struct {
	mu   sync.Mutex
	path string
	ids  []int
}

// NewMessageLog loads previously recorded ids. A missing or corrupt file
// yields an empty log.
func NewMessageLog(path string) *MessageLog {
	l := &MessageLog{path: path}

	b, err := os.ReadFile(path)
	if err == nil {
		var ids []int
		if json.Unmarshal(b, &ids) == nil {
			l.ids = ids
		}
	}
	return l
}

// Append records a sent message id.
func (l *MessageLog) Append(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ids = append(l.ids, id)
	return l.persist()
}

// PopLast removes and returns up to n of the most recent ids, newest first.
func (l *MessageLog) PopLast(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.ids) {
		n = len(l.ids)
	}
	if n == 0 {
		return nil
	}

	popped := make([]int, 0, n)
	for i := 0; i < n; i++ {
		popped = append(popped, l.ids[len(l.ids)-1-i])
	}
	l.ids = l.ids[:len(l.ids)-n]
	_ = l.persist()
	return popped
}

// Len reports the number of recorded ids.
func (l *MessageLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

func (l *MessageLog) persist() error {
	if l.path == "" {
		return nil
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create message log dir: %w", err)
		}
	}
	b, err := json.Marshal(l.ids)
	if err != nil {
		return fmt.Errorf("marshal message log: %w", err)
	}
	if err := os.WriteFile(l.path, b, 0o644); err != nil {
		return fmt.Errorf("write message log: %w", err)
	}
	return nil
}
