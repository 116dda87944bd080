package deck

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/arven/deckhand/util/stringutil"
)

// Ledger is the append-only record of completed themes. Matching is exact and
// case sensitive. Safe for concurrent use.
type Ledger struct {
	path string

	mu   sync.Mutex
	done map[string]struct{}
}

// LoadLedger reads the ledger file. A missing file yields an empty ledger;
// the file is created on the first Record call.
func LoadLedger(path string) (*Ledger, error) {
	ledger := &Ledger{path: path, done: map[string]struct{}{}}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ledger, nil
		}
		return nil, fmt.Errorf("open ledger %q: %w", path, err)
	}
	defer file.Close()
	data, err := io.ReadAll(stringutil.GetTextReader(file))
	if err != nil {
		return nil, fmt.Errorf("read ledger %q: %w", path, err)
	}
	for _, line := range stringutil.SplitLines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ledger.done[line] = struct{}{}
	}
	return ledger, nil
}

func (l *Ledger) IsCompleted(theme string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.done[theme]
	return ok
}

// Record appends the theme to the ledger file and marks it completed.
// Recording an already-completed theme is a no-op.
func (l *Ledger) Record(theme string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.done[theme]; ok {
		return nil
	}
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open ledger %q: %w", l.path, err)
	}
	defer file.Close()
	if _, err := file.WriteString(theme + "\n"); err != nil {
		return fmt.Errorf("append to ledger %q: %w", l.path, err)
	}
	l.done[theme] = struct{}{}
	return nil
}

// Filter returns the themes not yet completed, preserving input order.
func (l *Ledger) Filter(themes []string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining := make([]string, 0, len(themes))
	for _, theme := range themes {
		if _, ok := l.done[theme]; !ok {
			remaining = append(remaining, theme)
		}
	}
	return remaining
}

// Len is the number of completed themes.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.done)
}
