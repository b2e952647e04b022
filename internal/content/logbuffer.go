package content

import (
	"bytes"
	"sync"
)

// DefaultLogLines is how many lines a LogBuffer keeps by default.
const DefaultLogLines = 200

// LogBuffer is an io.Writer that keeps the last lines written to it. The
// desktop logger writes here because the terminal is owned by the UI.
type LogBuffer struct {
	mu      sync.Mutex
	lines   []string
	max     int
	partial []byte
}

// NewLogBuffer returns a buffer that keeps at most max lines.
func NewLogBuffer(max int) *LogBuffer {
	if max <= 0 {
		max = DefaultLogLines
	}
	return &LogBuffer{max: max}
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := append(b.partial, p...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		b.lines = append(b.lines, string(data[:i]))
		data = data[i+1:]
	}
	b.partial = append([]byte(nil), data...)

	if over := len(b.lines) - b.max; over > 0 {
		b.lines = append([]string(nil), b.lines[over:]...)
	}
	return len(p), nil
}

// Tail returns up to n of the most recent complete lines, oldest first.
func (b *LogBuffer) Tail(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n <= 0 || n > len(b.lines) {
		n = len(b.lines)
	}
	out := make([]string, n)
	copy(out, b.lines[len(b.lines)-n:])
	return out
}

// Len returns the number of complete lines held.
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}
