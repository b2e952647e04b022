package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// SysInfoInterval is the minimum time between two samples.
const SysInfoInterval = time.Second

// Usage is one CPU and memory reading.
type Usage struct {
	CPU      float64
	MemUsed  uint64
	MemTotal uint64
}

// Sampler reads the current usage.
type Sampler func() (Usage, error)

// HostSampler reads usage from the host through gopsutil. The CPU value is
// the utilization since the previous call.
func HostSampler() (Usage, error) {
	var u Usage

	pct, err := cpu.Percent(0, false)
	if err != nil {
		return u, fmt.Errorf("read cpu: %w", err)
	}
	if len(pct) > 0 {
		u.CPU = pct[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return u, fmt.Errorf("read memory: %w", err)
	}
	u.MemUsed = vm.Used
	u.MemTotal = vm.Total
	return u, nil
}

const historyLen = 10

// SysInfo shows a CPU graph and memory usage.
type SysInfo struct {
	sample  Sampler
	history []float64
	last    Usage
	lastAt  time.Time
	err     error
}

// NewSysInfo returns a SysInfo that reads through sample.
func NewSysInfo(sample Sampler) *SysInfo {
	return &SysInfo{sample: sample}
}

func (s *SysInfo) Mount(Context) {}

func (s *SysInfo) Tick(now time.Time) {
	if !s.lastAt.IsZero() && now.Sub(s.lastAt) < SysInfoInterval {
		return
	}
	s.lastAt = now

	u, err := s.sample()
	s.err = err
	if err != nil {
		return
	}
	s.last = u
	if len(s.history) >= historyLen {
		s.history = s.history[1:]
	}
	s.history = append(s.history, u.CPU)
}

func (s *SysInfo) View(width, height int) string {
	if s.err != nil {
		return fit([]string{s.err.Error()}, width, height)
	}
	lines := []string{
		s.cpuGraph(),
		fmt.Sprintf("MEM: %s / %s", humanBytes(s.last.MemUsed), humanBytes(s.last.MemTotal)),
	}
	if s.last.MemTotal > 0 {
		lines = append(lines, fmt.Sprintf("     %3.0f%% used", 100*float64(s.last.MemUsed)/float64(s.last.MemTotal)))
	}
	return fit(lines, width, height)
}

// cpuGraph renders the history as a fixed-width bar graph so the line does
// not shift as samples arrive.
func (s *SysInfo) cpuGraph() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", historyLen-len(s.history)))

	bars := []rune("▁▂▃▄▅▆▇█")
	for _, usage := range s.history {
		level := min(max(int(usage/12.5), 0), len(bars)-1)
		b.WriteRune(bars[level])
	}

	current := 0.0
	if len(s.history) > 0 {
		current = s.history[len(s.history)-1]
	}
	return fmt.Sprintf("CPU:%s %3.0f%%", b.String(), current)
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
