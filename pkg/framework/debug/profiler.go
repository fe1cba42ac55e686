// Package debug provides timing and buffer inspection helpers for offline
// renders and tests. Nothing here is meant to run on a live audio thread.
package debug

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Profiler collects timing statistics for named sections.
type Profiler struct {
	mu           sync.RWMutex
	measurements map[string]*Measurement
	enabled      atomic.Bool
	maxSamples   int
}

// Measurement holds timing statistics for a profiled section.
type Measurement struct {
	name        string
	count       uint64
	totalTime   time.Duration
	minTime     time.Duration
	maxTime     time.Duration
	lastTime    time.Duration
	samples     []time.Duration
	sampleIndex int
}

// NewProfiler creates a new profiler with the specified sample buffer size.
func NewProfiler(maxSamples int) *Profiler {
	if maxSamples < 1 {
		maxSamples = 1
	}
	p := &Profiler{
		measurements: make(map[string]*Measurement),
		maxSamples:   maxSamples,
	}
	p.enabled.Store(true)
	return p
}

// SetEnabled enables or disables profiling.
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// IsEnabled returns whether profiling is enabled.
func (p *Profiler) IsEnabled() bool {
	return p.enabled.Load()
}

// Start begins timing a named section.
func (p *Profiler) Start(name string) func() {
	if !p.enabled.Load() {
		return func() {} // No-op
	}

	start := time.Now()

	return func() {
		p.Record(name, time.Since(start))
	}
}

// Time measures the execution time of a function.
func (p *Profiler) Time(name string, fn func()) {
	stop := p.Start(name)
	defer stop()
	fn()
}

// Record stores a timing measurement.
func (p *Profiler) Record(name string, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		m = &Measurement{
			name:    name,
			minTime: elapsed,
			maxTime: elapsed,
			samples: make([]time.Duration, p.maxSamples),
		}
		p.measurements[name] = m
	}

	m.count++
	m.totalTime += elapsed
	m.lastTime = elapsed
	m.minTime = min(m.minTime, elapsed)
	m.maxTime = max(m.maxTime, elapsed)

	m.samples[m.sampleIndex] = elapsed
	m.sampleIndex = (m.sampleIndex + 1) % p.maxSamples
}

// GetMeasurement returns a copy of the measurement for a named section.
func (p *Profiler) GetMeasurement(name string) (*Measurement, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, exists := p.measurements[name]
	if !exists {
		return nil, false
	}

	snapshot := *m
	snapshot.samples = slices.Clone(m.samples)
	return &snapshot, true
}

// Names returns the recorded section names in sorted order.
func (p *Profiler) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.measurements))
	for name := range p.measurements {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.measurements = make(map[string]*Measurement)
}

// Report generates a performance report.
func (p *Profiler) Report() string {
	names := p.Names()
	if len(names) == 0 {
		return "No measurements recorded"
	}

	var sb strings.Builder
	sb.WriteString("Performance Report:\n")
	sb.WriteString("==================\n\n")

	for _, name := range names {
		m, _ := p.GetMeasurement(name)
		fmt.Fprintf(&sb, "%s:\n", name)
		fmt.Fprintf(&sb, "  Count:   %d\n", m.count)
		fmt.Fprintf(&sb, "  Total:   %v\n", m.totalTime)
		fmt.Fprintf(&sb, "  Average: %v\n", m.Average())
		fmt.Fprintf(&sb, "  Min:     %v\n", m.minTime)
		fmt.Fprintf(&sb, "  Max:     %v\n", m.maxTime)
		fmt.Fprintf(&sb, "  P99:     %v\n", m.Percentile(99))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Name returns the section name.
func (m *Measurement) Name() string { return m.name }

// Count returns how many times the section was recorded.
func (m *Measurement) Count() uint64 { return m.count }

// Min returns the fastest recorded time.
func (m *Measurement) Min() time.Duration { return m.minTime }

// Max returns the slowest recorded time.
func (m *Measurement) Max() time.Duration { return m.maxTime }

// Average returns the average time for this measurement.
func (m *Measurement) Average() time.Duration {
	if m.count == 0 {
		return 0
	}
	return m.totalTime / time.Duration(m.count)
}

// Percentile returns the given percentile (0-100) over the retained samples.
func (m *Measurement) Percentile(p float64) time.Duration {
	n := min(int(m.count), len(m.samples))
	if n == 0 {
		return 0
	}

	sorted := slices.Clone(m.samples[:n])
	slices.Sort(sorted)

	p = max(0, min(100, p))
	return sorted[int(float64(n-1)*p/100.0)]
}

// BlockProfiler measures block processing time against the real-time budget
// of the block.
type BlockProfiler struct {
	*Profiler
	bufferSize     int
	sampleRate     float64
	cpuLoadPercent atomic.Uint64
}

// BlockSection is the measurement name used by BlockProfiler.
const BlockSection = "ProcessAudio"

// NewBlockProfiler creates a profiler for blocks of bufferSize samples.
func NewBlockProfiler(sampleRate float64, bufferSize int) *BlockProfiler {
	return &BlockProfiler{
		Profiler:   NewProfiler(1000),
		sampleRate: sampleRate,
		bufferSize: bufferSize,
	}
}

// Block starts timing one block.
func (a *BlockProfiler) Block() func() {
	return a.Start(BlockSection)
}

// UpdateCPULoad calculates and stores the CPU load percentage.
func (a *BlockProfiler) UpdateCPULoad() {
	m, exists := a.GetMeasurement(BlockSection)
	if !exists || m.count == 0 || a.sampleRate <= 0 {
		return
	}

	bufferDuration := time.Duration(float64(a.bufferSize) / a.sampleRate * float64(time.Second))
	if bufferDuration <= 0 {
		return
	}

	cpuLoad := float64(m.Average()) / float64(bufferDuration) * 100.0

	// Store as fixed-point (multiply by 100 for 2 decimal places)
	a.cpuLoadPercent.Store(uint64(cpuLoad * 100))
}

// CPULoad returns the last computed CPU load percentage.
func (a *BlockProfiler) CPULoad() float64 {
	return float64(a.cpuLoadPercent.Load()) / 100.0
}

// AudioReport generates an audio-specific performance report.
func (a *BlockProfiler) AudioReport() string {
	a.UpdateCPULoad()

	var sb strings.Builder
	sb.WriteString(a.Report())
	sb.WriteString("\nAudio Processing Stats:\n")
	fmt.Fprintf(&sb, "  Sample Rate:  %.0f Hz\n", a.sampleRate)
	fmt.Fprintf(&sb, "  Buffer Size:  %d samples\n", a.bufferSize)
	fmt.Fprintf(&sb, "  CPU Load:     %.2f%%\n", a.CPULoad())

	return sb.String()
}
