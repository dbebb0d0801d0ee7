// Package profiler tracks frame rate, memory statistics, and named section
// timings (shader compiles, export frame encodes) for performance monitoring.
// Outputs stats to the log at a configurable interval.
package profiler

import (
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"
	"time"
)

// sectionStats aggregates the durations recorded for one named section since
// the last log line.
type sectionStats struct {
	count int
	total time.Duration
	max   time.Duration
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64

	sections map[string]*sectionStats
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		sections:       make(map[string]*sectionStats),
	}
}

// Sample records one duration for a named section (e.g. "compile",
// "export.frame"). Aggregates are logged and reset with the next stats line.
//
// Parameters:
//   - name: the section name
//   - d: the measured duration
func (p *Profiler) Sample(name string, d time.Duration) {
	s := p.sections[name]
	if s == nil {
		s = &sectionStats{}
		p.sections[name] = s
	}
	s.count++
	s.total += d
	if d > s.max {
		s.max = d
	}
}

// Track runs fn and records its duration under the given section name.
//
// Parameters:
//   - name: the section name
//   - fn: the function to measure
func (p *Profiler) Track(name string, fn func()) {
	start := time.Now()
	fn()
	p.Sample(name, time.Since(start))
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times,
// total memory, and any section timings recorded since the last line.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	// Calculate allocation rate (MB/sec)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
	}

	log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs) | Sys: %.2f MB%s",
		fps, allocMB, allocRateMB, gcCount, lastPauseUs, sysMB, p.sectionLine())

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// sectionLine formats and resets the recorded section aggregates.
func (p *Profiler) sectionLine() string {
	if len(p.sections) == 0 {
		return ""
	}
	names := make([]string, 0, len(p.sections))
	for name := range p.sections {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		s := p.sections[name]
		avg := s.total / time.Duration(s.count)
		fmt.Fprintf(&b, " | %s: %d× (avg: %s, max: %s)", name, s.count, avg, s.max)
		delete(p.sections, name)
	}
	return b.String()
}
