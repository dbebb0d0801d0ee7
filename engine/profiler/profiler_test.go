package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampleAggregatesPerSection(t *testing.T) {
	p := NewProfiler()
	p.Sample("compile", 10*time.Millisecond)
	p.Sample("compile", 30*time.Millisecond)
	p.Sample("export.frame", 5*time.Millisecond)

	line := p.sectionLine()
	assert.Contains(t, line, "compile: 2× (avg: 20ms, max: 30ms)")
	assert.Contains(t, line, "export.frame: 1× (avg: 5ms, max: 5ms)")
}

func TestSectionLineResetsAggregates(t *testing.T) {
	p := NewProfiler()
	p.Sample("compile", time.Millisecond)

	assert.NotEmpty(t, p.sectionLine())
	assert.Empty(t, p.sectionLine())
}

func TestTrackRecordsSection(t *testing.T) {
	p := NewProfiler()
	ran := false
	p.Track("compile", func() { ran = true })

	assert.True(t, ran)
	assert.Contains(t, p.sectionLine(), "compile: 1×")
}
