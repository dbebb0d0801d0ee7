package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/shady-go/engine/export"
	"github.com/Carmen-Shannon/shady-go/engine/gpu"
	"github.com/Carmen-Shannon/shady-go/engine/renderer/program"
)

// stubProgram stands in for a compiled program; the tests below never draw.
type stubProgram struct{}

func (stubProgram) Handle() gpu.ProgramID          { return 1 }
func (stubProgram) VertexArray() gpu.VertexArrayID { return 1 }
func (stubProgram) Destroy()                       {}

// stubJob scripts the export job's advance results.
type stubJob struct {
	statuses []export.Status
	frame    int
	count    int
	err      error
}

func (j *stubJob) Advance() export.Status {
	status := j.statuses[0]
	if len(j.statuses) > 1 {
		j.statuses = j.statuses[1:]
	}
	if status == export.StatusInProgress {
		j.frame++
	}
	return status
}

func (j *stubJob) Frame() int      { return j.frame }
func (j *stubJob) FrameCount() int { return j.count }
func (j *stubJob) Err() error      { return j.err }

func TestStartExportWithoutProgramRecordsError(t *testing.T) {
	e := &engine{
		shared:     program.NewShared(nil),
		exportPath: filepath.Join(t.TempDir(), "out.gif"),
	}

	e.StartExport()

	assert.Nil(t, e.job)
	require.Error(t, e.LastError())
	assert.Contains(t, e.LastError().Error(), "no compiled shader")

	_, _, active := e.ExportProgress()
	assert.False(t, active)
}

func TestStartExportWhileActiveIsNoOp(t *testing.T) {
	active := &stubJob{statuses: []export.Status{export.StatusInProgress}, count: 90}
	path := filepath.Join(t.TempDir(), "out.gif")
	e := &engine{
		shared:     program.NewShared(stubProgram{}),
		exportPath: path,
		job:        active,
	}

	e.StartExport()

	assert.Same(t, export.Job(active), e.job)
	assert.NoError(t, e.LastError())

	// The second start must not have opened another output stream.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSetSourceClearsErrorAndSchedulesRecompile(t *testing.T) {
	e := &engine{lastErr: errors.New("fragment shader compile error")}

	e.SetSource("o = vec4(1.0);")

	assert.NoError(t, e.LastError())
	assert.True(t, e.needsRecompile)
	assert.Equal(t, "o = vec4(1.0);", e.Source())
}

func TestStepExportProgress(t *testing.T) {
	job := &stubJob{
		statuses: []export.Status{export.StatusInProgress, export.StatusInProgress, export.StatusDone},
		count:    90,
	}
	e := &engine{job: job}

	e.stepExport()
	frame, total, active := e.ExportProgress()
	assert.True(t, active)
	assert.Equal(t, 1, frame)
	assert.Equal(t, 90, total)

	e.stepExport()
	frame, _, _ = e.ExportProgress()
	assert.Equal(t, 2, frame)

	e.stepExport()
	_, _, active = e.ExportProgress()
	assert.False(t, active)
	assert.Nil(t, e.job)
	assert.NoError(t, e.LastError())
}

func TestStepExportFailureSurfacesError(t *testing.T) {
	cause := errors.New("open /missing/out.gif: no such file or directory")
	job := &stubJob{
		statuses: []export.Status{export.StatusFailed},
		count:    90,
		err:      cause,
	}
	e := &engine{job: job}

	e.stepExport()

	assert.Nil(t, e.job)
	assert.ErrorIs(t, e.LastError(), cause)

	// An aborted export does not block a later restart attempt.
	e.shared = program.NewShared(nil)
	e.StartExport()
	assert.Contains(t, e.LastError().Error(), "no compiled shader")
}

func TestStepExportWithoutJobIsNoOp(t *testing.T) {
	e := &engine{}
	e.stepExport()
	assert.Nil(t, e.job)
	assert.NoError(t, e.LastError())
}
