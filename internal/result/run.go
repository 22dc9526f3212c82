package result

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sink receives every recorded message as a side channel. Its failures are
// never observed by the Run.
type Sink interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type nopSink struct{}

func (nopSink) Info(string, ...interface{})  {}
func (nopSink) Warn(string, ...interface{})  {}
func (nopSink) Error(string, ...interface{}) {}

// FileResult is the record of one file that entered the transcode path.
type FileResult struct {
	Path              string
	Stats             *FileStats
	Infos             []string
	Warnings          []string
	Errors            []string
	Exceptions        []string
	ToleranceFailures []string
	Started           time.Time
	Finished          time.Time
}

// Status reports whether the file has no exceptions and no tolerance failures.
func (f *FileResult) Status() bool {
	return len(f.Exceptions) == 0 && len(f.ToleranceFailures) == 0
}

// Run accumulates the results of one invocation. Methods are safe for
// concurrent use; the summary may be read from a signal handler while the
// walk is running.
type Run struct {
	mu   sync.Mutex
	sink Sink

	id         string
	files      []*FileResult
	active     *FileResult
	infos      []string
	warnings   []string
	errors     []string
	exceptions []string
	totalSaved int64
	started    time.Time
	finished   time.Time
}

// NewRun returns a started Run that forwards messages to sink (nil discards).
func NewRun(sink Sink) *Run {
	if sink == nil {
		sink = nopSink{}
	}
	r := &Run{sink: sink}
	r.Reset()
	return r
}

// Reset clears all state and starts a new run with a fresh ID.
func (r *Run) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id = uuid.NewString()
	r.files = nil
	r.active = nil
	r.infos, r.warnings, r.errors, r.exceptions = nil, nil, nil, nil
	r.totalSaved = 0
	r.started = time.Now()
	r.finished = time.Time{}
}

// ID identifies this run in summaries and the audit store.
func (r *Run) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

// Begin opens a file scope for path and makes it the active scope. A scope
// left open by a previous Begin is closed first.
func (r *Run) Begin(path string) *Scope {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		r.active.Finished = time.Now()
	}
	f := &FileResult{Path: path, Started: time.Now()}
	r.files = append(r.files, f)
	r.active = f
	return &Scope{run: r, file: f}
}

// Infof records an info message on the active file, or on the run.
func (r *Run) Infof(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	if r.active != nil {
		r.active.Infos = append(r.active.Infos, msg)
	} else {
		r.infos = append(r.infos, msg)
	}
	r.mu.Unlock()
	r.sink.Info("%s", msg)
}

// Warnf records a warning on the active file, or on the run.
func (r *Run) Warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	if r.active != nil {
		r.active.Warnings = append(r.active.Warnings, msg)
	} else {
		r.warnings = append(r.warnings, msg)
	}
	r.mu.Unlock()
	r.sink.Warn("%s", msg)
}

// Errorf records an error on the active file, or on the run. Errors are
// informational and do not change status.
func (r *Run) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	if r.active != nil {
		r.active.Errors = append(r.active.Errors, msg)
	} else {
		r.errors = append(r.errors, msg)
	}
	r.mu.Unlock()
	r.sink.Error("%s", msg)
}

// Exceptionf records an exception on the active file, or on the run.
// Either way it fails the run.
func (r *Run) Exceptionf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	if r.active != nil {
		r.active.Exceptions = append(r.active.Exceptions, msg)
	} else {
		r.exceptions = append(r.exceptions, msg)
	}
	r.mu.Unlock()
	r.sink.Error("exception: %s", msg)
}

// ToleranceFailuref records a tolerance failure on the active file. With no
// active file it is kept as a run-scoped exception.
func (r *Run) ToleranceFailuref(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	if r.active != nil {
		r.active.ToleranceFailures = append(r.active.ToleranceFailures, msg)
	} else {
		r.exceptions = append(r.exceptions, "tolerance failure outside a file scope: "+msg)
	}
	r.mu.Unlock()
	r.sink.Error("tolerance failure: %s", msg)
}

// AddSaved adds n to the running bytes-saved total and returns the new total.
func (r *Run) AddSaved(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totalSaved += n
	return r.totalSaved
}

// TotalSaved returns the running bytes-saved total.
func (r *Run) TotalSaved() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalSaved
}

// Guard runs fn outside any file scope. A returned error or a panic is
// recorded as a run-scoped exception and returned.
func (r *Run) Guard(fn func() error) error {
	return guard(fn, func(msg string) {
		r.mu.Lock()
		r.exceptions = append(r.exceptions, msg)
		r.mu.Unlock()
		r.sink.Error("exception: %s", msg)
	})
}

// Status reports whether the run has no run-scoped exceptions and every
// file is ok.
func (r *Run) Status() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusLocked()
}

func (r *Run) statusLocked() bool {
	if len(r.exceptions) > 0 {
		return false
	}
	for _, f := range r.files {
		if !f.Status() {
			return false
		}
	}
	return true
}

// Files returns a copy of the file results recorded so far.
func (r *Run) Files() []FileResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FileResult, len(r.files))
	for i, f := range r.files {
		out[i] = *f
	}
	return out
}

// Finish stamps the end time. Later calls keep the first stamp.
func (r *Run) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished.IsZero() {
		r.finished = time.Now()
	}
}
