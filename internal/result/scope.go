package result

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Scope is the handle for one open file scope. Messages sent to a Scope
// always land on its file, even after another scope became active.
type Scope struct {
	run  *Run
	file *FileResult
}

func (s *Scope) add(list *[]string, msg string) {
	s.run.mu.Lock()
	*list = append(*list, msg)
	s.run.mu.Unlock()
}

// Infof records an info message on the file.
func (s *Scope) Infof(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.add(&s.file.Infos, msg)
	s.run.sink.Info("%s", msg)
}

// Warnf records a warning on the file.
func (s *Scope) Warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.add(&s.file.Warnings, msg)
	s.run.sink.Warn("%s", msg)
}

// Errorf records an informational error on the file.
func (s *Scope) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.add(&s.file.Errors, msg)
	s.run.sink.Error("%s", msg)
}

// Exceptionf records an exception, failing the file.
func (s *Scope) Exceptionf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.add(&s.file.Exceptions, msg)
	s.run.sink.Error("exception: %s", msg)
}

// ToleranceFailuref records a tolerance failure, failing the file.
func (s *Scope) ToleranceFailuref(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.add(&s.file.ToleranceFailures, msg)
	s.run.sink.Error("tolerance failure: %s", msg)
}

// AddSaved adds n to the run's bytes-saved total and returns the new total.
func (s *Scope) AddSaved(n int64) int64 {
	return s.run.AddSaved(n)
}

// SetStats attaches the size comparison to the file.
func (s *Scope) SetStats(st FileStats) {
	s.run.mu.Lock()
	s.file.Stats = &st
	s.run.mu.Unlock()
}

// Status reports the file's current status.
func (s *Scope) Status() bool {
	s.run.mu.Lock()
	defer s.run.mu.Unlock()
	return s.file.Status()
}

// Guard runs fn. A returned error or a panic is recorded as an exception on
// the file and returned; it is never propagated as a panic.
func (s *Scope) Guard(fn func() error) error {
	return guard(fn, func(msg string) { s.Exceptionf("%s", msg) })
}

// End closes the scope. If it is still the active scope, the run goes back
// to run-scoped recording. End is idempotent.
func (s *Scope) End() {
	s.run.mu.Lock()
	defer s.run.mu.Unlock()
	if s.file.Finished.IsZero() {
		s.file.Finished = time.Now()
	}
	if s.run.active == s.file {
		s.run.active = nil
	}
}

// guard is the catch-and-record wrapper shared by Run and Scope.
func guard(fn func() error, record func(msg string)) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
			record(fmt.Sprintf("%v\n%s", err, debug.Stack()))
		}
	}()
	if err = fn(); err != nil {
		record(err.Error())
	}
	return err
}
