package result

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// FileSummary is the serializable form of a FileResult.
type FileSummary struct {
	Path              string     `json:"path" yaml:"path"`
	Status            bool       `json:"status" yaml:"status"`
	Stats             *FileStats `json:"stats,omitempty" yaml:"stats,omitempty"`
	BytesSaved        int64      `json:"bytes_saved" yaml:"bytes_saved"`
	PercentSaved      float64    `json:"percent_saved" yaml:"percent_saved"`
	Infos             []string   `json:"infos" yaml:"infos"`
	Warnings          []string   `json:"warnings" yaml:"warnings"`
	Errors            []string   `json:"errors" yaml:"errors"`
	Exceptions        []string   `json:"exceptions" yaml:"exceptions"`
	ToleranceFailures []string   `json:"tolerance_failures" yaml:"tolerance_failures"`
	Started           time.Time  `json:"started" yaml:"started"`
	Finished          time.Time  `json:"finished" yaml:"finished"`
}

// Summary is the serializable form of a Run.
type Summary struct {
	ID             string        `json:"id" yaml:"id"`
	Status         bool          `json:"status" yaml:"status"`
	Started        time.Time     `json:"started" yaml:"started"`
	Finished       time.Time     `json:"finished" yaml:"finished"`
	Elapsed        time.Duration `json:"-" yaml:"-"`
	ElapsedSeconds float64       `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	TotalSaved     int64         `json:"total_saved" yaml:"total_saved"`
	Infos          []string      `json:"infos" yaml:"infos"`
	Warnings       []string      `json:"warnings" yaml:"warnings"`
	Errors         []string      `json:"errors" yaml:"errors"`
	Exceptions     []string      `json:"exceptions" yaml:"exceptions"`
	Files          []FileSummary `json:"files" yaml:"files"`
}

// Summary snapshots the run. Before [Run.Finish] the elapsed time runs up
// to now and Finished is zero.
func (r *Run) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	end := r.finished
	if end.IsZero() {
		end = time.Now()
	}
	s := Summary{
		ID:         r.id,
		Status:     r.statusLocked(),
		Started:    r.started,
		Finished:   r.finished,
		Elapsed:    end.Sub(r.started),
		TotalSaved: r.totalSaved,
		Infos:      clone(r.infos),
		Warnings:   clone(r.warnings),
		Errors:     clone(r.errors),
		Exceptions: clone(r.exceptions),
		Files:      make([]FileSummary, 0, len(r.files)),
	}
	s.ElapsedSeconds = s.Elapsed.Seconds()

	for _, f := range r.files {
		fs := FileSummary{
			Path:              f.Path,
			Status:            f.Status(),
			Infos:             clone(f.Infos),
			Warnings:          clone(f.Warnings),
			Errors:            clone(f.Errors),
			Exceptions:        clone(f.Exceptions),
			ToleranceFailures: clone(f.ToleranceFailures),
			Started:           f.Started,
			Finished:          f.Finished,
		}
		if f.Stats != nil {
			st := *f.Stats
			fs.Stats = &st
			fs.BytesSaved = st.BytesSaved()
			fs.PercentSaved, _ = st.PercentSaved()
		}
		s.Files = append(s.Files, fs)
	}
	return s
}

// Failed returns the files whose status is false.
func (s Summary) Failed() []FileSummary {
	var out []FileSummary
	for _, f := range s.Files {
		if !f.Status {
			out = append(out, f)
		}
	}
	return out
}

// WriteJSON writes s as indented JSON.
func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteText writes a human readable report: overall status, run-scoped
// messages, then one block per file.
func (s Summary) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s status: %s\n", s.ID, statusWord(s.Status))
	fmt.Fprintf(&b, "elapsed: %s  files: %d  failed: %d  total saved: %d bytes\n",
		s.Elapsed.Round(time.Millisecond), len(s.Files), len(s.Failed()), s.TotalSaved)
	writeList(&b, "", "info", s.Infos)
	writeList(&b, "", "warning", s.Warnings)
	writeList(&b, "", "error", s.Errors)
	writeList(&b, "", "exception", s.Exceptions)
	for _, f := range s.Files {
		fmt.Fprintf(&b, "%s: %s\n", f.Path, statusWord(f.Status))
		if f.Stats != nil {
			fmt.Fprintf(&b, "  size: %d -> %d (%d bytes, %.2f%%)\n",
				f.Stats.InputSize, f.Stats.OutputSize, f.BytesSaved, f.PercentSaved)
		}
		writeList(&b, "  ", "info", f.Infos)
		writeList(&b, "  ", "warning", f.Warnings)
		writeList(&b, "  ", "error", f.Errors)
		writeList(&b, "  ", "exception", f.Exceptions)
		writeList(&b, "  ", "tolerance failure", f.ToleranceFailures)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, indent, label string, msgs []string) {
	for _, m := range msgs {
		fmt.Fprintf(b, "%s%s: %s\n", indent, label, m)
	}
}

func statusWord(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func clone(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	return append([]string(nil), in...)
}
