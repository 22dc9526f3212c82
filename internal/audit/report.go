package audit

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// WriteRun writes a stored run in the layout of the end-of-run summary.
func WriteRun(w io.Writer, r *Run) error {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s status: %s\n", r.RunID, statusWord(r.Status))
	fmt.Fprintf(&b, "started: %s  elapsed: %s  files: %d  total saved: %d bytes\n",
		r.Started.Format(time.RFC3339), secs(r.ElapsedSeconds), len(r.Files), r.TotalSaved)
	writeMessages(&b, "", r.Messages)
	for _, f := range r.Files {
		fmt.Fprintf(&b, "%s: %s\n", f.Path, statusWord(f.Status))
		if f.InputSize > 0 || f.OutputSize > 0 {
			fmt.Fprintf(&b, "  size: %d -> %d (%d bytes, %.2f%%)\n",
				f.InputSize, f.OutputSize, f.BytesSaved, f.PercentSaved)
		}
		writeMessages(&b, "  ", f.Messages)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteHistory writes one line per stored result of path, oldest first.
func WriteHistory(w io.Writer, path string, files []File) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d recorded results\n", path, len(files))
	for _, f := range files {
		fmt.Fprintf(&b, "  %s %s size: %d -> %d (%.2f%%)\n",
			f.Started.Format(time.RFC3339), statusWord(f.Status),
			f.InputSize, f.OutputSize, f.PercentSaved)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeMessages(b *strings.Builder, indent string, msgs []Message) {
	for _, m := range msgs {
		fmt.Fprintf(b, "%s%s: %s\n", indent, strings.ReplaceAll(m.Kind, "_", " "), m.Text)
	}
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Round(time.Millisecond)
}

func statusWord(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
