package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// stderrTailBytes bounds how much encoder stderr is kept for diagnosis.
const stderrTailBytes = 4096

// EncodeError describes a failed encoder run.
type EncodeError struct {
	Argv     []string
	ExitCode int // -1 when the process did not start or was killed.
	Stderr   string
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("error running %s returncode: %d", strings.Join(e.Argv, " "), e.ExitCode)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Encoder runs ffmpeg and forwards its output streams.
type Encoder struct {
	Path   string    // ffmpeg binary; "ffmpeg" when empty.
	Stdout io.Writer // Receives encoder stdout; discarded when nil.
	Stderr io.Writer // Receives encoder stderr; discarded when nil.
}

// Encode runs ffmpeg -i src args... dst. A non-zero exit returns an
// *EncodeError carrying the tail of stderr.
func (e *Encoder) Encode(ctx context.Context, src string, args []string, dst string) error {
	bin := e.Path
	if bin == "" {
		bin = "ffmpeg"
	}
	argv := Command(bin, src, args, dst)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	tail := &tailBuffer{max: stderrTailBytes}
	cmd.Stdout = orDiscard(e.Stdout)
	cmd.Stderr = io.MultiWriter(tail, orDiscard(e.Stderr))

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &EncodeError{Argv: argv, ExitCode: code, Stderr: tail.String(), Err: err}
	}
	return nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
