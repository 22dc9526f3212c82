// Package term decides whether output is colored and holds the escape
// sequences the banner prints.
package term

import (
	"os"
	"strings"

	xterm "golang.org/x/term"

	"github.com/backmassage/muxsweep/internal/config"
)

// Escape sequences for the banner. Both are empty while colors are off.
var (
	Magenta = ""
	NC      = ""
)

// Configure enables or clears the escape sequences for mode. It runs once,
// from [logging.NewLogger].
func Configure(mode config.ColorMode) {
	Magenta, NC = "", ""
	if colorize(mode, stdoutIsTTY(), os.Getenv) {
		Magenta, NC = "\033[1;95m", "\033[0m"
	}
}

// Enabled reports whether colors are on.
func Enabled() bool { return NC != "" }

// colorize applies mode. Auto means a TTY with neither NO_COLOR set nor
// TERM=dumb.
func colorize(mode config.ColorMode, tty bool, getenv func(string) string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return tty && getenv("NO_COLOR") == "" && !strings.EqualFold(getenv("TERM"), "dumb")
}

func stdoutIsTTY() bool {
	return xterm.IsTerminal(int(os.Stdout.Fd()))
}
