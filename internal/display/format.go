package display

import (
	"fmt"

	"github.com/backmassage/muxsweep/internal/result"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatBytesWithSign prefixes with + or - for delta display (e.g. "- 1.2 GiB").
func FormatBytesWithSign(bytes int64) string {
	sign := ""
	if bytes > 0 {
		sign = "+ "
	} else if bytes < 0 {
		sign = "- "
		bytes = -bytes
	}
	return sign + FormatBytes(bytes)
}

// FormatDelta formats a byte difference that may be negative, e.g. "-1.2 MiB".
func FormatDelta(bytes int64) string {
	if bytes < 0 {
		return "-" + FormatBytes(-bytes)
	}
	return FormatBytes(bytes)
}

// FormatStats renders the one-line size report logged after each
// comparison: input and output sizes, bytes and percent saved, and the
// run's cumulative total.
func FormatStats(st result.FileStats, total int64) string {
	pct, _ := st.PercentSaved()
	return fmt.Sprintf("Input Size: %s Output Size: %s Saved: %s %2.2f percent Total %s",
		FormatBytes(st.InputSize), FormatBytes(st.OutputSize),
		FormatDelta(st.BytesSaved()), pct, FormatDelta(total))
}
