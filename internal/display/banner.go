package display

import (
	"fmt"
	"io"

	"github.com/backmassage/muxsweep/internal/term"
)

// PrintBanner writes the ASCII art banner and version to w; Magenta when
// colors are enabled.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `                        _____      _____  ___  ____
  __ _  __ ____ __     / __/ | /| / / _ \/ _ \/ __ \
 /  ' \/ // /\ \ /    _\ \ | |/ |/ /  __/  __/ /_/ /
/_/_/_/\_,_//_\_\    /___/ |__/|__/\___/\___/ .___/
                                           /_/
`)
	fmt.Fprint(w, term.NC)
	fmt.Fprintf(w, "muxsweep %s\n", version)
}
