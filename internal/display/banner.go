// Package display provides user-facing output: banner, byte/bitrate formatting, and (later) render-plan and outlier logs.
package display

import (
	"fmt"
	"os"

	"github.com/nvxlabs/mediaplan/internal/term"
)

// PrintBanner prints the CLI driver's ASCII art logo to stdout.
// If the term package has enabled colors (Magenta set), the banner is printed in magenta, then reset.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` __  __          _ _       ____  _
|  \/  | ___  __| (_) __ _|  _ \| | __ _ _ __
| |\/| |/ _ \/ _`+"`"+` | |/ _`+"`"+` | |_) | |/ _`+"`"+` | '_ \
| |  | |  __/ (_| | | (_| |  __/| | (_| | | | |
|_|  |_|\___|\__,_|_|\__,_|_|   |_|\__,_|_| |_|
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
