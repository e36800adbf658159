package outwriter

import (
	"os"

	"github.com/huangsam/localcache/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableKeyWidth calculates the maximum width for keys in table output
// based on terminal width.
func GetMaxTableKeyWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// State + Updated + Size columns
	baseWidth := 45

	// Table borders, separators, and padding
	baseWidth += 15

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
