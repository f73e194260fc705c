package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements outline.Progress with a progress bar.
type CLIProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a progress reporter sized to totalFiles.
// In quiet mode, or when there is nothing to count, it reports nothing.
func NewCLIProgressReporter(quiet bool, totalFiles int) *CLIProgressReporter {
	c := &CLIProgressReporter{quiet: quiet}
	if quiet || totalFiles == 0 {
		return c
	}

	c.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Outlining files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
	return c
}

// OnFileProcessed advances the bar by one file.
func (c *CLIProgressReporter) OnFileProcessed(relPath string) {
	if c.bar != nil {
		c.bar.Add(1)
	}
}

// Finish completes the bar, whether or not every expected file arrived.
func (c *CLIProgressReporter) Finish() {
	if c.bar != nil {
		c.bar.Finish()
	}
}
