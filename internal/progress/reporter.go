package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides feedback while a command waits on the backend.
type Reporter interface {
	Start(message string)
	Finish(err error)
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: os.Stderr}
	}
	return &TerminalReporter{w: os.Stderr}
}

// Track runs fn between Start and Finish.
func Track(r Reporter, message string, fn func() error) error {
	r.Start(message)
	err := fn()
	r.Finish(err)
	return err
}

// TerminalReporter displays a spinner in the terminal.
type TerminalReporter struct {
	w    io.Writer
	bar  *progressbar.ProgressBar
	stop chan struct{}
	wg   sync.WaitGroup
}

func (r *TerminalReporter) Start(message string) {
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
	r.stop = make(chan struct{})
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				_ = r.bar.Add(1)
			}
		}
	}()
}

func (r *TerminalReporter) Finish(err error) {
	if r.bar == nil {
		return
	}
	close(r.stop)
	r.wg.Wait()
	_ = r.bar.Finish()
	r.bar = nil
	if err != nil {
		fmt.Fprintln(r.w, "failed")
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w       io.Writer
	message string
	start   time.Time
}

func (r *CIReporter) Start(message string) {
	r.message = message
	r.start = time.Now()
	fmt.Fprintf(r.w, "%s...\n", message)
}

func (r *CIReporter) Finish(err error) {
	elapsed := time.Since(r.start).Round(time.Millisecond)
	if err != nil {
		fmt.Fprintf(r.w, "%s failed after %s\n", r.message, elapsed)
		return
	}
	fmt.Fprintf(r.w, "%s done in %s\n", r.message, elapsed)
}
