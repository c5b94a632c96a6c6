package progress

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/schollz/progressbar/v3"
)

// Options configures progress output behavior
type Options struct {
	Quiet   bool
	Verbose bool
}

// Manager drives one count-based progress bar per pipeline stage and wires
// SIGINT/SIGTERM into cooperative cancellation.
type Manager struct {
	options    Options
	stageBar   *progressbar.ProgressBar
	cancelFunc context.CancelFunc
	cancelled  bool
	cancelMux  sync.Mutex
	signalChan chan os.Signal
}

// NewManager creates a new progress manager
func NewManager(options Options) *Manager {
	return &Manager{
		options:    options,
		signalChan: make(chan os.Signal, 1),
	}
}

// SetupCancellation sets up signal handling for cancellation
func (pm *Manager) SetupCancellation(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	pm.cancelFunc = cancel

	signal.Notify(pm.signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-pm.signalChan:
			pm.cancelMux.Lock()
			pm.cancelled = true
			pm.cancelMux.Unlock()
			fmt.Println("\nOperation cancelled by user")
			cancel()
		case <-ctx.Done():
			// Context already cancelled
		}
	}()

	return ctx
}

// IsCancelled checks if the operation was cancelled
func (pm *Manager) IsCancelled() bool {
	pm.cancelMux.Lock()
	defer pm.cancelMux.Unlock()
	return pm.cancelled
}

// Cleanup removes signal handlers
func (pm *Manager) Cleanup() {
	signal.Stop(pm.signalChan)
	if pm.cancelFunc != nil {
		pm.cancelFunc()
	}
}

// StartStage begins a bar for one pipeline stage. A stage still running is
// finished first, so stages never interleave on the terminal.
func (pm *Manager) StartStage(description string, total int) {
	if pm.options.Quiet {
		return
	}
	pm.FinishStage()

	pm.stageBar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(65),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	)
}

// SetStageProgress moves the current stage bar to an absolute position.
func (pm *Manager) SetStageProgress(completed int) {
	if pm.options.Quiet || pm.stageBar == nil {
		return
	}
	_ = pm.stageBar.Set(completed)
}

// Advance moves the current stage bar forward by n items.
func (pm *Manager) Advance(n int) {
	if pm.options.Quiet || pm.stageBar == nil {
		return
	}
	_ = pm.stageBar.Add(n)
}

// FinishStage completes and drops the current stage bar.
func (pm *Manager) FinishStage() {
	if pm.options.Quiet || pm.stageBar == nil {
		return
	}
	_ = pm.stageBar.Finish()
	pm.stageBar = nil
}

// PrintVerbose prints verbose information if verbose mode is enabled
func (pm *Manager) PrintVerbose(format string, args ...interface{}) {
	if pm.options.Verbose {
		if pm.stageBar != nil {
			_ = pm.stageBar.Clear()
		}

		fmt.Printf(format, args...)
		if len(format) == 0 || format[len(format)-1] != '\n' {
			fmt.Println()
		}
	}
}

// PrintInfo prints informational messages (unless quiet mode)
func (pm *Manager) PrintInfo(format string, args ...interface{}) {
	if !pm.options.Quiet {
		if pm.stageBar != nil {
			_ = pm.stageBar.Clear()
		}

		fmt.Printf(format, args...)
	}
}
