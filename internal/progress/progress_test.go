package progress

import (
	"context"
	"testing"
	"time"
)

func TestStageLifecycleQuietMode(t *testing.T) {
	pm := NewManager(Options{Quiet: true})

	// Quiet mode must be a no-op for every bar operation.
	pm.StartStage("hashing", 100)
	pm.Advance(10)
	pm.SetStageProgress(50)
	pm.FinishStage()

	if pm.stageBar != nil {
		t.Error("quiet mode must not allocate a bar")
	}
}

func TestStartStageReplacesPreviousBar(t *testing.T) {
	pm := NewManager(Options{})

	pm.StartStage("partial digests", 10)
	first := pm.stageBar
	pm.StartStage("full digests", 5)

	if pm.stageBar == first {
		t.Error("starting a new stage must replace the bar")
	}
	pm.FinishStage()
	if pm.stageBar != nil {
		t.Error("FinishStage must drop the bar")
	}
}

func TestSetupCancellation(t *testing.T) {
	pm := NewManager(Options{Quiet: true})
	defer pm.Cleanup()

	ctx := pm.SetupCancellation(context.Background())

	if pm.IsCancelled() {
		t.Error("fresh manager must not report cancelled")
	}

	select {
	case <-ctx.Done():
		t.Error("context cancelled without a signal")
	case <-time.After(10 * time.Millisecond):
	}

	// Cancelling the parent context tears the goroutine down cleanly.
	pm.Cleanup()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Error("Cleanup must cancel the derived context")
	}
}
