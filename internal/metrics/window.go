// Package metrics aggregates per-update training measurements into
// loggable snapshots.
package metrics

import "time"

// Window accumulates loss and timing across multiple updates.
type Window struct {
	examples int
	compute  time.Duration
	updates  int
	lossSum  float64
	lastLoss float64
}

// Record adds one update to the window.
func (w *Window) Record(batchSize int, computeTime time.Duration, loss float64) {
	w.examples += batchSize
	w.compute += computeTime
	w.updates++
	w.lossSum += loss
	w.lastLoss = loss
}

// Updates returns the number of updates recorded since the last snapshot.
func (w *Window) Updates() int {
	return w.updates
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{LastLoss: w.lastLoss}
	if w.compute > 0 {
		snap.ExamplesPerSec = float64(w.examples) / w.compute.Seconds()
	}
	if w.updates > 0 {
		snap.AvgUpdateMS = (w.compute.Seconds() * 1000) / float64(w.updates)
		snap.MeanLoss = w.lossSum / float64(w.updates)
	}

	*w = Window{}
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	ExamplesPerSec float64
	AvgUpdateMS    float64
	MeanLoss       float64
	LastLoss       float64
}
