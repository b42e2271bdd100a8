package fusion

import "github.com/itohio/fusion/pkg/linalg"

// HandleGyro folds a gyroscope sample w (rad/s, body frame) into the
// engine. Before bootstrap completes it only records timing; once
// running it drives Predict.
func (e *Engine) HandleGyro(w linalg.Vector3, dT float32) Result {
	if !e.HasEstimate() {
		e.bootstrapGyro(w, dT)
		return BootstrapInProgress
	}
	e.Predict(w, dT)
	return Accepted
}
