// Package analysis runs and interprets simulations of the coupled cell
// system: stiff transient integration, action potential feature
// extraction, conduction measurement, and steady-state current sweeps.
package analysis

import "errors"

var (
	// ErrNonConvergence reports a Newton iteration that failed even at
	// the minimum step size.
	ErrNonConvergence = errors.New("analysis: newton iteration failed to converge")

	// ErrStepBudget reports a run that exceeded its internal step budget
	// before reaching the stop time.
	ErrStepBudget = errors.New("analysis: internal step budget exhausted")

	// ErrNoActionPotential reports a voltage trace with no identifiable
	// action potential.
	ErrNoActionPotential = errors.New("analysis: no action potential detected")
)

// System is a first-order ODE system dy/dt = f(t, y) with known drive
// discontinuities.
type System interface {
	// Dim is the state vector length.
	Dim() int
	// Derivatives evaluates f(t, state) into deriv. Both slices have
	// Dim elements.
	Derivatives(t float64, state, deriv []float64)
	// Breakpoints lists times where the drive is discontinuous.
	Breakpoints() []float64
}

type convergence struct {
	maxIter int
	abstol  float64
	reltol  float64
}

func defaultConvergence() convergence {
	return convergence{
		maxIter: 100,
		abstol:  1e-12,
		reltol:  1e-6,
	}
}

// Trace is a sampled trajectory on a uniform time grid.
type Trace struct {
	Time   []float64   // Sample times (ms)
	States [][]float64 // One state vector per sample
}

// Len is the number of stored samples.
func (t *Trace) Len() int {
	return len(t.Time)
}

// Component extracts one state component as a time series.
func (t *Trace) Component(idx int) []float64 {
	out := make([]float64, len(t.States))
	for i, s := range t.States {
		out[i] = s[idx]
	}
	return out
}
