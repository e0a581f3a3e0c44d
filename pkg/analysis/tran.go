package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/solver"
)

// Perturbation scale for finite-difference Jacobian columns.
const fdEps = 1e-8

// Transient integrates a System over [startTime, stopTime] with
// adaptive implicit stepping and records the state on a uniform sample
// grid. Between samples the step size is controlled by Newton
// convergence and the local truncation error.
type Transient struct {
	convergence
	sys System
	dim int
	mat *solver.Matrix

	time      float64
	startTime float64
	stopTime  float64
	timeStep  float64
	maxStep   float64
	minStep   float64

	// Local Truncation Error
	order     int     // ODE (1=BE, 2=TR)
	trtol     float64 // truncation error tolerance (SPICE3F5 default: 7)
	lteAbstol float64
	lteReltol float64
	firstTime bool
	prevStep  float64

	nSamples int
	maxSteps int
	samples  []float64
	breaks   []float64

	state     []float64
	prevState []float64
	work      []float64
	f0        []float64
	fy        []float64
	fj        []float64

	trace *Trace
}

// NewTransient builds an integrator that samples nSamples points
// uniformly over [tStart, tStop], endpoints included.
func NewTransient(tStart, tStop float64, nSamples int) *Transient {
	return &Transient{
		convergence: defaultConvergence(),
		startTime:   tStart,
		stopTime:    tStop,
		nSamples:    nSamples,
		order:       1, // BE
		trtol:       7.0,
		lteAbstol:   1e-6,
		lteReltol:   1e-3,
		firstTime:   true,
		maxSteps:    1000000,
	}
}

// Setup binds the system and initial state and lays out the sample
// grid.
func (tr *Transient) Setup(sys System, init []float64) error {
	if sys == nil {
		return fmt.Errorf("system not set")
	}
	if tr.nSamples < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", tr.nSamples)
	}
	if tr.stopTime <= tr.startTime {
		return fmt.Errorf("stop time %g not after start time %g", tr.stopTime, tr.startTime)
	}

	tr.sys = sys
	tr.dim = sys.Dim()
	if len(init) != tr.dim {
		return fmt.Errorf("initial state has %d components, want %d", len(init), tr.dim)
	}

	tr.samples = floats.Span(make([]float64, tr.nSamples), tr.startTime, tr.stopTime)
	tr.maxStep = (tr.stopTime - tr.startTime) / float64(tr.nSamples-1)
	tr.minStep = tr.maxStep / 1e6
	tr.timeStep = tr.maxStep
	tr.time = tr.startTime

	tr.state = make([]float64, tr.dim)
	copy(tr.state, init)
	tr.prevState = make([]float64, tr.dim)
	tr.work = make([]float64, tr.dim)
	tr.f0 = make([]float64, tr.dim)
	tr.fy = make([]float64, tr.dim)
	tr.fj = make([]float64, tr.dim)

	tr.breaks = tr.breaks[:0]
	for _, b := range sys.Breakpoints() {
		if b > tr.startTime && b < tr.stopTime {
			tr.breaks = append(tr.breaks, b)
		}
	}
	sort.Float64s(tr.breaks)

	return nil
}

// Execute runs the integration. On failure the trace is discarded and
// the error wraps ErrNonConvergence or ErrStepBudget.
func (tr *Transient) Execute() error {
	if tr.sys == nil {
		return fmt.Errorf("system not set")
	}

	tr.trace = &Trace{
		Time:   make([]float64, 0, tr.nSamples),
		States: make([][]float64, 0, tr.nSamples),
	}
	tr.storeSample(tr.samples[0])

	tr.mat = solver.NewMatrix(tr.dim)
	if tr.mat == nil {
		return fmt.Errorf("matrix allocation failed for %d unknowns", tr.dim)
	}
	tr.mat.SetupElements()
	defer func() {
		tr.mat.Destroy()
		tr.mat = nil
	}()

	steps := 0
	for _, target := range tr.samples[1:] {
		for tr.time < target {
			steps++
			if steps > tr.maxSteps {
				tr.trace = nil
				return fmt.Errorf("%w: %d steps before t=%g", ErrStepBudget, tr.maxSteps, tr.time)
			}
			if err := tr.advance(target); err != nil {
				tr.trace = nil
				return err
			}
		}
		tr.storeSample(target)
	}

	return nil
}

// advance takes one accepted step, never past target or the next drive
// breakpoint.
func (tr *Transient) advance(target float64) error {
	for {
		nextTime := tr.time + tr.timeStep
		if nextTime > target {
			nextTime = target
		}
		if b := tr.nextBreakpoint(); nextTime > b {
			nextTime = b
		}
		h := nextTime - tr.time

		err := tr.doNRiter(h, nextTime, tr.convergence.maxIter)
		if err != nil {
			if tr.timeStep > tr.minStep {
				tr.timeStep /= 2
				continue
			}
			return fmt.Errorf("%w: t=%g: %v", ErrNonConvergence, tr.time, err)
		}

		if tr.firstTime {
			// No step history yet, so the error test starts on the
			// next step.
			tr.firstTime = false
			tr.order = 2 // TR
			tr.accept(nextTime, h)
			break
		}

		if tr.order == 2 { // TR
			tol := tr.truncError(h)
			if tol >= 1.0 {
				tr.order = 1 // Change to BE if LTE is larger than tolerance
				if tr.timeStep > tr.minStep {
					oldStep := tr.timeStep
					tr.timeStep /= 8
					if tr.timeStep < tr.minStep {
						tr.timeStep = oldStep / 2
					}
					continue
				}
			}
		}

		tr.accept(nextTime, h)
		break
	}

	if tr.time < tr.stopTime && tr.timeStep < tr.maxStep {
		tr.timeStep *= 1.2
		if tr.timeStep > tr.maxStep {
			tr.timeStep = tr.maxStep
		}
		tr.order = 2 // TR
	}

	if tr.atBreakpoint(tr.time) {
		// Restart the method across the drive discontinuity.
		tr.order = 1 // BE
		tr.firstTime = true
		tr.prevStep = 0
	}

	return nil
}

// doNRiter solves the implicit step equation for the candidate state in
// work by Newton iteration with a finite-difference Jacobian.
func (tr *Transient) doNRiter(h, tNew float64, maxIter int) error {
	copy(tr.work, tr.state)
	tr.sys.Derivatives(tr.time, tr.state, tr.f0)

	for iter := 0; iter < maxIter; iter++ {
		tr.mat.Clear()
		tr.stamp(h, tNew, tr.work)
		tr.mat.LoadGmin(0)

		if err := tr.mat.Solve(); err != nil {
			return fmt.Errorf("matrix solve error: %v", err)
		}

		solution := tr.mat.Solution()
		allConverged := true
		for i := 0; i < tr.dim; i++ {
			delta := solution[i+1]
			if math.IsNaN(delta) {
				return fmt.Errorf("NaN correction at t=%g", tNew)
			}
			tr.work[i] += delta

			reltol := tr.convergence.reltol*math.Abs(tr.work[i]) + tr.convergence.abstol
			if math.Abs(delta) > reltol {
				allConverged = false
			}
		}

		if iter > 0 && allConverged {
			return nil
		}
	}

	return fmt.Errorf("failed to converge in %d iterations", maxIter)
}

// stamp loads the Newton system J*delta = -g for the step equation
// g(y) = y - y_n - c*f, with c and f set by the active method, BE or
// TR.
func (tr *Transient) stamp(h, tNew float64, y []float64) {
	c := h
	if tr.order == 2 { // TR
		c = 0.5 * h
	}

	tr.sys.Derivatives(tNew, y, tr.fy)

	for i := 0; i < tr.dim; i++ {
		g := y[i] - tr.state[i] - c*tr.fy[i]
		if tr.order == 2 {
			g -= c * tr.f0[i]
		}
		tr.mat.AddRHS(i+1, -g)
	}

	for j := 0; j < tr.dim; j++ {
		eps := fdEps * math.Max(math.Abs(y[j]), 1.0)
		orig := y[j]
		y[j] = orig + eps
		tr.sys.Derivatives(tNew, y, tr.fj)
		y[j] = orig

		for i := 0; i < tr.dim; i++ {
			val := -c * (tr.fj[i] - tr.fy[i]) / eps
			if i == j {
				val += 1.0
			}
			if val != 0 {
				tr.mat.AddElement(i+1, j+1, val)
			}
		}
	}
}

// truncError is the normalized local truncation error of the candidate
// step in work, estimated against a linear predictor over the last two
// accepted states. Values at or above 1.0 reject the step.
func (tr *Transient) truncError(h float64) float64 {
	if tr.prevStep <= 0 {
		return 0
	}

	r := h / tr.prevStep
	maxRatio := 0.0
	for i := 0; i < tr.dim; i++ {
		pred := tr.state[i] + r*(tr.state[i]-tr.prevState[i])
		lte := math.Abs(tr.work[i] - pred)
		tol := tr.trtol * (tr.lteReltol*math.Max(math.Abs(tr.work[i]), math.Abs(tr.state[i])) + tr.lteAbstol)
		if ratio := lte / tol; ratio > maxRatio {
			maxRatio = ratio
		}
	}
	return maxRatio
}

func (tr *Transient) accept(t, h float64) {
	copy(tr.prevState, tr.state)
	copy(tr.state, tr.work)
	tr.prevStep = h
	tr.time = t
}

func (tr *Transient) nextBreakpoint() float64 {
	for _, b := range tr.breaks {
		if b > tr.time {
			return b
		}
	}
	return math.Inf(1)
}

// atBreakpoint relies on steps landing exactly on clamped breakpoint
// values.
func (tr *Transient) atBreakpoint(t float64) bool {
	for _, b := range tr.breaks {
		if t == b {
			return true
		}
	}
	return false
}

func (tr *Transient) storeSample(t float64) {
	s := make([]float64, tr.dim)
	copy(s, tr.state)
	tr.trace.Time = append(tr.trace.Time, t)
	tr.trace.States = append(tr.trace.States, s)
}

// Trace returns the sampled trajectory of the last Execute, or nil if
// the run failed.
func (tr *Transient) Trace() *Trace {
	return tr.trace
}
