package cell

import (
	"math"
	"testing"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1e-9

type rateFunc struct {
	name string
	fn   func(float64) float64
}

func allRates() []rateFunc {
	return []rateFunc{
		{"AlphaM", AlphaM}, {"BetaM", BetaM},
		{"AlphaH", AlphaH}, {"BetaH", BetaH},
		{"AlphaJ", AlphaJ}, {"BetaJ", BetaJ},
		{"AlphaD", AlphaD}, {"BetaD", BetaD},
		{"AlphaF", AlphaF}, {"BetaF", BetaF},
		{"AlphaX", AlphaX}, {"BetaX", BetaX},
	}
}

func TestRatesFiniteNonNegative(t *testing.T) {
	vs := make([]float64, 0, 512)
	for v := -150.0; v <= 100.0; v += 0.5 {
		vs = append(vs, v)
	}
	vs = append(vs, -47.13, 5.0, -40.0)

	for _, r := range allRates() {
		for _, v := range vs {
			got := r.fn(v)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("%s(%g) = %g, want finite", r.name, v, got)
			}
			if got < 0 {
				t.Errorf("%s(%g) = %g, want non-negative", r.name, v, got)
			}
		}
	}
}

func TestRateSingularLimits(t *testing.T) {
	if got := AlphaM(-47.13); got != 3.2 {
		t.Errorf("AlphaM(-47.13) = %v, want exactly 3.2", got)
	}
	if got := AlphaD(5.0); got != 1.0 {
		t.Errorf("AlphaD(5) = %v, want exactly 1.0", got)
	}
}

func TestRateSingularContinuity(t *testing.T) {
	// The formula path just outside the guard must agree with the
	// analytic limit.
	cases := []struct {
		name  string
		fn    func(float64) float64
		v0    float64
		limit float64
	}{
		{"AlphaM", AlphaM, -47.13, 3.2},
		{"AlphaD", AlphaD, 5.0, 1.0},
	}
	for _, c := range cases {
		for _, dv := range []float64{-1e-6, 1e-6} {
			got := c.fn(c.v0 + dv)
			if dif := math.Abs(got - c.limit); dif > 1e-3 {
				t.Errorf("%s(%g) = %v, want near %v, dif %v", c.name, c.v0+dv, got, c.limit, dif)
			}
		}
	}
}

func TestRateValues(t *testing.T) {
	// Validated against hand evaluation of the published rate constants.
	cases := []struct {
		name string
		fn   func(float64) float64
		v    float64
		want float64
	}{
		{"AlphaJ", AlphaJ, -85, 0.06365785959466368},
		{"BetaJ", BetaJ, -85, 0.0006113224681871354},
		{"AlphaH", AlphaH, -40, 0.0},
		{"BetaH", BetaH, -40, 0.5108206291064309},
	}
	for _, c := range cases {
		got := c.fn(c.v)
		if dif := math.Abs(got - c.want); dif > difTol {
			t.Errorf("%s(%g) = %v, want %v, dif %v", c.name, c.v, got, c.want, dif)
		}
	}
}

func TestSteadyStateAndTimeConstant(t *testing.T) {
	if got := SteadyState(2, 3); got != 0.4 {
		t.Errorf("SteadyState(2, 3) = %v, want 0.4", got)
	}
	if got := TimeConstant(2, 3); got != 0.2 {
		t.Errorf("TimeConstant(2, 3) = %v, want 0.2", got)
	}
	if got := TimeConstant(AlphaM(-85), BetaM(-85)); math.Abs(got-0.005499540551670048) > difTol {
		t.Errorf("tau_m(-85) = %v, want 0.005499540551670048", got)
	}
}

func TestRestingStateValues(t *testing.T) {
	// Validated against hand evaluation of the published rate constants.
	want := State{
		V: -85,
		M: 0.001545447892153105,
		H: 0.9849029603461489,
		J: 0.9904880932265591,
		D: 0.008842581446006609,
		F: 0.9999827714880789,
		X: 0.005397581511987509,
	}
	got := RestingState(-85)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"V", got.V, want.V},
		{"M", got.M, want.M},
		{"H", got.H, want.H},
		{"J", got.J, want.J},
		{"D", got.D, want.D},
		{"F", got.F, want.F},
		{"X", got.X, want.X},
	}
	for _, c := range checks {
		if dif := math.Abs(c.got - c.want); dif > difTol {
			t.Errorf("RestingState(-85).%s = %v, want %v, dif %v", c.name, c.got, c.want, dif)
		}
	}
}

// Clamping the voltage and relaxing one gate at a time must move it
// monotonically toward its equilibrium.
func TestGateRelaxationMonotone(t *testing.T) {
	const (
		vClamp = -30.0
		dt     = 0.01
		steps  = 2000
		x0     = 0.5
	)

	gates := []struct {
		name        string
		alpha, beta func(float64) float64
	}{
		{"m", AlphaM, BetaM},
		{"h", AlphaH, BetaH},
		{"j", AlphaJ, BetaJ},
		{"d", AlphaD, BetaD},
		{"f", AlphaF, BetaF},
		{"x", AlphaX, BetaX},
	}

	for _, g := range gates {
		a := g.alpha(vClamp)
		b := g.beta(vClamp)
		xinf := SteadyState(a, b)

		x := x0
		dist := math.Abs(x - xinf)
		startDist := dist
		// Stop once converged to the noise floor, where round-off can
		// break strict monotonicity.
		for i := 0; i < steps && dist > 1e-12; i++ {
			x += dt * (a*(1.0-x) - b*x)
			newDist := math.Abs(x - xinf)
			if newDist > dist {
				t.Fatalf("gate %s diverged from x_inf at step %d: %v -> %v (x_inf %v)",
					g.name, i, dist, newDist, xinf)
			}
			dist = newDist
		}
		if dist >= startDist {
			t.Errorf("gate %s did not approach x_inf: start dif %v, end dif %v", g.name, startDist, dist)
		}
		if x < 0 || x > 1 {
			t.Errorf("gate %s left [0,1]: %v", g.name, x)
		}
	}
}

func TestSafeExpClamps(t *testing.T) {
	if got := safeExp(1000); math.IsInf(got, 0) || got != math.Exp(expLimit) {
		t.Errorf("safeExp(1000) = %v, want exp(%v)", got, expLimit)
	}
	if got := safeExp(-1000); got != math.Exp(-expLimit) {
		t.Errorf("safeExp(-1000) = %v, want exp(%v)", got, -expLimit)
	}
	if got := safeExp(1.5); got != math.Exp(1.5) {
		t.Errorf("safeExp(1.5) = %v, want %v", got, math.Exp(1.5))
	}
}
