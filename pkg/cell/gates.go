package cell

import "math"

// Argument limit for safeExp. Rate expressions evaluated far outside the
// physiological voltage range must saturate instead of overflowing.
const expLimit = 300.0

func safeExp(arg float64) float64 {
	if arg > expLimit {
		arg = expLimit
	} else if arg < -expLimit {
		arg = -expLimit
	}
	return math.Exp(arg)
}

// Voltage-dependent opening and closing rates (1/ms) of the six
// Luo-Rudy 1991 gates. Each gate x obeys dx/dt = alpha*(1-x) - beta*x.

// AlphaM is the sodium activation opening rate. The expression has a
// removable singularity at V = -47.13 mV where it takes its limit 3.2.
func AlphaM(v float64) float64 {
	const v0 = -47.13
	dv := v - v0
	if math.Abs(dv) < 1e-7 {
		return 3.2
	}
	return 0.32 * dv / (1.0 - safeExp(-0.1*dv))
}

// BetaM is the sodium activation closing rate.
func BetaM(v float64) float64 {
	return 0.08 * safeExp(-v/11.0)
}

// AlphaH is the sodium fast inactivation opening rate. Like the other
// sodium inactivation rates it switches form at V = -40 mV.
func AlphaH(v float64) float64 {
	if v >= -40.0 {
		return 0.0
	}
	return 0.135 * safeExp((80.0+v)/-6.8)
}

// BetaH is the sodium fast inactivation closing rate.
func BetaH(v float64) float64 {
	if v >= -40.0 {
		return 1.0 / (0.13 * (1.0 + safeExp((v+10.66)/-11.1)))
	}
	return 3.56*safeExp(0.079*v) + 3.1e5*safeExp(0.35*v)
}

// AlphaJ is the sodium slow inactivation opening rate. The depolarized
// branch is identically zero; the polarized branch is positive because
// both (V+37.78) and the bracketed sum are negative for V < -40.
func AlphaJ(v float64) float64 {
	if v >= -40.0 {
		return 0.0
	}
	return (-1.2714e5*safeExp(0.2444*v) - 3.474e-5*safeExp(-0.04391*v)) *
		(v + 37.78) / (1.0 + safeExp(0.311*(v+79.23)))
}

// BetaJ is the sodium slow inactivation closing rate.
func BetaJ(v float64) float64 {
	if v >= -40.0 {
		return 0.3 * safeExp(-2.535e-7*v) / (1.0 + safeExp(-0.1*(v+32.0)))
	}
	return 0.1212 * safeExp(-0.01052*v) / (1.0 + safeExp(-0.1378*(v+40.14)))
}

// AlphaD is the calcium activation opening rate, with its removable
// singularity at V = 5 mV where it takes its limit 1.0.
func AlphaD(v float64) float64 {
	const v0 = 5.0
	dv := v - v0
	if math.Abs(dv) < 1e-7 {
		return 1.0
	}
	return 0.1 * dv / (1.0 - safeExp(-0.1*dv))
}

// BetaD is the calcium activation closing rate.
func BetaD(v float64) float64 {
	return 0.07 * safeExp(-0.017*(v+44.0)) / (1.0 + safeExp(0.05*(v+44.0)))
}

// AlphaF is the calcium inactivation opening rate.
func AlphaF(v float64) float64 {
	return 0.012 * safeExp(-0.008*(v+28.0)) / (1.0 + safeExp(0.15*(v+28.0)))
}

// BetaF is the calcium inactivation closing rate.
func BetaF(v float64) float64 {
	return 0.0065 * safeExp(-0.02*(v+30.0)) / (1.0 + safeExp(-0.2*(v+30.0)))
}

// AlphaX is the potassium activation opening rate.
func AlphaX(v float64) float64 {
	return 0.0005 * safeExp(0.083*(v+50.0)) / (1.0 + safeExp(0.057*(v+50.0)))
}

// BetaX is the potassium activation closing rate.
func BetaX(v float64) float64 {
	return 0.0013 * safeExp(-0.06*(v+20.0)) / (1.0 + safeExp(-0.04*(v+20.0)))
}

// SteadyState is the equilibrium open fraction alpha/(alpha+beta).
func SteadyState(alpha, beta float64) float64 {
	return alpha / (alpha + beta)
}

// TimeConstant is the gate relaxation time 1/(alpha+beta) in ms.
func TimeConstant(alpha, beta float64) float64 {
	return 1.0 / (alpha + beta)
}

// RestingState returns the state of a cell held at potential v with
// every gate relaxed to its voltage-dependent equilibrium.
func RestingState(v float64) State {
	return State{
		V: v,
		M: SteadyState(AlphaM(v), BetaM(v)),
		H: SteadyState(AlphaH(v), BetaH(v)),
		J: SteadyState(AlphaJ(v), BetaJ(v)),
		D: SteadyState(AlphaD(v), BetaD(v)),
		F: SteadyState(AlphaF(v), BetaF(v)),
		X: SteadyState(AlphaX(v), BetaX(v)),
	}
}
