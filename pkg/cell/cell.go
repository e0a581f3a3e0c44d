// Package cell implements the Luo-Rudy 1991 ventricular myocyte model:
// membrane currents, gate kinetics, and the physical constants they
// depend on. Everything is expressed per unit membrane area, with
// voltages in mV, time in ms, and currents in uA/cm^2.
package cell

// Currents holds the five membrane current densities (uA/cm^2) and
// their sum at a given state. Positive values are outward.
type Currents struct {
	INa   float64 // Fast sodium current
	ICaL  float64 // L-type (slow inward) calcium current
	IK    float64 // Time-dependent delayed rectifier potassium current
	IK1   float64 // Time-independent inward rectifier potassium current
	IKp   float64 // Plateau potassium current
	Total float64
}

// Model evaluates the ionic currents and state derivatives for one
// myocyte under a fixed, validated parameter set.
type Model struct {
	K   *Constants
	Rev Reversal
}

// NewModel validates the constants and precomputes the reversal
// potentials.
func NewModel(k *Constants) (*Model, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return &Model{K: k, Rev: k.NernstPotentials()}, nil
}

// Currents evaluates the five membrane currents at state s.
func (m *Model) Currents(s *State) Currents {
	k := m.K
	var c Currents

	c.INa = k.GNa * s.M * s.M * s.M * s.H * s.J * (s.V - m.Rev.ENa)
	c.ICaL = k.GCaL * s.D * s.F * (s.V - m.Rev.ECa)
	c.IK = k.GK * s.X * s.X * (s.V - m.Rev.EK)

	dvk := s.V - m.Rev.EK
	c.IK1 = k.GK1 * dvk / (1.0 + safeExp(1.31*(dvk-12.0)))

	kp := 1.0 / (1.0 + safeExp((7.488-s.V)/5.98))
	c.IKp = k.GKp * kp * dvk

	c.Total = c.INa + c.ICaL + c.IK + c.IK1 + c.IKp
	return c
}

// Derivatives fills d with the time derivatives of state s under the
// injected current inj (uA/cm^2, positive depolarizing).
func (m *Model) Derivatives(s *State, inj float64, d *State) {
	d.M = AlphaM(s.V)*(1.0-s.M) - BetaM(s.V)*s.M
	d.H = AlphaH(s.V)*(1.0-s.H) - BetaH(s.V)*s.H
	d.J = AlphaJ(s.V)*(1.0-s.J) - BetaJ(s.V)*s.J
	d.D = AlphaD(s.V)*(1.0-s.D) - BetaD(s.V)*s.D
	d.F = AlphaF(s.V)*(1.0-s.F) - BetaF(s.V)*s.F
	d.X = AlphaX(s.V)*(1.0-s.X) - BetaX(s.V)*s.X

	d.V = -(m.Currents(s).Total - inj) / m.K.Cm
}
