package cell

// State vector component indices. A single cell packs into a slice in
// this order; a fiber of cells concatenates one block per cell.
const (
	IdxV = iota // Membrane potential
	IdxM        // Sodium activation gate
	IdxH        // Sodium fast inactivation gate
	IdxJ        // Sodium slow inactivation gate
	IdxD        // Calcium activation gate
	IdxF        // Calcium inactivation gate
	IdxX        // Potassium activation gate
	StateLen
)

// State is the instantaneous condition of one myocyte: the membrane
// potential and six Hodgkin-Huxley gating variables.
type State struct {
	V float64 // Membrane potential (mV)
	M float64 // Sodium activation, in [0,1]
	H float64 // Sodium fast inactivation, in [0,1]
	J float64 // Sodium slow inactivation, in [0,1]
	D float64 // Calcium activation, in [0,1]
	F float64 // Calcium inactivation, in [0,1]
	X float64 // Potassium activation, in [0,1]
}

// Pack writes the state into dst, which must have at least StateLen
// elements, using the Idx* ordering.
func (s *State) Pack(dst []float64) {
	dst[IdxV] = s.V
	dst[IdxM] = s.M
	dst[IdxH] = s.H
	dst[IdxJ] = s.J
	dst[IdxD] = s.D
	dst[IdxF] = s.F
	dst[IdxX] = s.X
}

// Unpack fills the state from src, which must have at least StateLen
// elements, using the Idx* ordering.
func (s *State) Unpack(src []float64) {
	s.V = src[IdxV]
	s.M = src[IdxM]
	s.H = src[IdxH]
	s.J = src[IdxJ]
	s.D = src[IdxD]
	s.F = src[IdxF]
	s.X = src[IdxX]
}
