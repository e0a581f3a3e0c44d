// Package fiber couples two Luo-Rudy myocytes through a resistive gap
// junction and presents them as a single flat ODE system.
package fiber

import (
	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/cell"
)

// Offsets of each cell's state block in the packed fiber vector.
const (
	Cell1 = 0
	Cell2 = cell.StateLen
)

// VoltageIndex is the packed-vector index of a cell's membrane
// potential. Cells are numbered 1 and 2.
func VoltageIndex(cellNo int) int {
	if cellNo == 2 {
		return Cell2 + cell.IdxV
	}
	return Cell1 + cell.IdxV
}

// Fiber is the coupled two-cell system. Cell 1 receives the pacing
// stimulus; cell 2 is excited only through the gap junction.
type Fiber struct {
	model *cell.Model
	stim  cell.Stimulus
}

// New builds a fiber from a parameter set and a pacing pulse.
func New(k *cell.Constants, stim cell.Stimulus) (*Fiber, error) {
	model, err := cell.NewModel(k)
	if err != nil {
		return nil, err
	}
	if err := stim.Validate(); err != nil {
		return nil, err
	}
	return &Fiber{model: model, stim: stim}, nil
}

// Dim is the length of the packed state vector.
func (f *Fiber) Dim() int {
	return 2 * cell.StateLen
}

// GapCurrent is the junctional current density (uA/cm^2), positive when
// current flows from cell 1 into cell 2.
func (f *Fiber) GapCurrent(v1, v2 float64) float64 {
	return f.model.K.GGap * (v1 - v2)
}

// Derivatives evaluates the full system right-hand side at time t.
// The junction current is injected into cell 2 only; cell 1 sees just
// the pacing pulse.
func (f *Fiber) Derivatives(t float64, state, deriv []float64) {
	var s1, s2, d1, d2 cell.State
	s1.Unpack(state[Cell1:])
	s2.Unpack(state[Cell2:])

	igap := f.GapCurrent(s1.V, s2.V)

	f.model.Derivatives(&s1, f.stim.Current(t), &d1)
	f.model.Derivatives(&s2, igap, &d2)

	d1.Pack(deriv[Cell1:])
	d2.Pack(deriv[Cell2:])
}

// Breakpoints lists the time points where the drive is discontinuous.
func (f *Fiber) Breakpoints() []float64 {
	return []float64{f.stim.Start, f.stim.End}
}

// RestingState packs a fiber state with both cells held at potential v
// and all gates at equilibrium.
func (f *Fiber) RestingState(v float64) []float64 {
	rest := cell.RestingState(v)
	state := make([]float64, f.Dim())
	rest.Pack(state[Cell1:])
	rest.Pack(state[Cell2:])
	return state
}

// Constants exposes the underlying parameter set.
func (f *Fiber) Constants() *cell.Constants {
	return f.model.K
}
