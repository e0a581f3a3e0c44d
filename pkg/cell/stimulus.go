package cell

import "fmt"

// Stimulus is a rectangular pacing pulse injected into the first cell.
type Stimulus struct {
	Amplitude float64 // Injected current density (uA/cm^2)
	Start     float64 // Pulse onset (ms)
	End       float64 // Pulse offset (ms)
}

// DefaultStimulus is a standard suprathreshold pacing pulse.
func DefaultStimulus() Stimulus {
	return Stimulus{Amplitude: 80.0, Start: 0.0, End: 1.5}
}

// Current is the injected current at time t. The pulse is open on both
// ends, so samples landing exactly on an edge see zero current.
func (st Stimulus) Current(t float64) float64 {
	if t > st.Start && t < st.End {
		return st.Amplitude
	}
	return 0.0
}

// Validate checks the pulse window.
func (st Stimulus) Validate() error {
	if st.End < st.Start {
		return fmt.Errorf("%w: stimulus window [%g, %g]", ErrInvalidConstant, st.Start, st.End)
	}
	return nil
}
