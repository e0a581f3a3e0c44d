package analysis

import (
	"fmt"

	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/cell"
)

// VSweep tabulates the steady-state membrane currents over a range of
// clamped voltages, with every gate held at its equilibrium for the
// clamp.
type VSweep struct {
	model   *cell.Model
	start   float64
	stop    float64
	step    float64
	results map[string][]float64
}

// NewVSweep builds a sweep over [start, stop] in increments of step.
func NewVSweep(k *cell.Constants, start, stop, step float64) (*VSweep, error) {
	model, err := cell.NewModel(k)
	if err != nil {
		return nil, err
	}
	return &VSweep{
		model:   model,
		start:   start,
		stop:    stop,
		step:    step,
		results: make(map[string][]float64),
	}, nil
}

func (sw *VSweep) Execute() error {
	if sw.step <= 0 {
		return fmt.Errorf("sweep step must be positive, got %g", sw.step)
	}
	if sw.stop < sw.start {
		return fmt.Errorf("sweep range [%g, %g] is empty", sw.start, sw.stop)
	}

	for v := sw.start; v <= sw.stop; v += sw.step {
		st := cell.RestingState(v)
		cur := sw.model.Currents(&st)

		sw.store("V", v)
		sw.store("INA", cur.INa)
		sw.store("ICAL", cur.ICaL)
		sw.store("IK", cur.IK)
		sw.store("IK1", cur.IK1)
		sw.store("IKP", cur.IKp)
		sw.store("ITOTAL", cur.Total)
	}

	return nil
}

func (sw *VSweep) store(name string, value float64) {
	if _, exists := sw.results[name]; !exists {
		sw.results[name] = make([]float64, 0)
	}
	sw.results[name] = append(sw.results[name], value)
}

// Results maps current names to their sweep series.
func (sw *VSweep) Results() map[string][]float64 {
	return sw.results
}
