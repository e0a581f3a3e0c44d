package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/cell"
	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/pkg/fiber"
)

func runFiber(t *testing.T, k *cell.Constants, stim cell.Stimulus) *Trace {
	t.Helper()
	fbr, err := fiber.New(k, stim)
	if err != nil {
		t.Fatalf("fiber.New failed: %v", err)
	}
	tran := NewTransient(0, 400, 4000)
	if err := tran.Setup(fbr, fbr.RestingState(k.VRest)); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := tran.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	return tran.Trace()
}

func voltages(trace *Trace) (v1, v2 []float64) {
	return trace.Component(fiber.VoltageIndex(1)), trace.Component(fiber.VoltageIndex(2))
}

// A default paced run must produce a physiological action potential in
// the stimulated cell and a propagated one in its neighbor.
func TestPacedPairFeatures(t *testing.T) {
	k := cell.NewConstants()
	trace := runFiber(t, k, cell.DefaultStimulus())
	v1, v2 := voltages(trace)

	feat1, err := AnalyzeAP(trace.Time, v1, k.VRest)
	if err != nil {
		t.Fatalf("cell 1 AnalyzeAP failed: %v", err)
	}
	feat2, err := AnalyzeAP(trace.Time, v2, k.VRest)
	if err != nil {
		t.Fatalf("cell 2 AnalyzeAP failed: %v", err)
	}

	if feat1.PeakV < 30 || feat1.PeakV > 60 {
		t.Errorf("cell 1 PeakV = %v, want 30..60 mV", feat1.PeakV)
	}
	if feat1.VMax < 100 || feat1.VMax > 500 {
		t.Errorf("cell 1 VMax = %v, want 100..500 mV/ms", feat1.VMax)
	}
	if !feat1.HasAPD90() {
		t.Fatalf("cell 1 APD90 undefined over a 400 ms run")
	}
	if feat1.APD90 < 150 || feat1.APD90 > 300 {
		t.Errorf("cell 1 APD90 = %v, want 150..300 ms", feat1.APD90)
	}

	// The pacing pulse starts at t=0, so the upstroke must come almost
	// immediately.
	if feat1.PeakTime > 50 {
		t.Errorf("cell 1 PeakTime = %v, want < 50 ms after the pulse", feat1.PeakTime)
	}
	if feat1.PeakTime < 0 || feat1.RepolStart < feat1.PeakTime {
		t.Errorf("cell 1 feature order broken: peak %v, repol onset %v", feat1.PeakTime, feat1.RepolStart)
	}
	if feat1.RepolStart+feat1.APD90 > 400 {
		t.Errorf("cell 1 repolarization extends past the run: %v + %v", feat1.RepolStart, feat1.APD90)
	}

	// Cell 2 is driven through the junction and fires with a short lag.
	if feat2.PeakV < 0 || feat2.PeakV > 60 {
		t.Errorf("cell 2 PeakV = %v, want 0..60 mV", feat2.PeakV)
	}
	if feat2.PeakTime <= feat1.PeakTime {
		t.Errorf("cell 2 peaked at %v, not after cell 1 at %v", feat2.PeakTime, feat1.PeakTime)
	}
}

func TestPacedPairConduction(t *testing.T) {
	k := cell.NewConstants()
	trace := runFiber(t, k, cell.DefaultStimulus())
	v1, v2 := voltages(trace)

	feat1, err := AnalyzeAP(trace.Time, v1, k.VRest)
	if err != nil {
		t.Fatalf("cell 1 AnalyzeAP failed: %v", err)
	}
	feat2, err := AnalyzeAP(trace.Time, v2, k.VRest)
	if err != nil {
		t.Fatalf("cell 2 AnalyzeAP failed: %v", err)
	}

	cond := AnalyzeConduction(&feat1, &feat2, k.Distance())
	if !cond.Defined() {
		t.Fatalf("conduction undefined for a paced pair: %+v", cond)
	}
	if cond.Delay <= 0 || cond.Delay > 50 {
		t.Errorf("Delay = %v, want a short positive lag", cond.Delay)
	}
	if cond.Velocity <= 0 {
		t.Errorf("Velocity = %v, want positive", cond.Velocity)
	}
	if dif := math.Abs(cond.Velocity*cond.Delay*1e-3 - k.Distance()); dif > difTol {
		t.Errorf("velocity*delay = %v, want distance %v", cond.Velocity*cond.Delay*1e-3, k.Distance())
	}
}

// With the junction removed, the pulse still fires cell 1 but cell 2
// stays quiet at rest.
func TestDecoupledSecondCell(t *testing.T) {
	k := cell.NewConstants()
	k.GGap = 0
	trace := runFiber(t, k, cell.DefaultStimulus())
	v1, v2 := voltages(trace)

	feat1, err := AnalyzeAP(trace.Time, v1, k.VRest)
	if err != nil {
		t.Fatalf("cell 1 AnalyzeAP failed: %v", err)
	}
	if feat1.PeakV < 30 {
		t.Errorf("cell 1 PeakV = %v, want a full upstroke", feat1.PeakV)
	}

	if _, err := AnalyzeAP(trace.Time, v2, k.VRest); !errors.Is(err, ErrNoActionPotential) {
		t.Errorf("cell 2 error = %v, want ErrNoActionPotential", err)
	}
	for i, v := range v2 {
		if v < -95 || v > -80 {
			t.Fatalf("cell 2 left the resting band at sample %d: %v mV", i, v)
		}
	}
}

// Without a pulse neither cell leaves rest.
func TestRestingHold(t *testing.T) {
	k := cell.NewConstants()
	trace := runFiber(t, k, cell.Stimulus{Amplitude: 0, Start: 0, End: 1.5})
	v1, v2 := voltages(trace)

	for _, v := range [][]float64{v1, v2} {
		for i, val := range v {
			if val < -95 || val > -80 {
				t.Fatalf("voltage left the resting band at sample %d: %v mV", i, val)
			}
		}
	}
	if _, err := AnalyzeAP(trace.Time, v1, k.VRest); !errors.Is(err, ErrNoActionPotential) {
		t.Errorf("cell 1 error = %v, want ErrNoActionPotential", err)
	}
	if _, err := AnalyzeAP(trace.Time, v2, k.VRest); !errors.Is(err, ErrNoActionPotential) {
		t.Errorf("cell 2 error = %v, want ErrNoActionPotential", err)
	}
}
