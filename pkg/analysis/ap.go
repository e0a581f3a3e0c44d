package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// APFeatures summarizes one cell's action potential. APD90 is NaN when
// the trace ends before the 90% repolarization level is reached.
type APFeatures struct {
	PeakV      float64 // Overshoot potential (mV)
	PeakTime   float64 // Time of the first qualifying peak (ms)
	VMax       float64 // Maximum depolarization rate (mV/ms)
	RepolStart float64 // Onset of repolarization (ms)
	APD90      float64 // Duration from onset to 90% repolarization (ms)
}

// HasAPD90 reports whether the 90% repolarization crossing was found.
func (f *APFeatures) HasAPD90() bool {
	return !math.IsNaN(f.APD90)
}

// AnalyzeAP extracts action potential features from one cell's sampled
// voltage. The peak is the first local maximum at or above 0 mV;
// repolarization onset is the first negative-slope sample from the peak
// forward. A trace with no qualifying peak, or no downslope after it,
// yields ErrNoActionPotential.
func AnalyzeAP(time, voltage []float64, rest float64) (APFeatures, error) {
	var feat APFeatures
	if len(time) != len(voltage) {
		return feat, fmt.Errorf("time and voltage length mismatch: %d vs %d", len(time), len(voltage))
	}
	if len(time) < 3 {
		return feat, fmt.Errorf("%w: trace too short", ErrNoActionPotential)
	}

	peak := -1
	for i := 1; i < len(voltage)-1; i++ {
		if voltage[i] >= 0 && voltage[i] > voltage[i-1] && voltage[i] >= voltage[i+1] {
			peak = i
			break
		}
	}
	if peak < 0 {
		return feat, fmt.Errorf("%w: no peak at or above 0 mV", ErrNoActionPotential)
	}
	feat.PeakV = voltage[peak]
	feat.PeakTime = time[peak]

	slope := make([]float64, len(voltage)-1)
	for i := range slope {
		slope[i] = (voltage[i+1] - voltage[i]) / (time[i+1] - time[i])
	}
	feat.VMax = floats.Max(slope)

	onset := -1
	for i := peak; i < len(slope); i++ {
		if slope[i] < 0 {
			onset = i
			break
		}
	}
	if onset < 0 {
		return feat, fmt.Errorf("%w: no repolarization after peak", ErrNoActionPotential)
	}
	feat.RepolStart = time[onset]

	level := feat.PeakV - 0.9*(feat.PeakV-rest)
	feat.APD90 = math.NaN()
	for i := onset; i < len(voltage); i++ {
		if voltage[i] <= level {
			feat.APD90 = time[i] - feat.RepolStart
			break
		}
	}

	return feat, nil
}
