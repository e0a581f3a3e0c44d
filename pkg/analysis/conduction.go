package analysis

import "math"

// ConductionResult is the propagation measurement between the two
// cells. Both fields are NaN when undefined.
type ConductionResult struct {
	Delay    float64 // Repolarization onset difference, cell 2 minus cell 1 (ms)
	Velocity float64 // Conduction velocity over the inter-cell distance (distance units/s)
}

// Defined reports whether a valid propagation was measured.
func (c *ConductionResult) Defined() bool {
	return !math.IsNaN(c.Delay) && !math.IsNaN(c.Velocity)
}

// AnalyzeConduction derives the inter-cell delay and velocity from the
// two cells' features and the physical distance between them. A nil
// feature set (no detected action potential) or a non-positive delay
// leaves the result undefined rather than negative or infinite.
func AnalyzeConduction(cell1, cell2 *APFeatures, distance float64) ConductionResult {
	result := ConductionResult{
		Delay:    math.NaN(),
		Velocity: math.NaN(),
	}
	if cell1 == nil || cell2 == nil {
		return result
	}

	result.Delay = cell2.RepolStart - cell1.RepolStart
	if result.Delay > 0 {
		result.Velocity = distance / (result.Delay * 1e-3) // ms to s
	}
	return result
}
