// Package solver wraps the sparse LU machinery used by the Newton
// iterations. Rows and columns are 1-based, matching the underlying
// library.
package solver

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// Matrix is a real-valued sparse system A*x = b.
type Matrix struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
	config   *sparse.Configuration
}

func NewMatrix(size int) *Matrix {
	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		Translate:      true, // required to restamp after Factor reorders the matrix
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
		Annotate:       0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		fmt.Printf("Error creating sparse matrix: %v\n", err)
		return nil
	}

	return &Matrix{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, size+1), // 1-based indexing
		solution: make([]float64, size+1),
		config:   config,
	}
}

// SetupElements preallocates every element. The Jacobians stamped here
// are dense, so allocating up front keeps the ordering stable across
// factorizations.
func (m *Matrix) SetupElements() {
	for i := 1; i <= m.Size; i++ {
		for j := 1; j <= m.Size; j++ {
			m.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (m *Matrix) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		fmt.Printf("Warning: Matrix index out of bounds (i=%d, j=%d, size=%d)\n", i, j, m.Size)
		return
	}
	m.matrix.GetElement(int64(i), int64(j)).Real += value
}

func (m *Matrix) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		fmt.Printf("Warning: RHS index out of bounds (i=%d, size=%d)\n", i, m.Size)
		return
	}
	m.rhs[i] += value
}

func (m *Matrix) LoadGmin(gmin float64) {
	size := m.Size
	for i := 1; i <= size; i++ {
		if diag := m.GetDiagElement(i); diag != nil {
			diag.Real += gmin
		}
	}
}

func (m *Matrix) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

func (m *Matrix) Solve() error {
	var err error

	err = m.matrix.Factor()
	if err != nil {
		return fmt.Errorf("matrix factorization failed: %v", err)
	}

	m.solution, err = m.matrix.Solve(m.rhs)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %v", err)
	}

	return nil
}

func (m *Matrix) GetDiagElement(i int) *sparse.Element {
	if i <= 0 || i > m.Size {
		fmt.Printf("Warning: Diagonal index out of bounds (i=%d, size=%d)\n", i, m.Size)
		return nil
	}
	return m.matrix.Diags[i]
}

func (m *Matrix) RHS() []float64 {
	return m.rhs
}

func (m *Matrix) Solution() []float64 {
	return m.solution
}

// PrintSystem dumps the stamped equations, for debugging Newton
// failures.
func (m *Matrix) PrintSystem() {
	fmt.Printf("\nSystem Equations (%dx%d):\n", m.Size, m.Size)

	for i := 1; i <= m.Size; i++ {
		fmt.Printf("Equation %d:\n", i)
		rowHasElements := false
		for j := 1; j <= m.Size; j++ {
			element := m.matrix.GetElement(int64(i), int64(j))
			if element.Real != 0 {
				fmt.Printf("  %+g*x%d ", element.Real, j)
				rowHasElements = true
			}
		}
		if rowHasElements {
			fmt.Printf(" = %g\n", m.rhs[i])
		}
	}
}

func (m *Matrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}
