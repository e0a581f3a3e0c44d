package cell

import (
	"errors"
	"fmt"
	"math"

	"github.com/EugeneShadow72/Sinner-LR1for2cardiomyocyte/internal/consts"
)

// ErrInvalidConstant reports a physical parameter outside its valid range.
var ErrInvalidConstant = errors.New("cell: constant out of physical range")

// Constants holds the physiological parameters of the Luo-Rudy 1991
// ventricular cell model together with the two-cell coupling geometry.
// A validated set is treated as immutable for the lifetime of a run.
type Constants struct {
	Cm float64 // Membrane capacitance (uF/cm^2)
	R  float64 // Gas constant (J/(mol*K))
	F  float64 // Faraday constant (kC/mol)
	T  float64 // Absolute temperature (K)

	NaO float64 // Extracellular sodium (mM)
	NaI float64 // Intracellular sodium (mM)
	KO  float64 // Extracellular potassium (mM)
	KI  float64 // Intracellular potassium (mM)
	CaO float64 // Extracellular calcium (mM)
	CaI float64 // Intracellular calcium (mM)

	GNa  float64 // Fast sodium conductance (mS/cm^2)
	GK   float64 // Delayed rectifier potassium conductance (mS/cm^2)
	GK1  float64 // Inward rectifier potassium conductance (mS/cm^2)
	GKp  float64 // Plateau potassium conductance (mS/cm^2)
	GCaL float64 // L-type calcium conductance (mS/cm^2)

	GGap float64 // Gap junction conductance (mS/cm^2)

	CellLength float64 // Myocyte length (um)
	GapLength  float64 // Junctional cleft length (um)
	DistScale  float64 // Geometry scale factor for velocity reporting

	VRest float64 // Nominal resting potential (mV)
}

// NewConstants returns the standard Luo-Rudy 1991 parameter set for a
// ventricular myocyte pair at body temperature.
func NewConstants() *Constants {
	return &Constants{
		Cm: 1.0,
		R:  consts.RGAS,
		F:  consts.FARADAY,
		T:  consts.BODYTEMP,

		NaO: 140.0,
		NaI: 18.0,
		KO:  5.4,
		KI:  145.0,
		CaO: 1.8,
		CaI: 1e-4,

		GNa:  23.0,
		GK:   0.282,
		GK1:  0.6047,
		GKp:  0.0183,
		GCaL: 0.09,

		GGap: 0.6,

		CellLength: 100.0,
		GapLength:  5.0,
		DistScale:  1e-3,

		VRest: -85.0,
	}
}

// Set assigns the constant named by a lower-case deck key.
func (k *Constants) Set(name string, value float64) error {
	switch name {
	case "cm":
		k.Cm = value
	case "rgas":
		k.R = value
	case "faraday":
		k.F = value
	case "temp":
		k.T = value
	case "nao":
		k.NaO = value
	case "nai":
		k.NaI = value
	case "ko":
		k.KO = value
	case "ki":
		k.KI = value
	case "cao":
		k.CaO = value
	case "cai":
		k.CaI = value
	case "gna":
		k.GNa = value
	case "gk":
		k.GK = value
	case "gk1":
		k.GK1 = value
	case "gkp":
		k.GKp = value
	case "gcal":
		k.GCaL = value
	case "ggap":
		k.GGap = value
	case "lcell":
		k.CellLength = value
	case "lgap":
		k.GapLength = value
	case "dscale":
		k.DistScale = value
	case "v":
		k.VRest = value
	default:
		return fmt.Errorf("unknown constant: %s", name)
	}
	return nil
}

// Validate checks the parameter set for physical consistency.
func (k *Constants) Validate() error {
	if k.Cm <= 0 {
		return fmt.Errorf("%w: capacitance Cm=%g", ErrInvalidConstant, k.Cm)
	}
	if k.R <= 0 || k.F <= 0 {
		return fmt.Errorf("%w: gas constant R=%g, Faraday F=%g", ErrInvalidConstant, k.R, k.F)
	}
	if k.T <= 0 {
		return fmt.Errorf("%w: temperature T=%g", ErrInvalidConstant, k.T)
	}

	concentrations := []struct {
		name  string
		value float64
	}{
		{"Na_o", k.NaO}, {"Na_i", k.NaI},
		{"K_o", k.KO}, {"K_i", k.KI},
		{"Ca_o", k.CaO}, {"Ca_i", k.CaI},
	}
	for _, c := range concentrations {
		if c.value <= 0 {
			return fmt.Errorf("%w: concentration %s=%g", ErrInvalidConstant, c.name, c.value)
		}
	}

	conductances := []struct {
		name  string
		value float64
	}{
		{"gNa", k.GNa}, {"gK", k.GK}, {"gK1", k.GK1},
		{"gKp", k.GKp}, {"gCaL", k.GCaL}, {"G_gap", k.GGap},
	}
	for _, g := range conductances {
		if g.value < 0 {
			return fmt.Errorf("%w: conductance %s=%g", ErrInvalidConstant, g.name, g.value)
		}
	}

	if k.CellLength < 0 || k.GapLength < 0 {
		return fmt.Errorf("%w: geometry lengths %g, %g", ErrInvalidConstant, k.CellLength, k.GapLength)
	}
	if k.DistScale <= 0 {
		return fmt.Errorf("%w: distance scale %g", ErrInvalidConstant, k.DistScale)
	}
	return nil
}

// Reversal holds the Nernst equilibrium potentials (mV). Intracellular
// concentrations stay constant in this model, so a Reversal computed at
// setup is valid for the whole run.
type Reversal struct {
	ENa float64
	EK  float64
	ECa float64
}

// Nernst is the equilibrium potential in mV for an ion of valence z with
// outside and inside concentrations co and ci.
func (k *Constants) Nernst(z, co, ci float64) float64 {
	return k.R * k.T / (z * k.F) * math.Log(co/ci)
}

// NernstPotentials derives the three reversal potentials.
func (k *Constants) NernstPotentials() Reversal {
	return Reversal{
		ENa: k.Nernst(1, k.NaO, k.NaI),
		EK:  k.Nernst(1, k.KO, k.KI),
		ECa: k.Nernst(2, k.CaO, k.CaI),
	}
}

// Distance is the cell-to-cell spacing used for conduction velocity:
// the cell plus gap lengths scaled by DistScale.
func (k *Constants) Distance() float64 {
	return (k.CellLength + k.GapLength) * k.DistScale
}
