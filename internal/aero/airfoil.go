// Package aero implements the aerodynamic force generators: airfoil
// coefficient tables, wing lift/drag, and raycast wheel suspension.
package aero

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

// Sample is one row of an airfoil polar: angle of attack in degrees with the
// lift and drag coefficients measured at that angle.
type Sample struct {
	Alpha float64 `json:"alpha"`
	Cl    float64 `json:"cl"`
	Cd    float64 `json:"cd"`
}

// Airfoil samples a lift/drag coefficient curve indexed by angle of attack.
// The curve data comes from published polars (airfoiltools.com); each
// airframe references the foil its real counterpart flies. Immutable after
// construction.
type Airfoil struct {
	minAlpha float64
	maxAlpha float64
	samples  []Sample
}

// NewAirfoil builds a table from samples ordered by ascending alpha.
// An empty slice yields an empty table; sampling it is an authoring error
// and returns zero coefficients.
func NewAirfoil(samples []Sample) *Airfoil {
	if len(samples) == 0 {
		return &Airfoil{}
	}
	return &Airfoil{
		minAlpha: samples[0].Alpha,
		maxAlpha: samples[len(samples)-1].Alpha,
		samples:  samples,
	}
}

type airfoilFile struct {
	Name    string   `json:"name"`
	Samples []Sample `json:"samples"`
}

// LoadAirfoil reads a polar from a JSON document. On failure it returns an
// empty table together with the error so a caller can log and keep loading;
// flying with an empty table is meaningless but must not crash.
func LoadAirfoil(path string) (*Airfoil, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return NewAirfoil(nil), fmt.Errorf("read airfoil %s: %w", path, err)
	}
	var doc airfoilFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return NewAirfoil(nil), fmt.Errorf("parse airfoil %s: %w", path, err)
	}
	for i := 1; i < len(doc.Samples); i++ {
		if doc.Samples[i].Alpha < doc.Samples[i-1].Alpha {
			return NewAirfoil(nil), fmt.Errorf("airfoil %s: samples not ordered by alpha at row %d", path, i)
		}
	}
	return NewAirfoil(doc.Samples), nil
}

// Empty reports whether the table has no samples.
func (a *Airfoil) Empty() bool {
	return len(a.samples) == 0
}

// MinAlpha returns the lowest tabulated angle of attack.
func (a *Airfoil) MinAlpha() float64 { return a.minAlpha }

// MaxAlpha returns the highest tabulated angle of attack.
func (a *Airfoil) MaxAlpha() float64 { return a.maxAlpha }

// Sample returns (cl, cd) for the given angle of attack in degrees. Alpha is
// clamped to the table range, then mapped to the nearest sample index:
// round((alpha-min)/range * (N-1)), index clamped to [0, N-1]. Nearest-sample
// lookup, not interpolation; force continuity depends on this exact rule.
// A zero-range table always answers with its first row.
func (a *Airfoil) Sample(alpha float64) (cl, cd float64) {
	if len(a.samples) == 0 {
		return 0, 0
	}
	alpha = mgl64.Clamp(alpha, a.minAlpha, a.maxAlpha)
	i := a.scale(alpha)
	if i < 0 {
		i = 0
	}
	if i > len(a.samples)-1 {
		i = len(a.samples) - 1
	}
	return a.samples[i].Cl, a.samples[i].Cd
}

func (a *Airfoil) scale(alpha float64) int {
	span := a.maxAlpha - a.minAlpha
	if span == 0 {
		return 0
	}
	return int(math.Round((alpha - a.minAlpha) / span * float64(len(a.samples)-1)))
}
