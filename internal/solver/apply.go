package solver

import (
	"fmt"

	"github.com/gaincal-dev/gaincal/internal/cube"
)

// ApplyGains applies the inverse of the gain estimates to the observed data,
// producing the corrected visibilities (G⁻¹)D(G⁻ᴴ).
//
// Each antenna's 2x2 gain is inverted in closed form (adjugate over
// determinant); since solved gains are diagonal with unit-magnitude entries
// the determinant never vanishes. Per antenna pair the observed matrix is
// left-multiplied by p's inverse gain and right-multiplied by the conjugate
// transpose of q's inverse gain.
func ApplyGains(obs *cube.VisCube, gains *cube.GainCube) (*cube.VisCube, error) {
	if obs == nil || gains == nil {
		return nil, fmt.Errorf("solver: nil input cube")
	}
	if obs.NAnt() != gains.NAnt() || !obs.Batch().Equal(gains.Batch()) {
		return nil, fmt.Errorf("solver: observed %v/%d antennas, gains %v/%d antennas: %w",
			obs.Batch(), obs.NAnt(), gains.Batch(), gains.NAnt(), ErrShapeMismatch)
	}

	nant := obs.NAnt()
	corr, _ := cube.NewVisCube(obs.Batch(), nant)
	inv := make([]cube.Mat2, nant)

	for cell := 0; cell < obs.Cells(); cell++ {
		for p := 0; p < nant; p++ {
			inv[p] = gains.Mat(cell, p).Inv()
		}
		for p := 0; p < nant; p++ {
			for q := 0; q < nant; q++ {
				corr.SetMat(cell, p, q, inv[p].Mul(obs.Mat(cell, p, q)).MulH(inv[q]))
			}
		}
	}
	return corr, nil
}
