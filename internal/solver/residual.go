package solver

import (
	"fmt"

	"github.com/gaincal-dev/gaincal/internal/cube"
)

// ComputeResidual computes D - G·M·Gᴴ: the difference between the observed
// data and the model data with the current gains applied. Per antenna pair
// the model is left-multiplied by antenna p's gain and right-multiplied by
// the conjugate transpose of antenna q's gain. The result is used only for
// convergence monitoring, never for the gradient step. Panics if the three
// cubes disagree on batch shape or antenna count; Solve checks shapes once
// at its entry, so a mismatch here is a programmer error.
func ComputeResidual(obs, model *cube.VisCube, gains *cube.GainCube) *cube.VisCube {
	if !obs.SameShape(model) {
		panic(fmt.Sprintf("residual: observed %v/%d antennas vs model %v/%d antennas",
			obs.Batch(), obs.NAnt(), model.Batch(), model.NAnt()))
	}
	if !obs.Batch().Equal(gains.Batch()) || obs.NAnt() != gains.NAnt() {
		panic(fmt.Sprintf("residual: observed %v/%d antennas vs gains %v/%d antennas",
			obs.Batch(), obs.NAnt(), gains.Batch(), gains.NAnt()))
	}

	nant := obs.NAnt()
	res, err := cube.NewVisCube(obs.Batch(), nant)
	if err != nil {
		panic(fmt.Sprintf("residual: %v", err))
	}

	for cell := 0; cell < obs.Cells(); cell++ {
		for p := 0; p < nant; p++ {
			gp := gains.Mat(cell, p)
			for q := 0; q < nant; q++ {
				gmgh := gp.Mul(model.Mat(cell, p, q)).MulH(gains.Mat(cell, q))
				res.SetMat(cell, p, q, obs.Mat(cell, p, q).Sub(gmgh))
			}
		}
	}
	return res
}
