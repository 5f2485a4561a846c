package solver

import "github.com/gaincal-dev/gaincal/internal/cube"

// ComputeUpdate computes the update step of the GN/LM method: the complete
// ((JᴴJ))⁻¹·(JᴴR), a per-antenna real 2x2 by 2x1 block contraction yielding
// the phase increment for one iteration. Pure function of its inputs.
func ComputeUpdate(obs, model *cube.VisCube, gains *cube.GainCube, jhjinv *cube.NormCube) *cube.PhaseCube {
	jhr := ComputeJHR(obs, model, gains)
	nant := obs.NAnt()
	upd := cube.NewPhaseCube(obs.Batch(), nant)

	for cell := 0; cell < obs.Cells(); cell++ {
		for p := 0; p < nant; p++ {
			b := jhjinv.Block(cell, p)
			j0 := jhr.At(cell, p, 0)
			j1 := jhr.At(cell, p, 1)
			upd.Set(cell, p, 0, b[0]*j0+b[1]*j1)
			upd.Set(cell, p, 1, b[2]*j0+b[3]*j1)
		}
	}
	return upd
}
