package solver

import (
	"math/cmplx"

	"github.com/gaincal-dev/gaincal/internal/cube"
)

// toNorm is the fixed normalisation matrix of the phase-only Fisher
// information structure: it couples the XX/YX and XY/YY squared model
// magnitudes symmetrically into the two diagonal curvature terms.
var toNorm = [4][4]float64{
	{2, 0, 0, 0},
	{1, 0, 0, 1},
	{1, 0, 0, 1},
	{0, 0, 0, 2},
}

// ComputeJHR computes the (JᴴR) term of the GN/LM method for the
// full-polarisation, phase-only case.
//
// Per batch cell and antenna p it accumulates, over every baseline touching p,
// the observed visibility partially de-rotated by the other antenna's gain and
// contracted against the conjugate transpose of the model:
//
//	r = Σ_q  D[p,q] · G[q] · M[p,q]ᴴ
//
// The phase-only projection then selects the diagonal entries, composed with
// the conjugate of p's own gain; the gradient is -2 times the imaginary part:
//
//	jhr[p,i] = -2 · Im( conj(g_i(p)) · r_ii )
func ComputeJHR(obs, model *cube.VisCube, gains *cube.GainCube) *cube.PhaseCube {
	nant := obs.NAnt()
	jhr := cube.NewPhaseCube(obs.Batch(), nant)

	for cell := 0; cell < obs.Cells(); cell++ {
		for p := 0; p < nant; p++ {
			var r cube.Mat2
			for q := 0; q < nant; q++ {
				rg := obs.Mat(cell, p, q).Mul(gains.Mat(cell, q))
				r = r.Add(rg.MulH(model.Mat(cell, p, q)))
			}
			g := gains.Mat(cell, p)
			jhr.Set(cell, p, 0, -2*imag(cmplx.Conj(g[0])*r[0]))
			jhr.Set(cell, p, 1, -2*imag(cmplx.Conj(g[3])*r[3]))
		}
	}
	return jhr
}

// ComputeJHJInv computes the ((JᴴJ))⁻¹ term of the GN/LM method for the
// full-polarisation, phase-only case. It depends only on the model
// visibilities, so a solve computes it once and reuses it every iteration.
//
// Per batch cell and antenna p: sum the squared magnitudes of the model
// entries over all baselines touching p (a 4-vector over XX, XY, YX, YY),
// multiply by the fixed normalisation matrix, then invert element-wise.
// An exact-zero entry stays zero: an antenna with no model flux contributes
// no curvature and must not divide by zero.
func ComputeJHJInv(model *cube.VisCube) *cube.NormCube {
	nant := model.NAnt()
	norm := cube.NewNormCube(model.Batch(), nant)

	for cell := 0; cell < model.Cells(); cell++ {
		for p := 0; p < nant; p++ {
			var s [4]float64
			for q := 0; q < nant; q++ {
				sq := model.Mat(cell, p, q).AbsSq()
				for k := 0; k < 4; k++ {
					s[k] += sq[k]
				}
			}
			var b [4]float64
			for j := 0; j < 4; j++ {
				for k := 0; k < 4; k++ {
					b[j] += s[k] * toNorm[k][j]
				}
			}
			for j := 0; j < 4; j++ {
				if b[j] != 0 {
					b[j] = 1 / b[j]
				}
			}
			norm.SetBlock(cell, p, b)
		}
	}
	return norm
}
