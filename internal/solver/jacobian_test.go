package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaincal-dev/gaincal/internal/cube"
)

// twoAntenna builds a single-cell 2-antenna cube with the given baseline 0-1
// matrix mirrored hermitian onto baseline 1-0. Autocorrelations stay zero.
func twoAntenna(t *testing.T, m01 cube.Mat2) *cube.VisCube {
	t.Helper()
	v, err := cube.NewVisCube(cube.Shape{1}, 2)
	require.NoError(t, err)
	v.SetMat(0, 0, 1, m01)
	v.SetMat(0, 1, 0, m01.ConjT())
	return v
}

func TestComputeJHRIdentityGains(t *testing.T) {
	obs := twoAntenna(t, cube.Mat2{3 - 1i, 2i, 1 + 1i, -2 + 0.5i})
	model := twoAntenna(t, cube.Mat2{1 + 2i, 0.5, -1i, 2})
	gains := cube.NewGainCube(cube.Shape{1}, 2)

	jhr := ComputeJHR(obs, model, gains)

	// With identity gains, r[0] = D[0,1]·M[0,1]ᴴ and the slot values are
	// -2·Im(r00) and -2·Im(r11):
	//   r00 = (3-i)(1-2i) + (2i)(0.5) = 1-6i          -> slot 0 = 12
	//   r11 = (1+i)(i)    + (-2+0.5i)(2) = -5+2i      -> slot 1 = -4
	assert.InDelta(t, 12.0, jhr.At(0, 0, 0), 1e-12)
	assert.InDelta(t, -4.0, jhr.At(0, 0, 1), 1e-12)
	assert.InDelta(t, -12.0, jhr.At(0, 1, 0), 1e-12)
	assert.InDelta(t, 4.0, jhr.At(0, 1, 1), 1e-12)
}

func TestComputeJHJInv(t *testing.T) {
	model := twoAntenna(t, cube.Mat2{1 + 2i, 0.5, -1i, 2})

	norm := ComputeJHJInv(model)

	// Squared magnitudes per baseline: [5, 0.25, 1, 4], so the two curvature
	// terms are 2·5+0.25+1 = 11.25 and 0.25+1+2·4 = 9.25.
	for p := 0; p < 2; p++ {
		b := norm.Block(0, p)
		assert.InDelta(t, 1.0/11.25, b[0], 1e-15, "antenna %d slot 0", p)
		assert.Zero(t, b[1])
		assert.Zero(t, b[2])
		assert.InDelta(t, 1.0/9.25, b[3], 1e-15, "antenna %d slot 1", p)
	}
}

func TestComputeJHJInvZeroModel(t *testing.T) {
	model, err := cube.NewVisCube(cube.Shape{2}, 3)
	require.NoError(t, err)

	norm := ComputeJHJInv(model)

	// No model flux anywhere: every entry must be exactly zero, never a
	// division error.
	for cell := 0; cell < 2; cell++ {
		for p := 0; p < 3; p++ {
			assert.Equal(t, [4]float64{}, norm.Block(cell, p))
		}
	}
}

func TestComputeJHJInvZeroAntennaGetsNoUpdate(t *testing.T) {
	// Antenna 2 has no model flux on any of its baselines; the others do.
	model, err := cube.NewVisCube(cube.Shape{1}, 3)
	require.NoError(t, err)
	m01 := cube.Mat2{1, 0, 0, 1}
	model.SetMat(0, 0, 1, m01)
	model.SetMat(0, 1, 0, m01.ConjT())

	obs := model.Clone()
	gains := cube.NewGainCube(cube.Shape{1}, 3)

	norm := ComputeJHJInv(model)
	assert.Equal(t, [4]float64{}, norm.Block(0, 2))

	upd := ComputeUpdate(obs, model, gains, norm)
	assert.Zero(t, upd.At(0, 2, 0))
	assert.Zero(t, upd.At(0, 2, 1))
}

func TestComputeUpdate(t *testing.T) {
	obs := twoAntenna(t, cube.Mat2{3 - 1i, 2i, 1 + 1i, -2 + 0.5i})
	model := twoAntenna(t, cube.Mat2{1 + 2i, 0.5, -1i, 2})
	gains := cube.NewGainCube(cube.Shape{1}, 2)

	upd := ComputeUpdate(obs, model, gains, ComputeJHJInv(model))

	// ((JᴴJ))⁻¹·(JᴴR): 12/11.25 and -4/9.25 for antenna 0, negated for 1.
	assert.InDelta(t, 12.0/11.25, upd.At(0, 0, 0), 1e-12)
	assert.InDelta(t, -4.0/9.25, upd.At(0, 0, 1), 1e-12)
	assert.InDelta(t, -12.0/11.25, upd.At(0, 1, 0), 1e-12)
	assert.InDelta(t, 4.0/9.25, upd.At(0, 1, 1), 1e-12)
}
