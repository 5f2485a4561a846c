package solver

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaincal-dev/gaincal/internal/cube"
)

func TestApplyGainsIdentityIsNoOp(t *testing.T) {
	obs := twoAntenna(t, cube.Mat2{3 - 1i, 2i, 1 + 1i, -2 + 0.5i})
	gains := cube.NewGainCube(cube.Shape{1}, 2)

	corr, err := ApplyGains(obs, gains)
	require.NoError(t, err)

	for p := 0; p < 2; p++ {
		for q := 0; q < 2; q++ {
			assertMatNear(t, obs.Mat(0, p, q), corr.Mat(0, p, q), 1e-15)
		}
	}
}

func TestApplyGainsRoundTrip(t *testing.T) {
	// Correcting with G and then re-corrupting (G·V·Gᴴ) must round-trip the
	// observed data for any diagonal gains.
	obs := twoAntenna(t, cube.Mat2{3 - 1i, 2i, 1 + 1i, -2 + 0.5i})

	phases := cube.NewPhaseCube(cube.Shape{1}, 2)
	phases.Set(0, 0, 0, 1.2)
	phases.Set(0, 0, 1, -0.3)
	phases.Set(0, 1, 0, 0.45)
	phases.Set(0, 1, 1, 2.0)
	gains := cube.NewGainCube(cube.Shape{1}, 2)
	gains.SetFromPhases(phases)

	corr, err := ApplyGains(obs, gains)
	require.NoError(t, err)

	for p := 0; p < 2; p++ {
		for q := 0; q < 2; q++ {
			back := gains.Mat(0, p).Mul(corr.Mat(0, p, q)).MulH(gains.Mat(0, q))
			assertMatNear(t, obs.Mat(0, p, q), back, 1e-12)
		}
	}
}

func TestApplyGainsUndoesCorruption(t *testing.T) {
	// Data generated as G·M·Gᴴ corrected with G must give back M.
	model := twoAntenna(t, cube.Mat2{1 + 2i, 0.5, -1i, 2})
	phases := cube.NewPhaseCube(cube.Shape{1}, 2)
	phases.Set(0, 1, 0, 0.8)
	phases.Set(0, 1, 1, 0.8)
	gains := cube.NewGainCube(cube.Shape{1}, 2)
	gains.SetFromPhases(phases)

	obs, _ := cube.NewVisCube(cube.Shape{1}, 2)
	for p := 0; p < 2; p++ {
		for q := 0; q < 2; q++ {
			obs.SetMat(0, p, q, gains.Mat(0, p).Mul(model.Mat(0, p, q)).MulH(gains.Mat(0, q)))
		}
	}

	corr, err := ApplyGains(obs, gains)
	require.NoError(t, err)
	for p := 0; p < 2; p++ {
		for q := 0; q < 2; q++ {
			assertMatNear(t, model.Mat(0, p, q), corr.Mat(0, p, q), 1e-12)
		}
	}
}

func TestApplyGainsPhaseOnlyInverseIsConjugate(t *testing.T) {
	// Phase-only gains have unit-magnitude diagonal entries, so the closed
	// form inverse is just the conjugate phase.
	phases := cube.NewPhaseCube(cube.Shape{1}, 2)
	phases.Set(0, 0, 0, 0.6)
	phases.Set(0, 0, 1, -1.4)
	gains := cube.NewGainCube(cube.Shape{1}, 2)
	gains.SetFromPhases(phases)

	inv := gains.Mat(0, 0).Inv()
	want := cube.Mat2{cmplx.Exp(complex(0, 0.6)), 0, 0, cmplx.Exp(complex(0, -1.4))}
	assertMatNear(t, want, inv, 1e-15)
}

func TestApplyGainsShapeMismatch(t *testing.T) {
	obs, err := cube.NewVisCube(cube.Shape{1}, 3)
	require.NoError(t, err)
	gains := cube.NewGainCube(cube.Shape{1}, 4)

	_, err = ApplyGains(obs, gains)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
