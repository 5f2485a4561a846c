// Copyright 2026 The gaincal Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cube provides the public API for the batched 2x2 complex
// tensor-algebra primitives used by the calibration solver.
//
// Visibility data lives in a VisCube of logical shape
// [batch..., nant, nant, 2, 2]; per-antenna Jones matrices live in a
// GainCube of shape [batch..., nant, 2, 2]. Storage is flat complex128
// slices with explicit offset arithmetic.
//
// Example:
//
//	obs, err := cube.NewVisCube(cube.Shape{1}, 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	obs.SetMat(0, 0, 1, cube.Mat2{1, 0, 0, 1})
package cube

import (
	"github.com/gaincal-dev/gaincal/internal/cube"
)

// Shape represents the batch dimensions of a cube (the axes left of the
// fixed antenna and correlation axes).
type Shape = cube.Shape

// Mat2 is a 2x2 complex matrix stored row-major: [m00, m01, m10, m11].
type Mat2 = cube.Mat2

// VisCube stores one 2x2 visibility matrix per antenna pair per batch cell.
type VisCube = cube.VisCube

// GainCube stores one 2x2 Jones matrix per antenna per batch cell.
type GainCube = cube.GainCube

// PhaseCube stores the per-antenna, per-feed phase state.
type PhaseCube = cube.PhaseCube

// NormCube stores the real ((JᴴJ))⁻¹ normalisation blocks.
type NormCube = cube.NormCube

// Identity2 returns the 2x2 identity matrix.
func Identity2() Mat2 {
	return cube.Identity2()
}

// NewVisCube creates a zero-filled visibility cube.
func NewVisCube(batch Shape, nant int) (*VisCube, error) {
	return cube.NewVisCube(batch, nant)
}

// NewGainCube creates a gain cube initialised to identity matrices.
func NewGainCube(batch Shape, nant int) *GainCube {
	return cube.NewGainCube(batch, nant)
}

// NewPhaseCube creates a zero-filled phase cube.
func NewPhaseCube(batch Shape, nant int) *PhaseCube {
	return cube.NewPhaseCube(batch, nant)
}
