// Copyright 2026 The gaincal Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package solver provides the public API for phase-only gain calibration:
// the iterative GN/LM solve and the application of solved gains.
//
// Example:
//
//	res, err := solver.Solve(obs, model, solver.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	switch res.Status {
//	case solver.StatusDiverged:
//	    // discard or retry the chunk
//	default:
//	    corrected, _ := solver.ApplyGains(obs, res.Gains)
//	    _ = corrected
//	}
package solver

import (
	"github.com/gaincal-dev/gaincal/internal/cube"
	"github.com/gaincal-dev/gaincal/internal/solver"
)

// Config holds the solver parameters.
type Config = solver.Config

// Status is the terminal state of a solve.
type Status = solver.Status

// Terminal states.
const (
	StatusConverged Status = solver.StatusConverged
	StatusDiverged  Status = solver.StatusDiverged
	StatusMaxIter   Status = solver.StatusMaxIter
)

// Result holds the outcome of a solve.
type Result = solver.Result

// ErrShapeMismatch is returned when input cubes disagree on batch shape or
// antenna count.
var ErrShapeMismatch = solver.ErrShapeMismatch

// DefaultConfig returns the standard solver parameters.
func DefaultConfig() Config {
	return solver.DefaultConfig()
}

// Solve runs the phase-only GN/LM iteration and returns the gain estimates
// together with a converged / diverged / max-iterations status.
func Solve(obs, model *cube.VisCube, cfg Config) (*Result, error) {
	return solver.Solve(obs, model, cfg)
}

// ApplyGains applies the inverse gains to the observed data, producing
// corrected visibilities (G⁻¹)D(G⁻ᴴ).
func ApplyGains(obs *cube.VisCube, gains *cube.GainCube) (*cube.VisCube, error) {
	return solver.ApplyGains(obs, gains)
}

// ComputeResidual computes D - G·M·Gᴴ for external fit diagnostics.
// Panics if the cubes disagree on batch shape or antenna count.
func ComputeResidual(obs, model *cube.VisCube, gains *cube.GainCube) *cube.VisCube {
	return solver.ComputeResidual(obs, model, gains)
}
