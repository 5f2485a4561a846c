// Package solver implements the iterative Gauss-Newton/Levenberg-Marquardt
// phase-only gain calibration for full-polarisation visibility data, and the
// application of solved gains to produce corrected visibilities.
package solver

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gaincal-dev/gaincal/internal/cube"
)

// ErrShapeMismatch is returned when the observed and model cubes do not
// share a batch shape and antenna count.
var ErrShapeMismatch = errors.New("observed and model shapes do not match")

// Status is the terminal state of a solve. All three outcomes return gains;
// callers branch on the status to decide whether to keep, retry or discard.
type Status int

const (
	// StatusConverged: the gain change or the chi-squared improvement
	// dropped below its threshold.
	StatusConverged Status = iota
	// StatusDiverged: chi-squared increased between two successive checks
	// (a "bad solution"). The returned gains are the worsened estimate
	// as-is; there is no rollback to a previous best.
	StatusDiverged
	// StatusMaxIter: the iteration cap was reached before convergence.
	// The gains reached at the cap are still returned.
	StatusMaxIter
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusDiverged:
		return "diverged"
	case StatusMaxIter:
		return "max-iterations"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Config holds the solver parameters.
//
// Zero values for MinDeltaG, ChiTol and ChiInterval are replaced by the
// defaults. MaxIter is used as given: a MaxIter of zero still executes
// exactly one iteration and then stops with StatusMaxIter, because the
// cap is only tested after an iteration completes.
type Config struct {
	MinDeltaG   float64      // Gain-change convergence threshold (default: 1e-3)
	MaxIter     int          // Iteration cap (default via DefaultConfig: 30)
	ChiTol      float64      // Chi-squared improvement threshold (default: 1e-6)
	ChiInterval int          // Iterations between chi-squared checks (default: 5)
	Logger      *slog.Logger // Diagnostics sink (default: slog.Default())
}

// DefaultConfig returns the standard solver parameters.
func DefaultConfig() Config {
	return Config{
		MinDeltaG:   1e-3,
		MaxIter:     30,
		ChiTol:      1e-6,
		ChiInterval: 5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinDeltaG == 0 {
		c.MinDeltaG = d.MinDeltaG
	}
	if c.ChiTol == 0 {
		c.ChiTol = d.ChiTol
	}
	if c.ChiInterval == 0 {
		c.ChiInterval = d.ChiInterval
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Result holds the outcome of a solve.
type Result struct {
	Gains      *cube.GainCube // Final per-antenna gain estimates
	Status     Status         // Terminal state
	Iterations int            // Iterations executed
	Chi        float64        // Chi-squared at the last checkpoint (+Inf if never checked)
	DeltaG     float64        // Last gain-change norm (0 if never computed)
}

// relaxationFactor returns the fixed under-relaxation schedule of the
// phase-only recursion: 0.5 on 0-indexed even iterations, 1.0 on odd.
func relaxationFactor(iter int) float64 {
	if iter%2 == 0 {
		return 0.5
	}
	return 1
}

// Solve runs the phase-only GN/LM iteration until convergence, divergence or
// the iteration cap, and returns the gain estimates reached.
//
// The phase state starts at zero (identity gains), the normalisation blocks
// are computed once up front, and every iteration accumulates a relaxed
// update into the phases before rebuilding the diagonal gains. At least one
// iteration always executes: the gain-change test only runs at the bottom of
// the loop.
//
// Chi-squared starts at +Inf, so the first checkpoint can neither converge
// nor diverge; divergence is only detectable from the second checkpoint on.
// Changing that would alter convergence behaviour on real data.
func Solve(obs, model *cube.VisCube, cfg Config) (*Result, error) {
	if obs == nil || model == nil {
		return nil, errors.New("solver: nil input cube")
	}
	if !obs.SameShape(model) {
		return nil, fmt.Errorf("solver: observed %v/%d antennas, model %v/%d antennas: %w",
			obs.Batch(), obs.NAnt(), model.Batch(), model.NAnt(), ErrShapeMismatch)
	}
	cfg = cfg.withDefaults()

	nant := obs.NAnt()
	phases := cube.NewPhaseCube(obs.Batch(), nant)
	gains := cube.NewGainCube(obs.Batch(), nant)

	jhjinv := ComputeJHJInv(model)
	chi := math.Inf(1)
	deltaG := 0.0
	iters := 0

	for {
		fact := relaxationFactor(iters)
		upd := ComputeUpdate(obs, model, gains, jhjinv)
		phases.AddScaled(upd, fact)

		prev := gains.Clone()
		gains.SetFromPhases(phases)
		iters++

		if iters > cfg.MaxIter {
			return &Result{Gains: gains, Status: StatusMaxIter, Iterations: iters, Chi: chi, DeltaG: deltaG}, nil
		}

		if iters%cfg.ChiInterval == 0 {
			oldChi := chi
			chi = ComputeResidual(obs, model, gains).FrobNorm()
			cfg.Logger.Debug("chi-squared checkpoint", "iteration", iters, "chi", chi, "old_chi", oldChi)
			if oldChi < chi {
				cfg.Logger.Warn("bad solution: chi-squared increased between checks",
					"iteration", iters, "chi", chi, "old_chi", oldChi)
				return &Result{Gains: gains, Status: StatusDiverged, Iterations: iters, Chi: chi, DeltaG: deltaG}, nil
			}
			if oldChi-chi < cfg.ChiTol {
				return &Result{Gains: gains, Status: StatusConverged, Iterations: iters, Chi: chi, DeltaG: deltaG}, nil
			}
		}

		deltaG = prev.DiffNorm(gains)
		if deltaG <= cfg.MinDeltaG {
			return &Result{Gains: gains, Status: StatusConverged, Iterations: iters, Chi: chi, DeltaG: deltaG}, nil
		}
	}
}
