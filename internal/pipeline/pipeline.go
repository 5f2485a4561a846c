// Package pipeline drives calibration over a stream of data chunks: for each
// chunk it solves for gains, applies them, and hands the corrected
// visibilities to a sink. Storage formats and tiling policy live behind the
// Source and Sink contracts; this package never touches them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gaincal-dev/gaincal/internal/cube"
	"github.com/gaincal-dev/gaincal/internal/solver"
)

// Chunk is one independently solvable tile of visibility data
// (for example one time/frequency extent of a measurement set).
type Chunk struct {
	ID       string
	Observed *cube.VisCube
	Model    *cube.VisCube
}

// Corrected is the output for one chunk: the corrected visibilities plus the
// solver result so callers can branch on the solve status per chunk.
type Corrected struct {
	ID     string
	Vis    *cube.VisCube
	Result *solver.Result
}

// Source yields chunks until io.EOF.
type Source interface {
	Next(ctx context.Context) (*Chunk, error)
}

// Sink consumes corrected chunks. Write may be called from multiple
// goroutines but never concurrently; the runner serialises calls.
type Sink interface {
	Write(ctx context.Context, c Corrected) error
}

// Runner drains a source, calibrates each chunk and writes the corrected
// output to a sink.
//
// Workers <= 1 processes chunks sequentially in source order. Workers > 1
// fans solves out across goroutines; this is safe because each solve owns
// every piece of its mutable state, but sink write order then follows
// completion order.
type Runner struct {
	Solver  solver.Config
	Workers int
	Logger  *slog.Logger
}

// Run processes the whole stream. It stops at the first solver, source or
// sink error, or when ctx is cancelled between chunks. Diverged and
// capped-out solves are not errors; they flow to the sink with their status.
func (r *Runner) Run(ctx context.Context, src Source, sink Sink) error {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}
	if r.Workers <= 1 {
		return r.runSequential(ctx, src, sink, log)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)
	var mu sync.Mutex

	for {
		chunk, err := src.Next(gctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A failed worker cancels gctx, which makes the source report a
			// cancellation of its own; the worker's error is the real cause.
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return fmt.Errorf("pipeline: source: %w", err)
		}
		g.Go(func() error {
			out, err := r.calibrate(chunk, log)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return sink.Write(gctx, out)
		})
	}
	return g.Wait()
}

func (r *Runner) runSequential(ctx context.Context, src Source, sink Sink, log *slog.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("pipeline: source: %w", err)
		}
		out, err := r.calibrate(chunk, log)
		if err != nil {
			return err
		}
		if err := sink.Write(ctx, out); err != nil {
			return err
		}
	}
}

func (r *Runner) calibrate(chunk *Chunk, log *slog.Logger) (Corrected, error) {
	res, err := solver.Solve(chunk.Observed, chunk.Model, r.Solver)
	if err != nil {
		return Corrected{}, fmt.Errorf("pipeline: chunk %s: %w", chunk.ID, err)
	}
	log.Debug("chunk solved", "chunk", chunk.ID, "status", res.Status.String(), "iterations", res.Iterations)
	vis, err := solver.ApplyGains(chunk.Observed, res.Gains)
	if err != nil {
		return Corrected{}, fmt.Errorf("pipeline: chunk %s: %w", chunk.ID, err)
	}
	return Corrected{ID: chunk.ID, Vis: vis, Result: res}, nil
}

// SliceSource serves chunks from memory. Not safe for concurrent Next calls;
// the runner only ever calls Next from one goroutine.
type SliceSource struct {
	Chunks []*Chunk
	next   int
}

// Next returns the next chunk, or io.EOF when drained.
func (s *SliceSource) Next(ctx context.Context) (*Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.Chunks) {
		return nil, io.EOF
	}
	c := s.Chunks[s.next]
	s.next++
	return c, nil
}

// SliceSink collects corrected chunks in memory.
type SliceSink struct {
	mu  sync.Mutex
	Out []Corrected
}

// Write appends a corrected chunk.
func (s *SliceSink) Write(ctx context.Context, c Corrected) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Out = append(s.Out, c)
	return nil
}
