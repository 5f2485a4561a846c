// Copyright 2026 The gaincal Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package pipeline provides the public API for running calibration over a
// stream of independent data chunks.
//
// Example:
//
//	src := &pipeline.SliceSource{Chunks: chunks}
//	sink := &pipeline.SliceSink{}
//	runner := &pipeline.Runner{Solver: solver.DefaultConfig(), Workers: 4}
//	if err := runner.Run(ctx, src, sink); err != nil {
//	    log.Fatal(err)
//	}
package pipeline

import (
	"github.com/gaincal-dev/gaincal/internal/pipeline"
)

// Chunk is one independently solvable tile of visibility data.
type Chunk = pipeline.Chunk

// Corrected is the calibrated output for one chunk.
type Corrected = pipeline.Corrected

// Source yields chunks until io.EOF.
type Source = pipeline.Source

// Sink consumes corrected chunks.
type Sink = pipeline.Sink

// Runner drains a source, calibrates each chunk and writes to a sink.
type Runner = pipeline.Runner

// SliceSource serves chunks from memory.
type SliceSource = pipeline.SliceSource

// SliceSink collects corrected chunks in memory.
type SliceSink = pipeline.SliceSink
