// Package cube provides the batched tensor-algebra primitives for gain
// calibration: fixed-size 2x2 complex matrices over arbitrary batch axes,
// stored as flat slices with explicit offset arithmetic.
package cube

import (
	"fmt"
	"math"
	"math/cmplx"
)

// VisCube stores one visibility matrix per antenna pair per batch cell.
// Logical shape: [batch..., nant, nant, 2, 2], complex128, row-major.
// Autocorrelation entries (p == q) are not calibrated; callers conventionally
// leave them zero.
type VisCube struct {
	batch Shape
	nant  int
	data  []complex128
}

// NewVisCube creates a zero-filled visibility cube.
func NewVisCube(batch Shape, nant int) (*VisCube, error) {
	if err := batch.Validate(); err != nil {
		return nil, fmt.Errorf("cube: invalid batch shape %v: %w", batch, err)
	}
	if nant < 2 {
		return nil, fmt.Errorf("cube: need at least 2 antennas, got %d", nant)
	}
	return &VisCube{
		batch: batch.Clone(),
		nant:  nant,
		data:  make([]complex128, batch.NumElements()*nant*nant*4),
	}, nil
}

// Batch returns the batch shape.
func (v *VisCube) Batch() Shape { return v.batch }

// NAnt returns the antenna count.
func (v *VisCube) NAnt() int { return v.nant }

// Cells returns the number of batch cells.
func (v *VisCube) Cells() int { return v.batch.NumElements() }

// Data returns the flat backing slice. Modifications write through.
func (v *VisCube) Data() []complex128 { return v.data }

// Mat returns the 2x2 matrix for batch cell, antenna pair (p, q).
func (v *VisCube) Mat(cell, p, q int) Mat2 {
	off := ((cell*v.nant+p)*v.nant + q) * 4
	return Mat2{v.data[off], v.data[off+1], v.data[off+2], v.data[off+3]}
}

// SetMat stores the 2x2 matrix for batch cell, antenna pair (p, q).
func (v *VisCube) SetMat(cell, p, q int, m Mat2) {
	off := ((cell*v.nant+p)*v.nant + q) * 4
	v.data[off], v.data[off+1], v.data[off+2], v.data[off+3] = m[0], m[1], m[2], m[3]
}

// SameShape reports whether o has the same batch shape and antenna count.
func (v *VisCube) SameShape(o *VisCube) bool {
	return v.nant == o.nant && v.batch.Equal(o.batch)
}

// Clone returns a deep copy.
func (v *VisCube) Clone() *VisCube {
	c := &VisCube{batch: v.batch.Clone(), nant: v.nant, data: make([]complex128, len(v.data))}
	copy(c.data, v.data)
	return c
}

// FrobNorm returns the Frobenius norm over every entry of the cube:
// sqrt of the summed squared magnitudes.
func (v *VisCube) FrobNorm() float64 {
	var s float64
	for _, z := range v.data {
		s += real(z)*real(z) + imag(z)*imag(z)
	}
	return math.Sqrt(s)
}

// GainCube stores one Jones matrix per antenna per batch cell.
// Logical shape: [batch..., nant, 2, 2], complex128, row-major.
type GainCube struct {
	batch Shape
	nant  int
	data  []complex128
}

// NewGainCube creates a gain cube initialised to identity matrices
// (the zero-phase starting point of a solve).
func NewGainCube(batch Shape, nant int) *GainCube {
	g := &GainCube{
		batch: batch.Clone(),
		nant:  nant,
		data:  make([]complex128, batch.NumElements()*nant*4),
	}
	for i := 0; i < len(g.data); i += 4 {
		g.data[i] = 1
		g.data[i+3] = 1
	}
	return g
}

// Batch returns the batch shape.
func (g *GainCube) Batch() Shape { return g.batch }

// NAnt returns the antenna count.
func (g *GainCube) NAnt() int { return g.nant }

// Cells returns the number of batch cells.
func (g *GainCube) Cells() int { return g.batch.NumElements() }

// Mat returns the Jones matrix for batch cell and antenna p.
func (g *GainCube) Mat(cell, p int) Mat2 {
	off := (cell*g.nant + p) * 4
	return Mat2{g.data[off], g.data[off+1], g.data[off+2], g.data[off+3]}
}

// SetMat stores the Jones matrix for batch cell and antenna p.
func (g *GainCube) SetMat(cell, p int, m Mat2) {
	off := (cell*g.nant + p) * 4
	g.data[off], g.data[off+1], g.data[off+2], g.data[off+3] = m[0], m[1], m[2], m[3]
}

// Clone returns a deep copy.
func (g *GainCube) Clone() *GainCube {
	c := &GainCube{batch: g.batch.Clone(), nant: g.nant, data: make([]complex128, len(g.data))}
	copy(c.data, g.data)
	return c
}

// SetFromPhases rebuilds every gain as diag(exp(-i*phi0), exp(-i*phi1)) from
// the accumulated phase state. Off-diagonal entries are forced to exactly
// zero on every call, keeping the phase-only structure an invariant.
func (g *GainCube) SetFromPhases(ph *PhaseCube) {
	cells := g.Cells()
	for cell := 0; cell < cells; cell++ {
		for p := 0; p < g.nant; p++ {
			off := (cell*g.nant + p) * 4
			g.data[off] = cmplx.Exp(complex(0, -ph.At(cell, p, 0)))
			g.data[off+1] = 0
			g.data[off+2] = 0
			g.data[off+3] = cmplx.Exp(complex(0, -ph.At(cell, p, 1)))
		}
	}
}

// DiffNorm returns the Frobenius norm of g - o over every entry. Used for
// the per-iteration gain-change convergence test.
func (g *GainCube) DiffNorm(o *GainCube) float64 {
	var s float64
	for i := range g.data {
		d := g.data[i] - o.data[i]
		s += real(d)*real(d) + imag(d)*imag(d)
	}
	return math.Sqrt(s)
}

// PhaseCube stores the optimisation variables: two real phase slots per
// antenna per batch cell, one per polarisation feed.
// Logical shape: [batch..., nant, 2], float64.
type PhaseCube struct {
	batch Shape
	nant  int
	data  []float64
}

// NewPhaseCube creates a zero-filled phase cube.
func NewPhaseCube(batch Shape, nant int) *PhaseCube {
	return &PhaseCube{
		batch: batch.Clone(),
		nant:  nant,
		data:  make([]float64, batch.NumElements()*nant*2),
	}
}

// Batch returns the batch shape.
func (ph *PhaseCube) Batch() Shape { return ph.batch }

// NAnt returns the antenna count.
func (ph *PhaseCube) NAnt() int { return ph.nant }

// Cells returns the number of batch cells.
func (ph *PhaseCube) Cells() int { return ph.batch.NumElements() }

// At returns the phase for batch cell, antenna p, feed slot (0 or 1).
func (ph *PhaseCube) At(cell, p, slot int) float64 {
	return ph.data[(cell*ph.nant+p)*2+slot]
}

// Set stores the phase for batch cell, antenna p, feed slot.
func (ph *PhaseCube) Set(cell, p, slot int, v float64) {
	ph.data[(cell*ph.nant+p)*2+slot] = v
}

// AddScaled accumulates fact*u into the phase state. Phases only ever grow
// additively during a solve.
func (ph *PhaseCube) AddScaled(u *PhaseCube, fact float64) {
	for i := range ph.data {
		ph.data[i] += fact * u.data[i]
	}
}

// NormCube stores one real 2x2 block per antenna per batch cell: the
// ((JᴴJ))⁻¹ normalisation blocks. The off-diagonal entries are structurally
// zero for the phase-only parametrisation but are stored so the block keeps
// the full 2x2 contraction semantics.
// Logical shape: [batch..., nant, 2, 2], float64, row-major.
type NormCube struct {
	batch Shape
	nant  int
	data  []float64
}

// NewNormCube creates a zero-filled normalisation cube.
func NewNormCube(batch Shape, nant int) *NormCube {
	return &NormCube{
		batch: batch.Clone(),
		nant:  nant,
		data:  make([]float64, batch.NumElements()*nant*4),
	}
}

// Block returns the real 2x2 block for batch cell and antenna p,
// row-major [b00, b01, b10, b11].
func (n *NormCube) Block(cell, p int) [4]float64 {
	off := (cell*n.nant + p) * 4
	return [4]float64{n.data[off], n.data[off+1], n.data[off+2], n.data[off+3]}
}

// SetBlock stores the real 2x2 block for batch cell and antenna p.
func (n *NormCube) SetBlock(cell, p int, b [4]float64) {
	off := (cell*n.nant + p) * 4
	n.data[off], n.data[off+1], n.data[off+2], n.data[off+3] = b[0], b[1], b[2], b[3]
}
