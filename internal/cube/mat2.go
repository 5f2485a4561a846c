package cube

import "math/cmplx"

// Mat2 is a 2x2 complex matrix stored row-major: [m00, m01, m10, m11].
// It is the element type of every cube in this package: a visibility holds
// the four correlation products (XX, XY, YX, YY), a gain holds a per-antenna
// Jones matrix.
type Mat2 [4]complex128

// Identity2 returns the 2x2 identity matrix.
func Identity2() Mat2 {
	return Mat2{1, 0, 0, 1}
}

// Mul returns the matrix product m*n.
func (m Mat2) Mul(n Mat2) Mat2 {
	return Mat2{
		m[0]*n[0] + m[1]*n[2], m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2], m[2]*n[1] + m[3]*n[3],
	}
}

// MulH returns m*nᴴ, the product with the conjugate transpose of n.
// This is the contraction "...ij,...kj->...ik" with n conjugated.
func (m Mat2) MulH(n Mat2) Mat2 {
	return m.Mul(n.ConjT())
}

// ConjT returns the conjugate transpose mᴴ.
func (m Mat2) ConjT() Mat2 {
	return Mat2{
		cmplx.Conj(m[0]), cmplx.Conj(m[2]),
		cmplx.Conj(m[1]), cmplx.Conj(m[3]),
	}
}

// Add returns the element-wise sum m+n.
func (m Mat2) Add(n Mat2) Mat2 {
	return Mat2{m[0] + n[0], m[1] + n[1], m[2] + n[2], m[3] + n[3]}
}

// Sub returns the element-wise difference m-n.
func (m Mat2) Sub(n Mat2) Mat2 {
	return Mat2{m[0] - n[0], m[1] - n[1], m[2] - n[2], m[3] - n[3]}
}

// Det returns the determinant m00*m11 - m01*m10.
func (m Mat2) Det() complex128 {
	return m[0]*m[3] - m[1]*m[2]
}

// Inv returns the closed-form inverse: the adjugate divided by the
// determinant. The caller guarantees the matrix is nonsingular; phase-only
// gains always have |det| = 1.
func (m Mat2) Inv() Mat2 {
	d := m.Det()
	return Mat2{m[3] / d, -m[1] / d, -m[2] / d, m[0] / d}
}

// AbsSq returns the element-wise squared magnitudes |m_ij|^2.
func (m Mat2) AbsSq() [4]float64 {
	return [4]float64{
		real(m[0])*real(m[0]) + imag(m[0])*imag(m[0]),
		real(m[1])*real(m[1]) + imag(m[1])*imag(m[1]),
		real(m[2])*real(m[2]) + imag(m[2])*imag(m[2]),
		real(m[3])*real(m[3]) + imag(m[3])*imag(m[3]),
	}
}
