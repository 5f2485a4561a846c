package cube

import (
	"math/cmplx"
	"testing"
)

func assertMatNear(t *testing.T, want, got Mat2, tol float64, msg string) {
	t.Helper()
	for i := range want {
		if cmplx.Abs(want[i]-got[i]) > tol {
			t.Errorf("%s: entry %d: want %v, got %v", msg, i, want[i], got[i])
		}
	}
}

func TestMat2Mul(t *testing.T) {
	a := Mat2{1 + 1i, 2, 0, 3 - 1i}
	b := Mat2{2, 1i, 1, 0}

	// Hand-computed: row 0 = [(1+i)*2+2*1, (1+i)*i], row 1 = [3-i, 0]
	want := Mat2{4 + 2i, -1 + 1i, 3 - 1i, 0}
	assertMatNear(t, want, a.Mul(b), 1e-15, "Mul")
}

func TestMat2MulIdentity(t *testing.T) {
	a := Mat2{1 + 2i, 3, -1i, 2 - 1i}
	assertMatNear(t, a, a.Mul(Identity2()), 0, "a*I")
	assertMatNear(t, a, Identity2().Mul(a), 0, "I*a")
}

func TestMat2ConjT(t *testing.T) {
	a := Mat2{1 + 1i, 2 - 1i, 3i, 4}
	want := Mat2{1 - 1i, -3i, 2 + 1i, 4}
	assertMatNear(t, want, a.ConjT(), 0, "ConjT")

	// (aᴴ)ᴴ == a
	assertMatNear(t, a, a.ConjT().ConjT(), 0, "double ConjT")
}

func TestMat2MulH(t *testing.T) {
	a := Mat2{1, 2, 3, 4}
	b := Mat2{1i, 0, 0, -2i}
	// a * bᴴ where bᴴ = [[-i, 0], [0, 2i]]
	want := Mat2{-1i, 4i, -3i, 8i}
	assertMatNear(t, want, a.MulH(b), 1e-15, "MulH")
}

func TestMat2Det(t *testing.T) {
	a := Mat2{1 + 1i, 2, 3, 4}
	want := (1+1i)*4 - complex128(2*3)
	if a.Det() != want {
		t.Errorf("Det: want %v, got %v", want, a.Det())
	}
}

func TestMat2Inv(t *testing.T) {
	// Diagonal phase gain: inverse must be the conjugate phase.
	g := Mat2{cmplx.Exp(complex(0, -0.7)), 0, 0, cmplx.Exp(complex(0, 0.3))}
	assertMatNear(t, Identity2(), g.Mul(g.Inv()), 1e-15, "g*g^-1")
	assertMatNear(t, Identity2(), g.Inv().Mul(g), 1e-15, "g^-1*g")

	// A full (non-diagonal) matrix still inverts in closed form.
	a := Mat2{1 + 1i, 2, -1i, 3}
	assertMatNear(t, Identity2(), a.Mul(a.Inv()), 1e-14, "a*a^-1")
}

func TestMat2AbsSq(t *testing.T) {
	a := Mat2{3 + 4i, 1i, -2, 0}
	got := a.AbsSq()
	want := [4]float64{25, 1, 4, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AbsSq[%d]: want %v, got %v", i, want[i], got[i])
		}
	}
}
