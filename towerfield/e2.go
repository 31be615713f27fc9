// Package towerfield implements the Fq2/Fq6/Fq12 tower extension described
// in spec §4.C: Fq2 = Fq[u]/(u^2-beta), Fq6 = Fq2[v]/(v^3-xi), Fq12 =
// Fq6[w]/(w^2-gamma) with gamma = v under the "shifted" encoding that
// turns multiplication by gamma into a cyclic shift of E6 coordinates.
//
// The mulXi/mulGamma shortcuts and the Karatsuba-style multiplications are
// load-bearing for the pairing in spec §4.E and are preserved verbatim in
// semantics, per the spec's explicit instruction.
package towerfield

import (
	"github.com/nume-crypto/isogs/field"
	"github.com/nume-crypto/isogs/schemeerr"
)

// QuadraticHandle carries the base field and the non-residue beta with
// u^2 = beta.
type QuadraticHandle struct {
	Base *field.Handle
	Beta *field.Element
}

// NewQuadraticHandle builds a Fq2 handle. beta must be a non-quadratic
// residue of base for Fq2 to be a field.
func NewQuadraticHandle(base *field.Handle, beta *field.Element) *QuadraticHandle {
	return &QuadraticHandle{Base: base, Beta: beta}
}

// E2 represents a + b*u in Fq2.
type E2 struct {
	H    *QuadraticHandle
	A, B *field.Element
}

func (h *QuadraticHandle) Zero() *E2 { return &E2{H: h, A: h.Base.Zero(), B: h.Base.Zero()} }
func (h *QuadraticHandle) One() *E2  { return &E2{H: h, A: h.Base.One(), B: h.Base.Zero()} }

// NewE2 builds a + b*u.
func NewE2(h *QuadraticHandle, a, b *field.Element) *E2 { return &E2{H: h, A: a, B: b} }

func (e *E2) Clone() *E2 { return &E2{H: e.H, A: e.A.Clone(), B: e.B.Clone()} }

func (e *E2) IsZero() bool { return e.A.IsZero() && e.B.IsZero() }

func (e *E2) Equal(o *E2) bool { return e.A.Equal(o.A) && e.B.Equal(o.B) }

func (e *E2) Add(o *E2) (*E2, error) {
	a, err := e.A.Add(o.A)
	if err != nil {
		return nil, err
	}
	b, err := e.B.Add(o.B)
	if err != nil {
		return nil, err
	}
	return &E2{H: e.H, A: a, B: b}, nil
}

func (e *E2) Sub(o *E2) (*E2, error) {
	a, err := e.A.Sub(o.A)
	if err != nil {
		return nil, err
	}
	b, err := e.B.Sub(o.B)
	if err != nil {
		return nil, err
	}
	return &E2{H: e.H, A: a, B: b}, nil
}

// Neg returns -e.
func (e *E2) Neg() (*E2, error) {
	a, err := e.A.Negate()
	if err != nil {
		return nil, err
	}
	b, err := e.B.Negate()
	if err != nil {
		return nil, err
	}
	return &E2{H: e.H, A: a, B: b}, nil
}

// Conjugate returns a - b*u, the Frobenius over Fq2/Fq.
func (e *E2) Conjugate() (*E2, error) {
	b, err := e.B.Negate()
	if err != nil {
		return nil, err
	}
	return &E2{H: e.H, A: e.A.Clone(), B: b}, nil
}

// MulXi computes e*(1+u) = (a-b, a+b), the shortcut of spec §4.C used
// whenever beta = -1 and xi = 1+u. The formula does not read the
// handle's beta: it assumes beta = -1, and for any other beta the real
// part of e*(1+u) would be a+beta*b rather than a-b.
func (e *E2) MulXi() (*E2, error) {
	a, err := e.A.Sub(e.B)
	if err != nil {
		return nil, err
	}
	b, err := e.A.Add(e.B)
	if err != nil {
		return nil, err
	}
	return &E2{H: e.H, A: a, B: b}, nil
}

// Mul implements the one-Karatsuba-trick multiplication of spec §4.C:
// three Fq multiplications, several adds, and one mulBeta at the end
// (mulBeta generalizes mulXi for the coordinate field's own non-residue).
func (e *E2) Mul(o *E2) (*E2, error) {
	a0b0, err := e.A.Mul(o.A)
	if err != nil {
		return nil, err
	}
	a1b1, err := e.B.Mul(o.B)
	if err != nil {
		return nil, err
	}
	betaA1B1, err := e.H.Beta.Mul(a1b1)
	if err != nil {
		return nil, err
	}
	realPart, err := a0b0.Add(betaA1B1)
	if err != nil {
		return nil, err
	}

	sumA, err := e.A.Add(e.B)
	if err != nil {
		return nil, err
	}
	sumB, err := o.A.Add(o.B)
	if err != nil {
		return nil, err
	}
	crossTotal, err := sumA.Mul(sumB)
	if err != nil {
		return nil, err
	}
	crossTotal, err = crossTotal.Sub(a0b0)
	if err != nil {
		return nil, err
	}
	imagPart, err := crossTotal.Sub(a1b1)
	if err != nil {
		return nil, err
	}

	return &E2{H: e.H, A: realPart, B: imagPart}, nil
}

// Square returns e*e using the standard complex-squaring identity:
// (a+bu)^2 = (a^2+beta*b^2) + (2ab)u.
func (e *E2) Square() (*E2, error) {
	a2, err := e.A.Square()
	if err != nil {
		return nil, err
	}
	b2, err := e.B.Square()
	if err != nil {
		return nil, err
	}
	betaB2, err := e.H.Beta.Mul(b2)
	if err != nil {
		return nil, err
	}
	real, err := a2.Add(betaB2)
	if err != nil {
		return nil, err
	}
	ab, err := e.A.Mul(e.B)
	if err != nil {
		return nil, err
	}
	imag, err := ab.Twice()
	if err != nil {
		return nil, err
	}
	return &E2{H: e.H, A: real, B: imag}, nil
}

// norm returns a^2 - beta*b^2, the Fq-valued norm used by Invert (Sqrt
// computes the same value inline).
func (e *E2) norm() (*field.Element, error) {
	a2, err := e.A.Square()
	if err != nil {
		return nil, err
	}
	b2, err := e.B.Square()
	if err != nil {
		return nil, err
	}
	betaB2, err := e.H.Beta.Mul(b2)
	if err != nil {
		return nil, err
	}
	return a2.Sub(betaB2)
}

// Invert returns e^-1 = conj(e) / norm(e).
func (e *E2) Invert() (*E2, error) {
	if e.IsZero() {
		return nil, schemeerr.Arithmeticf("towerfield.E2.Invert", "zero has no inverse")
	}
	n, err := e.norm()
	if err != nil {
		return nil, err
	}
	nInv, err := n.Invert()
	if err != nil {
		return nil, err
	}
	a, err := e.A.Mul(nInv)
	if err != nil {
		return nil, err
	}
	negB, err := e.B.Negate()
	if err != nil {
		return nil, err
	}
	b, err := negB.Mul(nInv)
	if err != nil {
		return nil, err
	}
	return &E2{H: e.H, A: a, B: b}, nil
}

// Sqrt implements Michael Scott's method: given e = a+bu, try r = sqrt
// ((a + sqrt(a^2 - beta*b^2)) / 2); falls back to the alternative using
// a^2 + beta*b^2 when the first candidate's square doesn't match e (spec
// §4.C).
func (e *E2) Sqrt() (*E2, error) {
	if e.IsZero() {
		return e.H.Zero(), nil
	}
	a2, err := e.A.Square()
	if err != nil {
		return nil, err
	}
	b2, err := e.B.Square()
	if err != nil {
		return nil, err
	}
	betaB2, err := e.H.Beta.Mul(b2)
	if err != nil {
		return nil, err
	}

	delta1, err := a2.Sub(betaB2)
	if err != nil {
		return nil, err
	}
	if root, err := trySqrtCandidate(e, delta1); err == nil {
		return root, nil
	}

	delta2, err := a2.Add(betaB2)
	if err != nil {
		return nil, err
	}
	return trySqrtCandidate(e, delta2)
}

func trySqrtCandidate(e *E2, delta *field.Element) (*E2, error) {
	d, err := delta.Sqrt()
	if err != nil {
		return nil, err
	}
	sumA, err := e.A.Add(d)
	if err != nil {
		return nil, err
	}
	halfSum, err := sumA.DivByTwo()
	if err != nil {
		return nil, err
	}
	a0, err := halfSum.Sqrt()
	if err != nil {
		return nil, err
	}
	a0Inv, err := a0.Invert()
	if err != nil {
		return nil, err
	}
	halfB, err := e.B.DivByTwo()
	if err != nil {
		return nil, err
	}
	b0, err := halfB.Mul(a0Inv)
	if err != nil {
		return nil, err
	}
	candidate := &E2{H: e.H, A: a0, B: b0}
	sq, err := candidate.Square()
	if err != nil {
		return nil, err
	}
	if !sq.Equal(e) {
		return nil, schemeerr.Arithmeticf("towerfield.E2.Sqrt", "candidate does not square to input")
	}
	return candidate, nil
}
