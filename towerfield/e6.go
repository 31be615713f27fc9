package towerfield

import "github.com/nume-crypto/isogs/schemeerr"

// CubicHandle carries the Fq2 handle underlying Fq6 = Fq2[v]/(v^3-xi).
// xi is typically 1+u, in which case MulXi on Fq2 computes multiplication
// by xi directly (spec §4.C).
type CubicHandle struct {
	Base *QuadraticHandle
}

func NewCubicHandle(base *QuadraticHandle) *CubicHandle { return &CubicHandle{Base: base} }

// E6 represents a + b*v + c*v^2 in Fq6.
type E6 struct {
	H          *CubicHandle
	A, B, C *E2
}

func (h *CubicHandle) Zero() *E6 {
	return &E6{H: h, A: h.Base.Zero(), B: h.Base.Zero(), C: h.Base.Zero()}
}
func (h *CubicHandle) One() *E6 {
	return &E6{H: h, A: h.Base.One(), B: h.Base.Zero(), C: h.Base.Zero()}
}

func NewE6(h *CubicHandle, a, b, c *E2) *E6 { return &E6{H: h, A: a, B: b, C: c} }

func (e *E6) Clone() *E6 {
	return &E6{H: e.H, A: e.A.Clone(), B: e.B.Clone(), C: e.C.Clone()}
}

func (e *E6) IsZero() bool { return e.A.IsZero() && e.B.IsZero() && e.C.IsZero() }

func (e *E6) Equal(o *E6) bool { return e.A.Equal(o.A) && e.B.Equal(o.B) && e.C.Equal(o.C) }

func (e *E6) Add(o *E6) (*E6, error) {
	a, err := e.A.Add(o.A)
	if err != nil {
		return nil, err
	}
	b, err := e.B.Add(o.B)
	if err != nil {
		return nil, err
	}
	c, err := e.C.Add(o.C)
	if err != nil {
		return nil, err
	}
	return &E6{H: e.H, A: a, B: b, C: c}, nil
}

func (e *E6) Sub(o *E6) (*E6, error) {
	a, err := e.A.Sub(o.A)
	if err != nil {
		return nil, err
	}
	b, err := e.B.Sub(o.B)
	if err != nil {
		return nil, err
	}
	c, err := e.C.Sub(o.C)
	if err != nil {
		return nil, err
	}
	return &E6{H: e.H, A: a, B: b, C: c}, nil
}

func (e *E6) Neg() (*E6, error) {
	a, err := e.A.Neg()
	if err != nil {
		return nil, err
	}
	b, err := e.B.Neg()
	if err != nil {
		return nil, err
	}
	c, err := e.C.Neg()
	if err != nil {
		return nil, err
	}
	return &E6{H: e.H, A: a, B: b, C: c}, nil
}

// MulTau multiplies e by v (cyclic shift with one MulXi on the wrapped
// coordinate): (a,b,c)*v = (xi*c, a, b).
func (e *E6) MulTau() (*E6, error) {
	xic, err := e.C.MulXi()
	if err != nil {
		return nil, err
	}
	return &E6{H: e.H, A: xic, B: e.A.Clone(), C: e.B.Clone()}, nil
}

// Mul implements the Karatsuba-like three-Fq2-multiplication identity of
// spec §4.C: three multiplications of component pairs, plus combination
// multiplications, with mulXi applied on the v^3 = xi reduction.
func (e *E6) Mul(o *E6) (*E6, error) {
	v0, err := e.A.Mul(o.A)
	if err != nil {
		return nil, err
	}
	v1, err := e.B.Mul(o.B)
	if err != nil {
		return nil, err
	}
	v2, err := e.C.Mul(o.C)
	if err != nil {
		return nil, err
	}

	// t0 = (b+c)(b'+c') - v1 - v2, then *xi, + v0
	bc, err := e.B.Add(e.C)
	if err != nil {
		return nil, err
	}
	bc2, err := o.B.Add(o.C)
	if err != nil {
		return nil, err
	}
	t0, err := bc.Mul(bc2)
	if err != nil {
		return nil, err
	}
	t0, err = t0.Sub(v1)
	if err != nil {
		return nil, err
	}
	t0, err = t0.Sub(v2)
	if err != nil {
		return nil, err
	}
	t0, err = t0.MulXi()
	if err != nil {
		return nil, err
	}
	r0, err := t0.Add(v0)
	if err != nil {
		return nil, err
	}

	// t1 = (a+b)(a'+b') - v0 - v1 + xi*v2
	ab, err := e.A.Add(e.B)
	if err != nil {
		return nil, err
	}
	ab2, err := o.A.Add(o.B)
	if err != nil {
		return nil, err
	}
	t1, err := ab.Mul(ab2)
	if err != nil {
		return nil, err
	}
	t1, err = t1.Sub(v0)
	if err != nil {
		return nil, err
	}
	t1, err = t1.Sub(v1)
	if err != nil {
		return nil, err
	}
	xiV2, err := v2.MulXi()
	if err != nil {
		return nil, err
	}
	r1, err := t1.Add(xiV2)
	if err != nil {
		return nil, err
	}

	// t2 = (a+c)(a'+c') - v0 - v2 + v1
	ac, err := e.A.Add(e.C)
	if err != nil {
		return nil, err
	}
	ac2, err := o.A.Add(o.C)
	if err != nil {
		return nil, err
	}
	t2, err := ac.Mul(ac2)
	if err != nil {
		return nil, err
	}
	t2, err = t2.Sub(v0)
	if err != nil {
		return nil, err
	}
	t2, err = t2.Sub(v2)
	if err != nil {
		return nil, err
	}
	r2, err := t2.Add(v1)
	if err != nil {
		return nil, err
	}

	return &E6{H: e.H, A: r0, B: r1, C: r2}, nil
}

// MulByE2 multiplies every coordinate by an Fq2 scalar, used by the
// sparse line-evaluation multiplications in the pairing.
func (e *E6) MulByE2(s *E2) (*E6, error) {
	a, err := e.A.Mul(s)
	if err != nil {
		return nil, err
	}
	b, err := e.B.Mul(s)
	if err != nil {
		return nil, err
	}
	c, err := e.C.Mul(s)
	if err != nil {
		return nil, err
	}
	return &E6{H: e.H, A: a, B: b, C: c}, nil
}

// Square returns e*e via the general Mul.
func (e *E6) Square() (*E6, error) { return e.Mul(e) }

// Invert computes e^-1 = (t0 + t1 v + t2 v^2) * N^-1 where
//
//	t0 = a^2 - xi*b*c
//	t1 = xi*c^2 - a*b
//	t2 = b^2 - a*c
//	N  = a*t0 + xi*b*t2 + xi*c*t1
//
// the classic Fq6 inversion formula over v^3 = xi: e*(t0+t1 v+t2 v^2)
// collapses the v and v^2 coefficients to zero by construction, leaving
// the scalar N.
func (e *E6) Invert() (*E6, error) {
	if e.IsZero() {
		return nil, schemeerr.Arithmeticf("towerfield.E6.Invert", "zero has no inverse")
	}
	a2, err := e.A.Square()
	if err != nil {
		return nil, err
	}
	b2, err := e.B.Square()
	if err != nil {
		return nil, err
	}
	c2, err := e.C.Square()
	if err != nil {
		return nil, err
	}
	bc, err := e.B.Mul(e.C)
	if err != nil {
		return nil, err
	}
	ac, err := e.A.Mul(e.C)
	if err != nil {
		return nil, err
	}
	ab, err := e.A.Mul(e.B)
	if err != nil {
		return nil, err
	}

	xiBC, err := bc.MulXi()
	if err != nil {
		return nil, err
	}
	t0, err := a2.Sub(xiBC)
	if err != nil {
		return nil, err
	}

	xiC2, err := c2.MulXi()
	if err != nil {
		return nil, err
	}
	t1, err := xiC2.Sub(ab)
	if err != nil {
		return nil, err
	}

	t2, err := b2.Sub(ac)
	if err != nil {
		return nil, err
	}

	at0, err := e.A.Mul(t0)
	if err != nil {
		return nil, err
	}
	bt2, err := e.B.Mul(t2)
	if err != nil {
		return nil, err
	}
	xiBt2, err := bt2.MulXi()
	if err != nil {
		return nil, err
	}
	ct1, err := e.C.Mul(t1)
	if err != nil {
		return nil, err
	}
	xiCt1, err := ct1.MulXi()
	if err != nil {
		return nil, err
	}

	norm, err := at0.Add(xiBt2)
	if err != nil {
		return nil, err
	}
	norm, err = norm.Add(xiCt1)
	if err != nil {
		return nil, err
	}
	normInv, err := norm.Invert()
	if err != nil {
		return nil, err
	}

	ra, err := t0.Mul(normInv)
	if err != nil {
		return nil, err
	}
	rb, err := t1.Mul(normInv)
	if err != nil {
		return nil, err
	}
	rc, err := t2.Mul(normInv)
	if err != nil {
		return nil, err
	}
	return &E6{H: e.H, A: ra, B: rb, C: rc}, nil
}
