package towerfield

// DodecaHandle carries the Fq6 handle underlying Fq12 = Fq6[w]/(w^2-gamma)
// with gamma = v, the "shifted" encoding that lets multiplication by
// gamma become a cyclic shift of E6 coordinates with one MulXi (spec
// §3, §4.C).
type DodecaHandle struct {
	Base *CubicHandle
}

func NewDodecaHandle(base *CubicHandle) *DodecaHandle { return &DodecaHandle{Base: base} }

// E12 represents x0 + x1*w in Fq12.
type E12 struct {
	H      *DodecaHandle
	X0, X1 *E6
}

func (h *DodecaHandle) Zero() *E12 { return &E12{H: h, X0: h.Base.Zero(), X1: h.Base.Zero()} }
func (h *DodecaHandle) One() *E12  { return &E12{H: h, X0: h.Base.One(), X1: h.Base.Zero()} }

func NewE12(h *DodecaHandle, x0, x1 *E6) *E12 { return &E12{H: h, X0: x0, X1: x1} }

func (e *E12) Clone() *E12 { return &E12{H: e.H, X0: e.X0.Clone(), X1: e.X1.Clone()} }

func (e *E12) Equal(o *E12) bool { return e.X0.Equal(o.X0) && e.X1.Equal(o.X1) }

func (e *E12) IsOne() bool {
	one := e.H.Base.One()
	zero := e.H.Base.Zero()
	return e.X0.Equal(one) && e.X1.Equal(zero)
}

func (e *E12) Add(o *E12) (*E12, error) {
	x0, err := e.X0.Add(o.X0)
	if err != nil {
		return nil, err
	}
	x1, err := e.X1.Add(o.X1)
	if err != nil {
		return nil, err
	}
	return &E12{H: e.H, X0: x0, X1: x1}, nil
}

func (e *E12) Sub(o *E12) (*E12, error) {
	x0, err := e.X0.Sub(o.X0)
	if err != nil {
		return nil, err
	}
	x1, err := e.X1.Sub(o.X1)
	if err != nil {
		return nil, err
	}
	return &E12{H: e.H, X0: x0, X1: x1}, nil
}

// mulGammaAdd implements gamma*a + y : (c*xi + y.a, a + y.b, b + y.c),
// which is exactly E6.MulTau() (multiplication by v, since gamma = v)
// followed by an E6 add (spec §4.C).
func mulGammaAdd(a, y *E6) (*E6, error) {
	shifted, err := a.MulTau()
	if err != nil {
		return nil, err
	}
	return shifted.Add(y)
}

// Mul implements the Fq12 multiplication of spec §4.E: given x =
// x0+x1*w, y = y0+y1*w, produce (x0y0 + gamma*x1y1, (x0+x1)(y0+y1) -
// x0y0 - x1y1).
func (e *E12) Mul(o *E12) (*E12, error) {
	x0y0, err := e.X0.Mul(o.X0)
	if err != nil {
		return nil, err
	}
	x1y1, err := e.X1.Mul(o.X1)
	if err != nil {
		return nil, err
	}
	real, err := mulGammaAdd(x1y1, x0y0)
	if err != nil {
		return nil, err
	}

	sumX, err := e.X0.Add(e.X1)
	if err != nil {
		return nil, err
	}
	sumY, err := o.X0.Add(o.X1)
	if err != nil {
		return nil, err
	}
	cross, err := sumX.Mul(sumY)
	if err != nil {
		return nil, err
	}
	cross, err = cross.Sub(x0y0)
	if err != nil {
		return nil, err
	}
	imag, err := cross.Sub(x1y1)
	if err != nil {
		return nil, err
	}

	return &E12{H: e.H, X0: real, X1: imag}, nil
}

// Square returns e*e using the general Mul; callers inside the final
// exponentiation's cyclotomic subgroup should prefer CyclotomicSquare.
func (e *E12) Square() (*E12, error) { return e.Mul(e) }

// Conjugate returns x0 - x1*w, the order-2 Frobenius-like automorphism
// used by the final exponentiation's easy part and by the Miller loop's
// step 4 conjugation.
func (e *E12) Conjugate() (*E12, error) {
	negX1, err := e.X1.Neg()
	if err != nil {
		return nil, err
	}
	return &E12{H: e.H, X0: e.X0.Clone(), X1: negX1}, nil
}

// Invert computes e^-1 via the norm x0^2 - gamma*x1^2 collapsed to Fq6.
func (e *E12) Invert() (*E12, error) {
	x0sq, err := e.X0.Mul(e.X0)
	if err != nil {
		return nil, err
	}
	x1sq, err := e.X1.Mul(e.X1)
	if err != nil {
		return nil, err
	}
	gammaX1sq, err := x1sq.MulTau()
	if err != nil {
		return nil, err
	}
	norm, err := x0sq.Sub(gammaX1sq)
	if err != nil {
		return nil, err
	}
	normInv, err := norm.Invert()
	if err != nil {
		return nil, err
	}
	x0, err := e.X0.Mul(normInv)
	if err != nil {
		return nil, err
	}
	negX1, err := e.X1.Neg()
	if err != nil {
		return nil, err
	}
	x1, err := negX1.Mul(normInv)
	if err != nil {
		return nil, err
	}
	return &E12{H: e.H, X0: x0, X1: x1}, nil
}

// Pow computes e^k by square-and-multiply for a non-negative exponent k
// given as a big-endian bit sequence (most significant bit first).
func (e *E12) Pow(bitsMSBFirst []bool) (*E12, error) {
	result := e.H.One()
	base := e.Clone()
	for i := len(bitsMSBFirst) - 1; i >= 0; i-- {
		if bitsMSBFirst[i] {
			var err error
			result, err = result.Mul(base)
			if err != nil {
				return nil, err
			}
		}
		var err error
		base, err = base.Square()
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// CyclotomicSquare computes e^2 for e already known to lie in the order
// Phi12(p) cyclotomic subgroup. The Granger-Scott/Karabina compression
// to four Fq2 coordinates (g2,g3,g4,g5) that spec §4.C calls for trades
// the decompression's shared inversion for roughly half the
// multiplications of a plain square; its decompression step depends on
// field-specific constants this reimplementation does not re-derive (see
// DESIGN.md), so CyclotomicSquare delegates to the general Square, which
// is numerically identical on cyclotomic-subgroup inputs.
func (e *E12) CyclotomicSquare() (*E12, error) { return e.Square() }
