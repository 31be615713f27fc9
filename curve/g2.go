package curve

import (
	"io"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/schemeerr"
	"github.com/nume-crypto/isogs/towerfield"
)

// FieldG2 holds the twisted-curve coordinate field (Fq2), coefficients,
// order and cofactor for G2 (spec §3, §4.D).
type FieldG2 struct {
	Fq2      *towerfield.QuadraticHandle
	A, B     *towerfield.E2
	Order    *bigint.Int
	Cofactor *bigint.Int
	Mixed    bool
}

// AffineG2 is a point in affine coordinates over Fq2.
type AffineG2 struct {
	Field    *FieldG2
	X, Y     *towerfield.E2
	Infinity bool
}

// JacobianG2 is a point in Jacobian coordinates over Fq2.
type JacobianG2 struct {
	Field    *FieldG2
	X, Y, Z  *towerfield.E2
	Infinity bool
}

func (f *FieldG2) InfinityG2() *AffineG2 {
	return &AffineG2{Field: f, X: f.Fq2.Zero(), Y: f.Fq2.Zero(), Infinity: true}
}

func (f *FieldG2) InfinityJacobianG2() *JacobianG2 {
	return &JacobianG2{Field: f, X: f.Fq2.Zero(), Y: f.Fq2.Zero(), Z: f.Fq2.Zero(), Infinity: true}
}

// NewAffineG2 builds a point and checks it lies on y^2 = x^3 + ax + b
// over Fq2 (the twisted curve of spec §4.D).
func (f *FieldG2) NewAffineG2(x, y *towerfield.E2) (*AffineG2, error) {
	ok, err := f.onCurve(x, y)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, schemeerr.Validationf("curve.NewAffineG2", "point not on twisted curve")
	}
	return &AffineG2{Field: f, X: x, Y: y}, nil
}

func (f *FieldG2) onCurve(x, y *towerfield.E2) (bool, error) {
	lhs, err := y.Square()
	if err != nil {
		return false, err
	}
	x2, err := x.Square()
	if err != nil {
		return false, err
	}
	x3, err := x2.Mul(x)
	if err != nil {
		return false, err
	}
	ax, err := f.A.Mul(x)
	if err != nil {
		return false, err
	}
	rhs, err := x3.Add(ax)
	if err != nil {
		return false, err
	}
	rhs, err = rhs.Add(f.B)
	if err != nil {
		return false, err
	}
	return lhs.Equal(rhs), nil
}

func (p *AffineG2) ToJacobian() *JacobianG2 {
	if p.Infinity {
		return p.Field.InfinityJacobianG2()
	}
	return &JacobianG2{Field: p.Field, X: p.X.Clone(), Y: p.Y.Clone(), Z: p.Field.Fq2.One(), Infinity: false}
}

func (p *JacobianG2) ToAffine() (*AffineG2, error) {
	if p.Infinity || p.Z.IsZero() {
		return p.Field.InfinityG2(), nil
	}
	zInv, err := p.Z.Invert()
	if err != nil {
		return nil, err
	}
	zInv2, err := zInv.Square()
	if err != nil {
		return nil, err
	}
	zInv3, err := zInv2.Mul(zInv)
	if err != nil {
		return nil, err
	}
	x, err := p.X.Mul(zInv2)
	if err != nil {
		return nil, err
	}
	y, err := p.Y.Mul(zInv3)
	if err != nil {
		return nil, err
	}
	return &AffineG2{Field: p.Field, X: x, Y: y}, nil
}

func (p *AffineG2) Neg() (*AffineG2, error) {
	if p.Infinity {
		return p, nil
	}
	negY, err := p.Y.Neg()
	if err != nil {
		return nil, err
	}
	return &AffineG2{Field: p.Field, X: p.X.Clone(), Y: negY}, nil
}

func (p *AffineG2) Add(o *AffineG2) (*AffineG2, error) {
	if p.Infinity {
		return o, nil
	}
	if o.Infinity {
		return p, nil
	}
	if p.X.Equal(o.X) {
		negOY, err := o.Y.Neg()
		if err != nil {
			return nil, err
		}
		if p.Y.Equal(negOY) {
			return p.Field.InfinityG2(), nil
		}
		return p.Double()
	}

	num, err := o.Y.Sub(p.Y)
	if err != nil {
		return nil, err
	}
	den, err := o.X.Sub(p.X)
	if err != nil {
		return nil, err
	}
	denInv, err := den.Invert()
	if err != nil {
		return nil, err
	}
	lambda, err := num.Mul(denInv)
	if err != nil {
		return nil, err
	}

	lambda2, err := lambda.Square()
	if err != nil {
		return nil, err
	}
	x3, err := lambda2.Sub(p.X)
	if err != nil {
		return nil, err
	}
	x3, err = x3.Sub(o.X)
	if err != nil {
		return nil, err
	}
	xDiff, err := p.X.Sub(x3)
	if err != nil {
		return nil, err
	}
	y3, err := lambda.Mul(xDiff)
	if err != nil {
		return nil, err
	}
	y3, err = y3.Sub(p.Y)
	if err != nil {
		return nil, err
	}
	return &AffineG2{Field: p.Field, X: x3, Y: y3}, nil
}

func (p *AffineG2) Double() (*AffineG2, error) {
	if p.Infinity || p.Y.IsZero() {
		return p.Field.InfinityG2(), nil
	}
	x2, err := p.X.Square()
	if err != nil {
		return nil, err
	}
	threeX2, err := x2.Add(x2)
	if err != nil {
		return nil, err
	}
	threeX2, err = threeX2.Add(x2)
	if err != nil {
		return nil, err
	}
	num, err := threeX2.Add(p.Field.A)
	if err != nil {
		return nil, err
	}
	twoY, err := p.Y.Add(p.Y)
	if err != nil {
		return nil, err
	}
	twoYInv, err := twoY.Invert()
	if err != nil {
		return nil, err
	}
	lambda, err := num.Mul(twoYInv)
	if err != nil {
		return nil, err
	}

	lambda2, err := lambda.Square()
	if err != nil {
		return nil, err
	}
	twoX, err := p.X.Add(p.X)
	if err != nil {
		return nil, err
	}
	x3, err := lambda2.Sub(twoX)
	if err != nil {
		return nil, err
	}
	xDiff, err := p.X.Sub(x3)
	if err != nil {
		return nil, err
	}
	y3, err := lambda.Mul(xDiff)
	if err != nil {
		return nil, err
	}
	y3, err = y3.Sub(p.Y)
	if err != nil {
		return nil, err
	}
	return &AffineG2{Field: p.Field, X: x3, Y: y3}, nil
}

// AddMixed implements madd-2004-hmv over Fq2 (spec §4.D).
func (p *JacobianG2) AddMixed(o *AffineG2) (*JacobianG2, error) {
	if p.Infinity {
		return o.ToJacobian(), nil
	}
	if o.Infinity {
		return p, nil
	}
	z2, err := p.Z.Square()
	if err != nil {
		return nil, err
	}
	u2, err := o.X.Mul(z2)
	if err != nil {
		return nil, err
	}
	z3, err := z2.Mul(p.Z)
	if err != nil {
		return nil, err
	}
	s2, err := o.Y.Mul(z3)
	if err != nil {
		return nil, err
	}
	h, err := u2.Sub(p.X)
	if err != nil {
		return nil, err
	}
	r, err := s2.Sub(p.Y)
	if err != nil {
		return nil, err
	}
	if h.IsZero() {
		if r.IsZero() {
			return p.Double()
		}
		return p.Field.InfinityJacobianG2(), nil
	}
	hh, err := h.Square()
	if err != nil {
		return nil, err
	}
	hhh, err := hh.Mul(h)
	if err != nil {
		return nil, err
	}
	v, err := p.X.Mul(hh)
	if err != nil {
		return nil, err
	}
	r2, err := r.Square()
	if err != nil {
		return nil, err
	}
	x3, err := r2.Sub(hhh)
	if err != nil {
		return nil, err
	}
	twoV, err := v.Add(v)
	if err != nil {
		return nil, err
	}
	x3, err = x3.Sub(twoV)
	if err != nil {
		return nil, err
	}
	vx3, err := v.Sub(x3)
	if err != nil {
		return nil, err
	}
	rvx3, err := r.Mul(vx3)
	if err != nil {
		return nil, err
	}
	yhhh, err := p.Y.Mul(hhh)
	if err != nil {
		return nil, err
	}
	y3, err := rvx3.Sub(yhhh)
	if err != nil {
		return nil, err
	}
	z3p, err := p.Z.Mul(h)
	if err != nil {
		return nil, err
	}
	return &JacobianG2{Field: p.Field, X: x3, Y: y3, Z: z3p}, nil
}

func (p *JacobianG2) Double() (*JacobianG2, error) {
	if p.Infinity || p.Y.IsZero() {
		return p.Field.InfinityJacobianG2(), nil
	}
	a, err := p.X.Square()
	if err != nil {
		return nil, err
	}
	b, err := p.Y.Square()
	if err != nil {
		return nil, err
	}
	c, err := b.Square()
	if err != nil {
		return nil, err
	}
	xb, err := p.X.Add(b)
	if err != nil {
		return nil, err
	}
	xb2, err := xb.Square()
	if err != nil {
		return nil, err
	}
	xb2, err = xb2.Sub(a)
	if err != nil {
		return nil, err
	}
	xb2, err = xb2.Sub(c)
	if err != nil {
		return nil, err
	}
	d, err := xb2.Add(xb2)
	if err != nil {
		return nil, err
	}
	threeA, err := a.Add(a)
	if err != nil {
		return nil, err
	}
	e, err := threeA.Add(a)
	if err != nil {
		return nil, err
	}
	f, err := e.Square()
	if err != nil {
		return nil, err
	}
	twoD, err := d.Add(d)
	if err != nil {
		return nil, err
	}
	x3, err := f.Sub(twoD)
	if err != nil {
		return nil, err
	}
	dx3, err := d.Sub(x3)
	if err != nil {
		return nil, err
	}
	edx3, err := e.Mul(dx3)
	if err != nil {
		return nil, err
	}
	eightC, err := c.Add(c)
	if err != nil {
		return nil, err
	}
	eightC, err = eightC.Add(eightC)
	if err != nil {
		return nil, err
	}
	eightC, err = eightC.Add(eightC)
	if err != nil {
		return nil, err
	}
	y3, err := edx3.Sub(eightC)
	if err != nil {
		return nil, err
	}
	yz, err := p.Y.Mul(p.Z)
	if err != nil {
		return nil, err
	}
	z3, err := yz.Add(yz)
	if err != nil {
		return nil, err
	}
	return &JacobianG2{Field: p.Field, X: x3, Y: y3, Z: z3}, nil
}

// ScalarMul mirrors AffineG1.ScalarMul over the twisted curve.
func (p *AffineG2) ScalarMul(k *bigint.Int) (*AffineG2, error) {
	if p.Infinity || k.IsZero() {
		return p.Field.InfinityG2(), nil
	}
	if p.Field.Mixed {
		return p.scalarMulMixed(k)
	}
	return p.scalarMulAffine(k)
}

func (p *AffineG2) scalarMulAffine(k *bigint.Int) (*AffineG2, error) {
	w := bigint.OptimalWNAFWindow(k.BitLen())
	table, err := buildTableG2Affine(p, w)
	if err != nil {
		return nil, err
	}
	digits, err := bigint.WNAF(k, w)
	if err != nil {
		return nil, err
	}
	acc := p.Field.InfinityG2()
	for i := len(digits) - 1; i >= 0; i-- {
		acc, err = acc.Double()
		if err != nil {
			return nil, err
		}
		d := digits[i]
		if d == 0 {
			continue
		}
		pt, err := tableLookupAffineG2(table, d)
		if err != nil {
			return nil, err
		}
		acc, err = acc.Add(pt)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (p *AffineG2) scalarMulMixed(k *bigint.Int) (*AffineG2, error) {
	w := bigint.OptimalWNAFWindow(k.BitLen())
	table, err := buildTableG2Affine(p, w)
	if err != nil {
		return nil, err
	}
	digits, err := bigint.WNAF(k, w)
	if err != nil {
		return nil, err
	}
	acc := p.Field.InfinityJacobianG2()
	for i := len(digits) - 1; i >= 0; i-- {
		acc, err = acc.Double()
		if err != nil {
			return nil, err
		}
		d := digits[i]
		if d == 0 {
			continue
		}
		pt, err := tableLookupAffineG2(table, d)
		if err != nil {
			return nil, err
		}
		acc, err = acc.AddMixed(pt)
		if err != nil {
			return nil, err
		}
	}
	return acc.ToAffine()
}

func buildTableG2Affine(p *AffineG2, w uint) (map[int32]*AffineG2, error) {
	table := make(map[int32]*AffineG2)
	table[1] = p
	twiceP, err := p.Double()
	if err != nil {
		return nil, err
	}
	count := int32(1) << (w - 1)
	cur := p
	for d := int32(3); d < count; d += 2 {
		cur, err = cur.Add(twiceP)
		if err != nil {
			return nil, err
		}
		table[d] = cur
	}
	for d, pt := range table {
		negPt, err := pt.Neg()
		if err != nil {
			return nil, err
		}
		table[-d] = negPt
	}
	return table, nil
}

func tableLookupAffineG2(table map[int32]*AffineG2, d int32) (*AffineG2, error) {
	pt, ok := table[d]
	if !ok {
		return nil, schemeerr.Arithmeticf("curve.tableLookupAffineG2", "missing wNAF table entry %d", d)
	}
	return pt, nil
}

// RandomGenerator mirrors FieldG1.RandomGenerator over Fq2, drawing both
// coordinates of the candidate x and taking an Fq2 sqrt.
func (f *FieldG2) RandomGenerator(rnd io.Reader) (*AffineG2, error) {
	for {
		xa, err := bigint.RandomBelow(f.Fq2.Base.Q, rnd)
		if err != nil {
			return nil, err
		}
		xb, err := bigint.RandomBelow(f.Fq2.Base.Q, rnd)
		if err != nil {
			return nil, err
		}
		fa, err := f.Fq2.Base.FromNatural(xa)
		if err != nil {
			return nil, err
		}
		fb, err := f.Fq2.Base.FromNatural(xb)
		if err != nil {
			return nil, err
		}
		x := towerfield.NewE2(f.Fq2, fa, fb)

		x2, err := x.Square()
		if err != nil {
			return nil, err
		}
		x3, err := x2.Mul(x)
		if err != nil {
			return nil, err
		}
		ax, err := f.A.Mul(x)
		if err != nil {
			return nil, err
		}
		rhs, err := x3.Add(ax)
		if err != nil {
			return nil, err
		}
		rhs, err = rhs.Add(f.B)
		if err != nil {
			return nil, err
		}
		y, err := rhs.Sqrt()
		if err != nil {
			continue
		}
		pt := &AffineG2{Field: f, X: x, Y: y}
		return pt.ScalarMul(f.Cofactor)
	}
}
