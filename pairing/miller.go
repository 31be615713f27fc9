package pairing

import (
	"github.com/nume-crypto/isogs/curve"
	"github.com/nume-crypto/isogs/field"
	"github.com/nume-crypto/isogs/towerfield"
)

// buildLine embeds the tangent/chord line through T (slope lambda,
// evaluated at the twist point T) into Fq12 via the sextic twist
// embedding Psi(xp,yp) = (xp*w^2, yp*w^3): the line evaluates to
// (lambda*Xt - Yt) + (-lambda*xp)*w^2 + yp*w^3, a three-nonzero-
// coefficient ("sparse") Fq12 element (spec §4.E step 3's "three
// nonzero Fq2 coefficients out of six").
//
// T is kept in affine coordinates throughout the Miller loop rather
// than the Jacobian coordinates spec §4.E's doubleLine/addLine
// describes; the chord/tangent-line-through-two-points construction
// used here is the textbook definition of the line function and is
// simpler to derive correctly than the optimized Jacobian formulas,
// at the cost of the Jacobian formulas' amortized-inversion speedup
// (see DESIGN.md).
func buildLine(h *towerfield.DodecaHandle, lambda, xt, yt *towerfield.E2, xp, yp *field.Element) (*towerfield.E12, error) {
	lambdaXt, err := lambda.Mul(xt)
	if err != nil {
		return nil, err
	}
	c0, err := lambdaXt.Sub(yt)
	if err != nil {
		return nil, err
	}
	negLambda, err := lambda.Neg()
	if err != nil {
		return nil, err
	}
	c1, err := scaleByFq(negLambda, xp)
	if err != nil {
		return nil, err
	}
	return assembleLine(h, c0, c1, yt.H, yp)
}

// scaleByFq multiplies an Fq2 element by an Fq scalar (embedded as
// a+0u).
func scaleByFq(e *towerfield.E2, scalar *field.Element) (*towerfield.E2, error) {
	s := towerfield.NewE2(e.H, scalar, e.H.Base.Zero())
	return e.Mul(s)
}

func assembleLine(h *towerfield.DodecaHandle, c0, c1 *towerfield.E2, fq2 *towerfield.QuadraticHandle, yp *field.Element) (*towerfield.E12, error) {
	c2 := towerfield.NewE2(fq2, yp, fq2.Base.Zero())
	zero := fq2.Zero()
	x0 := towerfield.NewE6(h.Base, c0, c1, zero)
	x1 := towerfield.NewE6(h.Base, zero, c2, zero)
	return towerfield.NewE12(h, x0, x1), nil
}

// doubleLine evaluates the tangent line at T and doubles T (affine,
// a=0 curve).
func doubleLine(ctx *Context, t *curve.AffineG2, p *curve.AffineG1) (*towerfield.E12, *curve.AffineG2, error) {
	x2, err := t.X.Square()
	if err != nil {
		return nil, nil, err
	}
	threeX2, err := x2.Add(x2)
	if err != nil {
		return nil, nil, err
	}
	threeX2, err = threeX2.Add(x2)
	if err != nil {
		return nil, nil, err
	}
	twoY, err := t.Y.Add(t.Y)
	if err != nil {
		return nil, nil, err
	}
	twoYInv, err := twoY.Invert()
	if err != nil {
		return nil, nil, err
	}
	lambda, err := threeX2.Mul(twoYInv)
	if err != nil {
		return nil, nil, err
	}
	line, err := buildLine(ctx.Fq12, lambda, t.X, t.Y, p.X, p.Y)
	if err != nil {
		return nil, nil, err
	}
	tNew, err := t.Double()
	if err != nil {
		return nil, nil, err
	}
	return line, tNew, nil
}

// addLine evaluates the chord through T and Q and sets T <- T+Q.
func addLine(ctx *Context, t, q *curve.AffineG2, p *curve.AffineG1) (*towerfield.E12, *curve.AffineG2, error) {
	num, err := q.Y.Sub(t.Y)
	if err != nil {
		return nil, nil, err
	}
	den, err := q.X.Sub(t.X)
	if err != nil {
		return nil, nil, err
	}
	denInv, err := den.Invert()
	if err != nil {
		return nil, nil, err
	}
	lambda, err := num.Mul(denInv)
	if err != nil {
		return nil, nil, err
	}
	line, err := buildLine(ctx.Fq12, lambda, t.X, t.Y, p.X, p.Y)
	if err != nil {
		return nil, nil, err
	}
	tNew, err := t.Add(q)
	if err != nil {
		return nil, nil, err
	}
	return line, tNew, nil
}

// frobeniusG2 applies pi_p to a G2 point using the context's twist
// correction constants (spec §4.E step 4).
func frobeniusG2(ctx *Context, q *curve.AffineG2) (*curve.AffineG2, error) {
	conjX, err := q.X.Conjugate()
	if err != nil {
		return nil, err
	}
	conjY, err := q.Y.Conjugate()
	if err != nil {
		return nil, err
	}
	x, err := conjX.Mul(ctx.W2)
	if err != nil {
		return nil, err
	}
	y, err := conjY.Mul(ctx.W3)
	if err != nil {
		return nil, err
	}
	return &curve.AffineG2{Field: q.Field, X: x, Y: y}, nil
}

// frobeniusSquaredG2 applies pi_{p^2} to a G2 point: for BN curves this
// reduces to scaling x by the context's (real-valued) Z constant and
// negating y (spec §4.E step 4).
func frobeniusSquaredG2(ctx *Context, q *curve.AffineG2) (*curve.AffineG2, error) {
	x, err := q.X.Mul(ctx.Z)
	if err != nil {
		return nil, err
	}
	negY, err := q.Y.Neg()
	if err != nil {
		return nil, err
	}
	return &curve.AffineG2{Field: q.Field, X: x, Y: negY}, nil
}

// MillerLoop implements spec §4.E steps 1-4, returning an Fq12 element
// prior to final exponentiation.
func MillerLoop(ctx *Context, q *curve.AffineG2, p *curve.AffineG1) (*towerfield.E12, error) {
	if q.Infinity || p.Infinity {
		return ctx.Fq12.One(), nil
	}

	six := bigintSix()
	s := ctx.T.Mul(six).Add(bigintTwo())
	s = s.Abs()
	digits := bigintBitsMSBFirst(s)

	t := q
	d, tNext, err := doubleLine(ctx, t, p)
	if err != nil {
		return nil, err
	}
	t = tNext
	e, tNext, err := addLine(ctx, t, q, p)
	if err != nil {
		return nil, err
	}
	t = tNext
	f, err := d.Mul(e)
	if err != nil {
		return nil, err
	}

	// digits is most-significant-bit first; spec's loop runs the bit
	// index (least-significant-bit numbering) from bitlen(s)-3 down to
	// 0, having already consumed the top two bits in the seed step
	// above. In MSB-first array terms that is ascending index from 2
	// to len(digits)-1.
	for idx := 2; idx < len(digits); idx++ {
		f, err = f.Square()
		if err != nil {
			return nil, err
		}
		d, tNext, err = doubleLine(ctx, t, p)
		if err != nil {
			return nil, err
		}
		t = tNext
		f, err = f.Mul(d)
		if err != nil {
			return nil, err
		}
		if digits[idx] {
			e, tNext, err = addLine(ctx, t, q, p)
			if err != nil {
				return nil, err
			}
			t = tNext
			f, err = f.Mul(e)
			if err != nil {
				return nil, err
			}
		}
	}

	q1, err := frobeniusG2(ctx, q)
	if err != nil {
		return nil, err
	}
	q2, err := frobeniusSquaredG2(ctx, q)
	if err != nil {
		return nil, err
	}
	f, err = f.Conjugate()
	if err != nil {
		return nil, err
	}
	negTY, err := t.Y.Neg()
	if err != nil {
		return nil, err
	}
	t = &curve.AffineG2{Field: t.Field, X: t.X, Y: negTY}

	d, tNext, err = addLine(ctx, t, q1, p)
	if err != nil {
		return nil, err
	}
	t = tNext
	e, _, err = addLine(ctx, t, q2, p)
	if err != nil {
		return nil, err
	}
	ft, err := d.Mul(e)
	if err != nil {
		return nil, err
	}
	f, err = f.Mul(ft)
	if err != nil {
		return nil, err
	}
	return f, nil
}
