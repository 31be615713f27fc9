// Package pairing implements the Optimal Ate pairing over a
// Barreto-Naehrig curve described in spec §4.E: a Miller loop driven by
// line evaluations at doubling and addition steps on G2, two
// Frobenius-twist correction terms, and a final exponentiation into the
// cyclotomic subgroup that is the target group GT.
package pairing

import (
	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/curve"
	"github.com/nume-crypto/isogs/schemeerr"
	"github.com/nume-crypto/isogs/towerfield"
)

// Context holds everything the pairing needs that depends only on the
// curve parameters, not on the specific points being paired: the loop
// parameter t, the twist correction constants W2/W3 used to apply the
// Frobenius endomorphisms to G2 points, the Z self-consistency constant,
// and the five-entry Gamma tables spec §4.E lists as context state.
type Context struct {
	G1 *curve.FieldG1
	G2 *curve.FieldG2
	Fq12 *towerfield.DodecaHandle

	T *bigint.Int // BN loop parameter

	W2 *towerfield.E2 // xi^((q-1)/3), x-coordinate Frobenius correction
	W3 *towerfield.E2 // xi^((q-1)/2), y-coordinate Frobenius correction
	Z  *towerfield.E2 // (-xi^((q^2-1)/6))^2, expected real (zero B coefficient)

	// Gamma1/Gamma2/Gamma3 are the five-entry Frobenius coefficient
	// tables of spec §4.E, retained on the context as the spec
	// describes. The final exponentiation implemented in finalexp.go
	// takes the single-exponent route licensed by spec §4.E's "the
	// implementer may vary the exact assembly" clause and does not
	// consume these tables; they are computed and stored for
	// completeness and for any future interleaved-Frobenius hard part
	// (see DESIGN.md).
	Gamma1 [5]*towerfield.E2
	Gamma2 [5]*towerfield.E2
	Gamma3 [5]*towerfield.E2
}

// NewContext builds a pairing context for the BN curve with loop
// parameter t and sextic twist non-residue xi = 1+u (the fixed value
// spec §4.H's Mechanism-4 parameterization uses).
func NewContext(g1 *curve.FieldG1, g2 *curve.FieldG2, fq12 *towerfield.DodecaHandle, t *bigint.Int) (*Context, error) {
	fq2 := g2.Fq2
	xi := towerfield.NewE2(fq2, fq2.Base.One(), fq2.Base.One())

	q := fq2.Base.Q
	one := bigint.New(1)
	qMinus1 := q.Sub(one)

	e3, _, err := qMinus1.DivMod(bigint.New(3))
	if err != nil {
		return nil, err
	}
	w2, err := powE2(xi, e3)
	if err != nil {
		return nil, err
	}

	e2, _, err := qMinus1.DivMod(bigint.New(2))
	if err != nil {
		return nil, err
	}
	w3, err := powE2(xi, e2)
	if err != nil {
		return nil, err
	}

	q2 := q.Mul(q)
	q2Minus1 := q2.Sub(one)
	e6, _, err := q2Minus1.DivMod(bigint.New(6))
	if err != nil {
		return nil, err
	}
	base, err := powE2(xi, e6)
	if err != nil {
		return nil, err
	}
	negBase, err := base.Neg()
	if err != nil {
		return nil, err
	}
	z, err := negBase.Square()
	if err != nil {
		return nil, err
	}
	if !z.B.IsZero() {
		return nil, schemeerr.Parameterf("pairing.NewContext", "twist self-consistency check failed: Z has nonzero imaginary part")
	}

	sixth, _, err := qMinus1.DivMod(bigint.New(6))
	if err != nil {
		return nil, err
	}
	var gamma1, gamma2, gamma3 [5]*towerfield.E2
	for i := 0; i < 5; i++ {
		exp := sixth.Mul(bigint.New(int64(i + 1)))
		g1i, err := powE2(xi, exp)
		if err != nil {
			return nil, err
		}
		gamma1[i] = g1i
		conjG1i, err := g1i.Conjugate()
		if err != nil {
			return nil, err
		}
		g2i, err := g1i.Mul(conjG1i)
		if err != nil {
			return nil, err
		}
		gamma2[i] = g2i
		g3i, err := g1i.Mul(g2i)
		if err != nil {
			return nil, err
		}
		gamma3[i] = g3i
	}

	return &Context{
		G1: g1, G2: g2, Fq12: fq12,
		T:      t,
		W2:     w2,
		W3:     w3,
		Z:      z,
		Gamma1: gamma1,
		Gamma2: gamma2,
		Gamma3: gamma3,
	}, nil
}

// powE2 computes base^exp for a non-negative exponent, via square-and-
// multiply over Fq2.
func powE2(base *towerfield.E2, exp *bigint.Int) (*towerfield.E2, error) {
	result := base.H.One()
	cur := base.Clone()
	for i := 0; i < exp.BitLen(); i++ {
		if exp.TestBit(i) == 1 {
			var err error
			result, err = result.Mul(cur)
			if err != nil {
				return nil, err
			}
		}
		var err error
		cur, err = cur.Mul(cur)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
