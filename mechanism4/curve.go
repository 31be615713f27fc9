// Package mechanism4 implements the pairing-based anonymous signature
// scheme of spec §4.H (ISO/IEC 20008-2 Mechanism 4): a fixed
// Barreto-Naehrig curve, a join handshake binding a member secret into
// a four-point credential, sign/verify with an eight-scalar-mult
// precomputation (five bsn-independent, three bsn-dependent), a
// non-revocation proof, and issuer-driven
// credential update.
package mechanism4

import (
	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/curve"
	"github.com/nume-crypto/isogs/field"
	"github.com/nume-crypto/isogs/pairing"
	"github.com/nume-crypto/isogs/towerfield"
)

// CurveSuite bundles every arithmetic handle the scheme operates over:
// G1, G2, the Fq12 target group, the pairing context, and a dedicated
// scalar field keyed to the curve order r (spec §4.H, "fixed
// parameterization").
type CurveSuite struct {
	G1      *curve.FieldG1
	G2      *curve.FieldG2
	Fq12    *towerfield.DodecaHandle
	Pairing *pairing.Context
	Scalar  *field.Handle // Fr, the scalar field of order r
	T       *bigint.Int
}

// beuchatBNParams is the prefixed BN curve of spec §8 item 1: Beuchat
// et al.'s parameterization with b=2, β=−1, ξ=1+u,
// t=−4647714815446351873.
func beuchatBNParams() (q, r, t *bigint.Int, err error) {
	q, err = bigint.FromString("16798108731015832284940804142231733909889187121439069848933715426072753864723", 10)
	if err != nil {
		return nil, nil, nil, err
	}
	r, err = bigint.FromString("16798108731015832284940804142231733909759579603404752749028378864165570215949", 10)
	if err != nil {
		return nil, nil, nil, err
	}
	t, err = bigint.FromString("-4647714815446351873", 10)
	if err != nil {
		return nil, nil, nil, err
	}
	return q, r, t, nil
}

// NewCurveSuite builds every arithmetic handle from the fixed BN
// parameters (spec §4.H).
func NewCurveSuite() (*CurveSuite, error) {
	q, r, t, err := beuchatBNParams()
	if err != nil {
		return nil, err
	}

	fq, err := field.NewHandle(q, true)
	if err != nil {
		return nil, err
	}
	betaElem, err := fq.FromNatural(bigint.New(-1).Add(q))
	if err != nil {
		return nil, err
	}
	fq2 := towerfield.NewQuadraticHandle(fq, betaElem)
	fq6 := towerfield.NewCubicHandle(fq2)
	fq12 := towerfield.NewDodecaHandle(fq6)

	two, err := fq.FromNatural(bigint.New(2))
	if err != nil {
		return nil, err
	}
	zero := fq.Zero()

	g1 := &curve.FieldG1{Fq: fq, A: zero, B: two, Order: r, Cofactor: bigint.New(1), Mixed: false}

	// B coefficient on the sextic twist: b2 = b/xi = 2/(1+u).
	one := fq.One()
	xi := towerfield.NewE2(fq2, one, one)
	twoE2 := towerfield.NewE2(fq2, two, fq.Zero())
	xiInv, err := xi.Invert()
	if err != nil {
		return nil, err
	}
	b2, err := twoE2.Mul(xiInv)
	if err != nil {
		return nil, err
	}

	// The twist has r*(2q - r) points, so 2q - r clears the cofactor.
	g2 := &curve.FieldG2{Fq2: fq2, A: fq2.Zero(), B: b2, Order: r, Cofactor: q.Mul(bigint.New(2)).Sub(r), Mixed: false}

	ctx, err := pairing.NewContext(g1, g2, fq12, t)
	if err != nil {
		return nil, err
	}

	scalar, err := field.NewHandle(r, true)
	if err != nil {
		return nil, err
	}

	return &CurveSuite{G1: g1, G2: g2, Fq12: fq12, Pairing: ctx, Scalar: scalar, T: t}, nil
}
