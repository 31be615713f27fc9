package pairing

import (
	"github.com/nume-crypto/isogs/curve"
	"github.com/nume-crypto/isogs/towerfield"
)

// OptimalAte computes e(Q,P): Miller loop followed by final
// exponentiation (spec §4.E).
func (ctx *Context) OptimalAte(q *curve.AffineG2, p *curve.AffineG1) (*towerfield.E12, error) {
	f, err := MillerLoop(ctx, q, p)
	if err != nil {
		return nil, err
	}
	return FinalExponentiation(f, ctx.G2.Fq2.Base.Q, ctx.G1.Order)
}
