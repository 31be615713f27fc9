package mechanism4

import "github.com/nume-crypto/isogs/bigint"

// Scalar helpers reduce every exponent mod r, the curve's prime group
// order, before it touches a scalar multiplication (spec §4.H, see the
// Fq-vs-Fr note in keys.go).

func modAdd(r, a, b *bigint.Int) (*bigint.Int, error) {
	return a.Add(b).Mod(r)
}

func modSub(r, a, b *bigint.Int) (*bigint.Int, error) {
	return a.Sub(b).Mod(r)
}

func modMul(r, a, b *bigint.Int) (*bigint.Int, error) {
	return a.Mul(b).Mod(r)
}

func modNeg(r, a *bigint.Int) (*bigint.Int, error) {
	return a.Neg().Mod(r)
}

func modInverse(r, a *bigint.Int) (*bigint.Int, error) {
	return a.ModInverse(r)
}
