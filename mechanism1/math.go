package mechanism1

import (
	"io"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/hashutil"
	"github.com/nume-crypto/isogs/schemeerr"
)

// modPow computes base^exp mod n, handling negative exponents via
// explicit modular inverse (bigint.ModPow's contract only covers
// non-negative exponents).
func modPow(n, base, exp *bigint.Int) (*bigint.Int, error) {
	if exp.Sign() >= 0 {
		return base.ModPow(exp, n)
	}
	inv, err := base.ModInverse(n)
	if err != nil {
		return nil, err
	}
	return inv.ModPow(exp.Abs(), n)
}

func modMul(n, a, b *bigint.Int) (*bigint.Int, error) {
	return a.Mul(b).Mod(n)
}

// combine computes g^x * h^y mod n.
func combine(n, g, x, h, y *bigint.Int) (*bigint.Int, error) {
	gx, err := modPow(n, g, x)
	if err != nil {
		return nil, err
	}
	hy, err := modPow(n, h, y)
	if err != nil {
		return nil, err
	}
	return modMul(n, gx, hy)
}

// combine3 computes a^x * g^y * h^z mod n.
func combine3(n, a, x, g, y, h, z *bigint.Int) (*bigint.Int, error) {
	ax, err := modPow(n, a, x)
	if err != nil {
		return nil, err
	}
	gy, err := modPow(n, g, y)
	if err != nil {
		return nil, err
	}
	hz, err := modPow(n, h, z)
	if err != nil {
		return nil, err
	}
	ghz, err := modMul(n, gy, hz)
	if err != nil {
		return nil, err
	}
	return modMul(n, ax, ghz)
}

// reconstructD recomputes D' = g^s1 * h^s2 * C1^c mod n, the verifier
// side of proof U (spec §4.G, "recomputing D' = g^ŝ1·h^ŝ2·C1^c̃").
func reconstructD(n, g, s1, h, s2, c1, c *bigint.Int) (*bigint.Int, error) {
	gh, err := combine(n, g, s1, h, s2)
	if err != nil {
		return nil, err
	}
	cc, err := modPow(n, c1, c)
	if err != nil {
		return nil, err
	}
	return modMul(n, gh, cc)
}

// reconstructSingle recomputes base^s * commitment^c mod n, the
// verifier side of proof V.
func reconstructSingle(n, base, s, commitment, c *bigint.Int) (*bigint.Int, error) {
	bs, err := modPow(n, base, s)
	if err != nil {
		return nil, err
	}
	cc, err := modPow(n, commitment, c)
	if err != nil {
		return nil, err
	}
	return modMul(n, bs, cc)
}

// reconstructTriple recomputes a^s1 * g^s2 * h^s3 * commitment^c mod n,
// the verifier side of proof W.
func reconstructTriple(n, a, s1, g, s2, h, s3, commitment, c *bigint.Int) (*bigint.Int, error) {
	combined, err := combine3(n, a, s1, g, s2, h, s3)
	if err != nil {
		return nil, err
	}
	cc, err := modPow(n, commitment, c)
	if err != nil {
		return nil, err
	}
	return modMul(n, combined, cc)
}

// fiatShamir hashes the transcript of an arbitrary number of bigints
// into a k-bit challenge (spec §4.G, "challenge c̃ = H(...)").
func fiatShamir(params Params, values ...*bigint.Int) (*bigint.Int, error) {
	var transcript []byte
	for _, v := range values {
		b, err := bigint.I2BSPUnsigned(v.Abs())
		if err != nil {
			return nil, err
		}
		transcript = append(transcript, b...)
	}
	nbytes := (params.K + 7) / 8
	digest, err := hashutil.HL(transcript, nbytes)
	if err != nil {
		return nil, err
	}
	return bigint.BS2IP(digest), nil
}

// powerTwoDelimitedRandomPrime draws a random prime in [low, high]
// (spec §4.G, "powerTwoDelimitedRandomPrime(LE, Le, rnd)").
func powerTwoDelimitedRandomPrime(low, high *bigint.Int, rnd io.Reader) (*bigint.Int, error) {
	span := high.Sub(low)
	if span.Sign() < 0 {
		return nil, schemeerr.Parameterf("mechanism1.powerTwoDelimitedRandomPrime", "empty range")
	}
	for attempts := 0; attempts < 10000; attempts++ {
		offset, err := bigint.RandomBelow(span.Add(bigint.New(1)), rnd)
		if err != nil {
			return nil, err
		}
		candidate := low.Add(offset)
		if candidate.TestBit(0) == 0 {
			continue
		}
		next := candidate.Sub(bigint.New(1)).NextProbablePrime()
		if next.Cmp(candidate) == 0 && next.Cmp(high) <= 0 {
			return next, nil
		}
	}
	return nil, schemeerr.Arithmeticf("mechanism1.powerTwoDelimitedRandomPrime", "no prime found in range within attempt budget")
}
