// Package mechanism1 implements the RSA-group anonymous signature
// scheme of spec §4.G (ISO/IEC 20008-2 Mechanism 1): a safe-prime
// modulus, a four-message zero-knowledge join handshake, and the
// sign/verify/link/revoke operations built on plain bigint modular
// arithmetic (no prime-field handle, since the modulus n = p*q is
// composite).
package mechanism1

import "github.com/nume-crypto/isogs/schemeerr"

// Params carries every bit-length and slack constant the protocol is
// parameterized over (spec §4.G, first paragraph).
type Params struct {
	Lp int // bit length of the safe primes p, q (p', q' have Lp-1 bits)
	Lx int // bit length of the committed value x'
	LX int // bit length of x (LX > Lx)
	Le int // bit length slack for the credential exponent e
	LE int // bit length of e
	K  int // challenge length in bits

	EpsilonNum int // range-proof slack numerator, typically 5
	EpsilonDen int // range-proof slack denominator, typically 4

	HashID string // configuration label (e.g. "SHA-1", "SHA-512"); not read by the protocol, which always hashes with hashutil.HL
}

// Validate rejects parameter combinations the protocol's range proofs
// cannot be built from.
func (p Params) Validate() error {
	if p.LX <= p.Lx {
		return schemeerr.Parameterf("mechanism1.Params.Validate", "LX (%d) must exceed Lx (%d)", p.LX, p.Lx)
	}
	if p.Lp <= 0 || p.Lx <= 0 || p.Le <= 0 || p.LE <= 0 || p.K <= 0 {
		return schemeerr.Parameterf("mechanism1.Params.Validate", "all bit-length parameters must be positive")
	}
	if p.EpsilonNum <= 0 || p.EpsilonDen <= 0 || p.EpsilonNum < p.EpsilonDen {
		return schemeerr.Parameterf("mechanism1.Params.Validate", "epsilon (%d/%d) must be a slack ratio >= 1", p.EpsilonNum, p.EpsilonDen)
	}
	return nil
}

// boundBits returns ceil(epsilon * bits), the bit length of a
// range-proof commitment/response sampled with the configured slack.
func (p Params) boundBits(bits int) int {
	return (p.EpsilonNum*bits + p.EpsilonDen - 1) / p.EpsilonDen
}

// sBound returns the exponent of the response range bound of spec §4.G,
// ceil(epsilon*bits); withinBound then checks |s| <= 2^sBound(bits).
func (p Params) sBound(bits int) int { return p.boundBits(bits) }
