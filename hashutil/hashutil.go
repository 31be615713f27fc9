// Package hashutil implements the hash building blocks of spec §4.F: a
// length-extending hash HL, a hash-to-field HBS2PF2, and a hash-to-curve
// HBS2ECP built from counter-prefixed retries of HBS2PF2.
//
// The underlying primitive is blake2b, grounded on the same choice
// Tomsons-go-srp makes for its SRP transcript hash rather than reaching
// for crypto/sha256; golang.org/x/crypto is already part of the ambient
// stack for that reason.
package hashutil

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/field"
	"github.com/nume-crypto/isogs/schemeerr"
)

// HL computes a hash of arbitrary output length n by concatenating
// blake2b-512 blocks over a counter-prefixed transcript, MGF1-style: for
// i = 0, 1, 2, ..., hash(i || data) until n bytes have been produced,
// then truncate. Spec's Open Question on the loop bound (++i <= ceil(..)
// vs strict <) is resolved here as strict less-than: the loop runs
// exactly ceil(n/blockSize) iterations, i ranging over
// [0, ceil(n/blockSize)), which produces exactly enough blocks and never
// one short (see DESIGN.md).
func HL(data []byte, n int) ([]byte, error) {
	if n < 0 {
		return nil, schemeerr.Parameterf("hashutil.HL", "output length must be non-negative")
	}
	const blockSize = 64
	blocks := (n + blockSize - 1) / blockSize
	out := make([]byte, 0, blocks*blockSize)
	for i := 0; i < blocks; i++ {
		var ctr [4]byte
		binary.BigEndian.PutUint32(ctr[:], uint32(i))
		h, err := blake2b.New512(nil)
		if err != nil {
			return nil, schemeerr.Arithmeticf("hashutil.HL", "hash init failed: %v", err)
		}
		h.Write(ctr[:])
		h.Write(data)
		out = append(out, h.Sum(nil)...)
	}
	return out[:n], nil
}

// HLShake256 computes an output of length n using SHAKE256, a true
// extendable-output function: no block-counter bookkeeping is needed
// since the sponge can be squeezed for exactly n bytes directly.
// Offered as a hash_algorithm alternative to the default HL (blake2b)
// for deployments whose compliance profile names a NIST XOF.
func HLShake256(data []byte, n int) ([]byte, error) {
	if n < 0 {
		return nil, schemeerr.Parameterf("hashutil.HLShake256", "output length must be non-negative")
	}
	xof := sha3.NewShake256()
	xof.Write(data)
	out := make([]byte, n)
	if _, err := xof.Read(out); err != nil {
		return nil, schemeerr.Arithmeticf("hashutil.HLShake256", "shake squeeze failed: %v", err)
	}
	return out, nil
}

// HLNamed dispatches to HL or HLShake256 by the hash_algorithm
// identifier named in a scheme's configuration (spec §4.F leaves the
// underlying primitive a parameter of the scheme).
func HLNamed(algorithm string, data []byte, n int) ([]byte, error) {
	switch algorithm {
	case "", "blake2b":
		return HL(data, n)
	case "shake-256":
		return HLShake256(data, n)
	default:
		return nil, schemeerr.Parameterf("hashutil.HLNamed", "unknown hash_algorithm %q", algorithm)
	}
}

// HBS2PF2 hashes data to an element of the base field underlying h by
// drawing HL output twice as long as the field's byte length (for
// statistical uniformity) and reducing mod q (spec §4.F).
func HBS2PF2(h *field.Handle, data []byte) (*field.Element, error) {
	n := h.ByteLen() * 2
	digest, err := HL(data, n)
	if err != nil {
		return nil, err
	}
	v := bigint.BS2IP(digest)
	return h.FromNatural(v)
}

// HBS2ECP hashes data to a point on the curve whose y-coordinate
// candidateY computes, retrying with an incrementing counter prefix until
// candidateY yields a valid y (spec §4.F, "counter-prefixed retry"); after
// 256 failed attempts it returns an ArithmeticError. candidateY
// must return the unique non-negative sqrt of the curve's right-hand side
// at x, or an error when x has no square root.
func HBS2ECP(fq *field.Handle, data []byte, candidateY func(x *field.Element) (*field.Element, error)) (*field.Element, *field.Element, error) {
	const maxAttempts = 256
	for i := 0; i < maxAttempts; i++ {
		var ctr [4]byte
		binary.BigEndian.PutUint32(ctr[:], uint32(i))
		prefixed := append(append([]byte{}, ctr[:]...), data...)
		x, err := HBS2PF2(fq, prefixed)
		if err != nil {
			return nil, nil, err
		}
		y, err := candidateY(x)
		if err != nil {
			continue
		}
		return x, y, nil
	}
	return nil, nil, schemeerr.Arithmeticf("hashutil.HBS2ECP", "no valid point found in %d attempts", maxAttempts)
}
