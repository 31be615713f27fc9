package mechanism4

import (
	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/curve"
	"github.com/nume-crypto/isogs/hashutil"
)

// fiatShamir folds a transcript of points and scalars into a single Fr
// challenge, mirroring mechanism1's fiatShamir (spec §4.F "Fiat-Shamir
// transform"): hash the concatenation via HL, then reduce mod r.
func fiatShamir(suite *CurveSuite, parts ...[]byte) (*bigint.Int, error) {
	var transcript []byte
	for _, p := range parts {
		transcript = append(transcript, p...)
	}
	n := (suite.Scalar.Q.BitLen()+7)/8 + 16
	digest, err := hashutil.HL(transcript, n)
	if err != nil {
		return nil, err
	}
	return bigint.BS2IP(digest).Mod(suite.Scalar.Q)
}

// bytesG1/bytesG2 serialize a point for transcript hashing using each
// field's own fixed-width ToBytes (field.Element/towerfield.E2), since
// exact byte boundaries only need to match on both sides of a hash, not
// be minimal.
func bytesG1(p *curve.AffineG1) ([]byte, error) {
	if p.Infinity {
		return []byte{0x00}, nil
	}
	xb, err := p.X.ToBytes()
	if err != nil {
		return nil, err
	}
	yb, err := p.Y.ToBytes()
	if err != nil {
		return nil, err
	}
	out := []byte{0x01}
	out = append(out, xb...)
	out = append(out, yb...)
	return out, nil
}

func bytesG2(p *curve.AffineG2) ([]byte, error) {
	if p.Infinity {
		return []byte{0x00}, nil
	}
	xb, err := p.X.ToBytes()
	if err != nil {
		return nil, err
	}
	yb, err := p.Y.ToBytes()
	if err != nil {
		return nil, err
	}
	out := []byte{0x01}
	out = append(out, xb...)
	out = append(out, yb...)
	return out, nil
}

func bytesScalar(s *bigint.Int) ([]byte, error) {
	return bigint.I2BSPUnsigned(s)
}
