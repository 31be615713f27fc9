package mechanism4

import (
	"io"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/curve"
	"github.com/nume-crypto/isogs/field"
)

// KeyChecker adapts Mechanism-4's leaked-key test to the revocation
// package's LeakedKeyChecker interface: sigIdentity is the wire
// encoding of (bsn, T4) produced by EncodeIdentity, and a leaked x
// matches iff [x]f equals T4 for f = HashToPoint(bsn) (spec §4.H
// "Revocation", mirroring mechanism1's HL-based check but over G1).
type KeyChecker struct {
	Pub *PublicKey
}

// EncodeIdentity packs (bsn, T4) into the opaque identity token
// revocation policies compare and MatchesKey decodes: a 4-byte bsn
// length, bsn itself, then T4's coordinates at a fixed per-field byte
// width so decodeIdentity never has to guess a split point.
func EncodeIdentity(fq *field.Handle, bsn []byte, t4 *curve.AffineG1) ([]byte, error) {
	width := fq.ByteLen()
	out := make([]byte, 0, 4+len(bsn)+1+2*width)
	out = append(out, byte(len(bsn)>>24), byte(len(bsn)>>16), byte(len(bsn)>>8), byte(len(bsn)))
	out = append(out, bsn...)
	if t4.Infinity {
		out = append(out, 0x00)
		out = append(out, make([]byte, 2*width)...)
		return out, nil
	}
	xb, err := t4.X.ToBytes()
	if err != nil {
		return nil, err
	}
	yb, err := t4.Y.ToBytes()
	if err != nil {
		return nil, err
	}
	out = append(out, 0x01)
	out = append(out, xb...)
	out = append(out, yb...)
	return out, nil
}

func decodeIdentity(fq *field.Handle, sigIdentity []byte) (bsn []byte, x, y *field.Element, infinity, ok bool) {
	if len(sigIdentity) < 4 {
		return nil, nil, nil, false, false
	}
	n := int(sigIdentity[0])<<24 | int(sigIdentity[1])<<16 | int(sigIdentity[2])<<8 | int(sigIdentity[3])
	width := fq.ByteLen()
	if len(sigIdentity) < 4+n+1+2*width {
		return nil, nil, nil, false, false
	}
	bsn = sigIdentity[4 : 4+n]
	tail := sigIdentity[4+n:]
	if tail[0] == 0x00 {
		return bsn, nil, nil, true, true
	}
	x, errX := fq.FromBytes(tail[1 : 1+width])
	y, errY := fq.FromBytes(tail[1+width : 1+2*width])
	if errX != nil || errY != nil {
		return nil, nil, nil, false, false
	}
	return bsn, x, y, false, true
}

// MatchesKey implements revocation.LeakedKeyChecker.
func (k KeyChecker) MatchesKey(sigIdentity []byte, key *bigint.Int) (bool, error) {
	bsn, x, y, infinity, ok := decodeIdentity(k.Pub.Suite.G1.Fq, sigIdentity)
	if !ok {
		return false, nil
	}
	f, err := k.Pub.Suite.G1.HashToPoint(bsn)
	if err != nil {
		return false, err
	}
	candidate, err := f.ScalarMul(key)
	if err != nil {
		return false, err
	}
	if candidate.Infinity != infinity {
		return false, nil
	}
	if infinity {
		return true, nil
	}
	return candidate.X.Equal(x) && candidate.Y.Equal(y), nil
}

// NonRevocationChallenge is the verifier's random exponent for the
// interactive non-revocation check (spec §4.H "Non-revocation proof").
type NonRevocationChallenge struct {
	J *bigint.Int
}

// NonRevocationResponse is the prover's reply: K = [j]T5 = [j*x]Q1.
type NonRevocationResponse struct {
	K *curve.AffineG1
}

// IssueNonRevocationChallenge draws a fresh random exponent j.
func IssueNonRevocationChallenge(pub *PublicKey, rnd io.Reader) (*NonRevocationChallenge, error) {
	j, err := bigint.RandomBelow(pub.Suite.Scalar.Q, rnd)
	if err != nil {
		return nil, err
	}
	return &NonRevocationChallenge{J: j}, nil
}

// RespondNonRevocation answers a challenge using the signature's T5
// commitment, a single G1 scalar multiplication (spec §4.H
// "Non-revocation proof": "one G1 scalar mult").
func RespondNonRevocation(sig *Signature, ch *NonRevocationChallenge) (*NonRevocationResponse, error) {
	k, err := sig.T5.ScalarMul(ch.J)
	if err != nil {
		return nil, err
	}
	return &NonRevocationResponse{K: k}, nil
}

// MatchesRevokedKey checks whether a given response is consistent with
// a specific candidate revoked key x_rev: K == [j]([x_rev]Q1).
func MatchesRevokedKey(pub *PublicKey, ch *NonRevocationChallenge, resp *NonRevocationResponse, xRevoked *bigint.Int) (bool, error) {
	jx, err := modMul(pub.Suite.Scalar.Q, ch.J, xRevoked)
	if err != nil {
		return false, err
	}
	candidate, err := pub.Q1.ScalarMul(jx)
	if err != nil {
		return false, err
	}
	if candidate.Infinity != resp.K.Infinity {
		return false, nil
	}
	if candidate.Infinity {
		return true, nil
	}
	return candidate.X.Equal(resp.K.X) && candidate.Y.Equal(resp.K.Y), nil
}
