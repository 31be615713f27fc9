package mechanism1

import (
	"github.com/nume-crypto/isogs/bigint"
)

// KeyChecker adapts Mechanism-1's leaked-key test (spec §4.G
// "Revocation") to the revocation package's LeakedKeyChecker
// interface: sigIdentity is the wire encoding of (bsn, T4), produced
// by EncodeIdentity below.
type KeyChecker struct {
	Pub    *PublicKey
	Params Params
}

// EncodeIdentity packs (bsn, T4) into the opaque identity token that
// revocation policies compare and that MatchesKey decodes.
func EncodeIdentity(bsn []byte, t4 *bigint.Int) []byte {
	nLen := (t4.BitLen() + 7) / 8
	t4Bytes, err := bigint.I2BSPUnsigned(t4)
	if err != nil {
		t4Bytes = nil
	}
	out := make([]byte, 0, 4+len(bsn)+nLen)
	out = append(out, byte(len(bsn)>>24), byte(len(bsn)>>16), byte(len(bsn)>>8), byte(len(bsn)))
	out = append(out, bsn...)
	out = append(out, t4Bytes...)
	return out
}

func decodeIdentity(sigIdentity []byte) (bsn []byte, t4 *bigint.Int, ok bool) {
	if len(sigIdentity) < 4 {
		return nil, nil, false
	}
	n := int(sigIdentity[0])<<24 | int(sigIdentity[1])<<16 | int(sigIdentity[2])<<8 | int(sigIdentity[3])
	if len(sigIdentity) < 4+n {
		return nil, nil, false
	}
	bsn = sigIdentity[4 : 4+n]
	t4 = bigint.BS2IP(sigIdentity[4+n:])
	return bsn, t4, true
}

// MatchesKey implements revocation.LeakedKeyChecker: true iff
// HL(bsn,2Lp)^(2*key) == T4 mod n (spec §4.G "Revocation").
func (k KeyChecker) MatchesKey(sigIdentity []byte, key *bigint.Int) (bool, error) {
	bsn, t4, ok := decodeIdentity(sigIdentity)
	if !ok {
		return false, nil
	}
	sig := &Signature{T4: t4}
	return IsRevoked(k.Pub, k.Params, bsn, sig, []*bigint.Int{key})
}
