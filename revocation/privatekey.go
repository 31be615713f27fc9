package revocation

import (
	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/schemeerr"
)

// LeakedKeyChecker verifies whether a signature's identity material
// was produced by a given private key, mechanism-specifically (e.g.
// Mechanism 1's HL-based leaked-key test of spec §4.G, Mechanism 4's
// [x]HashToPoint(bsn) = T4 pseudonym check).
type LeakedKeyChecker interface {
	MatchesKey(sigIdentity []byte, key *bigint.Int) (bool, error)
}

// PrivateKeyRevocation revokes members by their leaked member private
// key, checked against each signature's identity material via a
// mechanism-supplied LeakedKeyChecker (spec §4.I).
type PrivateKeyRevocation struct {
	global  bool
	checker LeakedKeyChecker
	keys    []*bigint.Int
}

func NewLocalPrivateKeyRevocation(checker LeakedKeyChecker) *PrivateKeyRevocation {
	return &PrivateKeyRevocation{global: false, checker: checker}
}

func NewGlobalPrivateKeyRevocation(checker LeakedKeyChecker) *PrivateKeyRevocation {
	return &PrivateKeyRevocation{global: true, checker: checker}
}

func (p *PrivateKeyRevocation) Tag() string {
	if p.global {
		return "gpk"
	}
	return "lpk"
}

func (p *PrivateKeyRevocation) IsAuthorRevoked(_ []byte, sigIdentity []byte) (bool, error) {
	for _, k := range p.keys {
		matched, err := p.checker.MatchesKey(sigIdentity, k)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func (p *PrivateKeyRevocation) IsSignatureRevoked([]byte, []byte, Prover) (bool, error) {
	return false, nil
}

func (p *PrivateKeyRevocation) RequestBlacklistRevocation([]byte) error {
	return schemeerr.Policyf("revocation.PrivateKeyRevocation", "blacklist revocation not supported under private-key policy")
}

func (p *PrivateKeyRevocation) RequestPrivateKeyRevocation(key *bigint.Int) error {
	for _, k := range p.keys {
		if k.Cmp(key) == 0 {
			return nil
		}
	}
	p.keys = append(p.keys, key)
	return nil
}

func (p *PrivateKeyRevocation) RequestSignatureRevocation([]byte) error {
	return schemeerr.Policyf("revocation.PrivateKeyRevocation", "signature revocation not supported under private-key policy")
}
