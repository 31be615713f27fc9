package mechanism4

import (
	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/curve"
	"github.com/nume-crypto/isogs/schemeerr"
)

// trackedMember is the issuer's private bookkeeping entry for a joined
// member: the per-member exponent e and the commitment C needed to
// recompute A against a new gamma (spec §4.H "Credential update").
type trackedMember struct {
	E *bigint.Int
	A *curve.AffineG1
	C *curve.AffineG1
}

// CredentialRegistry is the issuer-side store backing the
// credential-update revocation policy: every joined member's (e, C, A)
// keyed by their identity token, plus the current gamma.
type CredentialRegistry struct {
	Pub     *PublicKey
	Priv    *PrivateKey
	members map[string]*trackedMember
}

func NewCredentialRegistry(pub *PublicKey, priv *PrivateKey) *CredentialRegistry {
	return &CredentialRegistry{Pub: pub, Priv: priv, members: make(map[string]*trackedMember)}
}

// Track records a newly-issued credential under identity (Join uses
// EncodeIdentity with a nil bsn and the member's commitment C; any
// caller-chosen unique label works).
func (r *CredentialRegistry) Track(identity []byte, cred *Credential, c *curve.AffineG1) {
	r.members[string(identity)] = &trackedMember{E: cred.E, A: cred.A, C: c}
}

// Len reports how many members the registry is currently tracking.
func (r *CredentialRegistry) Len() int {
	return len(r.members)
}

// CredentialFor returns the live (possibly updated) credential for
// identity, if tracked.
func (r *CredentialRegistry) CredentialFor(identity []byte) (*Credential, bool) {
	m, ok := r.members[string(identity)]
	if !ok {
		return nil, false
	}
	b, err := r.Pub.P2.ScalarMul(m.E)
	if err != nil {
		return nil, false
	}
	return &Credential{A: m.A, B: b, E: m.E}, true
}

// RecomputeRatio implements revocation.CredentialUpdater: it replaces
// gamma with a fresh value (derived from the affected identities, so
// the same call is reproducible given the same input) and rescales the
// A of every tracked member by the ratio (gamma_old+e)/(gamma_new+e),
// keeping each A valid under the new W without the member needing to
// re-join. The affected identities only seed the new gamma: no tracked
// member is skipped or removed, so the update excludes nobody. invert
// with the same affected list undoes a previous recompute by moving
// gamma back by the same amount.
func (r *CredentialRegistry) RecomputeRatio(invert bool, affected [][]byte) error {
	if len(affected) == 0 {
		return schemeerr.Parameterf("mechanism4.RecomputeRatio", "no affected members supplied")
	}
	order := r.Pub.Suite.Scalar.Q

	delta, err := fiatShamir(r.Pub.Suite, affected...)
	if err != nil {
		return err
	}
	delta, err = delta.Add(bigint.New(1)).Mod(order)
	if err != nil {
		return err
	}

	gammaOld := r.Priv.Gamma
	var gammaNew *bigint.Int
	if invert {
		gammaNew, err = modSub(order, gammaOld, delta)
	} else {
		gammaNew, err = modAdd(order, gammaOld, delta)
	}
	if err != nil {
		return err
	}

	for _, m := range r.members {
		numerator, err := modAdd(order, gammaOld, m.E)
		if err != nil {
			return err
		}
		denominator, err := modAdd(order, gammaNew, m.E)
		if err != nil {
			return err
		}
		denomInv, err := modInverse(order, denominator)
		if err != nil {
			return err
		}
		ratio, err := modMul(order, numerator, denomInv)
		if err != nil {
			return err
		}
		m.A, err = m.A.ScalarMul(ratio)
		if err != nil {
			return err
		}
	}

	r.Priv.Gamma = gammaNew
	r.Pub.W, err = r.Pub.P2.ScalarMul(gammaNew)
	return err
}
