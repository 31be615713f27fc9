package party

import "github.com/nume-crypto/isogs/schemeerr"

// Mechanism5Scheme is the interface-level stub spec §1's "Out of
// scope" carve-out calls for: Mechanism 5 (prime-order EC,
// discrete-log-encryption-based opening) is described well enough in
// spec.md to name its configuration surface (Kn, K, Kc, Ks, Ke,
// Keprime, m, hash_algorithm) and its place in the revocation/open
// workflow, but its sign/verify wire format is explicitly out of
// scope. This type lets a caller name an `m5-...` scheme identifier
// and receive a typed, consistent "not implemented" rather than a
// parse failure indistinguishable from a malformed identifier.
type Mechanism5Scheme struct {
	ID *SchemeID
}

// NewMechanism5Scheme validates the identifier shape for Mechanism 5
// and returns a stub; every operation on it fails with a
// parameter-error naming the missing capability.
func NewMechanism5Scheme(id *SchemeID) (*Mechanism5Scheme, error) {
	if id.Mechanism != 5 {
		return nil, schemeerr.Parameterf("party.NewMechanism5Scheme", "scheme id is not mechanism 5")
	}
	return &Mechanism5Scheme{ID: id}, nil
}

func (*Mechanism5Scheme) Join() error {
	return schemeerr.Parameterf("party.Mechanism5Scheme.Join", "mechanism 5 sign/verify details are out of scope")
}

func (*Mechanism5Scheme) Sign([]byte, []byte) error {
	return schemeerr.Parameterf("party.Mechanism5Scheme.Sign", "mechanism 5 sign/verify details are out of scope")
}

func (*Mechanism5Scheme) Verify([]byte, []byte, []byte) (bool, error) {
	return false, schemeerr.Parameterf("party.Mechanism5Scheme.Verify", "mechanism 5 sign/verify details are out of scope")
}
