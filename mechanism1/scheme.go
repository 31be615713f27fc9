package mechanism1

import (
	"io"

	"github.com/nume-crypto/isogs/revocation"
)

// Scheme bundles the group's public parameters for a running instance
// (spec §3 "a scheme owns its public and private parameters, the
// random source, and pools").
type Scheme struct {
	Pub    *PublicKey
	Params Params
	Rnd    io.Reader
}

// Issuer holds the issuing private key alongside a Scheme view.
type Issuer struct {
	Scheme *Scheme
	Priv   *PrivateKey
}

// Signer holds a joined member's signature key.
type Signer struct {
	Scheme *Scheme
	Key    *SignatureKey
}

// Verifier holds the revocation policy a verifying party enforces in
// addition to the plain Verify check.
type Verifier struct {
	Scheme *Scheme
	Policy revocation.Policy
}

// NewScheme runs GroupSetup and returns a Scheme plus the issuer's
// private key.
func NewScheme(params Params, rnd io.Reader) (*Scheme, *PrivateKey, error) {
	pub, priv, err := GroupSetup(params, rnd)
	if err != nil {
		return nil, nil, err
	}
	return &Scheme{Pub: pub, Params: params, Rnd: rnd}, priv, nil
}

// Join drives the full four-message handshake between a fresh prover
// and the issuer in-process (spec §4.G "Join protocol"), returning the
// joined signer's SignatureKey. A networked deployment would instead
// transmit JoinRequest/JoinChallenge/JoinResponse/Credential across
// the wire between independently-driven prover and issuer sides.
func Join(scheme *Scheme, issuer *Issuer) (*Signer, error) {
	req, err := ProverJoinStart(scheme.Pub, scheme.Params, scheme.Rnd)
	if err != nil {
		return nil, err
	}
	ch, err := IssuerJoinChallenge(scheme.Pub, issuer.Priv, scheme.Params, req, scheme.Rnd)
	if err != nil {
		return nil, err
	}
	resp, err := ProverJoinFinish(scheme.Pub, scheme.Params, req, ch, scheme.Rnd)
	if err != nil {
		return nil, err
	}
	cred, err := IssuerJoinCredential(scheme.Pub, issuer.Priv, scheme.Params, req, resp, scheme.Rnd)
	if err != nil {
		return nil, err
	}
	key, err := ProverVerifyCredential(scheme.Pub, resp, cred)
	if err != nil {
		return nil, err
	}
	return &Signer{Scheme: scheme, Key: key}, nil
}

// Sign produces a signature over message under bsn.
func (s *Signer) Sign(bsn, message []byte) (*Signature, error) {
	return Sign(s.Scheme.Pub, s.Scheme.Params, s.Key, bsn, message, s.Scheme.Rnd)
}

// Verify checks sig and, when the verifier's policy tracks author or
// signature revocation, additionally enforces it.
func (v *Verifier) Verify(bsn, message []byte, sig *Signature, prover revocation.Prover) (bool, error) {
	ok, err := Verify(v.Scheme.Pub, v.Scheme.Params, bsn, message, sig)
	if err != nil || !ok {
		return ok, err
	}
	if v.Policy == nil {
		return true, nil
	}
	identity := EncodeIdentity(bsn, sig.T4)
	revokedAuthor, err := v.Policy.IsAuthorRevoked(bsn, identity)
	if err != nil {
		return false, err
	}
	if revokedAuthor {
		return false, nil
	}
	revokedSig, err := v.Policy.IsSignatureRevoked(message, identity, prover)
	if err != nil {
		return false, err
	}
	return !revokedSig, nil
}
