package mechanism4

import (
	"io"

	"github.com/nume-crypto/isogs/revocation"
)

// MemberState tracks a prospective member through the join handshake
// (spec §4.H "Join protocol" state machine): Nascent has drawn no
// secret yet, JoinPending has sent a request and awaits the issuer's
// credential, Joined holds a verified SignatureKey. A failed
// verification at any step returns the member to the state it held
// before that step, carrying the failure reason.
type MemberState int

const (
	Nascent MemberState = iota
	JoinPending
	Joined
)

// GroupState tracks the issuer side: Init has run no joins yet,
// GroupOpen accepts new members, GroupOpenPrime indicates the group
// key has been rotated by a credential update and members issued
// before the rotation need their A rescaled before they verify again.
type GroupState int

const (
	Init GroupState = iota
	GroupOpen
	GroupOpenPrime
)

// Scheme bundles the group's public parameters for a running instance.
type Scheme struct {
	Pub   *PublicKey
	Rnd   io.Reader
	State GroupState
}

// Issuer holds the issuing private key and the credential registry
// backing credential-update revocation.
type Issuer struct {
	Scheme   *Scheme
	Priv     *PrivateKey
	Registry *CredentialRegistry
}

// Member drives one prospective member through the join state machine.
type Member struct {
	Scheme *Scheme
	State  MemberState
	secret *MemberSecret
	req    *JoinRequest
	Key    *SignatureKey
	err    error
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

// NewScheme runs GroupSetup and returns a Scheme, the issuer's private
// key, and a registry tracking issued credentials for credential-update
// revocation.
func NewScheme(rnd io.Reader) (*Scheme, *Issuer, error) {
	pub, priv, err := GroupSetup(rnd)
	if err != nil {
		return nil, nil, err
	}
	scheme := &Scheme{Pub: pub, Rnd: rnd, State: GroupOpen}
	issuer := &Issuer{Scheme: scheme, Priv: priv, Registry: NewCredentialRegistry(pub, priv)}
	return scheme, issuer, nil
}

// NewMember starts a fresh join attempt in the Nascent state.
func NewMember(scheme *Scheme) *Member {
	return &Member{Scheme: scheme, State: Nascent}
}

// Start draws the member's secret and produces the join request,
// advancing Nascent -> JoinPending. On failure the member stays
// Nascent.
func (m *Member) Start() (*JoinRequest, error) {
	req, secret, err := ProverJoinStart(m.Scheme.Pub, m.Scheme.Rnd)
	if err != nil {
		m.err = err
		return nil, err
	}
	m.req, m.secret = req, secret
	m.State = JoinPending
	return req, nil
}

// Finish consumes the issuer's credential, advancing JoinPending ->
// Joined. On failure the member falls back to JoinPending so Start
// need not be re-run.
func (m *Member) Finish(cred *Credential) (*Signer, error) {
	key, err := ProverFinishJoin(m.Scheme.Pub, m.req, m.secret, cred)
	if err != nil {
		m.err = err
		return nil, err
	}
	m.Key = key
	m.State = Joined
	return &Signer{Scheme: m.Scheme, Key: key}, nil
}

// Join drives the full three-message handshake in-process between a
// fresh member and the issuer (spec §4.H "Join protocol"). A networked
// deployment would instead drive Member.Start/Finish and
// IssuerJoinCredential independently across the wire.
func Join(scheme *Scheme, issuer *Issuer) (*Signer, error) {
	member := NewMember(scheme)
	req, err := member.Start()
	if err != nil {
		return nil, err
	}
	cred, err := IssuerJoinCredential(scheme.Pub, issuer.Priv, req, scheme.Rnd)
	if err != nil {
		return nil, err
	}
	signer, err := member.Finish(cred)
	if err != nil {
		return nil, err
	}
	identity, err := EncodeIdentity(scheme.Pub.Suite.G1.Fq, nil, signer.Key.C)
	if err == nil {
		issuer.Registry.Track(identity, cred, signer.Key.C)
	}
	return signer, nil
}

// Sign produces a signature over message under bsn.
func (s *Signer) Sign(bsn, message []byte) (*Signature, error) {
	return Sign(s.Scheme.Pub, s.Key, bsn, message, s.Scheme.Rnd)
}

// Verify checks sig and, when the verifier's policy tracks author or
// signature revocation, additionally enforces it.
func (v *Verifier) Verify(bsn, message []byte, sig *Signature, prover revocation.Prover) (bool, error) {
	ok, err := Verify(v.Scheme.Pub, bsn, message, sig)
	if err != nil || !ok {
		return ok, err
	}
	if v.Policy == nil {
		return true, nil
	}
	identity, err := EncodeIdentity(v.Scheme.Pub.Suite.G1.Fq, bsn, sig.T4)
	if err != nil {
		return false, err
	}
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
