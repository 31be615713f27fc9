// Package revocation implements the tagged policy taxonomy of spec
// §4.I: none, local/global blacklisting, local/global private-key
// revocation, local/global signature revocation, and issuer-driven
// global credential-update revocation.
//
// Every constructor call returns an independent instance, local or
// global; the global flag affects nothing but the Tag ("gpk"/"gs"
// versus "lpk"/"ls"; Blacklisting is "bl" either way). The package keeps no
// shared or singleton instance: verifiers share a global policy only
// by holding the same instance.
package revocation

import (
	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/schemeerr"
	"golang.org/x/exp/slices"
)

// Prover is the minimal interface a revocation policy needs against a
// live signer to run a non-revocation challenge/response (signature
// revocation requires a live prover reference per spec §4.I).
type Prover interface {
	RespondNonRevocation(challenge []byte) ([]byte, error)
}

// Policy is the common interface every revocation mode exposes to
// verifier and issuer.
type Policy interface {
	// Tag identifies the policy for scheme-identifier round-tripping
	// (spec §6, "nr|bl|lpk|gpk|ls|gs|cu").
	Tag() string

	// IsAuthorRevoked checks the author of a signature against
	// whatever per-mechanism identity material this policy tracks
	// (linking-base-keyed T4, leaked private-key list, etc.).
	IsAuthorRevoked(bsn []byte, sigIdentity []byte) (bool, error)

	// IsSignatureRevoked additionally consults a live prover when the
	// policy requires an interactive non-revocation proof.
	IsSignatureRevoked(message []byte, sigIdentity []byte, prover Prover) (bool, error)

	RequestBlacklistRevocation(entry []byte) error
	RequestPrivateKeyRevocation(key *bigint.Int) error
	RequestSignatureRevocation(sigIdentity []byte) error
}

// CredentialUpdatePolicy additionally exposes the issuer-driven
// credential-update hook.
type CredentialUpdatePolicy interface {
	Policy
	OnCredentialUpdate(invert bool, affected [][]byte) error
}

// None never revokes anyone.
type None struct{}

func (None) Tag() string { return "nr" }
func (None) IsAuthorRevoked([]byte, []byte) (bool, error)          { return false, nil }
func (None) IsSignatureRevoked([]byte, []byte, Prover) (bool, error) { return false, nil }
func (None) RequestBlacklistRevocation([]byte) error {
	return schemeerr.Policyf("revocation.None", "blacklist revocation not supported under policy nr")
}
func (None) RequestPrivateKeyRevocation(*bigint.Int) error {
	return schemeerr.Policyf("revocation.None", "private-key revocation not supported under policy nr")
}
func (None) RequestSignatureRevocation([]byte) error {
	return schemeerr.Policyf("revocation.None", "signature revocation not supported under policy nr")
}

// Blacklisting revokes by an opaque identity token (e.g. a linking-base
// keyed pseudonym such as Mechanism-1's T4). Each instance, local or
// global, keeps its own list.
type Blacklisting struct {
	global  bool
	entries [][]byte
}

func NewLocalBlacklisting() *Blacklisting  { return &Blacklisting{global: false} }
func NewGlobalBlacklisting() *Blacklisting { return &Blacklisting{global: true} }

// Tag is "bl" regardless of locality: the scheme-identifier grammar
// (spec §6) does not distinguish local from global blacklisting, only
// the constructor does.
func (b *Blacklisting) Tag() string { return "bl" }

func (b *Blacklisting) IsAuthorRevoked(_ []byte, sigIdentity []byte) (bool, error) {
	for _, e := range b.entries {
		if slices.Equal(e, sigIdentity) {
			return true, nil
		}
	}
	return false, nil
}

func (b *Blacklisting) IsSignatureRevoked([]byte, []byte, Prover) (bool, error) { return false, nil }

func (b *Blacklisting) RequestBlacklistRevocation(entry []byte) error {
	idx, found := slices.BinarySearchFunc(b.entries, entry, compareBytes)
	if found {
		return nil
	}
	b.entries = slices.Insert(b.entries, idx, entry)
	return nil
}

func (b *Blacklisting) RequestPrivateKeyRevocation(*bigint.Int) error {
	return schemeerr.Policyf("revocation.Blacklisting", "private-key revocation not supported under blacklisting policy")
}

func (b *Blacklisting) RequestSignatureRevocation([]byte) error {
	return schemeerr.Policyf("revocation.Blacklisting", "signature revocation not supported under blacklisting policy")
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}
