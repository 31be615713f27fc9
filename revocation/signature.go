package revocation

import (
	"github.com/rs/zerolog"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/schemeerr"
)

// NonRevocationVerifier checks a prover's response to a non-revocation
// challenge against a revoked entry, mechanism-specifically (Mechanism
// 4's non-revocation proof of spec §4.H).
type NonRevocationVerifier interface {
	VerifyResponse(challenge, response, revokedEntry []byte) (bool, error)
}

// SignatureRevocation revokes specific signatures (rather than whole
// authors) and, per spec §4.I, requires a live non-revocation
// interaction with the signer to decide IsSignatureRevoked — this
// changes the verifier's API shape relative to every other policy,
// which is why Prover is threaded through the Policy interface itself
// rather than bolted on separately.
type SignatureRevocation struct {
	global   bool
	verifier NonRevocationVerifier
	revoked  [][]byte
	log      zerolog.Logger
}

func NewLocalSignatureRevocation(verifier NonRevocationVerifier, log zerolog.Logger) *SignatureRevocation {
	return &SignatureRevocation{global: false, verifier: verifier, log: log}
}

func NewGlobalSignatureRevocation(verifier NonRevocationVerifier, log zerolog.Logger) *SignatureRevocation {
	return &SignatureRevocation{global: true, verifier: verifier, log: log}
}

func (s *SignatureRevocation) Tag() string {
	if s.global {
		return "gs"
	}
	return "ls"
}

func (s *SignatureRevocation) IsAuthorRevoked([]byte, []byte) (bool, error) { return false, nil }

func (s *SignatureRevocation) IsSignatureRevoked(message []byte, sigIdentity []byte, prover Prover) (bool, error) {
	if prover == nil {
		return false, schemeerr.Policyf("revocation.SignatureRevocation", "signature revocation requires a live prover reference")
	}
	for _, entry := range s.revoked {
		challenge := append(append([]byte{}, message...), sigIdentity...)
		response, err := prover.RespondNonRevocation(challenge)
		if err != nil {
			return false, err
		}
		match, err := s.verifier.VerifyResponse(challenge, response, entry)
		if err != nil {
			return false, err
		}
		if match {
			s.log.Debug().Msg("non-revocation challenge matched a revoked entry")
			return true, nil
		}
	}
	return false, nil
}

func (s *SignatureRevocation) RequestBlacklistRevocation([]byte) error {
	return schemeerr.Policyf("revocation.SignatureRevocation", "blacklist revocation not supported under signature policy")
}

func (s *SignatureRevocation) RequestPrivateKeyRevocation(*bigint.Int) error {
	return schemeerr.Policyf("revocation.SignatureRevocation", "private-key revocation not supported under signature policy")
}

func (s *SignatureRevocation) RequestSignatureRevocation(sigIdentity []byte) error {
	s.revoked = append(s.revoked, sigIdentity)
	return nil
}
