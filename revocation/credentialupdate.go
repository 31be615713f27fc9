package revocation

import (
	"github.com/rs/zerolog"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/schemeerr"
)

// CredentialUpdater re-derives a surviving member's credential ratio
// when the issuer retires or restores a member's contribution to the
// group public key (Mechanism 4's x'/x recompute of spec §4.H).
type CredentialUpdater interface {
	RecomputeRatio(invert bool, affected [][]byte) error
}

// CredentialUpdate is the issuer-driven, global-only policy of spec
// §4.I: revocation happens by updating the group public key and every
// remaining member's credential rather than by a verifier-side check,
// so IsAuthorRevoked/IsSignatureRevoked are trivially false — exclusion
// is enforced structurally (a revoked member's credential no longer
// verifies against the updated key), not by a revocation-list lookup.
type CredentialUpdate struct {
	updater CredentialUpdater
	log     zerolog.Logger
}

func NewCredentialUpdate(updater CredentialUpdater, log zerolog.Logger) *CredentialUpdate {
	return &CredentialUpdate{updater: updater, log: log}
}

func (CredentialUpdate) Tag() string { return "cu" }

func (CredentialUpdate) IsAuthorRevoked([]byte, []byte) (bool, error) { return false, nil }

func (CredentialUpdate) IsSignatureRevoked([]byte, []byte, Prover) (bool, error) {
	return false, nil
}

func (CredentialUpdate) RequestBlacklistRevocation([]byte) error {
	return schemeerr.Policyf("revocation.CredentialUpdate", "blacklist revocation not supported under credential-update policy")
}

func (CredentialUpdate) RequestPrivateKeyRevocation(*bigint.Int) error {
	return schemeerr.Policyf("revocation.CredentialUpdate", "private-key revocation not supported under credential-update policy")
}

func (CredentialUpdate) RequestSignatureRevocation([]byte) error {
	return schemeerr.Policyf("revocation.CredentialUpdate", "signature revocation not supported under credential-update policy")
}

func (c *CredentialUpdate) OnCredentialUpdate(invert bool, affected [][]byte) error {
	c.log.Info().Bool("invert", invert).Int("affected", len(affected)).Msg("credential update")
	return c.updater.RecomputeRatio(invert, affected)
}
