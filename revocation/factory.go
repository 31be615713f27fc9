package revocation

import "github.com/nume-crypto/isogs/schemeerr"

// FromTag instantiates the policy named by a scheme-identifier
// revocation segment (spec §6: nr|bl|lpk|gpk|ls|gs|cu). Policies that
// need mechanism-specific collaborators (LeakedKeyChecker,
// NonRevocationVerifier, CredentialUpdater) are constructed directly
// by callers that hold those collaborators; FromTag only covers the
// collaborator-free cases (none and blacklisting).
func FromTag(tag string, global bool) (Policy, error) {
	switch tag {
	case "nr":
		return None{}, nil
	case "bl":
		if global {
			return NewGlobalBlacklisting(), nil
		}
		return NewLocalBlacklisting(), nil
	case "lpk", "gpk", "ls", "gs", "cu":
		return nil, schemeerr.Parameterf("revocation.FromTag", "policy %q requires a mechanism-specific collaborator; construct it directly", tag)
	default:
		return nil, schemeerr.Parameterf("revocation.FromTag", "unrecognized revocation policy tag %q", tag)
	}
}
