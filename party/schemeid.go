// Package party implements Component J: the Issuer/Signer/Verifier/
// Linker roles shared across mechanisms, and the scheme-identifier
// factory of spec §6 that ties a mechanism implementation to a
// revocation policy and, for Mechanisms 4/5, a representation choice.
package party

import (
	"strings"

	"github.com/blang/semver/v4"

	"github.com/nume-crypto/isogs/schemeerr"
)

// IdentifierVersion is the version of the scheme-identifier grammar
// this package parses. Bumped whenever spec §6's identifier shape
// changes incompatibly, so two deployments can reject a handshake
// before either side tries (and fails) to parse the other's identifier.
var IdentifierVersion = semver.MustParse("1.0.0")

// Representation records the field backing and scalar-mult strategy a
// Mechanism-4/5 identifier names (spec §6 "mont-*"/"{affine,mixed}").
// NewMechanism4Scheme applies Mixed to G1 and G2; Montgomery and
// FixedWidth are recorded only, as Mechanism 4 always builds its fields
// in Montgomery form.
type Representation struct {
	Montgomery bool
	FixedWidth bool
	Mixed      bool
}

// SchemeID is the parsed form of an identifier string of the shape
// `m{1,4,5}-{nr|bl|lpk|gpk|ls|gs|cu}[-{bigint|mont-bigint|fixedwidth|mont-fixedwidth}-{affine|mixed}]`
// (spec §6 "Scheme identifiers").
type SchemeID struct {
	Mechanism int
	PolicyTag string
	Rep       Representation
}

var validPolicyTags = map[string]bool{
	"nr": true, "bl": true, "lpk": true, "gpk": true,
	"ls": true, "gs": true, "cu": true,
}

// ParseSchemeID parses id per spec §6. Mechanism 1 accepts only
// `mN-POLICY` (BigInt arithmetic only, no representation suffix);
// Mechanisms 4 and 5 accept the optional representation suffix.
func ParseSchemeID(id string) (*SchemeID, error) {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return nil, schemeerr.Parameterf("party.ParseSchemeID", "malformed scheme identifier %q", id)
	}

	mechanism, err := parseMechanism(parts[0])
	if err != nil {
		return nil, err
	}

	policy := parts[1]
	if !validPolicyTags[policy] {
		return nil, schemeerr.Parameterf("party.ParseSchemeID", "unknown policy tag %q", policy)
	}

	switch len(parts) {
	case 2:
		return &SchemeID{Mechanism: mechanism, PolicyTag: policy}, nil
	case 4, 5:
		if mechanism == 1 {
			return nil, schemeerr.Parameterf("party.ParseSchemeID", "mechanism 1 uses BigInt arithmetic only, no representation suffix")
		}
		fieldTag := parts[2]
		if len(parts) == 5 {
			fieldTag = parts[2] + "-" + parts[3]
		}
		rep, err := parseRepresentation(fieldTag, parts[len(parts)-1])
		if err != nil {
			return nil, err
		}
		return &SchemeID{Mechanism: mechanism, PolicyTag: policy, Rep: rep}, nil
	default:
		return nil, schemeerr.Parameterf("party.ParseSchemeID", "malformed scheme identifier %q", id)
	}
}

// CompatibleIdentifierVersion reports whether a peer advertising
// version peerVersion speaks a mutually-understandable dialect of the
// scheme-identifier grammar: same major version as IdentifierVersion.
func CompatibleIdentifierVersion(peerVersion string) (bool, error) {
	peer, err := semver.Parse(peerVersion)
	if err != nil {
		return false, schemeerr.Parameterf("party.CompatibleIdentifierVersion", "malformed peer version %q: %v", peerVersion, err)
	}
	return peer.Major == IdentifierVersion.Major, nil
}

func parseMechanism(tag string) (int, error) {
	if !strings.HasPrefix(tag, "m") {
		return 0, schemeerr.Parameterf("party.ParseSchemeID", "missing mechanism prefix in %q", tag)
	}
	switch tag[1:] {
	case "1":
		return 1, nil
	case "4":
		return 4, nil
	case "5":
		return 5, nil
	default:
		return 0, schemeerr.Parameterf("party.ParseSchemeID", "unknown mechanism %q", tag)
	}
}

func parseRepresentation(fieldTag, scalarTag string) (Representation, error) {
	var rep Representation
	switch fieldTag {
	case "bigint":
	case "mont-bigint":
		rep.Montgomery = true
	case "fixedwidth":
		rep.FixedWidth = true
	case "mont-fixedwidth":
		rep.FixedWidth = true
		rep.Montgomery = true
	default:
		return rep, schemeerr.Parameterf("party.ParseSchemeID", "unknown field representation %q", fieldTag)
	}
	switch scalarTag {
	case "affine":
	case "mixed":
		rep.Mixed = true
	default:
		return rep, schemeerr.Parameterf("party.ParseSchemeID", "unknown scalar-mult strategy %q", scalarTag)
	}
	return rep, nil
}
