package party

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/nume-crypto/isogs/schemeerr"
)

// DebugSnapshot is a diagnostic dump of a Scheme's identifying state,
// meant for support bundles and incident reports — never for
// reconstructing live key material, which stays behind the mechanism
// packages' own types.
type DebugSnapshot struct {
	Mechanism    int
	PolicyTag    string
	Rep          Representation
	TrackedCount int
}

// Snapshot captures the scheme's current identity and bookkeeping size
// into a DebugSnapshot.
func (s *Scheme) Snapshot() DebugSnapshot {
	snap := DebugSnapshot{Mechanism: s.ID.Mechanism, PolicyTag: s.ID.PolicyTag, Rep: s.ID.Rep}
	if s.M4 != nil && s.M4.Issuer != nil && s.M4.Issuer.Registry != nil {
		snap.TrackedCount = s.M4.Issuer.Registry.Len()
	}
	return snap
}

// EncodeDebugSnapshot serializes snap to CBOR for inclusion in a
// support bundle.
func EncodeDebugSnapshot(snap DebugSnapshot) ([]byte, error) {
	b, err := cbor.Marshal(snap)
	if err != nil {
		return nil, schemeerr.Wrap(schemeerr.ParameterError, "party.EncodeDebugSnapshot", err)
	}
	return b, nil
}

// DecodeDebugSnapshot parses a CBOR blob produced by
// EncodeDebugSnapshot back into a DebugSnapshot.
func DecodeDebugSnapshot(blob []byte) (DebugSnapshot, error) {
	var snap DebugSnapshot
	if err := cbor.Unmarshal(blob, &snap); err != nil {
		return DebugSnapshot{}, schemeerr.Wrap(schemeerr.ParameterError, "party.DecodeDebugSnapshot", err)
	}
	return snap, nil
}
