package revocation

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/isogs/bigint"
)

func noopLogger() zerolog.Logger { return zerolog.Nop() }

func TestNonePolicyNeverRevokes(t *testing.T) {
	assert := require.New(t)

	var p None
	revoked, err := p.IsAuthorRevoked([]byte("bsn"), []byte("sig"))
	assert.NoError(err)
	assert.False(revoked)

	assert.Error(p.RequestBlacklistRevocation([]byte("x")))
}

func TestBlacklistingRevokesAfterRequest(t *testing.T) {
	assert := require.New(t)

	bl := NewLocalBlacklisting()
	assert.Equal("bl", bl.Tag())

	entry := []byte("pseudonym-1")
	revoked, err := bl.IsAuthorRevoked(nil, entry)
	assert.NoError(err)
	assert.False(revoked)

	assert.NoError(bl.RequestBlacklistRevocation(entry))

	revoked, err = bl.IsAuthorRevoked(nil, entry)
	assert.NoError(err)
	assert.True(revoked)

	other := []byte("pseudonym-2")
	revoked, err = bl.IsAuthorRevoked(nil, other)
	assert.NoError(err)
	assert.False(revoked)
}

func TestBlacklistingRequestIsIdempotent(t *testing.T) {
	assert := require.New(t)

	bl := NewGlobalBlacklisting()
	entry := []byte("pseudonym")
	assert.NoError(bl.RequestBlacklistRevocation(entry))
	assert.NoError(bl.RequestBlacklistRevocation(entry))
	assert.Len(bl.entries, 1)
}

type stubKeyChecker struct {
	matches map[string]bool
}

func (s stubKeyChecker) MatchesKey(sigIdentity []byte, key *bigint.Int) (bool, error) {
	return s.matches[string(sigIdentity)+key.ToString(10)], nil
}

func TestPrivateKeyRevocationTags(t *testing.T) {
	assert := require.New(t)

	local := NewLocalPrivateKeyRevocation(stubKeyChecker{})
	assert.Equal("lpk", local.Tag())

	global := NewGlobalPrivateKeyRevocation(stubKeyChecker{})
	assert.Equal("gpk", global.Tag())
}

func TestPrivateKeyRevocationMatchesLeakedKey(t *testing.T) {
	assert := require.New(t)

	key := bigint.New(42)
	checker := stubKeyChecker{matches: map[string]bool{"sig-a" + key.ToString(10): true}}
	p := NewLocalPrivateKeyRevocation(checker)

	assert.NoError(p.RequestPrivateKeyRevocation(key))

	revoked, err := p.IsAuthorRevoked(nil, []byte("sig-a"))
	assert.NoError(err)
	assert.True(revoked)

	revoked, err = p.IsAuthorRevoked(nil, []byte("sig-b"))
	assert.NoError(err)
	assert.False(revoked)
}

type stubNonRevocationVerifier struct {
	matchOn string
}

func (s stubNonRevocationVerifier) VerifyResponse(_, response, revokedEntry []byte) (bool, error) {
	return string(response) == s.matchOn && string(revokedEntry) == s.matchOn, nil
}

type stubProver struct {
	response []byte
}

func (s stubProver) RespondNonRevocation([]byte) ([]byte, error) { return s.response, nil }

func TestSignatureRevocationRequiresLiveProver(t *testing.T) {
	assert := require.New(t)

	s := NewLocalSignatureRevocation(stubNonRevocationVerifier{matchOn: "leaked"}, noopLogger())
	assert.NoError(s.RequestSignatureRevocation([]byte("leaked")))

	_, err := s.IsSignatureRevoked([]byte("msg"), []byte("sig"), nil)
	assert.Error(err)
}

func TestSignatureRevocationMatchesChallengeResponse(t *testing.T) {
	assert := require.New(t)

	s := NewGlobalSignatureRevocation(stubNonRevocationVerifier{matchOn: "leaked"}, noopLogger())
	assert.Equal("gs", s.Tag())
	assert.NoError(s.RequestSignatureRevocation([]byte("leaked")))

	revoked, err := s.IsSignatureRevoked([]byte("msg"), []byte("sig"), stubProver{response: []byte("leaked")})
	assert.NoError(err)
	assert.True(revoked)

	revoked, err = s.IsSignatureRevoked([]byte("msg"), []byte("sig"), stubProver{response: []byte("innocent")})
	assert.NoError(err)
	assert.False(revoked)
}

type stubUpdater struct {
	called   bool
	invert   bool
	affected int
}

func (s *stubUpdater) RecomputeRatio(invert bool, affected [][]byte) error {
	s.called = true
	s.invert = invert
	s.affected = len(affected)
	return nil
}

func TestCredentialUpdateDelegatesToUpdater(t *testing.T) {
	assert := require.New(t)

	updater := &stubUpdater{}
	cu := NewCredentialUpdate(updater, noopLogger())
	assert.Equal("cu", cu.Tag())

	assert.NoError(cu.OnCredentialUpdate(true, [][]byte{[]byte("a"), []byte("b")}))
	assert.True(updater.called)
	assert.True(updater.invert)
	assert.Equal(2, updater.affected)
}

func TestFromTagCoversCollaboratorFreePolicies(t *testing.T) {
	assert := require.New(t)

	p, err := FromTag("nr", false)
	assert.NoError(err)
	assert.Equal("nr", p.Tag())

	p, err = FromTag("bl", true)
	assert.NoError(err)
	assert.Equal("bl", p.Tag())

	_, err = FromTag("lpk", false)
	assert.Error(err)

	_, err = FromTag("unknown", false)
	assert.Error(err)
}
