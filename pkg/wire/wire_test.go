package wire_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/dgk"
	"github.com/isplab/secomp/pkg/paillier"
	"github.com/isplab/secomp/pkg/party"
	"github.com/isplab/secomp/pkg/wire"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	secret, err := paillier.KeyGen(rand.Reader, 256)
	require.NoError(t, err)
	ct, err := secret.Encrypt(bigint.NewInt(42))
	require.NoError(t, err)

	sessionID := wire.DeriveSessionID([]byte("alice"), []byte("bob"))
	body := wire.NewPaillierCiphertextMessage(ct)
	data, err := wire.Marshal(sessionID, 1, wire.KindPaillierZ, party.Server, body)
	require.NoError(t, err)

	var decoded wire.PaillierCiphertextMessage
	env, err := wire.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, sessionID, env.SessionID)
	assert.Equal(t, uint64(1), env.Comparison)
	assert.Equal(t, wire.KindPaillierZ, env.Kind)
	assert.NoError(t, env.ExpectSender(party.Server))
	assert.Error(t, env.ExpectSender(party.Client))

	plain, err := secret.Decrypt(decoded.Decode())
	require.NoError(t, err)
	assert.Equal(t, int64(42), plain.Big().Int64())
}

func TestDGKCiphertextListRoundTrip(t *testing.T) {
	secret, err := dgk.KeyGen(rand.Reader, 256, bigint.NewInt(1<<10))
	require.NoError(t, err)
	bits := make([]dgk.Ciphertext, 4)
	for i := range bits {
		c, err := secret.Encrypt(bigint.NewInt(int64(i % 2)))
		require.NoError(t, err)
		bits[i] = c
	}

	body := wire.NewDGKCiphertextListMessage(bits)
	data, err := wire.Marshal(wire.DeriveSessionID([]byte("s")), 7, wire.KindDGKBetaBits, party.Client, body)
	require.NoError(t, err)

	var decoded wire.DGKCiphertextListMessage
	env, err := wire.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, wire.KindDGKBetaBits, env.Kind)

	out := decoded.Decode()
	require.Len(t, out, len(bits))
	for i, c := range out {
		plain, err := secret.Decrypt(c)
		require.NoError(t, err)
		assert.Equal(t, int64(i%2), plain.Big().Int64())
	}
}

func TestDeriveSessionIDIsDeterministicAndDomainSeparated(t *testing.T) {
	id1 := wire.DeriveSessionID([]byte("alice"), []byte("bob"))
	id2 := wire.DeriveSessionID([]byte("alice"), []byte("bob"))
	id3 := wire.DeriveSessionID([]byte("bob"), []byte("alice"))

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
}

func TestFramingKeyTagDetectsTampering(t *testing.T) {
	key, err := wire.DeriveFramingKey([]byte("shared-secret"), []byte("salt"))
	require.NoError(t, err)

	env := wire.Envelope{SessionID: wire.DeriveSessionID([]byte("x")), Comparison: 3, Kind: wire.KindPaillierDeltaB, Sender: party.Server}
	tag := key.Tag(env)
	assert.True(t, key.Verify(env, tag))

	tampered := env
	tampered.Comparison = 4
	assert.False(t, key.Verify(tampered, tag))
}
