package wire

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"
)

// DeriveSessionID hashes the establishment transcript (the two parties'
// public keys and any other session-binding material they agreed on) into
// the 16-byte session identifier every Envelope on this session carries.
func DeriveSessionID(transcript ...[]byte) [16]byte {
	h := blake3.New()
	for _, part := range transcript {
		_, _ = h.Write(part)
	}
	var id [16]byte
	copy(id[:], h.Sum(nil))
	return id
}

// FramingKey is an HKDF-derived key used to authenticate Envelope headers
// against a network-level attacker flipping bits in SessionID, Comparison
// or Kind. The comparison protocol itself remains semi-honest per its
// Non-goals; authenticating the envelope is an ordinary transport-layer
// concern that costs nothing to add on top of that.
type FramingKey [32]byte

// DeriveFramingKey expands a shared secret (e.g. one derived out-of-band
// from the session's key exchange) into a FramingKey via HKDF-SHA256.
func DeriveFramingKey(secret, salt []byte) (FramingKey, error) {
	var key FramingKey
	r := hkdf.New(sha256.New, secret, salt, []byte("secomp/wire/framing-key"))
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return FramingKey{}, fmt.Errorf("wire: derive framing key: %w", err)
	}
	return key, nil
}

// Tag authenticates an Envelope's SessionID, Comparison and Kind header
// fields; Sender and the payload (which is already bound to the
// cryptosystem's own integrity properties) are not covered.
func (k FramingKey) Tag(env Envelope) []byte {
	mac := hmac.New(sha256.New, k[:])
	mac.Write(env.SessionID[:])
	var comparisonBuf [8]byte
	for i := range comparisonBuf {
		comparisonBuf[i] = byte(env.Comparison >> (8 * (7 - i)))
	}
	mac.Write(comparisonBuf[:])
	mac.Write([]byte{byte(env.Kind)})
	return mac.Sum(nil)
}

// Verify reports whether tag authenticates env under k.
func (k FramingKey) Verify(env Envelope, tag []byte) bool {
	return hmac.Equal(k.Tag(env), tag)
}
