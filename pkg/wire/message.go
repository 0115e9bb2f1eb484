package wire

import (
	"github.com/isplab/secomp/pkg/dgk"
	"github.com/isplab/secomp/pkg/paillier"
)

// PaillierCiphertextMessage carries a single Paillier ciphertext: the body
// of KindPaillierZ, KindPaillierZDivTwoPowL and KindPaillierDeltaB.
type PaillierCiphertextMessage struct {
	Ciphertext []byte `cbor:"1,keyasint"`
}

// NewPaillierCiphertextMessage wraps c for transmission.
func NewPaillierCiphertextMessage(c paillier.Ciphertext) PaillierCiphertextMessage {
	return PaillierCiphertextMessage{Ciphertext: c.Bytes()}
}

// Decode rebuilds the Paillier ciphertext carried by the message.
func (m PaillierCiphertextMessage) Decode() paillier.Ciphertext {
	return paillier.CiphertextFromBytes(m.Ciphertext)
}

// DGKCiphertextListMessage carries an ordered list of DGK ciphertexts: the
// body of KindDGKBetaBits (the client's bit encryptions) and
// KindDGKMaskedTerms (the server's masked, permuted per-bit terms).
type DGKCiphertextListMessage struct {
	Ciphertexts [][]byte `cbor:"1,keyasint"`
}

// NewDGKCiphertextListMessage wraps a slice of DGK ciphertexts for
// transmission, in the given order.
func NewDGKCiphertextListMessage(cs []dgk.Ciphertext) DGKCiphertextListMessage {
	out := make([][]byte, len(cs))
	for i, c := range cs {
		out[i] = c.Bytes()
	}
	return DGKCiphertextListMessage{Ciphertexts: out}
}

// Decode rebuilds the ordered list of DGK ciphertexts carried by the
// message.
func (m DGKCiphertextListMessage) Decode() []dgk.Ciphertext {
	out := make([]dgk.Ciphertext, len(m.Ciphertexts))
	for i, b := range m.Ciphertexts {
		out[i] = dgk.CiphertextFromBytes(b)
	}
	return out
}
