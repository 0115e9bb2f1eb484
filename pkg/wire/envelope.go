// Package wire defines the message framing the two comparison parties use
// to talk over a real transport: a CBOR-encoded envelope
// (github.com/fxamacker/cbor/v2) tagged with a session ID derived via
// github.com/zeebo/blake3 and, optionally, authenticated against
// bit-flipping with an HKDF-derived framing key.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/isplab/secomp/pkg/party"
)

// Kind identifies which step of the comparison protocol a payload belongs
// to, one of the five message types the protocol exchanges.
type Kind uint8

const (
	KindPaillierZ Kind = iota
	KindPaillierZDivTwoPowL
	KindDGKBetaBits
	KindDGKMaskedTerms
	KindPaillierDeltaB
)

func (k Kind) String() string {
	switch k {
	case KindPaillierZ:
		return "paillier-z"
	case KindPaillierZDivTwoPowL:
		return "paillier-z-div-two-pow-l"
	case KindDGKBetaBits:
		return "dgk-beta-bits"
	case KindDGKMaskedTerms:
		return "dgk-masked-terms"
	case KindPaillierDeltaB:
		return "paillier-delta-b"
	default:
		return fmt.Sprintf("wire.Kind(%d)", uint8(k))
	}
}

// Envelope is the wire framing around one protocol message. SessionID
// binds the message to a specific comparison relationship; Comparison is a
// per-session monotonic counter disambiguating concurrent or replayed
// rounds; Sender names which of the two principals produced the message,
// so a receiver can reject a message claiming to be from itself; Payload
// is the CBOR encoding of the message body itself.
type Envelope struct {
	SessionID  [16]byte `cbor:"1,keyasint"`
	Comparison uint64   `cbor:"2,keyasint"`
	Kind       Kind     `cbor:"3,keyasint"`
	Sender     party.ID `cbor:"4,keyasint"`
	Payload    []byte   `cbor:"5,keyasint"`
}

// Marshal encodes body as the Envelope's Payload and returns the full
// CBOR-encoded envelope.
func Marshal(sessionID [16]byte, comparison uint64, kind Kind, sender party.ID, body any) ([]byte, error) {
	payload, err := cbor.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal payload: %w", err)
	}
	env := Envelope{SessionID: sessionID, Comparison: comparison, Kind: kind, Sender: sender, Payload: payload}
	data, err := cbor.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal envelope: %w", err)
	}
	return data, nil
}

// Unmarshal decodes an Envelope and then its Payload into body.
func Unmarshal(data []byte, body any) (Envelope, error) {
	var env Envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("wire: unmarshal envelope: %w", err)
	}
	if body != nil {
		if err := cbor.Unmarshal(env.Payload, body); err != nil {
			return Envelope{}, fmt.Errorf("wire: unmarshal payload: %w", err)
		}
	}
	return env, nil
}

// ExpectSender returns an error if the envelope was not produced by want,
// guarding against a message being replayed back to its own originator.
func (e Envelope) ExpectSender(want party.ID) error {
	if e.Sender != want {
		return fmt.Errorf("wire: expected sender %s, got %s", want, e.Sender)
	}
	return nil
}
