package securecompare

import (
	"github.com/isplab/secomp/internal/dgkcompare"
	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/paillier"
	"github.com/isplab/secomp/pkg/party"
	"github.com/isplab/secomp/pkg/secerr"
	"github.com/isplab/secomp/pkg/wire"
)

// Client plays the client role of the Paillier-layer comparison: it is
// the only party that ever decrypts an intermediate value, and it drives
// the inner dgkcompare.Client on the Server's behalf.
type Client struct {
	paillierSecret *paillier.SecretKey
	dgkClient      *dgkcompare.Client
	l              int
	sessionID      [16]byte
}

func newClient(paillierSecret *paillier.SecretKey, dgkClient *dgkcompare.Client, l int, sessionID [16]byte) *Client {
	return &Client{paillierSecret: paillierSecret, dgkClient: dgkClient, l: l, sessionID: sessionID}
}

// decrypt unwraps a wire.KindPaillierZ envelope addressed to it, decrypts
// z, and splits the plaintext into z div 2^l and z mod 2^l. The quotient
// is returned re-encrypted and wire-framed as a wire.KindPaillierZDivTwoPowL
// envelope for the caller to hand back to the Server; both return values
// are this round's alone, threaded through the call rather than staged on
// this Client, so concurrent Compare calls on the same Session never see
// each other's intermediate values.
func (c *Client) decrypt(zEnvelope []byte, comparison uint64) (quotientEnvelope []byte, remainder *bigint.Int, err error) {
	var msg wire.PaillierCiphertextMessage
	env, err := wire.Unmarshal(zEnvelope, &msg)
	if err != nil {
		return nil, nil, secerr.New(secerr.ProtocolViolation, "securecompare.Client.decrypt", err)
	}
	if err := env.ExpectSender(party.Server); err != nil {
		return nil, nil, secerr.New(secerr.ProtocolViolation, "securecompare.Client.decrypt", err)
	}

	plain, err := c.paillierSecret.Decrypt(msg.Decode())
	if err != nil {
		return nil, nil, secerr.New(secerr.CryptoFailure, "securecompare.Client.decrypt", err)
	}
	quo, rem := plain.QuoRem(bigint.TwoPow(uint(c.l)))
	enc, err := c.paillierSecret.Encrypt(quo)
	if err != nil {
		return nil, nil, secerr.New(secerr.CryptoFailure, "securecompare.Client.decrypt", err)
	}

	quotientEnvelope, err = wire.Marshal(c.sessionID, comparison, wire.KindPaillierZDivTwoPowL, party.Client, wire.NewPaillierCiphertextMessage(enc))
	if err != nil {
		return nil, nil, secerr.New(secerr.ProtocolViolation, "securecompare.Client.decrypt", err)
	}
	return quotientEnvelope, rem, nil
}

// Decrypt recovers the plaintext of a Paillier ciphertext, typically the
// final comparison result returned by Server.Compare. Only the Client
// side of a Session ever holds the Paillier decryption key.
func (c *Client) Decrypt(ciphertext paillier.Ciphertext) (*bigint.Int, error) {
	m, err := c.paillierSecret.Decrypt(ciphertext)
	if err != nil {
		return nil, secerr.New(secerr.CryptoFailure, "securecompare.Client.Decrypt", err)
	}
	return m, nil
}
