// Package dgkcompare implements the DGK bit-comparison sub-protocol: given
// a server-held l-bit integer alpha and a client-held l-bit integer beta,
// it produces an encrypted bit [t] under the Paillier key, t = 1 iff
// alpha > beta.
//
// The construction follows Damgard, Geisler & Kroigaard's comparison
// protocol as corrected by Veugen ("Improving the DGK comparison
// protocol", 2012): alongside the l per-bit terms c_0..c_{l-1}, the server
// computes one extra term c_{-1} that zeroes out only when alpha equals
// beta and the server's random sign is +1, which is why the DGK mask tuple carries l+1 masks R_{-1..l-1}
// rather than l.
package dgkcompare

import (
	"fmt"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/dgk"
	"github.com/isplab/secomp/pkg/paillier"
	"github.com/isplab/secomp/pkg/secerr"
)

// Client plays the client role of the DGK comparison: it bit-encrypts its
// operand at the start of a round and, at the end, decrypts the server's
// masked terms and reports an encrypted equality-found bit. It holds the
// DGK decryption key and the Paillier public key (to re-encrypt its
// report), never the Paillier decryption key — that belongs to the outer
// securecompare.Client.
type Client struct {
	dgkSecret   *dgk.SecretKey
	paillierPub *paillier.PublicKey
	l           int
}

// NewClient constructs a DGK comparison client role.
func NewClient(dgkSecret *dgk.SecretKey, paillierPub *paillier.PublicKey, l int) *Client {
	return &Client{dgkSecret: dgkSecret, paillierPub: paillierPub, l: l}
}

// EncryptBitsOfOperand returns DGK encryptions of the l bits of beta,
// least-significant first. beta is passed in by the caller for this round
// alone rather than staged on the Client, so that concurrent Compare calls
// on the same Client never share or clobber each other's operand.
func (c *Client) EncryptBitsOfOperand(beta *bigint.Int) ([]dgk.Ciphertext, error) {
	if beta.Sign() < 0 || beta.BitLen() > c.l {
		return nil, secerr.New(secerr.PrecisionBound, "dgkcompare.Client.EncryptBitsOfOperand", nil)
	}
	bits := make([]dgk.Ciphertext, c.l)
	for i := 0; i < c.l; i++ {
		bit := bigint.NewInt(int64(beta.Bit(uint(i))))
		enc, err := c.dgkSecret.PublicKey.Encrypt(bit)
		if err != nil {
			return nil, secerr.New(secerr.CryptoFailure, "dgkcompare.Client.EncryptBitsOfOperand", err)
		}
		bits[i] = enc
	}
	return bits, nil
}

// ResolveMaskedTerms decrypts each of the server's masked, permuted terms.
// If any decrypts to zero, the comparison found its answer (deltaB=1);
// otherwise deltaB=0. The result is returned re-encrypted under Paillier.
// The client never learns which index, if any, decrypted to zero beyond
// this single bit, nor the plaintext operand the server used.
func (c *Client) ResolveMaskedTerms(masked []dgk.Ciphertext) (paillier.Ciphertext, error) {
	deltaB := int64(0)
	for _, term := range masked {
		zero, err := c.dgkSecret.IsZero(term)
		if err != nil {
			return paillier.Ciphertext{}, secerr.New(secerr.CryptoFailure, "dgkcompare.Client.ResolveMaskedTerms", err)
		}
		if zero {
			deltaB = 1
			break
		}
	}
	enc, err := c.paillierPub.Encrypt(bigint.NewInt(deltaB))
	if err != nil {
		return paillier.Ciphertext{}, secerr.New(secerr.CryptoFailure, "dgkcompare.Client.ResolveMaskedTerms", fmt.Errorf("encrypting delta_b: %w", err))
	}
	return enc, nil
}
