// Package dgk implements the DGK (Damgard-Geisler-Kroigaard) additively
// homomorphic cryptosystem used by the bit-comparison sub-protocol. It
// satisfies cryptosystem.Capability[Ciphertext], the same trait pkg/paillier
// implements. internal/dgkcompare and randomizer.NewDGKMaskTupleFactory use
// this package's concrete *PublicKey rather than the generic trait.
//
// Simplification: the published DGK scheme buys cheap equality-to-zero
// tests by encrypting into a small plaintext group Z_u and decrypting via
// a discrete-log search table (or CRT, depending on revision) rather than
// Paillier's direct L(.)*mu formula. Building that search table is a
// performance optimization for a capability this comparison protocol
// treats as an external black box; this package instead reuses the same
// Paillier-style Z*_{n^2} construction with its own, independently
// generated keypair, which decrypts exactly and is therefore simpler to
// verify for correctness. See DESIGN.md for the full rationale.
package dgk

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/cryptosystem"
)

// Ciphertext is an element of the DGK ciphertext group.
type Ciphertext struct {
	c *bigint.Int
}

var (
	_ cryptosystem.Capability[Ciphertext] = (*PublicKey)(nil)
	_ cryptosystem.Decrypter[Ciphertext]  = (*SecretKey)(nil)
)

// Bytes returns the big-endian encoding of the ciphertext.
func (c Ciphertext) Bytes() []byte {
	return c.c.Bytes()
}

// CiphertextFromBytes rebuilds a Ciphertext from its wire encoding.
func CiphertextFromBytes(buf []byte) Ciphertext {
	return Ciphertext{c: bigint.FromBytes(buf)}
}

// PublicKey is the DGK public key.
type PublicKey struct {
	N       *bigint.Int
	G       *bigint.Int
	U       *bigint.Int // bound on the plaintext values this key is used for
	nSquare *bigint.Int
}

// SecretKey holds the DGK decryption trapdoor, held only by the comparison
// Client alongside the Paillier secret key.
type SecretKey struct {
	*PublicKey
	Lambda *bigint.Int
	Mu     *bigint.Int
}

// DefaultBits is the modulus size used when none is specified: DGK
// ciphertexts in this protocol only ever carry values bounded by a small
// multiple of l, so a smaller key than the Paillier layer's is sufficient
// and keeps the per-comparison DGK round cheap.
const DefaultBits = 512

// KeyGen generates a fresh DGK key pair. u bounds the plaintext values
// that will ever be encrypted under this key; it is stored as PublicKey.U
// and is not used for any reduction or sampling in this package
// (NonZeroResidue samples from [1, N)).
func KeyGen(random io.Reader, bits int, u *bigint.Int) (*SecretKey, error) {
	if bits <= 0 {
		bits = DefaultBits
	}
	primeBits := bits / 2
	for {
		p, err := rand.Prime(random, primeBits)
		if err != nil {
			return nil, fmt.Errorf("dgk: KeyGen: %w", err)
		}
		q, err := rand.Prime(random, primeBits)
		if err != nil {
			return nil, fmt.Errorf("dgk: KeyGen: %w", err)
		}
		if p.Cmp(q) == 0 {
			continue
		}
		n := new(big.Int).Mul(p, q)
		pMinus1 := new(big.Int).Sub(p, big.NewInt(1))
		qMinus1 := new(big.Int).Sub(q, big.NewInt(1))
		lambda := new(big.Int).Mul(pMinus1, qMinus1)
		if new(big.Int).GCD(nil, nil, n, lambda).Cmp(big.NewInt(1)) != 0 {
			continue
		}
		g := new(big.Int).Add(n, big.NewInt(1))
		nSquare := new(big.Int).Mul(n, n)
		mu := new(big.Int).ModInverse(lambda, n)
		if mu == nil {
			continue
		}
		pub := &PublicKey{
			N:       bigint.FromBig(n),
			G:       bigint.FromBig(g),
			U:       u,
			nSquare: bigint.FromBig(nSquare),
		}
		return &SecretKey{
			PublicKey: pub,
			Lambda:    bigint.FromBig(lambda),
			Mu:        bigint.FromBig(mu),
		}, nil
	}
}

// EncryptWithR encrypts m with explicit randomness r.
func (pk *PublicKey) EncryptWithR(m, r *bigint.Int) (Ciphertext, error) {
	gm := pk.G.Exp(m, pk.nSquare)
	rn := r.Exp(pk.N, pk.nSquare)
	return Ciphertext{c: gm.Mul(rn).Mod(pk.nSquare)}, nil
}

// Encrypt produces a freshly randomized encryption of m.
func (pk *PublicKey) Encrypt(m *bigint.Int) (Ciphertext, error) {
	r, err := bigint.NonZeroBelow(rand.Reader, pk.N)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("dgk: Encrypt: %w", err)
	}
	return pk.EncryptWithR(m, r)
}

// EncryptNonrandom encrypts m with r=1. See cryptosystem.Capability's
// precondition: never send this over the wire without re-randomizing it
// first via a homomorphic combination.
func (pk *PublicKey) EncryptNonrandom(m *bigint.Int) (Ciphertext, error) {
	return pk.EncryptWithR(m, bigint.NewInt(1))
}

// Add homomorphically sums the plaintexts of a and b.
func (pk *PublicKey) Add(a, b Ciphertext) Ciphertext {
	return Ciphertext{c: a.c.Mul(b.c).Mod(pk.nSquare)}
}

// Neg homomorphically negates a's plaintext.
func (pk *PublicKey) Neg(a Ciphertext) Ciphertext {
	return Ciphertext{c: a.c.ModInverse(pk.nSquare)}
}

// MulScalar homomorphically multiplies a's plaintext by k. Because k is
// sampled fresh and uniform for the masking step of the DGK comparison
// protocol (spec §4.2 step 3), exponentiating by it both masks the
// plaintext and re-randomizes the ciphertext in one operation.
func (pk *PublicKey) MulScalar(a Ciphertext, k *bigint.Int) Ciphertext {
	exp := k.Mod(pk.N)
	return Ciphertext{c: a.c.Exp(exp, pk.nSquare)}
}

// MessageSpaceSize returns N.
func (pk *PublicKey) MessageSpaceSize() *bigint.Int {
	return pk.N
}

// EncryptedZero returns a fixed (non-randomized) encryption of 0.
func (pk *PublicKey) EncryptedZero() Ciphertext {
	c, _ := pk.EncryptNonrandom(bigint.NewInt(0))
	return c
}

// EncryptedOne returns a fixed (non-randomized) encryption of 1.
func (pk *PublicKey) EncryptedOne() Ciphertext {
	c, _ := pk.EncryptNonrandom(bigint.NewInt(1))
	return c
}

// GetRandomInteger samples uniformly from [0, 2^bits).
func (pk *PublicKey) GetRandomInteger(bits int) (*bigint.Int, error) {
	return bigint.Uniform(rand.Reader, bits)
}

// NonZeroResidue samples a uniform, non-zero residue from [1, N), the
// masking scalars R_i consumed by the DGK comparison protocol.
func (pk *PublicKey) NonZeroResidue(random io.Reader) (*bigint.Int, error) {
	return bigint.NonZeroBelow(random, pk.N)
}

// Decrypt recovers the plaintext of c. The result may be negative-valued
// plaintexts represented in [0, N) by two's-complement-style wraparound
// (N - |m|); the DGK comparison protocol only ever tests decrypted values
// for equality to zero, so callers never need to unwrap this encoding.
func (sk *SecretKey) Decrypt(c Ciphertext) (*bigint.Int, error) {
	u := c.c.Exp(sk.Lambda, sk.nSquare)
	l := u.Sub(bigint.NewInt(1)).Div(sk.N)
	m := l.Mul(sk.Mu).Mod(sk.N)
	return m, nil
}

// IsZero reports whether c decrypts to zero, the operation the DGK
// sub-protocol is built around.
func (sk *SecretKey) IsZero(c Ciphertext) (bool, error) {
	m, err := sk.Decrypt(c)
	if err != nil {
		return false, err
	}
	return m.IsZero(), nil
}
