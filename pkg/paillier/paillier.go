// Package paillier implements the Paillier additively homomorphic
// cryptosystem, grounded on the corpus's one worked Go example
// (didiercrunch/paillier) and on construction 11.32 of Katz & Lindell,
// "Introduction to Modern Cryptography" it cites. It satisfies
// cryptosystem.Capability[Ciphertext].
package paillier

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/cryptosystem"
)

var (
	_ cryptosystem.Capability[Ciphertext] = (*PublicKey)(nil)
	_ cryptosystem.Decrypter[Ciphertext]  = (*SecretKey)(nil)
)

// Ciphertext is an element of Z*_{n^2}.
type Ciphertext struct {
	c *bigint.Int
}

// Bytes returns the big-endian encoding of the ciphertext, for wire framing.
func (c Ciphertext) Bytes() []byte {
	return c.c.Bytes()
}

// CiphertextFromBytes rebuilds a Ciphertext from its wire encoding.
func CiphertextFromBytes(buf []byte) Ciphertext {
	return Ciphertext{c: bigint.FromBytes(buf)}
}

// PublicKey is the Paillier public key (N, G) plus the cached N^2.
type PublicKey struct {
	N       *bigint.Int
	G       *bigint.Int
	nSquare *bigint.Int
}

// SecretKey holds the decryption trapdoor. Only the comparison Client ever
// holds one (spec §4.4's privacy contract).
type SecretKey struct {
	*PublicKey
	Lambda *bigint.Int
	Mu     *bigint.Int
}

// KeyGen generates a fresh Paillier key pair with an N of roughly the
// requested bit length (split evenly between two safe-ish primes).
func KeyGen(random io.Reader, bits int) (*SecretKey, error) {
	primeBits := bits / 2
	for {
		p, err := rand.Prime(random, primeBits)
		if err != nil {
			return nil, fmt.Errorf("paillier: KeyGen: %w", err)
		}
		q, err := rand.Prime(random, primeBits)
		if err != nil {
			return nil, fmt.Errorf("paillier: KeyGen: %w", err)
		}
		if p.Cmp(q) == 0 {
			continue
		}
		n := new(big.Int).Mul(p, q)
		pMinus1 := new(big.Int).Sub(p, big.NewInt(1))
		qMinus1 := new(big.Int).Sub(q, big.NewInt(1))
		lambda := new(big.Int).Mul(pMinus1, qMinus1)
		// gcd(n, lambda) = 1 whenever p, q are distinct primes of similar
		// size; defensively re-roll on the (astronomically unlikely) miss.
		if new(big.Int).GCD(nil, nil, n, lambda).Cmp(big.NewInt(1)) != 0 {
			continue
		}
		g := new(big.Int).Add(n, big.NewInt(1)) // g = n+1, safe for threshold variants too
		nSquare := new(big.Int).Mul(n, n)
		mu := new(big.Int).ModInverse(lambda, n)
		if mu == nil {
			continue
		}
		pub := &PublicKey{
			N:       bigint.FromBig(n),
			G:       bigint.FromBig(g),
			nSquare: bigint.FromBig(nSquare),
		}
		return &SecretKey{
			PublicKey: pub,
			Lambda:    bigint.FromBig(lambda),
			Mu:        bigint.FromBig(mu),
		}, nil
	}
}

// NSquare returns N^2.
func (pk *PublicKey) NSquare() *bigint.Int {
	return pk.nSquare
}

// EncryptWithR encrypts m using the specified randomness r, a unit of
// Z*_n. Exposed for testing the cache's non-randomized blinding tables;
// most callers should use Encrypt or EncryptNonrandom.
func (pk *PublicKey) EncryptWithR(m, r *bigint.Int) (Ciphertext, error) {
	if m.Sign() < 0 || m.Cmp(pk.N) >= 0 {
		return Ciphertext{}, fmt.Errorf("paillier: EncryptWithR: plaintext out of [0, N) range")
	}
	gm := pk.G.Exp(m, pk.nSquare)
	rn := r.Exp(pk.N, pk.nSquare)
	c := gm.Mul(rn).Mod(pk.nSquare)
	return Ciphertext{c: c}, nil
}

// Encrypt produces a freshly randomized encryption of m.
func (pk *PublicKey) Encrypt(m *bigint.Int) (Ciphertext, error) {
	r, err := randomUnit(rand.Reader, pk.N)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("paillier: Encrypt: %w", err)
	}
	return pk.EncryptWithR(m, r)
}

// EncryptNonrandom encrypts m with r=1, i.e. g^m mod n^2. The result must
// be combined homomorphically with a randomized ciphertext before being
// sent over the wire (see cryptosystem.Capability.EncryptNonrandom).
func (pk *PublicKey) EncryptNonrandom(m *bigint.Int) (Ciphertext, error) {
	return pk.EncryptWithR(m, bigint.NewInt(1))
}

// EncryptSignedInteger reduces m modulo N before encrypting it, so that a
// negative m is encrypted as its two's-complement-style representative
// N+m. This is how the comparison core feeds arbitrary signed operands
// into a plaintext group that is really just Z_N: a > b is tested by
// looking at whether 2^l + a - b wraps, not by ever representing a sign
// bit directly.
func (pk *PublicKey) EncryptSignedInteger(m *bigint.Int) (Ciphertext, error) {
	return pk.Encrypt(m.Mod(pk.N))
}

// Add homomorphically sums the plaintexts of a and b.
func (pk *PublicKey) Add(a, b Ciphertext) Ciphertext {
	return Ciphertext{c: a.c.Mul(b.c).Mod(pk.nSquare)}
}

// Neg homomorphically negates a's plaintext.
func (pk *PublicKey) Neg(a Ciphertext) Ciphertext {
	inv := a.c.ModInverse(pk.nSquare)
	return Ciphertext{c: inv}
}

// MulScalar homomorphically multiplies a's plaintext by k.
func (pk *PublicKey) MulScalar(a Ciphertext, k *bigint.Int) Ciphertext {
	exp := k.Mod(pk.N)
	return Ciphertext{c: a.c.Exp(exp, pk.nSquare)}
}

// MessageSpaceSize returns N, the Paillier plaintext modulus.
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

// Decrypt recovers the plaintext of c.
func (sk *SecretKey) Decrypt(c Ciphertext) (*bigint.Int, error) {
	u := c.c.Exp(sk.Lambda, sk.nSquare)
	l := lFunction(u, sk.N)
	m := l.Mul(sk.Mu).Mod(sk.N)
	return m, nil
}

// lFunction computes (u-1)/n, the standard Paillier L(u) = (u-1) div n.
func lFunction(u, n *bigint.Int) *bigint.Int {
	return u.Sub(bigint.NewInt(1)).Div(n)
}

func randomUnit(random io.Reader, n *bigint.Int) (*bigint.Int, error) {
	for {
		r, err := bigint.UniformBelow(random, n)
		if err != nil {
			return nil, err
		}
		if r.IsZero() {
			continue
		}
		gcd := new(big.Int).GCD(nil, nil, r.Big(), n.Big())
		if gcd.Cmp(big.NewInt(1)) == 0 {
			return r, nil
		}
	}
}
