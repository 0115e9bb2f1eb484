// Package cryptosystem declares the capability trait that every additively
// homomorphic cryptosystem used by this module must satisfy. It restates
// the source's template-over-crypto-provider (C++ template specialization
// binding a concrete scheme to the comparison code) as a Go generic
// interface that both pkg/paillier and pkg/dgk satisfy. Of the comparison
// code, only randomizer.NewComparisonTupleFactory is written against
// Capability[C]; internal/dgkcompare and securecompare use the concrete
// paillier and dgk key types.
package cryptosystem

import "github.com/isplab/secomp/pkg/bigint"

// Capability is the black-box interface every additively homomorphic
// cryptosystem exposes to the comparison core. C is the scheme's
// ciphertext type.
type Capability[C any] interface {
	// Encrypt produces a freshly randomized encryption of m.
	Encrypt(m *bigint.Int) (C, error)

	// EncryptNonrandom produces a deterministic encryption of m. Its
	// result is legal to send over the wire only after being combined
	// homomorphically with a randomized ciphertext, which re-randomizes
	// it; callers that violate this precondition leak m to any observer
	// who sees the same ciphertext twice.
	EncryptNonrandom(m *bigint.Int) (C, error)

	// Add returns the ciphertext of the sum of a and b's plaintexts.
	Add(a, b C) C

	// Neg returns the ciphertext of the negation of a's plaintext.
	Neg(a C) C

	// MulScalar returns the ciphertext of k times a's plaintext, for a
	// plaintext scalar k.
	MulScalar(a C, k *bigint.Int) C

	// MessageSpaceSize returns the modulus of the plaintext group.
	MessageSpaceSize() *bigint.Int

	// EncryptedZero returns a fixed encryption of 0.
	EncryptedZero() C

	// EncryptedOne returns a fixed encryption of 1.
	EncryptedOne() C

	// GetRandomInteger samples uniformly from [0, 2^bits).
	GetRandomInteger(bits int) (*bigint.Int, error)
}

// Decrypter is implemented by the secret-key half of a scheme; it is kept
// separate from Capability because the server-side comparison code must
// never hold decryption keys (spec §4.4's privacy contract).
type Decrypter[C any] interface {
	Decrypt(c C) (*bigint.Int, error)
}
