package randomizer

import (
	"fmt"
	"io"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/cryptosystem"
)

// ComparisonTuple is the Paillier-layer blinding tuple consumed by one
// secure comparison: (r, r mod 2^l, [r], [r div 2^l]). C is the
// ciphertext type of the Paillier-like capability supplying it.
type ComparisonTuple[C any] struct {
	R                    *bigint.Int
	RModTwoPowL          *bigint.Int
	EncryptedR           C
	EncryptedRDivTwoPowL C
}

// NewComparisonTupleFactory builds a Factory that samples r uniformly from
// [0, 2^(l+1+kappa)) and precomputes its split and non-randomized Paillier
// encryptions. EncryptNonrandom is safe here because every tuple is later
// combined homomorphically with a genuinely randomized ciphertext before
// being sent anywhere.
func NewComparisonTupleFactory[C any](pub cryptosystem.Capability[C], l, kappa int, random io.Reader) Factory[ComparisonTuple[C]] {
	twoPowL := bigint.TwoPow(uint(l))
	return func() (ComparisonTuple[C], error) {
		r, err := bigint.Uniform(random, l+1+kappa)
		if err != nil {
			return ComparisonTuple[C]{}, fmt.Errorf("randomizer: comparison tuple: %w", err)
		}
		rDivTwoPowL, rModTwoPowL := r.QuoRem(twoPowL)
		encR, err := pub.EncryptNonrandom(r)
		if err != nil {
			return ComparisonTuple[C]{}, fmt.Errorf("randomizer: comparison tuple: encrypt r: %w", err)
		}
		encRDiv, err := pub.EncryptNonrandom(rDivTwoPowL)
		if err != nil {
			return ComparisonTuple[C]{}, fmt.Errorf("randomizer: comparison tuple: encrypt r div 2^l: %w", err)
		}
		return ComparisonTuple[C]{
			R:                    r,
			RModTwoPowL:          rModTwoPowL,
			EncryptedR:           encR,
			EncryptedRDivTwoPowL: encRDiv,
		}, nil
	}
}
