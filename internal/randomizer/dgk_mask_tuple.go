package randomizer

import (
	"fmt"
	"io"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/dgk"
)

// DGKMaskTuple is the blinding tuple for one DGK comparison round: l+1
// uniformly sampled non-zero residues R_{-1..l-1} in the DGK plaintext
// group, together with their DGK encryptions. The encryptions are kept
// alongside the plaintext scalars so a future packed-comparison variant
// could reuse them as additive masks without re-encrypting; the bit
// comparison protocol in internal/dgkcompare only consumes the plaintext
// scalars, via dgk.PublicKey.MulScalar.
type DGKMaskTuple struct {
	R          []*bigint.Int
	EncryptedR []dgk.Ciphertext
}

// NewDGKMaskTupleFactory builds a Factory producing one DGKMaskTuple sized
// for an l-bit comparison (l+1 masks, indices -1..l-1 stored as 0..l).
func NewDGKMaskTupleFactory(pub *dgk.PublicKey, l int, random io.Reader) Factory[DGKMaskTuple] {
	return func() (DGKMaskTuple, error) {
		count := l + 1
		rs := make([]*bigint.Int, count)
		encs := make([]dgk.Ciphertext, count)
		for i := 0; i < count; i++ {
			r, err := pub.NonZeroResidue(random)
			if err != nil {
				return DGKMaskTuple{}, fmt.Errorf("randomizer: dgk mask tuple: %w", err)
			}
			enc, err := pub.EncryptNonrandom(r)
			if err != nil {
				return DGKMaskTuple{}, fmt.Errorf("randomizer: dgk mask tuple: encrypt mask: %w", err)
			}
			rs[i] = r
			encs[i] = enc
		}
		return DGKMaskTuple{R: rs, EncryptedR: encs}, nil
	}
}
