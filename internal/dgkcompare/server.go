package dgkcompare

import (
	"crypto/rand"
	"fmt"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/dgk"
	"github.com/isplab/secomp/pkg/paillier"
	"github.com/isplab/secomp/pkg/secerr"
)

// MaskTuple is the l+1 non-zero DGK masks consumed by one Compare call.
// Defined here (rather than imported from internal/randomizer) to keep
// dgkcompare independent of the cache's storage strategy; the securecompare
// package adapts randomizer.DGKMaskTuple to this shape when wiring the two
// together.
type MaskTuple struct {
	R []*bigint.Int // R[0] is R_{-1}; R[1..l] are R_0..R_{l-1}
}

// Server plays the server role of the DGK comparison: it holds alpha in
// the clear, builds the masked per-bit terms, and combines the client's
// report into the final encrypted comparison bit.
type Server struct {
	dgkPub      *dgk.PublicKey
	paillierPub *paillier.PublicKey
	l           int
	peer        *Client
}

// NewServer constructs a DGK comparison server role bound to peer, its
// matching Client. The session orchestration layer owns both endpoints.
func NewServer(dgkPub *dgk.PublicKey, paillierPub *paillier.PublicKey, l int, peer *Client) *Server {
	return &Server{dgkPub: dgkPub, paillierPub: paillierPub, l: l, peer: peer}
}

// Compare returns [t], a Paillier encryption of 1 if alpha > beta and of 0
// otherwise. beta is passed in for this round alone, never staged on the
// peer Client, so two goroutines calling Compare concurrently against the
// same Server/Client pair never see each other's operand. mask supplies
// this round's l+1 DGK blinding scalars.
func (s *Server) Compare(alpha *bigint.Int, beta *bigint.Int, mask MaskTuple) (paillier.Ciphertext, error) {
	if alpha.Sign() < 0 || alpha.BitLen() > s.l {
		return paillier.Ciphertext{}, secerr.New(secerr.PrecisionBound, "dgkcompare.Server.Compare", nil)
	}
	if len(mask.R) != s.l+1 {
		return paillier.Ciphertext{}, secerr.New(secerr.ProtocolViolation, "dgkcompare.Server.Compare", fmt.Errorf("expected %d masks, got %d", s.l+1, len(mask.R)))
	}

	betaBits, err := s.peer.EncryptBitsOfOperand(beta)
	if err != nil {
		return paillier.Ciphertext{}, err
	}
	if len(betaBits) != s.l {
		return paillier.Ciphertext{}, secerr.New(secerr.ProtocolViolation, "dgkcompare.Server.Compare", fmt.Errorf("expected %d beta bits, got %d", s.l, len(betaBits)))
	}

	sign, err := randomSign()
	if err != nil {
		return paillier.Ciphertext{}, secerr.New(secerr.CryptoFailure, "dgkcompare.Server.Compare", err)
	}
	n := s.dgkPub.MessageSpaceSize()

	// xor[j] = [alpha_j XOR beta_j], computed homomorphically since
	// alpha_j is a plaintext scalar known to the server: a XOR b = a + (1-2a)*b.
	xor := make([]dgk.Ciphertext, s.l)
	for j := 0; j < s.l; j++ {
		aj := alpha.Bit(uint(j))
		coeff := bigint.NewInt(1 - 2*int64(aj))
		term := s.dgkPub.MulScalar(betaBits[j], coeff.Mod(n))
		if aj == 1 {
			term = s.dgkPub.Add(term, s.dgkPub.EncryptedOne())
		}
		xor[j] = term
	}

	// c_i for i = l-1 downto 0, then the extra equality term c_{-1}.
	// runningSum accumulates sum_{j>i} xor_j as i decreases.
	masked := make([]dgk.Ciphertext, s.l+1)
	runningSum := s.dgkPub.EncryptedZero()
	signEnc, err := s.dgkPub.EncryptNonrandom(bigint.NewInt(int64(sign)).Mod(n))
	if err != nil {
		return paillier.Ciphertext{}, secerr.New(secerr.CryptoFailure, "dgkcompare.Server.Compare", err)
	}
	for i := s.l - 1; i >= 0; i-- {
		ai := bigint.NewInt(int64(alpha.Bit(uint(i))))
		aiEnc, err := s.dgkPub.EncryptNonrandom(ai)
		if err != nil {
			return paillier.Ciphertext{}, secerr.New(secerr.CryptoFailure, "dgkcompare.Server.Compare", err)
		}
		bi := betaBits[i]
		ci := s.dgkPub.Add(signEnc, aiEnc)
		ci = s.dgkPub.Add(ci, s.dgkPub.Neg(bi))
		ci = s.dgkPub.Add(ci, s.dgkPub.MulScalar(runningSum, bigint.NewInt(3)))
		masked[i+1] = s.dgkPub.MulScalar(ci, mask.R[i+1])
		runningSum = s.dgkPub.Add(runningSum, xor[i])
	}
	// c_{-1} = delta_A + sum_{j=0}^{l-1} xor_j with delta_A = (1-s)/2, stored
	// at masked[0] (mask R[0] = R_{-1}). It is zero only when s = +1 and
	// alpha equals beta.
	deltaAEnc, err := s.dgkPub.EncryptNonrandom(bigint.NewInt(int64((1 - sign) / 2)))
	if err != nil {
		return paillier.Ciphertext{}, secerr.New(secerr.CryptoFailure, "dgkcompare.Server.Compare", err)
	}
	cMinus1 := s.dgkPub.Add(deltaAEnc, runningSum)
	masked[0] = s.dgkPub.MulScalar(cMinus1, mask.R[0])

	permuted := permute(masked)

	deltaB, err := s.peer.ResolveMaskedTerms(permuted)
	if err != nil {
		return paillier.Ciphertext{}, err
	}

	// With s = -1 a zero term means alpha > beta, so t = deltaB; with s = +1
	// a zero term means alpha <= beta, so t = 1 - deltaB.
	if sign == -1 {
		return deltaB, nil
	}
	one := s.paillierPub.EncryptedOne()
	return s.paillierPub.Add(one, s.paillierPub.Neg(deltaB)), nil
}

func randomSign() (int, error) {
	b := make([]byte, 1)
	if _, err := rand.Read(b); err != nil {
		return 0, err
	}
	if b[0]&1 == 0 {
		return 1, nil
	}
	return -1, nil
}

func permute(in []dgk.Ciphertext) []dgk.Ciphertext {
	out := make([]dgk.Ciphertext, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		jBig, err := bigint.UniformBelow(rand.Reader, bigint.NewInt(int64(i+1)))
		if err != nil {
			continue
		}
		j := int(jBig.Big().Int64())
		out[i], out[j] = out[j], out[i]
	}
	return out
}
