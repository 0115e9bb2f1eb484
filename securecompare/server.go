package securecompare

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/isplab/secomp/internal/dgkcompare"
	"github.com/isplab/secomp/internal/randomizer"
	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/paillier"
	"github.com/isplab/secomp/pkg/party"
	"github.com/isplab/secomp/pkg/secerr"
	"github.com/isplab/secomp/pkg/wire"
)

// Server plays the server role of the Paillier-layer comparison. It never
// holds a decryption key; it only ever sees ciphertexts and the plaintext
// masks it samples itself.
type Server struct {
	paillierPub *paillier.PublicKey
	dgkServer   *dgkcompare.Server
	client      *Client

	l                int
	twoPowL          *bigint.Int
	encryptedTwoPowL paillier.Ciphertext
	minusThreshold   paillier.Ciphertext

	comparisonCache *randomizer.Cache[randomizer.ComparisonTuple[paillier.Ciphertext]]
	dgkMaskCache    *randomizer.Cache[randomizer.DGKMaskTuple]

	sessionID  [16]byte
	comparison atomic.Uint64
}

// PaillierPublicKey returns the Paillier public key comparisons on this
// Server are encrypted under, so callers can encrypt their own operands.
func (s *Server) PaillierPublicKey() *paillier.PublicKey {
	return s.paillierPub
}

// EncryptOperand validates m against this Server's precision bound
// (|m| < 2^(l-1), the range Compare's result is only meaningful over) and
// encrypts it under the Paillier public key. Compare itself only ever
// sees ciphertexts, so this is the one point in the call chain where the
// plaintext is still visible to check the bound; callers should always
// encrypt comparison operands through this method rather than calling
// EncryptSignedInteger directly.
func (s *Server) EncryptOperand(m *bigint.Int) (paillier.Ciphertext, error) {
	bound := bigint.TwoPow(uint(s.l - 1))
	abs := m
	if m.Sign() < 0 {
		abs = m.Neg()
	}
	if abs.Cmp(bound) >= 0 {
		return paillier.Ciphertext{}, secerr.New(secerr.PrecisionBound, "securecompare.Server.EncryptOperand", fmt.Errorf("|%s| >= 2^%d", m, s.l-1))
	}
	enc, err := s.paillierPub.EncryptSignedInteger(m)
	if err != nil {
		return paillier.Ciphertext{}, secerr.New(secerr.CryptoFailure, "securecompare.Server.EncryptOperand", err)
	}
	return enc, nil
}

// Compare returns [1] if a >= b and [0] otherwise.
func (s *Server) Compare(a, b paillier.Ciphertext) (paillier.Ciphertext, error) {
	return s.compare(a, s.paillierPub.Neg(b))
}

// compare returns [1] if a >= b, where minusB = [-b], and [0] otherwise.
//
// Multiple goroutines may call compare on the same Server concurrently:
// every intermediate value (the popped tuple, the decrypted quotient and
// remainder, the DGK operand) is local to this call's stack, never a
// Server or Client field, so one call's in-flight state can't be clobbered
// by another's. The only point genuinely shared between concurrent calls
// is comparisonCache/dgkMaskCache's own internal mutex, which each Pop
// call takes and releases in turn.
//
// In the paper this protocol is drawn from, it is stated that 0 is
// returned in the case of equality. That is a mistake in the paper: this
// implementation returns 1 when a equals b, matching the corrected
// behavior.
func (s *Server) compare(a, minusB paillier.Ciphertext) (paillier.Ciphertext, error) {
	// [d] = [2^l] [a] [minusB]
	d := s.paillierPub.Add(s.encryptedTwoPowL, s.paillierPub.Add(a, minusB))

	// The two blinding caches are independent of each other; pop them
	// concurrently. Each Pop call takes the popped cache's own mutex, the
	// only point genuinely shared across concurrent compare calls.
	var tuple randomizer.ComparisonTuple[paillier.Ciphertext]
	var mask randomizer.DGKMaskTuple
	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var err error
		tuple, err = s.comparisonCache.Pop()
		return err
	})
	g.Go(func() error {
		var err error
		mask, err = s.dgkMaskCache.Pop()
		return err
	})
	if err := g.Wait(); err != nil {
		return paillier.Ciphertext{}, err
	}

	// [z] = [d] [r]
	z := s.paillierPub.Add(d, tuple.EncryptedR)

	// z crosses to the Client framed as a wire.Envelope and comes back the
	// same way; comparisonID disambiguates this call from any other
	// concurrently in flight on the same Session.
	comparisonID := s.comparison.Add(1)
	zEnvelope, err := wire.Marshal(s.sessionID, comparisonID, wire.KindPaillierZ, party.Server, wire.NewPaillierCiphertextMessage(z))
	if err != nil {
		return paillier.Ciphertext{}, secerr.New(secerr.ProtocolViolation, "securecompare.Server.compare", err)
	}

	quotientEnvelope, zModTwoPowL, err := s.client.decrypt(zEnvelope, comparisonID)
	if err != nil {
		return paillier.Ciphertext{}, err
	}
	var quotientMsg wire.PaillierCiphertextMessage
	env, err := wire.Unmarshal(quotientEnvelope, &quotientMsg)
	if err != nil {
		return paillier.Ciphertext{}, secerr.New(secerr.ProtocolViolation, "securecompare.Server.compare", err)
	}
	if err := env.ExpectSender(party.Client); err != nil {
		return paillier.Ciphertext{}, secerr.New(secerr.ProtocolViolation, "securecompare.Server.compare", err)
	}
	zDivTwoPowL := quotientMsg.Decode()

	t, err := s.dgkServer.Compare(tuple.RModTwoPowL, zModTwoPowL, dgkcompare.MaskTuple{R: mask.R})
	if err != nil {
		return paillier.Ciphertext{}, err
	}

	// [gamma] = [z div 2^l] ([r div 2^l] [t])^-1
	rDivAndT := s.paillierPub.Add(tuple.EncryptedRDivTwoPowL, t)
	gamma := s.paillierPub.Add(zDivTwoPowL, s.paillierPub.Neg(rDivAndT))

	return gamma, nil
}
