package securecompare

import (
	"context"
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/isplab/secomp/internal/dgkcompare"
	"github.com/isplab/secomp/internal/randomizer"
	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/dgk"
	"github.com/isplab/secomp/pkg/paillier"
	"github.com/isplab/secomp/pkg/secerr"
	"github.com/isplab/secomp/pkg/wire"
)

// CacheConfig configures the blinding-factor caches a Session builds for
// its Server, one for the Paillier-layer comparison tuples and one for
// the DGK-layer mask tuples.
type CacheConfig struct {
	Capacity     int
	ReuseAllowed bool
}

// Session owns a wired Server/Client pair for one comparison relationship:
// a single Paillier key pair, a single DGK key pair, and the two
// randomizer caches that amortize their blinding cost. It is the only way
// to obtain a Server and Client that can talk to each other; Go's value
// and pointer semantics remove the need for a weak back-reference from
// server to client.
type Session struct {
	Server *Server
	Client *Client

	comparisonCache *randomizer.Cache[randomizer.ComparisonTuple[paillier.Ciphertext]]
	dgkMaskCache    *randomizer.Cache[randomizer.DGKMaskTuple]
}

// NewSession wires a Server and Client for comparing two arbitrary
// encrypted operands (the two-argument Compare(a, b) form).
func NewSession(paillierSecret *paillier.SecretKey, dgkSecret *dgk.SecretKey, params Params, cacheCfg CacheConfig, logger *slog.Logger) (*Session, error) {
	return newSession(paillierSecret, dgkSecret, params, cacheCfg, logger, nil)
}

// NewThresholdSession wires a Server and Client whose Server additionally
// supports CompareToThreshold against a fixed encrypted threshold, fixed
// once at construction.
func NewThresholdSession(paillierSecret *paillier.SecretKey, dgkSecret *dgk.SecretKey, params Params, cacheCfg CacheConfig, logger *slog.Logger, threshold *bigint.Int) (*Session, error) {
	return newSession(paillierSecret, dgkSecret, params, cacheCfg, logger, threshold)
}

func newSession(paillierSecret *paillier.SecretKey, dgkSecret *dgk.SecretKey, params Params, cacheCfg CacheConfig, logger *slog.Logger, threshold *bigint.Int) (*Session, error) {
	if params.L < 1 {
		return nil, secerr.New(secerr.ConfigurationError, "securecompare.NewSession", nil)
	}
	if params.Kappa < 1 {
		return nil, secerr.New(secerr.ConfigurationError, "securecompare.NewSession", nil)
	}

	sessionID := wire.DeriveSessionID(paillierSecret.PublicKey.N.Bytes(), dgkSecret.PublicKey.N.Bytes())

	dgkClient := dgkcompare.NewClient(dgkSecret, paillierSecret.PublicKey, params.L)
	client := newClient(paillierSecret, dgkClient, params.L, sessionID)
	dgkServer := dgkcompare.NewServer(dgkSecret.PublicKey, paillierSecret.PublicKey, params.L, dgkClient)

	comparisonCache, err := randomizer.New(
		cacheCfg.Capacity,
		cacheCfg.ReuseAllowed,
		randomizer.NewComparisonTupleFactory[paillier.Ciphertext](paillierSecret.PublicKey, params.L, params.Kappa, rand.Reader),
		logger,
	)
	if err != nil {
		return nil, err
	}
	dgkMaskCache, err := randomizer.New(
		cacheCfg.Capacity,
		cacheCfg.ReuseAllowed,
		randomizer.NewDGKMaskTupleFactory(dgkSecret.PublicKey, params.L, rand.Reader),
		logger,
	)
	if err != nil {
		return nil, err
	}

	twoPowL := bigint.TwoPow(uint(params.L))
	encryptedTwoPowL, err := paillierSecret.PublicKey.Encrypt(twoPowL)
	if err != nil {
		return nil, secerr.New(secerr.CryptoFailure, "securecompare.NewSession", err)
	}

	minusThreshold := paillierSecret.PublicKey.EncryptedZero()
	if threshold != nil {
		bound := bigint.TwoPow(uint(params.L - 1))
		abs := threshold
		if threshold.Sign() < 0 {
			abs = threshold.Neg()
		}
		if abs.Cmp(bound) >= 0 {
			return nil, secerr.New(secerr.PrecisionBound, "securecompare.NewThresholdSession", nil)
		}
		minusThreshold, err = paillierSecret.PublicKey.EncryptSignedInteger(threshold.Neg())
		if err != nil {
			return nil, secerr.New(secerr.CryptoFailure, "securecompare.NewSession", err)
		}
	}

	server := &Server{
		paillierPub:      paillierSecret.PublicKey,
		dgkServer:        dgkServer,
		client:           client,
		l:                params.L,
		twoPowL:          twoPowL,
		encryptedTwoPowL: encryptedTwoPowL,
		minusThreshold:   minusThreshold,
		comparisonCache:  comparisonCache,
		dgkMaskCache:     dgkMaskCache,
		sessionID:        sessionID,
	}

	return &Session{
		Server:          server,
		Client:          client,
		comparisonCache: comparisonCache,
		dgkMaskCache:    dgkMaskCache,
	}, nil
}

// StartBackgroundRefill keeps both blinding-factor caches topped up to
// capacity in the background; production use requires refilling rather
// than one-shot ring reuse.
func (s *Session) StartBackgroundRefill(ctx context.Context, lowWaterMark int, pollInterval time.Duration) {
	s.comparisonCache.StartRefill(ctx, lowWaterMark, pollInterval)
	s.dgkMaskCache.StartRefill(ctx, lowWaterMark, pollInterval)
}
