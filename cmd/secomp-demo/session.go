package main

import (
	"crypto/rand"
	"log/slog"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/config"
	"github.com/isplab/secomp/pkg/dgk"
	"github.com/isplab/secomp/pkg/paillier"
	"github.com/isplab/secomp/securecompare"
)

// paillierKeyBits and dgkKeyBitsDemo are sized for a responsive demo rather
// than production security margins.
const (
	paillierKeyBits = 1024
	dgkKeyBitsDemo  = 512
)

func buildSession(logger *slog.Logger) (*securecompare.Session, error) {
	params := securecompare.Params{L: bitLength, Kappa: kappa}
	cacheCfg := securecompare.CacheConfig{Capacity: cacheSize, ReuseAllowed: reuseAllowed}

	if configFile != "" {
		tree, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		bfc, err := tree.BlindingFactorCache("BlindingFactorCache")
		if err != nil {
			return nil, err
		}
		params = securecompare.Params{L: bfc.L, Kappa: bfc.Kappa}
		cacheCfg = securecompare.CacheConfig{Capacity: bfc.Capacity, ReuseAllowed: bfc.ReuseAllowed}
	}

	paillierSecret, err := paillier.KeyGen(rand.Reader, paillierKeyBits)
	if err != nil {
		return nil, err
	}
	dgkSecret, err := dgk.KeyGen(rand.Reader, dgkKeyBitsDemo, bigint.TwoPow(uint(params.L+2)))
	if err != nil {
		return nil, err
	}

	return securecompare.NewSession(paillierSecret, dgkSecret, params, cacheCfg, logger)
}
