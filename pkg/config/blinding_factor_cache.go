package config

import (
	"fmt"

	"github.com/isplab/secomp/pkg/secerr"
)

// BlindingFactorCacheParams is the set of keys expected under a
// "BlindingFactorCache" node: capacity, the comparison bit-length l, the
// statistical security parameter kappa, and whether the ring is allowed to
// wrap and reuse tuples once exhausted.
type BlindingFactorCacheParams struct {
	Capacity     int
	L            int
	Kappa        int
	ReuseAllowed bool
}

// BlindingFactorCache reads and validates a BlindingFactorCacheParams node
// at the given dotted path.
func (t *Tree) BlindingFactorCache(path string) (BlindingFactorCacheParams, error) {
	capacity, err := t.Int(path + ".capacity")
	if err != nil {
		return BlindingFactorCacheParams{}, err
	}
	if capacity < 1 {
		return BlindingFactorCacheParams{}, secerr.New(secerr.ConfigurationError, "config.Tree.BlindingFactorCache", fmt.Errorf("%s.capacity must be >= 1, got %d", path, capacity))
	}

	l, err := t.Int(path + ".l")
	if err != nil {
		return BlindingFactorCacheParams{}, err
	}
	if l < 1 {
		return BlindingFactorCacheParams{}, secerr.New(secerr.ConfigurationError, "config.Tree.BlindingFactorCache", fmt.Errorf("%s.l must be >= 1, got %d", path, l))
	}

	kappa := t.IntDefault(path+".kappa", 40)
	if kappa < 1 {
		return BlindingFactorCacheParams{}, secerr.New(secerr.ConfigurationError, "config.Tree.BlindingFactorCache", fmt.Errorf("%s.kappa must be >= 1, got %d", path, kappa))
	}

	reuseAllowed := t.BoolDefault(path+".reuseAllowed", false)

	return BlindingFactorCacheParams{Capacity: capacity, L: l, Kappa: kappa, ReuseAllowed: reuseAllowed}, nil
}
