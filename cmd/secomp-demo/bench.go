package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/securecompare"
)

func runBench(cmd *cobra.Command, args []string) error {
	iterations, err := cmd.Flags().GetInt("iterations")
	if err != nil {
		return err
	}

	amortized, err := timeComparisons("cache-amortized", iterations)
	if err != nil {
		return err
	}
	fmt.Printf("cache-amortized (capacity %d): %d comparisons in %s (%s/op)\n",
		iterations, iterations, amortized, amortized/time.Duration(iterations))

	exhausted, err := timeComparisonsExhausted(iterations)
	if err != nil {
		return err
	}
	fmt.Printf("cache-exhausted (capacity 1, no reuse, fresh cache per op): %d comparisons in %s (%s/op)\n",
		iterations, exhausted, exhausted/time.Duration(iterations))

	return nil
}

func timeComparisons(label string, iterations int) (time.Duration, error) {
	sess, err := buildSessionWithCache(securecompare.CacheConfig{Capacity: iterations, ReuseAllowed: false})
	if err != nil {
		return 0, err
	}
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if err := runOneComparison(sess, int64(i)); err != nil {
			return 0, err
		}
	}
	return time.Since(start), nil
}

// timeComparisonsExhausted rebuilds the Session (and therefore regenerates
// every blinding tuple from scratch) before each comparison, isolating the
// cost the cache exists to amortize away.
func timeComparisonsExhausted(iterations int) (time.Duration, error) {
	start := time.Now()
	for i := 0; i < iterations; i++ {
		sess, err := buildSessionWithCache(securecompare.CacheConfig{Capacity: 1, ReuseAllowed: false})
		if err != nil {
			return 0, err
		}
		if err := runOneComparison(sess, int64(i)); err != nil {
			return 0, err
		}
	}
	return time.Since(start), nil
}

func buildSessionWithCache(cacheCfg securecompare.CacheConfig) (*securecompare.Session, error) {
	saved := cacheSize
	cacheSize = cacheCfg.Capacity
	reuseAllowedSaved := reuseAllowed
	reuseAllowed = cacheCfg.ReuseAllowed
	defer func() {
		cacheSize = saved
		reuseAllowed = reuseAllowedSaved
	}()
	return buildSession(slog.Default())
}

func runOneComparison(sess *securecompare.Session, n int64) error {
	encA, err := sess.Server.EncryptOperand(bigint.NewInt(n))
	if err != nil {
		return err
	}
	encB, err := sess.Server.EncryptOperand(bigint.NewInt(0))
	if err != nil {
		return err
	}
	_, err = sess.Server.Compare(encA, encB)
	return err
}
