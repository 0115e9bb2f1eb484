package securecompare_test

import (
	"crypto/rand"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/dgk"
	"github.com/isplab/secomp/pkg/paillier"
	"github.com/isplab/secomp/pkg/secerr"
	"github.com/isplab/secomp/securecompare"
)

func testKeys(t *testing.T) (*paillier.SecretKey, *dgk.SecretKey) {
	t.Helper()
	paillierSecret, err := paillier.KeyGen(rand.Reader, 256)
	require.NoError(t, err)
	dgkSecret, err := dgk.KeyGen(rand.Reader, 256, bigint.NewInt(1<<20))
	require.NoError(t, err)
	return paillierSecret, dgkSecret
}

func newTestSession(t *testing.T) *securecompare.Session {
	t.Helper()
	paillierSecret, dgkSecret := testKeys(t)
	sess, err := securecompare.NewSession(
		paillierSecret,
		dgkSecret,
		securecompare.Params{L: 16, Kappa: 40},
		securecompare.CacheConfig{Capacity: 2, ReuseAllowed: true},
		slog.Default(),
	)
	require.NoError(t, err)
	return sess
}

func compareInts(t *testing.T, sess *securecompare.Session, a, b int64) int64 {
	t.Helper()
	encA, err := sess.Server.EncryptOperand(bigint.NewInt(a))
	require.NoError(t, err)
	encB, err := sess.Server.EncryptOperand(bigint.NewInt(b))
	require.NoError(t, err)
	result, err := sess.Server.Compare(encA, encB)
	require.NoError(t, err)
	plain, err := sess.Client.Decrypt(result)
	require.NoError(t, err)
	return plain.Big().Int64()
}

func TestCompareScenarios(t *testing.T) {
	sess := newTestSession(t)

	cases := []struct {
		name string
		a, b int64
		want int64
	}{
		{"zero vs zero", 0, 0, 1},
		{"five gt three", 5, 3, 1},
		{"three lt five", 3, 5, 0},
		{"negative lt positive", -100, 100, 0},
		{"max gt negated max", 1<<15 - 1, -(1<<15 - 1), 1},
		{"equal operands", 42, 42, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := compareInts(t, sess, tc.a, tc.b)
			require.Equal(t, tc.want, got, "Compare(%d, %d)", tc.a, tc.b)
		})
	}
}

func TestCompareToThreshold(t *testing.T) {
	paillierSecret, dgkSecret := testKeys(t)
	sess, err := securecompare.NewThresholdSession(
		paillierSecret,
		dgkSecret,
		securecompare.Params{L: 16, Kappa: 40},
		securecompare.CacheConfig{Capacity: 3, ReuseAllowed: true},
		slog.Default(),
		bigint.NewInt(10),
	)
	require.NoError(t, err)

	cases := []struct {
		value int64
		want  int64
	}{
		{9, 0},
		{10, 1},
		{11, 1},
	}
	for _, tc := range cases {
		enc, err := sess.Server.EncryptOperand(bigint.NewInt(tc.value))
		require.NoError(t, err)
		result, err := sess.Server.CompareToThreshold(enc)
		require.NoError(t, err)
		plain, err := sess.Client.Decrypt(result)
		require.NoError(t, err)
		require.Equal(t, tc.want, plain.Big().Int64(), "CompareToThreshold(%d)", tc.value)
	}
}

func TestConcurrentCompareCompletesWithoutRacing(t *testing.T) {
	sess := newTestSession(t)
	const rounds = 4
	type outcome struct {
		want int64
		got  int64
		err  error
	}
	results := make(chan outcome, rounds)
	for i := 0; i < rounds; i++ {
		go func(n int64) {
			want := int64(1)
			if n < 0 {
				want = 0
			}
			encA, err := sess.Server.EncryptOperand(bigint.NewInt(n))
			if err != nil {
				results <- outcome{err: err}
				return
			}
			encB, err := sess.Server.EncryptOperand(bigint.NewInt(0))
			if err != nil {
				results <- outcome{err: err}
				return
			}
			gamma, err := sess.Server.Compare(encA, encB)
			if err != nil {
				results <- outcome{err: err}
				return
			}
			plain, err := sess.Client.Decrypt(gamma)
			if err != nil {
				results <- outcome{err: err}
				return
			}
			results <- outcome{want: want, got: plain.Big().Int64()}
		}(int64(i) - 2)
	}
	for i := 0; i < rounds; i++ {
		o := <-results
		require.NoError(t, o.err)
		require.Equal(t, o.want, o.got)
	}
}

func TestEncryptOperandRejectsOutOfBoundValues(t *testing.T) {
	sess := newTestSession(t) // L: 16, so the bound is |m| < 2^15
	bound := int64(1) << 15

	_, err := sess.Server.EncryptOperand(bigint.NewInt(bound))
	require.Error(t, err)
	require.True(t, secerr.Is(err, secerr.PrecisionBound))

	_, err = sess.Server.EncryptOperand(bigint.NewInt(-bound))
	require.Error(t, err)
	require.True(t, secerr.Is(err, secerr.PrecisionBound))

	_, err = sess.Server.EncryptOperand(bigint.NewInt(bound - 1))
	require.NoError(t, err)
	_, err = sess.Server.EncryptOperand(bigint.NewInt(-(bound - 1)))
	require.NoError(t, err)
}

func TestNewThresholdSessionRejectsOutOfBoundThreshold(t *testing.T) {
	paillierSecret, dgkSecret := testKeys(t)
	_, err := securecompare.NewThresholdSession(
		paillierSecret, dgkSecret,
		securecompare.Params{L: 16, Kappa: 40},
		securecompare.CacheConfig{Capacity: 2, ReuseAllowed: true},
		slog.Default(),
		bigint.NewInt(1<<15),
	)
	require.Error(t, err)
	require.True(t, secerr.Is(err, secerr.PrecisionBound))
}

func TestNewSessionRejectsBadParams(t *testing.T) {
	paillierSecret, dgkSecret := testKeys(t)
	_, err := securecompare.NewSession(
		paillierSecret, dgkSecret,
		securecompare.Params{L: 0, Kappa: 40},
		securecompare.CacheConfig{Capacity: 2, ReuseAllowed: true},
		slog.Default(),
	)
	require.Error(t, err)
}
