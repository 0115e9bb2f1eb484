package securecompare_test

import (
	"crypto/rand"
	"fmt"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/isplab/secomp/pkg/bigint"
	"github.com/isplab/secomp/pkg/dgk"
	"github.com/isplab/secomp/pkg/paillier"
	"github.com/isplab/secomp/pkg/secerr"
	"github.com/isplab/secomp/securecompare"
)

func mustSession(params securecompare.Params, cacheCfg securecompare.CacheConfig) *securecompare.Session {
	paillierSecret, err := paillier.KeyGen(rand.Reader, 256)
	Expect(err).NotTo(HaveOccurred())
	dgkSecret, err := dgk.KeyGen(rand.Reader, 256, bigint.NewInt(1<<20))
	Expect(err).NotTo(HaveOccurred())
	sess, err := securecompare.NewSession(paillierSecret, dgkSecret, params, cacheCfg, slog.Default())
	Expect(err).NotTo(HaveOccurred())
	return sess
}

func encryptAndCompare(sess *securecompare.Session, a, b int64) int64 {
	encA, err := sess.Server.EncryptOperand(bigint.NewInt(a))
	Expect(err).NotTo(HaveOccurred())
	encB, err := sess.Server.EncryptOperand(bigint.NewInt(b))
	Expect(err).NotTo(HaveOccurred())

	result, err := sess.Server.Compare(encA, encB)
	Expect(err).NotTo(HaveOccurred())

	plain, err := sess.Client.Decrypt(result)
	Expect(err).NotTo(HaveOccurred())
	return plain.Big().Int64()
}

var _ = Describe("Secure Comparison Protocol", func() {
	var sess *securecompare.Session

	BeforeEach(func() {
		sess = mustSession(
			securecompare.Params{L: 16, Kappa: 40},
			securecompare.CacheConfig{Capacity: 2, ReuseAllowed: true},
		)
	})

	Describe("Functional Correctness", func() {
		Context("Ordering Relationships", func() {
			It("reports a >= b for every ordering across signed ranges", func() {
				cases := []struct {
					a, b int64
					want int64
				}{
					{5, 3, 1},
					{3, 5, 0},
					{0, 0, 1},
					{-1, 1, 0},
					{1, -1, 1},
					{-100, -200, 1},
					{-200, -100, 0},
				}
				for _, tc := range cases {
					By(fmt.Sprintf("comparing %d against %d", tc.a, tc.b))
					Expect(encryptAndCompare(sess, tc.a, tc.b)).To(Equal(tc.want))
				}
			})

			It("returns 1 on equality, matching the corrected tie-break behavior", func() {
				Expect(encryptAndCompare(sess, 7, 7)).To(Equal(int64(1)))
				Expect(encryptAndCompare(sess, 0, 0)).To(Equal(int64(1)))
				Expect(encryptAndCompare(sess, -42, -42)).To(Equal(int64(1)))
			})
		})

		Context("Threshold Comparisons", func() {
			It("compares an encrypted value against a fixed encrypted threshold", func() {
				paillierSecret, err := paillier.KeyGen(rand.Reader, 256)
				Expect(err).NotTo(HaveOccurred())
				dgkSecret, err := dgk.KeyGen(rand.Reader, 256, bigint.NewInt(1<<20))
				Expect(err).NotTo(HaveOccurred())

				threshSess, err := securecompare.NewThresholdSession(
					paillierSecret, dgkSecret,
					securecompare.Params{L: 16, Kappa: 40},
					securecompare.CacheConfig{Capacity: 3, ReuseAllowed: true},
					slog.Default(),
					bigint.NewInt(50),
				)
				Expect(err).NotTo(HaveOccurred())

				for _, tc := range []struct {
					value int64
					want  int64
				}{{49, 0}, {50, 1}, {51, 1}} {
					enc, err := threshSess.Server.EncryptOperand(bigint.NewInt(tc.value))
					Expect(err).NotTo(HaveOccurred())
					result, err := threshSess.Server.CompareToThreshold(enc)
					Expect(err).NotTo(HaveOccurred())
					plain, err := threshSess.Client.Decrypt(result)
					Expect(err).NotTo(HaveOccurred())
					Expect(plain.Big().Int64()).To(Equal(tc.want))
				}
			})
		})
	})

	Describe("Concurrency Safety", func() {
		It("completes truly concurrent Compare calls on one Server without racing", func() {
			const rounds = 6
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
				}(int64(i) - 3)
			}
			for i := 0; i < rounds; i++ {
				var o outcome
				Eventually(results).Should(Receive(&o))
				Expect(o.err).NotTo(HaveOccurred())
				Expect(o.got).To(Equal(o.want))
			}
		})
	})

	Describe("Input Validation", func() {
		It("rejects a non-positive precision parameter at session construction", func() {
			paillierSecret, err := paillier.KeyGen(rand.Reader, 256)
			Expect(err).NotTo(HaveOccurred())
			dgkSecret, err := dgk.KeyGen(rand.Reader, 256, bigint.NewInt(1<<20))
			Expect(err).NotTo(HaveOccurred())

			_, err = securecompare.NewSession(
				paillierSecret, dgkSecret,
				securecompare.Params{L: 0, Kappa: 40},
				securecompare.CacheConfig{Capacity: 2, ReuseAllowed: true},
				slog.Default(),
			)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-positive statistical security parameter at session construction", func() {
			paillierSecret, err := paillier.KeyGen(rand.Reader, 256)
			Expect(err).NotTo(HaveOccurred())
			dgkSecret, err := dgk.KeyGen(rand.Reader, 256, bigint.NewInt(1<<20))
			Expect(err).NotTo(HaveOccurred())

			_, err = securecompare.NewSession(
				paillierSecret, dgkSecret,
				securecompare.Params{L: 16, Kappa: 0},
				securecompare.CacheConfig{Capacity: 2, ReuseAllowed: true},
				slog.Default(),
			)
			Expect(err).To(HaveOccurred())
		})

		It("rejects operands at or beyond the precision bound", func() {
			bound := int64(1) << 15 // L: 16
			_, err := sess.Server.EncryptOperand(bigint.NewInt(bound))
			Expect(secerr.Is(err, secerr.PrecisionBound)).To(BeTrue())

			_, err = sess.Server.EncryptOperand(bigint.NewInt(-bound))
			Expect(secerr.Is(err, secerr.PrecisionBound)).To(BeTrue())

			_, err = sess.Server.EncryptOperand(bigint.NewInt(bound - 1))
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a fixed threshold at or beyond the precision bound", func() {
			paillierSecret, err := paillier.KeyGen(rand.Reader, 256)
			Expect(err).NotTo(HaveOccurred())
			dgkSecret, err := dgk.KeyGen(rand.Reader, 256, bigint.NewInt(1<<20))
			Expect(err).NotTo(HaveOccurred())

			_, err = securecompare.NewThresholdSession(
				paillierSecret, dgkSecret,
				securecompare.Params{L: 16, Kappa: 40},
				securecompare.CacheConfig{Capacity: 2, ReuseAllowed: true},
				slog.Default(),
				bigint.NewInt(1<<15),
			)
			Expect(secerr.Is(err, secerr.PrecisionBound)).To(BeTrue())
		})
	})
})
