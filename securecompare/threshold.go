package securecompare

import "github.com/isplab/secomp/pkg/paillier"

// CompareToThreshold returns [1] if the encrypted value is >= the
// threshold this Server was constructed with, and [0] otherwise. Only
// meaningful on a Server built via NewThresholdSession; a Server built via
// NewSession leaves minusThreshold at [0] since it never calls this
// method.
func (s *Server) CompareToThreshold(value paillier.Ciphertext) (paillier.Ciphertext, error) {
	return s.compare(value, s.minusThreshold)
}
