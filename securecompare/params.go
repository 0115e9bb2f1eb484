// Package securecompare implements the two-party secure comparison
// protocol: given Paillier encryptions [a] and [b] held by a Server that
// cannot decrypt, and a Client holding the Paillier and DGK decryption
// keys, the two parties jointly compute an encryption of 1{a >= b}
// without either party learning a, b, or the result in the clear.
//
// The five-step algorithm (compute [d], blind it into [z], split [z]
// across the Paillier decrypt and the DGK sub-protocol, recombine) follows
// Veugen's corrected DGK comparison protocol, including its fix for a tie-
// breaking error in the original published paper (see the doc comment on
// Server.compare).
package securecompare

// Params fixes the bit-length bound l on compared operands and the
// statistical security parameter kappa used to size the Paillier-layer
// blinding randomizer r (sampled from [0, 2^(l+1+kappa))).
type Params struct {
	L     int
	Kappa int
}
