// core/seq/seq.go
// Base encoding and small sequence utilities shared by the alignment
// and Tm packages. Bases are coded A=0, C=1, G=2, T=3; anything else
// (including N) codes to 4 and never pairs.
package seq

import (
	"fmt"
	"strings"
)

const (
	A byte = iota
	C
	G
	T
	N // any unrecognized symbol
)

// Limits for thermodynamic alignment. At least one strand of a duplex
// must fit MaxAlign; no strand may exceed MaxSeq.
const (
	MaxAlign = 60
	MaxSeq   = 10000
)

// Code converts one base character to its numeric code.
func Code(c byte) byte {
	switch c {
	case 'A', 'a', '0':
		return A
	case 'C', 'c', '1':
		return C
	case 'G', 'g', '2':
		return G
	case 'T', 't', '3':
		return T
	}
	return N
}

// Encode converts a sequence into a 1-based numeric array with code N
// sentinels at both ends: index 1..len(s) holds the bases, index 0 and
// len(s)+1 hold 4. The padding lets neighbor lookups run off either
// end without bounds checks.
func Encode(s string) []byte {
	enc := make([]byte, len(s)+2)
	enc[0] = N
	for i := 0; i < len(s); i++ {
		enc[i+1] = Code(s[i])
	}
	enc[len(s)+1] = N
	return enc
}

// Upper uppercases a sequence without any validation.
func Upper(s string) string { return strings.ToUpper(s) }

// Validate returns the uppercased sequence or an error when a
// character outside A/C/G/T/N appears. N is accepted; it simply never
// pairs during alignment.
func Validate(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return "", fmt.Errorf("invalid base %q at %d; allowed: A C G T N", s[i], i+1)
		}
	}
	return s, nil
}

// Reverse reverses s in place.
func Reverse(s []byte) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Reversed returns the reversal of s.
func Reversed(s string) string {
	b := []byte(s)
	Reverse(b)
	return string(b)
}

// Pair reports whether coded bases a and b form a Watson-Crick pair.
func Pair(a, b byte) bool {
	return (a == A && b == T) || (a == T && b == A) ||
		(a == C && b == G) || (a == G && b == C)
}

// Symmetric reports whether the sequence is self-complementary, i.e.
// identical to its own reverse complement. Odd-length sequences are
// never symmetric.
func Symmetric(s string) bool {
	n := len(s)
	if n%2 == 1 {
		return false
	}
	for i, j := 0, n-1; i < n/2; i, j = i+1, j-1 {
		if !Pair(Code(s[i]), Code(s[j])) {
			return false
		}
	}
	return true
}
