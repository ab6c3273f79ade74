// core/thal/matrix.go
// Duplex dynamic programming. Cell (i, j) holds the best (dH, dS) of
// any structure pairing base i of strand 1 with base j of strand 2
// and extending to their 5' sides; loops and bulges reach back at
// most MaxLoop bases.
package thal

import (
	"thermalign-core/seq"
)

func (a *aligner) initDuplex() {
	for i := 1; i <= a.len1; i++ {
		for j := 1; j <= a.len2; j++ {
			if !seq.Pair(a.s1[i], a.s2[j]) {
				a.setHS(i, j, inf, -1.0)
			} else {
				a.setHS(i, j, 0.0, minEntropy)
			}
		}
	}
}

func (a *aligner) fillDuplex() {
	maxLoop := a.cfg.MaxLoop
	var sh [2]float64
	for i := 1; i <= a.len1; i++ {
		for j := 1; j <= a.len2; j++ {
			if !finite(a.hm(i, j)) {
				continue
			}
			sh[0], sh[1] = -1.0, inf
			a.leftEdge(i, j, &sh)
			if finite(sh[1]) {
				a.setHS(i, j, sh[1], sh[0])
			}
			if i > 1 && j > 1 {
				a.bestStackTm(i, j)
				for d := 3; d <= maxLoop+2; d++ {
					ii := i - 1
					jj := -ii - d + (j + i)
					if jj < 1 {
						ii -= abs(jj - 1)
						jj = 1
					}
					for ; ii > 0 && jj < j; ii, jj = ii-1, jj+1 {
						if !finite(a.hm(ii, jj)) {
							continue
						}
						sh[0], sh[1] = -1.0, inf
						a.bulgeInternal(ii, jj, i, j, &sh, 0, maxLoop)
						if sh[0] < minEntropyCutoff {
							// drop dH when dS is nonsense
							sh[0] = minEntropy
							sh[1] = 0.0
						}
						if finite(sh[1]) {
							a.setHS(i, j, sh[1], sh[0])
						}
					}
				}
			}
		}
	}
}

// bestStackTm keeps whichever of (current cell) and (previous pair
// plus one stack) implies the higher melting temperature.
func (a *aligner) bestStackTm(i, j int) {
	var sh [2]float64
	s0 := a.sm(i, j)
	h0 := a.hm(i, j)
	a.rightEdge(i, j, &sh)
	t0 := (h0 + a.initH + sh[1]) / (s0 + a.initS + sh[0] + a.rc)
	var s1, h1, t1 float64
	if finite(a.hm(i-1, j-1)) && finite(a.stackH(i-1, j-1, stackDuplex)) {
		s1 = a.sm(i-1, j-1) + a.stackS(i-1, j-1, stackDuplex)
		h1 = a.hm(i-1, j-1) + a.stackH(i-1, j-1, stackDuplex)
		t1 = (h1 + a.initH + sh[1]) / (s1 + a.initS + sh[0] + a.rc)
	} else {
		s1, h1 = -1.0, inf
		t1 = (h1 + a.initH) / (s1 + a.initS + a.rc)
	}
	if s1 < minEntropyCutoff {
		s1, h1 = minEntropy, 0.0
	}
	if s0 < minEntropyCutoff {
		s0, h0 = minEntropy, 0.0
	}
	if t1 > t0 {
		a.setHS(i, j, h1, s1)
	} else {
		a.setHS(i, j, h0, s0)
	}
}

// Stack lookup modes: duplex stacks read the next base on each
// strand; fold stacks read inward on the single strand.
const (
	stackDuplex = 1
	stackFold   = 2
)

func (a *aligner) stackS(i, j, mode int) float64 {
	if mode == stackFold {
		if i >= j || i == a.len1 || j == a.len2+1 {
			return -1.0
		}
		if i > a.len1 {
			i -= a.len1
		}
		if j > a.len2 {
			j -= a.len2
		}
		return a.t.StackS[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j-1]]
	}
	return a.t.StackS[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j+1]]
}

func (a *aligner) stackH(i, j, mode int) float64 {
	if mode == stackFold {
		if i >= j || i == a.len1 || j == a.len2+1 {
			return inf
		}
		if i > a.len1 {
			i -= a.len1
		}
		if j > a.len2 {
			j -= a.len2
		}
		if h := a.t.StackH[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j-1]]; finite(h) {
			return h
		}
		return inf
	}
	return a.t.StackH[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j+1]]
}

// leftEdge scores the 5'-side closing of a duplex at pair (i, j):
// either both neighbor bases as a terminal stack, one or two dangling
// ends, or a bare terminal pair. Terms whose dG at 37 C is positive
// are discarded; among survivors the implied-Tm winner is kept.
func (a *aligner) leftEdge(i, j int, out *[2]float64) {
	s1v := -1.0
	var h1v, t1, t2, g1, g2 float64
	h1v = -inf
	t1, t2 = -inf, -inf
	if !seq.Pair(a.s1[i], a.s2[j]) {
		a.setHS(i, j, inf, -1.0)
		return
	}
	s1v = a.atPenaltyS(a.s1[i], a.s2[j]) + a.t.Tstack2S[a.s2[j]][a.s2[j-1]][a.s1[i]][a.s1[i-1]]
	h1v = a.atPenaltyH(a.s1[i], a.s2[j]) + a.t.Tstack2H[a.s2[j]][a.s2[j-1]][a.s1[i]][a.s1[i-1]]
	g1 = h1v - tempKelvin*s1v
	if !finite(h1v) || g1 > 0 {
		h1v, s1v, g1 = inf, -1.0, 1.0
	}

	accept := func(s2c, h2c float64) {
		g2 = h2c - tempKelvin*s2c
		if !finite(h2c) || g2 > 0 {
			h2c, s2c, g2 = inf, -1.0, 1.0
		}
		t2 = (h2c + a.initH) / (s2c + a.initS + a.rc)
		if finite(h1v) && g1 < 0 {
			t1 = (h1v + a.initH) / (s1v + a.initS + a.rc)
			if t1 < t2 && g2 < 0 {
				s1v, h1v, t1 = s2c, h2c, t2
			}
		} else if g2 < 0 {
			s1v, h1v, t1 = s2c, h2c, t2
		}
	}

	paired := seq.Pair(a.s1[i-1], a.s2[j-1])
	d3fin := finite(a.t.Dangle3H[a.s2[j]][a.s2[j-1]][a.s1[i]])
	d5fin := finite(a.t.Dangle5H[a.s2[j]][a.s1[i]][a.s1[i-1]])
	switch {
	case !paired && d3fin && d5fin:
		accept(
			a.atPenaltyS(a.s1[i], a.s2[j])+a.t.Dangle3S[a.s2[j]][a.s2[j-1]][a.s1[i]]+a.t.Dangle5S[a.s2[j]][a.s1[i]][a.s1[i-1]],
			a.atPenaltyH(a.s1[i], a.s2[j])+a.t.Dangle3H[a.s2[j]][a.s2[j-1]][a.s1[i]]+a.t.Dangle5H[a.s2[j]][a.s1[i]][a.s1[i-1]],
		)
	case !paired && d3fin:
		accept(
			a.atPenaltyS(a.s1[i], a.s2[j])+a.t.Dangle3S[a.s2[j]][a.s2[j-1]][a.s1[i]],
			a.atPenaltyH(a.s1[i], a.s2[j])+a.t.Dangle3H[a.s2[j]][a.s2[j-1]][a.s1[i]],
		)
	case !paired && d5fin:
		accept(
			a.atPenaltyS(a.s1[i], a.s2[j])+a.t.Dangle5S[a.s2[j]][a.s1[i]][a.s1[i-1]],
			a.atPenaltyH(a.s1[i], a.s2[j])+a.t.Dangle5H[a.s2[j]][a.s1[i]][a.s1[i-1]],
		)
	}

	// Fall back to the bare terminal pair when it melts higher.
	s2v := a.atPenaltyS(a.s1[i], a.s2[j])
	h2v := a.atPenaltyH(a.s1[i], a.s2[j])
	t2 = (h2v + a.initH) / (s2v + a.initS + a.rc)
	if finite(h1v) {
		if t1 < t2 {
			out[0], out[1] = s2v, h2v
		} else {
			out[0], out[1] = s1v, h1v
		}
	} else {
		out[0], out[1] = s2v, h2v
	}
}

// rightEdge is leftEdge mirrored to the 3' side of pair (i, j).
func (a *aligner) rightEdge(i, j int, out *[2]float64) {
	s1v := -1.0
	var t1, t2, g1, g2 float64
	h1v := inf
	t1, t2 = -inf, -inf
	if !seq.Pair(a.s1[i], a.s2[j]) {
		out[0], out[1] = -1.0, inf
		return
	}
	s1v = a.atPenaltyS(a.s1[i], a.s2[j]) + a.t.Tstack2S[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j+1]]
	h1v = a.atPenaltyH(a.s1[i], a.s2[j]) + a.t.Tstack2H[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j+1]]
	g1 = h1v - tempKelvin*s1v
	if !finite(h1v) || g1 > 0 {
		h1v, s1v, g1 = inf, -1.0, 1.0
	}

	accept := func(s2c, h2c float64) {
		g2 = h2c - tempKelvin*s2c
		if !finite(h2c) || g2 > 0 {
			h2c, s2c, g2 = inf, -1.0, 1.0
		}
		t2 = (h2c + a.initH) / (s2c + a.initS + a.rc)
		if finite(h1v) && g1 < 0 {
			t1 = (h1v + a.initH) / (s1v + a.initS + a.rc)
			if t1 < t2 && g2 < 0 {
				s1v, h1v, t1 = s2c, h2c, t2
			}
		} else if g2 < 0 {
			s1v, h1v, t1 = s2c, h2c, t2
		}
	}

	unpaired := !seq.Pair(a.s1[i+1], a.s2[j+1])
	d3fin := finite(a.t.Dangle3H[a.s1[i]][a.s1[i+1]][a.s2[j]])
	d5fin := finite(a.t.Dangle5H[a.s1[i]][a.s2[j]][a.s2[j+1]])
	switch {
	case unpaired && d3fin && d5fin:
		accept(
			a.atPenaltyS(a.s1[i], a.s2[j])+a.t.Dangle3S[a.s1[i]][a.s1[i+1]][a.s2[j]]+a.t.Dangle5S[a.s1[i]][a.s2[j]][a.s2[j+1]],
			a.atPenaltyH(a.s1[i], a.s2[j])+a.t.Dangle3H[a.s1[i]][a.s1[i+1]][a.s2[j]]+a.t.Dangle5H[a.s1[i]][a.s2[j]][a.s2[j+1]],
		)
	case unpaired && d3fin:
		accept(
			a.atPenaltyS(a.s1[i], a.s2[j])+a.t.Dangle3S[a.s1[i]][a.s1[i+1]][a.s2[j]],
			a.atPenaltyH(a.s1[i], a.s2[j])+a.t.Dangle3H[a.s1[i]][a.s1[i+1]][a.s2[j]],
		)
	case unpaired && d5fin:
		accept(
			a.atPenaltyS(a.s1[i], a.s2[j])+a.t.Dangle5S[a.s1[i]][a.s2[j]][a.s2[j+1]],
			a.atPenaltyH(a.s1[i], a.s2[j])+a.t.Dangle5H[a.s1[i]][a.s2[j]][a.s2[j+1]],
		)
	}

	s2v := a.atPenaltyS(a.s1[i], a.s2[j])
	h2 := a.atPenaltyH(a.s1[i], a.s2[j])
	t2 = (h2 + a.initH) / (s2v + a.initS + a.rc)
	if finite(h1v) {
		if t1 < t2 {
			out[0], out[1] = s2v, h2
		} else {
			out[0], out[1] = s1v, h1v
		}
	} else {
		out[0], out[1] = s2v, h2
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
