// core/thal/loops.go
// Bulge and internal loop scoring between an outer pair (i, j) and an
// inner pair (ii, jj). Four cases by loop geometry: single-base bulge
// (kept stacking), longer bulge, 1x1 internal mismatch, and general
// internal loop with an asymmetry penalty.
package thal

import "math"

// bulgeInternal scores the duplex loop between the 5'-side pair (i, j)
// and the 3'-side pair (ii, jj), folding the accumulated cell (i, j)
// into the candidate and writing it to out when it improves the free
// energy at 37 C of cell (ii, jj). tb == 1 marks traceback re-runs,
// which always record the candidate.
func (a *aligner) bulgeInternal(i, j, ii, jj int, out *[2]float64, tb, maxLoop int) {
	loopSize1 := ii - i - 1
	loopSize2 := jj - j - 1
	loopSize := loopSize1 + loopSize2 - 1 // table index, size-1
	var sh [2]float64
	sh[0], sh[1] = -1.0, inf
	var h, s float64

	switch {
	case loopSize1 == 0 || loopSize2 == 0: // bulge
		if loopSize1 == 0 && loopSize2 == 0 {
			return
		}
		if loopSize1 == 1 || loopSize2 == 1 {
			// single-base bulge keeps the flanking stack
			h = a.t.BulgeH[loopSize] + a.t.StackH[a.s1[i]][a.s1[ii]][a.s2[j]][a.s2[jj]]
			s = a.t.BulgeS[loopSize] + a.t.StackS[a.s1[i]][a.s1[ii]][a.s2[j]][a.s2[jj]]
			if h > 0 || s > 0 {
				h, s = inf, -1.0
			}
			h += a.hm(i, j)
			s += a.sm(i, j)
			if !finite(h) {
				h, s = inf, -1.0
			}
		} else {
			h = a.t.BulgeH[loopSize] + a.atPenaltyH(a.s1[i], a.s2[j]) + a.atPenaltyH(a.s1[ii], a.s2[jj])
			s = a.t.BulgeS[loopSize] + a.atPenaltyS(a.s1[i], a.s2[j]) + a.atPenaltyS(a.s1[ii], a.s2[jj])
			h += a.hm(i, j)
			s += a.sm(i, j)
			if !finite(h) {
				h, s = inf, -1.0
			}
			if h > 0 && s > 0 {
				h, s = inf, -1.0
			}
		}
	case loopSize1 == 1 && loopSize2 == 1:
		h = a.t.StackMMH[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j+1]] +
			a.t.StackMMH[a.s2[jj]][a.s2[jj-1]][a.s1[ii]][a.s1[ii-1]]
		s = a.t.StackMMS[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j+1]] +
			a.t.StackMMS[a.s2[jj]][a.s2[jj-1]][a.s1[ii]][a.s1[ii-1]]
		h += a.hm(i, j)
		s += a.sm(i, j)
		if !finite(h) {
			h, s = inf, -1.0
		}
		if h > 0 && s > 0 {
			h, s = inf, -1.0
		}
	default: // internal loop
		h = a.t.InteriorH[loopSize] +
			a.t.TstackH[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j+1]] +
			a.t.TstackH[a.s2[jj]][a.s2[jj-1]][a.s1[ii]][a.s1[ii-1]] +
			ilAH*math.Abs(float64(loopSize1-loopSize2))
		s = a.t.InteriorS[loopSize] +
			a.t.TstackS[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j+1]] +
			a.t.TstackS[a.s2[jj]][a.s2[jj-1]][a.s1[ii]][a.s1[ii-1]] +
			ilAS*math.Abs(float64(loopSize1-loopSize2))
		h += a.hm(i, j)
		s += a.sm(i, j)
		if !finite(h) {
			h, s = inf, -1.0
		}
		if h > 0 && s > 0 {
			h, s = inf, -1.0
		}
	}

	if !finite(h) {
		return
	}
	a.rightEdge(ii, jj, &sh)
	g1 := h + sh[1] - tempKelvin*(s+sh[0])
	g2 := a.hm(ii, jj) + sh[1] - tempKelvin*(a.sm(ii, jj)+sh[0])
	if g1 < g2 || tb == 1 {
		out[0] = s
		out[1] = h
	}
}

// bulgeInternalFold is the folding variant: the inner pair (ii, jj)
// nests inside (i, j), and candidates are ranked by implied Tm
// against the current cell (i, j).
func (a *aligner) bulgeInternalFold(i, j, ii, jj int, out *[2]float64, tb, maxLoop int) {
	loopSize1 := ii - i - 1
	loopSize2 := j - jj - 1
	if loopSize1+loopSize2 > maxLoop {
		out[0], out[1] = -1.0, inf
		return
	}
	loopSize := loopSize1 + loopSize2 - 1
	var h, s float64

	record := func(h, s float64) {
		t1 := (h + a.initH) / (s + a.initS + a.rc)
		t2 := (a.hm(i, j) + a.initH) / (a.sm(i, j) + a.initS + a.rc)
		if t1 > t2 || (tb != 0 && t1 >= t2) || tb == 1 {
			out[0] = s
			out[1] = h
		}
	}

	switch {
	case loopSize1 == 0 || loopSize2 == 0: // bulge
		if loopSize1 == 0 && loopSize2 == 0 {
			out[0], out[1] = -1.0, inf
			return
		}
		if loopSize1 == 1 || loopSize2 == 1 {
			h = a.t.BulgeH[loopSize] + a.t.StackH[a.s1[i]][a.s1[ii]][a.s2[j]][a.s2[jj]]
			s = a.t.BulgeS[loopSize] + a.t.StackS[a.s1[i]][a.s1[ii]][a.s2[j]][a.s2[jj]]
			if tb != 1 {
				h += a.hm(ii, jj)
				s += a.sm(ii, jj)
			}
			if !finite(h) {
				h, s = inf, -1.0
			}
			record(h, s)
		} else {
			h = a.t.BulgeH[loopSize] + a.atPenaltyH(a.s1[i], a.s2[j]) + a.atPenaltyH(a.s1[ii], a.s2[jj])
			s = a.t.BulgeS[loopSize] + a.atPenaltyS(a.s1[i], a.s2[j]) + a.atPenaltyS(a.s1[ii], a.s2[jj])
			if tb != 1 {
				h += a.hm(ii, jj)
				s += a.sm(ii, jj)
			}
			if !finite(h) {
				h, s = inf, -1.0
			}
			record(h, s)
		}
	case loopSize1 == 1 && loopSize2 == 1:
		h = a.t.StackMMH[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j-1]] +
			a.t.StackMMH[a.s2[jj]][a.s2[jj+1]][a.s1[ii]][a.s1[ii-1]]
		s = a.t.StackMMS[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j-1]] +
			a.t.StackMMS[a.s2[jj]][a.s2[jj+1]][a.s1[ii]][a.s1[ii-1]]
		if tb != 1 {
			h += a.hm(ii, jj)
			s += a.sm(ii, jj)
		}
		if !finite(h) {
			h, s = inf, -1.0
		}
		t1 := (h + a.initH) / (s + a.initS + a.rc)
		t2 := (a.hm(i, j) + a.initH) / (a.sm(i, j) + a.initS + a.rc)
		if notEq(t1, t2) || tb != 0 {
			if t1 > t2 || (tb != 0 && t1 >= t2) || tb == 1 {
				out[0] = s
				out[1] = h
			}
		}
	default: // internal loop
		h = a.t.InteriorH[loopSize] +
			a.t.TstackH[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j-1]] +
			a.t.TstackH[a.s2[jj]][a.s2[jj+1]][a.s1[ii]][a.s1[ii-1]] +
			ilAH*math.Abs(float64(loopSize1-loopSize2))
		s = a.t.InteriorS[loopSize] +
			a.t.TstackS[a.s1[i]][a.s1[i+1]][a.s2[j]][a.s2[j-1]] +
			a.t.TstackS[a.s2[jj]][a.s2[jj+1]][a.s1[ii]][a.s1[ii-1]] +
			ilAS*math.Abs(float64(loopSize1-loopSize2))
		if tb != 1 {
			h += a.hm(ii, jj)
			s += a.sm(ii, jj)
		}
		if !finite(h) {
			h, s = inf, -1.0
		}
		record(h, s)
	}
}

// notEq mirrors a coarse floating-point inequality check used when
// ranking 1x1 internal loop candidates.
func notEq(x, y float64) bool {
	return x-y >= 1e-6
}
