// core/thal/hairpin.go
// Single-strand folding. Cell (i, j) holds the best (dH, dS) of any
// structure closed by the pair (i, j); the exterior 5' prefix arrays
// send5/hend5 then absorb dangling ends and terminal stacks outside
// the outermost pair.
package thal

import (
	"thermalign-core/params"
	"thermalign-core/seq"
)

func (a *aligner) initFold() {
	for i := 1; i <= a.len1; i++ {
		for j := i; j <= a.len2; j++ {
			if j-i < minHairpinLoop+1 || !seq.Pair(a.s1[i], a.s1[j]) {
				a.setHS(i, j, inf, -1.0)
			} else {
				a.setHS(i, j, 0.0, minEntropy)
			}
		}
	}
}

func (a *aligner) fillFold() {
	maxLoop := a.cfg.MaxLoop
	var sh [2]float64
	for j := 2; j <= a.len2; j++ {
		for i := j - minHairpinLoop - 1; i >= 1; i-- {
			if !finite(a.hm(i, j)) {
				continue
			}
			sh[0], sh[1] = -1.0, inf
			a.bestStackTm2(i, j)
			a.searchBulgeInternal(i, j, &sh, 0, maxLoop)
			sh[0], sh[1] = -1.0, inf
			a.hairpinCell(i, j, &sh, 0)
			if finite(sh[1]) {
				if sh[0] < minEntropyCutoff {
					sh[0] = minEntropy
					sh[1] = 0.0
				}
				a.setHS(i, j, sh[1], sh[0])
			}
		}
	}
}

func (a *aligner) bestStackTm2(i, j int) {
	s0 := a.sm(i, j)
	h0 := a.hm(i, j)
	t0 := (h0 + a.initH) / (s0 + a.initS + a.rc)
	var s1, h1 float64
	if finite(a.hm(i, j)) {
		s1 = a.sm(i+1, j-1) + a.stackS(i, j, stackFold)
		h1 = a.hm(i+1, j-1) + a.stackH(i, j, stackFold)
	} else {
		s1, h1 = -1.0, inf
	}
	t1 := (h1 + a.initH) / (s1 + a.initS + a.rc)
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

// searchBulgeInternal scans every interior placement of an inner pair
// (ii, jj) under the closing pair (i, j), keeping any bulge/internal
// loop that beats the current cell. tb != 0 marks traceback re-runs.
func (a *aligner) searchBulgeInternal(i, j int, out *[2]float64, tb, maxLoop int) {
	for d := j - i - 3; d >= minHairpinLoop+1 && d >= j-i-2-maxLoop; d-- {
		for ii := i + 1; ii < j-d && ii <= a.len1; ii++ {
			jj := d + ii
			if tb == 0 {
				out[0], out[1] = -1.0, inf
			}
			if finite(a.hm(ii, jj)) && finite(a.hm(i, j)) {
				a.bulgeInternalFold(i, j, ii, jj, out, tb, maxLoop)
				if finite(out[1]) {
					if out[0] < minEntropyCutoff {
						out[0] = minEntropy
						out[1] = 0.0
					}
					if tb == 0 {
						a.setHS(i, j, out[1], out[0])
					}
				}
			}
		}
	}
}

// hairpinCell scores the plain hairpin loop closed by (i, j):
// size-dependent loop penalty, terminal mismatch or closing AT
// penalty, and tri/tetraloop sequence bonuses.
func (a *aligner) hairpinCell(i, j int, out *[2]float64, tb int) {
	loopSize := j - i - 1
	var sh [2]float64
	sh[0], sh[1] = -1.0, inf
	if loopSize < minHairpinLoop {
		out[0], out[1] = -1.0, inf
		return
	}
	if loopSize <= 30 {
		out[1] = a.t.HairpinH[loopSize-1]
		out[0] = a.t.HairpinS[loopSize-1]
	} else {
		out[1] = a.t.HairpinH[29]
		out[0] = a.t.HairpinS[29]
	}

	if loopSize > 3 {
		out[1] += a.t.Tstack2H[a.s1[i]][a.s1[i+1]][a.s1[j]][a.s1[j-1]]
		out[0] += a.t.Tstack2S[a.s1[i]][a.s1[i+1]][a.s1[j]][a.s1[j-1]]
	} else if loopSize == 3 {
		out[1] += a.atPenaltyH(a.s1[i], a.s1[j])
		out[0] += a.atPenaltyS(a.s1[i], a.s1[j])
	}

	if loopSize == 3 {
		if e := params.Triloop(a.t.TriloopH, a.s1[i:]); e != nil {
			out[1] += e.Value
		}
		if e := params.Triloop(a.t.TriloopS, a.s1[i:]); e != nil {
			out[0] += e.Value
		}
	} else if loopSize == 4 {
		if e := params.Tetraloop(a.t.TetraloopH, a.s1[i:]); e != nil {
			out[1] += e.Value
		}
		if e := params.Tetraloop(a.t.TetraloopS, a.s1[i:]); e != nil {
			out[0] += e.Value
		}
	}

	if !finite(out[1]) {
		out[1] = inf
		out[0] = -1.0
	}
	// A structure with both terms positive can only be worse than no
	// structure at all.
	if out[1] > 0 && out[0] > 0 && (!(a.hm(i, j) > 0) || !(a.sm(i, j) > 0)) {
		out[1] = inf
		out[0] = -1.0
	}
	a.rightEdge(i, j, &sh)
	g1 := out[1] + sh[1] - tempKelvin*(out[0]+sh[0])
	g2 := a.hm(i, j) + sh[1] - tempKelvin*(a.sm(i, j)+sh[0])
	if g2 < g1 && tb == 0 {
		out[0] = a.sm(i, j)
		out[1] = a.hm(i, j)
	}
}

// exterior5 fills send5/hend5: the best exterior (unfolded 5' prefix)
// structure ending at each position, considering a bare terminal
// pair, a 5' or 3' dangling base, or a terminal stack.
func (a *aligner) exterior5(temp float64) {
	a.send5[0], a.send5[1] = -1.0, -1.0
	a.hend5[0], a.hend5[1] = inf, inf
	for i := 2; i <= a.len1; i++ {
		a.send5[i] = minEntropy
		a.hend5[i] = 0
	}
	for i := 2; i <= a.len1; i++ {
		t1 := (a.hend5[i-1] + a.initH) / (a.send5[i-1] + a.initS + a.rc)
		h2, s2 := a.end5Pair(i)
		h3, s3 := a.end5Dangle5(i)
		h4, s4 := a.end5Dangle3(i)
		h5, s5 := a.end5Tstack(i)
		t2 := (h2 + a.initH) / (s2 + a.initS + a.rc)
		t3 := (h3 + a.initH) / (s3 + a.initS + a.rc)
		t4 := (h4 + a.initH) / (s4 + a.initS + a.rc)
		t5 := (h5 + a.initH) / (s5 + a.initS + a.rc)
		keep := func(h, s float64) {
			if g := h - temp*s; g < 0 {
				a.send5[i] = s
				a.hend5[i] = h
			} else {
				a.send5[i] = a.send5[i-1]
				a.hend5[i] = a.hend5[i-1]
			}
		}
		switch max5(t1, t2, t3, t4, t5) {
		case 1:
			a.send5[i] = a.send5[i-1]
			a.hend5[i] = a.hend5[i-1]
		case 2:
			keep(h2, s2)
		case 3:
			keep(h3, s3)
		case 4:
			keep(h4, s4)
		case 5:
			keep(h5, s5)
		}
	}
}

// end5Scan is the shared candidate loop of the four exterior closings:
// for each split point k it tries attaching the folded region term
// (supplied by f) to the best prefix or to an empty prefix, and keeps
// the implied-Tm winner.
func (a *aligner) end5Scan(i, kMax int, f func(k int) (h, s float64)) (hMax, sMax float64) {
	hMax, sMax = inf, -1.0
	maxTm := -inf
	for k := 0; k <= kMax; k++ {
		t1 := (a.hend5[k] + a.initH) / (a.send5[k] + a.initS + a.rc)
		t2 := (0 + a.initH) / (0 + a.initS + a.rc)
		fh, fs := f(k)
		var h, s float64
		if t1 >= t2 {
			h = a.hend5[k] + fh
			s = a.send5[k] + fs
		} else {
			h = fh
			s = fs
		}
		if !finite(h) || h > 0 || s > 0 {
			h, s = inf, -1.0
		}
		t1 = (h + a.initH) / (s + a.initS + a.rc)
		if maxTm < t1 && s > minEntropyCutoff {
			hMax, sMax = h, s
			maxTm = t1
		}
	}
	return hMax, sMax
}

// bare terminal pair (k+1, i)
func (a *aligner) end5Pair(i int) (h, s float64) {
	return a.end5Scan(i, i-minHairpinLoop-2, func(k int) (float64, float64) {
		return a.atPenaltyH(a.s1[k+1], a.s1[i]) + a.hm(k+1, i),
			a.atPenaltyS(a.s1[k+1], a.s1[i]) + a.sm(k+1, i)
	})
}

// 5' dangling base before pair (k+2, i)
func (a *aligner) end5Dangle5(i int) (h, s float64) {
	return a.end5Scan(i, i-minHairpinLoop-3, func(k int) (float64, float64) {
		return a.atPenaltyH(a.s1[k+2], a.s1[i]) + a.hd5(i, k+2) + a.hm(k+2, i),
			a.atPenaltyS(a.s1[k+2], a.s1[i]) + a.sd5(i, k+2) + a.sm(k+2, i)
	})
}

// 3' dangling base after pair (k+1, i-1)
func (a *aligner) end5Dangle3(i int) (h, s float64) {
	return a.end5Scan(i, i-minHairpinLoop-3, func(k int) (float64, float64) {
		return a.atPenaltyH(a.s1[k+1], a.s1[i-1]) + a.hd3(i-1, k+1) + a.hm(k+1, i-1),
			a.atPenaltyS(a.s1[k+1], a.s1[i-1]) + a.sd3(i-1, k+1) + a.sm(k+1, i-1)
	})
}

// terminal stack around pair (k+2, i-1)
func (a *aligner) end5Tstack(i int) (h, s float64) {
	return a.end5Scan(i, i-minHairpinLoop-4, func(k int) (float64, float64) {
		return a.atPenaltyH(a.s1[k+2], a.s1[i-1]) + a.htstack(i-1, k+2) + a.hm(k+2, i-1),
			a.atPenaltyS(a.s1[k+2], a.s1[i-1]) + a.ststack(i-1, k+2) + a.sm(k+2, i-1)
	})
}

func (a *aligner) sd5(i, j int) float64 { return a.t.Dangle5S[a.s1[i]][a.s1[j]][a.s1[j-1]] }
func (a *aligner) hd5(i, j int) float64 { return a.t.Dangle5H[a.s1[i]][a.s1[j]][a.s1[j-1]] }
func (a *aligner) sd3(i, j int) float64 { return a.t.Dangle3S[a.s1[i]][a.s1[i+1]][a.s1[j]] }
func (a *aligner) hd3(i, j int) float64 { return a.t.Dangle3H[a.s1[i]][a.s1[i+1]][a.s1[j]] }
func (a *aligner) ststack(i, j int) float64 {
	return a.t.Tstack2S[a.s1[i]][a.s1[i+1]][a.s1[j]][a.s1[j-1]]
}
func (a *aligner) htstack(i, j int) float64 {
	return a.t.Tstack2H[a.s1[i]][a.s1[i+1]][a.s1[j]][a.s1[j-1]]
}

// max5 returns which of the five arguments is largest, ties resolving
// to the later one.
func max5(a, b, c, d, e float64) int {
	switch {
	case a > b && a > c && a > d && a > e:
		return 1
	case b > c && b > d && b > e:
		return 2
	case c > d && c > e:
		return 3
	case d > e:
		return 4
	default:
		return 5
	}
}
