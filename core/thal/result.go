// core/thal/result.go
// Best-structure selection, final thermodynamics and the plain-text
// structure rows. The salt correction enters here: dS picks up one
// correction term per interior phosphate pair of the final structure.
package thal

import "strings"

func (a *aligner) runDuplex() (Result, error) {
	a.initDuplex()
	a.fillDuplex()

	var sh [2]float64
	bestI, bestJ := 0, 0
	bestG := inf
	if a.cfg.Kind == Any {
		for i := 1; i <= a.len1; i++ {
			for j := 1; j <= a.len2; j++ {
				sh[0], sh[1] = -1.0, inf
				a.rightEdge(i, j, &sh)
				g := (a.hm(i, j) + sh[1] + smallNonZero + a.initH) -
					tempKelvin*(a.sm(i, j)+sh[0]+smallNonZero+a.initS)
				if g < bestG {
					bestG = g
					bestI, bestJ = i, j
				}
			}
		}
	} else {
		// end-anchored: the last base of the first strand must pair
		bestI = a.len1
		for j := 1; j <= a.len2; j++ {
			sh[0], sh[1] = -1.0, inf
			a.rightEdge(a.len1, j, &sh)
			g := (a.hm(a.len1, j) + sh[1] + smallNonZero + a.initH) -
				tempKelvin*(a.sm(a.len1, j)+sh[0]+smallNonZero+a.initS)
			if g < bestG {
				bestG = g
				bestJ = j
			}
		}
	}
	if !finite(bestG) {
		bestI, bestJ = 1, 1
	}

	sh[0], sh[1] = -1.0, inf
	a.rightEdge(bestI, bestJ, &sh)
	dH := a.hm(bestI, bestJ) + sh[1] + a.initH
	dS := a.sm(bestI, bestJ) + sh[0] + a.initS

	if !finite(a.hm(bestI, bestJ)) {
		return Result{}, nil
	}

	ps1 := make([]int, a.len1)
	ps2 := make([]int, a.len2)
	a.traceDuplex(bestI, bestJ, ps1, ps2)

	n := 0
	for _, p := range ps1 {
		if p > 0 {
			n++
		}
	}
	for _, p := range ps2 {
		if p > 0 {
			n++
		}
	}
	corr := float64(n/2-1) * a.salt

	out := Result{
		StructureFound: true,
		Tm:             dH/(dS+corr+a.rc) - absoluteZero,
		AlignEnd1:      bestI,
		AlignEnd2:      bestJ,
	}
	if !a.cfg.TemperatureOnly {
		out.DH = dH
		out.DS = dS + corr
		out.DG = dH - a.temp*(dS+corr)
	}
	if a.cfg.Structure {
		out.Lines = a.renderDuplex(ps1, ps2)
	}
	return out, nil
}

func (a *aligner) runFold() (Result, error) {
	a.initFold()
	a.fillFold()
	a.exterior5(a.temp)

	mh := a.hend5[a.len1]
	ms := a.send5[a.len1]
	if !finite(mh) {
		return Result{}, nil
	}

	bp := make([]int, a.len1)
	a.traceFold(bp)

	// interior phosphate count excludes the last base
	n := 0
	for i := 1; i < a.len1; i++ {
		if bp[i-1] > 0 {
			n++
		}
	}
	corr := float64(n/2-1) * a.salt

	out := Result{
		StructureFound: true,
		Tm:             mh/(ms+corr) - absoluteZero,
	}
	if !a.cfg.TemperatureOnly {
		out.DH = mh
		out.DS = ms + corr
		out.DG = mh - a.temp*(ms+corr)
	}
	if a.cfg.Structure {
		out.Lines = a.renderFold(bp)
	}
	return out, nil
}

// renderDuplex lays the two strands out in four rows: unpaired bases
// of strand one on the outer rows, the paired core on the inner two,
// with '-' filling gaps opposite an unpaired run.
func (a *aligner) renderDuplex(ps1, ps2 []int) []string {
	var r0, r1, r2, r3 []byte
	pad := func(row *[]byte, c byte, n int) {
		for k := 0; k < n; k++ {
			*row = append(*row, c)
		}
	}

	numSS1 := 0
	for numSS1 < a.len1 && ps1[numSS1] == 0 {
		numSS1++
	}
	numSS2 := 0
	for numSS2 < a.len2 && ps2[numSS2] == 0 {
		numSS2++
	}

	if numSS1 >= numSS2 {
		r0 = append(r0, a.oligo1[:numSS1]...)
		pad(&r1, ' ', numSS1)
		pad(&r2, ' ', numSS1)
		pad(&r3, ' ', numSS1-numSS2)
		r3 = append(r3, a.oligo2[:numSS2]...)
	} else {
		r3 = append(r3, a.oligo2[:numSS2]...)
		pad(&r1, ' ', numSS2)
		pad(&r2, ' ', numSS2)
		pad(&r0, ' ', numSS2-numSS1)
		r0 = append(r0, a.oligo1[:numSS1]...)
	}

	i, j := numSS1+1, numSS2+1
	for i <= a.len1 {
		for i <= a.len1 && ps1[i-1] != 0 && j <= a.len2 && ps2[j-1] != 0 {
			r0 = append(r0, ' ')
			r1 = append(r1, a.oligo1[i-1])
			r2 = append(r2, a.oligo2[j-1])
			r3 = append(r3, ' ')
			i++
			j++
		}
		n1 := 0
		for i <= a.len1 && ps1[i-1] == 0 {
			r0 = append(r0, a.oligo1[i-1])
			r1 = append(r1, ' ')
			n1++
			i++
		}
		n2 := 0
		for j <= a.len2 && ps2[j-1] == 0 {
			r2 = append(r2, ' ')
			r3 = append(r3, a.oligo2[j-1])
			n2++
			j++
		}
		if n1 < n2 {
			pad(&r0, '-', n2-n1)
			pad(&r1, ' ', n2-n1)
		} else if n1 > n2 {
			pad(&r2, ' ', n1-n2)
			pad(&r3, '-', n1-n2)
		}
	}

	label := func(tag string, row []byte) string {
		return tag + "\t" + strings.TrimRight(string(row), " ")
	}
	return []string{label("SEQ", r0), label("SEQ", r1), label("STR", r2), label("STR", r3)}
}

// renderFold shows the fold as a mark row over the sequence: '-' for
// unpaired bases, '/' on the 5' side of a pair and '\' on the 3' side.
func (a *aligner) renderFold(bp []int) []string {
	row := make([]byte, a.len1)
	for i := 1; i <= a.len1; i++ {
		if bp[i-1] == 0 {
			row[i-1] = '-'
		} else if bp[i-1] > i-1 {
			row[bp[i-1]-1] = '\\'
		} else {
			row[bp[i-1]-1] = '/'
		}
	}
	return []string{"SEQ\t" + string(row), "STR\t" + string(a.oligo1)}
}
