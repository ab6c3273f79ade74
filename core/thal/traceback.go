// core/thal/traceback.go
// Structure recovery. The fill pass keeps only (dH, dS) per cell, so
// the traceback re-derives each decision and follows the branch whose
// recomputed values match the stored cell.
package thal

// traceDuplex recovers the duplex base pairing starting from the
// best-scoring cell. ps1/ps2 are 1-based partner indices, 0 meaning
// unpaired.
func (a *aligner) traceDuplex(i, j int, ps1, ps2 []int) {
	maxLoop := a.cfg.MaxLoop
	var sh [2]float64
	ps1[i-1] = j
	ps2[j-1] = i
	for {
		sh[0], sh[1] = -1.0, inf
		a.leftEdge(i, j, &sh)
		if eq(a.sm(i, j), sh[0]) && eq(a.hm(i, j), sh[1]) {
			break
		}
		done := false
		if i > 1 && j > 1 &&
			eq(a.sm(i, j), a.stackS(i-1, j-1, stackDuplex)+a.sm(i-1, j-1)) &&
			eq(a.hm(i, j), a.stackH(i-1, j-1, stackDuplex)+a.hm(i-1, j-1)) {
			i--
			j--
			ps1[i-1] = j
			ps2[j-1] = i
			done = true
		}
		for d := 3; !done && d <= maxLoop+2; d++ {
			ii := i - 1
			jj := -ii - d + (j + i)
			if jj < 1 {
				ii -= abs(jj - 1)
				jj = 1
			}
			for ; !done && ii > 0 && jj < j; ii, jj = ii-1, jj+1 {
				sh[0], sh[1] = -1.0, inf
				a.bulgeInternal(ii, jj, i, j, &sh, 1, maxLoop)
				if eq(a.sm(i, j), sh[0]) && eq(a.hm(i, j), sh[1]) {
					i = ii
					j = jj
					ps1[i-1] = j
					ps2[j-1] = i
					done = true
				}
			}
		}
	}
}

type foldFrame struct {
	i, j int
	mtrx int // 1: exterior prefix arrays, 0: paired cell (i, j)
}

// traceFold recovers the hairpin base pairing. bp[i-1] holds the
// 1-based partner of base i, 0 meaning unpaired.
func (a *aligner) traceFold(bp []int) {
	maxLoop := a.cfg.MaxLoop
	var sh1, sh2, ee [2]float64
	stack := []foldFrame{{a.len1, 0, 1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		i, j := top.i, top.j
		if top.mtrx == 1 {
			// skip over positions that add nothing
			for eq(a.send5[i], a.send5[i-1]) && eq(a.hend5[i], a.hend5[i-1]) {
				i--
			}
			if i == 0 {
				continue
			}
			h2, s2 := a.end5Pair(i)
			h3, s3 := a.end5Dangle5(i)
			h4, s4 := a.end5Dangle3(i)
			h5, s5 := a.end5Tstack(i)
			switch {
			case eq(a.send5[i], s2) && eq(a.hend5[i], h2):
				for k := 0; k <= i-minHairpinLoop-2; k++ {
					ts := a.atPenaltyS(a.s1[k+1], a.s1[i]) + a.sm(k+1, i)
					th := a.atPenaltyH(a.s1[k+1], a.s1[i]) + a.hm(k+1, i)
					if eq(a.send5[i], ts) && eq(a.hend5[i], th) {
						stack = append(stack, foldFrame{k + 1, i, 0})
						break
					} else if eq(a.send5[i], a.send5[k]+ts) && eq(a.hend5[i], a.hend5[k]+th) {
						stack = append(stack, foldFrame{k + 1, i, 0}, foldFrame{k, 0, 1})
						break
					}
				}
			case eq(a.send5[i], s3) && eq(a.hend5[i], h3):
				for k := 0; k <= i-minHairpinLoop-3; k++ {
					ts := a.atPenaltyS(a.s1[k+2], a.s1[i]) + a.sd5(i, k+2) + a.sm(k+2, i)
					th := a.atPenaltyH(a.s1[k+2], a.s1[i]) + a.hd5(i, k+2) + a.hm(k+2, i)
					if eq(a.send5[i], ts) && eq(a.hend5[i], th) {
						stack = append(stack, foldFrame{k + 2, i, 0})
						break
					} else if eq(a.send5[i], a.send5[k]+ts) && eq(a.hend5[i], a.hend5[k]+th) {
						stack = append(stack, foldFrame{k + 2, i, 0}, foldFrame{k, 0, 1})
						break
					}
				}
			case eq(a.send5[i], s4) && eq(a.hend5[i], h4):
				for k := 0; k <= i-minHairpinLoop-3; k++ {
					ts := a.atPenaltyS(a.s1[k+1], a.s1[i-1]) + a.sd3(i-1, k+1) + a.sm(k+1, i-1)
					th := a.atPenaltyH(a.s1[k+1], a.s1[i-1]) + a.hd3(i-1, k+1) + a.hm(k+1, i-1)
					if eq(a.send5[i], ts) && eq(a.hend5[i], th) {
						stack = append(stack, foldFrame{k + 1, i - 1, 0})
						break
					} else if eq(a.send5[i], a.send5[k]+ts) && eq(a.hend5[i], a.hend5[k]+th) {
						stack = append(stack, foldFrame{k + 1, i - 1, 0}, foldFrame{k, 0, 1})
						break
					}
				}
			case eq(a.send5[i], s5) && eq(a.hend5[i], h5):
				for k := 0; k <= i-minHairpinLoop-4; k++ {
					ts := a.atPenaltyS(a.s1[k+2], a.s1[i-1]) + a.ststack(i-1, k+2) + a.sm(k+2, i-1)
					th := a.atPenaltyH(a.s1[k+2], a.s1[i-1]) + a.htstack(i-1, k+2) + a.hm(k+2, i-1)
					if eq(a.send5[i], ts) && eq(a.hend5[i], th) {
						stack = append(stack, foldFrame{k + 2, i - 1, 0})
						break
					} else if eq(a.send5[i], a.send5[k]+ts) && eq(a.hend5[i], a.hend5[k]+th) {
						stack = append(stack, foldFrame{k + 2, i - 1, 0}, foldFrame{k, 0, 1})
						break
					}
				}
			}
			continue
		}

		bp[i-1] = j
		bp[j-1] = i
		sh1[0], sh1[1] = -1.0, inf
		a.hairpinCell(i, j, &sh1, 1)
		sh2[0], sh2[1] = -1.0, inf
		a.searchBulgeInternal(i, j, &sh2, 2, maxLoop)
		switch {
		case eq(a.sm(i, j), a.stackS(i, j, stackFold)+a.sm(i+1, j-1)) &&
			eq(a.hm(i, j), a.stackH(i, j, stackFold)+a.hm(i+1, j-1)):
			stack = append(stack, foldFrame{i + 1, j - 1, 0})
		case eq(a.sm(i, j), sh1[0]) && eq(a.hm(i, j), sh1[1]):
			// hairpin loop closes here
		case eq(a.sm(i, j), sh2[0]) && eq(a.hm(i, j), sh2[1]):
			done := false
			for d := j - i - 3; d >= minHairpinLoop+1 && d >= j-i-2-maxLoop && !done; d-- {
				for ii := i + 1; ii < j-d; ii++ {
					jj := d + ii
					ee[0], ee[1] = -1.0, inf
					a.bulgeInternalFold(i, j, ii, jj, &ee, 1, maxLoop)
					if eq(a.sm(i, j), ee[0]+a.sm(ii, jj)) && eq(a.hm(i, j), ee[1]+a.hm(ii, jj)) {
						stack = append(stack, foldFrame{ii, jj, 0})
						done = true
						break
					}
				}
			}
		}
	}
}
