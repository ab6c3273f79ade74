// core/thal/traceback_test.go
package thal

import (
	"testing"

	"thermalign-core/params"
)

// chainPairs lists the traced helix pairs outermost-first.
func chainPairs(bp []int) (pi, pj []int) {
	for i := 1; i <= len(bp); i++ {
		if bp[i-1] > i {
			pi = append(pi, i)
			pj = append(pj, bp[i-1])
		}
	}
	return pi, pj
}

// Re-derive the folded structure's enthalpy and entropy from the traced
// pairing array with table lookups alone and compare against the totals
// the search reported. A traceback that walks a different structure than
// the one the fill pass scored would break this equality.
func TestFoldTracebackResums(t *testing.T) {
	tbl := testTables(t)
	seqs := []string{
		"CCGCCTAATGGGCGG",
		"GGGCGAAAGCCC",
		"CGCAGCTTTTGCGCG", // single-base bulge in the stem
		"CCCCCATCCGATCAGGGGG",
		"ACGTACGTACGTACGT",
	}
	for _, sq := range seqs {
		cfg := DefaultConfig()
		cfg.Kind = Hairpin
		a := &aligner{t: tbl, cfg: cfg, temp: cfg.TemperatureC + absoluteZero}
		a.salt = saltCorrS(cfg.MonovalentMillimolar, cfg.DivalentMillimolar, cfg.DNTPMillimolar)
		a.setupFold(sq)
		a.initFold()
		a.fillFold()
		a.exterior5(a.temp)
		if !finite(a.hend5[a.len1]) {
			t.Fatalf("%s: no structure", sq)
		}
		bp := make([]int, a.len1)
		a.traceFold(bp)

		pi, pj := chainPairs(bp)
		if len(pi) == 0 || pi[0] != 1 || pj[0] != a.len1 {
			t.Fatalf("%s: unexpected outermost pair in %v", sq, bp)
		}

		h := a.atPenaltyH(a.s1[1], a.s1[a.len1])
		s := a.atPenaltyS(a.s1[1], a.s1[a.len1])
		for k := 0; k+1 < len(pi); k++ {
			i, j := pi[k], pj[k]
			ii, jj := pi[k+1], pj[k+1]
			if ii == i+1 && jj == j-1 { // stacked pair
				h += tbl.StackH[a.s1[i]][a.s1[ii]][a.s1[j]][a.s1[jj]]
				s += tbl.StackS[a.s1[i]][a.s1[ii]][a.s1[j]][a.s1[jj]]
				continue
			}
			ls1, ls2 := ii-i-1, j-jj-1
			if (ls1 == 1 && ls2 == 0) || (ls1 == 0 && ls2 == 1) {
				h += tbl.BulgeH[ls1+ls2-1] + tbl.StackH[a.s1[i]][a.s1[ii]][a.s1[j]][a.s1[jj]]
				s += tbl.BulgeS[ls1+ls2-1] + tbl.StackS[a.s1[i]][a.s1[ii]][a.s1[j]][a.s1[jj]]
				continue
			}
			t.Fatalf("%s: unexpected %dx%d loop in traced chain", sq, ls1, ls2)
		}

		i, j := pi[len(pi)-1], pj[len(pj)-1]
		loop := j - i - 1
		h += tbl.HairpinH[loop-1]
		s += tbl.HairpinS[loop-1]
		if loop > 3 {
			h += tbl.Tstack2H[a.s1[i]][a.s1[i+1]][a.s1[j]][a.s1[j-1]]
			s += tbl.Tstack2S[a.s1[i]][a.s1[i+1]][a.s1[j]][a.s1[j-1]]
		} else {
			h += a.atPenaltyH(a.s1[i], a.s1[j])
			s += a.atPenaltyS(a.s1[i], a.s1[j])
		}
		if loop == 3 {
			if e := params.Triloop(tbl.TriloopH, a.s1[i:]); e != nil {
				h += e.Value
			}
			if e := params.Triloop(tbl.TriloopS, a.s1[i:]); e != nil {
				s += e.Value
			}
		} else if loop == 4 {
			if e := params.Tetraloop(tbl.TetraloopH, a.s1[i:]); e != nil {
				h += e.Value
			}
			if e := params.Tetraloop(tbl.TetraloopS, a.s1[i:]); e != nil {
				s += e.Value
			}
		}

		if !near(h, a.hend5[a.len1], 1e-4) || !near(s, a.send5[a.len1], 1e-6) {
			t.Errorf("%s: re-summed dH/dS = %.3f/%.6f, reported %.3f/%.6f",
				sq, h, s, a.hend5[a.len1], a.send5[a.len1])
		}
	}
}

// Same round trip for duplexes: walking ps1 from the 5'-side closing
// must re-sum to the optimal cell.
func TestDuplexTracebackResums(t *testing.T) {
	tbl := testTables(t)
	cases := [][2]string{
		{"CGTAATGCGGGCTAAC", "GTTAGCCCGCATTACG"},
		{"GCGCAGCGC", "GCGCGCGC"}, // bulged base on the first strand
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		a := &aligner{t: tbl, cfg: cfg, temp: cfg.TemperatureC + absoluteZero}
		a.salt = saltCorrS(cfg.MonovalentMillimolar, cfg.DivalentMillimolar, cfg.DNTPMillimolar)
		a.setupDuplex(c[0], c[1])
		a.initDuplex()
		a.fillDuplex()

		var sh [2]float64
		bestI, bestJ := 0, 0
		bestG := inf
		for i := 1; i <= a.len1; i++ {
			for j := 1; j <= a.len2; j++ {
				sh[0], sh[1] = -1.0, inf
				a.rightEdge(i, j, &sh)
				g := (a.hm(i, j) + sh[1] + smallNonZero + a.initH) -
					tempKelvin*(a.sm(i, j)+sh[0]+smallNonZero+a.initS)
				if g < bestG {
					bestG, bestI, bestJ = g, i, j
				}
			}
		}
		if !finite(a.hm(bestI, bestJ)) {
			t.Fatalf("Align(%s, %s): no structure", c[0], c[1])
		}

		ps1 := make([]int, a.len1)
		ps2 := make([]int, a.len2)
		a.traceDuplex(bestI, bestJ, ps1, ps2)

		var pi, pj []int
		for i := 1; i <= a.len1; i++ {
			if ps1[i-1] > 0 {
				pi = append(pi, i)
				pj = append(pj, ps1[i-1])
			}
		}
		if len(pi) == 0 || pi[len(pi)-1] != bestI || pj[len(pj)-1] != bestJ {
			t.Fatalf("Align(%s, %s): traced chain does not end at (%d, %d)",
				c[0], c[1], bestI, bestJ)
		}

		sh[0], sh[1] = -1.0, inf
		a.leftEdge(pi[0], pj[0], &sh)
		h, s := sh[1], sh[0]
		for k := 0; k+1 < len(pi); k++ {
			i, j := pi[k], pj[k]
			ii, jj := pi[k+1], pj[k+1]
			if ii == i+1 && jj == j+1 { // stacked pair
				h += tbl.StackH[a.s1[i]][a.s1[ii]][a.s2[j]][a.s2[jj]]
				s += tbl.StackS[a.s1[i]][a.s1[ii]][a.s2[j]][a.s2[jj]]
				continue
			}
			ls1, ls2 := ii-i-1, jj-j-1
			if (ls1 == 1 && ls2 == 0) || (ls1 == 0 && ls2 == 1) {
				h += tbl.BulgeH[ls1+ls2-1] + tbl.StackH[a.s1[i]][a.s1[ii]][a.s2[j]][a.s2[jj]]
				s += tbl.BulgeS[ls1+ls2-1] + tbl.StackS[a.s1[i]][a.s1[ii]][a.s2[j]][a.s2[jj]]
				continue
			}
			t.Fatalf("Align(%s, %s): unexpected %dx%d loop in traced chain",
				c[0], c[1], ls1, ls2)
		}

		if !near(h, a.hm(bestI, bestJ), 1e-4) || !near(s, a.sm(bestI, bestJ), 1e-6) {
			t.Errorf("Align(%s, %s): re-summed dH/dS = %.3f/%.6f, cell %.3f/%.6f",
				c[0], c[1], h, s, a.hm(bestI, bestJ), a.sm(bestI, bestJ))
		}
	}
}
