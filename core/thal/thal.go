// core/thal/thal.go
// Secondary-structure prediction for DNA oligos by dynamic programming
// over nearest-neighbor enthalpy/entropy tables. Candidate structures
// compete on the melting temperature they imply, not on free energy:
// each cell keeps the (dH, dS) pair whose
//
//	T = (dH + dHinit) / (dS + dSinit + R*ln(C/x))
//
// is largest. Tm and dG are derived afterwards from the winning pair.
//
// This package has no app/output deps; callers feed it parameter
// tables from params and plain sequences.
package thal

import (
	"errors"
	"fmt"
	"math"

	"thermalign-core/params"
	"thermalign-core/seq"
)

const (
	rGas         = 1.9872 // cal/(K*mol)
	tempKelvin   = 310.15
	absoluteZero = 273.15

	minHairpinLoop = 3  // bases
	DefaultMaxLoop = 30 // bases; larger loops are not scored

	atH = 2200.0 // terminal A/T pair penalty
	atS = 6.9

	// Entropies below the cutoff mark nonsense accumulations; such
	// cells are reset to the bare initiation entropy.
	minEntropyCutoff = -2500.0
	minEntropy       = -3224.0

	// Internal loop asymmetry correction, -0.3 kcal/mol as entropy.
	ilAS = -300.0 / tempKelvin
	ilAH = 0.0

	smallNonZero = 0.000001
)

var inf = math.Inf(1)

// Kind selects the alignment mode.
type Kind int

const (
	// Any finds the most stable duplex anywhere between the strands.
	Any Kind = iota + 1
	// End1 anchors the 3' end of the first strand in the duplex.
	End1
	// End2 anchors the 3' end of the second strand.
	End2
	// Hairpin folds a single strand onto itself.
	Hairpin
)

func (k Kind) String() string {
	switch k {
	case Any:
		return "any"
	case End1:
		return "end1"
	case End2:
		return "end2"
	case Hairpin:
		return "hairpin"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Config carries solution conditions and mode for one alignment.
type Config struct {
	Kind                 Kind
	MonovalentMillimolar float64 // monovalent cations, mM
	DivalentMillimolar   float64 // divalent cations, mM
	DNTPMillimolar       float64 // dNTPs, mM; chelate divalents
	OligoNanomolar       float64 // strand concentration, nM
	TemperatureC         float64 // temperature for dG, Celsius
	MaxLoop              int     // largest scored loop, bases
	TemperatureOnly      bool    // skip dH/dS/dG and structure
	Structure            bool    // render the paired structure rows
}

// DefaultConfig mirrors the usual PCR-buffer conditions.
func DefaultConfig() Config {
	return Config{
		Kind:                 Any,
		MonovalentMillimolar: 50,
		DivalentMillimolar:   0,
		DNTPMillimolar:       0.8,
		OligoNanomolar:       50,
		TemperatureC:         37,
		MaxLoop:              DefaultMaxLoop,
	}
}

// Result reports the most stable structure found, if any.
type Result struct {
	StructureFound bool
	Tm             float64 // Celsius
	DH             float64 // cal/mol
	DS             float64 // cal/(K*mol), salt-corrected
	DG             float64 // cal/mol at Config.TemperatureC
	// AlignEnd1/2 are the 1-based positions of the duplex 3'-terminal
	// pair on each strand (duplex kinds only).
	AlignEnd1 int
	AlignEnd2 int
	// Lines holds the rendered structure when requested: four rows
	// for a duplex, two for a hairpin.
	Lines []string
}

// Errors reported by Align.
var (
	ErrNilTables     = errors.New("thal: nil parameter tables")
	ErrBadKind       = errors.New("thal: illegal alignment kind")
	ErrEmptySequence = errors.New("thal: empty sequence")
	ErrLengthLimit   = errors.New("thal: sequence length above limit")
)

// Fold predicts the most stable hairpin of a single strand.
func Fold(s string, tbl *params.Tables, cfg Config) (Result, error) {
	cfg.Kind = Hairpin
	return Align(s, s, tbl, cfg)
}

// Align predicts the most stable secondary structure between first
// and second under cfg. For Kind Hairpin only the first sequence is
// used. A Result with StructureFound=false and Tm=0 is a normal
// outcome, not an error.
func Align(first, second string, tbl *params.Tables, cfg Config) (Result, error) {
	var out Result
	if tbl == nil {
		return out, ErrNilTables
	}
	switch cfg.Kind {
	case Any, End1, End2, Hairpin:
	default:
		return out, ErrBadKind
	}
	if cfg.MaxLoop <= 0 || cfg.MaxLoop > DefaultMaxLoop {
		cfg.MaxLoop = DefaultMaxLoop
	}
	if len(first) == 0 || (cfg.Kind != Hairpin && len(second) == 0) {
		return out, ErrEmptySequence
	}
	if len(first) > seq.MaxAlign && len(second) > seq.MaxAlign {
		return out, fmt.Errorf("%w: at least one sequence must be %d bp or shorter", ErrLengthLimit, seq.MaxAlign)
	}
	if len(first) > seq.MaxSeq || len(second) > seq.MaxSeq {
		return out, fmt.Errorf("%w: max %d bp", ErrLengthLimit, seq.MaxSeq)
	}

	a := &aligner{t: tbl, cfg: cfg, temp: cfg.TemperatureC + absoluteZero}
	a.salt = saltCorrS(cfg.MonovalentMillimolar, cfg.DivalentMillimolar, cfg.DNTPMillimolar)

	if cfg.Kind == Hairpin {
		a.setupFold(seq.Upper(first))
		return a.runFold()
	}

	// End2 anchors the second strand; swapping the inputs reduces it
	// to the End1 search.
	o1, o2 := seq.Upper(first), seq.Upper(second)
	if cfg.Kind == End2 {
		o1, o2 = o2, o1
	}
	a.setupDuplex(o1, o2)
	return a.runDuplex()
}

// aligner holds one alignment's working state: encoded strands and
// the enthalpy/entropy DP tables.
type aligner struct {
	t    *params.Tables
	cfg  Config
	temp float64 // Kelvin, for dG
	salt float64 // per-phosphate-pair entropy correction

	oligo1, oligo2 []byte // uppercase bases; oligo2 reversed for duplexes
	s1, s2         []byte // coded, 1-based with N sentinels at 0 and len+1
	len1, len2     int
	len3           int // row stride of the DP tables

	dpH, dpS []float64

	// Duplex initiation terms and the concentration term R*ln(C/x).
	initH, initS float64
	rc           float64

	// Hairpin 5'-end prefix optimization.
	send5, hend5 []float64
}

func (a *aligner) setupDuplex(o1, o2 string) {
	a.initH = 200
	a.initS = -5.7
	if seq.Symmetric(o1) && seq.Symmetric(o2) {
		a.rc = rGas * math.Log(a.cfg.OligoNanomolar/1000000000.0)
	} else {
		a.rc = rGas * math.Log(a.cfg.OligoNanomolar/4000000000.0)
	}
	rev := []byte(o2)
	seq.Reverse(rev) // second strand runs 3'->5' in the table
	a.oligo1 = []byte(o1)
	a.oligo2 = rev
	a.s1 = seq.Encode(o1)
	a.s2 = seq.Encode(string(rev))
	a.len1, a.len2 = len(o1), len(rev)
	a.len3 = a.len2
	a.dpH = make([]float64, a.len1*a.len2)
	a.dpS = make([]float64, a.len1*a.len2)
}

func (a *aligner) setupFold(o string) {
	a.initH = 0.0
	a.initS = -0.00000000001
	a.rc = 0
	a.oligo1 = []byte(o)
	a.oligo2 = []byte(o)
	a.s1 = seq.Encode(o)
	a.s2 = a.s1
	a.len1, a.len2 = len(o), len(o)
	a.len3 = a.len2 - 1
	if a.len3 < 1 {
		a.len3 = 1
	}
	a.dpH = make([]float64, a.len1*a.len2)
	a.dpS = make([]float64, a.len1*a.len2)
	a.send5 = make([]float64, a.len1+1)
	a.hend5 = make([]float64, a.len1+1)
}

// DP accessors, 1-based as the recurrences are written.
func (a *aligner) hm(i, j int) float64 { return a.dpH[(i-1)*a.len3+j-1] }
func (a *aligner) sm(i, j int) float64 { return a.dpS[(i-1)*a.len3+j-1] }
func (a *aligner) setHS(i, j int, h, s float64) {
	a.dpH[(i-1)*a.len3+j-1] = h
	a.dpS[(i-1)*a.len3+j-1] = s
}

func (a *aligner) atPenaltyH(x, y byte) float64 {
	if (x == seq.A && y == seq.T) || (x == seq.T && y == seq.A) {
		return atH
	}
	return 0.0
}

func (a *aligner) atPenaltyS(x, y byte) float64 {
	if (x == seq.A && y == seq.T) || (x == seq.T && y == seq.A) {
		return atS
	}
	return params.TinyEntropy
}

// saltCorrS is the entropic salt correction per phosphate pair. The
// divalent term is reduced by dNTP chelation.
func saltCorrS(mv, dv, dntp float64) float64 {
	if dv <= 0 {
		dntp = dv
	}
	return 0.368 * math.Log((mv+120*math.Sqrt(math.Max(0.0, dv-dntp)))/1000)
}

func finite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// eq is the float equality used to retrace DP decisions. Non-finite
// values never compare equal.
func eq(a, b float64) bool {
	if !finite(a) || !finite(b) {
		return false
	}
	return math.Abs(a-b) < 1e-5
}
