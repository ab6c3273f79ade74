// core/oligotm/oligotm.go
// Melting-temperature calculation for primer-length oligos by
// nearest-neighbor summation, with the empirical %GC formula as the
// fallback for sequences too long for the NN model. Independent of
// the alignment engine; shares only the base coding with it.
package oligotm

import (
	"errors"
	"fmt"
	"math"

	"thermalign-core/seq"
)

const (
	rGas         = 1.987 // cal/(K*mol)
	absoluteZero = 273.15

	// DefaultMaxNNLength is the longest sequence scored with the NN
	// model; longer sequences use the empirical formula.
	DefaultMaxNNLength = 60
)

var ErrInvalidSequence = errors.New("oligotm: invalid sequence")

// Method selects the nearest-neighbor parameter set.
type Method int

const (
	Breslauer Method = iota // Breslauer 1986, classic primer3
	SantaLucia              // SantaLucia 1998 unified
)

func (m Method) String() string {
	switch m {
	case Breslauer:
		return "breslauer"
	case SantaLucia:
		return "santalucia"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a method name to its Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "breslauer":
		return Breslauer, nil
	case "santalucia":
		return SantaLucia, nil
	}
	return 0, fmt.Errorf("oligotm: unknown tm method %q", s)
}

// Salt selects the salt-correction formula.
type Salt int

const (
	Schildkraut Salt = iota // Schildkraut & Lifson 1965, Tm shift
	SantaLuciaSalt          // SantaLucia 1998, entropy term
	Owczarzy                // Owczarzy 2004/2008, reciprocal-Tm
)

func (s Salt) String() string {
	switch s {
	case Schildkraut:
		return "schildkraut"
	case SantaLuciaSalt:
		return "santalucia"
	case Owczarzy:
		return "owczarzy"
	}
	return fmt.Sprintf("Salt(%d)", int(s))
}

// ParseSalt maps a salt-correction name to its Salt.
func ParseSalt(s string) (Salt, error) {
	switch s {
	case "schildkraut":
		return Schildkraut, nil
	case "santalucia":
		return SantaLuciaSalt, nil
	case "owczarzy":
		return Owczarzy, nil
	}
	return 0, fmt.Errorf("oligotm: unknown salt correction %q", s)
}

// Config carries solution conditions and formula choices.
type Config struct {
	DNANanomolar         float64
	MonovalentMillimolar float64
	DivalentMillimolar   float64
	DNTPMillimolar       float64 // chelates divalents
	DMSOPercent          float64
	DMSOFactor           float64 // Tm drop per percent DMSO
	FormamideMolar       float64
	Method               Method
	Salt                 Salt
	MaxNNLength          int
}

// DefaultConfig matches the alignment engine's buffer conditions with
// the SantaLucia model and salt correction.
func DefaultConfig() Config {
	return Config{
		DNANanomolar:         50,
		MonovalentMillimolar: 50,
		DivalentMillimolar:   0,
		DNTPMillimolar:       0.8,
		DMSOFactor:           0.6,
		Method:               SantaLucia,
		Salt:                 SantaLuciaSalt,
		MaxNNLength:          DefaultMaxNNLength,
	}
}

// Tm returns the melting temperature of sq in Celsius, using the NN
// model up to cfg.MaxNNLength bases and the empirical %GC formula
// beyond, then applies the DMSO and formamide corrections.
func Tm(sq string, cfg Config) (float64, error) {
	if cfg.MaxNNLength <= 0 {
		cfg.MaxNNLength = DefaultMaxNNLength
	}
	var (
		t   float64
		err error
	)
	if len(sq) > cfg.MaxNNLength {
		t, err = LongSeqTm(sq, cfg.MonovalentMillimolar, cfg.DivalentMillimolar, cfg.DNTPMillimolar)
	} else {
		t, err = OligoTm(sq, cfg)
	}
	if err != nil {
		return 0, err
	}
	if cfg.DMSOPercent != 0 {
		t -= cfg.DMSOFactor * cfg.DMSOPercent
	}
	if cfg.FormamideMolar != 0 {
		gc, _ := GCFraction(sq)
		t += (0.453*gc - 2.88) * cfg.FormamideMolar
	}
	return t, nil
}

// OligoTm returns the NN-model melting temperature of sq in Celsius.
// The sequence must be plain A/C/G/T and at least two bases.
func OligoTm(sq string, cfg Config) (float64, error) {
	codes, err := encodeStrict(sq)
	if err != nil {
		return 0, err
	}
	if len(codes) < 2 {
		return 0, ErrInvalidSequence
	}

	var dh, ds float64
	sym := seq.Symmetric(sq)
	switch cfg.Method {
	case Breslauer:
		h, s := nnSum(codes, &breslauerH, &breslauerS)
		dh = h * 1000
		ds = s - 10.8
	case SantaLucia:
		h, s := nnSum(codes, &unifiedH, &unifiedS)
		dh = h * 1000
		ds = s
		for _, end := range [2]byte{codes[0], codes[len(codes)-1]} {
			if end == seq.A || end == seq.T {
				dh += 2300
				ds += 4.1
			} else {
				dh += 100
				ds += -2.8
			}
		}
		if sym {
			ds += -1.4
		}
	default:
		return 0, fmt.Errorf("oligotm: unknown tm method %d", int(cfg.Method))
	}

	// Kelvin concentration term; self-complementary strands pair at
	// full concentration instead of a quarter of it.
	div := 4.0
	if sym {
		div = 1.0
	}
	ct := rGas * math.Log(cfg.DNANanomolar/(div*1e9))

	mono := cfg.MonovalentMillimolar
	if cfg.Salt != Owczarzy {
		mono += divalentToMonovalent(cfg.DivalentMillimolar, cfg.DNTPMillimolar)
	}

	switch cfg.Salt {
	case Schildkraut:
		return dh/(ds+ct) - absoluteZero + 16.6*math.Log10(mono/1000), nil
	case SantaLuciaSalt:
		ds += 0.368 * float64(len(codes)-1) * math.Log(mono/1000)
		return dh/(ds+ct) - absoluteZero, nil
	case Owczarzy:
		kelvin := dh / (ds + ct)
		gc, _ := GCFraction(sq)
		corr := owczarzyCorrection(gc, len(codes), mono/1000,
			cfg.DivalentMillimolar, cfg.DNTPMillimolar)
		return 1/(1/kelvin+corr) - absoluteZero, nil
	}
	return 0, fmt.Errorf("oligotm: unknown salt correction %d", int(cfg.Salt))
}

// LongSeqTm returns the empirical melting temperature
//
//	Tm = 81.5 + 16.6*log10([mono]) + 0.41*(%GC) - 600/length
//
// used beyond the NN model's reach. Concentrations in mM.
func LongSeqTm(sq string, monovalent, divalent, dntp float64) (float64, error) {
	gc, err := GCFraction(sq)
	if err != nil {
		return 0, err
	}
	mono := monovalent + divalentToMonovalent(divalent, dntp)
	return 81.5 + 16.6*math.Log10(mono/1000) + 41.0*gc - 600/float64(len(sq)), nil
}

// GCFraction returns the G+C fraction of sq in [0,1].
func GCFraction(sq string) (float64, error) {
	codes, err := encodeStrict(sq)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range codes {
		if c == seq.G || c == seq.C {
			n++
		}
	}
	return float64(n) / float64(len(codes)), nil
}

// divalentToMonovalent converts a divalent cation concentration to
// its monovalent equivalent, 120*sqrt([divalent]-[dNTP]). dNTPs bind
// divalents; parity is reached when they cancel.
func divalentToMonovalent(divalent, dntp float64) float64 {
	if divalent == 0 {
		dntp = 0
	}
	if divalent < dntp {
		divalent = dntp
	}
	return 120 * math.Sqrt(divalent-dntp)
}

// owczarzyCorrection returns the reciprocal-Kelvin correction term.
// Monovalent-dominated solutions use the 2004 sodium equation; free
// magnesium above the crossover uses the 2008 magnesium equation with
// coefficients bent by the monovalent level.
func owczarzyCorrection(gc float64, n int, mono, divalentMM, dntpMM float64) float64 {
	if divalentMM == 0 {
		dntpMM = 0
	}
	if divalentMM < dntpMM {
		divalentMM = dntpMM
	}
	freeMg := (divalentMM - dntpMM) / 1000

	crossover := math.Inf(1)
	if mono > 0 {
		crossover = math.Sqrt(freeMg) / mono
	}
	if crossover < 0.22 {
		lnM := math.Log(mono)
		return (4.29*gc-3.95)*1e-5*lnM + 9.40e-6*lnM*lnM
	}

	a, d, g := 3.92e-5, 1.42e-5, 8.31e-5
	const (
		b = -9.11e-6
		c = 6.26e-5
		e = -4.82e-4
		f = 5.25e-4
	)
	if crossover < 6.0 {
		lnM := math.Log(mono)
		a *= 0.843 - 0.352*math.Sqrt(mono)*lnM
		d *= 1.279 - 4.03e-3*lnM - 8.03e-3*lnM*lnM
		g *= 0.486 - 0.258*lnM + 5.25e-3*lnM*lnM*lnM
	}
	lnMg := math.Log(freeMg)
	return a + b*lnMg + gc*(c+d*lnMg) +
		(e+f*lnMg+g*lnMg*lnMg)/(2*float64(n-1))
}
