// core/oligotm/tables.go
package oligotm

import "thermalign-core/seq"

// Nearest-neighbor increments indexed [5' base][3' base] by seq code.
// Enthalpies in kcal/mol, entropies in cal/(K*mol), duplex formation
// direction (both negative for stabilizing stacks).

// SantaLucia 1998 unified parameters.
var (
	unifiedH = [4][4]float64{
		{-7.9, -8.4, -7.8, -7.2},   // AA AC AG AT
		{-8.5, -8.0, -10.6, -7.8},  // CA CC CG CT
		{-8.2, -9.8, -8.0, -8.4},   // GA GC GG GT
		{-7.2, -8.2, -8.5, -7.9},   // TA TC TG TT
	}
	unifiedS = [4][4]float64{
		{-22.2, -22.4, -21.0, -20.4},
		{-22.7, -19.9, -27.2, -21.0},
		{-22.2, -24.4, -19.9, -22.4},
		{-21.3, -22.2, -22.7, -22.2},
	}
)

// Breslauer 1986 parameters, used with the Rychlik/primer3 classic
// initiation entropy of -10.8 eu.
var (
	breslauerH = [4][4]float64{
		{-9.1, -6.5, -7.8, -8.6},
		{-5.8, -11.0, -11.9, -7.8},
		{-5.6, -11.1, -11.0, -6.5},
		{-6.0, -5.6, -5.8, -9.1},
	}
	breslauerS = [4][4]float64{
		{-24.0, -17.3, -20.8, -23.9},
		{-12.9, -26.6, -27.8, -20.8},
		{-13.5, -26.7, -26.6, -17.3},
		{-16.9, -13.5, -12.9, -24.0},
	}
)

func nnSum(codes []byte, h, s *[4][4]float64) (dh, ds float64) {
	for i := 0; i+1 < len(codes); i++ {
		a, b := codes[i], codes[i+1]
		dh += h[a][b]
		ds += s[a][b]
	}
	return dh, ds
}

func encodeStrict(sq string) ([]byte, error) {
	if len(sq) == 0 {
		return nil, ErrInvalidSequence
	}
	codes := make([]byte, len(sq))
	for i := 0; i < len(sq); i++ {
		c := seq.Code(sq[i])
		if c == seq.N {
			return nil, ErrInvalidSequence
		}
		codes[i] = c
	}
	return codes, nil
}
