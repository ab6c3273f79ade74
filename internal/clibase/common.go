// internal/clibase/common.go
package clibase

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"thermalign/internal/cliutil"
)

// Common holds CLI fields shared by thermalign and oligotm.
type Common struct {
	// Solution conditions (specs as typed on the command line)
	MonovalentSpec string
	DivalentSpec   string
	DNTPSpec       string
	OligoConcSpec  string
	TempC          float64
	ConditionsFile string

	// Parsed conditions (filled by AfterParse)
	MonovalentMillimolar float64
	DivalentMillimolar   float64
	DNTPMillimolar       float64
	OligoNanomolar       float64

	// Output
	Output string // text|json|tsv
	Header bool

	// Misc
	Quiet   bool
	Version bool

	// SetFlags records which flags were given explicitly (filled by
	// AfterParse); used to decide flag-vs-conditions-file precedence.
	SetFlags map[string]bool
}

// SliceValue appends each value to a *[]string (for repeatable flags).
type SliceValue struct{ Dst *[]string }

func (s *SliceValue) String() string {
	if s.Dst == nil {
		return ""
	}
	return strings.Join(*s.Dst, ",")
}
func (s *SliceValue) Set(v string) error { *s.Dst = append(*s.Dst, v); return nil }

// Register wires shared flags onto fs and returns a pointer to the
// "no-header" bool the caller passes to AfterParse.
func Register(fs *flag.FlagSet, c *Common) *bool {
	// Conditions
	fs.StringVar(&c.MonovalentSpec, "mv", "50mM", "monovalent cations (e.g., 50mM)")
	fs.StringVar(&c.DivalentSpec, "dv", "0mM", "divalent cations (e.g., 1.5mM)")
	fs.StringVar(&c.DNTPSpec, "dntp", "0.8mM", "dNTPs (chelate divalents; e.g., 0.6mM)")
	fs.StringVar(&c.OligoConcSpec, "conc", "50nM", "oligo strand concentration (e.g., 250nM)")
	fs.Float64Var(&c.TempC, "temp", 37, "temperature for dG and reports (°C)")
	fs.StringVar(&c.ConditionsFile, "conditions", "", "YAML conditions file (flags override)")

	// Output
	fs.StringVar(&c.Output, "output", "text", "output: text | json | tsv [text]")
	fs.StringVar(&c.Output, "o", "text", "alias of --output")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line [false]")

	// Misc
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress non-essential warnings [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")

	return &noHeader
}

// AfterParse finalizes header and the parsed condition fields, then runs
// shared validation. Call after fs.Parse.
func AfterParse(fs *flag.FlagSet, c *Common, noHeader *bool) error {
	c.Header = !*noHeader
	c.SetFlags = cliutil.SetFlags(fs)

	mv, err := ParseMolar(c.MonovalentSpec)
	if err != nil {
		return fmt.Errorf("--mv: %v", err)
	}
	dv, err := ParseMolar(c.DivalentSpec)
	if err != nil {
		return fmt.Errorf("--dv: %v", err)
	}
	dntp, err := ParseMolar(c.DNTPSpec)
	if err != nil {
		return fmt.Errorf("--dntp: %v", err)
	}
	conc, err := ParseMolar(c.OligoConcSpec)
	if err != nil {
		return fmt.Errorf("--conc: %v", err)
	}
	c.MonovalentMillimolar = mv * 1e3
	c.DivalentMillimolar = dv * 1e3
	c.DNTPMillimolar = dntp * 1e3
	c.OligoNanomolar = conc * 1e9

	return Validate(c)
}

// Validate applies shared CLI invariants used by both tools.
func Validate(c *Common) error {
	switch c.Output {
	case "text", "json", "tsv":
	default:
		return fmt.Errorf("invalid --output %q", c.Output)
	}
	if c.MonovalentMillimolar < 0 || c.DivalentMillimolar < 0 || c.DNTPMillimolar < 0 {
		return fmt.Errorf("ion concentrations must be ≥ 0")
	}
	if c.OligoNanomolar <= 0 {
		return fmt.Errorf("--conc must be > 0")
	}
	return nil
}

// ParseMolar converts a concentration spec like "50mM" or "250nM" to mol/L.
// A bare number is taken as mol/L.
func ParseMolar(spec string) (float64, error) {
	s := strings.TrimSpace(strings.ToLower(spec))
	unit := ""
	num := s
	for _, u := range []string{"nm", "um", "mm", "m"} {
		if strings.HasSuffix(s, u) {
			unit = u
			num = strings.TrimSpace(strings.TrimSuffix(s, u))
			break
		}
	}
	if num == "" {
		return 0, fmt.Errorf("empty concentration %q", spec)
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("bad concentration %q", spec)
	}
	switch unit {
	case "nm":
		return f * 1e-9, nil
	case "um":
		return f * 1e-6, nil
	case "mm":
		return f * 1e-3, nil
	case "m", "":
		return f, nil
	default:
		return 0, fmt.Errorf("unknown unit in %q", spec)
	}
}
