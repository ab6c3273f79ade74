// internal/oligotmcli/options.go
package oligotmcli

import (
	"flag"
	"fmt"
	"io"

	"thermalign-core/oligotm"

	"thermalign/internal/clibase"
	"thermalign/internal/cliutil"
)

type Options struct {
	clibase.Common

	// Oligo input
	OligoInline []string
	OligosTSV   string

	// Model selection
	TmMethodName   string
	SaltMethodName string
	TmMethod       oligotm.Method
	SaltMethod     oligotm.Salt

	// Chemistry corrections
	DMSOPercent    float64
	DMSOFactor     float64
	FormamideMolar float64
	MaxNNLength    int
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] GTAAAACGACGGCCAGT\n", name)
		_, _ = fmt.Fprintf(out, "  %s [options] --oligo M13F:GTAAAACGACGGCCAGT --oligo SEQ2\n", name)
		_, _ = fmt.Fprintf(out, "  %s [options] --oligos panel.tsv -o tsv\n", name)

		_, _ = fmt.Fprintln(out, "\nOligo input:")
		_, _ = fmt.Fprintln(out, "      --oligo string         Oligo (ID:SEQ or SEQ). Repeatable; also positional.")
		_, _ = fmt.Fprintln(out, "      --oligos string        Oligo TSV (two columns: id seq)")

		_, _ = fmt.Fprintln(out, "\nModel:")
		_, _ = fmt.Fprintf(out, "      --tm-method string     santalucia | breslauer [%s]\n", def("tm-method"))
		_, _ = fmt.Fprintf(out, "      --salt-method string   santalucia | schildkraut | owczarzy [%s]\n", def("salt-method"))
		_, _ = fmt.Fprintf(out, "      --max-nn-len int       Longest sequence scored with the NN model [%s]\n", def("max-nn-len"))

		_, _ = fmt.Fprintln(out, "\nChemistry corrections:")
		_, _ = fmt.Fprintf(out, "      --dmso float           DMSO concentration (%%) [%s]\n", def("dmso"))
		_, _ = fmt.Fprintf(out, "      --dmso-factor float    Tm depression per %% DMSO (°C) [%s]\n", def("dmso-factor"))
		_, _ = fmt.Fprintf(out, "      --formamide float      Formamide concentration (mol/L) [%s]\n", def("formamide"))
	})
	return fs
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool

	noHeader := clibase.Register(fs, &o.Common)

	oligoFlag := &clibase.SliceValue{Dst: &o.OligoInline}
	fs.Var(oligoFlag, "oligo", "oligo (ID:SEQ or SEQ); repeatable")
	fs.StringVar(&o.OligosTSV, "oligos", "", "oligo TSV with 2 cols: id seq")

	fs.StringVar(&o.TmMethodName, "tm-method", "santalucia", "santalucia | breslauer")
	fs.StringVar(&o.SaltMethodName, "salt-method", "santalucia", "santalucia | schildkraut | owczarzy")
	fs.IntVar(&o.MaxNNLength, "max-nn-len", oligotm.DefaultMaxNNLength, "longest sequence scored with the NN model")

	fs.Float64Var(&o.DMSOPercent, "dmso", 0, "DMSO concentration (%)")
	fs.Float64Var(&o.DMSOFactor, "dmso-factor", 0.6, "Tm depression per % DMSO (°C)")
	fs.Float64Var(&o.FormamideMolar, "formamide", 0, "formamide concentration (mol/L)")
	fs.BoolVar(&help, "h", false, "show this help [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if help {
		return o, flag.ErrHelp
	}
	if err := clibase.AfterParse(fs, &o.Common, noHeader); err != nil {
		return o, err
	}
	if o.Version {
		return o, nil // nothing else required
	}

	// Positionals are inline oligo specs.
	o.OligoInline = append(o.OligoInline, posArgs...)

	var err error
	if o.TmMethod, err = oligotm.ParseMethod(o.TmMethodName); err != nil {
		return o, fmt.Errorf("--tm-method: %v", err)
	}
	if o.SaltMethod, err = oligotm.ParseSalt(o.SaltMethodName); err != nil {
		return o, fmt.Errorf("--salt-method: %v", err)
	}
	if len(o.OligoInline) == 0 && o.OligosTSV == "" {
		return o, fmt.Errorf("provide at least one sequence (positional, --oligo, or --oligos)")
	}
	if o.MaxNNLength < 2 {
		return o, fmt.Errorf("--max-nn-len must be ≥ 2")
	}
	if o.DMSOPercent < 0 || o.FormamideMolar < 0 {
		return o, fmt.Errorf("--dmso and --formamide must be ≥ 0")
	}
	return o, nil
}
