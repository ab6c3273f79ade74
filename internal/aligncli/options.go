// internal/aligncli/options.go
package aligncli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"thermalign/internal/clibase"
	"thermalign/internal/cliutil"
)

type Options struct {
	clibase.Common

	// What to align
	Mode string // hairpin | homodimer | heterodimer | end1 | end2 | any
	Seq  string
	Seq2 string

	// Multi-oligo input
	OligoInline []string
	OligosTSV   string
	Self        bool

	// Alignment knobs
	MaxLoop   int
	TempOnly  bool
	ParamsDir string

	// Reporting
	Structure bool
	Workers   int
	CurveOut  string
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] --mode hairpin --seq CCGCCTAATGGGCGG\n", name)
		_, _ = fmt.Fprintf(out, "  %s [options] --mode any --seq ACGT... --seq2 TGCA...\n", name)
		_, _ = fmt.Fprintf(out, "  %s [options] --mode heterodimer --oligo F:SEQ --oligo R:SEQ\n", name)
		_, _ = fmt.Fprintf(out, "  %s [options] --mode hairpin --oligos panel.tsv --structure\n", name)

		_, _ = fmt.Fprintln(out, "\nInput:")
		_, _ = fmt.Fprintf(out, "      --mode string          hairpin | homodimer | heterodimer | end1 | end2 | any [%s]\n", def("mode"))
		_, _ = fmt.Fprintln(out, "      --seq string           First sequence (5'→3')")
		_, _ = fmt.Fprintln(out, "      --seq2 string          Second sequence (duplex modes; defaults to --seq)")
		_, _ = fmt.Fprintln(out, "      --oligo string         Oligo (ID:SEQ or SEQ). Repeatable; also positional.")
		_, _ = fmt.Fprintln(out, "      --oligos string        Oligo TSV (two columns: id seq)")
		_, _ = fmt.Fprintf(out, "      --self                 Include self-pairs in multi-oligo duplex modes [%s]\n", def("self"))

		_, _ = fmt.Fprintln(out, "\nAlignment:")
		_, _ = fmt.Fprintf(out, "      --max-loop int         Largest scored loop (bases) [%s]\n", def("max-loop"))
		_, _ = fmt.Fprintf(out, "      --temp-only            Report Tm only (skip dG and structure) [%s]\n", def("temp-only"))
		_, _ = fmt.Fprintln(out, "      --params dir           Directory of parameter tables (default: embedded)")

		_, _ = fmt.Fprintln(out, "\nReporting:")
		_, _ = fmt.Fprintf(out, "      --structure            Render the paired structure rows [%s]\n", def("structure"))
		_, _ = fmt.Fprintf(out, "      --workers int          Concurrent alignments (0=all CPUs) [%s]\n", def("workers"))
		_, _ = fmt.Fprintf(out, "      --curve-out dir        Write per-result melt-curve PNGs to dir [%s]\n", def("curve-out"))
	})
	return fs
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool

	noHeader := clibase.Register(fs, &o.Common)

	fs.StringVar(&o.Mode, "mode", "any", "hairpin | homodimer | heterodimer | end1 | end2 | any")
	fs.StringVar(&o.Seq, "seq", "", "first sequence (5'→3')")
	fs.StringVar(&o.Seq2, "seq2", "", "second sequence (duplex modes)")
	oligoFlag := &clibase.SliceValue{Dst: &o.OligoInline}
	fs.Var(oligoFlag, "oligo", "oligo (ID:SEQ or SEQ); repeatable")
	fs.StringVar(&o.OligosTSV, "oligos", "", "oligo TSV with 2 cols: id seq")
	fs.BoolVar(&o.Self, "self", false, "include self-pairs in multi-oligo duplex modes")

	fs.IntVar(&o.MaxLoop, "max-loop", 30, "largest scored loop (bases)")
	fs.BoolVar(&o.TempOnly, "temp-only", false, "report Tm only")
	fs.StringVar(&o.ParamsDir, "params", "", "directory of parameter tables (default: embedded)")

	fs.BoolVar(&o.Structure, "structure", false, "render the paired structure rows")
	fs.IntVar(&o.Workers, "workers", 0, "concurrent alignments (0=all CPUs)")
	fs.StringVar(&o.CurveOut, "curve-out", "", "write per-result melt-curve PNGs to dir")
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

	switch strings.ToLower(o.Mode) {
	case "hairpin", "homodimer", "heterodimer", "end1", "end2", "any":
		o.Mode = strings.ToLower(o.Mode)
	default:
		return o, fmt.Errorf("invalid --mode %q", o.Mode)
	}

	hasSeq := o.Seq != ""
	hasOligos := len(o.OligoInline) > 0 || o.OligosTSV != ""
	switch {
	case hasSeq && hasOligos:
		return o, fmt.Errorf("--seq conflicts with --oligo/--oligos")
	case !hasSeq && !hasOligos:
		return o, fmt.Errorf("provide --seq or --oligo/--oligos")
	}
	if o.Seq2 != "" && !hasSeq {
		return o, fmt.Errorf("--seq2 requires --seq")
	}
	if o.Seq2 != "" && (o.Mode == "hairpin" || o.Mode == "homodimer") {
		return o, fmt.Errorf("--seq2 is meaningless with --mode %s", o.Mode)
	}
	if o.MaxLoop < 1 {
		return o, fmt.Errorf("--max-loop must be ≥ 1")
	}
	if o.Workers < 0 {
		return o, fmt.Errorf("--workers must be ≥ 0")
	}
	if o.TempOnly && o.Structure {
		return o, fmt.Errorf("--temp-only conflicts with --structure")
	}
	if o.TempOnly && o.CurveOut != "" {
		return o, fmt.Errorf("--temp-only conflicts with --curve-out")
	}
	return o, nil
}
