// internal/alignapp/app.go
package alignapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"thermalign-core/params"
	"thermalign-core/seq"
	"thermalign-core/thal"

	"thermalign/internal/aligncli"
	"thermalign/internal/batch"
	"thermalign/internal/cmdutil"
	"thermalign/internal/config"
	"thermalign/internal/meltcurve"
	"thermalign/internal/output"
	"thermalign/internal/version"
	"thermalign/internal/writers"
)

// ---- oligo input helpers ----

type oligo struct {
	ID  string
	Seq string
}

func parseOligoInline(spec string, idx int) (oligo, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return oligo{}, fmt.Errorf("empty --oligo at position %d", idx+1)
	}
	id := ""
	s := spec
	if k := strings.IndexByte(spec, ':'); k >= 0 {
		id = strings.TrimSpace(spec[:k])
		s = strings.TrimSpace(spec[k+1:])
	}
	if id == "" {
		id = fmt.Sprintf("O%d", idx+1)
	}
	norm, err := seq.Validate(s)
	if err != nil {
		return oligo{}, fmt.Errorf("--oligo %q: %v", spec, err)
	}
	return oligo{ID: id, Seq: norm}, nil
}

func loadOligosTSV(path string) ([]oligo, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var list []oligo
	sc := bufio.NewScanner(fh)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		switch len(fields) {
		case 1:
			norm, err := seq.Validate(fields[0])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %v", path, ln, err)
			}
			list = append(list, oligo{ID: fmt.Sprintf("O%d", len(list)+1), Seq: norm})
		case 2:
			norm, err := seq.Validate(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %v", path, ln, err)
			}
			list = append(list, oligo{ID: fields[0], Seq: norm})
		default:
			return nil, fmt.Errorf("%s:%d: expected 1 or 2 columns (id seq), got %d", path, ln, len(fields))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ---- job planning ----

func modeKind(mode string) thal.Kind {
	switch mode {
	case "hairpin":
		return thal.Hairpin
	case "end1":
		return thal.End1
	case "end2":
		return thal.End2
	default: // homodimer, heterodimer, any
		return thal.Any
	}
}

func jobsFromSeq(mode, s1, s2 string) []batch.Job {
	kind := modeKind(mode)
	switch mode {
	case "hairpin":
		return []batch.Job{{ID: "manual", Kind: kind, Seq1: s1}}
	case "homodimer":
		return []batch.Job{{ID: "manual", Kind: kind, Seq1: s1, Seq2: s1}}
	default:
		if s2 == "" {
			s2 = s1
		}
		return []batch.Job{{ID: "manual", Kind: kind, Seq1: s1, Seq2: s2}}
	}
}

func jobsFromOligos(mode string, oligs []oligo, includeSelf bool) []batch.Job {
	kind := modeKind(mode)
	var jobs []batch.Job
	switch mode {
	case "hairpin":
		for _, o := range oligs {
			jobs = append(jobs, batch.Job{ID: o.ID, Kind: kind, Seq1: o.Seq})
		}
	case "homodimer":
		for _, o := range oligs {
			jobs = append(jobs, batch.Job{ID: o.ID + "+self", Kind: kind, Seq1: o.Seq, Seq2: o.Seq})
		}
	default:
		for i := 0; i < len(oligs); i++ {
			for j := i + 1; j < len(oligs); j++ {
				jobs = append(jobs, batch.Job{
					ID:   fmt.Sprintf("%s+%s", oligs[i].ID, oligs[j].ID),
					Kind: kind, Seq1: oligs[i].Seq, Seq2: oligs[j].Seq,
				})
			}
		}
		if includeSelf {
			for _, o := range oligs {
				jobs = append(jobs, batch.Job{ID: o.ID + "+self", Kind: kind, Seq1: o.Seq, Seq2: o.Seq})
			}
		}
	}
	return jobs
}

// curveName maps a job ID to a safe PNG file name.
func curveName(id string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, id)
	return safe + ".png"
}

// ---- main app ----

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := aligncli.NewFlagSet("thermalign")
	fs.SetOutput(io.Discard)

	opts, err := aligncli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); writers.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "thermalign version %s\n", version.Version)
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	// Conditions: defaults ← YAML file ← explicit flags.
	cfg := thal.DefaultConfig()
	if opts.ConditionsFile != "" {
		cond, err := config.Load(opts.ConditionsFile)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		cond.Apply(&cfg)
	}
	set := opts.SetFlags
	if set["mv"] {
		cfg.MonovalentMillimolar = opts.MonovalentMillimolar
	}
	if set["dv"] {
		cfg.DivalentMillimolar = opts.DivalentMillimolar
	}
	if set["dntp"] {
		cfg.DNTPMillimolar = opts.DNTPMillimolar
	}
	if set["conc"] {
		cfg.OligoNanomolar = opts.OligoNanomolar
	}
	if set["temp"] {
		cfg.TemperatureC = opts.TempC
	}
	if set["max-loop"] {
		cfg.MaxLoop = opts.MaxLoop
	}
	cfg.TemperatureOnly = opts.TempOnly
	cfg.Structure = opts.Structure

	// Input → jobs
	var jobs []batch.Job
	if opts.Seq != "" {
		s1, err := seq.Validate(opts.Seq)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "--seq: %v\n", err)
			return 2
		}
		s2 := ""
		if opts.Seq2 != "" {
			if s2, err = seq.Validate(opts.Seq2); err != nil {
				_, _ = fmt.Fprintf(stderr, "--seq2: %v\n", err)
				return 2
			}
		}
		jobs = jobsFromSeq(opts.Mode, s1, s2)
	} else {
		var oligs []oligo
		if opts.OligosTSV != "" {
			lo, err := loadOligosTSV(opts.OligosTSV)
			if err != nil {
				_, _ = fmt.Fprintln(stderr, err)
				return 2
			}
			oligs = append(oligs, lo...)
		}
		for i, spec := range opts.OligoInline {
			o, err := parseOligoInline(spec, i)
			if err != nil {
				_, _ = fmt.Fprintln(stderr, err)
				return 2
			}
			oligs = append(oligs, o)
		}
		jobs = jobsFromOligos(opts.Mode, oligs, opts.Self)
		if len(jobs) == 0 {
			_, _ = fmt.Fprintln(stderr, "error: need ≥2 oligos for pairing (or enable --self)")
			return 2
		}
	}

	var tbl *params.Tables
	if opts.ParamsDir != "" {
		if tbl, err = params.Load(opts.ParamsDir); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
	} else if tbl, err = params.Defaults(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	results, err := batch.Run(parent, jobs, tbl, cfg, opts.Workers)
	if err != nil {
		if parent.Err() != nil {
			return 0 // shell normalizes cancellation to 130
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	rows := make([]output.Row, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			cmdutil.Warnf(stderr, opts.Quiet, "%s: %v", r.Job.ID, r.Err)
			continue
		}
		rows = append(rows, output.FromResult(r.Job.ID, r.Job.Kind, r.Res))
	}
	if len(rows) == 0 && failed > 0 {
		return 2
	}

	if opts.CurveOut != "" {
		if err := os.MkdirAll(opts.CurveOut, 0o755); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		for _, r := range results {
			if r.Err != nil || !r.Res.StructureFound {
				continue
			}
			path := filepath.Join(opts.CurveOut, curveName(r.Job.ID))
			if err := meltcurve.WritePNG(path, r.Job.ID, r.Res.DH, r.Res.DS); err != nil {
				cmdutil.Warnf(stderr, opts.Quiet, "melt curve %s: %v", r.Job.ID, err)
			}
		}
	}

	if err := writers.Write(opts.Output, outw, rows, opts.Header); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
