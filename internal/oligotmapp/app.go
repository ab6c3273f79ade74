// internal/oligotmapp/app.go
package oligotmapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"thermalign-core/oligotm"

	"thermalign/internal/cmdutil"
	"thermalign/internal/config"
	"thermalign/internal/oligotmcli"
	"thermalign/internal/output"
	"thermalign/internal/version"
	"thermalign/internal/writers"
)

type oligo struct {
	ID  string
	Seq string
}

func parseOligoInline(spec string, idx int) (oligo, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return oligo{}, fmt.Errorf("empty oligo at position %d", idx+1)
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
	return oligo{ID: id, Seq: strings.ToUpper(s)}, nil
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
			list = append(list, oligo{ID: fmt.Sprintf("O%d", len(list)+1), Seq: strings.ToUpper(fields[0])})
		case 2:
			list = append(list, oligo{ID: fields[0], Seq: strings.ToUpper(fields[1])})
		default:
			return nil, fmt.Errorf("%s:%d: expected 1 or 2 columns (id seq), got %d", path, ln, len(fields))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := oligotmcli.NewFlagSet("oligotm")
	fs.SetOutput(io.Discard)

	opts, err := oligotmcli.ParseArgs(fs, argv)
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
		_, _ = fmt.Fprintf(outw, "oligotm version %s\n", version.Version)
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	// Conditions: defaults ← YAML file ← explicit flags.
	cfg := oligotm.DefaultConfig()
	if opts.ConditionsFile != "" {
		cond, err := config.Load(opts.ConditionsFile)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		cond.ApplyTm(&cfg)
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
		cfg.DNANanomolar = opts.OligoNanomolar
	}
	cfg.Method = opts.TmMethod
	cfg.Salt = opts.SaltMethod
	cfg.MaxNNLength = opts.MaxNNLength
	cfg.DMSOPercent = opts.DMSOPercent
	cfg.DMSOFactor = opts.DMSOFactor
	cfg.FormamideMolar = opts.FormamideMolar

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

	rows := make([]output.Row, 0, len(oligs))
	failed := 0
	for _, o := range oligs {
		if err := parent.Err(); err != nil {
			return 0 // shell normalizes cancellation to 130
		}
		tm, err := oligotm.Tm(o.Seq, cfg)
		if err != nil {
			failed++
			cmdutil.Warnf(stderr, opts.Quiet, "%s: %v", o.ID, err)
			continue
		}
		rows = append(rows, output.TmRow(o.ID, tm))
	}
	if len(rows) == 0 && failed > 0 {
		return 2
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
