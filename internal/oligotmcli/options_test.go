// internal/oligotmcli/options_test.go
package oligotmcli

import (
	"errors"
	"flag"
	"io"
	"testing"

	"thermalign-core/oligotm"
)

func parse(t *testing.T, argv ...string) (Options, error) {
	t.Helper()
	fs := NewFlagSet("oligotm")
	fs.SetOutput(io.Discard)
	return ParseArgs(fs, argv)
}

func TestParseArgsPositional(t *testing.T) {
	o, err := parse(t, "GTAAAACGACGGCCAGT")
	if err != nil {
		t.Fatal(err)
	}
	if len(o.OligoInline) != 1 || o.OligoInline[0] != "GTAAAACGACGGCCAGT" {
		t.Errorf("oligos: %v", o.OligoInline)
	}
	if o.TmMethod != oligotm.SantaLucia || o.SaltMethod != oligotm.SantaLuciaSalt {
		t.Errorf("default methods: %+v", o)
	}
}

func TestParseArgsMethods(t *testing.T) {
	o, err := parse(t, "--tm-method", "breslauer", "--salt-method", "schildkraut", "ACGTACGT")
	if err != nil {
		t.Fatal(err)
	}
	if o.TmMethod != oligotm.Breslauer || o.SaltMethod != oligotm.Schildkraut {
		t.Errorf("methods: %+v", o)
	}
}

func TestParseArgsHelp(t *testing.T) {
	if _, err := parse(t, "-h"); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("want flag.ErrHelp, got %v", err)
	}
}

func TestParseArgsErrors(t *testing.T) {
	cases := []struct {
		name string
		argv []string
	}{
		{"no input", nil},
		{"bad tm method", []string{"--tm-method", "wallace", "ACGT"}},
		{"bad salt method", []string{"--salt-method", "none", "ACGT"}},
		{"bad max-nn-len", []string{"--max-nn-len", "1", "ACGT"}},
		{"negative dmso", []string{"--dmso", "-1", "ACGT"}},
		{"bad conc", []string{"--conc", "soup", "ACGT"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parse(t, tc.argv...); err == nil || errors.Is(err, flag.ErrHelp) {
				t.Errorf("argv %v: want error, got %v", tc.argv, err)
			}
		})
	}
}
