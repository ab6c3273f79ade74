// internal/clibase/common_test.go
package clibase

import (
	"flag"
	"io"
	"math"
	"testing"
)

func TestParseMolar(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"50mM", 0.05, false},
		{"250nM", 2.5e-7, false},
		{"1.5mM", 1.5e-3, false},
		{"2uM", 2e-6, false},
		{"1M", 1, false},
		{"0.8", 0.8, false},
		{" 50 mM ", 0.05, false},
		{"", 0, true},
		{"mM", 0, true},
		{"fiftymM", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseMolar(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMolar(%q): want error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMolar(%q): %v", tc.in, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-15 {
			t.Errorf("ParseMolar(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func parse(t *testing.T, argv ...string) (Common, error) {
	t.Helper()
	var c Common
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	noHeader := Register(fs, &c)
	if err := fs.Parse(argv); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return c, AfterParse(fs, &c, noHeader)
}

func TestAfterParseDefaults(t *testing.T) {
	c, err := parse(t)
	if err != nil {
		t.Fatal(err)
	}
	if c.MonovalentMillimolar != 50 || c.DivalentMillimolar != 0 ||
		math.Abs(c.DNTPMillimolar-0.8) > 1e-12 || c.OligoNanomolar != 50 {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if !c.Header {
		t.Errorf("header should default on")
	}
	if c.SetFlags["mv"] {
		t.Errorf("mv was not set explicitly")
	}
}

func TestAfterParseExplicit(t *testing.T) {
	c, err := parse(t, "--mv", "100mM", "--conc", "250nM", "--no-header")
	if err != nil {
		t.Fatal(err)
	}
	if c.MonovalentMillimolar != 100 {
		t.Errorf("mv = %v, want 100", c.MonovalentMillimolar)
	}
	if math.Abs(c.OligoNanomolar-250) > 1e-9 {
		t.Errorf("conc = %v, want 250", c.OligoNanomolar)
	}
	if c.Header {
		t.Errorf("--no-header should clear header")
	}
	if !c.SetFlags["mv"] || !c.SetFlags["conc"] {
		t.Errorf("explicit flags not recorded: %v", c.SetFlags)
	}
}

func TestAfterParseErrors(t *testing.T) {
	if _, err := parse(t, "--mv", "bogus"); err == nil {
		t.Errorf("bad --mv should fail")
	}
	if _, err := parse(t, "--output", "xml"); err == nil {
		t.Errorf("bad --output should fail")
	}
	if _, err := parse(t, "--conc", "0nM"); err == nil {
		t.Errorf("zero --conc should fail")
	}
}
