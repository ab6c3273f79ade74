// internal/cliutil/cliutil_test.go
package cliutil

import (
	"flag"
	"io"
	"reflect"
	"testing"
)

func newFS() *flag.FlagSet {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.String("mode", "any", "")
	fs.Bool("structure", false, "")
	return fs
}

func TestSplitFlagsAndPositionals(t *testing.T) {
	cases := []struct {
		name      string
		argv      []string
		wantFlags []string
		wantPos   []string
	}{
		{
			name:      "value flag consumes next arg",
			argv:      []string{"--mode", "hairpin", "ACGT"},
			wantFlags: []string{"--mode", "hairpin"},
			wantPos:   []string{"ACGT"},
		},
		{
			name:      "bool flag does not consume",
			argv:      []string{"--structure", "ACGT"},
			wantFlags: []string{"--structure"},
			wantPos:   []string{"ACGT"},
		},
		{
			name:      "equals form",
			argv:      []string{"--mode=end1", "ACGT", "TTTT"},
			wantFlags: []string{"--mode=end1"},
			wantPos:   []string{"ACGT", "TTTT"},
		},
		{
			name:      "double dash stops parsing",
			argv:      []string{"--", "--mode", "ACGT"},
			wantFlags: nil,
			wantPos:   []string{"--mode", "ACGT"},
		},
		{
			name:      "bare dash is positional",
			argv:      []string{"-"},
			wantFlags: nil,
			wantPos:   []string{"-"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fl, pos := SplitFlagsAndPositionals(newFS(), tc.argv)
			if !reflect.DeepEqual(fl, tc.wantFlags) {
				t.Errorf("flags = %v, want %v", fl, tc.wantFlags)
			}
			if !reflect.DeepEqual(pos, tc.wantPos) {
				t.Errorf("pos = %v, want %v", pos, tc.wantPos)
			}
		})
	}
}

func TestSetFlags(t *testing.T) {
	fs := newFS()
	if err := fs.Parse([]string{"--mode", "end2"}); err != nil {
		t.Fatal(err)
	}
	set := SetFlags(fs)
	if !set["mode"] {
		t.Errorf("mode should be recorded as set")
	}
	if set["structure"] {
		t.Errorf("structure was not set")
	}
}
