// internal/cliutil/cliutil.go
// Small helpers around the flag package for commands that mix flags
// with positional arguments in any order.
package cliutil

import (
	"flag"
	"strings"
)

// BoolFlags returns the names of the registered flags that take no
// value on the command line.
func BoolFlags(fs *flag.FlagSet) map[string]bool {
	names := make(map[string]bool)
	fs.VisitAll(func(f *flag.Flag) {
		b, ok := f.Value.(interface{ IsBoolFlag() bool })
		if ok && b.IsBoolFlag() {
			names[f.Name] = true
		}
	})
	return names
}

// SplitFlagsAndPositionals partitions argv into flag arguments and
// positionals so that flags may appear after positionals. A value flag
// consumes the following argument, "--x=y" stays one token, a bare "-"
// is a positional, and "--" ends flag parsing. Feed the first return
// value to fs.Parse.
func SplitFlagsAndPositionals(fs *flag.FlagSet, argv []string) (flagArgs, posArgs []string) {
	isBool := BoolFlags(fs)
	for i := 0; i < len(argv); i++ {
		a := argv[i]
		switch {
		case a == "--":
			posArgs = append(posArgs, argv[i+1:]...)
			return flagArgs, posArgs
		case a == "-" || !strings.HasPrefix(a, "-"):
			posArgs = append(posArgs, a)
		case strings.Contains(a, "="):
			flagArgs = append(flagArgs, a)
		default:
			flagArgs = append(flagArgs, a)
			name := strings.TrimLeft(a, "-")
			if !isBool[name] && i+1 < len(argv) {
				i++
				flagArgs = append(flagArgs, argv[i])
			}
		}
	}
	return flagArgs, posArgs
}

// SetFlags reports which flags were set explicitly on the command line.
// Call after fs.Parse.
func SetFlags(fs *flag.FlagSet) map[string]bool {
	m := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { m[f.Name] = true })
	return m
}
