// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"thermalign/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs.
// extra prints tool-specific sections (usage examples, mode blocks, etc.).
func UsageCommon(fs *flag.FlagSet, name string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		// Header
		fmt.Fprintf(out, "%s – oligo thermodynamics toolkit\n\n", name)
		fmt.Fprintln(out, "License: MIT")
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		// Tool-specific additions (usage examples, extra sections)
		if extra != nil {
			extra(out, def)
		}

		// Shared blocks
		fmt.Fprintln(out, "\nConditions:")
		fmt.Fprintf(out, "      --mv string             Monovalent cations, e.g., 50mM [%s]\n", def("mv"))
		fmt.Fprintf(out, "      --dv string             Divalent cations, e.g., 1.5mM [%s]\n", def("dv"))
		fmt.Fprintf(out, "      --dntp string           dNTPs (chelate divalents), e.g., 0.6mM [%s]\n", def("dntp"))
		fmt.Fprintf(out, "      --conc string           Oligo strand concentration, e.g., 250nM [%s]\n", def("conc"))
		fmt.Fprintf(out, "      --temp float            Temperature for dG and reports (°C) [%s]\n", def("temp"))
		fmt.Fprintf(out, "      --conditions file       YAML conditions file; explicit flags override [%s]\n", def("conditions"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output string         Output: text | json | tsv [%s]\n", def("output"))
		fmt.Fprintf(out, "      --no-header             Suppress header line [%s]\n", def("no-header"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "  -q, --quiet                 Suppress non-essential warnings [%s]\n", def("quiet"))
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}
