// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"thermalign/internal/output"
)

// Func renders a batch of rows to w. header toggles the header line for
// formats that have one.
type Func func(w io.Writer, rows []output.Row, header bool) error

// Format registry (format → handler). Writer files register in init().
var registry = map[string]Func{}

// Register installs a writer for a format name (idempotent last-wins).
func Register(format string, fn Func) { registry[format] = fn }

// Write dispatches rows to the writer registered for format.
func Write(format string, w io.Writer, rows []output.Row, header bool) error {
	fn, ok := registry[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, rows, header)
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register("text", output.WriteText)
	Register("tsv", output.WriteTSV)
	Register("json", output.WriteJSON)
}
