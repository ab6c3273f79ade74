// core/params/defaults.go
package params

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed defaults
var defaultsFS embed.FS

var (
	defaultsOnce sync.Once
	defaults     *Tables
	defaultsErr  error
)

// Defaults returns the built-in parameter set (SantaLucia unified
// values with published mismatch, dangling-end, and loop tables).
// Parsed once; the returned tables are shared and must be treated as
// read-only.
func Defaults() (*Tables, error) {
	defaultsOnce.Do(func() {
		sub, err := fs.Sub(defaultsFS, "defaults")
		if err != nil {
			defaultsErr = err
			return
		}
		defaults, defaultsErr = FromFS(sub)
	})
	return defaults, defaultsErr
}
