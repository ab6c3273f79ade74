// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"thermalign-core/oligotm"
	"thermalign-core/thal"
)

// Conditions is the optional YAML conditions file. Absent keys leave the
// corresponding setting untouched, so the file can be partial.
//
//	mv_mM:    50
//	dv_mM:    1.5
//	dntp_mM:  0.6
//	oligo_nM: 250
//	temp_C:   37
//	max_loop: 30
type Conditions struct {
	MonovalentMillimolar *float64 `yaml:"mv_mM"`
	DivalentMillimolar   *float64 `yaml:"dv_mM"`
	DNTPMillimolar       *float64 `yaml:"dntp_mM"`
	OligoNanomolar       *float64 `yaml:"oligo_nM"`
	TempC                *float64 `yaml:"temp_C"`
	MaxLoop              *int     `yaml:"max_loop"`
}

// Load reads a conditions file. Unknown keys are an error so that typos
// do not silently fall back to defaults.
func Load(path string) (Conditions, error) {
	var c Conditions
	fh, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer func() { _ = fh.Close() }()

	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return c, nil // empty file: all defaults
		}
		return c, fmt.Errorf("%s: %v", path, err)
	}
	return c, nil
}

// Apply copies the set keys onto an alignment config.
func (c Conditions) Apply(cfg *thal.Config) {
	if c.MonovalentMillimolar != nil {
		cfg.MonovalentMillimolar = *c.MonovalentMillimolar
	}
	if c.DivalentMillimolar != nil {
		cfg.DivalentMillimolar = *c.DivalentMillimolar
	}
	if c.DNTPMillimolar != nil {
		cfg.DNTPMillimolar = *c.DNTPMillimolar
	}
	if c.OligoNanomolar != nil {
		cfg.OligoNanomolar = *c.OligoNanomolar
	}
	if c.TempC != nil {
		cfg.TemperatureC = *c.TempC
	}
	if c.MaxLoop != nil {
		cfg.MaxLoop = *c.MaxLoop
	}
}

// ApplyTm copies the set keys onto a melting-temperature config.
// max_loop and temp_C have no meaning there and are ignored.
func (c Conditions) ApplyTm(cfg *oligotm.Config) {
	if c.MonovalentMillimolar != nil {
		cfg.MonovalentMillimolar = *c.MonovalentMillimolar
	}
	if c.DivalentMillimolar != nil {
		cfg.DivalentMillimolar = *c.DivalentMillimolar
	}
	if c.DNTPMillimolar != nil {
		cfg.DNTPMillimolar = *c.DNTPMillimolar
	}
	if c.OligoNanomolar != nil {
		cfg.DNANanomolar = *c.OligoNanomolar
	}
}
