package main

import (
	"encoding/json"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// outputFormat holds the --json/--yaml flags shared by listing commands.
type outputFormat struct {
	json bool
	yaml bool
}

// structured reports whether a machine-readable format was requested.
func (f outputFormat) structured() bool {
	return f.json || f.yaml
}

// write encodes v in the requested format.
func (f outputFormat) write(w io.Writer, v any) error {
	switch {
	case f.json && f.yaml:
		return errors.New("--json and --yaml are mutually exclusive")
	case f.yaml:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	}
}
