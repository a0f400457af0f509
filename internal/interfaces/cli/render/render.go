// Package render prints use case results as the {success, data, error}
// envelope.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/guildkeeper/guildkeeper/internal/shared/utils"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Result writes the envelope for (data, err) in format and returns err, so a
// failed use case still exits non-zero after printing.
func Result(w io.Writer, format string, data interface{}, err error) error {
	if encErr := Write(w, format, utils.ResultFrom(data, err)); encErr != nil {
		return encErr
	}
	return err
}

// Write encodes v as indented JSON or YAML.
func Write(w io.Writer, format string, v interface{}) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q (want json or yaml)", format)
	}
}
