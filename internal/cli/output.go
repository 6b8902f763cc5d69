package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Set(v string) error {
	switch outputFormat(strings.ToLower(strings.TrimSpace(v))) {
	case "", formatTable:
		*f = formatTable
	case formatJSON:
		*f = formatJSON
	case formatYAML:
		*f = formatYAML
	default:
		return fmt.Errorf("unsupported format %q", v)
	}
	return nil
}

func (f *outputFormat) Type() string { return "format" }

func addFormatFlag(flags *pflag.FlagSet, f *outputFormat) {
	*f = formatTable
	flags.Var(f, "format", "Output format: table, json, or yaml.")
}

// row is one line of table output.
type row struct {
	key   string
	value string
}

func render(out io.Writer, format outputFormat, payload any, rows []row) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return enc.Close()
	default:
		width := 0
		for _, r := range rows {
			if len(r.key) > width {
				width = len(r.key)
			}
		}
		for _, r := range rows {
			if _, err := fmt.Fprintf(out, "%-*s  %s\n", width, r.key, r.value); err != nil {
				return err
			}
		}
		return nil
	}
}
