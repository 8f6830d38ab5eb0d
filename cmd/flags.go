package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats shared by commands that print reports.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// addOutputFlags registers the --format flag on cmd.
func addOutputFlags(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "format", "f", formatText, "Output format (text, json, yaml)")
}

// render writes v to w in the requested format. text is used for the text
// format and receives the writer directly.
func render(w io.Writer, format string, v interface{}, text func(io.Writer) error) error {
	switch format {
	case formatText, "":
		return text(w)
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
	}
}
