package display

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"hyperfetch/sysinfo"
)

// WriteJSON prints info as indented JSON. Unknown fields are omitted.
func WriteJSON(w io.Writer, info *sysinfo.SystemInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// WriteYAML prints info as a YAML document.
func WriteYAML(w io.Writer, info *sysinfo.SystemInfo) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(info); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// WriteLogos prints the logo list in the format of --list-logos.
func WriteLogos(w io.Writer, names []string) error {
	rows := make([]string, 0, len(names)+1)
	rows = append(rows, "Available ASCII logos:")
	for _, n := range names {
		rows = append(rows, "  - "+n)
	}
	return Write(w, rows)
}
