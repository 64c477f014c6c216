package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeDoc prints a state document per the selected format. Text format is
// one "key: value" line per component.
func writeDoc(w io.Writer, format string, doc any) error {
	if format == "json" {
		return writeJSON(w, doc)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		_, err := fmt.Fprintln(w, doc)
		return err
	}
	for _, key := range []string{"position", "orientation", "scaleFactors", "displayDimensions", "zoom", "projectionZoom"} {
		v, ok := m[key]
		if !ok {
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", key, data); err != nil {
			return err
		}
	}
	return nil
}
