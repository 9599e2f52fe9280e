package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Encode writes v to w in the requested format ("json" or "yaml").
func Encode(w io.Writer, v any, format string) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "report: encode json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return eris.Wrap(enc.Encode(v), "report: encode yaml")
	default:
		return eris.Errorf("report: unknown format %q (want json or yaml)", format)
	}
}
