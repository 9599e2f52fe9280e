package extract

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// rulesFile is the YAML shape for label overrides:
//
//	fields:
//	  totalAssets:
//	    labels: ["total assets", "assets, total"]
type rulesFile struct {
	Fields map[string]fieldRules `yaml:"fields"`
}

type fieldRules struct {
	Labels []string `yaml:"labels"`
}

// LoadRules reads per-field label overrides from a YAML file.
func LoadRules(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: read rules %s", path)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, eris.Wrap(err, "extract: parse rules")
	}

	overrides := make(map[string][]string, len(rf.Fields))
	for field, fr := range rf.Fields {
		overrides[field] = fr.Labels
	}
	return overrides, nil
}

// FromConfig builds an Extractor, applying the rules file at path when
// path is non-empty.
func FromConfig(rulesPath string) (*Extractor, error) {
	if rulesPath == "" {
		return New(), nil
	}
	overrides, err := LoadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	return NewWithOverrides(overrides)
}
