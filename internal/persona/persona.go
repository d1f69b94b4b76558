// Package persona loads the voice persona catalog used to prime realtime
// sessions. Personas live in a yaml file keyed by persona name; when the
// file is absent the built-in default is used.
package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Persona struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Voice       map[string]string `yaml:"voice"`
	Mode        string            `yaml:"mode"`
}

// Default is the persona injected when no catalog is configured.
var Default = Persona{
	Name:        "Nyra",
	Description: "Nyra, AI assistant to Tom — always transparent about identity.",
	Voice:       map[string]string{"style": "warm"},
	Mode:        "assistant",
}

var validModes = map[string]struct{}{
	"assistant": {},
	"legal":     {},
	"warm":      {},
	"task":      {},
}

// IsValidMode reports whether mode is one of the supported persona modes.
func IsValidMode(mode string) bool {
	_, ok := validModes[mode]
	return ok
}

// Load reads the persona catalog at path. A missing file is not an error —
// the default catalog is returned instead.
func Load(path string) (map[string]Persona, error) {
	if path == "" {
		return map[string]Persona{"default": Default}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Persona{"default": Default}, nil
		}
		return nil, fmt.Errorf("read persona catalog %q: %w", path, err)
	}

	catalog := map[string]Persona{}
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse persona catalog %q: %w", path, err)
	}
	for key, p := range catalog {
		if p.Mode == "" {
			p.Mode = "assistant"
			catalog[key] = p
		}
	}
	return catalog, nil
}
