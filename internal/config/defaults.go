package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/game.yaml
var defaultGameYAML []byte

// Default returns a fresh copy of the embedded default configuration.
func Default() *GameConfigs {
	cfg, err := Parse(defaultGameYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// DefaultYAML returns the embedded default YAML document.
func DefaultYAML() []byte {
	return defaultGameYAML
}

// Parse decodes a complete configuration document.
func Parse(data []byte) (*GameConfigs, error) {
	var cfg GameConfigs
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal encodes cfg back to YAML.
func Marshal(cfg *GameConfigs) ([]byte, error) {
	return yaml.Marshal(cfg)
}
