package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config tunes the CLI surface only; the interpreter itself has no knobs.
type Config struct {
	Prompt  string `yaml:"prompt"`
	History string `yaml:"history"`
	Color   bool   `yaml:"color"`
}

func defaultConfig() *Config {
	return &Config{
		Prompt:  "==> ",
		History: ".lumen_history",
		Color:   true,
	}
}

// loadConfig reads a yaml config from path, or from ./lumen.yaml when path
// is empty and the file exists. Missing keys keep their defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		if _, err := os.Stat("lumen.yaml"); err != nil {
			return cfg, nil
		}
		path = "lumen.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
