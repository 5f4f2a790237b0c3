package sshconfig

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML shape for declarative configuration:
//
//	global:
//	  ServerAliveInterval: 60
//	hosts:
//	  - pattern: "*.example.com"
//	    options:
//	      User: git
//	  - pattern: ci.example.com
//	    options:
//	      User: deploy
//
// Host entries keep their file order, which matters for specificity ties.
type fileFormat struct {
	Global map[string]string `yaml:"global"`
	Hosts  []struct {
		Pattern string            `yaml:"pattern"`
		Options map[string]string `yaml:"options"`
	} `yaml:"hosts"`
}

// Load reads a YAML configuration file. Every option is validated while
// loading; the first invalid option aborts with *InvalidOptionError.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader parses YAML configuration from r.
func LoadReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var file fileFormat
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := New()
	for name, value := range file.Global {
		if err := cfg.SetGlobal(name, value); err != nil {
			return nil, err
		}
	}
	for _, host := range file.Hosts {
		if host.Pattern == "" {
			return nil, fmt.Errorf("host entry missing pattern")
		}
		if err := cfg.AddHost(host.Pattern, host.Options); err != nil {
			return nil, fmt.Errorf("host %q: %w", host.Pattern, err)
		}
	}
	return cfg, nil
}
