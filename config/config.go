// Package config loads and validates gdext-gen.yaml, the code generator's
// configuration file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// DefaultOutput is the file name generated code is written to.
const DefaultOutput = "godot_exports.gen.go"

// DefaultConfigFile is looked up next to the package when no config path is
// given.
const DefaultConfigFile = "gdext-gen.yaml"

var validate = validator.New()

// Config controls a generator run. It is usually read from gdext-gen.yaml in
// the package directory.
type Config struct {
	// Output is the generated file name, relative to the package directory.
	Output string `yaml:"output" json:"output" validate:"required,endswith=.go,excludes=/" jsonschema:"default=godot_exports.gen.go"`
	// Header is copied as a comment above the generated code.
	Header string `yaml:"header,omitempty" json:"header,omitempty"`
	// Exclude lists file name globs that are not scanned.
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty" validate:"dive,required"`
	// Strict rejects exported fields on types without RegisterMethods.
	Strict bool `yaml:"strict,omitempty" json:"strict,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{Output: DefaultOutput}
}

// LoadConfig reads a YAML config file. A missing file yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates YAML config bytes. Unknown keys are
// rejected.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config fields and the exclude patterns.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("invalid config: field %s failed %q validation", e.Namespace(), e.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid config: exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Excluded reports whether a file name matches one of the exclude patterns.
func (c *Config) Excluded(name string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Schema returns the JSON schema of the config file.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&Config{})

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return out, nil
}
