// config is the package containing configuration for graphdiff,
// shared by the command line and the HTTP server.
package config

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/go-kit/kit/log"
	"github.com/imdario/mergo"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/fluxcd/graphdiff/pkg/diff"
	"github.com/fluxcd/graphdiff/pkg/filter"
	"github.com/fluxcd/graphdiff/pkg/graph"
)

const (
	ConfigName             = ".graphdiff.yaml"
	GraphdiffConfigVersion = "v1"
)

type Config struct {
	// This is expected to be present in a config file (and will not
	// correspond to a flag). The value determines how the config file
	// is interpreted: for now, if it is not equal to
	// GraphdiffConfigVersion above, it is considered an invalid
	// configuration.
	ConfigVersion string `mapstructure:"graphdiffConfigVersion"`

	Output   string `mapstructure:"output"`
	Color    bool   `mapstructure:"color"`
	MaxDepth int    `mapstructure:"maxDepth"`
	Semver   bool   `mapstructure:"semver"`
	Select   string `mapstructure:"select"`

	// Keys names the members which identify elements of collections.
	Keys []string `mapstructure:"keys"`
	// Ignore holds patterns (see filter.NewPattern) of member names
	// left out of the comparison.
	Ignore []string `mapstructure:"ignore"`
	// Display maps member names to display labels.
	Display map[string]string `mapstructure:"display"`
}

func Defaults() Config {
	return Config{
		ConfigVersion: GraphdiffConfigVersion,
		Output:        "text",
	}
}

func (c Config) IsValid() error {
	if c.ConfigVersion != GraphdiffConfigVersion {
		return fmt.Errorf("config file is expected to include `graphdiffConfigVersion: %s` to mark it as a graphdiff config", GraphdiffConfigVersion)
	}
	return nil
}

const schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "graphdiffConfigVersion": {"type": "string"},
    "output": {"type": "string", "enum": ["text", "table", "json", "yaml"]},
    "color": {"type": "boolean"},
    "maxDepth": {"type": "integer", "minimum": 0},
    "semver": {"type": "boolean"},
    "select": {"type": "string"},
    "keys": {"type": "array", "items": {"type": "string"}},
    "ignore": {"type": "array", "items": {"type": "string"}},
    "display": {"type": "object", "additionalProperties": {"type": "string"}}
  },
  "required": ["graphdiffConfigVersion"],
  "additionalProperties": false
}`

// ValidationError lists the ways in which a config file doesn't fit
// the schema.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Errors, "; ")
}

// Load reads the config file at path, which may be YAML or JSON.
// Anything the file leaves out is taken from Defaults.
func Load(path string) (Config, error) {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config file %s", path)
	}
	c, err := Parse(bytes)
	return c, errors.Wrapf(err, "loading config file %s", path)
}

func Parse(bytes []byte) (Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	return Decode(raw)
}

// Decode validates and decodes config already parsed into a generic
// map, e.g., the options of an API request.
func Decode(raw map[string]interface{}) (Config, error) {
	if raw == nil {
		raw = map[string]interface{}{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewGoLoader(raw))
	if err != nil {
		return Config{}, errors.Wrap(err, "validating config")
	}
	if !result.Valid() {
		verr := &ValidationError{}
		for _, e := range result.Errors() {
			verr.Errors = append(verr.Errors, e.String())
		}
		return Config{}, verr
	}

	var c Config
	if err := mapstructure.Decode(raw, &c); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if err := c.IsValid(); err != nil {
		return Config{}, err
	}
	if err := mergo.Merge(&c, Defaults()); err != nil {
		return Config{}, errors.Wrap(err, "applying defaults")
	}
	return c, nil
}

// Override returns a copy of c with every non-zero field of overrides
// taking precedence.
func (c Config) Override(overrides Config) (Config, error) {
	err := mergo.Merge(&c, overrides, mergo.WithOverride)
	return c, errors.Wrap(err, "overriding config")
}

// Metadata registers the configured keys and display labels.
func (c Config) Metadata() *graph.Metadata {
	members := map[string]graph.MemberConfig{}
	for _, name := range c.Keys {
		mc := members[name]
		mc.Key = true
		members[name] = mc
	}
	for name, label := range c.Display {
		mc := members[name]
		mc.Display = graph.Label(label)
		members[name] = mc
	}

	md := graph.NewMetadata()
	for name, mc := range members {
		md.RegisterMember(name, mc)
	}
	return md
}

// DiffConfig returns the engine configuration c describes.
func (c Config) DiffConfig(logger log.Logger) (diff.Config, error) {
	ignore, err := filter.ParsePatterns(c.Ignore)
	if err != nil {
		return diff.Config{}, errors.Wrap(err, "parsing ignore patterns")
	}
	dc := diff.Config{
		Metadata:     c.Metadata(),
		MemberFilter: ignore.Exclude(),
		MaxDepth:     c.MaxDepth,
		Logger:       logger,
	}
	if c.Semver {
		dc.Equal = diff.SemverEqual(nil)
	}
	return dc, nil
}
