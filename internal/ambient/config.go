package ambient

import (
	"os"

	"github.com/juju/errors"
	"gopkg.in/yaml.v2"
)

// Config is cmd/qalgebra's resolved configuration: a YAML file's values
// with any flags the user passed on the command line layered on top.
// Grounded on Chahine-tech-sqlens/cmd/sqlparser/main.go's flag-driven CLI,
// extended with a YAML config file per SPEC_FULL.md §10.3 — reusing
// gopkg.in/yaml.v2 (already required for the schema loader, C14) rather
// than adding spf13/viper or urfave/cli for a three-field config surface.
type Config struct {
	SchemaPath string   `yaml:"schema_path"`
	Heuristics []string `yaml:"heuristics"`
	OutputMode string   `yaml:"output_mode"`
}

// LoadConfigFile reads a Config from a YAML file at path. A missing file is
// not an error: it returns a zero Config so flags alone can drive the CLI.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, errors.Annotatef(err, "reading config file %q", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Annotatef(err, "parsing config file %q", path)
	}
	return cfg, nil
}

// MergeFlags layers flags over file, with any non-zero flag field
// overriding the file's value.
func MergeFlags(file, flags Config) Config {
	out := file
	if flags.SchemaPath != "" {
		out.SchemaPath = flags.SchemaPath
	}
	if len(flags.Heuristics) > 0 {
		out.Heuristics = flags.Heuristics
	}
	if flags.OutputMode != "" {
		out.OutputMode = flags.OutputMode
	}
	return out
}
