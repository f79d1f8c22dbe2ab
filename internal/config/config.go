// Package config loads margins settings with viper: built-in defaults, then
// config.yaml from the config directory, then MARGINS_* environment
// variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/margins/internal/paths"
	"github.com/mesh-intelligence/margins/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "MARGINS"
)

// Config keys.
const (
	KeyTotalsLabel    = "totals_label"
	KeySubtotalsLabel = "subtotals_label"
	KeyFill           = "fill"
	KeyNDigits        = "ndigits"
	KeyBaseUnit       = "base_unit"
	KeyLabelN         = "label_n"
	KeyLabelPct       = "label_pct"
	KeySkipSingleRows = "skip_single_rows"
	KeyInterleaf      = "interleaf"
	KeyLogLevel       = "log_level"
	KeySQLite         = "sqlite"
)

// Log levels, as accepted by the logging package.
const (
	LogLevelNone   = "none"
	LogLevelNormal = "normal"
	LogLevelDebug  = "debug"
)

// ErrInvalidLogLevel is returned for a log_level other than none, normal or debug.
var ErrInvalidLogLevel = errors.New("log_level must be none, normal or debug")

// File is the structure of config.yaml.
type File struct {
	types.AggregationConfig `mapstructure:",squash" yaml:",inline"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// SQLite is the default database for --query.
	SQLite string `mapstructure:"sqlite" yaml:"sqlite,omitempty"`
}

// Default returns the built-in settings.
func Default() File {
	return File{
		AggregationConfig: types.DefaultAggregationConfig(),
		LogLevel:          LogLevelNormal,
	}
}

// Validate checks the aggregation settings and the log level.
func (f File) Validate() error {
	if err := f.AggregationConfig.Validate(); err != nil {
		return err
	}
	switch f.LogLevel {
	case LogLevelNone, LogLevelNormal, LogLevelDebug:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, f.LogLevel)
	}
}

// Load reads settings for configDir. A missing config.yaml is not an error.
// Flags in fs whose name matches a config key with dashes for underscores
// (for example --totals-label) override the file and the environment when
// they were set on the command line; fs may be nil.
func Load(configDir string, fs *pflag.FlagSet) (File, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for _, key := range keys() {
			if f := fs.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return File{}, fmt.Errorf("bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return File{}, fmt.Errorf("read config: %w", err)
		}
	}

	var out File
	if err := v.Unmarshal(&out); err != nil {
		return File{}, fmt.Errorf("decode config: %w", err)
	}
	if err := out.Validate(); err != nil {
		return File{}, fmt.Errorf("invalid config: %w", err)
	}
	return out, nil
}

func keys() []string {
	return []string{
		KeyTotalsLabel, KeySubtotalsLabel, KeyFill, KeyNDigits, KeyBaseUnit,
		KeyLabelN, KeyLabelPct, KeySkipSingleRows, KeyInterleaf,
		KeyLogLevel, KeySQLite,
	}
}

func setDefaults(v *viper.Viper, d File) {
	v.SetDefault(KeyTotalsLabel, d.TotalsLabel)
	v.SetDefault(KeySubtotalsLabel, d.SubtotalsLabel)
	v.SetDefault(KeyFill, d.Fill)
	v.SetDefault(KeyNDigits, d.NDigits)
	v.SetDefault(KeyBaseUnit, d.BaseUnit)
	v.SetDefault(KeyLabelN, d.LabelN)
	v.SetDefault(KeyLabelPct, d.LabelPct)
	v.SetDefault(KeySkipSingleRows, d.SkipSingleRows)
	v.SetDefault(KeyInterleaf, d.Interleaf)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeySQLite, d.SQLite)
}

// WriteDefault creates configDir and writes config.yaml with the built-in
// settings unless the file already exists. It reports whether it wrote the
// file.
func WriteDefault(configDir string) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	d := Default()
	data, err := yaml.Marshal(&d)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := "# margins configuration\n# Every key can be overridden with a MARGINS_<KEY> environment variable.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
