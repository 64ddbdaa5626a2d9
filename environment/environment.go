// Package environment holds the user-tunable settings that configure the
// global behavior of the program.
package environment

import (
	"os"

	"github.com/gruntwork-io/go-commons/errors"
	"gopkg.in/yaml.v3"

	"github.com/cuthbertLab/music21-sub003/logger"
)

// Settings represents options that configure the global behavior of the
// program.
type Settings struct {
	// LogLevel names a logrus level: debug, info, warning, error.
	LogLevel string `yaml:"log_level"`

	// QuantizeDivisors are the per-quarter grids offered to Quantize when
	// the caller does not pass its own.
	QuantizeDivisors []int `yaml:"quantize_divisors,flow"`
}

// Default returns the settings used when no file overrides them.
func Default() Settings {
	return Settings{
		LogLevel:         "info",
		QuantizeDivisors: []int{4, 3},
	}
}

// Load reads settings from a YAML file, filling anything the file leaves
// out from Default.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, errors.WithStackTrace(err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, errors.WithStackTrace(err)
	}
	return s, nil
}

// Apply pushes the settings onto the process: today that is just the log
// level.
func (s Settings) Apply() error {
	return logger.SetLevel(s.LogLevel)
}
