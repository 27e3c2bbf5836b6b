// Package config loads the dfmgen host configuration from defaults, an
// optional config file and DFMGEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

// Engine modes.
const (
	EngineModeFile   = "file"
	EngineModeDocker = "docker"
)

// Config holds application configuration.
type Config struct {
	Package PackageConfig `mapstructure:"package"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Units   UnitsConfig   `mapstructure:"units"`
	Log     LogConfig     `mapstructure:"log"`
}

// PackageConfig locates the argument package file.
type PackageConfig struct {
	Path string `mapstructure:"path"`
}

// EngineConfig selects how committed packages reach the calculation
// engine.
type EngineConfig struct {
	Mode      string `mapstructure:"mode"`
	Image     string `mapstructure:"image"`
	OutputDir string `mapstructure:"output_dir"`
}

// UnitsConfig selects the project unit system.
type UnitsConfig struct {
	System string `mapstructure:"system"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// DFMGEN_, with "." in keys replaced by "_" (DFMGEN_ENGINE_MODE).
//
// cfgPath names the config file explicitly; when empty, DFMGEN_CONFIG is
// consulted, then config.{toml,yaml} in $XDG_CONFIG_HOME/dfmgen. A missing
// default config file is not an error; a missing explicit one is.
func Load(cfgPath string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("package.path", "")
	v.SetDefault("engine.mode", EngineModeFile)
	v.SetDefault("engine.image", "dfmgen/engine:latest")
	v.SetDefault("engine.output_dir", filepath.Join(os.TempDir(), "dfmgen", "jobs"))
	v.SetDefault("units.system", "metric")
	v.SetDefault("log.level", "info")

	if cfgPath == "" {
		cfgPath = os.Getenv("DFMGEN_CONFIG")
	}
	explicit := cfgPath != ""
	if explicit {
		v.SetConfigFile(cfgPath)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "dfmgen"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DFMGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to read config file %s", cfgPath), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Engine.Mode {
	case EngineModeFile, EngineModeDocker:
	default:
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("invalid engine.mode %q (want %q or %q)", c.Engine.Mode, EngineModeFile, EngineModeDocker))
	}
	if c.Engine.Mode == EngineModeDocker && c.Engine.Image == "" {
		return model.NewCLIError(model.ExitGeneralError, "engine.image is required when engine.mode is docker")
	}
	return nil
}
