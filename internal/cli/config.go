package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/graphbridge/internal/paths"
	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// Config keys.
const (
	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyListen   = "listen"
	cfgKeyBasePath = "base_path"
	cfgKeyLogLevel = "log_level"
	cfgKeyLogJSON  = "log_json"
)

const defaultLogLevel = "info"

// settings is the decoded config file plus resolved directories.
type settings struct {
	Backend  string `mapstructure:"backend"`
	DataDir  string `mapstructure:"data_dir"`
	Listen   string `mapstructure:"listen"`
	BasePath string `mapstructure:"base_path"`
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`

	configDir string
}

// storeConfig returns the backend configuration.
func (s settings) storeConfig() types.Config {
	return types.Config{
		Backend:  s.Backend,
		DataDir:  s.DataDir,
		Listen:   s.Listen,
		BasePath: s.BasePath,
	}
}

// configFile is the structure written to config.yaml by init.
type configFile struct {
	types.Config `yaml:",inline"`
	LogLevel     string `yaml:"log_level"`
	LogJSON      bool   `yaml:"log_json"`
}

// load resolves directories, reads config.yaml with viper and builds the
// logger. A missing config.yaml is not an error.
func (a *app) load(stderr io.Writer) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyListen, types.DefaultListen)
	v.SetDefault(cfgKeyBasePath, types.DefaultBasePath)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogJSON, false)
	v.SetConfigFile(filepath.Join(configDir, paths.ConfigFile))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return userError("read config: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return userError("decode config: %w", err)
	}
	s.configDir = configDir
	s.DataDir, err = paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir), configDir)
	if err != nil {
		return sysError("resolve data dir: %w", err)
	}
	if a.flags.logLevel != "" {
		s.LogLevel = a.flags.logLevel
	}
	if err := s.storeConfig().Validate(); err != nil {
		return userError("config: %w", err)
	}

	a.settings = s
	a.logger = newLogger(s.LogLevel, s.LogJSON, stderr)
	return nil
}

// newLogger builds the root logger.
func newLogger(level string, jsonFormat bool, out io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "graphbridge",
		Level:      lvl,
		Output:     out,
		JSONFormat: jsonFormat,
	})
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path string, s settings) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	cfg := configFile{
		Config: types.Config{
			Backend:  types.BackendSQLite,
			DataDir:  s.DataDir,
			Listen:   s.Listen,
			BasePath: s.BasePath,
		},
		LogLevel: s.LogLevel,
		LogJSON:  s.LogJSON,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# graphbridge configuration\n")
	return true, os.WriteFile(path, append(header, data...), 0o644)
}
