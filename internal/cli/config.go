package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storefront/internal/paths"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

const configFileName = "config.yaml"

// Configuration keys.
const (
	keyBackend    = "backend"
	keyDataDir    = "data_dir"
	keyDSN        = "dsn"
	keyListen     = "listen"
	keySeedDir    = "seed_dir"
	keyWrapStatus = "orders.wrap_status"
	keyLogLevel   = "log.level"
	keyLogFormat  = "log.format"
)

const (
	defaultBackend = types.BackendSQLite
	defaultListen  = "127.0.0.1:8080"
)

// settings is the merged configuration: flags, config.yaml, STOREFRONT_*
// environment variables and defaults.
type settings struct {
	Backend    string
	DSN        string
	Listen     string
	WrapStatus bool
	LogLevel   string
	LogFormat  string
	Dirs       paths.Dirs
}

// configFile is the layout written to config.yaml by init.
type configFile struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir,omitempty"`
	DSN     string `yaml:"dsn,omitempty"`
	Listen  string `yaml:"listen"`
	SeedDir string `yaml:"seed_dir,omitempty"`
	Orders  struct {
		WrapStatus bool `yaml:"wrap_status"`
	} `yaml:"orders"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func defaultConfigFile() configFile {
	var c configFile
	c.Backend = defaultBackend
	c.Listen = defaultListen
	c.Orders.WrapStatus = true
	c.Log.Level = "info"
	c.Log.Format = "text"
	return c
}

// loadSettings resolves the config directory, reads config.yaml when it
// exists and applies environment overrides.
func loadSettings(f *rootFlags) (settings, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(configDir, configFileName))
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := defaultConfigFile()
	v.SetDefault(keyBackend, def.Backend)
	v.SetDefault(keyListen, def.Listen)
	v.SetDefault(keyWrapStatus, def.Orders.WrapStatus)
	v.SetDefault(keyLogLevel, def.Log.Level)
	v.SetDefault(keyLogFormat, def.Log.Format)
	v.SetDefault(keyDataDir, "")
	v.SetDefault(keyDSN, "")
	v.SetDefault(keySeedDir, "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return settings{}, fmt.Errorf("read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	dirs, err := paths.Resolve(configDir, f.dataDir, v.GetString(keyDataDir), v.GetString(keySeedDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve directories: %w", err)
	}

	return settings{
		Backend:    v.GetString(keyBackend),
		DSN:        v.GetString(keyDSN),
		Listen:     v.GetString(keyListen),
		WrapStatus: v.GetBool(keyWrapStatus),
		LogLevel:   v.GetString(keyLogLevel),
		LogFormat:  v.GetString(keyLogFormat),
		Dirs:       dirs,
	}, nil
}

// backendConfig returns the storage selection for the settings.
func (s settings) backendConfig() types.Config {
	return types.Config{Backend: s.Backend, DataDir: s.Dirs.Data, DSN: s.DSN}
}

// statusCycle returns the order advance cycle for the settings.
func (s settings) statusCycle() types.StatusCycle {
	return types.StatusCycle{Forward: types.DefaultStatusCycle.Forward, Wrap: s.WrapStatus}
}

// writeConfigIfMissing writes cfg to path unless the file already exists.
// It reports whether a file was written.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// newLogger builds the process logger from log.level and log.format.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: log level %q", types.ErrInvalidInput, level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: log format %q", types.ErrInvalidInput, format)
	}
}
