// Package config loads the dutyreg settings file.
//
// Settings come from ~/.config/dutyreg/config.yaml (or the file passed with
// --config) with DUTYREG_* environment overrides, e.g.
// DUTYREG_STORAGE_BACKEND=file. A commented default file is written on first
// run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/dutyreg/internal/duty"
	"github.com/sadopc/dutyreg/internal/store"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"

	envPrefix = "DUTYREG"
)

type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Path is the database file for sqlite or the data directory for file.
	// Empty means the default location for the backend.
	Path string `mapstructure:"path" yaml:"path"`
	Key  string `mapstructure:"key" yaml:"key"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

type NightConfig struct {
	Start string `mapstructure:"start" yaml:"start"`
	End   string `mapstructure:"end" yaml:"end"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Night   NightConfig   `mapstructure:"night" yaml:"night"`
	Serve   ServeConfig   `mapstructure:"serve" yaml:"serve"`

	// File is the settings file that was read.
	File string `mapstructure:"-" yaml:"-"`
}

// Dir returns ~/.config/dutyreg (or the platform equivalent).
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(base, "dutyreg"), nil
}

// DefaultPath returns the settings file used when --config is not given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the built-in settings.
func Default() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("locate home directory: %w", err)
	}
	return Config{
		Storage: StorageConfig{Backend: BackendSQLite, Key: store.DefaultKey},
		Export:  ExportConfig{Dir: home},
		Log:     LogConfig{File: filepath.Join(dir, "dutyreg.log")},
		Night: NightConfig{
			Start: duty.DefaultNight.StartClock(),
			End:   duty.DefaultNight.EndClock(),
		},
		Serve: ServeConfig{Addr: "127.0.0.1:8484"},
	}, nil
}

// Load reads path (the default file when empty), creating it with the
// defaults when it does not exist yet, then applies environment overrides.
func Load(path string) (*Config, error) {
	def, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := Save(path, def); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, def)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.File = path
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.key", def.Storage.Key)
	v.SetDefault("export.dir", def.Export.Dir)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("night.start", def.Night.Start)
	v.SetDefault("night.end", def.Night.End)
	v.SetDefault("serve.addr", def.Serve.Addr)
}

func (c *Config) normalize() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Storage.Path = expandHome(strings.TrimSpace(c.Storage.Path))
	c.Storage.Key = strings.TrimSpace(c.Storage.Key)
	if c.Storage.Key == "" {
		c.Storage.Key = store.DefaultKey
	}
	c.Export.Dir = expandHome(strings.TrimSpace(c.Export.Dir))
	c.Log.File = expandHome(strings.TrimSpace(c.Log.File))
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQLite, BackendFile, c.Storage.Backend)
	}
	if _, err := c.NightWindow(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Serve.Addr) == "" {
		return fmt.Errorf("serve.addr is required")
	}
	return nil
}

// NightWindow parses night.start and night.end.
func (c *Config) NightWindow() (duty.NightWindow, error) {
	w, err := duty.NewNightWindow(c.Night.Start, c.Night.End)
	if err != nil {
		return duty.NightWindow{}, fmt.Errorf("night window: %w", err)
	}
	return w, nil
}

// StoragePath resolves the storage location, filling in the backend default.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	if c.Storage.Backend == BackendFile {
		dir, err := Dir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "data"), nil
	}
	return store.DefaultDBPath()
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

const defaultHeader = `# dutyreg configuration
#
# storage.backend: sqlite (single database file) or file (one JSON file per key)
# storage.path:    database file or data directory; empty uses the default location
# night.start/end: the nightly window counted as night hours (HH:MM)
# Every key can be overridden from the environment, e.g. DUTYREG_EXPORT_DIR.

`

// Save writes cfg as a commented YAML file, creating its directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append([]byte(defaultHeader), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
