package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned by LoadConfig when no config file exists yet.
var ErrConfigNotFound = errors.New("config file not found")

func GetConfigPath() (string, error) {
	// Check if the environment variable `TODOCAL_CONFIG` is set
	if customConfig := os.Getenv("TODOCAL_CONFIG"); customConfig != "" {
		return customConfig, nil
	}

	var configPath string

	switch runtime.GOOS {
	case "windows":
		// Use `APPDATA\todocal-cli\config.yaml` if available
		appData := os.Getenv("APPDATA")
		if appData != "" {
			configPath = filepath.Join(appData, "todocal-cli", "config.yaml")
		} else {
			// Fallback to `USERPROFILE` if `APPDATA` is unavailable
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to determine home directory: %w", err)
			}
			configPath = filepath.Join(homeDir, "AppData", "Roaming", "todocal-cli", "config.yaml")
		}

	default: // macOS / Linux
		configDir, err := os.UserConfigDir()
		if err != nil {
			// Fallback to `~/.todocal-cli/config.yaml` if `os.UserConfigDir()` fails
			homeDir, homeErr := os.UserHomeDir()
			if homeErr != nil {
				return "", fmt.Errorf("failed to determine home directory: %w", homeErr)
			}
			configPath = filepath.Join(homeDir, ".todocal-cli", "config.yaml")
			log.Printf("⚠️ Failed to get user config directory, using fallback: %s", configPath)
		} else {
			configPath = filepath.Join(configDir, "todocal-cli", "config.yaml")
		}
	}

	return configPath, nil
}

// Expand `~` to the home directory (Windows included)
func expandHomeDir(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("⚠️ Failed to get home directory: %v", err)
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func LoadConfig() (*model.Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom layers defaults, the YAML file at configPath and TODOCAL_*
// environment variables (TODOCAL_STORAGE_DRIVER overrides storage.driver).
func LoadConfigFrom(configPath string) (*model.Config, error) {
	v := newConfigViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("failed to read config file (%s): %w", configPath, err)
	}

	var config model.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config (%s): %w", configPath, err)
	}

	// Expand `~` in paths
	config.DataDir = expandHomeDir(config.DataDir)

	return &config, nil
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TODOCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := model.DefaultConfig()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("editor", defaults.Editor)

	v.SetDefault("storage.driver", defaults.Storage.Driver)
	v.SetDefault("storage.sqlite_file", defaults.Storage.SQLiteFile)
	v.SetDefault("storage.json_file", defaults.Storage.JsonFile)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.file", defaults.Log.File)

	v.SetDefault("sync.enable", defaults.Sync.Enable)
	v.SetDefault("sync.bucket", defaults.Sync.Bucket)
	v.SetDefault("sync.prefix", defaults.Sync.Prefix)
	v.SetDefault("sync.aws_profile", defaults.Sync.AWSProfile)
	v.SetDefault("sync.aws_region", defaults.Sync.AWSRegion)
	v.SetDefault("sync.exclude", defaults.Sync.Exclude)
	return v
}

// SaveConfig writes the config as YAML, creating parent directories.
func SaveConfig(configPath string, config model.Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("❌ Failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(&config)
	if err != nil {
		return fmt.Errorf("❌ Failed to convert config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("❌ Failed to write config file: %w", err)
	}
	return nil
}

// EnsureDataDir creates the data directory if it does not exist.
func EnsureDataDir(config model.Config) error {
	if err := os.MkdirAll(expandHomeDir(config.DataDir), 0755); err != nil {
		return fmt.Errorf("❌ Failed to create data directory %s: %w", config.DataDir, err)
	}
	return nil
}

// DataFile resolves a file name relative to the data directory. Absolute
// names are returned unchanged.
func DataFile(config model.Config, name string) string {
	name = expandHomeDir(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(expandHomeDir(config.DataDir), name)
}
