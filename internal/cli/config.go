package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/coinage/internal/paths"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

// Config keys in config.yaml. Each can also be set with COINAGE_<KEY>.
const (
	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyMirror        = "mirror"
	cfgKeyRedisAddr     = "redis_addr"
	cfgKeyAPIURL        = "api_url"
	cfgKeySyncStrategy  = "sync_strategy"
	cfgKeyBatchSize     = "batch_size"
	cfgKeyBatchInterval = "batch_interval"
	cfgKeyValidation    = "validation"
	cfgKeyMaxRootWords  = "max_root_words"
	cfgKeyLogMode       = "log_mode"
)

const envPrefix = "COINAGE"

// envFileName holds optional COINAGE_* assignments next to config.yaml.
const envFileName = ".env"

// defaultLogMode selects zap's console encoder.
const defaultLogMode = "dev"

// configFile is the structure written to config.yaml.
type configFile struct {
	Backend       string `yaml:"backend"`
	DataDir       string `yaml:"data_dir,omitempty"`
	Mirror        string `yaml:"mirror"`
	RedisAddr     string `yaml:"redis_addr"`
	APIURL        string `yaml:"api_url"`
	SyncStrategy  string `yaml:"sync_strategy"`
	BatchSize     int    `yaml:"batch_size"`
	BatchInterval string `yaml:"batch_interval"`
	Validation    string `yaml:"validation"`
	MaxRootWords  int    `yaml:"max_root_words"`
	LogMode       string `yaml:"log_mode"`
}

func defaultConfigFile() configFile {
	d := types.Config{}.WithDefaults()
	return configFile{
		Backend:       d.Backend,
		Mirror:        d.Mirror,
		RedisAddr:     d.RedisAddr,
		APIURL:        d.APIURL,
		SyncStrategy:  d.SyncStrategy,
		BatchSize:     d.BatchSize,
		BatchInterval: d.BatchInterval.String(),
		Validation:    d.Validation,
		MaxRootWords:  d.MaxRootWords,
		LogMode:       defaultLogMode,
	}
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. COINAGE_* environment variables override the
// file; configDir/.env may supply them without overriding the real
// environment.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}
	if err := loadEnvFile(configDir); err != nil {
		return nil, err
	}

	v := viper.New()
	d := defaultConfigFile()
	v.SetDefault(cfgKeyBackend, d.Backend)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyMirror, d.Mirror)
	v.SetDefault(cfgKeyRedisAddr, d.RedisAddr)
	v.SetDefault(cfgKeyAPIURL, d.APIURL)
	v.SetDefault(cfgKeySyncStrategy, d.SyncStrategy)
	v.SetDefault(cfgKeyBatchSize, d.BatchSize)
	v.SetDefault(cfgKeyBatchInterval, d.BatchInterval)
	v.SetDefault(cfgKeyValidation, d.Validation)
	v.SetDefault(cfgKeyMaxRootWords, d.MaxRootWords)
	v.SetDefault(cfgKeyLogMode, d.LogMode)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(paths.ConfigFile(configDir))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func loadEnvFile(configDir string) error {
	path := filepath.Join(configDir, envFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ensureDefaultConfigFile writes a default config.yaml into configDir if
// none exists. Idempotent.
func ensureDefaultConfigFile(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(defaultConfigFile())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := "# coinage configuration. COINAGE_<KEY> environment variables override these values.\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}

// configFromViper builds the catalog configuration. dataDir is already
// resolved against flags and the environment.
func configFromViper(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Backend:       strings.ToLower(v.GetString(cfgKeyBackend)),
		DataDir:       dataDir,
		Mirror:        strings.ToLower(v.GetString(cfgKeyMirror)),
		RedisAddr:     v.GetString(cfgKeyRedisAddr),
		APIURL:        v.GetString(cfgKeyAPIURL),
		SyncStrategy:  strings.ToLower(v.GetString(cfgKeySyncStrategy)),
		BatchSize:     v.GetInt(cfgKeyBatchSize),
		BatchInterval: v.GetDuration(cfgKeyBatchInterval),
		Validation:    strings.ToLower(v.GetString(cfgKeyValidation)),
		MaxRootWords:  v.GetInt(cfgKeyMaxRootWords),
	}
}
