package types

import (
	"errors"
	"fmt"
	"time"
)

// Config selects the catalog backing and tunes its persistence.
type Config struct {
	Backend       string        `json:"backend" yaml:"backend"`
	DataDir       string        `json:"data_dir" yaml:"data_dir"`
	Mirror        string        `json:"mirror" yaml:"mirror"`
	RedisAddr     string        `json:"redis_addr" yaml:"redis_addr"`
	APIURL        string        `json:"api_url" yaml:"api_url"`
	SyncStrategy  string        `json:"sync_strategy" yaml:"sync_strategy"`
	BatchSize     int           `json:"batch_size" yaml:"batch_size"`
	BatchInterval time.Duration `json:"batch_interval" yaml:"batch_interval"`
	Validation    string        `json:"validation" yaml:"validation"`
	MaxRootWords  int           `json:"max_root_words" yaml:"max_root_words"`
}

// Backend names.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Mirror driver names.
const (
	MirrorFile   = "file"
	MirrorSQLite = "sqlite"
	MirrorRedis  = "redis"
)

// Sync strategies decide when mutations reach the mirror.
const (
	SyncImmediate = "immediate" // flush after every mutation
	SyncOnClose   = "on_close"  // flush only on Flush or Close
	SyncBatch     = "batch"     // flush every BatchSize mutations or BatchInterval
)

// Validation modes.
const (
	ValidationStrict  = "strict"
	ValidationLenient = "lenient"
)

// Defaults applied by WithDefaults.
const (
	DefaultAPIURL        = "http://localhost:8000/api"
	DefaultRedisAddr     = "localhost:6379"
	DefaultBatchSize     = 10
	DefaultBatchInterval = 5 * time.Second
)

// Config validation errors.
var (
	ErrBackendUnknown       = errors.New("unknown backend")
	ErrMirrorUnknown        = errors.New("unknown mirror driver")
	ErrSyncStrategyUnknown  = errors.New("unknown sync strategy")
	ErrValidationUnknown    = errors.New("unknown validation mode")
	ErrBatchSizeInvalid     = errors.New("batch size must be positive")
	ErrBatchIntervalInvalid = errors.New("batch interval must be positive")
	ErrMaxRootWordsInvalid  = errors.New("max root words must be positive")
)

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendLocal
	}
	if c.Mirror == "" {
		c.Mirror = MirrorFile
	}
	if c.RedisAddr == "" {
		c.RedisAddr = DefaultRedisAddr
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.SyncStrategy == "" {
		c.SyncStrategy = SyncImmediate
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchInterval == 0 {
		c.BatchInterval = DefaultBatchInterval
	}
	if c.Validation == "" {
		c.Validation = ValidationStrict
	}
	if c.MaxRootWords == 0 {
		c.MaxRootWords = DefaultMaxRootWords
	}
	return c
}

// Validate checks that the Config is well-formed. Empty fields are accepted
// because WithDefaults fills them.
func (c Config) Validate() error {
	switch c.Backend {
	case "", BackendLocal, BackendRemote:
	default:
		return fmt.Errorf("%w: %q", ErrBackendUnknown, c.Backend)
	}
	switch c.Mirror {
	case "", MirrorFile, MirrorSQLite, MirrorRedis:
	default:
		return fmt.Errorf("%w: %q", ErrMirrorUnknown, c.Mirror)
	}
	switch c.SyncStrategy {
	case "", SyncImmediate, SyncOnClose, SyncBatch:
	default:
		return fmt.Errorf("%w: %q", ErrSyncStrategyUnknown, c.SyncStrategy)
	}
	switch c.Validation {
	case "", ValidationStrict, ValidationLenient:
	default:
		return fmt.Errorf("%w: %q", ErrValidationUnknown, c.Validation)
	}
	if c.BatchSize < 0 {
		return ErrBatchSizeInvalid
	}
	if c.BatchInterval < 0 {
		return ErrBatchIntervalInvalid
	}
	if c.MaxRootWords < 0 {
		return ErrMaxRootWordsInvalid
	}
	return nil
}
