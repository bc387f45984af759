package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "zero config is valid", config: Config{}},
		{name: "local file config", config: Config{Backend: BackendLocal, Mirror: MirrorFile}},
		{name: "remote config", config: Config{Backend: BackendRemote, APIURL: "http://x"}},
		{name: "unknown backend", config: Config{Backend: "postgres"}, wantErr: ErrBackendUnknown},
		{name: "unknown mirror", config: Config{Mirror: "s3"}, wantErr: ErrMirrorUnknown},
		{name: "unknown sync strategy", config: Config{SyncStrategy: "never"}, wantErr: ErrSyncStrategyUnknown},
		{name: "unknown validation", config: Config{Validation: "loose"}, wantErr: ErrValidationUnknown},
		{name: "negative batch size", config: Config{BatchSize: -1}, wantErr: ErrBatchSizeInvalid},
		{name: "negative batch interval", config: Config{BatchInterval: -time.Second}, wantErr: ErrBatchIntervalInvalid},
		{name: "negative max root words", config: Config{MaxRootWords: -3}, wantErr: ErrMaxRootWordsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{}.WithDefaults()
	assert.Equal(t, BackendLocal, c.Backend)
	assert.Equal(t, MirrorFile, c.Mirror)
	assert.Equal(t, SyncImmediate, c.SyncStrategy)
	assert.Equal(t, ValidationStrict, c.Validation)
	assert.Equal(t, DefaultMaxRootWords, c.MaxRootWords)
	assert.Equal(t, DefaultBatchSize, c.BatchSize)
	assert.Equal(t, DefaultBatchInterval, c.BatchInterval)
	assert.Equal(t, DefaultAPIURL, c.APIURL)

	kept := Config{Mirror: MirrorSQLite, MaxRootWords: 4}.WithDefaults()
	assert.Equal(t, MirrorSQLite, kept.Mirror)
	assert.Equal(t, 4, kept.MaxRootWords)
}
