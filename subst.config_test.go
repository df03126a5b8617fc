package subst

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, LogLevelWarn, config.LogLevel)
	assert.Empty(t, config.Storage.Driver)
	assert.Equal(t, SQLTablePrefix, config.Storage.TablePrefix)
	assert.Equal(t, SQLDefaultQueryTimeout, config.Storage.QueryTimeout)
	assert.Empty(t, config.Catalog)
}

func TestLoadConfig(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		data := []byte(`
log_level: debug
catalog: templates.yaml
storage:
  driver: postgres
  dsn: postgres://localhost/subst
  table_prefix: app_
  query_timeout: 10s
`)
		config, err := LoadConfig(data)
		require.NoError(t, err)

		assert.Equal(t, &Config{
			LogLevel: LogLevelDebug,
			Catalog:  "templates.yaml",
			Storage: StorageConfig{
				Driver:       StorageDriverNamePostgres,
				DSN:          "postgres://localhost/subst",
				TablePrefix:  "app_",
				QueryTimeout: 10 * time.Second,
			},
		}, config)
	})

	t.Run("partial document keeps defaults", func(t *testing.T) {
		config, err := LoadConfig([]byte("storage:\n  driver: memory\n"))
		require.NoError(t, err)

		assert.Equal(t, LogLevelWarn, config.LogLevel)
		assert.Equal(t, StorageDriverNameMemory, config.Storage.Driver)
		assert.Equal(t, SQLTablePrefix, config.Storage.TablePrefix)
		assert.Equal(t, SQLDefaultQueryTimeout, config.Storage.QueryTimeout)
	})

	t.Run("empty document", func(t *testing.T) {
		config, err := LoadConfig(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("weakly typed scalar", func(t *testing.T) {
		config, err := LoadConfig([]byte("catalog: 42\n"))
		require.NoError(t, err)
		assert.Equal(t, "42", config.Catalog)
	})
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		errMsg string
	}{
		{name: "malformed yaml", data: "log_level: [", errMsg: ErrMsgConfigDecode},
		{name: "unknown key", data: "colour: blue\n", errMsg: ErrMsgConfigDecode},
		{name: "bad duration", data: "storage:\n  query_timeout: soon\n", errMsg: ErrMsgConfigDecode},
		{name: "bad log level", data: "log_level: loud\n", errMsg: ErrMsgConfigLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, config)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	levels := map[string]zapcore.Level{
		LogLevelDebug: zapcore.DebugLevel,
		LogLevelInfo:  zapcore.InfoLevel,
		LogLevelWarn:  zapcore.WarnLevel,
		LogLevelError: zapcore.ErrorLevel,
	}

	for name, level := range levels {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig()
			config.LogLevel = name

			logger, err := config.NewLogger()
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(level))
			if level > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(level-1))
			}
		})
	}

	t.Run("invalid level", func(t *testing.T) {
		config := DefaultConfig()
		config.LogLevel = "verbose"

		_, err := config.NewLogger()
		assert.ErrorIs(t, err, ErrInvalidConfig)

		field, ok := ErrorMetadata(err, MetaKeyField)
		assert.True(t, ok)
		assert.Equal(t, ConfigFieldLogLevel, field)
	})
}

func TestConfig_OpenStorage(t *testing.T) {
	t.Run("no driver", func(t *testing.T) {
		storage, err := DefaultConfig().OpenStorage()
		require.NoError(t, err)
		assert.Nil(t, storage)
	})

	t.Run("memory", func(t *testing.T) {
		config := DefaultConfig()
		config.Storage.Driver = StorageDriverNameMemory

		storage, err := config.OpenStorage()
		require.NoError(t, err)
		defer storage.Close()
		assert.IsType(t, &MemoryStorage{}, storage)
	})

	t.Run("sqlite with prefix", func(t *testing.T) {
		config := DefaultConfig()
		config.Storage.Driver = StorageDriverNameSQLite
		config.Storage.DSN = filepath.Join(t.TempDir(), "config.db")
		config.Storage.TablePrefix = "cfg_"

		storage, err := config.OpenStorage()
		require.NoError(t, err)
		defer storage.Close()

		sqlite, ok := storage.(*SQLiteStorage)
		require.True(t, ok)
		assert.Equal(t, "cfg_templates", sqlite.table)
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		config := DefaultConfig()
		config.Storage.Driver = StorageDriverNamePostgres

		_, err := config.OpenStorage()
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgStorageEmptyDSN)
	})

	t.Run("unknown driver", func(t *testing.T) {
		config := DefaultConfig()
		config.Storage.Driver = "etcd"

		_, err := config.OpenStorage()
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgStorageDriverNotFound)
	})
}
