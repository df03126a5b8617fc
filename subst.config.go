package subst

import (
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the settings a host application (or the subst CLI) reads
// from a config file.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// Storage selects the template storage backend. An empty driver means none.
	Storage StorageConfig `mapstructure:"storage"`

	// Catalog is an optional path to a YAML or TOML catalog file.
	Catalog string `mapstructure:"catalog"`
}

// StorageConfig selects and configures a storage driver.
type StorageConfig struct {
	Driver       string        `mapstructure:"driver"`
	DSN          string        `mapstructure:"dsn"`
	TablePrefix  string        `mapstructure:"table_prefix"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: LogLevelWarn,
		Storage: StorageConfig{
			TablePrefix:  SQLTablePrefix,
			QueryTimeout: SQLDefaultQueryTimeout,
		},
	}
}

// LoadConfig decodes a YAML document over DefaultConfig. Durations accept
// strings like "10s"; scalar types are converted where unambiguous.
// Unknown keys are rejected.
func LoadConfig(data []byte) (*Config, error) {
	config := DefaultConfig()

	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, NewConfigError(ErrMsgConfigDecode, "", err)
	}

	if err := decodeConfigMap(raw, config); err != nil {
		return nil, NewConfigError(ErrMsgConfigDecode, "", err)
	}

	if _, err := parseLogLevel(config.LogLevel); err != nil {
		return nil, err
	}

	return config, nil
}

func decodeConfigMap(data map[string]any, out any) error {
	conf := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		ErrorUnused:      true,
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          ConfigTagName,
	}
	decoder, err := mapstructure.NewDecoder(conf)
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}

func parseLogLevel(level string) (zapcore.Level, error) {
	switch level {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, NewConfigError(ErrMsgConfigLogLevel, ConfigFieldLogLevel, nil)
	}
}

// NewLogger builds a JSON production logger at the configured level,
// writing to stderr.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := parseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.Encoding = ConfigLogEncoding

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigLogger, ConfigFieldLogLevel, err)
	}
	return logger, nil
}

// OpenStorage opens the configured storage driver. It returns nil, nil when
// no driver is configured.
func (c *Config) OpenStorage() (TemplateStorage, error) {
	switch c.Storage.Driver {
	case "":
		return nil, nil
	case StorageDriverNameMemory:
		return NewMemoryStorage(), nil
	case StorageDriverNameSQLite:
		storage, err := NewSQLiteStorage(SQLiteConfig{
			Path:         c.Storage.DSN,
			TablePrefix:  c.Storage.TablePrefix,
			QueryTimeout: c.Storage.QueryTimeout,
		})
		if err != nil {
			return nil, err
		}
		return storage, nil
	case StorageDriverNamePostgres:
		pgConfig := DefaultPostgresConfig()
		pgConfig.ConnectionString = c.Storage.DSN
		pgConfig.TablePrefix = c.Storage.TablePrefix
		pgConfig.QueryTimeout = c.Storage.QueryTimeout
		pgConfig.AutoMigrate = true
		storage, err := NewPostgresStorage(pgConfig)
		if err != nil {
			return nil, err
		}
		return storage, nil
	default:
		return OpenStorage(c.Storage.Driver, c.Storage.DSN)
	}
}
