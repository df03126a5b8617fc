package subst

import "time"

// Placeholder syntax - ${name}, name matching [A-Za-z0-9_]+
const (
	PlaceholderOpen  = "${"
	PlaceholderClose = "}"
)

// Engine defaults
const (
	DefaultMaxSuggestions = 3
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyPlaceholder  = "placeholder"
	MetaKeyParameter    = "parameter"
	MetaKeyValue        = "value"
	MetaKeyOffset       = "offset"
	MetaKeyLine         = "line"
	MetaKeyColumn       = "column"
	MetaKeyFirstOffset  = "first_offset"
	MetaKeyMissing      = "missing"
	MetaKeyInvalid      = "invalid"
	MetaKeySuggestions  = "suggestions"
	MetaKeyTemplateName = "template_name"
	MetaKeyField        = "field"
	MetaKeyReason       = "reason"
	MetaKeyFormat       = "format"
	MetaKeyIndex        = "index"
)

// MetaListSeparator joins multi-valued metadata entries
const MetaListSeparator = ","

// Storage driver names
const (
	StorageDriverNameMemory   = "memory"
	StorageDriverNameSQLite   = "sqlite"
	StorageDriverNamePostgres = "postgres"
)

// Stored template ID prefix
const TemplateIDPrefix = "tmpl_"

// SQL storage defaults
const (
	SQLTablePrefix                 = "subst_"
	SQLDefaultQueryTimeout         = 30 * time.Second
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	SQLiteDriverName               = "sqlite"
	PostgresDriverName             = "postgres"
	SQLiteMemoryDSN                = ":memory:"
)

// Tracing
const (
	TracerName           = "github.com/itsatony/go-subst"
	SpanNameExecute      = "subst.execute"
	SpanAttrTemplateName = "template.name"
	SpanAttrPlaceholders = "placeholder.count"
	SpanAttrSourceLength = "source.length"
	SpanEventLoaded      = "template.loaded"
	InlineTemplateName   = "inline"
)

// Log message constants
const (
	LogMsgEngineCreated      = "engine created"
	LogMsgTemplateParsed     = "template parsed"
	LogMsgTemplateRegistered = "template registered"
	LogMsgTemplateRemoved    = "template unregistered"
	LogMsgTemplateLoaded     = "template loaded from storage"
	LogMsgTemplateSaved      = "template saved to storage"
	LogMsgEvaluateStart      = "starting evaluation"
	LogMsgEvaluateEnd        = "evaluation complete"
	LogMsgEvaluateRejected   = "evaluation rejected"
	LogMsgCatalogRegistered  = "catalog registered"
)

// Log field names
const (
	LogFieldTemplateName = "template_name"
	LogFieldPlaceholders = "placeholder_count"
	LogFieldSourceLength = "source_length"
	LogFieldOutputLength = "output_length"
	LogFieldVersion      = "version"
	LogFieldEntries      = "entries"
	LogFieldError        = "error"
	LogFieldStorage      = "storage"
)

// Config log levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Catalog formats and file extensions
const (
	CatalogFormatYAML CatalogFormat = "yaml"
	CatalogFormatTOML CatalogFormat = "toml"

	CatalogExtYAML = ".yaml"
	CatalogExtYML  = ".yml"
	CatalogExtTOML = ".toml"
)

// Config field names, as written in config files
const (
	ConfigFieldLogLevel            = "log_level"
	ConfigFieldStorage             = "storage"
	ConfigFieldStorageDriver       = "driver"
	ConfigFieldStorageDSN          = "dsn"
	ConfigFieldStorageTablePrefix  = "table_prefix"
	ConfigFieldStorageQueryTimeout = "query_timeout"
	ConfigFieldCatalog             = "catalog"
	ConfigTagName                  = "mapstructure"
	ConfigLogEncoding              = "json"
)
