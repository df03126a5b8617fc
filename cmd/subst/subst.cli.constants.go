package main

// CLI metadata
const (
	CLIName        = "subst"
	CLIDescription = "Render ${name} templates with validated parameters"
)

// Command names
const (
	CmdNameRender       = "render"
	CmdNameValidate     = "validate"
	CmdNamePlaceholders = "placeholders"
	CmdNameStore        = "store"
	CmdNameSave         = "save"
	CmdNameList         = "list"
	CmdNameVersion      = "version"
)

// Command usage lines
const (
	UsageRender       = "Render a template with parameters"
	UsageValidate     = "Check that a template parses"
	UsagePlaceholders = "List the placeholders of a template"
	UsageStore        = "Manage templates in persistent storage"
	UsageStoreSave    = "Save a template as a new version"
	UsageStoreList    = "List stored templates (latest versions)"
	UsageStoreRender  = "Render the latest stored version of a template"
	UsageVersion      = "Show version information"
)

// Flag names - long form
const (
	FlagConfig      = "config"
	FlagTemplate    = "template"
	FlagParam       = "param"
	FlagParamsFile  = "params-file"
	FlagName        = "name"
	FlagCatalog     = "catalog"
	FlagOutput      = "output"
	FlagJSON        = "json"
	FlagDriver      = "driver"
	FlagDSN         = "dsn"
	FlagPrefix      = "prefix"
	FlagDescription = "description"
	FlagCreatedBy   = "created-by"
)

// Flag names - short form
const (
	FlagTemplateShort   = "t"
	FlagParamShort      = "p"
	FlagParamsFileShort = "f"
	FlagNameShort       = "n"
	FlagOutputShort     = "o"
)

// Flag usage text
const (
	FlagUsageConfig      = "YAML config file (log level, storage, catalog)"
	FlagUsageTemplate    = `template file (use "-" for stdin)`
	FlagUsageParam       = "parameter as key=value (repeatable)"
	FlagUsageParamsFile  = "YAML file mapping parameter names to values"
	FlagUsageName        = "template name"
	FlagUsageCatalog     = "YAML or TOML catalog file"
	FlagUsageOutput      = `output file (default "-" for stdout)`
	FlagUsageJSON        = "print JSON instead of text"
	FlagUsageDriver      = "storage driver (memory, sqlite, postgres)"
	FlagUsageDSN         = "storage connection string"
	FlagUsagePrefix      = "only list names starting with this prefix"
	FlagUsageDescription = "description stored with the template"
	FlagUsageCreatedBy   = "author stored with the template"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
	ParamSeparator   = "="
)

// Error messages - ALL must be constants
const (
	ErrMsgMissingTemplate     = "template source required"
	ErrMsgTemplateOrName      = "use either --template or --name, not both"
	ErrMsgInvalidParam        = "parameter must be key=value"
	ErrMsgReadFileFailed      = "failed to read file"
	ErrMsgReadParamsFailed    = "failed to read parameters"
	ErrMsgReadConfigFailed    = "failed to read config"
	ErrMsgReadCatalogFailed   = "failed to read catalog"
	ErrMsgUnknownCatalogExt   = "cannot infer catalog format from file extension"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgParseTemplateFailed = "template parsing failed"
	ErrMsgExecuteFailed       = "template execution failed"
	ErrMsgStorageFailed       = "storage operation failed"
	ErrMsgNoStorage           = "no storage driver configured (use --driver or the config file)"
	ErrMsgLoggerFailed        = "failed to create logger"
	ErrMsgJSONMarshalFailed   = "failed to marshal JSON"
)

// Output format templates
const (
	ValidationTextSuccess = "Template is valid (%d placeholder(s))"
	PlaceholderTextFormat = "%s\t%d\t%d"
	StoreSavedFormat      = "saved %s version %d"
	StoreListFormat       = "%s\t%d\t%s"
	VersionTextTemplate   = "subst version %s\nGo: %s"
	VersionUnknown        = "unknown"
	VersionDevel          = "(devel)"
	StoreTimeLayout       = "2006-01-02T15:04:05Z07:00"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithCause = "%s: %v"
	FmtNewline        = "\n"
	JSONIndent        = "  "

	FmtDetailParameter   = "parameter: "
	FmtDetailPlaceholder = "placeholder: "
	FmtDetailSuggestions = "; did you mean: "
)
