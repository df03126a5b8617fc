package main

import (
	"io"
	"os"
	"strings"

	"github.com/itsatony/go-subst"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// loadParams merges the parameters file (if any) with key=value pairs.
// Pairs given on the command line win over the file.
func loadParams(pairs []string, filePath string) (map[string]string, error) {
	params := make(map[string]string)

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, exitError(ErrMsgReadParamsFailed, err, ExitCodeInputError)
		}
		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, exitError(ErrMsgReadParamsFailed, err, ExitCodeInputError)
		}
		if params == nil {
			params = make(map[string]string)
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, ParamSeparator)
		if !ok || key == "" {
			return nil, exitError(ErrMsgInvalidParam, nil, ExitCodeUsageError)
		}
		params[key] = value
	}

	return params, nil
}

// loadConfig reads the --config file, or returns the defaults when none is given.
func loadConfig(cmd *cli.Command) (*subst.Config, error) {
	path := cmd.String(FlagConfig)
	if path == "" {
		return subst.DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, exitError(ErrMsgReadConfigFailed, err, ExitCodeInputError)
	}
	config, err := subst.LoadConfig(data)
	if err != nil {
		return nil, exitError(ErrMsgReadConfigFailed, err, ExitCodeUsageError)
	}
	return config, nil
}

// loadCatalog reads and validates a catalog file, picking the format by extension.
func loadCatalog(path string) (*subst.Catalog, error) {
	format, ok := subst.CatalogFormatFromPath(path)
	if !ok {
		return nil, exitError(ErrMsgUnknownCatalogExt, nil, ExitCodeUsageError)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, exitError(ErrMsgReadCatalogFailed, err, ExitCodeInputError)
	}
	catalog, err := subst.ParseCatalog(data, format)
	if err != nil {
		return nil, exitError(ErrMsgReadCatalogFailed, err, ExitCodeValidationError)
	}
	return catalog, nil
}

// newEngine builds an Engine from the config file and command flags.
// Flags override the config file. The returned cleanup closes storage and
// flushes the logger.
func newEngine(cmd *cli.Command, withStorage bool) (*subst.Engine, func(), error) {
	config, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	if driver := cmd.String(FlagDriver); driver != "" {
		config.Storage.Driver = driver
	}
	if dsn := cmd.String(FlagDSN); dsn != "" {
		config.Storage.DSN = dsn
	}
	if catalog := cmd.String(FlagCatalog); catalog != "" {
		config.Catalog = catalog
	}

	logger, err := config.NewLogger()
	if err != nil {
		return nil, nil, exitError(ErrMsgLoggerFailed, err, ExitCodeError)
	}

	opts := []subst.Option{subst.WithLogger(logger)}
	var storage subst.TemplateStorage
	if withStorage {
		if config.Storage.Driver == "" {
			_ = logger.Sync()
			return nil, nil, exitError(ErrMsgNoStorage, nil, ExitCodeUsageError)
		}
		storage, err = config.OpenStorage()
		if err != nil {
			_ = logger.Sync()
			return nil, nil, exitError(ErrMsgStorageFailed, err, ExitCodeError)
		}
		opts = append(opts, subst.WithStorage(storage))
	}

	cleanup := func() {
		if storage != nil {
			_ = storage.Close()
		}
		_ = logger.Sync()
	}

	engine, err := subst.New(opts...)
	if err != nil {
		cleanup()
		return nil, nil, exitError(ErrMsgExecuteFailed, err, ExitCodeError)
	}

	if config.Catalog != "" {
		catalog, err := loadCatalog(config.Catalog)
		if err == nil {
			err = engine.RegisterCatalog(catalog)
		}
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	return engine, cleanup, nil
}

// evalExitError classifies a parse or evaluation failure.
func evalExitError(msg string, err error) error {
	if subst.IsDuplicatePlaceholder(err) || subst.IsMissingParameter(err) || subst.IsInvalidValue(err) {
		return exitError(msg, describeError(err), ExitCodeValidationError)
	}
	if subst.IsTemplateNotFound(err) {
		return exitError(msg, err, ExitCodeInputError)
	}
	return exitError(msg, err, ExitCodeError)
}

// describeError appends the offending parameter and any suggestions to err.
func describeError(err error) error {
	param, ok := subst.ErrorMetadata(err, subst.MetaKeyParameter)
	if !ok {
		if name, found := subst.ErrorMetadata(err, subst.MetaKeyPlaceholder); found {
			return &detailedError{err: err, detail: FmtDetailPlaceholder + name}
		}
		return err
	}
	detail := FmtDetailParameter + param
	if suggestions, found := subst.ErrorMetadata(err, subst.MetaKeySuggestions); found {
		detail += FmtDetailSuggestions + suggestions
	}
	return &detailedError{err: err, detail: detail}
}

type detailedError struct {
	err    error
	detail string
}

func (e *detailedError) Error() string {
	return e.err.Error() + " (" + e.detail + ")"
}

func (e *detailedError) Unwrap() error {
	return e.err
}
