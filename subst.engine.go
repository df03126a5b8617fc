package subst

import (
	"context"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Engine keeps a registry of named templates and, optionally, a storage
// backend those templates are loaded from and saved to.
// An Engine is safe for concurrent use.
type Engine struct {
	templates map[string]*Template
	tmplMu    sync.RWMutex // Protects templates map
	config    *engineConfig
	logger    *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := applyOptions(opts)

	config.logger.Debug(LogMsgEngineCreated, zap.Bool(LogFieldStorage, config.storage != nil))

	return &Engine{
		templates: make(map[string]*Template),
		config:    config,
		logger:    config.logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Storage returns the engine's storage backend, or nil if none is configured.
func (e *Engine) Storage() TemplateStorage {
	return e.config.storage
}

// Parse parses source using the engine's logger and settings.
func (e *Engine) Parse(source string) (*Template, error) {
	return parseWithConfig(source, e.config)
}

// Execute parses and evaluates source in one step.
// For templates evaluated repeatedly, use Parse or RegisterTemplate instead.
func (e *Engine) Execute(ctx context.Context, source string, params map[string]string) (result string, err error) {
	_, span := startExecuteSpan(ctx, InlineTemplateName, len(source))
	defer func() { endSpan(span, err) }()

	tmpl, err := e.Parse(source)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.Int(SpanAttrPlaceholders, len(tmpl.placeholders)))

	return tmpl.Evaluate(params)
}

// RegisterTemplate parses source and registers it under name.
// Returns an error if name is empty, already registered, or source is invalid.
func (e *Engine) RegisterTemplate(name string, source string) error {
	if name == "" {
		return NewEmptyTemplateNameError()
	}

	tmpl, err := e.Parse(source)
	if err != nil {
		return err
	}

	e.tmplMu.Lock()
	defer e.tmplMu.Unlock()

	if _, exists := e.templates[name]; exists {
		return NewTemplateExistsError(name)
	}
	e.templates[name] = tmpl

	e.logger.Info(LogMsgTemplateRegistered,
		zap.String(LogFieldTemplateName, name),
		zap.Int(LogFieldPlaceholders, len(tmpl.placeholders)))
	return nil
}

// MustRegisterTemplate registers a template and panics on error.
func (e *Engine) MustRegisterTemplate(name string, source string) {
	if err := e.RegisterTemplate(name, source); err != nil {
		panic(err)
	}
}

// UnregisterTemplate removes a registered template by name.
// Returns true if the template existed and was removed. Storage is not touched.
func (e *Engine) UnregisterTemplate(name string) bool {
	e.tmplMu.Lock()
	defer e.tmplMu.Unlock()

	if _, exists := e.templates[name]; !exists {
		return false
	}
	delete(e.templates, name)
	e.logger.Info(LogMsgTemplateRemoved, zap.String(LogFieldTemplateName, name))
	return true
}

// GetTemplate retrieves a registered template by name.
func (e *Engine) GetTemplate(name string) (*Template, bool) {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	tmpl, ok := e.templates[name]
	return tmpl, ok
}

// HasTemplate checks if a template is registered with the given name.
func (e *Engine) HasTemplate(name string) bool {
	_, ok := e.GetTemplate(name)
	return ok
}

// ListTemplates returns all registered template names in sorted order.
func (e *Engine) ListTemplates() []string {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateCount returns the number of registered templates.
func (e *Engine) TemplateCount() int {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	return len(e.templates)
}

// ExecuteTemplate evaluates the template registered under name. If it is not
// registered and the engine has storage, the latest stored version is loaded
// and registered first.
func (e *Engine) ExecuteTemplate(ctx context.Context, name string, params map[string]string) (result string, err error) {
	ctx, span := startExecuteSpan(ctx, name, 0)
	defer func() { endSpan(span, err) }()

	tmpl, ok := e.GetTemplate(name)
	if !ok {
		if e.config.storage == nil {
			return "", NewTemplateNotFoundError(name)
		}
		tmpl, err = e.LoadTemplate(ctx, name)
		if err != nil {
			return "", err
		}
		span.AddEvent(SpanEventLoaded)
	}
	span.SetAttributes(
		attribute.Int(SpanAttrSourceLength, len(tmpl.source)),
		attribute.Int(SpanAttrPlaceholders, len(tmpl.placeholders)),
	)

	return tmpl.Evaluate(params)
}

// LoadTemplate fetches the latest version of name from storage, parses it,
// and registers it, replacing any registered template of the same name.
func (e *Engine) LoadTemplate(ctx context.Context, name string) (*Template, error) {
	if e.config.storage == nil {
		return nil, NewNoStorageError()
	}

	stored, err := e.config.storage.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	tmpl, err := e.Parse(stored.Source)
	if err != nil {
		return nil, err
	}

	e.tmplMu.Lock()
	e.templates[name] = tmpl
	e.tmplMu.Unlock()

	e.logger.Info(LogMsgTemplateLoaded,
		zap.String(LogFieldTemplateName, name),
		zap.Int(LogFieldVersion, stored.Version))
	return tmpl, nil
}

// SaveTemplate validates stored.Source and persists it as a new version.
// The parsed template replaces any registered template of the same name.
func (e *Engine) SaveTemplate(ctx context.Context, stored *StoredTemplate) error {
	if e.config.storage == nil {
		return NewNoStorageError()
	}
	if stored.Name == "" {
		return NewEmptyTemplateNameError()
	}

	tmpl, err := e.Parse(stored.Source)
	if err != nil {
		return err
	}

	if err := e.config.storage.Save(ctx, stored); err != nil {
		return err
	}

	e.tmplMu.Lock()
	e.templates[stored.Name] = tmpl
	e.tmplMu.Unlock()

	e.logger.Info(LogMsgTemplateSaved,
		zap.String(LogFieldTemplateName, stored.Name),
		zap.Int(LogFieldVersion, stored.Version))
	return nil
}

// RegisterCatalog registers every catalog entry, stopping at the first error.
// Entries registered before the failure stay registered.
func (e *Engine) RegisterCatalog(catalog *Catalog) error {
	for _, entry := range catalog.Templates {
		if err := e.RegisterTemplate(entry.Name, entry.Source); err != nil {
			return err
		}
	}
	e.logger.Info(LogMsgCatalogRegistered, zap.Int(LogFieldEntries, len(catalog.Templates)))
	return nil
}
