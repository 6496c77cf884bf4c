package simpletemplate

import (
	"io"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/simpletemplate/simpletemplate-go/lexer"
	"github.com/simpletemplate/simpletemplate-go/parser"
	"github.com/simpletemplate/simpletemplate-go/value"
)

// ParseMode determines how malformed block structure is handled.
type ParseMode = parser.Mode

const (
	// ParseLenient keeps the opening tag of an unclosed block as literal
	// text and renders stray endfor, else and endif tags as variables.
	ParseLenient = parser.Lenient
	// ParseStrict reports both as ErrSyntax.
	ParseStrict = parser.Strict
)

// UndefinedBehavior determines how missing data is handled.
type UndefinedBehavior = value.UndefinedBehavior

const (
	UndefinedLenient = value.UndefinedLenient
	UndefinedStrict  = value.UndefinedStrict
)

// LoaderFunc is a function that loads template source by name.
type LoaderFunc func(name string) (string, error)

// Option configures an Environment.
type Option func(*Environment)

// WithLogger sets the logger used for compile and load messages.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// WithSyntax sets the placeholder delimiters.
func WithSyntax(config lexer.SyntaxConfig) Option {
	return func(e *Environment) {
		e.syntaxConfig = config
	}
}

// WithParseMode sets how malformed blocks are handled.
func WithParseMode(mode ParseMode) Option {
	return func(e *Environment) {
		e.parseMode = mode
	}
}

// WithUndefinedBehavior sets how missing data is handled.
func WithUndefinedBehavior(behavior UndefinedBehavior) Option {
	return func(e *Environment) {
		e.undefinedBehavior = behavior
	}
}

// WithLoader sets the loader consulted by GetTemplate for unknown names.
func WithLoader(loader LoaderFunc) Option {
	return func(e *Environment) {
		e.loader = loader
	}
}

// Environment holds the configuration and templates.
//
// An Environment is safe for concurrent use, setters included. Templates
// keep the syntax and parse mode they were compiled with; a render uses the
// undefined behavior in effect when it starts.
type Environment struct {
	templates   map[string]*compiledTemplate
	templatesMu sync.RWMutex
	logger      logrus.FieldLogger

	settingsMu        sync.RWMutex
	loader            LoaderFunc
	syntaxConfig      lexer.SyntaxConfig
	parseMode         ParseMode
	undefinedBehavior UndefinedBehavior
}

// settings is a consistent copy of the mutable configuration.
type settings struct {
	loader            LoaderFunc
	syntaxConfig      lexer.SyntaxConfig
	parseMode         ParseMode
	undefinedBehavior UndefinedBehavior
}

type compiledTemplate struct {
	name   string
	source string
	ast    *parser.Template
}

// NewEnvironment creates a new environment with default settings: `{{ `
// and ` }}` delimiters, lenient parsing and lenient undefined handling.
func NewEnvironment(opts ...Option) *Environment {
	env := &Environment{
		templates:         make(map[string]*compiledTemplate),
		logger:            logrus.StandardLogger(),
		syntaxConfig:      lexer.DefaultSyntax(),
		parseMode:         ParseLenient,
		undefinedBehavior: UndefinedLenient,
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

func (e *Environment) settings() settings {
	e.settingsMu.RLock()
	defer e.settingsMu.RUnlock()
	return settings{
		loader:            e.loader,
		syntaxConfig:      e.syntaxConfig,
		parseMode:         e.parseMode,
		undefinedBehavior: e.undefinedBehavior,
	}
}

func (e *Environment) compile(name, source string) (*compiledTemplate, error) {
	cfg := e.settings()
	ast, err := parser.Parse(source, name, cfg.syntaxConfig, cfg.parseMode)
	if err != nil {
		return nil, err
	}

	log := e.logger.WithField("template", name)
	for _, w := range ast.Warnings {
		log.WithError(w).Debug("Kept malformed block as text")
	}
	log.WithField("nodes", len(ast.Children)).Debug("Compiled template")

	return &compiledTemplate{
		name:   name,
		source: source,
		ast:    ast,
	}, nil
}

// AddTemplate compiles a template and stores it under name, replacing any
// template of the same name.
func (e *Environment) AddTemplate(name, source string) error {
	compiled, err := e.compile(name, source)
	if err != nil {
		return err
	}

	e.templatesMu.Lock()
	e.templates[name] = compiled
	e.templatesMu.Unlock()
	return nil
}

// RemoveTemplate drops a stored template. The next GetTemplate for name
// consults the loader again.
func (e *Environment) RemoveTemplate(name string) {
	e.templatesMu.Lock()
	delete(e.templates, name)
	e.templatesMu.Unlock()
}

// ClearTemplates drops all stored templates.
func (e *Environment) ClearTemplates() {
	e.templatesMu.Lock()
	e.templates = make(map[string]*compiledTemplate)
	e.templatesMu.Unlock()
}

// GetTemplate retrieves a template by name, loading and storing it through
// the loader if it has not been added yet.
func (e *Environment) GetTemplate(name string) (*Template, error) {
	e.templatesMu.RLock()
	compiled, ok := e.templates[name]
	e.templatesMu.RUnlock()

	if ok {
		return &Template{env: e, compiled: compiled}, nil
	}

	loader := e.settings().loader
	if loader == nil {
		return nil, NewError(ErrTemplateNotFound, name)
	}

	source, err := loader(name)
	if err != nil {
		return nil, NewError(ErrTemplateNotFound, name).WithName(name).WithCause(err)
	}
	e.logger.WithField("template", name).Debug("Loaded template")

	compiled, err = e.compile(name, source)
	if err != nil {
		return nil, err
	}
	e.templatesMu.Lock()
	e.templates[name] = compiled
	e.templatesMu.Unlock()

	return &Template{env: e, compiled: compiled}, nil
}

// TemplateFromString creates a template from source without storing it.
func (e *Environment) TemplateFromString(source string) (*Template, error) {
	return e.TemplateFromNamedString("<string>", source)
}

// TemplateFromNamedString creates a template from source with a name without storing it.
func (e *Environment) TemplateFromNamedString(name, source string) (*Template, error) {
	compiled, err := e.compile(name, source)
	if err != nil {
		return nil, err
	}
	return &Template{env: e, compiled: compiled}, nil
}

// SetLoader sets the template loader function.
func (e *Environment) SetLoader(loader LoaderFunc) {
	e.settingsMu.Lock()
	e.loader = loader
	e.settingsMu.Unlock()
}

// SetSyntax sets the syntax configuration.
func (e *Environment) SetSyntax(config lexer.SyntaxConfig) {
	e.settingsMu.Lock()
	e.syntaxConfig = config
	e.settingsMu.Unlock()
}

// SetParseMode sets how malformed blocks are handled.
func (e *Environment) SetParseMode(mode ParseMode) {
	e.settingsMu.Lock()
	e.parseMode = mode
	e.settingsMu.Unlock()
}

// SetUndefinedBehavior sets how undefined variables are handled.
func (e *Environment) SetUndefinedBehavior(behavior UndefinedBehavior) {
	e.settingsMu.Lock()
	e.undefinedBehavior = behavior
	e.settingsMu.Unlock()
}

// Template represents a compiled template.
type Template struct {
	env      *Environment
	compiled *compiledTemplate
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.compiled.name
}

// Source returns the template source.
func (t *Template) Source() string {
	return t.compiled.source
}

// Warnings returns the malformed blocks that were kept as literal text
// while compiling in lenient mode.
func (t *Template) Warnings() []*Error {
	return t.compiled.ast.Warnings
}

// Dump returns the parsed tree in a readable, indented form.
func (t *Template) Dump() string {
	return parser.Dump(t.compiled.ast)
}

// Render renders the template with the given context.
func (t *Template) Render(ctx any) (string, error) {
	return t.RenderValue(value.FromAny(ctx))
}

// RenderValue renders the template with a Value context.
func (t *Template) RenderValue(ctx value.Value) (string, error) {
	state := newState(t.compiled.name, t.compiled.source, ctx, t.env.settings().undefinedBehavior)
	return state.eval(t.compiled.ast)
}

// RenderTo renders the template and writes the output to w. Nothing is
// written if rendering fails.
func (t *Template) RenderTo(w io.Writer, ctx any) error {
	out, err := t.Render(ctx)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return pkgerrors.Wrapf(err, "failed to write output of %s", t.compiled.name)
	}
	return nil
}

// discardLogger returns a logger that drops every entry.
func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
