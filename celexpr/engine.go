// Package celexpr compiles CEL filter expressions into predicate trees.
//
// Filters are parsed, not type checked: identifiers are resolved against a
// PathResolver and typing is enforced by the expression model itself.
package celexpr

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/sirupsen/logrus"
	"github.com/zoobzio/exprql"
)

// PathResolver resolves dotted references such as "users.age" to paths.
type PathResolver interface {
	Resolve(ref string) (exprql.Expression, error)
}

type engineConfig struct {
	envOptions []cel.EnvOption
	registry   *exprql.Registry
	log        logrus.FieldLogger
}

// EngineOption customizes Engine construction.
type EngineOption func(*engineConfig)

// WithEnvOptions appends additional CEL environment options when creating the Engine.
func WithEnvOptions(opts ...cel.EnvOption) EngineOption {
	return func(cfg *engineConfig) {
		cfg.envOptions = append(cfg.envOptions, opts...)
	}
}

// WithRegistry resolves receiver calls the engine does not know through reg.
func WithRegistry(reg *exprql.Registry) EngineOption {
	return func(cfg *engineConfig) {
		cfg.registry = reg
	}
}

// WithLogger sets the logger used for compilation events.
func WithLogger(log logrus.FieldLogger) EngineOption {
	return func(cfg *engineConfig) {
		if log != nil {
			cfg.log = log
		}
	}
}

// Engine parses CEL filters into predicate trees.
type Engine struct {
	paths    PathResolver
	env      *cel.Env
	registry *exprql.Registry
	log      logrus.FieldLogger
}

// NewEngine builds a new Engine resolving identifiers through paths.
func NewEngine(paths PathResolver, opts ...EngineOption) (*Engine, error) {
	if paths == nil {
		return nil, fmt.Errorf("path resolver cannot be nil")
	}
	cfg := &engineConfig{log: logrus.StandardLogger()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	env, err := cel.NewEnv(cfg.envOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Engine{
		paths:    paths,
		env:      env,
		registry: cfg.registry,
		log:      cfg.log,
	}, nil
}

// Compile parses the filter into a predicate.
func (e *Engine) Compile(filter string) (exprql.Predicate, error) {
	expr, err := e.CompileExpr(filter)
	if err != nil {
		return exprql.Predicate{}, err
	}
	p, err := exprql.View[exprql.Predicate](expr)
	if err != nil {
		return exprql.Predicate{}, fmt.Errorf("filter must evaluate to a boolean value: %w", err)
	}
	return p, nil
}

// CompileExpr parses the filter into an expression of any result type.
func (e *Engine) CompileExpr(filter string) (exprql.Expression, error) {
	if strings.TrimSpace(filter) == "" {
		return nil, fmt.Errorf("filter expression is empty")
	}

	ast, issues := e.env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to parse filter: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to convert AST: %w", err)
	}

	b := &builder{paths: e.paths, registry: e.registry}
	out, err := b.expression(parsed.GetExpr())
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"filter": filter,
		"tree":   out.String(),
	}).Debug("filter compiled")
	return out, nil
}
